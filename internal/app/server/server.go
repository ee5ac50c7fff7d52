package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"appraisal/internal/domain/auth"
	"appraisal/internal/domain/evaluations"
	"appraisal/internal/domain/goals"
	"appraisal/internal/domain/notifications"
	"appraisal/internal/domain/reports"
	"appraisal/internal/domain/users"
	"appraisal/internal/platform/cache"
	"appraisal/internal/platform/config"
	"appraisal/internal/platform/db"
	"appraisal/internal/platform/metrics"
	"appraisal/internal/platform/storage"
	"appraisal/internal/transport/http/api"
	adminhandler "appraisal/internal/transport/http/handlers/admin"
	authhandler "appraisal/internal/transport/http/handlers/auth"
	dashboardhandler "appraisal/internal/transport/http/handlers/dashboard"
	evaluationshandler "appraisal/internal/transport/http/handlers/evaluations"
	goalshandler "appraisal/internal/transport/http/handlers/goals"
	managerhandler "appraisal/internal/transport/http/handlers/manager"
	notificationshandler "appraisal/internal/transport/http/handlers/notifications"
	reportshandler "appraisal/internal/transport/http/handlers/reports"
	"appraisal/internal/transport/http/middleware"
)

type App struct {
	Config   config.Config
	DB       *pgxpool.Pool
	Redis    *redis.Client
	Metrics  *metrics.Collector
	Services Services
	Router   http.Handler
}

// Stores groups the persistence backends behind each domain service.
type Stores struct {
	Users         users.StoreAPI
	Goals         goals.StoreAPI
	Evaluations   evaluations.StoreAPI
	Notifications notifications.StoreAPI
}

func PostgresStores(pool *pgxpool.Pool) Stores {
	return Stores{
		Users:         users.NewStore(pool),
		Goals:         goals.NewStore(pool),
		Evaluations:   evaluations.NewStore(pool),
		Notifications: notifications.NewStore(pool),
	}
}

type Services struct {
	Tokens        *auth.Tokens
	Users         *users.Service
	Goals         *goals.Service
	Evaluations   *evaluations.Service
	Notifications *notifications.Service
	Reports       *reports.Service
}

func NewServices(cfg config.Config, stores Stores) Services {
	tokens := auth.NewTokens(cfg.JWTSecret, cfg.TokenTTL)
	usersService := users.NewService(stores.Users, tokens)
	notifier := notifications.New(stores.Notifications)
	if cfg.NotificationListLimit > 0 {
		notifier.DefaultLimit = cfg.NotificationListLimit
	}
	goalsService := goals.NewService(stores.Goals, usersService, notifier)
	evaluationsService := evaluations.NewService(stores.Evaluations, usersService, notifier)

	return Services{
		Tokens:        tokens,
		Users:         usersService,
		Goals:         goalsService,
		Evaluations:   evaluationsService,
		Notifications: notifier,
		Reports:       reports.NewService(usersService, goalsService, evaluationsService),
	}
}

// RouterOptions carries the optional collaborators of the router.
type RouterOptions struct {
	Metrics *metrics.Collector
	Counter middleware.Counter
	Ready   func(ctx context.Context) error
}

func NewRouter(cfg config.Config, svc Services, opts RouterOptions) http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(opts.Metrics))
	router.Use(middleware.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.Environment == "production"))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if opts.Ready != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := opts.Ready(ctx); err != nil {
				slog.Warn("readiness check failed", "err", err)
				http.Error(w, "not ready", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	if cfg.MetricsEnabled && opts.Metrics != nil {
		router.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
			api.Success(w, opts.Metrics.Snapshot(), middleware.GetRequestID(r.Context()))
		})
	}

	limitOpts := []middleware.RateLimitOption{
		middleware.WithClientIP(middleware.NewClientIP(cfg.TrustedProxyPrefixes())),
	}
	if opts.Counter != nil {
		limitOpts = append(limitOpts, middleware.WithCounter(opts.Counter))
	}

	authHandler := authhandler.NewHandler(svc.Users)
	evaluationsHandler := evaluationshandler.NewHandler(svc.Evaluations)

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute, limitOpts...))

		r.Group(func(r chi.Router) {
			r.Use(middleware.CredentialRateLimit(cfg.RateLimitPerMinute, time.Minute, limitOpts...))
			r.Post("/auth/register", authHandler.HandleRegister)
			r.Post("/auth/login", authHandler.HandleLogin)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(svc.Tokens, svc.Users))

			authHandler.RegisterRoutes(r)
			goalshandler.NewHandler(svc.Goals).RegisterRoutes(r)
			evaluationsHandler.RegisterRoutes(r)
			managerhandler.NewHandler(svc.Users, evaluationsHandler).RegisterRoutes(r)
			dashboardhandler.NewHandler(svc.Reports).RegisterRoutes(r)
			adminhandler.NewHandler(svc.Users, svc.Reports).RegisterRoutes(r)
			notificationshandler.NewHandler(svc.Notifications).RegisterRoutes(r)
			reportshandler.NewHandler(svc.Reports).RegisterRoutes(r)
		})
	})

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		api.Fail(w, http.StatusNotFound, "not_found", "route not found", middleware.GetRequestID(r.Context()))
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		api.Fail(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed", middleware.GetRequestID(r.Context()))
	})

	return router
}

// New connects every backing service, applies migrations and the seed, and
// assembles the router.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = uuid.NewString() + uuid.NewString()
		slog.Warn("JWT_SECRET not set; using an ephemeral signing secret", "env", cfg.Environment)
	}

	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("db connect: %w", err)
	}
	app := &App{Config: cfg, DB: pool, Metrics: metrics.New()}

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool); err != nil {
			app.Close()
			return nil, err
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			app.Close()
			return nil, fmt.Errorf("seed: %w", err)
		}
	}

	app.Redis, err = cache.Connect(ctx, cfg.RedisURL)
	if err != nil {
		app.Close()
		return nil, err
	}

	app.Services = NewServices(cfg, PostgresStores(pool))
	app.Services.Notifications.OnFailure = app.Metrics.NotificationFailed

	if cfg.StorageEnabled() {
		presigner, err := storage.NewS3Presigner(ctx, cfg)
		if err != nil {
			app.Close()
			return nil, err
		}
		app.Services.Users.Presigner = presigner
	}

	opts := RouterOptions{Metrics: app.Metrics, Ready: app.ready}
	if app.Redis != nil {
		opts.Counter = middleware.NewRedisCounter(app.Redis)
	}
	app.Router = NewRouter(cfg, app.Services, opts)
	return app, nil
}

func (a *App) ready(ctx context.Context) error {
	if err := a.DB.Ping(ctx); err != nil {
		return fmt.Errorf("db: %w", err)
	}
	if a.Redis != nil {
		if err := a.Redis.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis: %w", err)
		}
	}
	return nil
}

func (a *App) Close() {
	if a.Redis != nil {
		_ = a.Redis.Close()
	}
	if a.DB != nil {
		a.DB.Close()
	}
}

// Run serves until SIGINT or SIGTERM, then drains in-flight requests.
func Run() error {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := New(ctx, config.Load())
	if err != nil {
		return err
	}
	defer app.Close()

	srv := &http.Server{
		Addr:              app.Config.Addr,
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("appraisal server listening", "addr", app.Config.Addr, "env", app.Config.Environment)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	slog.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}
