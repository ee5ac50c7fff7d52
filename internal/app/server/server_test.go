package server_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"appraisal/internal/app/server"
	"appraisal/internal/platform/config"
	"appraisal/internal/platform/metrics"
	"appraisal/internal/testutil/memstore"
)

func testRouter(cfg config.Config, opts server.RouterOptions) http.Handler {
	store := memstore.New()
	svc := server.NewServices(cfg, server.Stores{Users: store, Goals: store, Evaluations: store, Notifications: store})
	return server.NewRouter(cfg, svc, opts)
}

func baseConfig() config.Config {
	return config.Config{
		Environment:        "test",
		JWTSecret:          "router-secret",
		TokenTTL:           time.Hour,
		MaxBodyBytes:       1024,
		RateLimitPerMinute: 100,
	}
}

func TestMetricsRouteFollowsConfig(t *testing.T) {
	cfg := baseConfig()
	router := testRouter(cfg, server.RouterOptions{Metrics: metrics.New()})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	cfg.MetricsEnabled = true
	router = testRouter(cfg, server.RouterOptions{Metrics: metrics.New()})
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadinessReportsDependencyFailure(t *testing.T) {
	router := testRouter(baseConfig(), server.RouterOptions{
		Ready: func(context.Context) error { return errors.New("db down") },
	})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestSecurityHeadersAndRequestID(t *testing.T) {
	router := testRouter(baseConfig(), server.RouterOptions{})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	_, err := server.New(context.Background(), config.Config{})
	assert.Error(t, err)
}
