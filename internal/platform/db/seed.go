package db

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"appraisal/internal/domain/auth"
	"appraisal/internal/platform/config"
)

// Seed creates the initial HR Admin when one is configured and absent.
func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	return ensureAdminUser(ctx, pool, cfg.SeedAdminEmail, cfg.SeedAdminPassword, cfg.SeedAdminName)
}

func ensureAdminUser(ctx context.Context, pool *pgxpool.Pool, email, password, name string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || strings.TrimSpace(password) == "" {
		return nil
	}

	var id string
	err := pool.QueryRow(ctx, "SELECT id FROM users WHERE email = $1", email).Scan(&id)
	if err == nil {
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	if strings.TrimSpace(name) == "" {
		name = "HR Admin"
	}

	err = pool.QueryRow(ctx, `
    INSERT INTO users (email, name, password_hash, role, department)
    VALUES ($1, $2, $3, $4, $5)
    RETURNING id
  `, email, name, hash, string(auth.RoleHR), "Human Resources").Scan(&id)
	if err != nil {
		return err
	}
	slog.Info("seeded hr admin", "userId", id, "email", email)
	return nil
}
