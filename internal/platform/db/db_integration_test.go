package db

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"appraisal/internal/domain/auth"
	"appraisal/internal/platform/config"
)

func TestMigrateAndSeedAreIdempotent(t *testing.T) {
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	cfg := config.Config{
		DatabaseURL:       dbURL,
		SeedAdminEmail:    "Seed-Admin@Test.Local",
		SeedAdminPassword: "ChangeMe123!",
	}

	pool, err := Connect(ctx, cfg)
	require.NoError(t, err)
	defer pool.Close()

	require.NoError(t, Migrate(ctx, pool))
	require.NoError(t, Migrate(ctx, pool))
	require.NoError(t, Seed(ctx, pool, cfg))
	require.NoError(t, Seed(ctx, pool, cfg))

	var count int
	var role, hash string
	require.NoError(t, pool.QueryRow(ctx, "SELECT COUNT(*) FROM users WHERE email = $1", "seed-admin@test.local").Scan(&count))
	assert.Equal(t, 1, count)
	require.NoError(t, pool.QueryRow(ctx, "SELECT role, password_hash FROM users WHERE email = $1", "seed-admin@test.local").Scan(&role, &hash))
	assert.Equal(t, string(auth.RoleHR), role)
	assert.NoError(t, auth.CheckPassword(hash, cfg.SeedAdminPassword))
}

func TestSeedWithoutAdminIsNoop(t *testing.T) {
	assert.NoError(t, ensureAdminUser(context.Background(), nil, "", "", ""))
}
