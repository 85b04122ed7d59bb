package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/recipebox/recipebox/internal/model"
)

// RequireEnv returns an environment variable or skips the test if missing.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

const advisoryLockID int64 = 420421

// AcquireDBLock grabs a global advisory lock to serialize DB tests.
func AcquireDBLock(ctx context.Context, pool *pgxpool.Pool) (func() error, error) {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}

	if _, err := conn.Exec(ctx, "SELECT pg_advisory_lock($1)", advisoryLockID); err != nil {
		conn.Release()
		return nil, fmt.Errorf("acquire advisory lock: %w", err)
	}

	unlock := func() error {
		defer conn.Release()
		if _, err := conn.Exec(ctx, "SELECT pg_advisory_unlock($1)", advisoryLockID); err != nil {
			return fmt.Errorf("release advisory lock: %w", err)
		}
		return nil
	}

	return unlock, nil
}

// applyMigration runs a down migration followed by its up counterpart.
func applyMigration(ctx context.Context, pool *pgxpool.Pool, name string) error {
	root, err := ProjectRoot()
	if err != nil {
		return err
	}

	downPath := filepath.Join(root, "migrations", name+".down.sql")
	upPath := filepath.Join(root, "migrations", name+".up.sql")

	downSQL, err := os.ReadFile(downPath)
	if err != nil {
		return fmt.Errorf("read down migration: %w", err)
	}
	if _, err := pool.Exec(ctx, string(downSQL)); err != nil {
		return fmt.Errorf("apply down migration: %w", err)
	}

	upSQL, err := os.ReadFile(upPath)
	if err != nil {
		return fmt.Errorf("read up migration: %w", err)
	}
	if _, err := pool.Exec(ctx, string(upSQL)); err != nil {
		return fmt.Errorf("apply up migration: %w", err)
	}

	return nil
}

// ResetUsersSchema drops and recreates the users schema for tests.
// Dependent tables reference users, so this cascades through everything.
func ResetUsersSchema(ctx context.Context, pool *pgxpool.Pool) error {
	return applyMigration(ctx, pool, "000001_users")
}

// ResetTokensSchema drops and recreates the tokens schema for tests.
func ResetTokensSchema(ctx context.Context, pool *pgxpool.Pool) error {
	return applyMigration(ctx, pool, "000002_tokens")
}

// ResetRecipeSchema drops and recreates the recipe domain schema
// (tags, ingredients, recipes and attachment tables) for tests.
func ResetRecipeSchema(ctx context.Context, pool *pgxpool.Pool) error {
	return applyMigration(ctx, pool, "000003_recipes")
}

// ResetAllSchemas rebuilds the full schema.
// Users go first; everything else hangs off them, and the users down
// migration cascades through dependent tables.
func ResetAllSchemas(ctx context.Context, pool *pgxpool.Pool) error {
	if err := ResetUsersSchema(ctx, pool); err != nil {
		return err
	}
	if err := ResetTokensSchema(ctx, pool); err != nil {
		return err
	}
	return ResetRecipeSchema(ctx, pool)
}

// FlushRedis clears the current Redis database.
func FlushRedis(ctx context.Context, client *redis.Client) error {
	return client.FlushDB(ctx).Err()
}

// ProjectRoot returns the project root directory.
func ProjectRoot() (string, error) {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return "", fmt.Errorf("failed to resolve testutil path")
	}
	root := filepath.Clean(filepath.Join(filepath.Dir(filename), "..", ".."))
	return root, nil
}

// ============================================================================
// Test Data Factories
// ============================================================================

// NewTestUser creates a test user with sensible defaults.
func NewTestUser(t testing.TB) *model.User {
	t.Helper()
	now := time.Now().UTC()
	return &model.User{
		ID:        fmt.Sprintf("user-%d", now.UnixNano()),
		Email:     fmt.Sprintf("user-%d@example.com", now.UnixNano()),
		CreatedAt: now,
	}
}

// NewTestTag creates a test tag owned by the given user.
func NewTestTag(t testing.TB, ownerID, name string) *model.Tag {
	t.Helper()
	return &model.Tag{
		Name:      name,
		OwnerID:   ownerID,
		CreatedAt: time.Now().UTC(),
	}
}

// NewTestIngredient creates a test ingredient owned by the given user.
func NewTestIngredient(t testing.TB, ownerID, name string) *model.Ingredient {
	t.Helper()
	return &model.Ingredient{
		Name:      name,
		OwnerID:   ownerID,
		CreatedAt: time.Now().UTC(),
	}
}

// NewTestRecipe creates a test recipe with sensible defaults.
func NewTestRecipe(t testing.TB, ownerID, title string) *model.Recipe {
	t.Helper()
	now := time.Now().UTC()
	return &model.Recipe{
		Title:       title,
		TimeMinutes: 30,
		Price:       decimal.NewFromFloat(5.50),
		OwnerID:     ownerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// NewTestToken creates a test token with sensible defaults.
func NewTestToken(t testing.TB, userID string) *model.Token {
	t.Helper()
	now := time.Now().UTC()
	return &model.Token{
		ID:            fmt.Sprintf("token-%d", now.UnixNano()),
		UserID:        userID,
		TokenHash:     fmt.Sprintf("hash-%d", now.UnixNano()),
		TokenPrefix:   "rcp_test_",
		Scopes:        []string{model.ScopeRead, model.ScopeWrite},
		RateLimitTier: model.TierFree,
		Name:          "Test Token",
		CreatedAt:     now,
	}
}

// NewTestTokenWithTier creates a test token with a specific tier.
func NewTestTokenWithTier(t testing.TB, userID string, tier string) *model.Token {
	t.Helper()
	token := NewTestToken(t, userID)
	token.RateLimitTier = tier
	return token
}

// UniqueID generates a unique ID for tests.
func UniqueID(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}
