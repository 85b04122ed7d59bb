//go:build integration

package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/recipebox/recipebox/internal/model"
	"github.com/recipebox/recipebox/internal/testutil"
)

// ============================================================================
// Token Repository Integration Tests
// ============================================================================

func TestIntegrationTokenRepository_CreateToken(t *testing.T) {
	ctx, repo, userID := newTokenTestEnv(t)

	token := testutil.NewTestToken(t, userID)

	if err := repo.CreateToken(ctx, token); err != nil {
		t.Fatalf("CreateToken failed: %v", err)
	}

	retrieved, err := repo.GetTokenByID(ctx, token.ID)
	if err != nil {
		t.Fatalf("GetTokenByID failed: %v", err)
	}
	if retrieved.UserID != userID {
		t.Errorf("UserID mismatch: got %q, want %q", retrieved.UserID, userID)
	}
	if retrieved.TokenHash != token.TokenHash {
		t.Errorf("TokenHash mismatch: got %q, want %q", retrieved.TokenHash, token.TokenHash)
	}
	if retrieved.RateLimitTier != model.TierFree {
		t.Errorf("RateLimitTier mismatch: got %q, want %q", retrieved.RateLimitTier, model.TierFree)
	}
	if len(retrieved.Scopes) != 2 {
		t.Errorf("Expected 2 scopes, got %v", retrieved.Scopes)
	}
}

func TestIntegrationTokenRepository_GetByID_NotFound(t *testing.T) {
	ctx, repo, _ := newTokenTestEnv(t)

	_, err := repo.GetTokenByID(ctx, "nonexistent-token-id")
	if !errors.Is(err, ErrTokenNotFound) {
		t.Errorf("Expected ErrTokenNotFound, got: %v", err)
	}
}

func TestIntegrationTokenRepository_GetByPrefix(t *testing.T) {
	ctx, repo, userID := newTokenTestEnv(t)

	token := testutil.NewTestToken(t, userID)
	token.TokenPrefix = "rcp_live_abc123"

	if err := repo.CreateToken(ctx, token); err != nil {
		t.Fatalf("CreateToken failed: %v", err)
	}

	tokens, err := repo.GetTokensByPrefix(ctx, "rcp_live_abc123")
	if err != nil {
		t.Fatalf("GetTokensByPrefix failed: %v", err)
	}
	if len(tokens) != 1 {
		t.Fatalf("Expected 1 token, got %d", len(tokens))
	}
	if tokens[0].ID != token.ID {
		t.Errorf("ID mismatch: got %q, want %q", tokens[0].ID, token.ID)
	}
}

func TestIntegrationTokenRepository_GetByPrefix_ExcludesRevoked(t *testing.T) {
	ctx, repo, userID := newTokenTestEnv(t)

	token := testutil.NewTestToken(t, userID)
	token.TokenPrefix = "rcp_live_revoked"

	if err := repo.CreateToken(ctx, token); err != nil {
		t.Fatalf("CreateToken failed: %v", err)
	}
	if err := repo.RevokeToken(ctx, token.ID); err != nil {
		t.Fatalf("RevokeToken failed: %v", err)
	}

	tokens, err := repo.GetTokensByPrefix(ctx, "rcp_live_revoked")
	if err != nil {
		t.Fatalf("GetTokensByPrefix failed: %v", err)
	}
	if len(tokens) != 0 {
		t.Errorf("Expected revoked tokens excluded, got %d", len(tokens))
	}
}

func TestIntegrationTokenRepository_ListByUserID(t *testing.T) {
	ctx, repo, userID := newTokenTestEnv(t)

	for range 3 {
		token := testutil.NewTestToken(t, userID)
		token.ID = testutil.UniqueID("token")
		if err := repo.CreateToken(ctx, token); err != nil {
			t.Fatalf("CreateToken failed: %v", err)
		}
	}

	tokens, err := repo.ListTokensByUserID(ctx, userID)
	if err != nil {
		t.Fatalf("ListTokensByUserID failed: %v", err)
	}
	if len(tokens) != 3 {
		t.Errorf("Expected 3 tokens, got %d", len(tokens))
	}
}

func TestIntegrationTokenRepository_RevokeToken(t *testing.T) {
	ctx, repo, userID := newTokenTestEnv(t)

	token := testutil.NewTestToken(t, userID)
	if err := repo.CreateToken(ctx, token); err != nil {
		t.Fatalf("CreateToken failed: %v", err)
	}

	if err := repo.RevokeToken(ctx, token.ID); err != nil {
		t.Fatalf("RevokeToken failed: %v", err)
	}

	retrieved, err := repo.GetTokenByID(ctx, token.ID)
	if err != nil {
		t.Fatalf("GetTokenByID failed: %v", err)
	}
	if retrieved.RevokedAt == nil {
		t.Error("RevokedAt should be set after revocation")
	}

	// Revoking twice is a not-found.
	err = repo.RevokeToken(ctx, token.ID)
	if !errors.Is(err, ErrTokenNotFound) {
		t.Errorf("Expected ErrTokenNotFound on double revoke, got: %v", err)
	}
}

func TestIntegrationTokenRepository_UpdateLastUsed(t *testing.T) {
	ctx, repo, userID := newTokenTestEnv(t)

	token := testutil.NewTestToken(t, userID)
	if err := repo.CreateToken(ctx, token); err != nil {
		t.Fatalf("CreateToken failed: %v", err)
	}

	if err := repo.UpdateTokenLastUsed(ctx, token.ID); err != nil {
		t.Fatalf("UpdateTokenLastUsed failed: %v", err)
	}

	retrieved, err := repo.GetTokenByID(ctx, token.ID)
	if err != nil {
		t.Fatalf("GetTokenByID failed: %v", err)
	}
	if retrieved.LastUsedAt == nil {
		t.Error("LastUsedAt should be set")
	}
}

func newTokenTestEnv(t *testing.T) (context.Context, *Repository, string) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration tests in short mode")
	}

	ctx := context.Background()
	dbURL := testutil.RequireEnv(t, "DATABASE_URL")

	repo, err := New(ctx, dbURL)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(repo.Close)

	unlock, err := testutil.AcquireDBLock(ctx, repo.Pool())
	if err != nil {
		t.Fatalf("acquire db lock: %v", err)
	}
	t.Cleanup(func() {
		_ = unlock()
	})

	if err := testutil.ResetAllSchemas(ctx, repo.Pool()); err != nil {
		t.Fatalf("reset schemas: %v", err)
	}

	user := testutil.NewTestUser(t)
	if err := repo.CreateUser(ctx, user); err != nil {
		t.Fatalf("create user: %v", err)
	}

	return ctx, repo, user.ID
}
