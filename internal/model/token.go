// Package model defines domain entities for the application.
package model

import (
	"slices"
	"time"
)

// Scope constants for token authorization.
const (
	ScopeRead  = "read"
	ScopeWrite = "write"
	ScopeAdmin = "admin"
)

// ValidScopes contains all valid scope values.
var ValidScopes = []string{ScopeRead, ScopeWrite, ScopeAdmin}

// RateLimitTier constants.
const (
	TierFree      = "free"
	TierPro       = "pro"
	TierUnlimited = "unlimited"
)

// RateLimitConfig defines rate limit parameters per tier.
type RateLimitConfig struct {
	RequestsPerMinute int
	Burst             int
}

// TierConfigs maps tier names to their rate limit configurations.
var TierConfigs = map[string]RateLimitConfig{
	TierFree:      {RequestsPerMinute: 60, Burst: 10},
	TierPro:       {RequestsPerMinute: 600, Burst: 50},
	TierUnlimited: {RequestsPerMinute: 0, Burst: 0}, // 0 means unlimited
}

// Token represents an access token entity.
// The plaintext token is shown once at mint time; only the Argon2id hash
// is stored.
type Token struct {
	ID            string     `json:"id"`
	UserID        string     `json:"user_id"`
	TokenHash     string     `json:"-"` // Never serialize
	TokenPrefix   string     `json:"token_prefix"`
	Scopes        []string   `json:"scopes"`
	RateLimitTier string     `json:"rate_limit_tier"`
	Name          string     `json:"name,omitempty"`
	RevokedAt     *time.Time `json:"revoked_at,omitempty"`
	LastUsedAt    *time.Time `json:"last_used_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// IsRevoked returns true if the token has been revoked.
func (t *Token) IsRevoked() bool {
	return t.RevokedAt != nil
}

// HasScope checks if the token has a specific scope.
// Admin scope implies all other scopes.
func (t *Token) HasScope(scope string) bool {
	if slices.Contains(t.Scopes, ScopeAdmin) {
		return true
	}
	return slices.Contains(t.Scopes, scope)
}

// GetRateLimitConfig returns the rate limit configuration for this token.
func (t *Token) GetRateLimitConfig() RateLimitConfig {
	if config, ok := TierConfigs[t.RateLimitTier]; ok {
		return config
	}
	return TierConfigs[TierFree] // Default to free tier
}

// AuthContext holds the authenticated requester identity.
// This is injected into the request context by auth middleware and is
// the only source of the owner id for every scoped operation.
type AuthContext struct {
	TokenID       string
	TokenPrefix   string
	UserID        string
	Scopes        []string
	RateLimitTier string
}

// HasScope checks if the auth context has a specific scope.
func (a *AuthContext) HasScope(scope string) bool {
	if slices.Contains(a.Scopes, ScopeAdmin) {
		return true
	}
	return slices.Contains(a.Scopes, scope)
}

// TokenCreateRequest represents a request to mint a new token.
type TokenCreateRequest struct {
	Name   string   `json:"name,omitempty"`
	Scopes []string `json:"scopes"`
}

// TokenResponse represents a token in API responses (without secrets).
type TokenResponse struct {
	ID            string     `json:"id"`
	Name          string     `json:"name,omitempty"`
	TokenPrefix   string     `json:"token_prefix"`
	Scopes        []string   `json:"scopes"`
	RateLimitTier string     `json:"rate_limit_tier"`
	CreatedAt     time.Time  `json:"created_at"`
	LastUsedAt    *time.Time `json:"last_used_at,omitempty"`
	Revoked       bool       `json:"revoked"`
}

// ToResponse converts a Token to TokenResponse.
func (t *Token) ToResponse() TokenResponse {
	return TokenResponse{
		ID:            t.ID,
		Name:          t.Name,
		TokenPrefix:   t.TokenPrefix,
		Scopes:        t.Scopes,
		RateLimitTier: t.RateLimitTier,
		CreatedAt:     t.CreatedAt,
		LastUsedAt:    t.LastUsedAt,
		Revoked:       t.IsRevoked(),
	}
}

// TokenCreateResponse includes the plaintext token (shown only once).
type TokenCreateResponse struct {
	ID            string    `json:"id"`
	Token         string    `json:"token"` // Plaintext - display once only!
	Name          string    `json:"name,omitempty"`
	TokenPrefix   string    `json:"token_prefix"`
	Scopes        []string  `json:"scopes"`
	RateLimitTier string    `json:"rate_limit_tier"`
	CreatedAt     time.Time `json:"created_at"`
}
