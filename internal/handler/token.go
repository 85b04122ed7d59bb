package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/oklog/ulid/v2"

	"github.com/recipebox/recipebox/internal/auth"
	"github.com/recipebox/recipebox/internal/cache"
	"github.com/recipebox/recipebox/internal/model"
	"github.com/recipebox/recipebox/internal/repository"
)

// TokenHandler handles access token management endpoints.
type TokenHandler struct {
	logger     *slog.Logger
	repository *repository.Repository
	cache      *cache.Cache
}

// NewTokenHandler creates a new TokenHandler.
func NewTokenHandler(logger *slog.Logger, repo *repository.Repository, cacheClient *cache.Cache) *TokenHandler {
	return &TokenHandler{
		logger:     logger,
		repository: repo,
		cache:      cacheClient,
	}
}

// CreateToken handles POST /api/v1/tokens
func (h *TokenHandler) CreateToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	authCtx := auth.AuthFromContext(ctx)
	if authCtx == nil {
		writeTokenError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	// Parse request body
	var req model.TokenCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeTokenError(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}

	// Validate scopes
	for _, scope := range req.Scopes {
		if !slices.Contains(model.ValidScopes, scope) {
			writeTokenError(w, http.StatusBadRequest, "INVALID_SCOPE",
				"Invalid scope: "+scope+". Valid scopes: read, write, admin")
			return
		}
	}

	// Default to read scope if none provided
	if len(req.Scopes) == 0 {
		req.Scopes = []string{model.ScopeRead}
	}

	// Generate new token
	generated, err := auth.GenerateToken(auth.EnvLive)
	if err != nil {
		h.logger.Error("failed to generate token", slog.String("error", err.Error()))
		writeTokenError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to generate token")
		return
	}

	// Create token entity
	token := &model.Token{
		ID:            ulid.Make().String(),
		UserID:        authCtx.UserID,
		TokenHash:     generated.Hash,
		TokenPrefix:   generated.Prefix,
		Scopes:        req.Scopes,
		RateLimitTier: model.TierFree,
		Name:          req.Name,
		CreatedAt:     time.Now(),
	}

	// Store in database
	if err := h.repository.CreateToken(ctx, token); err != nil {
		h.logger.Error("failed to create token", slog.String("error", err.Error()))
		writeTokenError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create token")
		return
	}

	h.logger.Info("token created",
		slog.String("token_id", token.ID),
		slog.String("token_prefix", token.TokenPrefix),
		slog.String("user_id", token.UserID),
	)

	// Return response with plaintext token (shown once only!)
	response := model.TokenCreateResponse{
		ID:            token.ID,
		Token:         generated.Plaintext,
		Name:          token.Name,
		TokenPrefix:   token.TokenPrefix,
		Scopes:        token.Scopes,
		RateLimitTier: token.RateLimitTier,
		CreatedAt:     token.CreatedAt,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(response)
}

// ListTokens handles GET /api/v1/tokens
func (h *TokenHandler) ListTokens(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	authCtx := auth.AuthFromContext(ctx)
	if authCtx == nil {
		writeTokenError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	tokens, err := h.repository.ListTokensByUserID(ctx, authCtx.UserID)
	if err != nil {
		h.logger.Error("failed to list tokens", slog.String("error", err.Error()))
		writeTokenError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list tokens")
		return
	}

	// Convert to response format (without secrets)
	responses := make([]model.TokenResponse, 0, len(tokens))
	for _, token := range tokens {
		responses = append(responses, token.ToResponse())
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"tokens": responses})
}

// RevokeToken handles DELETE /api/v1/tokens/{token_id}
func (h *TokenHandler) RevokeToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	authCtx := auth.AuthFromContext(ctx)
	if authCtx == nil {
		writeTokenError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	// Extract token_id from path
	tokenID := chi.URLParam(r, "token_id")
	if tokenID == "" {
		writeTokenError(w, http.StatusBadRequest, "INVALID_REQUEST", "Token ID is required")
		return
	}

	// Verify token belongs to user
	token, err := h.repository.GetTokenByID(ctx, tokenID)
	if err != nil {
		// Return 404 for both not found and already revoked (security)
		writeTokenError(w, http.StatusNotFound, "TOKEN_NOT_FOUND", "Token not found or already revoked")
		return
	}

	if token.UserID != authCtx.UserID {
		// Return 404 to prevent enumeration
		writeTokenError(w, http.StatusNotFound, "TOKEN_NOT_FOUND", "Token not found or already revoked")
		return
	}

	if token.IsRevoked() {
		writeTokenError(w, http.StatusNotFound, "TOKEN_NOT_FOUND", "Token not found or already revoked")
		return
	}

	// Revoke the token
	if err := h.repository.RevokeToken(ctx, tokenID); err != nil {
		h.logger.Error("failed to revoke token", slog.String("error", err.Error()))
		writeTokenError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to revoke token")
		return
	}

	// Drop any cached auth context so the revoke takes effect immediately
	if err := h.cache.InvalidateToken(ctx, tokenID); err != nil {
		h.logger.Warn("failed to invalidate token cache", slog.String("error", err.Error()))
	}

	h.logger.Info("token revoked",
		slog.String("token_id", tokenID),
		slog.String("user_id", authCtx.UserID),
	)

	w.WriteHeader(http.StatusNoContent)
}

// writeTokenError writes a JSON error response.
func writeTokenError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
