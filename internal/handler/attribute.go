package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/recipebox/recipebox/internal/auth"
	"github.com/recipebox/recipebox/internal/handler/dto"
	"github.com/recipebox/recipebox/internal/service"
)

// AttributeHandler handles HTTP requests for tags and ingredients.
type AttributeHandler struct {
	svc    *service.AttributeService
	logger *slog.Logger
}

// NewAttributeHandler creates a new AttributeHandler.
func NewAttributeHandler(svc *service.AttributeService, logger *slog.Logger) *AttributeHandler {
	return &AttributeHandler{
		svc:    svc,
		logger: logger,
	}
}

// ListTags handles GET /api/v1/tags.
func (h *AttributeHandler) ListTags(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	tags, err := h.svc.ListTags(r.Context(), userID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToTagResponses(tags))
}

// CreateTag handles POST /api/v1/tags.
func (h *AttributeHandler) CreateTag(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateAttributeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body", "")
		return
	}

	tag, err := h.svc.CreateTag(r.Context(), service.CreateAttributeInput{
		Name:    req.Name,
		OwnerID: auth.UserIDFromContext(r.Context()),
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("tag_created",
		"tag_id", tag.ID,
		"user_id", tag.OwnerID,
	)

	writeJSON(w, http.StatusCreated, dto.ToTagResponse(tag))
}

// ListIngredients handles GET /api/v1/ingredients.
func (h *AttributeHandler) ListIngredients(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	ingredients, err := h.svc.ListIngredients(r.Context(), userID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToIngredientResponses(ingredients))
}

// CreateIngredient handles POST /api/v1/ingredients.
func (h *AttributeHandler) CreateIngredient(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateAttributeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body", "")
		return
	}

	ingredient, err := h.svc.CreateIngredient(r.Context(), service.CreateAttributeInput{
		Name:    req.Name,
		OwnerID: auth.UserIDFromContext(r.Context()),
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("ingredient_created",
		"ingredient_id", ingredient.ID,
		"user_id", ingredient.OwnerID,
	)

	writeJSON(w, http.StatusCreated, dto.ToIngredientResponse(ingredient))
}

// handleServiceError maps service errors to HTTP responses.
func (h *AttributeHandler) handleServiceError(w http.ResponseWriter, err error) {
	var validationErr *service.ValidationError
	switch {
	case errors.As(err, &validationErr):
		h.writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", validationErr.Message, validationErr.Field)
	default:
		h.logger.Error("internal_error", "error", err)
		h.writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred", "")
	}
}

// writeError writes an error response.
func (h *AttributeHandler) writeError(w http.ResponseWriter, status int, code, message, field string) {
	writeJSON(w, status, dto.ErrorResponse{
		Error: message,
		Code:  code,
		Field: field,
	})
}
