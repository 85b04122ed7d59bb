package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/recipebox/recipebox/internal/auth"
	"github.com/recipebox/recipebox/internal/handler/dto"
	"github.com/recipebox/recipebox/internal/service"
)

// RecipeHandler handles HTTP requests for recipe operations.
type RecipeHandler struct {
	svc           *service.RecipeService
	logger        *slog.Logger
	maxUploadSize int64
}

// NewRecipeHandler creates a new RecipeHandler.
func NewRecipeHandler(svc *service.RecipeService, logger *slog.Logger, maxUploadSize int64) *RecipeHandler {
	return &RecipeHandler{
		svc:           svc,
		logger:        logger,
		maxUploadSize: maxUploadSize,
	}
}

// List handles GET /api/v1/recipes.
func (h *RecipeHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	recipes, err := h.svc.ListRecipes(r.Context(), userID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToRecipeSummaries(recipes, h.svc.ImageURL))
}

// Create handles POST /api/v1/recipes.
func (h *RecipeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateRecipeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body", "")
		return
	}

	input := service.CreateRecipeInput{
		Title:         req.Title,
		TimeMinutes:   req.TimeMinutes,
		Price:         req.Price,
		Link:          req.Link,
		TagIDs:        req.Tags,
		IngredientIDs: req.Ingredients,
		OwnerID:       auth.UserIDFromContext(r.Context()),
	}

	recipe, err := h.svc.CreateRecipe(r.Context(), input)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("recipe_created",
		"recipe_id", recipe.ID,
		"user_id", recipe.OwnerID,
	)

	writeJSON(w, http.StatusCreated, dto.ToRecipeSummary(recipe, h.svc.ImageURL))
}

// Get handles GET /api/v1/recipes/{id}.
func (h *RecipeHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.recipeID(w, r)
	if !ok {
		return
	}

	recipe, err := h.svc.GetRecipe(r.Context(), id, auth.UserIDFromContext(r.Context()))
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToRecipeDetail(recipe, h.svc.ImageURL))
}

// Put handles PUT /api/v1/recipes/{id}. All writable fields are required;
// omitted attachments are cleared.
func (h *RecipeHandler) Put(w http.ResponseWriter, r *http.Request) {
	id, ok := h.recipeID(w, r)
	if !ok {
		return
	}

	var req dto.UpdateRecipeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body", "")
		return
	}

	if req.Title == nil {
		h.writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "title is required", "title")
		return
	}
	if req.TimeMinutes == nil {
		h.writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "time_minutes is required", "time_minutes")
		return
	}
	if req.Price == nil {
		h.writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "price is required", "price")
		return
	}

	// Full replace: absent optional fields reset to their zero values.
	link := ""
	if req.Link != nil {
		link = *req.Link
	}
	tags := req.Tags
	if tags == nil {
		tags = []int64{}
	}
	ingredients := req.Ingredients
	if ingredients == nil {
		ingredients = []int64{}
	}

	input := service.UpdateRecipeInput{
		ID:            id,
		OwnerID:       auth.UserIDFromContext(r.Context()),
		Title:         req.Title,
		TimeMinutes:   req.TimeMinutes,
		Price:         req.Price,
		Link:          &link,
		TagIDs:        tags,
		IngredientIDs: ingredients,
	}

	h.update(w, r, input)
}

// Patch handles PATCH /api/v1/recipes/{id}. Absent fields are left unchanged.
func (h *RecipeHandler) Patch(w http.ResponseWriter, r *http.Request) {
	id, ok := h.recipeID(w, r)
	if !ok {
		return
	}

	var req dto.UpdateRecipeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body", "")
		return
	}

	input := service.UpdateRecipeInput{
		ID:            id,
		OwnerID:       auth.UserIDFromContext(r.Context()),
		Title:         req.Title,
		TimeMinutes:   req.TimeMinutes,
		Price:         req.Price,
		Link:          req.Link,
		TagIDs:        req.Tags,
		IngredientIDs: req.Ingredients,
	}

	h.update(w, r, input)
}

// update runs the shared update path for PUT and PATCH.
func (h *RecipeHandler) update(w http.ResponseWriter, r *http.Request, input service.UpdateRecipeInput) {
	recipe, err := h.svc.UpdateRecipe(r.Context(), input)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("recipe_updated",
		"recipe_id", recipe.ID,
		"user_id", recipe.OwnerID,
	)

	writeJSON(w, http.StatusOK, dto.ToRecipeDetail(recipe, h.svc.ImageURL))
}

// Delete handles DELETE /api/v1/recipes/{id}.
func (h *RecipeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.recipeID(w, r)
	if !ok {
		return
	}

	if err := h.svc.DeleteRecipe(r.Context(), id, auth.UserIDFromContext(r.Context())); err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("recipe_deleted", "recipe_id", id)

	w.WriteHeader(http.StatusNoContent)
}

// UploadImage handles POST /api/v1/recipes/{id}/upload-image.
// Expects a multipart form with an "image" file field. The content type is
// sniffed from the file bytes, never trusted from the client headers.
func (h *RecipeHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	id, ok := h.recipeID(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		h.writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid or oversized multipart form", "image")
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Missing image file", "image")
		return
	}
	defer file.Close()

	// Sniff the content type from the first bytes.
	head := make([]byte, 512)
	n, err := file.Read(head)
	if err != nil && err != io.EOF {
		h.writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Unreadable image file", "image")
		return
	}
	head = head[:n]
	contentType := http.DetectContentType(head)

	input := service.UploadImageInput{
		RecipeID:    id,
		OwnerID:     auth.UserIDFromContext(r.Context()),
		ContentType: contentType,
		Data:        io.MultiReader(bytes.NewReader(head), file),
	}

	key, err := h.svc.UploadImage(r.Context(), input)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("recipe_image_uploaded",
		"recipe_id", id,
		"content_type", contentType,
	)

	writeJSON(w, http.StatusOK, dto.ToRecipeImage(id, key, h.svc.ImageURL))
}

// recipeID parses the {id} path parameter, writing a 404 for malformed ids.
// A non-numeric id can never name a recipe, so absence is the honest answer.
func (h *RecipeHandler) recipeID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		h.writeError(w, http.StatusNotFound, "RECIPE_NOT_FOUND", "Recipe not found", "")
		return 0, false
	}
	return id, true
}

// handleServiceError maps service errors to HTTP responses.
func (h *RecipeHandler) handleServiceError(w http.ResponseWriter, err error) {
	var validationErr *service.ValidationError
	switch {
	case errors.Is(err, service.ErrRecipeNotFound):
		h.writeError(w, http.StatusNotFound, "RECIPE_NOT_FOUND", "Recipe not found", "")
	case errors.As(err, &validationErr):
		h.writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", validationErr.Message, validationErr.Field)
	default:
		h.logger.Error("internal_error", "error", err)
		h.writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred", "")
	}
}

// writeError writes an error response.
func (h *RecipeHandler) writeError(w http.ResponseWriter, status int, code, message, field string) {
	writeJSON(w, status, dto.ErrorResponse{
		Error: message,
		Code:  code,
		Field: field,
	})
}
