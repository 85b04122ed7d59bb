package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"

	"github.com/recipebox/recipebox/internal/metrics"
	"github.com/recipebox/recipebox/internal/model"
	"github.com/recipebox/recipebox/internal/repository"
	"github.com/recipebox/recipebox/internal/storage"
)

const maxTitleLength = 255

// imageExtensions maps accepted image content types to file extensions.
// Upload policy lives here, next to the store that enforces it.
var imageExtensions = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/gif":  "gif",
	"image/webp": "webp",
}

// RecipeService handles recipe business logic.
type RecipeService struct {
	repo         *repository.Repository
	store        storage.Driver
	mediaBaseURL string
	metrics      metrics.Recorder
}

// NewRecipeService creates a new RecipeService.
func NewRecipeService(repo *repository.Repository, store storage.Driver, mediaBaseURL string, recorder metrics.Recorder) *RecipeService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &RecipeService{
		repo:         repo,
		store:        store,
		mediaBaseURL: strings.TrimSuffix(mediaBaseURL, "/"),
		metrics:      recorder,
	}
}

// ImageURL resolves a stored image key to its public URL.
func (s *RecipeService) ImageURL(key string) string {
	return s.mediaBaseURL + "/" + key
}

// CreateRecipeInput defines input for creating a recipe.
// OwnerID always comes from the authenticated identity, never the payload.
type CreateRecipeInput struct {
	Title         string
	TimeMinutes   int
	Price         decimal.Decimal
	Link          string
	TagIDs        []int64
	IngredientIDs []int64
	OwnerID       string
}

// CreateRecipe creates a new recipe owned by the requester.
// Attached tag and ingredient ids must reference existing rows; a dangling
// reference fails with a validation error naming the offending field.
func (s *RecipeService) CreateRecipe(ctx context.Context, input CreateRecipeInput) (*model.Recipe, error) {
	title, err := validateTitle(input.Title)
	if err != nil {
		return nil, err
	}
	if err := validateTimeMinutes(input.TimeMinutes); err != nil {
		return nil, err
	}
	if err := validatePrice(input.Price); err != nil {
		return nil, err
	}

	tagIDs := dedupeIDs(input.TagIDs)
	ingredientIDs := dedupeIDs(input.IngredientIDs)

	if err := s.validateReferences(ctx, tagIDs, ingredientIDs); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	recipe := &model.Recipe{
		Title:         title,
		TimeMinutes:   input.TimeMinutes,
		Price:         input.Price,
		Link:          input.Link,
		OwnerID:       input.OwnerID,
		TagIDs:        tagIDs,
		IngredientIDs: ingredientIDs,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.CreateRecipe(ctx, recipe); err != nil {
		return nil, fmt.Errorf("failed to create recipe: %w", err)
	}

	s.metrics.IncRecipeCreated()

	return recipe, nil
}

// ListRecipes returns the requester's recipes, most recently created first,
// with attribute references as bare ids (the summary shape).
func (s *RecipeService) ListRecipes(ctx context.Context, ownerID string) ([]*model.Recipe, error) {
	recipes, err := s.repo.ListRecipesByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	return recipes, nil
}

// GetRecipe retrieves one recipe scoped to the requester, with attached
// tags and ingredients as full rows (the detail shape).
// An ownership mismatch is indistinguishable from absence.
func (s *RecipeService) GetRecipe(ctx context.Context, id int64, ownerID string) (*model.Recipe, error) {
	recipe, err := s.repo.GetRecipeDetailByIDAndOwner(ctx, id, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrRecipeNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}
	return recipe, nil
}

// UpdateRecipeInput defines input for updating a recipe.
// Nil fields are left unchanged; the handler decides which fields are
// required (full replace vs. partial update).
type UpdateRecipeInput struct {
	ID            int64
	OwnerID       string
	Title         *string
	TimeMinutes   *int
	Price         *decimal.Decimal
	Link          *string
	TagIDs        []int64 // nil leaves attachments unchanged
	IngredientIDs []int64 // nil leaves attachments unchanged
}

// UpdateRecipe applies the given changes to a recipe scoped to the requester
// and returns the updated detail shape.
func (s *RecipeService) UpdateRecipe(ctx context.Context, input UpdateRecipeInput) (*model.Recipe, error) {
	recipe, err := s.repo.GetRecipeByIDAndOwner(ctx, input.ID, input.OwnerID)
	if err != nil {
		if errors.Is(err, repository.ErrRecipeNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}

	if input.Title != nil {
		title, err := validateTitle(*input.Title)
		if err != nil {
			return nil, err
		}
		recipe.Title = title
	}
	if input.TimeMinutes != nil {
		if err := validateTimeMinutes(*input.TimeMinutes); err != nil {
			return nil, err
		}
		recipe.TimeMinutes = *input.TimeMinutes
	}
	if input.Price != nil {
		if err := validatePrice(*input.Price); err != nil {
			return nil, err
		}
		recipe.Price = *input.Price
	}
	if input.Link != nil {
		recipe.Link = *input.Link
	}

	setTags := input.TagIDs != nil
	setIngredients := input.IngredientIDs != nil

	var tagIDs, ingredientIDs []int64
	if setTags {
		tagIDs = dedupeIDs(input.TagIDs)
		recipe.TagIDs = tagIDs
	}
	if setIngredients {
		ingredientIDs = dedupeIDs(input.IngredientIDs)
		recipe.IngredientIDs = ingredientIDs
	}

	if err := s.validateReferences(ctx, tagIDs, ingredientIDs); err != nil {
		return nil, err
	}

	recipe.UpdatedAt = time.Now().UTC()

	if err := s.repo.UpdateRecipe(ctx, recipe, setTags, setIngredients); err != nil {
		if errors.Is(err, repository.ErrRecipeNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, fmt.Errorf("failed to update recipe: %w", err)
	}

	s.metrics.IncRecipeUpdated()

	return s.GetRecipe(ctx, input.ID, input.OwnerID)
}

// DeleteRecipe removes a recipe scoped to the requester. Attached tags and
// ingredients are shared references and survive. The stored image, if any,
// is cleaned up best-effort.
func (s *RecipeService) DeleteRecipe(ctx context.Context, id int64, ownerID string) error {
	image, err := s.repo.DeleteRecipe(ctx, id, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrRecipeNotFound) {
			return ErrRecipeNotFound
		}
		return fmt.Errorf("failed to delete recipe: %w", err)
	}

	if image != nil && *image != "" {
		// Best-effort: the row is already gone, a leaked blob is acceptable.
		_ = s.store.Delete(ctx, *image)
	}

	s.metrics.IncRecipeDeleted()

	return nil
}

// UploadImageInput defines input for attaching an image to a recipe.
type UploadImageInput struct {
	RecipeID    int64
	OwnerID     string
	ContentType string
	Data        io.Reader
}

// UploadImage stores an image for a requester-owned recipe and records its
// storage key. The previous image object, if any, is cleaned up best-effort.
func (s *RecipeService) UploadImage(ctx context.Context, input UploadImageInput) (string, error) {
	start := time.Now()

	ext, ok := imageExtensions[input.ContentType]
	if !ok {
		s.metrics.IncImageUploaded("rejected")
		return "", validationErrorf("image", "unsupported content type %q", input.ContentType)
	}

	// Verify the recipe exists and belongs to the requester before
	// touching the store.
	if _, err := s.repo.GetRecipeByIDAndOwner(ctx, input.RecipeID, input.OwnerID); err != nil {
		if errors.Is(err, repository.ErrRecipeNotFound) {
			return "", ErrRecipeNotFound
		}
		return "", err
	}

	key := fmt.Sprintf("recipes/%d/%s.%s", input.RecipeID, ulid.Make().String(), ext)

	if err := s.store.Save(ctx, key, input.ContentType, input.Data); err != nil {
		return "", fmt.Errorf("failed to store image: %w", err)
	}

	previous, err := s.repo.UpdateRecipeImage(ctx, input.RecipeID, input.OwnerID, key)
	if err != nil {
		// The blob is orphaned; remove it so the store stays consistent.
		_ = s.store.Delete(ctx, key)
		if errors.Is(err, repository.ErrRecipeNotFound) {
			return "", ErrRecipeNotFound
		}
		return "", fmt.Errorf("failed to record image: %w", err)
	}

	if previous != nil && *previous != "" {
		_ = s.store.Delete(ctx, *previous)
	}

	s.metrics.IncImageUploaded("success")
	s.metrics.ObserveImageUploadDuration(time.Since(start))

	return key, nil
}

// validateTitle checks and normalizes a recipe title.
func validateTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", validationErrorf("title", "title must not be empty")
	}
	if len(title) > maxTitleLength {
		return "", validationErrorf("title", "title exceeds %d characters", maxTitleLength)
	}
	return title, nil
}

// validateTimeMinutes rejects negative cooking times.
func validateTimeMinutes(minutes int) error {
	if minutes < 0 {
		return validationErrorf("time_minutes", "time_minutes must not be negative")
	}
	return nil
}

// validatePrice rejects negative prices.
func validatePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return validationErrorf("price", "price must not be negative")
	}
	return nil
}

// validateReferences checks that every attached id exists.
// Existence only: attaching another user's tag or ingredient by id is
// allowed, matching the original access rules.
func (s *RecipeService) validateReferences(ctx context.Context, tagIDs, ingredientIDs []int64) error {
	if len(tagIDs) > 0 {
		count, err := s.repo.CountTagsByIDs(ctx, tagIDs)
		if err != nil {
			return fmt.Errorf("failed to verify tags: %w", err)
		}
		if count != len(tagIDs) {
			return validationErrorf("tags", "one or more tag ids do not exist")
		}
	}

	if len(ingredientIDs) > 0 {
		count, err := s.repo.CountIngredientsByIDs(ctx, ingredientIDs)
		if err != nil {
			return fmt.Errorf("failed to verify ingredients: %w", err)
		}
		if count != len(ingredientIDs) {
			return validationErrorf("ingredients", "one or more ingredient ids do not exist")
		}
	}

	return nil
}

// dedupeIDs returns the ids sorted with duplicates removed,
// preserving set semantics for attachments.
func dedupeIDs(ids []int64) []int64 {
	if ids == nil {
		return nil
	}
	out := slices.Clone(ids)
	slices.Sort(out)
	return slices.Compact(out)
}
