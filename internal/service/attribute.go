package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/recipebox/recipebox/internal/metrics"
	"github.com/recipebox/recipebox/internal/model"
	"github.com/recipebox/recipebox/internal/repository"
)

// maxAttributeNameLength caps tag and ingredient names.
const maxAttributeNameLength = 255

// AttributeService handles tag and ingredient business logic.
// The two entities share shape and lifecycle rules, so one service covers
// both. Intentionally minimal surface: list and create only.
type AttributeService struct {
	repo    *repository.Repository
	metrics metrics.Recorder
}

// NewAttributeService creates a new AttributeService.
func NewAttributeService(repo *repository.Repository, recorder metrics.Recorder) *AttributeService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &AttributeService{
		repo:    repo,
		metrics: recorder,
	}
}

// CreateAttributeInput defines input for creating a tag or ingredient.
// OwnerID always comes from the authenticated identity, never the payload.
type CreateAttributeInput struct {
	Name    string
	OwnerID string
}

// ListTags returns the requester's tags, ordered by name descending.
func (s *AttributeService) ListTags(ctx context.Context, ownerID string) ([]*model.Tag, error) {
	tags, err := s.repo.ListTagsByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	return tags, nil
}

// CreateTag creates a new tag owned by the requester.
func (s *AttributeService) CreateTag(ctx context.Context, input CreateAttributeInput) (*model.Tag, error) {
	name, err := validateAttributeName(input.Name)
	if err != nil {
		return nil, err
	}

	tag := &model.Tag{
		Name:      name,
		OwnerID:   input.OwnerID,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repo.CreateTag(ctx, tag); err != nil {
		return nil, fmt.Errorf("failed to create tag: %w", err)
	}

	s.metrics.IncTagCreated()

	return tag, nil
}

// ListIngredients returns the requester's ingredients, ordered by name descending.
func (s *AttributeService) ListIngredients(ctx context.Context, ownerID string) ([]*model.Ingredient, error) {
	ingredients, err := s.repo.ListIngredientsByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list ingredients: %w", err)
	}
	return ingredients, nil
}

// CreateIngredient creates a new ingredient owned by the requester.
func (s *AttributeService) CreateIngredient(ctx context.Context, input CreateAttributeInput) (*model.Ingredient, error) {
	name, err := validateAttributeName(input.Name)
	if err != nil {
		return nil, err
	}

	ingredient := &model.Ingredient{
		Name:      name,
		OwnerID:   input.OwnerID,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repo.CreateIngredient(ctx, ingredient); err != nil {
		return nil, fmt.Errorf("failed to create ingredient: %w", err)
	}

	s.metrics.IncIngredientCreated()

	return ingredient, nil
}

// validateAttributeName checks and normalizes a tag or ingredient name.
func validateAttributeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", validationErrorf("name", "name must not be empty")
	}
	if len(name) > maxAttributeNameLength {
		return "", validationErrorf("name", "name exceeds %d characters", maxAttributeNameLength)
	}
	return name, nil
}
