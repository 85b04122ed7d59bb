package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/recipebox/recipebox/internal/model"
)

// Common errors for ingredient repository operations.
var (
	ErrIngredientNotFound = errors.New("ingredient not found")
)

// CreateIngredient inserts a new ingredient and fills in the server-assigned id.
func (r *Repository) CreateIngredient(ctx context.Context, ingredient *model.Ingredient) error {
	query := `
		INSERT INTO ingredients (name, owner_id, created_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	err := r.pool.QueryRow(ctx, query,
		ingredient.Name,
		ingredient.OwnerID,
		ingredient.CreatedAt,
	).Scan(&ingredient.ID)

	if err != nil {
		return fmt.Errorf("failed to create ingredient: %w", err)
	}

	return nil
}

// ListIngredientsByOwner retrieves all ingredients owned by the given user,
// ordered by name descending.
func (r *Repository) ListIngredientsByOwner(ctx context.Context, ownerID string) ([]*model.Ingredient, error) {
	query := `
		SELECT id, name, owner_id, created_at
		FROM ingredients
		WHERE owner_id = $1
		ORDER BY name DESC
	`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list ingredients: %w", err)
	}
	defer rows.Close()

	var ingredients []*model.Ingredient
	for rows.Next() {
		var ing model.Ingredient
		if err := rows.Scan(&ing.ID, &ing.Name, &ing.OwnerID, &ing.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan ingredient: %w", err)
		}
		ingredients = append(ingredients, &ing)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ingredients: %w", err)
	}

	return ingredients, nil
}

// CountIngredientsByIDs returns how many of the given ingredient ids exist.
// Existence only: the check deliberately ignores ownership of the
// referenced ingredients.
func (r *Repository) CountIngredientsByIDs(ctx context.Context, ids []int64) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	query := `SELECT COUNT(DISTINCT id) FROM ingredients WHERE id = ANY($1)`

	var count int
	if err := r.pool.QueryRow(ctx, query, ids).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count ingredients: %w", err)
	}

	return count, nil
}
