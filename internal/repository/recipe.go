package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/recipebox/recipebox/internal/model"
)

// Common errors for recipe repository operations.
var (
	ErrRecipeNotFound = errors.New("recipe not found")
)

// CreateRecipe inserts a new recipe and its attribute references in a single
// transaction, filling in the server-assigned id.
func (r *Repository) CreateRecipe(ctx context.Context, recipe *model.Recipe) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO recipes (title, time_minutes, price, link, owner_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	err = tx.QueryRow(ctx, query,
		recipe.Title,
		recipe.TimeMinutes,
		recipe.Price,
		recipe.Link,
		recipe.OwnerID,
		recipe.CreatedAt,
		recipe.UpdatedAt,
	).Scan(&recipe.ID)

	if err != nil {
		return fmt.Errorf("failed to create recipe: %w", err)
	}

	if err := replaceRecipeTags(ctx, tx, recipe.ID, recipe.TagIDs); err != nil {
		return err
	}
	if err := replaceRecipeIngredients(ctx, tx, recipe.ID, recipe.IngredientIDs); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit recipe: %w", err)
	}

	return nil
}

// ListRecipesByOwner retrieves all recipes owned by the given user,
// ordered by id descending (most recently created first).
// Attribute references are populated as bare ids.
func (r *Repository) ListRecipesByOwner(ctx context.Context, ownerID string) ([]*model.Recipe, error) {
	query := `
		SELECT id, title, time_minutes, price, link, image, owner_id, created_at, updated_at
		FROM recipes
		WHERE owner_id = $1
		ORDER BY id DESC
	`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	defer rows.Close()

	var recipes []*model.Recipe
	byID := make(map[int64]*model.Recipe)
	var ids []int64

	for rows.Next() {
		recipe, err := scanRecipe(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan recipe: %w", err)
		}
		recipes = append(recipes, recipe)
		byID[recipe.ID] = recipe
		ids = append(ids, recipe.ID)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating recipes: %w", err)
	}

	if len(ids) == 0 {
		return recipes, nil
	}

	if err := r.loadAttachedIDs(ctx, "recipe_tags", "tag_id", ids, func(recipeID, tagID int64) {
		byID[recipeID].TagIDs = append(byID[recipeID].TagIDs, tagID)
	}); err != nil {
		return nil, err
	}
	if err := r.loadAttachedIDs(ctx, "recipe_ingredients", "ingredient_id", ids, func(recipeID, ingredientID int64) {
		byID[recipeID].IngredientIDs = append(byID[recipeID].IngredientIDs, ingredientID)
	}); err != nil {
		return nil, err
	}

	return recipes, nil
}

// GetRecipeByIDAndOwner retrieves a single recipe scoped to its owner,
// with attribute references populated as bare ids.
// An ownership mismatch is indistinguishable from absence.
func (r *Repository) GetRecipeByIDAndOwner(ctx context.Context, id int64, ownerID string) (*model.Recipe, error) {
	query := `
		SELECT id, title, time_minutes, price, link, image, owner_id, created_at, updated_at
		FROM recipes
		WHERE id = $1 AND owner_id = $2
	`

	recipe, err := scanRecipe(r.pool.QueryRow(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRecipeNotFound
		}
		return nil, fmt.Errorf("failed to get recipe: %w", err)
	}

	if err := r.loadAttachedIDs(ctx, "recipe_tags", "tag_id", []int64{id}, func(_, tagID int64) {
		recipe.TagIDs = append(recipe.TagIDs, tagID)
	}); err != nil {
		return nil, err
	}
	if err := r.loadAttachedIDs(ctx, "recipe_ingredients", "ingredient_id", []int64{id}, func(_, ingredientID int64) {
		recipe.IngredientIDs = append(recipe.IngredientIDs, ingredientID)
	}); err != nil {
		return nil, err
	}

	return recipe, nil
}

// GetRecipeDetailByIDAndOwner retrieves a single recipe scoped to its owner,
// with attached tags and ingredients populated as full rows.
func (r *Repository) GetRecipeDetailByIDAndOwner(ctx context.Context, id int64, ownerID string) (*model.Recipe, error) {
	query := `
		SELECT id, title, time_minutes, price, link, image, owner_id, created_at, updated_at
		FROM recipes
		WHERE id = $1 AND owner_id = $2
	`

	recipe, err := scanRecipe(r.pool.QueryRow(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRecipeNotFound
		}
		return nil, fmt.Errorf("failed to get recipe: %w", err)
	}

	tagQuery := `
		SELECT t.id, t.name, t.owner_id, t.created_at
		FROM tags t
		JOIN recipe_tags rt ON rt.tag_id = t.id
		WHERE rt.recipe_id = $1
		ORDER BY t.id
	`

	tagRows, err := r.pool.Query(ctx, tagQuery, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load recipe tags: %w", err)
	}
	defer tagRows.Close()

	for tagRows.Next() {
		var tag model.Tag
		if err := tagRows.Scan(&tag.ID, &tag.Name, &tag.OwnerID, &tag.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan recipe tag: %w", err)
		}
		recipe.Tags = append(recipe.Tags, &tag)
		recipe.TagIDs = append(recipe.TagIDs, tag.ID)
	}
	if err := tagRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating recipe tags: %w", err)
	}

	ingredientQuery := `
		SELECT i.id, i.name, i.owner_id, i.created_at
		FROM ingredients i
		JOIN recipe_ingredients ri ON ri.ingredient_id = i.id
		WHERE ri.recipe_id = $1
		ORDER BY i.id
	`

	ingredientRows, err := r.pool.Query(ctx, ingredientQuery, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load recipe ingredients: %w", err)
	}
	defer ingredientRows.Close()

	for ingredientRows.Next() {
		var ing model.Ingredient
		if err := ingredientRows.Scan(&ing.ID, &ing.Name, &ing.OwnerID, &ing.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan recipe ingredient: %w", err)
		}
		recipe.Ingredients = append(recipe.Ingredients, &ing)
		recipe.IngredientIDs = append(recipe.IngredientIDs, ing.ID)
	}
	if err := ingredientRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating recipe ingredients: %w", err)
	}

	return recipe, nil
}

// UpdateRecipe updates a recipe's mutable fields scoped to its owner.
// Attribute references are replaced only when the corresponding set flag is
// true, so partial updates can leave attachments untouched.
func (r *Repository) UpdateRecipe(ctx context.Context, recipe *model.Recipe, setTags, setIngredients bool) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		UPDATE recipes
		SET title = $3, time_minutes = $4, price = $5, link = $6, updated_at = $7
		WHERE id = $1 AND owner_id = $2
	`

	result, err := tx.Exec(ctx, query,
		recipe.ID,
		recipe.OwnerID,
		recipe.Title,
		recipe.TimeMinutes,
		recipe.Price,
		recipe.Link,
		recipe.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to update recipe: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrRecipeNotFound
	}

	if setTags {
		if err := replaceRecipeTags(ctx, tx, recipe.ID, recipe.TagIDs); err != nil {
			return err
		}
	}
	if setIngredients {
		if err := replaceRecipeIngredients(ctx, tx, recipe.ID, recipe.IngredientIDs); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit recipe update: %w", err)
	}

	return nil
}

// DeleteRecipe removes a recipe scoped to its owner. Join rows cascade;
// attached tags and ingredients are shared references and survive.
// Returns the recipe's image key, if any, so the caller can clean up the blob.
func (r *Repository) DeleteRecipe(ctx context.Context, id int64, ownerID string) (*string, error) {
	query := `
		DELETE FROM recipes
		WHERE id = $1 AND owner_id = $2
		RETURNING image
	`

	var image *string
	err := r.pool.QueryRow(ctx, query, id, ownerID).Scan(&image)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRecipeNotFound
		}
		return nil, fmt.Errorf("failed to delete recipe: %w", err)
	}

	return image, nil
}

// UpdateRecipeImage sets the recipe's image key scoped to its owner.
// Returns the previous image key, if any, so the caller can clean up the blob.
func (r *Repository) UpdateRecipeImage(ctx context.Context, id int64, ownerID, imageKey string) (*string, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var previous *string
	err = tx.QueryRow(ctx,
		`SELECT image FROM recipes WHERE id = $1 AND owner_id = $2 FOR UPDATE`,
		id, ownerID,
	).Scan(&previous)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRecipeNotFound
		}
		return nil, fmt.Errorf("failed to lock recipe: %w", err)
	}

	_, err = tx.Exec(ctx,
		`UPDATE recipes SET image = $3, updated_at = NOW() WHERE id = $1 AND owner_id = $2`,
		id, ownerID, imageKey,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update recipe image: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit image update: %w", err)
	}

	return previous, nil
}

// loadAttachedIDs loads (recipe_id, attribute_id) pairs from a join table for
// the given recipes and feeds them to assign in ascending attribute order.
func (r *Repository) loadAttachedIDs(ctx context.Context, table, column string, recipeIDs []int64, assign func(recipeID, attributeID int64)) error {
	query := fmt.Sprintf(
		`SELECT recipe_id, %s FROM %s WHERE recipe_id = ANY($1) ORDER BY %s`,
		column, table, column,
	)

	rows, err := r.pool.Query(ctx, query, recipeIDs)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", table, err)
	}
	defer rows.Close()

	for rows.Next() {
		var recipeID, attributeID int64
		if err := rows.Scan(&recipeID, &attributeID); err != nil {
			return fmt.Errorf("failed to scan %s: %w", table, err)
		}
		assign(recipeID, attributeID)
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating %s: %w", table, err)
	}

	return nil
}

// replaceRecipeTags replaces the recipe's tag references inside tx.
func replaceRecipeTags(ctx context.Context, tx pgx.Tx, recipeID int64, tagIDs []int64) error {
	if _, err := tx.Exec(ctx, `DELETE FROM recipe_tags WHERE recipe_id = $1`, recipeID); err != nil {
		return fmt.Errorf("failed to clear recipe tags: %w", err)
	}

	if len(tagIDs) == 0 {
		return nil
	}

	query := `
		INSERT INTO recipe_tags (recipe_id, tag_id)
		SELECT $1, unnest($2::bigint[])
		ON CONFLICT DO NOTHING
	`

	if _, err := tx.Exec(ctx, query, recipeID, tagIDs); err != nil {
		return fmt.Errorf("failed to attach recipe tags: %w", err)
	}

	return nil
}

// replaceRecipeIngredients replaces the recipe's ingredient references inside tx.
func replaceRecipeIngredients(ctx context.Context, tx pgx.Tx, recipeID int64, ingredientIDs []int64) error {
	if _, err := tx.Exec(ctx, `DELETE FROM recipe_ingredients WHERE recipe_id = $1`, recipeID); err != nil {
		return fmt.Errorf("failed to clear recipe ingredients: %w", err)
	}

	if len(ingredientIDs) == 0 {
		return nil
	}

	query := `
		INSERT INTO recipe_ingredients (recipe_id, ingredient_id)
		SELECT $1, unnest($2::bigint[])
		ON CONFLICT DO NOTHING
	`

	if _, err := tx.Exec(ctx, query, recipeID, ingredientIDs); err != nil {
		return fmt.Errorf("failed to attach recipe ingredients: %w", err)
	}

	return nil
}

// scanRecipe scans a single row into a Recipe model.
// Attribute id slices start empty so the summary representation always
// renders arrays, never null.
func scanRecipe(row pgx.Row) (*model.Recipe, error) {
	recipe := &model.Recipe{
		TagIDs:        []int64{},
		IngredientIDs: []int64{},
	}
	err := row.Scan(
		&recipe.ID,
		&recipe.Title,
		&recipe.TimeMinutes,
		&recipe.Price,
		&recipe.Link,
		&recipe.Image,
		&recipe.OwnerID,
		&recipe.CreatedAt,
		&recipe.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return recipe, nil
}
