package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/recipebox/recipebox/internal/model"
)

// Common errors for tag repository operations.
var (
	ErrTagNotFound = errors.New("tag not found")
)

// CreateTag inserts a new tag and fills in the server-assigned id.
func (r *Repository) CreateTag(ctx context.Context, tag *model.Tag) error {
	query := `
		INSERT INTO tags (name, owner_id, created_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	err := r.pool.QueryRow(ctx, query,
		tag.Name,
		tag.OwnerID,
		tag.CreatedAt,
	).Scan(&tag.ID)

	if err != nil {
		return fmt.Errorf("failed to create tag: %w", err)
	}

	return nil
}

// ListTagsByOwner retrieves all tags owned by the given user,
// ordered by name descending.
func (r *Repository) ListTagsByOwner(ctx context.Context, ownerID string) ([]*model.Tag, error) {
	query := `
		SELECT id, name, owner_id, created_at
		FROM tags
		WHERE owner_id = $1
		ORDER BY name DESC
	`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	defer rows.Close()

	var tags []*model.Tag
	for rows.Next() {
		var tag model.Tag
		if err := rows.Scan(&tag.ID, &tag.Name, &tag.OwnerID, &tag.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		tags = append(tags, &tag)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tags: %w", err)
	}

	return tags, nil
}

// CountTagsByIDs returns how many of the given tag ids exist.
// Used to detect dangling references before attaching tags to a recipe.
// Existence only: the check deliberately ignores ownership of the
// referenced tags.
func (r *Repository) CountTagsByIDs(ctx context.Context, ids []int64) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	query := `SELECT COUNT(DISTINCT id) FROM tags WHERE id = ANY($1)`

	var count int
	if err := r.pool.QueryRow(ctx, query, ids).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count tags: %w", err)
	}

	return count, nil
}
