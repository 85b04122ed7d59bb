// Package model defines domain entities for the application.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Recipe represents a user's recipe.
// Tags and ingredients are shared references (many-to-many), not owned
// children: deleting a recipe never deletes the attributes it points at.
type Recipe struct {
	ID          int64           `json:"id"`
	Title       string          `json:"title"`
	TimeMinutes int             `json:"time_minutes"`
	Price       decimal.Decimal `json:"price"`
	Link        string          `json:"link,omitempty"`
	Image       *string         `json:"image,omitempty"` // storage object key
	OwnerID     string          `json:"owner_id"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`

	// Attached attribute ids, always populated.
	TagIDs        []int64 `json:"tag_ids"`
	IngredientIDs []int64 `json:"ingredient_ids"`

	// Full attribute rows, populated only for the detail representation.
	Tags        []*Tag        `json:"tags,omitempty"`
	Ingredients []*Ingredient `json:"ingredients,omitempty"`
}

// HasImage returns true if an image object has been uploaded for the recipe.
func (r *Recipe) HasImage() bool {
	return r.Image != nil && *r.Image != ""
}
