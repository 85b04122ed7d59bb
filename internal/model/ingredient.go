// Package model defines domain entities for the application.
package model

import "time"

// Ingredient represents an ingredient a user references from their recipes.
// Same shape and lifecycle rules as Tag.
type Ingredient struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	OwnerID   string    `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
}
