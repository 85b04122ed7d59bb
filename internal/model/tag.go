// Package model defines domain entities for the application.
package model

import "time"

// Tag represents a label a user attaches to their recipes.
// Tags are owned by exactly one user; ownership is set at creation
// and never changes.
type Tag struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	OwnerID   string    `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
}
