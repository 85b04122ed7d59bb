// Package model defines domain entities for the application.
package model

import "time"

// User is the identity that owns tags, ingredients, and recipes.
// Users are provisioned externally (bootstrap script or upstream identity
// flow); this API only ever reads or get-or-creates them.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}
