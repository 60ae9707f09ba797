package model

// Package model contains pure domain models with no database-specific
// dependencies or tags. Loading always produces a fresh snapshot; mutation
// happens by persisting a modified copy, never through shared references.

import "time"

// User is the identity referenced by documents and invitations.
// Authentication lives outside this service; the core only ever sees the ID.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
