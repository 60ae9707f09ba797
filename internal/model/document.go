package model

import "time"

// DocumentStatus is a document lifecycle state. Only StatusActive carries
// behavior today; other values are stored and returned untouched.
type DocumentStatus string

const (
	StatusActive   DocumentStatus = "active"
	StatusArchived DocumentStatus = "archived"
)

// Document is the aggregate for one stored PDF: metadata, ownership, the
// collaborator set, and the share settings.
//
// Invariants: OwnerID is immutable after creation and never appears in
// Collaborators; Title is unique across all documents; ShareToken is unique
// across all documents.
type Document struct {
	ID            string         `json:"id"`
	OwnerID       string         `json:"owner_id"`
	Title         string         `json:"title"`
	Description   string         `json:"description"`
	Status        DocumentStatus `json:"status"`
	Collaborators []string       `json:"collaborators"`
	CanShare      bool           `json:"can_share"`
	ShareToken    string         `json:"-"`
	StoragePath   string         `json:"storage_path"`
	Size          int64          `json:"size"`
	ContentType   string         `json:"content_type"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// HasCollaborator reports whether userID is in the collaborator set.
func (d *Document) HasCollaborator(userID string) bool {
	for _, id := range d.Collaborators {
		if id == userID {
			return true
		}
	}
	return false
}
