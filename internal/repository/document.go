package repository

import (
	"context"

	"papyr/internal/model"
)

// DocumentRepository defines data access for document aggregates using SQL
// queries only. No business logic here — strictly persistence operations.
// Lookups that find nothing return sql.ErrNoRows for the caller to translate.
type DocumentRepository interface {
	// Create inserts a new document record and returns the stored snapshot.
	// The caller provides all fields including ID and timestamps.
	Create(ctx context.Context, doc *model.Document) (*model.Document, error)

	// FindByID returns a document together with its collaborator set.
	FindByID(ctx context.Context, id string) (*model.Document, error)

	// FindByTitle returns the document carrying the given title, if any.
	// Titles are unique across the whole store.
	FindByTitle(ctx context.Context, title string) (*model.Document, error)

	// FindByShareToken returns the document carrying the given share token.
	FindByShareToken(ctx context.Context, token string) (*model.Document, error)

	// ListForUser returns a page of documents the user owns or collaborates
	// on, plus the total count for that filter.
	ListForUser(ctx context.Context, userID string, pq PageQuery) (*PageResult[model.Document], error)

	// Update persists the mutable document fields and returns the stored
	// snapshot. The collaborator set is managed separately and is not
	// written by Update.
	Update(ctx context.Context, doc *model.Document) (*model.Document, error)

	// Delete removes a document by ID. It returns nil if the row was deleted
	// or did not exist.
	Delete(ctx context.Context, id string) error

	// AddCollaborator inserts the membership row. Adding an existing
	// collaborator is a no-op, so re-driving the call after a lost-update
	// race is safe.
	AddCollaborator(ctx context.Context, docID, userID string) error

	// RemoveCollaborator deletes the membership row. Removing an absent
	// collaborator is a no-op.
	RemoveCollaborator(ctx context.Context, docID, userID string) error
}
