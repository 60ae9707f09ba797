package repository

import (
	"context"

	"papyr/internal/model"
)

// InvitationRepository defines data access for invitations. Expiry is a
// policy concern and is evaluated by callers, never by queries: expired rows
// are returned as-is and never swept.
type InvitationRepository interface {
	// Create inserts a new invitation and returns the stored snapshot.
	Create(ctx context.Context, inv *model.Invitation) (*model.Invitation, error)

	// FindByID returns an invitation by its ID.
	FindByID(ctx context.Context, id string) (*model.Invitation, error)

	// ListByDocument returns all invitations referencing the document,
	// newest expiry first.
	ListByDocument(ctx context.Context, docID string) ([]model.Invitation, error)

	// ListForDocumentUser returns the invitations on the document that name
	// the user as invitee or inviter.
	ListForDocumentUser(ctx context.Context, docID, userID string) ([]model.Invitation, error)

	// Delete removes an invitation by ID. It returns nil if the row was
	// deleted or did not exist.
	Delete(ctx context.Context, id string) error
}
