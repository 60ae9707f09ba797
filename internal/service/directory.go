package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"papyr/internal/model"
	"papyr/internal/repository"
	"papyr/internal/repository/postgres"
)

// Directory owns document records: creation, metadata patches, removal, and
// collaborator membership. Each operation enforces exactly one invariant and
// performs no access checks — callers gate first, then mutate here.
type Directory struct {
	docs repository.DocumentRepository
	now  func() time.Time
}

// NewDirectory constructs a Directory over the given document repository.
func NewDirectory(docs repository.DocumentRepository) *Directory {
	return &Directory{docs: docs, now: time.Now}
}

// UpdatePatch carries the optional fields of a metadata update. Nil means
// "leave unchanged". Ownership, collaborators, and share settings are never
// writable through a patch.
type UpdatePatch struct {
	Title       *string
	Description *string
	StoragePath *string
}

// Create inserts a new document for owner. Titles are unique across the whole
// store, not per owner, so a title held by anyone fails with ErrTitleTaken.
// The share token is generated here and the document starts non-shareable.
func (d *Directory) Create(ctx context.Context, ownerID, title, description string, size int64, contentType string) (*model.Document, error) {
	if _, err := d.docs.FindByTitle(ctx, title); err == nil {
		return nil, ErrTitleTaken
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	id := uuid.NewString()
	now := d.now().UTC()
	doc := &model.Document{
		ID:            id,
		OwnerID:       ownerID,
		Title:         title,
		Description:   description,
		Status:        model.StatusActive,
		Collaborators: []string{},
		CanShare:      false,
		ShareToken:    uuid.NewString(),
		StoragePath:   "documents/" + id + ".pdf",
		Size:          size,
		ContentType:   contentType,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	stored, err := d.docs.Create(ctx, doc)
	if err != nil {
		// The pre-check races against concurrent creates; the unique
		// constraint is the authority.
		if postgres.IsUniqueViolation(err) {
			return nil, ErrTitleTaken
		}
		return nil, err
	}
	return stored, nil
}

// Update applies the provided patch fields to a fresh copy of doc, refreshes
// updated_at, and persists. A title change re-checks global uniqueness.
func (d *Directory) Update(ctx context.Context, doc *model.Document, patch UpdatePatch) (*model.Document, error) {
	next := *doc
	if patch.Title != nil && *patch.Title != doc.Title {
		if other, err := d.docs.FindByTitle(ctx, *patch.Title); err == nil && other.ID != doc.ID {
			return nil, ErrTitleTaken
		} else if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		next.Title = *patch.Title
	}
	if patch.Description != nil {
		next.Description = *patch.Description
	}
	if patch.StoragePath != nil {
		next.StoragePath = *patch.StoragePath
	}
	next.UpdatedAt = d.now().UTC()

	stored, err := d.docs.Update(ctx, &next)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return nil, ErrTitleTaken
		}
		return nil, err
	}
	return stored, nil
}

// Delete removes the record only. Sequencing against the stored file (file
// first, record second) is the facade's responsibility.
func (d *Directory) Delete(ctx context.Context, id string) error {
	return d.docs.Delete(ctx, id)
}

// AddCollaborator adds userID to the document's collaborator set. Adding an
// existing collaborator is a no-op; adding the owner is rejected.
func (d *Directory) AddCollaborator(ctx context.Context, doc *model.Document, userID string) error {
	if userID == doc.OwnerID {
		return ErrOwnerCollaborator
	}
	return d.docs.AddCollaborator(ctx, doc.ID, userID)
}

// RemoveCollaborator removes userID from the collaborator set. Removing an
// absent collaborator is a no-op; naming the owner is rejected.
func (d *Directory) RemoveCollaborator(ctx context.Context, doc *model.Document, userID string) error {
	if userID == doc.OwnerID {
		return ErrOwnerCollaborator
	}
	return d.docs.RemoveCollaborator(ctx, doc.ID, userID)
}
