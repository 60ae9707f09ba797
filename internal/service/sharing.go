package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"papyr/internal/access"
	"papyr/internal/model"
	"papyr/internal/repository"
)

// Sharing manages the share-token lifecycle: the owner-controlled can_share
// gate, token issuance, regeneration, and self-service redemption. Collaborator
// membership changes are delegated to the Directory.
type Sharing struct {
	docs repository.DocumentRepository
	dir  *Directory
	now  func() time.Time
}

// NewSharing constructs the sharing mechanism.
func NewSharing(docs repository.DocumentRepository, dir *Directory) *Sharing {
	return &Sharing{docs: docs, dir: dir, now: time.Now}
}

// IssueToken returns the document's current share token without mutating
// anything. Owner only; the document must be shareable.
func (s *Sharing) IssueToken(doc *model.Document, actorID string) (string, error) {
	if !access.IsOwner(doc, actorID) {
		return "", ErrForbidden
	}
	if !doc.CanShare {
		return "", ErrNotShareable
	}
	return doc.ShareToken, nil
}

// SetShareable flips the can_share gate. Owner only. The token itself is
// untouched: disabling and re-enabling sharing keeps old links working, which
// is what RegenerateToken is for.
func (s *Sharing) SetShareable(ctx context.Context, doc *model.Document, actorID string, canShare bool) (*model.Document, error) {
	if !access.IsOwner(doc, actorID) {
		return nil, ErrForbidden
	}
	next := *doc
	next.CanShare = canShare
	next.UpdatedAt = s.now().UTC()
	return s.docs.Update(ctx, &next)
}

// RegenerateToken replaces the share token with a fresh one, invalidating
// every link issued so far. Owner only.
func (s *Sharing) RegenerateToken(ctx context.Context, doc *model.Document, actorID string) (string, error) {
	if !access.IsOwner(doc, actorID) {
		return "", ErrForbidden
	}
	next := *doc
	next.ShareToken = uuid.NewString()
	next.UpdatedAt = s.now().UTC()
	stored, err := s.docs.Update(ctx, &next)
	if err != nil {
		return "", err
	}
	return stored.ShareToken, nil
}

// Redeem enrolls the actor as a collaborator on the document carrying token.
// The token is the credential: no prior access is required. The owner cannot
// redeem their own token and existing collaborators cannot redeem twice.
func (s *Sharing) Redeem(ctx context.Context, token, actorID string) (*model.Document, error) {
	doc, err := s.docs.FindByShareToken(ctx, token)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDocumentNotFound
		}
		return nil, err
	}
	if !doc.CanShare || token != doc.ShareToken {
		return nil, ErrNotShareable
	}
	if access.IsOwner(doc, actorID) {
		return nil, ErrSelfShare
	}
	if doc.HasCollaborator(actorID) {
		return nil, ErrAlreadyCollaborator
	}
	if err := s.dir.AddCollaborator(ctx, doc, actorID); err != nil {
		return nil, err
	}
	return s.docs.FindByID(ctx, doc.ID)
}
