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

// Invitations manages the time-boxed access grants that run alongside the
// permanent collaborator set. An invitation names an inviter and an invitee
// on one document; it grants read access to both until it expires, evaluated
// lazily at check time. Nothing sweeps expired rows.
type Invitations struct {
	invites repository.InvitationRepository
	users   repository.UserRepository
	now     func() time.Time
}

// NewInvitations constructs the invitation mechanism.
func NewInvitations(invites repository.InvitationRepository, users repository.UserRepository) *Invitations {
	return &Invitations{invites: invites, users: users, now: time.Now}
}

// Invite creates an invitation from the actor to the user behind
// inviteeEmail. The actor must already have access to the document. A
// non-positive ttl falls back to the 7-day default.
func (s *Invitations) Invite(ctx context.Context, doc *model.Document, actorID, inviteeEmail string, ttl time.Duration) (*model.Invitation, error) {
	if !access.HasAccess(doc, actorID) {
		return nil, ErrForbidden
	}
	invitee, err := s.users.FindByEmail(ctx, inviteeEmail)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if invitee.ID == actorID {
		return nil, ErrSelfInvite
	}
	if ttl <= 0 {
		ttl = model.DefaultInvitationTTL
	}
	now := s.now().UTC()
	inv := &model.Invitation{
		ID:         uuid.NewString(),
		DocumentID: doc.ID,
		InvitedBy:  actorID,
		Invitee:    invitee.ID,
		ExpiresAt:  now.Add(ttl),
		CreatedAt:  now,
	}
	return s.invites.Create(ctx, inv)
}

// ListForDocument returns all invitations on the document. Read access is
// required; listing shows expired entries too, since they are never purged.
func (s *Invitations) ListForDocument(ctx context.Context, doc *model.Document, actorID string) ([]model.Invitation, error) {
	if !access.HasAccess(doc, actorID) {
		return nil, ErrForbidden
	}
	return s.invites.ListByDocument(ctx, doc.ID)
}

// Revoke deletes an invitation. Only the document owner or the inviter may
// revoke.
func (s *Invitations) Revoke(ctx context.Context, doc *model.Document, actorID, invitationID string) error {
	inv, err := s.invites.FindByID(ctx, invitationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrInvitationNotFound
		}
		return err
	}
	if inv.DocumentID != doc.ID {
		return ErrInvitationNotFound
	}
	if !access.IsOwner(doc, actorID) && inv.InvitedBy != actorID {
		return ErrForbidden
	}
	return s.invites.Delete(ctx, invitationID)
}

// GrantsAccess reports whether any live invitation on the document names the
// actor. This is the additive read-tier channel next to collaborator access.
func (s *Invitations) GrantsAccess(ctx context.Context, docID, actorID string) (bool, error) {
	invs, err := s.invites.ListForDocumentUser(ctx, docID, actorID)
	if err != nil {
		return false, err
	}
	now := s.now()
	for i := range invs {
		if access.HasInvitationAccess(&invs[i], actorID, now) {
			return true, nil
		}
	}
	return false, nil
}
