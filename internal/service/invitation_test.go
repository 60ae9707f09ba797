package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"papyr/internal/model"
	repoMocks "papyr/internal/repository/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestInvitations_Invite(t *testing.T) {
	ctx := context.Background()
	doc := &model.Document{ID: "d1", OwnerID: "owner", Collaborators: []string{"collab"}}

	t.Run("collaborator can invite, default expiry is seven days", func(t *testing.T) {
		mInv := new(repoMocks.MockInvitationRepository)
		mUsers := new(repoMocks.MockUserRepository)
		s := NewInvitations(mInv, mUsers)

		start := time.Now().UTC()
		mUsers.On("FindByEmail", ctx, "guest@example.com").
			Return(&model.User{ID: "guest", Email: "guest@example.com"}, nil)
		mInv.On("Create", ctx, mock.MatchedBy(func(inv *model.Invitation) bool {
			window := inv.ExpiresAt.Sub(inv.CreatedAt)
			return inv.DocumentID == "d1" &&
				inv.InvitedBy == "collab" &&
				inv.Invitee == "guest" &&
				window == model.DefaultInvitationTTL &&
				!inv.CreatedAt.Before(start)
		})).Return(&model.Invitation{ID: "inv-1"}, nil)

		inv, err := s.Invite(ctx, doc, "collab", "guest@example.com", 0)

		require.NoError(t, err)
		assert.Equal(t, "inv-1", inv.ID)
		mInv.AssertExpectations(t)
	})

	t.Run("custom ttl is honored", func(t *testing.T) {
		mInv := new(repoMocks.MockInvitationRepository)
		mUsers := new(repoMocks.MockUserRepository)
		s := NewInvitations(mInv, mUsers)

		mUsers.On("FindByEmail", ctx, "guest@example.com").
			Return(&model.User{ID: "guest"}, nil)
		mInv.On("Create", ctx, mock.MatchedBy(func(inv *model.Invitation) bool {
			return inv.ExpiresAt.Sub(inv.CreatedAt) == 48*time.Hour
		})).Return(&model.Invitation{ID: "inv-2"}, nil)

		_, err := s.Invite(ctx, doc, "owner", "guest@example.com", 48*time.Hour)

		assert.NoError(t, err)
	})

	t.Run("actor without access cannot invite", func(t *testing.T) {
		s := NewInvitations(new(repoMocks.MockInvitationRepository), new(repoMocks.MockUserRepository))

		_, err := s.Invite(ctx, doc, "stranger", "guest@example.com", 0)

		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("unknown invitee", func(t *testing.T) {
		mInv := new(repoMocks.MockInvitationRepository)
		mUsers := new(repoMocks.MockUserRepository)
		s := NewInvitations(mInv, mUsers)

		mUsers.On("FindByEmail", ctx, "ghost@example.com").Return(nil, sql.ErrNoRows)

		_, err := s.Invite(ctx, doc, "owner", "ghost@example.com", 0)

		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("self invite is rejected", func(t *testing.T) {
		mInv := new(repoMocks.MockInvitationRepository)
		mUsers := new(repoMocks.MockUserRepository)
		s := NewInvitations(mInv, mUsers)

		mUsers.On("FindByEmail", ctx, "me@example.com").
			Return(&model.User{ID: "collab"}, nil)

		_, err := s.Invite(ctx, doc, "collab", "me@example.com", 0)

		assert.ErrorIs(t, err, ErrSelfInvite)
		mInv.AssertNotCalled(t, "Create")
	})
}

func TestInvitations_GrantsAccess(t *testing.T) {
	ctx := context.Background()

	t.Run("live invitation grants", func(t *testing.T) {
		mInv := new(repoMocks.MockInvitationRepository)
		s := NewInvitations(mInv, new(repoMocks.MockUserRepository))

		mInv.On("ListForDocumentUser", ctx, "d1", "guest").Return([]model.Invitation{
			{DocumentID: "d1", InvitedBy: "owner", Invitee: "guest", ExpiresAt: time.Now().Add(time.Hour)},
		}, nil)

		ok, err := s.GrantsAccess(ctx, "d1", "guest")

		assert.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("expired invitations are dead weight, never purged", func(t *testing.T) {
		mInv := new(repoMocks.MockInvitationRepository)
		s := NewInvitations(mInv, new(repoMocks.MockUserRepository))

		mInv.On("ListForDocumentUser", ctx, "d1", "guest").Return([]model.Invitation{
			{DocumentID: "d1", InvitedBy: "owner", Invitee: "guest", ExpiresAt: time.Now().Add(-time.Minute)},
		}, nil)

		ok, err := s.GrantsAccess(ctx, "d1", "guest")

		assert.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("no invitations at all", func(t *testing.T) {
		mInv := new(repoMocks.MockInvitationRepository)
		s := NewInvitations(mInv, new(repoMocks.MockUserRepository))

		mInv.On("ListForDocumentUser", ctx, "d1", "stranger").Return([]model.Invitation{}, nil)

		ok, err := s.GrantsAccess(ctx, "d1", "stranger")

		assert.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestInvitations_Revoke(t *testing.T) {
	ctx := context.Background()
	doc := &model.Document{ID: "d1", OwnerID: "owner", Collaborators: []string{"collab"}}
	stored := &model.Invitation{ID: "inv-1", DocumentID: "d1", InvitedBy: "collab", Invitee: "guest"}

	t.Run("inviter revokes", func(t *testing.T) {
		mInv := new(repoMocks.MockInvitationRepository)
		s := NewInvitations(mInv, new(repoMocks.MockUserRepository))

		mInv.On("FindByID", ctx, "inv-1").Return(stored, nil)
		mInv.On("Delete", ctx, "inv-1").Return(nil)

		assert.NoError(t, s.Revoke(ctx, doc, "collab", "inv-1"))
	})

	t.Run("owner revokes anything on the document", func(t *testing.T) {
		mInv := new(repoMocks.MockInvitationRepository)
		s := NewInvitations(mInv, new(repoMocks.MockUserRepository))

		mInv.On("FindByID", ctx, "inv-1").Return(stored, nil)
		mInv.On("Delete", ctx, "inv-1").Return(nil)

		assert.NoError(t, s.Revoke(ctx, doc, "owner", "inv-1"))
	})

	t.Run("invitee cannot revoke", func(t *testing.T) {
		mInv := new(repoMocks.MockInvitationRepository)
		s := NewInvitations(mInv, new(repoMocks.MockUserRepository))

		mInv.On("FindByID", ctx, "inv-1").Return(stored, nil)

		assert.ErrorIs(t, s.Revoke(ctx, doc, "guest", "inv-1"), ErrForbidden)
	})

	t.Run("invitation on another document is not found", func(t *testing.T) {
		mInv := new(repoMocks.MockInvitationRepository)
		s := NewInvitations(mInv, new(repoMocks.MockUserRepository))

		other := &model.Invitation{ID: "inv-9", DocumentID: "d9", InvitedBy: "owner"}
		mInv.On("FindByID", ctx, "inv-9").Return(other, nil)

		assert.ErrorIs(t, s.Revoke(ctx, doc, "owner", "inv-9"), ErrInvitationNotFound)
	})
}
