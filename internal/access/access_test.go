package access

import (
	"testing"
	"time"

	"papyr/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestHasAccess(t *testing.T) {
	owner := "owner-id"
	users := []string{"u1", "u2", "u3"}

	// Exhaust every subset of a small collaborator pool: access must hold
	// exactly for the owner and the members of the chosen subset.
	for mask := 0; mask < 1<<len(users); mask++ {
		var collabs []string
		for i, u := range users {
			if mask&(1<<i) != 0 {
				collabs = append(collabs, u)
			}
		}
		doc := &model.Document{ID: "d1", OwnerID: owner, Collaborators: collabs}

		assert.True(t, HasAccess(doc, owner), "owner always has access (mask %d)", mask)
		for i, u := range users {
			want := mask&(1<<i) != 0
			assert.Equal(t, want, HasAccess(doc, u), "user %s, mask %d", u, mask)
		}
		assert.False(t, HasAccess(doc, "stranger"), "mask %d", mask)
		assert.False(t, HasAccess(doc, ""), "empty actor never has access (mask %d)", mask)
	}
}

func TestIsOwner(t *testing.T) {
	doc := &model.Document{OwnerID: "owner-id", Collaborators: []string{"u1"}}

	assert.True(t, IsOwner(doc, "owner-id"))
	assert.False(t, IsOwner(doc, "u1"), "collaborators are not owners")
	assert.False(t, IsOwner(doc, "stranger"))
	assert.False(t, IsOwner(doc, ""))
}

func TestHasInvitationAccess(t *testing.T) {
	now := time.Now()
	inv := &model.Invitation{
		DocumentID: "d1",
		InvitedBy:  "inviter",
		Invitee:    "invitee",
		ExpiresAt:  now.Add(time.Hour),
	}

	assert.True(t, HasInvitationAccess(inv, "invitee", now))
	assert.True(t, HasInvitationAccess(inv, "inviter", now))
	assert.False(t, HasInvitationAccess(inv, "stranger", now))
	assert.False(t, HasInvitationAccess(inv, "", now))

	t.Run("expired invitation grants nothing", func(t *testing.T) {
		late := inv.ExpiresAt.Add(time.Minute)
		assert.False(t, HasInvitationAccess(inv, "invitee", late))
		assert.False(t, HasInvitationAccess(inv, "inviter", late))
	})

	t.Run("expiry boundary is exclusive", func(t *testing.T) {
		assert.False(t, HasInvitationAccess(inv, "invitee", inv.ExpiresAt))
	})
}

func TestGranted(t *testing.T) {
	now := time.Now()
	doc := &model.Document{ID: "d1", OwnerID: "owner", Collaborators: []string{"collab"}}
	inv := &model.Invitation{DocumentID: "d1", InvitedBy: "owner", Invitee: "guest", ExpiresAt: now.Add(time.Hour)}
	expired := &model.Invitation{DocumentID: "d1", InvitedBy: "owner", Invitee: "late-guest", ExpiresAt: now.Add(-time.Hour)}

	sources := []Source{Ownership(doc), Collaboration(doc), InvitationGrant(inv), InvitationGrant(expired)}

	assert.True(t, Granted("owner", now, sources...))
	assert.True(t, Granted("collab", now, sources...))
	assert.True(t, Granted("guest", now, sources...))
	assert.False(t, Granted("late-guest", now, sources...))
	assert.False(t, Granted("stranger", now, sources...))
	assert.False(t, Granted("guest", now), "no sources, no access")
}
