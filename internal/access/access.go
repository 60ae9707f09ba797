package access

// Package access holds the authorization rules for documents. Everything
// here is a pure function over already-loaded snapshots: no I/O, no clocks
// other than the instant the caller passes in. Callers load state, ask a
// question, and act on the answer.

import (
	"time"

	"papyr/internal/model"
)

// IsOwner reports whether actorID is the document owner. Owner tier is
// required for destructive and administrative operations: update, delete,
// collaborator management, and share-token issuance.
func IsOwner(doc *model.Document, actorID string) bool {
	return actorID != "" && doc.OwnerID == actorID
}

// HasAccess reports whether actorID may read the document: true iff the
// actor is the owner or a member of the collaborator set.
func HasAccess(doc *model.Document, actorID string) bool {
	return IsOwner(doc, actorID) || (actorID != "" && doc.HasCollaborator(actorID))
}

// HasInvitationAccess reports whether actorID is granted read access by the
// invitation at instant now. Only the invitee and the inviter are named, and
// an expired invitation grants nothing.
func HasInvitationAccess(inv *model.Invitation, actorID string, now time.Time) bool {
	if actorID == "" || inv.Expired(now) {
		return false
	}
	return inv.Invitee == actorID || inv.InvitedBy == actorID
}

// Source is one way an actor can be granted access to a document. The three
// variants are Ownership, Collaboration, and InvitationGrant; Granted
// combines any number of them uniformly.
type Source interface {
	grants(actorID string, now time.Time) bool
}

type ownershipSource struct{ doc *model.Document }

func (s ownershipSource) grants(actorID string, _ time.Time) bool {
	return IsOwner(s.doc, actorID)
}

type collaborationSource struct{ doc *model.Document }

func (s collaborationSource) grants(actorID string, _ time.Time) bool {
	return actorID != "" && s.doc.HasCollaborator(actorID)
}

type invitationSource struct{ inv *model.Invitation }

func (s invitationSource) grants(actorID string, now time.Time) bool {
	return HasInvitationAccess(s.inv, actorID, now)
}

// Ownership grants access to the document owner.
func Ownership(doc *model.Document) Source { return ownershipSource{doc} }

// Collaboration grants access to members of the collaborator set.
func Collaboration(doc *model.Document) Source { return collaborationSource{doc} }

// InvitationGrant grants access to the invitation's two named parties until
// the invitation expires.
func InvitationGrant(inv *model.Invitation) Source { return invitationSource{inv} }

// Granted reports whether any of the sources grants actorID access at now.
func Granted(actorID string, now time.Time, sources ...Source) bool {
	for _, src := range sources {
		if src.grants(actorID, now) {
			return true
		}
	}
	return false
}
