package model

import "time"

// DefaultInvitationTTL is how long a new invitation stays valid unless the
// caller asks for something else.
const DefaultInvitationTTL = 7 * 24 * time.Hour

// Invitation is a time-boxed access grant between two identities on one
// document. It is independent of the document's collaborator set: it names
// the inviter and the invitee and nobody else.
//
// Expired invitations are not purged; they simply stop granting access once
// ExpiresAt has passed.
type Invitation struct {
	ID         string    `json:"id"`
	DocumentID string    `json:"document_id"`
	InvitedBy  string    `json:"invited_by"`
	Invitee    string    `json:"invitee"`
	ExpiresAt  time.Time `json:"expires_at"`
	CreatedAt  time.Time `json:"created_at"`
}

// Expired reports whether the invitation no longer grants access at now.
func (i *Invitation) Expired(now time.Time) bool {
	return !now.Before(i.ExpiresAt)
}
