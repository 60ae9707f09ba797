package postgres

import (
	"context"
	"database/sql"

	"papyr/internal/model"
	"papyr/internal/repository"
)

// InvitationPostgres is a PostgreSQL implementation of repository.InvitationRepository.
// Expiry filtering happens in the service layer; queries return rows as-is.
type InvitationPostgres struct {
	db *sql.DB
}

// NewInvitationPostgres creates a new InvitationPostgres repository.
func NewInvitationPostgres(db *sql.DB) *InvitationPostgres {
	return &InvitationPostgres{db: db}
}

var _ repository.InvitationRepository = (*InvitationPostgres)(nil)

const invitationColumns = `id, document_id, invited_by, invitee, expires_at, created_at`

func scanInvitation(row interface{ Scan(dest ...any) error }) (*model.Invitation, error) {
	var inv model.Invitation
	if err := row.Scan(
		&inv.ID,
		&inv.DocumentID,
		&inv.InvitedBy,
		&inv.Invitee,
		&inv.ExpiresAt,
		&inv.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *InvitationPostgres) list(ctx context.Context, q string, args ...any) ([]model.Invitation, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Invitation, 0)
	for rows.Next() {
		inv, err := scanInvitation(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *inv)
	}
	return items, rows.Err()
}

// Create inserts a new invitation row and returns the stored record.
func (r *InvitationPostgres) Create(ctx context.Context, inv *model.Invitation) (*model.Invitation, error) {
	const q = `
		INSERT INTO invitations (` + invitationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + invitationColumns + `
	`
	return scanInvitation(r.db.QueryRowContext(ctx, q,
		inv.ID,
		inv.DocumentID,
		inv.InvitedBy,
		inv.Invitee,
		inv.ExpiresAt,
		inv.CreatedAt,
	))
}

// FindByID fetches a single invitation by ID.
func (r *InvitationPostgres) FindByID(ctx context.Context, id string) (*model.Invitation, error) {
	const q = `SELECT ` + invitationColumns + ` FROM invitations WHERE id = $1`
	return scanInvitation(r.db.QueryRowContext(ctx, q, id))
}

// ListByDocument returns all invitations on a document, newest expiry first.
func (r *InvitationPostgres) ListByDocument(ctx context.Context, docID string) ([]model.Invitation, error) {
	const q = `
		SELECT ` + invitationColumns + `
		FROM invitations
		WHERE document_id = $1
		ORDER BY expires_at DESC
	`
	return r.list(ctx, q, docID)
}

// ListForDocumentUser returns the invitations on a document naming the user
// as invitee or inviter.
func (r *InvitationPostgres) ListForDocumentUser(ctx context.Context, docID, userID string) ([]model.Invitation, error) {
	const q = `
		SELECT ` + invitationColumns + `
		FROM invitations
		WHERE document_id = $1 AND (invitee = $2 OR invited_by = $2)
		ORDER BY expires_at DESC
	`
	return r.list(ctx, q, docID, userID)
}

// Delete removes an invitation by ID. It does not return an error if the row
// does not exist.
func (r *InvitationPostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM invitations WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id)
	return err
}
