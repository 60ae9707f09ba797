package postgres

import (
	"context"
	"database/sql"

	"papyr/internal/model"
	"papyr/internal/repository"
)

// DocumentPostgres is a PostgreSQL implementation of repository.DocumentRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type DocumentPostgres struct {
	db *sql.DB
}

// NewDocumentPostgres creates a new DocumentPostgres repository.
func NewDocumentPostgres(db *sql.DB) *DocumentPostgres {
	return &DocumentPostgres{db: db}
}

var _ repository.DocumentRepository = (*DocumentPostgres)(nil)

const documentColumns = `id, owner_id, title, description, status, can_share, share_token, storage_path, size, content_type, created_at, updated_at`

func scanDocument(row interface{ Scan(dest ...any) error }) (*model.Document, error) {
	var d model.Document
	if err := row.Scan(
		&d.ID,
		&d.OwnerID,
		&d.Title,
		&d.Description,
		&d.Status,
		&d.CanShare,
		&d.ShareToken,
		&d.StoragePath,
		&d.Size,
		&d.ContentType,
		&d.CreatedAt,
		&d.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &d, nil
}

// loadCollaborators fills in the collaborator set for one document.
func (r *DocumentPostgres) loadCollaborators(ctx context.Context, doc *model.Document) error {
	const q = `
		SELECT user_id
		FROM document_collaborators
		WHERE document_id = $1
		ORDER BY user_id
	`
	rows, err := r.db.QueryContext(ctx, q, doc.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	doc.Collaborators = make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return err
		}
		doc.Collaborators = append(doc.Collaborators, id)
	}
	return rows.Err()
}

func (r *DocumentPostgres) findOne(ctx context.Context, q string, arg any) (*model.Document, error) {
	doc, err := scanDocument(r.db.QueryRowContext(ctx, q, arg))
	if err != nil {
		return nil, err
	}
	if err := r.loadCollaborators(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Create inserts a new document row and returns the stored record.
func (r *DocumentPostgres) Create(ctx context.Context, doc *model.Document) (*model.Document, error) {
	const q = `
		INSERT INTO documents (` + documentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING ` + documentColumns + `
	`
	out, err := scanDocument(r.db.QueryRowContext(ctx, q,
		doc.ID,
		doc.OwnerID,
		doc.Title,
		doc.Description,
		doc.Status,
		doc.CanShare,
		doc.ShareToken,
		doc.StoragePath,
		doc.Size,
		doc.ContentType,
		doc.CreatedAt,
		doc.UpdatedAt,
	))
	if err != nil {
		return nil, err
	}
	out.Collaborators = make([]string, 0)
	return out, nil
}

// FindByID fetches a single document and its collaborator set by ID.
func (r *DocumentPostgres) FindByID(ctx context.Context, id string) (*model.Document, error) {
	const q = `SELECT ` + documentColumns + ` FROM documents WHERE id = $1`
	return r.findOne(ctx, q, id)
}

// FindByTitle fetches a single document by its unique title.
func (r *DocumentPostgres) FindByTitle(ctx context.Context, title string) (*model.Document, error) {
	const q = `SELECT ` + documentColumns + ` FROM documents WHERE title = $1`
	return r.findOne(ctx, q, title)
}

// FindByShareToken fetches a single document by its unique share token.
func (r *DocumentPostgres) FindByShareToken(ctx context.Context, token string) (*model.Document, error) {
	const q = `SELECT ` + documentColumns + ` FROM documents WHERE share_token = $1`
	return r.findOne(ctx, q, token)
}

// ListForUser returns documents the user owns or collaborates on using
// LIMIT/OFFSET pagination and a total count.
func (r *DocumentPostgres) ListForUser(ctx context.Context, userID string, pq repository.PageQuery) (*repository.PageResult[model.Document], error) {
	const qCount = `
		SELECT COUNT(*) FROM documents
		WHERE owner_id = $1
		   OR id IN (SELECT document_id FROM document_collaborators WHERE user_id = $1)
	`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount, userID).Scan(&total); err != nil {
		return nil, err
	}

	const qList = `
		SELECT ` + documentColumns + `
		FROM documents
		WHERE owner_id = $1
		   OR id IN (SELECT document_id FROM document_collaborators WHERE user_id = $1)
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.QueryContext(ctx, qList, userID, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Document, 0)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range items {
		if err := r.loadCollaborators(ctx, &items[i]); err != nil {
			return nil, err
		}
	}

	return &repository.PageResult[model.Document]{
		Items: items,
		Total: total,
	}, nil
}

// Update persists the mutable fields and returns the stored record. The
// collaborator set is written only through AddCollaborator/RemoveCollaborator.
func (r *DocumentPostgres) Update(ctx context.Context, doc *model.Document) (*model.Document, error) {
	const q = `
		UPDATE documents
		SET title = $2, description = $3, status = $4, can_share = $5,
		    share_token = $6, storage_path = $7, size = $8, content_type = $9,
		    updated_at = $10
		WHERE id = $1
		RETURNING ` + documentColumns + `
	`
	out, err := scanDocument(r.db.QueryRowContext(ctx, q,
		doc.ID,
		doc.Title,
		doc.Description,
		doc.Status,
		doc.CanShare,
		doc.ShareToken,
		doc.StoragePath,
		doc.Size,
		doc.ContentType,
		doc.UpdatedAt,
	))
	if err != nil {
		return nil, err
	}
	if err := r.loadCollaborators(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes a document by ID. Membership rows go with it via ON DELETE
// CASCADE. It does not return an error if the row does not exist.
func (r *DocumentPostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM documents WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	_, _ = res.RowsAffected()
	return nil
}

// AddCollaborator inserts the membership row; duplicates are swallowed so the
// operation stays idempotent under concurrent re-drives.
func (r *DocumentPostgres) AddCollaborator(ctx context.Context, docID, userID string) error {
	const q = `
		INSERT INTO document_collaborators (document_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (document_id, user_id) DO NOTHING
	`
	_, err := r.db.ExecContext(ctx, q, docID, userID)
	return err
}

// RemoveCollaborator deletes the membership row; removing an absent member
// is a no-op.
func (r *DocumentPostgres) RemoveCollaborator(ctx context.Context, docID, userID string) error {
	const q = `DELETE FROM document_collaborators WHERE document_id = $1 AND user_id = $2`
	_, err := r.db.ExecContext(ctx, q, docID, userID)
	return err
}
