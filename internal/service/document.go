package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"time"

	"papyr/internal/access"
	"papyr/internal/model"
	"papyr/internal/repository"
	"papyr/internal/storage"
)

// DocumentListResult is the service-level DTO for paginated documents.
type DocumentListResult struct {
	Items []model.Document `json:"data"`
	Total int              `json:"total"`
}

// CreateDocumentInput carries the validated payload for document creation.
type CreateDocumentInput struct {
	Title       string
	Description string
	Filename    string
	Size        int64
	ContentType string
}

// UpdateDocumentInput is the metadata patch accepted by Update. Nil fields
// are left unchanged.
type UpdateDocumentInput struct {
	Title       *string
	Description *string
}

// DocumentService is the externally visible contract of the sharing core.
// Every operation takes the acting identity first, loads the document, gates
// it through the access policy at the operation's tier, and only then
// mutates. Failures come back as the typed errors in errors.go.
type DocumentService interface {
	// Create registers the metadata record and uploads the PDF content.
	// The two form a single logical unit: if the upload fails, the record
	// is rolled back. The caller becomes the owner.
	Create(ctx context.Context, actorID string, in CreateDocumentInput, r io.Reader) (*model.Document, error)

	// Get returns a document the actor may read: owner, collaborator, or
	// holder of a live invitation.
	Get(ctx context.Context, actorID, id string) (*model.Document, error)

	// Download streams the stored PDF for a readable document. The stored
	// file must exist.
	Download(ctx context.Context, actorID, id string) (io.ReadCloser, storage.ObjectInfo, error)

	// List returns the documents the actor owns or collaborates on.
	List(ctx context.Context, actorID string, limit, offset int) (*DocumentListResult, error)

	// Update applies a metadata patch. Owner only.
	Update(ctx context.Context, actorID, id string, in UpdateDocumentInput) (*model.Document, error)

	// Delete removes the stored file and then the record. Owner only. The
	// record survives if the file delete fails, so no record is ever left
	// pointing at a confirmed-deleted file and vice versa.
	Delete(ctx context.Context, actorID, id string) error

	// AddCollaborator grants the user behind email permanent access.
	// Owner only; adding an existing collaborator is a no-op.
	AddCollaborator(ctx context.Context, actorID, id, email string) (*model.Document, error)

	// RemoveCollaborator revokes permanent access. Owner only; removing an
	// absent collaborator is a no-op.
	RemoveCollaborator(ctx context.Context, actorID, id, email string) (*model.Document, error)

	// SetShareable flips the document's can_share gate. Owner only.
	SetShareable(ctx context.Context, actorID, id string, canShare bool) (*model.Document, error)

	// IssueShareToken returns the current share token. Owner only, and only
	// while the document is shareable.
	IssueShareToken(ctx context.Context, actorID, id string) (string, error)

	// RegenerateShareToken replaces the share token. Owner only.
	RegenerateShareToken(ctx context.Context, actorID, id string) (string, error)

	// RedeemShareToken enrolls the actor as collaborator; the token is the
	// credential, no prior access needed.
	RedeemShareToken(ctx context.Context, actorID, token string) (*model.Document, error)

	// Invite creates a time-boxed invitation for the user behind email.
	Invite(ctx context.Context, actorID, id, email string, ttl time.Duration) (*model.Invitation, error)

	// ListInvitations returns the invitations on a readable document.
	ListInvitations(ctx context.Context, actorID, id string) ([]model.Invitation, error)

	// RevokeInvitation deletes an invitation created on the document.
	RevokeInvitation(ctx context.Context, actorID, id, invitationID string) error
}

// documentService is a concrete implementation of DocumentService.
type documentService struct {
	store   storage.Storage
	docs    repository.DocumentRepository
	users   repository.UserRepository
	dir     *Directory
	sharing *Sharing
	invites *Invitations
}

// NewDocumentService wires the facade over its three domain components.
func NewDocumentService(store storage.Storage, docs repository.DocumentRepository, users repository.UserRepository, dir *Directory, sharing *Sharing, invites *Invitations) DocumentService {
	return &documentService{
		store:   store,
		docs:    docs,
		users:   users,
		dir:     dir,
		sharing: sharing,
		invites: invites,
	}
}

// load fetches the document snapshot, translating a missing row.
func (s *documentService) load(ctx context.Context, id string) (*model.Document, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	doc, err := s.docs.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDocumentNotFound
		}
		return nil, err
	}
	return doc, nil
}

// loadReadable loads and gates at the read tier. Invitation grants are
// additive here: an actor outside the collaborator set still reads if a live
// invitation names them. Owner-tier paths never consult invitations.
func (s *documentService) loadReadable(ctx context.Context, actorID, id string) (*model.Document, error) {
	doc, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if access.HasAccess(doc, actorID) {
		return doc, nil
	}
	ok, err := s.invites.GrantsAccess(ctx, doc.ID, actorID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrForbidden
	}
	return doc, nil
}

// loadOwned loads and gates at the owner tier.
func (s *documentService) loadOwned(ctx context.Context, actorID, id string) (*model.Document, error) {
	doc, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !access.IsOwner(doc, actorID) {
		return nil, ErrForbidden
	}
	return doc, nil
}

func (s *documentService) Create(ctx context.Context, actorID string, in CreateDocumentInput, r io.Reader) (*model.Document, error) {
	if r == nil {
		return nil, ErrReaderNil
	}

	doc, err := s.dir.Create(ctx, actorID, in.Title, in.Description, in.Size, in.ContentType)
	if err != nil {
		return nil, err
	}

	_, err = s.store.Put(ctx, doc.StoragePath, r, storage.PutObjectOptions{
		Size:        in.Size,
		ContentType: in.ContentType,
		Metadata: map[string]string{
			"original-filename": in.Filename,
		},
	})
	if err != nil {
		// Compensate: the record must not outlive a failed upload.
		if delErr := s.dir.Delete(ctx, doc.ID); delErr != nil {
			return nil, fmt.Errorf("%w: upload failed: %v; rollback delete failed: %v", ErrStorage, err, delErr)
		}
		return nil, fmt.Errorf("%w: upload failed: %v", ErrStorage, err)
	}
	return doc, nil
}

func (s *documentService) Get(ctx context.Context, actorID, id string) (*model.Document, error) {
	return s.loadReadable(ctx, actorID, id)
}

func (s *documentService) Download(ctx context.Context, actorID, id string) (io.ReadCloser, storage.ObjectInfo, error) {
	doc, err := s.loadReadable(ctx, actorID, id)
	if err != nil {
		return nil, storage.ObjectInfo{}, err
	}
	exists, err := s.store.Exists(ctx, doc.StoragePath)
	if err != nil {
		return nil, storage.ObjectInfo{}, fmt.Errorf("%w: stat: %v", ErrStorage, err)
	}
	if !exists {
		return nil, storage.ObjectInfo{}, ErrFileNotFound
	}
	rc, info, err := s.store.Get(ctx, doc.StoragePath)
	if err != nil {
		return nil, storage.ObjectInfo{}, fmt.Errorf("%w: download: %v", ErrStorage, err)
	}
	return rc, info, nil
}

// List returns paginated documents without exposing repository types.
func (s *documentService) List(ctx context.Context, actorID string, limit, offset int) (*DocumentListResult, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}
	res, err := s.docs.ListForUser(ctx, actorID, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &DocumentListResult{Items: res.Items, Total: res.Total}, nil
}

func (s *documentService) Update(ctx context.Context, actorID, id string, in UpdateDocumentInput) (*model.Document, error) {
	doc, err := s.loadOwned(ctx, actorID, id)
	if err != nil {
		return nil, err
	}
	return s.dir.Update(ctx, doc, UpdatePatch{Title: in.Title, Description: in.Description})
}

func (s *documentService) Delete(ctx context.Context, actorID, id string) error {
	doc, err := s.loadOwned(ctx, actorID, id)
	if err != nil {
		return err
	}
	exists, err := s.store.Exists(ctx, doc.StoragePath)
	if err != nil {
		return fmt.Errorf("%w: stat: %v", ErrStorage, err)
	}
	if !exists {
		return ErrFileNotFound
	}
	// File first; the record is removed only once the file is confirmed gone.
	if err := s.store.Delete(ctx, doc.StoragePath); err != nil {
		return fmt.Errorf("%w: delete file: %v", ErrStorage, err)
	}
	return s.dir.Delete(ctx, doc.ID)
}

// resolveCollaborator loads the owned document and the user behind email.
func (s *documentService) resolveCollaborator(ctx context.Context, actorID, id, email string) (*model.Document, *model.User, error) {
	doc, err := s.loadOwned(ctx, actorID, id)
	if err != nil {
		return nil, nil, err
	}
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, ErrUserNotFound
		}
		return nil, nil, err
	}
	return doc, user, nil
}

func (s *documentService) AddCollaborator(ctx context.Context, actorID, id, email string) (*model.Document, error) {
	doc, user, err := s.resolveCollaborator(ctx, actorID, id, email)
	if err != nil {
		return nil, err
	}
	if err := s.dir.AddCollaborator(ctx, doc, user.ID); err != nil {
		return nil, err
	}
	return s.docs.FindByID(ctx, doc.ID)
}

func (s *documentService) RemoveCollaborator(ctx context.Context, actorID, id, email string) (*model.Document, error) {
	doc, user, err := s.resolveCollaborator(ctx, actorID, id, email)
	if err != nil {
		return nil, err
	}
	if err := s.dir.RemoveCollaborator(ctx, doc, user.ID); err != nil {
		return nil, err
	}
	return s.docs.FindByID(ctx, doc.ID)
}

func (s *documentService) SetShareable(ctx context.Context, actorID, id string, canShare bool) (*model.Document, error) {
	doc, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.sharing.SetShareable(ctx, doc, actorID, canShare)
}

func (s *documentService) IssueShareToken(ctx context.Context, actorID, id string) (string, error) {
	doc, err := s.load(ctx, id)
	if err != nil {
		return "", err
	}
	return s.sharing.IssueToken(doc, actorID)
}

func (s *documentService) RegenerateShareToken(ctx context.Context, actorID, id string) (string, error) {
	doc, err := s.load(ctx, id)
	if err != nil {
		return "", err
	}
	return s.sharing.RegenerateToken(ctx, doc, actorID)
}

func (s *documentService) RedeemShareToken(ctx context.Context, actorID, token string) (*model.Document, error) {
	if token == "" {
		return nil, ErrNotShareable
	}
	return s.sharing.Redeem(ctx, token, actorID)
}

func (s *documentService) Invite(ctx context.Context, actorID, id, email string, ttl time.Duration) (*model.Invitation, error) {
	doc, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.invites.Invite(ctx, doc, actorID, email, ttl)
}

func (s *documentService) ListInvitations(ctx context.Context, actorID, id string) ([]model.Invitation, error) {
	doc, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.invites.ListForDocument(ctx, doc, actorID)
}

func (s *documentService) RevokeInvitation(ctx context.Context, actorID, id, invitationID string) error {
	doc, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	return s.invites.Revoke(ctx, doc, actorID, invitationID)
}
