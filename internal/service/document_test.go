package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"papyr/internal/model"
	"papyr/internal/repository"
	repoMocks "papyr/internal/repository/mocks"
	storeMocks "papyr/internal/storage/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type facadeMocks struct {
	store *storeMocks.MockStorage
	docs  *repoMocks.MockDocumentRepository
	users *repoMocks.MockUserRepository
	inv   *repoMocks.MockInvitationRepository
}

func newFacade() (DocumentService, facadeMocks) {
	m := facadeMocks{
		store: new(storeMocks.MockStorage),
		docs:  new(repoMocks.MockDocumentRepository),
		users: new(repoMocks.MockUserRepository),
		inv:   new(repoMocks.MockInvitationRepository),
	}
	dir := NewDirectory(m.docs)
	svc := NewDocumentService(m.store, m.docs, m.users, dir, NewSharing(m.docs, dir), NewInvitations(m.inv, m.users))
	return svc, m
}

func ownedDoc() *model.Document {
	return &model.Document{
		ID:            "d1",
		OwnerID:       "owner",
		Title:         "Report",
		Status:        model.StatusActive,
		Collaborators: []string{"collab"},
		StoragePath:   "documents/d1.pdf",
		ShareToken:    "token-1",
	}
}

func TestDocumentService_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("owner and collaborator read", func(t *testing.T) {
		svc, m := newFacade()
		m.docs.On("FindByID", ctx, "d1").Return(ownedDoc(), nil)

		for _, actor := range []string{"owner", "collab"} {
			doc, err := svc.Get(ctx, actor, "d1")
			assert.NoError(t, err, "actor %s", actor)
			assert.Equal(t, "d1", doc.ID)
		}
		m.inv.AssertNotCalled(t, "ListForDocumentUser")
	})

	t.Run("live invitation opens the read path", func(t *testing.T) {
		svc, m := newFacade()
		m.docs.On("FindByID", ctx, "d1").Return(ownedDoc(), nil)
		m.inv.On("ListForDocumentUser", ctx, "d1", "guest").Return([]model.Invitation{
			{DocumentID: "d1", InvitedBy: "owner", Invitee: "guest", ExpiresAt: time.Now().Add(time.Hour)},
		}, nil)

		doc, err := svc.Get(ctx, "guest", "d1")

		assert.NoError(t, err)
		assert.Equal(t, "d1", doc.ID)
	})

	t.Run("expired invitation does not", func(t *testing.T) {
		svc, m := newFacade()
		m.docs.On("FindByID", ctx, "d1").Return(ownedDoc(), nil)
		m.inv.On("ListForDocumentUser", ctx, "d1", "guest").Return([]model.Invitation{
			{DocumentID: "d1", InvitedBy: "owner", Invitee: "guest", ExpiresAt: time.Now().Add(-time.Hour)},
		}, nil)

		_, err := svc.Get(ctx, "guest", "d1")

		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("stranger is rejected", func(t *testing.T) {
		svc, m := newFacade()
		m.docs.On("FindByID", ctx, "d1").Return(ownedDoc(), nil)
		m.inv.On("ListForDocumentUser", ctx, "d1", "stranger").Return([]model.Invitation{}, nil)

		_, err := svc.Get(ctx, "stranger", "d1")

		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("missing document", func(t *testing.T) {
		svc, m := newFacade()
		m.docs.On("FindByID", ctx, "nope").Return(nil, sql.ErrNoRows)

		_, err := svc.Get(ctx, "owner", "nope")

		assert.ErrorIs(t, err, ErrDocumentNotFound)
	})

	t.Run("empty id", func(t *testing.T) {
		svc, _ := newFacade()

		_, err := svc.Get(ctx, "owner", "")

		assert.ErrorIs(t, err, ErrIDRequired)
	})
}

func TestDocumentService_Create(t *testing.T) {
	ctx := context.Background()
	input := CreateDocumentInput{
		Title:       "Report",
		Description: "yearly numbers",
		Filename:    "report.pdf",
		Size:        11,
		ContentType: "application/pdf",
	}

	t.Run("happy path", func(t *testing.T) {
		svc, m := newFacade()
		r := strings.NewReader("hello world")

		m.docs.On("FindByTitle", ctx, "Report").Return(nil, sql.ErrNoRows)
		m.docs.On("Create", ctx, mock.MatchedBy(func(doc *model.Document) bool {
			return doc.OwnerID == "alice" && doc.Title == "Report"
		})).Return(func(ctx context.Context, doc *model.Document) *model.Document { return doc }, nil)
		m.store.On("Put", ctx, mock.MatchedBy(func(key string) bool {
			return strings.HasPrefix(key, "documents/") && strings.HasSuffix(key, ".pdf")
		}), r, mock.Anything).Return(storageObjectInfo("documents/x.pdf", 11), nil)

		doc, err := svc.Create(ctx, "alice", input, r)

		require.NoError(t, err)
		assert.Equal(t, "alice", doc.OwnerID)
		m.store.AssertExpectations(t)
	})

	t.Run("nil reader", func(t *testing.T) {
		svc, _ := newFacade()

		_, err := svc.Create(ctx, "alice", input, nil)

		assert.ErrorIs(t, err, ErrReaderNil)
	})

	t.Run("duplicate title short-circuits before any upload", func(t *testing.T) {
		svc, m := newFacade()
		m.docs.On("FindByTitle", ctx, "Report").Return(ownedDoc(), nil)

		_, err := svc.Create(ctx, "bob", input, strings.NewReader("x"))

		assert.ErrorIs(t, err, ErrTitleTaken)
		m.store.AssertNotCalled(t, "Put")
	})

	t.Run("upload failure rolls the record back", func(t *testing.T) {
		svc, m := newFacade()

		m.docs.On("FindByTitle", ctx, "Report").Return(nil, sql.ErrNoRows)
		m.docs.On("Create", ctx, mock.Anything).
			Return(func(ctx context.Context, doc *model.Document) *model.Document { return doc }, nil)
		m.store.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything).
			Return(storageObjectInfo("", 0), errors.New("bucket gone"))
		m.docs.On("Delete", ctx, mock.Anything).Return(nil)

		_, err := svc.Create(ctx, "alice", input, strings.NewReader("x"))

		assert.ErrorIs(t, err, ErrStorage)
		m.docs.AssertCalled(t, "Delete", ctx, mock.Anything)
	})

	t.Run("upload failure with failed rollback reports both", func(t *testing.T) {
		svc, m := newFacade()

		m.docs.On("FindByTitle", ctx, "Report").Return(nil, sql.ErrNoRows)
		m.docs.On("Create", ctx, mock.Anything).
			Return(func(ctx context.Context, doc *model.Document) *model.Document { return doc }, nil)
		m.store.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything).
			Return(storageObjectInfo("", 0), errors.New("bucket gone"))
		m.docs.On("Delete", ctx, mock.Anything).Return(errors.New("db down"))

		_, err := svc.Create(ctx, "alice", input, strings.NewReader("x"))

		assert.ErrorIs(t, err, ErrStorage)
		assert.Contains(t, err.Error(), "rollback delete failed")
	})
}

func TestDocumentService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("owner patches metadata", func(t *testing.T) {
		svc, m := newFacade()
		title := "Report v2"

		m.docs.On("FindByID", ctx, "d1").Return(ownedDoc(), nil)
		m.docs.On("FindByTitle", ctx, "Report v2").Return(nil, sql.ErrNoRows)
		m.docs.On("Update", ctx, mock.MatchedBy(func(doc *model.Document) bool {
			return doc.Title == "Report v2"
		})).Return(&model.Document{ID: "d1", Title: title}, nil)

		out, err := svc.Update(ctx, "owner", "d1", UpdateDocumentInput{Title: &title})

		assert.NoError(t, err)
		assert.Equal(t, title, out.Title)
	})

	t.Run("collaborator cannot update", func(t *testing.T) {
		svc, m := newFacade()
		title := "hijack"

		m.docs.On("FindByID", ctx, "d1").Return(ownedDoc(), nil)

		_, err := svc.Update(ctx, "collab", "d1", UpdateDocumentInput{Title: &title})

		assert.ErrorIs(t, err, ErrForbidden)
		m.docs.AssertNotCalled(t, "Update")
	})
}

func TestDocumentService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("file goes first, then the record", func(t *testing.T) {
		svc, m := newFacade()

		m.docs.On("FindByID", ctx, "d1").Return(ownedDoc(), nil)
		m.store.On("Exists", ctx, "documents/d1.pdf").Return(true, nil)
		m.store.On("Delete", ctx, "documents/d1.pdf").Return(nil)
		m.docs.On("Delete", ctx, "d1").Return(nil)

		assert.NoError(t, svc.Delete(ctx, "owner", "d1"))
		m.docs.AssertExpectations(t)
	})

	t.Run("failed file delete keeps the record", func(t *testing.T) {
		svc, m := newFacade()

		m.docs.On("FindByID", ctx, "d1").Return(ownedDoc(), nil)
		m.store.On("Exists", ctx, "documents/d1.pdf").Return(true, nil)
		m.store.On("Delete", ctx, "documents/d1.pdf").Return(errors.New("backend unavailable"))

		err := svc.Delete(ctx, "owner", "d1")

		assert.ErrorIs(t, err, ErrStorage)
		m.docs.AssertNotCalled(t, "Delete")
	})

	t.Run("missing file", func(t *testing.T) {
		svc, m := newFacade()

		m.docs.On("FindByID", ctx, "d1").Return(ownedDoc(), nil)
		m.store.On("Exists", ctx, "documents/d1.pdf").Return(false, nil)

		err := svc.Delete(ctx, "owner", "d1")

		assert.ErrorIs(t, err, ErrFileNotFound)
		m.store.AssertNotCalled(t, "Delete")
	})

	t.Run("collaborator cannot delete", func(t *testing.T) {
		svc, m := newFacade()

		m.docs.On("FindByID", ctx, "d1").Return(ownedDoc(), nil)

		assert.ErrorIs(t, svc.Delete(ctx, "collab", "d1"), ErrForbidden)
	})
}

func TestDocumentService_Download(t *testing.T) {
	ctx := context.Background()

	t.Run("missing file", func(t *testing.T) {
		svc, m := newFacade()

		m.docs.On("FindByID", ctx, "d1").Return(ownedDoc(), nil)
		m.store.On("Exists", ctx, "documents/d1.pdf").Return(false, nil)

		_, _, err := svc.Download(ctx, "owner", "d1")

		assert.ErrorIs(t, err, ErrFileNotFound)
	})

	t.Run("collaborator downloads", func(t *testing.T) {
		svc, m := newFacade()

		m.docs.On("FindByID", ctx, "d1").Return(ownedDoc(), nil)
		m.store.On("Exists", ctx, "documents/d1.pdf").Return(true, nil)
		m.store.On("Get", ctx, "documents/d1.pdf").
			Return(nil, storageObjectInfo("documents/d1.pdf", 11), nil)

		_, info, err := svc.Download(ctx, "collab", "d1")

		assert.NoError(t, err)
		assert.Equal(t, int64(11), info.Size)
	})
}

func TestDocumentService_Collaborators(t *testing.T) {
	ctx := context.Background()

	t.Run("owner adds by email", func(t *testing.T) {
		svc, m := newFacade()

		m.docs.On("FindByID", ctx, "d1").Return(ownedDoc(), nil)
		m.users.On("FindByEmail", ctx, "bob@example.com").Return(&model.User{ID: "bob"}, nil)
		m.docs.On("AddCollaborator", ctx, "d1", "bob").Return(nil)

		out, err := svc.AddCollaborator(ctx, "owner", "d1", "bob@example.com")

		assert.NoError(t, err)
		assert.NotNil(t, out)
	})

	t.Run("owner email resolves to the owner", func(t *testing.T) {
		svc, m := newFacade()

		m.docs.On("FindByID", ctx, "d1").Return(ownedDoc(), nil)
		m.users.On("FindByEmail", ctx, "owner@example.com").Return(&model.User{ID: "owner"}, nil)

		_, err := svc.AddCollaborator(ctx, "owner", "d1", "owner@example.com")

		assert.ErrorIs(t, err, ErrOwnerCollaborator)
		m.docs.AssertNotCalled(t, "AddCollaborator")
	})

	t.Run("non-owner cannot manage collaborators", func(t *testing.T) {
		svc, m := newFacade()

		m.docs.On("FindByID", ctx, "d1").Return(ownedDoc(), nil)

		_, err := svc.AddCollaborator(ctx, "collab", "d1", "bob@example.com")
		assert.ErrorIs(t, err, ErrForbidden)

		_, err = svc.RemoveCollaborator(ctx, "collab", "d1", "bob@example.com")
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("unknown email", func(t *testing.T) {
		svc, m := newFacade()

		m.docs.On("FindByID", ctx, "d1").Return(ownedDoc(), nil)
		m.users.On("FindByEmail", ctx, "ghost@example.com").Return(nil, sql.ErrNoRows)

		_, err := svc.AddCollaborator(ctx, "owner", "d1", "ghost@example.com")

		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestDocumentService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults applied", func(t *testing.T) {
		svc, m := newFacade()

		m.docs.On("ListForUser", ctx, "alice", repository.PageQuery{Limit: 10, Offset: 0}).
			Return(pageResult(2), nil)

		res, err := svc.List(ctx, "alice", 0, -5)

		assert.NoError(t, err)
		assert.Equal(t, 2, res.Total)
	})
}
