package mocks

import (
	"context"
	"io"
	"time"

	"papyr/internal/model"
	"papyr/internal/service"
	"papyr/internal/storage"

	"github.com/stretchr/testify/mock"
)

type MockDocumentService struct {
	mock.Mock
}

func (m *MockDocumentService) Create(ctx context.Context, actorID string, in service.CreateDocumentInput, r io.Reader) (*model.Document, error) {
	args := m.Called(ctx, actorID, in, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentService) Get(ctx context.Context, actorID, id string) (*model.Document, error) {
	args := m.Called(ctx, actorID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentService) Download(ctx context.Context, actorID, id string) (io.ReadCloser, storage.ObjectInfo, error) {
	args := m.Called(ctx, actorID, id)
	rc, _ := args.Get(0).(io.ReadCloser)
	return rc, args.Get(1).(storage.ObjectInfo), args.Error(2)
}

func (m *MockDocumentService) List(ctx context.Context, actorID string, limit, offset int) (*service.DocumentListResult, error) {
	args := m.Called(ctx, actorID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DocumentListResult), args.Error(1)
}

func (m *MockDocumentService) Update(ctx context.Context, actorID, id string, in service.UpdateDocumentInput) (*model.Document, error) {
	args := m.Called(ctx, actorID, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentService) Delete(ctx context.Context, actorID, id string) error {
	args := m.Called(ctx, actorID, id)
	return args.Error(0)
}

func (m *MockDocumentService) AddCollaborator(ctx context.Context, actorID, id, email string) (*model.Document, error) {
	args := m.Called(ctx, actorID, id, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentService) RemoveCollaborator(ctx context.Context, actorID, id, email string) (*model.Document, error) {
	args := m.Called(ctx, actorID, id, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentService) SetShareable(ctx context.Context, actorID, id string, canShare bool) (*model.Document, error) {
	args := m.Called(ctx, actorID, id, canShare)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentService) IssueShareToken(ctx context.Context, actorID, id string) (string, error) {
	args := m.Called(ctx, actorID, id)
	return args.String(0), args.Error(1)
}

func (m *MockDocumentService) RegenerateShareToken(ctx context.Context, actorID, id string) (string, error) {
	args := m.Called(ctx, actorID, id)
	return args.String(0), args.Error(1)
}

func (m *MockDocumentService) RedeemShareToken(ctx context.Context, actorID, token string) (*model.Document, error) {
	args := m.Called(ctx, actorID, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentService) Invite(ctx context.Context, actorID, id, email string, ttl time.Duration) (*model.Invitation, error) {
	args := m.Called(ctx, actorID, id, email, ttl)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Invitation), args.Error(1)
}

func (m *MockDocumentService) ListInvitations(ctx context.Context, actorID, id string) ([]model.Invitation, error) {
	args := m.Called(ctx, actorID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Invitation), args.Error(1)
}

func (m *MockDocumentService) RevokeInvitation(ctx context.Context, actorID, id, invitationID string) error {
	args := m.Called(ctx, actorID, id, invitationID)
	return args.Error(0)
}
