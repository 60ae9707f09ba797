package mocks

import (
	"context"

	"papyr/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockInvitationRepository struct {
	mock.Mock
}

func (m *MockInvitationRepository) Create(ctx context.Context, inv *model.Invitation) (*model.Invitation, error) {
	args := m.Called(ctx, inv)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Invitation), args.Error(1)
}

func (m *MockInvitationRepository) FindByID(ctx context.Context, id string) (*model.Invitation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Invitation), args.Error(1)
}

func (m *MockInvitationRepository) ListByDocument(ctx context.Context, docID string) ([]model.Invitation, error) {
	args := m.Called(ctx, docID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Invitation), args.Error(1)
}

func (m *MockInvitationRepository) ListForDocumentUser(ctx context.Context, docID, userID string) ([]model.Invitation, error) {
	args := m.Called(ctx, docID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Invitation), args.Error(1)
}

func (m *MockInvitationRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
