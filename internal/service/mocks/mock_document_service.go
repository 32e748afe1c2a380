package mocks

import (
	"context"

	"memberdoc/internal/model"
	"memberdoc/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockDocumentService struct {
	mock.Mock
}

func (m *MockDocumentService) Generate(ctx context.Context, rec model.MemberRecord) (*service.GeneratedDocument, error) {
	args := m.Called(ctx, rec)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.GeneratedDocument), args.Error(1)
}

func (m *MockDocumentService) Preview(ctx context.Context, rec model.MemberRecord) (*service.GeneratedDocument, error) {
	args := m.Called(ctx, rec)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.GeneratedDocument), args.Error(1)
}

func (m *MockDocumentService) ListEvents(ctx context.Context, limit, offset int) (*service.EventListResult, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.EventListResult), args.Error(1)
}
