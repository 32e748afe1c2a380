package mocks

import (
	"context"

	"memberdoc/internal/model"
	"memberdoc/internal/repository"

	"github.com/stretchr/testify/mock"
)

type MockGenerationEventRepository struct {
	mock.Mock
}

func (m *MockGenerationEventRepository) Create(ctx context.Context, ev *model.GenerationEvent) (*model.GenerationEvent, error) {
	args := m.Called(ctx, ev)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.GenerationEvent), args.Error(1)
}

func (m *MockGenerationEventRepository) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.GenerationEvent], error) {
	args := m.Called(ctx, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.GenerationEvent]), args.Error(1)
}
