package repository

import (
	"context"

	"memberdoc/internal/model"
)

// GenerationEventRepository stores anonymous generation events.
// Persistence only.
type GenerationEventRepository interface {
	// Create inserts a new event and returns the stored row.
	Create(ctx context.Context, ev *model.GenerationEvent) (*model.GenerationEvent, error)

	// List returns a page of events, newest first, and the total row count.
	List(ctx context.Context, pq PageQuery) (*PageResult[model.GenerationEvent], error)
}

// PageQuery holds limit/offset pagination parameters.
type PageQuery struct {
	Limit  int
	Offset int
}

// PageResult is a generic pagination result wrapper.
type PageResult[T any] struct {
	Items []T
	Total int
}
