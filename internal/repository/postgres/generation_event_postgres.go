package postgres

import (
	"context"
	"database/sql"

	"memberdoc/internal/model"
	"memberdoc/internal/repository"
)

// GenerationEventPostgres is a PostgreSQL implementation of repository.GenerationEventRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type GenerationEventPostgres struct {
	db *sql.DB
}

// NewGenerationEventPostgres creates a new GenerationEventPostgres repository.
func NewGenerationEventPostgres(db *sql.DB) *GenerationEventPostgres {
	return &GenerationEventPostgres{db: db}
}

var _ repository.GenerationEventRepository = (*GenerationEventPostgres)(nil)

const eventColumns = `id, request_id, kind, status, error_kind, size_bytes, duration_ms, created_at`

// Create inserts a new event row and returns the stored record.
func (r *GenerationEventPostgres) Create(ctx context.Context, ev *model.GenerationEvent) (*model.GenerationEvent, error) {
	const q = `
		INSERT INTO generation_events (` + eventColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + eventColumns
	row := r.db.QueryRowContext(ctx, q,
		ev.ID,
		ev.RequestID,
		ev.Kind,
		ev.Status,
		ev.ErrorKind,
		ev.SizeBytes,
		ev.DurationMs,
		ev.CreatedAt,
	)
	var out model.GenerationEvent
	if err := scanEvent(row, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// List returns events using LIMIT/OFFSET pagination and a total count.
func (r *GenerationEventPostgres) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.GenerationEvent], error) {
	const qCount = `SELECT COUNT(*) FROM generation_events`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount).Scan(&total); err != nil {
		return nil, err
	}

	const qList = `
		SELECT ` + eventColumns + `
		FROM generation_events
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.QueryContext(ctx, qList, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.GenerationEvent, 0)
	for rows.Next() {
		var ev model.GenerationEvent
		if err := scanEvent(rows, &ev); err != nil {
			return nil, err
		}
		items = append(items, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.GenerationEvent]{
		Items: items,
		Total: total,
	}, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEvent(s scanner, ev *model.GenerationEvent) error {
	return s.Scan(
		&ev.ID,
		&ev.RequestID,
		&ev.Kind,
		&ev.Status,
		&ev.ErrorKind,
		&ev.SizeBytes,
		&ev.DurationMs,
		&ev.CreatedAt,
	)
}
