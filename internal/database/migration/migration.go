package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"
)

type migrationStep struct {
	Name string
	SQL  string
}

var steps = []migrationStep{
	{
		Name: "create_table_generation_events",
		SQL: `CREATE TABLE IF NOT EXISTS generation_events (
  id          UUID        PRIMARY KEY,
  request_id  TEXT        NOT NULL DEFAULT '',
  kind        TEXT        NOT NULL CHECK (kind IN ('docx', 'pdf')),
  status      TEXT        NOT NULL CHECK (status IN ('success', 'failed')),
  error_kind  TEXT        NOT NULL DEFAULT '',
  size_bytes  BIGINT      NOT NULL CHECK (size_bytes >= 0),
  duration_ms BIGINT      NOT NULL CHECK (duration_ms >= 0),
  created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_generation_events_created_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_generation_events_created_at ON generation_events (created_at);`,
	},
	{
		Name: "create_index_generation_events_status",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_generation_events_status ON generation_events (kind, status);`,
	},
}

// EnsureMigrated checks if the 'generation_events' table exists and runs migrations if it doesn't.
func EnsureMigrated(ctx context.Context, db *sql.DB, log *zap.Logger, dbHost string) error {
	start := time.Now()
	log = log.With(zap.String("component", "database"), zap.String("db_host", dbHost))

	log.Info("db_migration_check")

	var exists bool
	query := "SELECT to_regclass('public.generation_events') IS NOT NULL"
	if err := db.QueryRowContext(ctx, query).Scan(&exists); err != nil {
		log.Error("db_migration_failed",
			zap.Error(err),
			zap.Duration("duration", time.Since(start)),
		)
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		log.Info("db_migration_skip",
			zap.String("reason", "schema already exists"),
			zap.Duration("duration", time.Since(start)),
		)
		return nil
	}

	log.Info("db_migration_start")

	for _, step := range steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			log.Error("db_migration_failed",
				zap.String("migration_step", step.Name),
				zap.Error(err),
				zap.Duration("duration", time.Since(start)),
				zap.Duration("step_duration", time.Since(stepStart)),
			)
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		log.Info("db_migration_step",
			zap.String("migration_step", step.Name),
			zap.Duration("step_duration", time.Since(stepStart)),
		)
	}

	log.Info("db_migration_success", zap.Duration("duration", time.Since(start)))
	return nil
}
