package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

type migrationStep struct {
	Name string
	SQL  string
}

var steps = []migrationStep{
	{
		Name: "create_extension_uuid_ossp",
		SQL:  `CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	},
	{
		Name: "create_table_runs",
		SQL: `CREATE TABLE IF NOT EXISTS runs (
  id                UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  filename          TEXT        NOT NULL DEFAULT '',
  modality          TEXT        NOT NULL,
  target_language   TEXT        NOT NULL,
  original_length   INTEGER     NOT NULL DEFAULT 0 CHECK (original_length >= 0),
  translated_length INTEGER     NOT NULL DEFAULT 0 CHECK (translated_length >= 0),
  status            TEXT        NOT NULL,
  error_code        TEXT        NOT NULL DEFAULT '',
  storage_path      TEXT        NOT NULL DEFAULT '',
  duration_ms       BIGINT      NOT NULL DEFAULT 0,
  created_at        TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_runs_status",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_runs_status ON runs (status);`,
	},
	{
		Name: "create_index_runs_modality",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_runs_modality ON runs (modality);`,
	},
	{
		Name: "create_index_runs_created_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs (created_at);`,
	},
}

// EnsureMigrated checks if the 'runs' table exists and runs migrations if it doesn't.
func EnsureMigrated(ctx context.Context, db *sql.DB, log zerolog.Logger) error {
	start := time.Now()
	log = log.With().Str("component", "database").Logger()

	var exists bool
	query := "SELECT to_regclass('public.runs') IS NOT NULL"
	if err := db.QueryRowContext(ctx, query).Scan(&exists); err != nil {
		log.Error().Err(err).Int64("duration_ms", time.Since(start).Milliseconds()).
			Msg("failed to check sentinel table")
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		log.Info().Int64("duration_ms", time.Since(start).Milliseconds()).
			Msg("schema already exists, skipping migration")
		return nil
	}

	for _, step := range steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			log.Error().Err(err).Str("migration_step", step.Name).
				Int64("duration_ms", time.Since(start).Milliseconds()).
				Msg("migration step failed")
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}
		log.Info().Str("migration_step", step.Name).
			Int64("step_duration_ms", time.Since(stepStart).Milliseconds()).
			Msg("migration step applied")
	}

	log.Info().Int64("duration_ms", time.Since(start).Milliseconds()).Msg("migration completed")
	return nil
}
