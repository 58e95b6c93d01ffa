package postgres

import (
	"context"
	"database/sql"

	"linguaflow/internal/model"
	"linguaflow/internal/repository"
)

// RunPostgres is a PostgreSQL implementation of repository.RunRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type RunPostgres struct {
	db *sql.DB
}

// NewRunPostgres creates a new RunPostgres repository.
func NewRunPostgres(db *sql.DB) *RunPostgres {
	return &RunPostgres{db: db}
}

var _ repository.RunRepository = (*RunPostgres)(nil)

// Create inserts a new run row and returns the stored record.
func (r *RunPostgres) Create(ctx context.Context, run *model.Run) (*model.Run, error) {
	const q = `
		INSERT INTO runs (id, filename, modality, target_language, original_length, translated_length, status, error_code, storage_path, duration_ms, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, filename, modality, target_language, original_length, translated_length, status, error_code, storage_path, duration_ms, created_at
	`
	row := r.db.QueryRowContext(ctx, q,
		run.ID,
		run.Filename,
		run.Modality,
		run.TargetLanguage,
		run.OriginalLength,
		run.TranslatedLength,
		run.Status,
		run.ErrorCode,
		run.StoragePath,
		run.DurationMs,
		run.CreatedAt,
	)
	var out model.Run
	if err := row.Scan(
		&out.ID,
		&out.Filename,
		&out.Modality,
		&out.TargetLanguage,
		&out.OriginalLength,
		&out.TranslatedLength,
		&out.Status,
		&out.ErrorCode,
		&out.StoragePath,
		&out.DurationMs,
		&out.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &out, nil
}

// FindByID fetches a single run by its ID.
func (r *RunPostgres) FindByID(ctx context.Context, id string) (*model.Run, error) {
	const q = `
		SELECT id, filename, modality, target_language, original_length, translated_length, status, error_code, storage_path, duration_ms, created_at
		FROM runs
		WHERE id = $1
	`
	row := r.db.QueryRowContext(ctx, q, id)
	var run model.Run
	if err := row.Scan(
		&run.ID,
		&run.Filename,
		&run.Modality,
		&run.TargetLanguage,
		&run.OriginalLength,
		&run.TranslatedLength,
		&run.Status,
		&run.ErrorCode,
		&run.StoragePath,
		&run.DurationMs,
		&run.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &run, nil
}

// List returns runs using LIMIT/OFFSET pagination and a total count, newest first.
func (r *RunPostgres) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.Run], error) {
	// Count total rows
	const qCount = `SELECT COUNT(*) FROM runs`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount).Scan(&total); err != nil {
		return nil, err
	}

	// Fetch page
	const qList = `
		SELECT id, filename, modality, target_language, original_length, translated_length, status, error_code, storage_path, duration_ms, created_at
		FROM runs
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.QueryContext(ctx, qList, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Run, 0)
	for rows.Next() {
		var run model.Run
		if err := rows.Scan(
			&run.ID,
			&run.Filename,
			&run.Modality,
			&run.TargetLanguage,
			&run.OriginalLength,
			&run.TranslatedLength,
			&run.Status,
			&run.ErrorCode,
			&run.StoragePath,
			&run.DurationMs,
			&run.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.Run]{
		Items: items,
		Total: total,
	}, nil
}
