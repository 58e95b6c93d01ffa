package repository

import (
	"context"

	"linguaflow/internal/model"
)

// RunRepository defines data access for pipeline run records.
// Strictly persistence operations, no business logic.
type RunRepository interface {
	// Create inserts a new run record and returns the stored row.
	Create(ctx context.Context, run *model.Run) (*model.Run, error)

	// FindByID returns a run by its ID.
	FindByID(ctx context.Context, id string) (*model.Run, error)

	// List returns a paginated list of runs, newest first, and the total count.
	List(ctx context.Context, pq PageQuery) (*PageResult[model.Run], error)
}
