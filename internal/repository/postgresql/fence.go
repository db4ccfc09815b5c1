package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/presenza-hq/presenza-backend-go/internal/domain/tracking"
	"github.com/presenza-hq/presenza-backend-go/internal/pkg/database"
)

type fenceRepository struct {
	db *database.DB
}

func NewFenceRepository(db *database.DB) tracking.FenceRepository {
	return &fenceRepository{db: db}
}

const fenceColumns = `
	id, name, branch_id, latitude, longitude, radius_meters, is_active,
	created_at, updated_at
`

func scanFence(row pgx.Row) (tracking.Fence, error) {
	var f tracking.Fence
	err := row.Scan(
		&f.ID, &f.Name, &f.BranchID, &f.Latitude, &f.Longitude,
		&f.RadiusMeters, &f.IsActive, &f.CreatedAt, &f.UpdatedAt,
	)
	return f, err
}

// ListActive implements tracking.FenceRepository.
func (r *fenceRepository) ListActive(ctx context.Context, branchID *string) ([]tracking.Fence, error) {
	q := GetQuerier(ctx, r.db)

	// Branch fences plus global fallback fences (branch_id IS NULL).
	query := `
		SELECT ` + fenceColumns + `
		FROM fences
		WHERE is_active = TRUE
		  AND (branch_id IS NULL OR branch_id = $1)
		ORDER BY created_at ASC
	`

	rows, err := q.Query(ctx, query, branchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list active fences: %w", err)
	}
	defer rows.Close()

	return collectFences(rows)
}

// GetByID implements tracking.FenceRepository.
func (r *fenceRepository) GetByID(ctx context.Context, id string) (tracking.Fence, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + fenceColumns + ` FROM fences WHERE id = $1`

	f, err := scanFence(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return tracking.Fence{}, tracking.ErrFenceNotFound
		}
		return tracking.Fence{}, fmt.Errorf("failed to get fence: %w", err)
	}

	return f, nil
}

// ListAll implements tracking.FenceRepository.
func (r *fenceRepository) ListAll(ctx context.Context) ([]tracking.Fence, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT `+fenceColumns+` FROM fences ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list fences: %w", err)
	}
	defer rows.Close()

	return collectFences(rows)
}

// Create implements tracking.FenceRepository.
func (r *fenceRepository) Create(ctx context.Context, fence tracking.Fence) (tracking.Fence, error) {
	q := GetQuerier(ctx, r.db)

	if fence.ID == "" {
		fence.ID = uuid.NewString()
	}

	query := `
		INSERT INTO fences (id, name, branch_id, latitude, longitude, radius_meters, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		fence.ID, fence.Name, fence.BranchID,
		fence.Latitude, fence.Longitude, fence.RadiusMeters, fence.IsActive,
	).Scan(&fence.CreatedAt, &fence.UpdatedAt)
	if err != nil {
		return tracking.Fence{}, fmt.Errorf("failed to create fence: %w", err)
	}

	return fence, nil
}

// Update implements tracking.FenceRepository.
func (r *fenceRepository) Update(ctx context.Context, fence tracking.Fence) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE fences
		SET name = $2, branch_id = $3, latitude = $4, longitude = $5,
			radius_meters = $6, is_active = $7, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query,
		fence.ID, fence.Name, fence.BranchID,
		fence.Latitude, fence.Longitude, fence.RadiusMeters, fence.IsActive,
	)
	if err != nil {
		return fmt.Errorf("failed to update fence: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return tracking.ErrFenceNotFound
	}

	return nil
}

// Delete implements tracking.FenceRepository.
func (r *fenceRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM fences WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete fence: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return tracking.ErrFenceNotFound
	}

	return nil
}

func collectFences(rows pgx.Rows) ([]tracking.Fence, error) {
	var fences []tracking.Fence
	for rows.Next() {
		f, err := scanFence(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan fence: %w", err)
		}
		fences = append(fences, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate fences: %w", err)
	}
	return fences, nil
}
