package tracking

import (
	"context"
	"time"
)

type FenceRepository interface {
	// ListActive returns the active fences in scope for a branch: the
	// branch's own fences plus any global fallback fences. A nil branchID
	// returns global fences only.
	ListActive(ctx context.Context, branchID *string) ([]Fence, error)

	GetByID(ctx context.Context, id string) (Fence, error)
	ListAll(ctx context.Context) ([]Fence, error)
	Create(ctx context.Context, fence Fence) (Fence, error)
	Update(ctx context.Context, fence Fence) error
	Delete(ctx context.Context, id string) error
}

type TrackingStateRepository interface {
	// Get returns the state row for an employee, or ErrNotTracking if none
	// exists.
	Get(ctx context.Context, employeeID string) (TrackingState, error)

	// Upsert writes the full state row for an employee.
	Upsert(ctx context.Context, state TrackingState) error

	// Delete removes the state row; called when tracking ends.
	Delete(ctx context.Context, employeeID string) error
}

// PingRepository is an append-only log; pings are never updated or deleted
// by this core.
type PingRepository interface {
	Append(ctx context.Context, ping Ping) error
	ListForDate(ctx context.Context, employeeID string, date time.Time) ([]Ping, error)
}
