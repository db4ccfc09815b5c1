package request

import (
	"context"
	"time"
)

type RequestRepository interface {
	Create(ctx context.Context, req Request) (Request, error)
	GetByID(ctx context.Context, id string) (Request, error)

	// Decide flips a PENDING request to APPROVED or REJECTED. Returns
	// ErrRequestAlreadyProcessed if the request was decided before; the
	// update is conditional on the stored status so concurrent authorizers
	// cannot both win.
	Decide(ctx context.Context, id string, status string, decidedBy string, decidedAt time.Time) error

	List(ctx context.Context, filter RequestFilter) ([]Request, error)

	// ListApprovedForDate returns APPROVED requests of one type whose
	// target date equals the given day.
	ListApprovedForDate(ctx context.Context, employeeID string, reqType string, date time.Time) ([]Request, error)

	// ListApprovedForDateRange is the range variant used by reporting.
	ListApprovedForDateRange(ctx context.Context, employeeID string, reqType string, start, end time.Time) ([]Request, error)
}
