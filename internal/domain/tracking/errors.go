package tracking

import "errors"

var (
	// ErrNotTracking is non-fatal: a ping for an employee without an open
	// session is surfaced as a no-op result, not a 500.
	ErrNotTracking = errors.New("employee is not currently tracking")

	ErrFenceNotFound  = errors.New("fence not found")
	ErrNoActiveFences = errors.New("no active fences configured")
)
