package attendance

import (
	"context"
	"time"
)

// AttendanceService owns the session lifecycle: face-matched check-in and
// check-out, plus worked-duration aggregation.
type AttendanceService interface {
	// CheckIn identifies the employee from the face photo, self-heals stale
	// prior-day sessions, rejects a genuine duplicate check-in, creates the
	// session and starts tracking.
	CheckIn(ctx context.Context, req CheckInRequest) (SessionResponse, error)

	// CheckOut closes the employee's open session and ends tracking.
	CheckOut(ctx context.Context, req CheckOutRequest) (SessionResponse, error)

	// ComputeDurations sums worked time across all of the day's sessions
	// (open sessions count up to now) plus approved permission minutes.
	ComputeDurations(ctx context.Context, employeeID string, date time.Time) (DurationResponse, error)

	// ListSessions returns the raw sessions for an employee and day.
	ListSessions(ctx context.Context, employeeID string, date time.Time) ([]SessionResponse, error)
}
