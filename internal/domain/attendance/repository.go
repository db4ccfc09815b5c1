package attendance

import (
	"context"
	"time"
)

// SessionRepository defines data access for attendance sessions. Sessions
// are created on check-in, closed on check-out or auto-checkout, and never
// deleted here (archival is external).
type SessionRepository interface {
	Create(ctx context.Context, session Session) (Session, error)

	// Close sets the check-out time, status and optional reason on an open
	// session.
	Close(ctx context.Context, sessionID string, checkOut time.Time, status string, reason *string) error

	// GetOpenSession returns the single open session for an employee, or
	// ErrNoOpenSession.
	GetOpenSession(ctx context.Context, employeeID string) (Session, error)

	// ListStaleOpenSessions returns open sessions whose date is before the
	// given calendar day.
	ListStaleOpenSessions(ctx context.Context, before time.Time) ([]Session, error)

	ListForDate(ctx context.Context, employeeID string, date time.Time) ([]Session, error)
	ListForDateRange(ctx context.Context, employeeID string, start, end time.Time) ([]Session, error)
}
