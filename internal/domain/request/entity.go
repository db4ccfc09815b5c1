package request

import (
	"time"
)

// Request types
const (
	TypeLeave      = "LEAVE"
	TypePermission = "PERMISSION"
	TypeAdvance    = "ADVANCE"
)

// Request statuses. A request transitions exactly once, PENDING to APPROVED
// or REJECTED, and is immutable afterwards.
const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
)

// Request is a leave, permission or salary-advance request targeting one
// calendar date.
type Request struct {
	ID         string
	EmployeeID string
	Type       string
	Status     string
	Date       time.Time

	// PERMISSION only
	DurationMinutes *int

	// LEAVE only
	LeaveType *string

	// ADVANCE only
	Amount *float64

	Reason    *string
	DecidedBy *string
	DecidedAt *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}
