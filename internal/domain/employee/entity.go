package employee

import (
	"time"
)

// Employment statuses
const (
	StatusActive   = "ACTIVE"
	StatusInactive = "INACTIVE"
)

// Employee holds identity fields only. Live tracking state lives in the
// tracking domain, keyed by employee ID, so concurrent ping updates never
// touch this record.
type Employee struct {
	ID               string
	FullName         string
	EmployeeCode     string
	Email            *string
	Phone            *string
	BranchID         *string
	Position         *string
	PasswordHash     string
	FaceEnrolled     bool
	EmploymentStatus string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
