package request

import (
	"github.com/presenza-hq/presenza-backend-go/internal/pkg/validator"
)

type CreateRequestRequest struct {
	EmployeeID      string   `json:"employee_id"`
	Type            string   `json:"type"`
	Date            string   `json:"date"` // YYYY-MM-DD
	DurationMinutes *int     `json:"duration_minutes,omitempty"`
	LeaveType       *string  `json:"leave_type,omitempty"`
	Amount          *float64 `json:"amount,omitempty"`
	Reason          *string  `json:"reason,omitempty"`
}

func (r *CreateRequestRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if !validator.IsInSlice(r.Type, []string{TypeLeave, TypePermission, TypeAdvance}) {
		errs = append(errs, validator.ValidationError{
			Field:   "type",
			Message: "type must be LEAVE, PERMISSION or ADVANCE",
		})
	}

	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}

	if r.Type == TypePermission {
		if r.DurationMinutes == nil || *r.DurationMinutes <= 0 {
			errs = append(errs, validator.ValidationError{
				Field:   "duration_minutes",
				Message: "duration_minutes is required for PERMISSION requests",
			})
		}
	}

	if r.Type == TypeAdvance {
		if r.Amount == nil || *r.Amount <= 0 {
			errs = append(errs, validator.ValidationError{
				Field:   "amount",
				Message: "amount is required for ADVANCE requests",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type DecideRequestRequest struct {
	ID        string `json:"-"`
	DecidedBy string `json:"-"`
	Reason    string `json:"reason,omitempty"`
}

type RequestResponse struct {
	ID              string   `json:"id"`
	EmployeeID      string   `json:"employee_id"`
	Type            string   `json:"type"`
	Status          string   `json:"status"`
	Date            string   `json:"date"`
	DurationMinutes *int     `json:"duration_minutes,omitempty"`
	LeaveType       *string  `json:"leave_type,omitempty"`
	Amount          *float64 `json:"amount,omitempty"`
	Reason          *string  `json:"reason,omitempty"`
	DecidedBy       *string  `json:"decided_by,omitempty"`
	DecidedAt       *string  `json:"decided_at,omitempty"`
}

type RequestFilter struct {
	EmployeeID *string `json:"employee_id,omitempty"`
	Type       *string `json:"type,omitempty"`
	Status     *string `json:"status,omitempty"`
	StartDate  *string `json:"start_date,omitempty"`
	EndDate    *string `json:"end_date,omitempty"`
}
