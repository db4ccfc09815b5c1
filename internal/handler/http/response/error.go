package response

import (
	"errors"
	"net/http"

	"github.com/presenza-hq/presenza-backend-go/internal/domain/attendance"
	"github.com/presenza-hq/presenza-backend-go/internal/domain/auth"
	"github.com/presenza-hq/presenza-backend-go/internal/domain/employee"
	"github.com/presenza-hq/presenza-backend-go/internal/domain/request"
	"github.com/presenza-hq/presenza-backend-go/internal/domain/tracking"
	"github.com/presenza-hq/presenza-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrTokenExpired):
		Unauthorized(w, "Token expired")
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or missing token")

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrEmployeeInactive):
		Forbidden(w, "Employee is not active")
	case errors.Is(err, employee.ErrFaceNotEnrolled):
		BadRequest(w, "Employee has no enrolled face", nil)
	case errors.Is(err, employee.ErrEmployeeCodeExists):
		Conflict(w, "Employee code already exists")

	// Attendance domain errors
	case errors.Is(err, attendance.ErrAlreadyCheckedIn):
		Conflict(w, "Employee already has an open session today")
	case errors.Is(err, attendance.ErrNoOpenSession):
		BadRequest(w, "No open session to check out from", nil)
	case errors.Is(err, attendance.ErrFaceNotMatched):
		NotFound(w, "No matching face found")
	case errors.Is(err, attendance.ErrLowSimilarity):
		Forbidden(w, "Face similarity below the accepted threshold")
	case errors.Is(err, attendance.ErrSessionNotFound):
		NotFound(w, "Session not found")

	// Tracking domain errors
	case errors.Is(err, tracking.ErrFenceNotFound):
		NotFound(w, "Fence not found")
	case errors.Is(err, tracking.ErrNoActiveFences):
		Conflict(w, "No active fences configured")

	// Request domain errors
	case errors.Is(err, request.ErrRequestNotFound):
		NotFound(w, "Request not found")
	case errors.Is(err, request.ErrRequestAlreadyProcessed):
		Conflict(w, "Request already approved or rejected")
	case errors.Is(err, request.ErrInvalidRequestType):
		BadRequest(w, "Invalid request type", nil)

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
