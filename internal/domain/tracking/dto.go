package tracking

import (
	"github.com/presenza-hq/presenza-backend-go/internal/pkg/validator"
)

// ========================================
// TRACKING DTOs
// ========================================

type PingRequest struct {
	EmployeeID string  `json:"employee_id"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	// RFC3339; empty means "now" at the server.
	Timestamp string `json:"timestamp,omitempty"`
}

func (r *PingRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if !validator.IsValidLatitude(r.Latitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "latitude",
			Message: "latitude must be between -90 and 90",
		})
	}

	if !validator.IsValidLongitude(r.Longitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "longitude",
			Message: "longitude must be between -180 and 180",
		})
	}

	if r.Timestamp != "" {
		if _, ok := validator.IsValidDateTime(r.Timestamp); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "timestamp",
				Message: "timestamp must be a valid RFC3339 datetime",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// PingResult is returned for every ping, including the not-tracking no-op.
type PingResult struct {
	Tracking       bool    `json:"tracking"`
	AutoCheckedOut bool    `json:"auto_checked_out"`
	InsideFence    bool    `json:"inside_fence"`
	DistanceMeters float64 `json:"distance_meters"`
	OutsideCount   int     `json:"outside_count"`
	Message        string  `json:"message,omitempty"`
}

// LiveStatusResponse reflects the read-time view of an employee's tracking.
// Stale marks a client that stopped pinging entirely; the open session is
// left untouched in that case.
type LiveStatusResponse struct {
	EmployeeID   string   `json:"employee_id"`
	Tracking     bool     `json:"tracking"`
	Stale        bool     `json:"stale"`
	Resumable    bool     `json:"resumable"`
	InsideFence  bool     `json:"inside_fence"`
	OutsideCount int      `json:"outside_count"`
	LastPingAt   *string  `json:"last_ping_at,omitempty"`
	LastLatitude *float64 `json:"last_latitude,omitempty"`
	LastLongitude *float64 `json:"last_longitude,omitempty"`
}

type GeofenceCheckRequest struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	BranchID  *string `json:"branch_id,omitempty"`
}

func (r *GeofenceCheckRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidLatitude(r.Latitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "latitude",
			Message: "latitude must be between -90 and 90",
		})
	}

	if !validator.IsValidLongitude(r.Longitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "longitude",
			Message: "longitude must be between -180 and 180",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type GeofenceCheckResponse struct {
	IsWithin       bool    `json:"is_within"`
	DistanceMeters float64 `json:"distance_meters"`
	ClosestFenceID string  `json:"closest_fence_id,omitempty"`
	ClosestFence   string  `json:"closest_fence,omitempty"`
}

type UpsertFenceRequest struct {
	ID           string  `json:"-"`
	Name         string  `json:"name"`
	BranchID     *string `json:"branch_id,omitempty"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	RadiusMeters float64 `json:"radius_meters"`
	IsActive     *bool   `json:"is_active,omitempty"`
}

func (r *UpsertFenceRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}

	if !validator.IsValidLatitude(r.Latitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "latitude",
			Message: "latitude must be between -90 and 90",
		})
	}

	if !validator.IsValidLongitude(r.Longitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "longitude",
			Message: "longitude must be between -180 and 180",
		})
	}

	if r.RadiusMeters <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "radius_meters",
			Message: "radius_meters must be greater than zero",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type FenceResponse struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	BranchID     *string `json:"branch_id,omitempty"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	RadiusMeters float64 `json:"radius_meters"`
	IsActive     bool    `json:"is_active"`
}
