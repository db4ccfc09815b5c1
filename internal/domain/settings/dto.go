package settings

import (
	"time"

	"github.com/presenza-hq/presenza-backend-go/internal/pkg/validator"
)

type UpdatePolicyRequest struct {
	WorkStart               string `json:"work_start"` // HH:mm
	WorkEnd                 string `json:"work_end"`   // HH:mm
	LateThresholdMinutes    int    `json:"late_threshold_minutes"`
	HalfDayThresholdMinutes int    `json:"half_day_threshold_minutes"`
	GraceMinutes            int    `json:"grace_minutes"`
	OutsidePingThreshold    int    `json:"outside_ping_threshold"`
	StalenessTimeoutSeconds int    `json:"staleness_timeout_seconds"`
	ResumeWindowSeconds     int    `json:"resume_window_seconds"`
}

func (r *UpdatePolicyRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidClockTime(r.WorkStart) {
		errs = append(errs, validator.ValidationError{
			Field:   "work_start",
			Message: "work_start must be in HH:mm format",
		})
	}

	if !validator.IsValidClockTime(r.WorkEnd) {
		errs = append(errs, validator.ValidationError{
			Field:   "work_end",
			Message: "work_end must be in HH:mm format",
		})
	}

	if r.OutsidePingThreshold <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "outside_ping_threshold",
			Message: "outside_ping_threshold must be greater than zero",
		})
	}

	if r.StalenessTimeoutSeconds <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "staleness_timeout_seconds",
			Message: "staleness_timeout_seconds must be greater than zero",
		})
	}

	if r.ResumeWindowSeconds <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "resume_window_seconds",
			Message: "resume_window_seconds must be greater than zero",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ToPolicy converts the request into the domain policy.
func (r *UpdatePolicyRequest) ToPolicy() AttendancePolicy {
	return AttendancePolicy{
		WorkStart:               r.WorkStart,
		WorkEnd:                 r.WorkEnd,
		LateThresholdMinutes:    r.LateThresholdMinutes,
		HalfDayThresholdMinutes: r.HalfDayThresholdMinutes,
		GraceMinutes:            r.GraceMinutes,
		OutsidePingThreshold:    r.OutsidePingThreshold,
		StalenessTimeout:        time.Duration(r.StalenessTimeoutSeconds) * time.Second,
		ResumeWindow:            time.Duration(r.ResumeWindowSeconds) * time.Second,
	}
}

type PolicyResponse struct {
	WorkStart               string `json:"work_start"`
	WorkEnd                 string `json:"work_end"`
	LateThresholdMinutes    int    `json:"late_threshold_minutes"`
	HalfDayThresholdMinutes int    `json:"half_day_threshold_minutes"`
	GraceMinutes            int    `json:"grace_minutes"`
	OutsidePingThreshold    int    `json:"outside_ping_threshold"`
	StalenessTimeoutSeconds int    `json:"staleness_timeout_seconds"`
	ResumeWindowSeconds     int    `json:"resume_window_seconds"`
}

// ToResponse converts a policy into its API shape.
func ToResponse(p AttendancePolicy) PolicyResponse {
	return PolicyResponse{
		WorkStart:               p.WorkStart,
		WorkEnd:                 p.WorkEnd,
		LateThresholdMinutes:    p.LateThresholdMinutes,
		HalfDayThresholdMinutes: p.HalfDayThresholdMinutes,
		GraceMinutes:            p.GraceMinutes,
		OutsidePingThreshold:    p.OutsidePingThreshold,
		StalenessTimeoutSeconds: int(p.StalenessTimeout / time.Second),
		ResumeWindowSeconds:     int(p.ResumeWindow / time.Second),
	}
}
