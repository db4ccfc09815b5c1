package settings

import "context"

type SettingsRepository interface {
	// GetAttendancePolicy loads the stored policy. Callers fall back to
	// Default() on error.
	GetAttendancePolicy(ctx context.Context) (AttendancePolicy, error)

	UpdateAttendancePolicy(ctx context.Context, policy AttendancePolicy) error
}
