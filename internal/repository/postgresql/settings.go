package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/presenza-hq/presenza-backend-go/internal/domain/settings"
	"github.com/presenza-hq/presenza-backend-go/internal/pkg/database"
)

type settingsRepository struct {
	db *database.DB
}

func NewSettingsRepository(db *database.DB) settings.SettingsRepository {
	return &settingsRepository{db: db}
}

// GetAttendancePolicy implements settings.SettingsRepository. The policy
// lives in a single fixed row; timeouts are stored in seconds.
func (r *settingsRepository) GetAttendancePolicy(ctx context.Context) (settings.AttendancePolicy, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT work_start, work_end, late_threshold_minutes,
			   half_day_threshold_minutes, grace_minutes,
			   outside_ping_threshold, staleness_timeout_seconds,
			   resume_window_seconds
		FROM attendance_policy
		WHERE id = 1
	`

	var policy settings.AttendancePolicy
	var stalenessSeconds, resumeSeconds int64
	err := q.QueryRow(ctx, query).Scan(
		&policy.WorkStart,
		&policy.WorkEnd,
		&policy.LateThresholdMinutes,
		&policy.HalfDayThresholdMinutes,
		&policy.GraceMinutes,
		&policy.OutsidePingThreshold,
		&stalenessSeconds,
		&resumeSeconds,
	)
	if err != nil {
		return settings.AttendancePolicy{}, fmt.Errorf("failed to get attendance policy: %w", err)
	}

	policy.StalenessTimeout = time.Duration(stalenessSeconds) * time.Second
	policy.ResumeWindow = time.Duration(resumeSeconds) * time.Second

	return policy, nil
}

// UpdateAttendancePolicy implements settings.SettingsRepository.
func (r *settingsRepository) UpdateAttendancePolicy(ctx context.Context, policy settings.AttendancePolicy) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendance_policy (
			id, work_start, work_end, late_threshold_minutes,
			half_day_threshold_minutes, grace_minutes,
			outside_ping_threshold, staleness_timeout_seconds,
			resume_window_seconds
		) VALUES (1, $1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			work_start = EXCLUDED.work_start,
			work_end = EXCLUDED.work_end,
			late_threshold_minutes = EXCLUDED.late_threshold_minutes,
			half_day_threshold_minutes = EXCLUDED.half_day_threshold_minutes,
			grace_minutes = EXCLUDED.grace_minutes,
			outside_ping_threshold = EXCLUDED.outside_ping_threshold,
			staleness_timeout_seconds = EXCLUDED.staleness_timeout_seconds,
			resume_window_seconds = EXCLUDED.resume_window_seconds,
			updated_at = NOW()
	`

	_, err := q.Exec(ctx, query,
		policy.WorkStart,
		policy.WorkEnd,
		policy.LateThresholdMinutes,
		policy.HalfDayThresholdMinutes,
		policy.GraceMinutes,
		policy.OutsidePingThreshold,
		int64(policy.StalenessTimeout/time.Second),
		int64(policy.ResumeWindow/time.Second),
	)
	if err != nil {
		return fmt.Errorf("failed to update attendance policy: %w", err)
	}

	return nil
}
