package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/presenza-hq/presenza-backend-go/internal/domain/attendance"
	"github.com/presenza-hq/presenza-backend-go/internal/domain/settings"
	"github.com/presenza-hq/presenza-backend-go/internal/domain/tracking"
	"github.com/presenza-hq/presenza-backend-go/internal/pkg/sse"
)

// AttendanceJobs sweeps open sessions that belong to a prior calendar day.
// The check-in path self-heals the same condition lazily; this job catches
// employees who simply never come back.
type AttendanceJobs struct {
	sessionRepo  attendance.SessionRepository
	stateRepo    tracking.TrackingStateRepository
	settingsRepo settings.SettingsRepository
	hub          *sse.Hub
}

func NewAttendanceJobs(
	sessionRepo attendance.SessionRepository,
	stateRepo tracking.TrackingStateRepository,
	settingsRepo settings.SettingsRepository,
	hub *sse.Hub,
) *AttendanceJobs {
	return &AttendanceJobs{
		sessionRepo:  sessionRepo,
		stateRepo:    stateRepo,
		settingsRepo: settingsRepo,
		hub:          hub,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("close_stale_sessions", 1*time.Hour, j.CloseStaleSessions)
}

// CloseStaleSessions closes every open session dated before today. The
// check-out time is pinned to the session day's shift end so a forgotten
// punch does not accrue overnight hours.
func (j *AttendanceJobs) CloseStaleSessions(ctx context.Context) error {
	today := midnight(time.Now())

	stale, err := j.sessionRepo.ListStaleOpenSessions(ctx, today)
	if err != nil {
		return fmt.Errorf("failed to list stale open sessions: %w", err)
	}

	if len(stale) == 0 {
		return nil
	}

	policy, err := j.settingsRepo.GetAttendancePolicy(ctx)
	if err != nil {
		policy = settings.Default()
	}

	closedCount := 0
	for _, session := range stale {
		closeAt := session.Date.Add(time.Duration(policy.WorkEndMinutes()) * time.Minute)
		if closeAt.Before(session.CheckIn) {
			closeAt = session.CheckIn
		}

		reason := attendance.ReasonStaleSession
		if err := j.sessionRepo.Close(ctx, session.ID, closeAt, attendance.StatusAutoClosed, &reason); err != nil {
			slog.Error("Cron: Failed to close stale session",
				"session_id", session.ID,
				"employee_id", session.EmployeeID,
				"error", err)
			continue
		}

		if err := j.stateRepo.Delete(ctx, session.EmployeeID); err != nil {
			slog.Error("Cron: Failed to clear tracking state",
				"employee_id", session.EmployeeID,
				"error", err)
		}

		j.hub.Publish(sse.Event{
			EmployeeID: session.EmployeeID,
			Event:      sse.EventAutoCheckedOut,
			Data: map[string]interface{}{
				"session_id": session.ID,
				"date":       session.Date.Format("2006-01-02"),
				"reason":     reason,
			},
		})

		closedCount++
	}

	slog.Info("Cron: Closed stale sessions", "count", closedCount)
	return nil
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
