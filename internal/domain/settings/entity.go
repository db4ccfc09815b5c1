package settings

import (
	"time"
)

// AttendancePolicy is the configurable policy consumed by the status engine
// and the presence state machine. It is resolved once per request; status
// results are never stored, so a policy change retroactively affects
// historical reports.
type AttendancePolicy struct {
	WorkStart string // HH:mm
	WorkEnd   string // HH:mm

	// Minutes from midnight. Check-ins past HalfDayThresholdMinutes get a
	// half-day tag on top of the late tag.
	LateThresholdMinutes    int
	HalfDayThresholdMinutes int

	GraceMinutes int

	// Presence state machine knobs.
	OutsidePingThreshold int
	StalenessTimeout     time.Duration
	ResumeWindow         time.Duration
}

// Default returns the hardcoded fallback policy used when the settings
// store is unreachable. Status computation must never hard-fail on a
// missing policy.
func Default() AttendancePolicy {
	return AttendancePolicy{
		WorkStart:               "09:00",
		WorkEnd:                 "18:00",
		LateThresholdMinutes:    9*60 + 15,
		HalfDayThresholdMinutes: 13 * 60,
		GraceMinutes:            15,
		OutsidePingThreshold:    5,
		StalenessTimeout:        10 * time.Minute,
		ResumeWindow:            30 * time.Minute,
	}
}

// WorkStartMinutes returns the shift start as minutes from midnight.
func (p AttendancePolicy) WorkStartMinutes() int {
	return clockMinutes(p.WorkStart, 9*60)
}

// WorkEndMinutes returns the shift end as minutes from midnight.
func (p AttendancePolicy) WorkEndMinutes() int {
	return clockMinutes(p.WorkEnd, 18*60)
}

func clockMinutes(hhmm string, fallback int) int {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return fallback
	}
	return t.Hour()*60 + t.Minute()
}
