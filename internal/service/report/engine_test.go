package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/presenza-hq/presenza-backend-go/internal/domain/report"
	"github.com/presenza-hq/presenza-backend-go/internal/domain/request"
	"github.com/presenza-hq/presenza-backend-go/internal/domain/settings"
)

// 2026-03-01 is a Sunday, 2026-03-02 a Monday.
var (
	sunday = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	monday = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
)

func at(day time.Time, hour, minute int) *time.Time {
	t := time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, day.Location())
	return &t
}

func approvedLeave(leaveType string) *request.Request {
	return &request.Request{
		Type:      request.TypeLeave,
		Status:    request.StatusApproved,
		LeaveType: &leaveType,
	}
}

func approvedPermission(minutes int) *request.Request {
	return &request.Request{
		Type:            request.TypePermission,
		Status:          request.StatusApproved,
		DurationMinutes: &minutes,
	}
}

func TestResolveDailyStatus(t *testing.T) {
	policy := settings.Default()
	// A fixed "now" well after every test day so past-date branches fire.
	later := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		input       StatusInput
		wantTags    []report.Tag
		wantColor   report.Color
		wantRemarks string
	}{
		{
			name: "sunday without attendance is a terminal week off",
			input: StatusInput{
				Date: sunday, Now: later, Policy: policy,
			},
			wantTags:    []report.Tag{report.TagWeekOff},
			wantColor:   report.ColorGray,
			wantRemarks: "Sunday Holiday",
		},
		{
			name: "sunday with attendance is week off worked",
			input: StatusInput{
				Date: sunday, Now: later, Policy: policy,
				CheckIn:  at(sunday, 9, 0),
				CheckOut: at(sunday, 18, 0),
			},
			wantTags:  []report.Tag{report.TagWeekOffWorked},
			wantColor: report.ColorGreen,
		},
		{
			name: "weekday without attendance is absent",
			input: StatusInput{
				Date: monday, Now: later, Policy: policy,
			},
			wantTags:    []report.Tag{report.TagAbsent},
			wantColor:   report.ColorRed,
			wantRemarks: "No Check-in",
		},
		{
			name: "approved leave without attendance",
			input: StatusInput{
				Date: monday, Now: later, Policy: policy,
				Leave: approvedLeave("Annual"),
			},
			wantTags:    []report.Tag{report.TagLeave},
			wantColor:   report.ColorOrange,
			wantRemarks: "Annual",
		},
		{
			name: "approved leave with attendance is present on leave",
			input: StatusInput{
				Date: monday, Now: later, Policy: policy,
				Leave:    approvedLeave("Annual"),
				CheckIn:  at(monday, 9, 0),
				CheckOut: at(monday, 18, 0),
			},
			wantTags:    []report.Tag{report.TagLeave, report.TagPresentOnLeave},
			wantColor:   report.ColorBlue,
			wantRemarks: "Annual",
		},
		{
			name: "late check-in without permission",
			input: StatusInput{
				Date: monday, Now: later, Policy: policy,
				CheckIn:  at(monday, 9, 20),
				CheckOut: at(monday, 18, 0),
			},
			wantTags:  []report.Tag{report.TagLateIn},
			wantColor: report.ColorOrange,
		},
		{
			name: "late check-in with approved permission",
			input: StatusInput{
				Date: monday, Now: later, Policy: policy,
				Permission: approvedPermission(30),
				CheckIn:    at(monday, 9, 20),
				CheckOut:   at(monday, 18, 0),
			},
			wantTags:    []report.Tag{report.TagPermissionIn},
			wantColor:   report.ColorGreen,
			wantRemarks: "Late entry permitted",
		},
		{
			name: "afternoon check-in stacks half day on late",
			input: StatusInput{
				Date: monday, Now: later, Policy: policy,
				CheckIn:  at(monday, 14, 0),
				CheckOut: at(monday, 18, 0),
			},
			wantTags:  []report.Tag{report.TagLateIn, report.TagHalfDayIn},
			wantColor: report.ColorOrange,
		},
		{
			name: "long early-out day is not a half day",
			input: StatusInput{
				Date: monday, Now: later, Policy: policy,
				CheckIn:  at(monday, 9, 5),
				CheckOut: at(monday, 17, 0),
			},
			wantTags:  []report.Tag{report.TagEarlyOut},
			wantColor: report.ColorOrange,
		},
		{
			name: "short early-out day is a half day",
			input: StatusInput{
				Date: monday, Now: later, Policy: policy,
				CheckIn:  at(monday, 9, 5),
				CheckOut: at(monday, 12, 0),
			},
			wantTags:  []report.Tag{report.TagEarlyOut, report.TagHalfDayOut},
			wantColor: report.ColorOrange,
		},
		{
			name: "early in alone still counts as present",
			input: StatusInput{
				Date: monday, Now: later, Policy: policy,
				CheckIn:  at(monday, 8, 0),
				CheckOut: at(monday, 18, 5),
			},
			wantTags:  []report.Tag{report.TagEarlyIn, report.TagPresent},
			wantColor: report.ColorGreen,
		},
		{
			name: "on-time day is plain present",
			input: StatusInput{
				Date: monday, Now: later, Policy: policy,
				CheckIn:  at(monday, 9, 10),
				CheckOut: at(monday, 18, 10),
			},
			wantTags:  []report.Tag{report.TagPresent},
			wantColor: report.ColorGreen,
		},
		{
			name: "late check-out",
			input: StatusInput{
				Date: monday, Now: later, Policy: policy,
				CheckIn:  at(monday, 9, 0),
				CheckOut: at(monday, 18, 45),
			},
			wantTags:  []report.Tag{report.TagLateOut},
			wantColor: report.ColorGreen,
		},
		{
			name: "missed punch on a past day",
			input: StatusInput{
				Date: monday, Now: later, Policy: policy,
				CheckIn: at(monday, 9, 0),
			},
			wantTags:  []report.Tag{report.TagShiftOutNotDone},
			wantColor: report.ColorRed,
		},
		{
			name: "open session today during the shift is working",
			input: StatusInput{
				Date: monday, Now: *at(monday, 17, 0), Policy: policy,
				CheckIn: at(monday, 9, 0),
			},
			wantTags:  []report.Tag{report.TagWorking},
			wantColor: report.ColorGreen,
		},
		{
			name: "open session today well past shift end is a missed punch",
			input: StatusInput{
				Date: monday, Now: *at(monday, 19, 30), Policy: policy,
				CheckIn: at(monday, 9, 0),
			},
			wantTags:  []report.Tag{report.TagShiftOutNotDone},
			wantColor: report.ColorRed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveDailyStatus(tt.input)

			assert.Equal(t, tt.wantTags, got.Status)
			assert.Equal(t, tt.wantColor, got.Color)
			assert.Equal(t, tt.wantRemarks, got.Remarks)
		})
	}
}

func TestResolveDailyStatusIsDeterministic(t *testing.T) {
	input := StatusInput{
		Date: monday,
		Now:  time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
		CheckIn:  at(monday, 9, 20),
		CheckOut: at(monday, 17, 0),
		Policy:   settings.Default(),
	}

	first := ResolveDailyStatus(input)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, ResolveDailyStatus(input))
	}
}

func TestResolveDailyStatusTimes(t *testing.T) {
	got := ResolveDailyStatus(StatusInput{
		Date: monday,
		Now:  time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
		CheckIn:  at(monday, 9, 7),
		CheckOut: at(monday, 18, 2),
		Policy:   settings.Default(),
	})

	require.NotNil(t, got.Times.In)
	require.NotNil(t, got.Times.Out)
	assert.Equal(t, "09:07", *got.Times.In)
	assert.Equal(t, "18:02", *got.Times.Out)
	assert.Equal(t, "2026-03-02", got.Date)
}
