package report

import (
	"strings"
	"time"

	"github.com/presenza-hq/presenza-backend-go/internal/domain/report"
	"github.com/presenza-hq/presenza-backend-go/internal/domain/request"
	"github.com/presenza-hq/presenza-backend-go/internal/domain/settings"
)

const (
	// Check-ins more than this many minutes before shift start get the
	// early-in tag.
	earlyInMarginMinutes = 30

	// A still-open session today is only flagged as a missed punch once the
	// clock passes shift end by this much.
	missedPunchSlackMinutes = 60

	// Check-outs past shift end by more than this get the late-out tag.
	lateOutSlackMinutes = 30

	// Sessions shorter than this with an early check-out count as half days.
	halfDayDurationMinutes = 240
)

// StatusInput bundles the facts the resolver needs for one employee-day.
// CheckIn/CheckOut form the day's envelope: earliest check-in, latest
// check-out, nil check-out while any session is still open.
type StatusInput struct {
	Date time.Time
	Now  time.Time

	CheckIn  *time.Time
	CheckOut *time.Time

	Leave      *request.Request
	Permission *request.Request

	Policy settings.AttendancePolicy
}

// ResolveDailyStatus classifies one employee-day. It is pure: the same input
// always yields the same result, and Now is only consulted when the report
// date is the current day.
func ResolveDailyStatus(in StatusInput) report.DailyStatus {
	tags := report.NewTagSet()
	var remarks []string

	hasAttendance := in.CheckIn != nil

	times := report.Times{}
	if in.CheckIn != nil {
		s := in.CheckIn.Format("15:04")
		times.In = &s
	}
	if in.CheckOut != nil {
		s := in.CheckOut.Format("15:04")
		times.Out = &s
	}

	result := func(color report.Color) report.DailyStatus {
		return report.DailyStatus{
			Date:    in.Date.Format("2006-01-02"),
			Status:  tags.Tags(),
			Remarks: strings.Join(remarks, "; "),
			Color:   color,
			Times:   times,
		}
	}

	// Sunday is the fixed week-off day.
	if in.Date.Weekday() == time.Sunday {
		if !hasAttendance {
			tags.Append(report.TagWeekOff)
			remarks = append(remarks, "Sunday Holiday")
			return result(report.ColorGray)
		}
		tags.Append(report.TagWeekOffWorked)
	}

	if in.Leave != nil {
		tags.Append(report.TagLeave)
		if in.Leave.LeaveType != nil && *in.Leave.LeaveType != "" {
			remarks = append(remarks, *in.Leave.LeaveType)
		}
		if !hasAttendance {
			return result(report.ColorOrange)
		}
		tags.Append(report.TagPresentOnLeave)
	}

	if !hasAttendance {
		tags.Append(report.TagAbsent)
		remarks = append(remarks, "No Check-in")
		return result(report.DeriveColor(tags))
	}

	checkInMin := minutesFromMidnight(*in.CheckIn)
	workStart := in.Policy.WorkStartMinutes()
	workEnd := in.Policy.WorkEndMinutes()
	lateCutoff := workStart + in.Policy.GraceMinutes

	if checkInMin > lateCutoff {
		if in.Permission != nil {
			tags.Append(report.TagPermissionIn)
			remarks = append(remarks, "Late entry permitted")
		} else {
			tags.Append(report.TagLateIn)
		}
		// Half-day stacks on top of the late/permission tag.
		if checkInMin > in.Policy.HalfDayThresholdMinutes {
			tags.Append(report.TagHalfDayIn)
		}
	} else if checkInMin < workStart-earlyInMarginMinutes {
		tags.Append(report.TagEarlyIn)
	}

	if in.CheckOut == nil {
		switch {
		case in.Date.Before(dayOf(in.Now)):
			tags.Append(report.TagShiftOutNotDone)
		case minutesFromMidnight(in.Now) > workEnd+missedPunchSlackMinutes:
			tags.Append(report.TagShiftOutNotDone)
		default:
			tags.Append(report.TagWorking)
		}
	} else {
		checkOutMin := minutesFromMidnight(*in.CheckOut)
		if checkOutMin < workEnd {
			tags.Append(report.TagEarlyOut)
			if int(in.CheckOut.Sub(*in.CheckIn).Minutes()) < halfDayDurationMinutes {
				tags.Append(report.TagHalfDayOut)
			}
		}
		if checkOutMin > workEnd+lateOutSlackMinutes {
			tags.Append(report.TagLateOut)
		}
	}

	if tags.Len() == 0 || (tags.Len() == 1 && tags.Contains(report.TagEarlyIn)) {
		tags.Append(report.TagPresent)
	}

	return result(report.DeriveColor(tags))
}

func minutesFromMidnight(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
