package attendance

import (
	"time"
)

// Session types
const (
	TypeOffice = "OFFICE"
	TypeTravel = "TRAVEL"
)

// Session statuses
const (
	StatusOpen       = "open"
	StatusClosed     = "closed"
	StatusAutoClosed = "auto_closed"
)

// Auto-checkout reasons
const (
	ReasonOutsideGeofence = "outside_geofence"
	ReasonStaleSession    = "stale_session"
)

// Session is one check-in/check-out cycle for an employee on a calendar day.
// An employee may have several sessions per day (re-entry); at most one is
// open system-wide, enforced by the check-in path.
type Session struct {
	ID               string
	EmployeeID       string
	Date             time.Time
	CheckIn          time.Time
	CheckOut         *time.Time
	CheckInLatitude  float64
	CheckInLongitude float64
	CheckInPhotoURL  *string
	Type             string
	Status           string
	CheckOutReason   *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Open reports whether the session has no recorded check-out.
func (s Session) Open() bool {
	return s.CheckOut == nil
}

// DurationMinutes returns the session length in minutes, counting an open
// session up to now.
func (s Session) DurationMinutes(now time.Time) int {
	end := now
	if s.CheckOut != nil {
		end = *s.CheckOut
	}
	return int(end.Sub(s.CheckIn).Minutes())
}
