package tracking

import (
	"time"
)

// Fence is a circular geographic boundary an employee must be inside to be
// considered on-site. A fence without a branch is the global fallback.
type Fence struct {
	ID           string
	Name         string
	BranchID     *string
	Latitude     float64
	Longitude    float64
	RadiusMeters float64
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TrackingState holds the live per-employee tracking counters, one row per
// employee. Whether an employee is tracking at all is derived from the
// existence of an open attendance session plus ping freshness; it is not a
// stored flag.
type TrackingState struct {
	EmployeeID           string
	LastLatitude         float64
	LastLongitude        float64
	LastPingAt           time.Time
	InsideGeofence       bool
	OutsideGeofenceCount int
	UpdatedAt            time.Time
}

// Ping is one immutable location report from a tracking client.
type Ping struct {
	ID             string
	EmployeeID     string
	Latitude       float64
	Longitude      float64
	InsideFence    bool
	DistanceMeters float64
	RecordedAt     time.Time
}
