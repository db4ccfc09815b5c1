package geo

import "math"

const earthRadiusMeters = 6371000

// CalculateHaversineDistance returns the great-circle distance between two
// coordinates in meters. Invalid (NaN) coordinates propagate as a NaN
// distance; range validation is the caller's job.
func CalculateHaversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := (lat2 - lat1) * (math.Pi / 180.0)
	dLon := (lon2 - lon1) * (math.Pi / 180.0)

	lat1Rad := lat1 * (math.Pi / 180.0)
	lat2Rad := lat2 * (math.Pi / 180.0)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLon/2)*math.Sin(dLon/2)*math.Cos(lat1Rad)*math.Cos(lat2Rad)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMeters * c
}

// FenceCheck is the result of testing a point against a circular fence.
type FenceCheck struct {
	IsWithin       bool
	DistanceMeters float64
}

// CheckFence tests whether a point lies inside a circular fence. The boundary
// is inclusive: a point at exactly radius meters is within.
func CheckFence(lat, lon, centerLat, centerLon, radiusMeters float64) FenceCheck {
	distance := CalculateHaversineDistance(lat, lon, centerLat, centerLon)
	return FenceCheck{
		IsWithin:       distance <= radiusMeters,
		DistanceMeters: distance,
	}
}
