package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateHaversineDistance_SamePoint(t *testing.T) {
	d := CalculateHaversineDistance(-6.2088, 106.8456, -6.2088, 106.8456)
	assert.Equal(t, 0.0, d)
}

func TestCalculateHaversineDistance_Symmetric(t *testing.T) {
	a := CalculateHaversineDistance(-6.2088, 106.8456, -7.7956, 110.3695)
	b := CalculateHaversineDistance(-7.7956, 110.3695, -6.2088, 106.8456)
	assert.InDelta(t, a, b, 1e-9)
}

func TestCalculateHaversineDistance_KnownDistance(t *testing.T) {
	// Jakarta (Monas) to Bandung (Gedung Sate), roughly 118 km.
	d := CalculateHaversineDistance(-6.1754, 106.8272, -6.9025, 107.6186)
	assert.InDelta(t, 118000, d, 3000)
}

func TestCalculateHaversineDistance_NaNPropagates(t *testing.T) {
	d := CalculateHaversineDistance(math.NaN(), 106.8456, -6.2088, 106.8456)
	assert.True(t, math.IsNaN(d))
}

func TestCheckFence_BoundaryInclusive(t *testing.T) {
	centerLat, centerLon := -6.2088, 106.8456

	// Pick a point, measure its distance, then use exactly that distance as
	// the radius. The point must count as inside.
	pointLat, pointLon := -6.2095, 106.8460
	d := CalculateHaversineDistance(pointLat, pointLon, centerLat, centerLon)

	check := CheckFence(pointLat, pointLon, centerLat, centerLon, d)
	assert.True(t, check.IsWithin)
	assert.Equal(t, d, check.DistanceMeters)
}

func TestCheckFence_OutsideRadius(t *testing.T) {
	check := CheckFence(-6.2200, 106.8456, -6.2088, 106.8456, 100)
	assert.False(t, check.IsWithin)
	assert.Greater(t, check.DistanceMeters, 100.0)
}

func TestCheckFence_CenterIsInside(t *testing.T) {
	check := CheckFence(-6.2088, 106.8456, -6.2088, 106.8456, 50)
	assert.True(t, check.IsWithin)
	assert.Equal(t, 0.0, check.DistanceMeters)
}
