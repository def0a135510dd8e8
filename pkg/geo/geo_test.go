package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistanceMiles(t *testing.T) {
	newYork := Coordinates{Latitude: 40.7128, Longitude: -74.0060}
	losAngeles := Coordinates{Latitude: 34.0522, Longitude: -118.2437}

	distance := DistanceMiles(newYork, losAngeles)
	assert.InDelta(t, 2445, distance, 20, "NYC to LA should be roughly 2445 miles")
}

func TestDistanceMilesIdentity(t *testing.T) {
	point := Coordinates{Latitude: 51.5074, Longitude: -0.1278}

	assert.Zero(t, DistanceMiles(point, point))
}

func TestDistanceMilesSymmetry(t *testing.T) {
	a := Coordinates{Latitude: 40.7128, Longitude: -74.0060}
	b := Coordinates{Latitude: 40.7829, Longitude: -73.9654}

	assert.Equal(t, DistanceMiles(a, b), DistanceMiles(b, a))
}

func TestRingAround(t *testing.T) {
	center := Coordinates{Latitude: 40.7128, Longitude: -74.0060}

	for _, radius := range []float64{1, 5, 10} {
		points := RingAround(center, radius)
		require.Len(t, points, 8)

		// The degrees-per-mile approximation ignores longitude compression
		// (cos 40.7° ≈ 0.76 at this latitude) and the 0.7/0.7 diagonals are
		// slightly short, so allow a loose band rather than exact equality
		// against the Haversine distance.
		for _, point := range points {
			distance := DistanceMiles(center, point)
			assert.InDelta(t, radius, distance, radius*0.35)
			assert.Greater(t, distance, 0.0)
		}
	}
}

func TestCoordinatesString(t *testing.T) {
	point := Coordinates{Latitude: 40.7128, Longitude: -74.0060}

	assert.Equal(t, "40.7128, -74.0060", point.String())
}
