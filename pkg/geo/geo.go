package geo

import (
	"fmt"
	"math"
)

const earthRadiusMiles = 3959

// milesPerDegree is the rough size of one degree of latitude/longitude.
// Good enough for the small alert radii we work with (a few miles), not
// for anything approaching continental scale.
const milesPerDegree = 69

type Coordinates struct {
	Latitude  float64 `json:"lat" bson:"lat" groups:"basic"`
	Longitude float64 `json:"lng" bson:"lng" groups:"basic"`
}

func (c Coordinates) String() string {
	return fmt.Sprintf("%.4f, %.4f", c.Latitude, c.Longitude)
}

// DistanceMiles returns the great-circle distance between two points
// using the Haversine formula.
func DistanceMiles(a Coordinates, b Coordinates) float64 {
	dLat := (b.Latitude - a.Latitude) * math.Pi / 180
	dLng := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(a.Latitude*math.Pi/180)*math.Cos(b.Latitude*math.Pi/180)*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusMiles * c
}

var ringDirections = []Coordinates{
	{Latitude: 1, Longitude: 0},
	{Latitude: -1, Longitude: 0},
	{Latitude: 0, Longitude: 1},
	{Latitude: 0, Longitude: -1},
	{Latitude: 0.7, Longitude: 0.7},
	{Latitude: 0.7, Longitude: -0.7},
	{Latitude: -0.7, Longitude: 0.7},
	{Latitude: -0.7, Longitude: -0.7},
}

// RingAround returns 8 points at roughly radiusMiles from the center, one
// in each cardinal and diagonal direction.
func RingAround(center Coordinates, radiusMiles float64) []Coordinates {
	degrees := radiusMiles / milesPerDegree

	var points []Coordinates
	for _, direction := range ringDirections {
		points = append(points, Coordinates{
			Latitude:  center.Latitude + (direction.Latitude * degrees),
			Longitude: center.Longitude + (direction.Longitude * degrees),
		})
	}

	return points
}
