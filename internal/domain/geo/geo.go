package geo

import "math"

// earthRadiusM is the mean Earth radius in meters.
const earthRadiusM = 6371e3

// Coordinate is a WGS84 latitude/longitude pair in degrees.
type Coordinate struct {
	Latitude  float64
	Longitude float64
}

// Geofence is a static radius check against one fixed facility coordinate.
type Geofence struct {
	Center  Coordinate
	RadiusM float64
}

// NewGeofence creates a Geofence around the facility coordinate.
// PRE: radiusM > 0
func NewGeofence(center Coordinate, radiusM float64) Geofence {
	return Geofence{Center: center, RadiusM: radiusM}
}

// Contains reports whether the given point lies within the fence radius.
// INVARIANT: the boundary itself is inside (distance == radius admits)
func (g Geofence) Contains(point Coordinate) bool {
	return Distance(g.Center, point) <= g.RadiusM
}

// Distance returns the great-circle distance between two coordinates in
// meters, using the haversine formula.
func Distance(a, b Coordinate) float64 {
	lat1 := a.Latitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	dLat := (b.Latitude - a.Latitude) * math.Pi / 180
	dLon := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusM * c
}
