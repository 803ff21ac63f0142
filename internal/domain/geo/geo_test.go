package geo

import (
	"math"
	"testing"
)

var facility = Coordinate{Latitude: -34.76058070354081, Longitude: -58.345231758538894}

// TestDistance_SamePoint tests that identical coordinates are zero meters apart.
func TestDistance_SamePoint(t *testing.T) {
	d := Distance(facility, facility)
	if d > 0.01 {
		t.Errorf("distance between identical points = %f, want ~0", d)
	}
}

// TestDistance_KnownSpan tests against a one-degree-of-latitude reference span.
func TestDistance_KnownSpan(t *testing.T) {
	a := Coordinate{Latitude: 0, Longitude: 0}
	b := Coordinate{Latitude: 1, Longitude: 0}
	d := Distance(a, b)
	// One degree of latitude is ~111.2 km.
	if math.Abs(d-111195) > 500 {
		t.Errorf("distance = %f, want ~111195m", d)
	}
}

// TestGeofence_Contains tests points just inside and well outside the radius.
func TestGeofence_Contains(t *testing.T) {
	fence := NewGeofence(facility, 100)

	inside := Coordinate{Latitude: facility.Latitude + 0.0001, Longitude: facility.Longitude + 0.0001}
	if !fence.Contains(inside) {
		t.Error("point ~15m away should be inside a 100m fence")
	}

	outside := Coordinate{Latitude: facility.Latitude + 0.002, Longitude: facility.Longitude + 0.002}
	if fence.Contains(outside) {
		t.Error("point ~280m away should be outside a 100m fence")
	}
}

// TestGeofence_BoundaryAdmits tests that the exact center is trivially inside.
func TestGeofence_BoundaryAdmits(t *testing.T) {
	fence := NewGeofence(facility, 100)
	if !fence.Contains(facility) {
		t.Error("center must be inside its own fence")
	}
}
