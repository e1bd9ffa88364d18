// Package geo holds coordinate value types and the freshness rule for
// locations shared by chat users.
package geo

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang/geo/s2"
)

// FreshnessWindow is how long a shared location is trusted.
const FreshnessWindow = 30 * time.Minute

// EarthRadiusMeters is the mean Earth radius used for straight-line distances
const EarthRadiusMeters = 6371008.8

// Coordinate is a latitude/longitude pair in degrees
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Valid reports whether the coordinate lies within latitude/longitude bounds.
func (c Coordinate) Valid() bool {
	return s2.LatLngFromDegrees(c.Latitude, c.Longitude).IsValid()
}

// DistanceMeters returns the great-circle distance to other.
func (c Coordinate) DistanceMeters(other Coordinate) float64 {
	p1 := s2.LatLngFromDegrees(c.Latitude, c.Longitude)
	p2 := s2.LatLngFromDegrees(other.Latitude, other.Longitude)
	return p1.Distance(p2).Radians() * EarthRadiusMeters
}

// PathSegment renders the coordinate as "lat,lng" without rounding.
func (c Coordinate) PathSegment() string {
	return strconv.FormatFloat(c.Latitude, 'f', -1, 64) + "," + strconv.FormatFloat(c.Longitude, 'f', -1, 64)
}

// Label renders the coordinate as "(lat, lng)" with 4 decimals.
func (c Coordinate) Label() string {
	return fmt.Sprintf("(%.4f, %.4f)", c.Latitude, c.Longitude)
}

// LocationSample is a location shared by a user at a point in time.
// A newer sample replaces the previous one outright.
type LocationSample struct {
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	CapturedAt time.Time `json:"captured_at"`
}

// Coordinate drops the capture time.
func (s LocationSample) Coordinate() Coordinate {
	return Coordinate{Latitude: s.Latitude, Longitude: s.Longitude}
}

// Age is the time elapsed since the sample was captured.
func (s LocationSample) Age(now time.Time) time.Duration {
	return now.Sub(s.CapturedAt)
}

// FreshLocation returns the sample when it exists and is younger than
// FreshnessWindow at now. Every caller deciding whether a shared location is
// usable goes through here.
func FreshLocation(sample *LocationSample, now time.Time) (LocationSample, bool) {
	if sample == nil {
		return LocationSample{}, false
	}
	if sample.Age(now) >= FreshnessWindow {
		return LocationSample{}, false
	}
	return *sample, true
}

// FormatDistance renders meters as "X.Y km" from 1000 m upwards, else "X m".
func FormatDistance(meters int) string {
	if meters >= 1000 {
		return fmt.Sprintf("%.1f km", float64(meters)/1000)
	}
	return fmt.Sprintf("%d m", meters)
}
