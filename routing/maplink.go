package routing

import (
	"strings"

	"github.com/va6996/routebot/geo"
)

// DefaultMapsHost is used when no maps host is configured
const DefaultMapsHost = "www.google.com"

// MapLink builds a directions deep link: origin, each waypoint in the order
// given, then destination, one "lat,lng" path segment each.
func MapLink(host string, origin geo.Coordinate, waypoints []geo.Coordinate, destination geo.Coordinate) string {
	if host == "" {
		host = DefaultMapsHost
	}

	segments := make([]string, 0, len(waypoints)+2)
	segments = append(segments, origin.PathSegment())
	for _, w := range waypoints {
		segments = append(segments, w.PathSegment())
	}
	segments = append(segments, destination.PathSegment())

	return "https://" + host + "/maps/dir/" + strings.Join(segments, "/")
}
