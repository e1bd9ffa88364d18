package routing

import (
	"fmt"
	"strings"
	"time"

	"github.com/va6996/routebot/geo"
)

// FieldMask selects the parts of computeRoutes responses the formatter reads
const FieldMask = "routes.duration,routes.distanceMeters,routes.legs.duration,routes.legs.distanceMeters,routes.legs.startLocation,routes.legs.endLocation,routes.optimizedIntermediateWaypointIndex"

// LatLng is the Routes API coordinate shape
type LatLng struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type Location struct {
	LatLng LatLng `json:"latLng"`
}

type Waypoint struct {
	Location Location `json:"location"`
}

// RoutesRequest is the computeRoutes request body
type RoutesRequest struct {
	Origin                Waypoint   `json:"origin"`
	Destination           Waypoint   `json:"destination"`
	Intermediates         []Waypoint `json:"intermediates,omitempty"`
	TravelMode            string     `json:"travelMode"`
	OptimizeWaypointOrder bool       `json:"optimizeWaypointOrder,omitempty"`
}

// RouteLeg is one leg of a computed route. Absent fields stay zero/nil.
type RouteLeg struct {
	Duration       string    `json:"duration,omitempty"`
	DistanceMeters *int      `json:"distanceMeters,omitempty"`
	StartLocation  *Location `json:"startLocation,omitempty"`
	EndLocation    *Location `json:"endLocation,omitempty"`
}

type Route struct {
	Duration                           string     `json:"duration,omitempty"`
	DistanceMeters                     *int       `json:"distanceMeters,omitempty"`
	Legs                               []RouteLeg `json:"legs,omitempty"`
	OptimizedIntermediateWaypointIndex []int      `json:"optimizedIntermediateWaypointIndex,omitempty"`
}

// APIError is the error payload the service returns instead of routes
type APIError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

// RoutesResponse holds either routes or a service-reported error
type RoutesResponse struct {
	Routes []Route   `json:"routes,omitempty"`
	Error  *APIError `json:"error,omitempty"`
}

func waypointFor(c geo.Coordinate) Waypoint {
	return Waypoint{Location: Location{LatLng: LatLng{Latitude: c.Latitude, Longitude: c.Longitude}}}
}

// BuildRoutesRequest assembles the computeRoutes body. Waypoint order
// optimization is requested only when there are intermediates.
func BuildRoutesRequest(origin, destination geo.Coordinate, intermediates []geo.Coordinate, mode string) *RoutesRequest {
	req := &RoutesRequest{
		Origin:      waypointFor(origin),
		Destination: waypointFor(destination),
		TravelMode:  TravelModeFor(mode),
	}
	if len(intermediates) > 0 {
		req.Intermediates = make([]Waypoint, len(intermediates))
		for i, c := range intermediates {
			req.Intermediates[i] = waypointFor(c)
		}
		req.OptimizeWaypointOrder = true
	}
	return req
}

// ParseDuration reads the service's "123s" duration strings
func ParseDuration(s string) (time.Duration, error) {
	if !strings.HasSuffix(s, "s") {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", s, err)
	}
	return d, nil
}
