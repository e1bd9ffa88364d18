package routing

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/va6996/routebot/geo"
	"github.com/va6996/routebot/log"
)

// Geocoder resolves place names to coordinates and back. Geocode reports
// "no match" as false rather than an error.
type Geocoder interface {
	Geocode(ctx context.Context, place string) (geo.Coordinate, bool)
	ReverseGeocode(ctx context.Context, coord geo.Coordinate) string
}

// RouteComputer performs one computeRoutes call. A service-reported error
// comes back in RoutesResponse.Error; the error return is for transport
// failures only.
type RouteComputer interface {
	ComputeRoutes(ctx context.Context, req *RoutesRequest) (*RoutesResponse, error)
}

// Planner resolves a RouteRequest and renders the computed route
type Planner struct {
	geocoder  Geocoder
	routes    RouteComputer
	mapsHost  string
	legLabels LegLabelMode
	now       func() time.Time
	validate  *validator.Validate
}

// Option configures a Planner
type Option func(*Planner)

// WithMapsHost sets the host used in map links
func WithMapsHost(host string) Option {
	return func(p *Planner) { p.mapsHost = host }
}

// WithLegLabels selects how intermediate legs are labelled
func WithLegLabels(mode LegLabelMode) Option {
	return func(p *Planner) { p.legLabels = mode }
}

// WithClock overrides time.Now for location freshness checks
func WithClock(now func() time.Time) Option {
	return func(p *Planner) { p.now = now }
}

func NewPlanner(geocoder Geocoder, routes RouteComputer, opts ...Option) *Planner {
	p := &Planner{
		geocoder:  geocoder,
		routes:    routes,
		mapsHost:  DefaultMapsHost,
		legLabels: LegLabelsInput,
		now:       time.Now,
		validate:  validator.New(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// PlanRoute answers a directions request with display text. Every failure
// is rendered as a message; it never returns an error.
func (p *Planner) PlanRoute(ctx context.Context, req RouteRequest, uc UserContext) string {
	if err := p.validate.Struct(req); err != nil {
		return "❌ Invalid route request: " + ValidationMessage(err)
	}
	mode := req.Mode
	if mode == "" {
		mode = ModeDriving
	}

	var (
		origin          geo.Coordinate
		originLabel     = req.Origin
		fromCurrentSpot bool
	)
	if req.Origin == "" {
		sample, ok := geo.FreshLocation(uc.CurrentLocation, p.now())
		if !ok {
			return "❌ No origin specified and no current location available. Please share your location or specify a starting point."
		}
		origin = sample.Coordinate()
		originLabel = p.geocoder.ReverseGeocode(ctx, origin)
		fromCurrentSpot = true
	} else {
		c, ok := p.geocoder.Geocode(ctx, req.Origin)
		if !ok {
			return fmt.Sprintf("❌ Could not find coordinates for origin '%s'", req.Origin)
		}
		origin = c
	}

	destination, ok := p.geocoder.Geocode(ctx, req.Destination)
	if !ok {
		return fmt.Sprintf("❌ Could not find coordinates for destination '%s'", req.Destination)
	}

	var (
		stops      []geo.Coordinate
		stopNames  []string
		unresolved []string
	)
	for _, w := range req.Waypoints {
		c, ok := p.geocoder.Geocode(ctx, w)
		if !ok {
			unresolved = append(unresolved, w)
			continue
		}
		stops = append(stops, c)
		stopNames = append(stopNames, w)
	}

	log.Debugf(ctx, "Computing %s route with %d stops (%d unresolved)", mode, len(stops), len(unresolved))
	resp, err := p.routes.ComputeRoutes(ctx, BuildRoutesRequest(origin, destination, stops, mode))
	if err != nil {
		log.Warnf(ctx, "Routes API call failed: %v", err)
		return fmt.Sprintf("❌ Network error calling Routes API: %v", err)
	}
	if resp.Error != nil {
		msg := resp.Error.Message
		if msg == "" {
			msg = "Unknown error"
		}
		return "❌ Routes API Error: " + msg
	}
	if len(resp.Routes) == 0 {
		return "❌ No route found between the specified locations"
	}

	result, err := NewRouteResult(resp.Routes[0], unresolved)
	if err != nil {
		log.Errorf(ctx, "Unreadable Routes API response: %v", err)
		return fmt.Sprintf("❌ Unexpected error: %v", err)
	}

	return Format(result, Display{
		OriginLabel:         originLabel,
		Destination:         req.Destination,
		Mode:                mode,
		FromCurrentLocation: fromCurrentSpot,
		Waypoints:           stopNames,
		MapLink:             MapLink(p.mapsHost, origin, stops, destination),
		LegLabels:           p.legLabels,
	})
}
