// Package routing turns a directions request plus an optional shared
// location into a geocoded route computed by the Google Routes API, and
// renders it as chat-friendly text.
package routing

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/va6996/routebot/geo"
)

// Travel modes accepted in a RouteRequest
const (
	ModeDriving   = "driving"
	ModeWalking   = "walking"
	ModeBicycling = "bicycling"
	ModeTransit   = "transit"
)

var travelModes = map[string]string{
	ModeDriving:   "DRIVE",
	ModeWalking:   "WALK",
	ModeBicycling: "BICYCLE",
	ModeTransit:   "TRANSIT",
}

// TravelModeFor maps a mode to the Routes API enum. Unknown modes drive.
func TravelModeFor(mode string) string {
	if m, ok := travelModes[strings.ToLower(mode)]; ok {
		return m
	}
	return "DRIVE"
}

// RouteRequest is one directions query. An empty Origin means "from the
// user's shared location".
type RouteRequest struct {
	Origin      string   `json:"origin,omitempty" description:"Starting location (leave empty to use current location)"`
	Destination string   `json:"destination" validate:"required" description:"Destination location"`
	Waypoints   []string `json:"waypoints,omitempty" validate:"max=25" description:"List of stops along the route"`
	Mode        string   `json:"mode,omitempty" description:"Travel mode (driving/walking/bicycling/transit)"`
}

// ValidationMessage turns a validator error on RouteRequest into text a chat
// user can act on.
func ValidationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		switch {
		case fe.Tag() == "required":
			msgs = append(msgs, field+" is required")
		case fe.Tag() == "max" && fe.Field() == "Waypoints":
			msgs = append(msgs, fmt.Sprintf("at most %s waypoints", fe.Param()))
		default:
			msgs = append(msgs, field+" is invalid")
		}
	}
	return strings.Join(msgs, "; ")
}

// UserContext is what the caller knows about the user issuing the request
type UserContext struct {
	CurrentLocation *geo.LocationSample
}

type userContextKey struct{}

// WithUserContext attaches uc to ctx so tools invoked by the model can read it.
func WithUserContext(ctx context.Context, uc UserContext) context.Context {
	return context.WithValue(ctx, userContextKey{}, uc)
}

// UserContextFromContext returns the attached user context, or the zero value.
func UserContextFromContext(ctx context.Context) UserContext {
	if ctx == nil {
		return UserContext{}
	}
	uc, _ := ctx.Value(userContextKey{}).(UserContext)
	return uc
}
