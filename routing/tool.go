package routing

import (
	"context"

	"github.com/firebase/genkit/go/genkit"
	"github.com/va6996/routebot/log"
	"github.com/va6996/routebot/tools"
)

// RouteTool exposes the planner to the model as "google_routes"
type RouteTool struct {
	planner *Planner
}

// NewRouteTool creates the tool and registers it
func NewRouteTool(planner *Planner, gk *genkit.Genkit, registry *tools.Registry) *RouteTool {
	t := &RouteTool{planner: planner}
	tools.Define(gk, registry, t, func(ctx context.Context, input *RouteRequest) (string, error) {
		if input == nil {
			input = &RouteRequest{}
		}
		return t.Plan(ctx, *input), nil
	})
	return t
}

func (t *RouteTool) Name() string {
	return "google_routes"
}

func (t *RouteTool) Description() string {
	return "Get optimized directions between locations with multiple stops using Google Maps Routes API. " +
		"Automatically optimizes waypoint order for the most efficient route. " +
		"If no origin is specified, will use user's current location if available. " +
		"Input: origin (optional), destination, optional waypoints list, and travel mode."
}

// Plan runs the planner with the user context carried by ctx
func (t *RouteTool) Plan(ctx context.Context, req RouteRequest) string {
	log.Infof(ctx, "[Routes] %s: origin=%q destination=%q waypoints=%d", t.Name(), req.Origin, req.Destination, len(req.Waypoints))
	return t.planner.PlanRoute(ctx, req, UserContextFromContext(ctx))
}

func (t *RouteTool) Invoke(ctx context.Context, args map[string]interface{}) (string, error) {
	return t.Plan(ctx, RouteRequest{
		Origin:      tools.StringArg(args, "origin"),
		Destination: tools.StringArg(args, "destination"),
		Waypoints:   tools.StringSliceArg(args, "waypoints"),
		Mode:        tools.StringArg(args, "mode"),
	}), nil
}
