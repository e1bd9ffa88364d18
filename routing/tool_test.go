package routing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/va6996/routebot/geo"
	"github.com/va6996/routebot/tools"
)

func TestRouteTool_Invoke(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	routes := &stubRoutes{resp: okRoute()}
	planner := NewPlanner(newGeocoder(), routes, WithClock(func() time.Time { return now }))

	registry := tools.NewRegistry()
	tool := NewRouteTool(planner, nil, registry)
	assert.Equal(t, []string{"google_routes"}, registry.Names())
	assert.Empty(t, registry.GetTools())

	t.Run("UsesLocationFromContext", func(t *testing.T) {
		ctx := WithUserContext(context.Background(), UserContext{
			CurrentLocation: &geo.LocationSample{Latitude: -31.95, Longitude: 115.86, CapturedAt: now.Add(-time.Minute)},
		})

		out, err := registry.ExecuteTool(ctx, "google_routes", map[string]interface{}{
			"destination": "Fremantle",
			"waypoints":   []interface{}{"Kings Park", 42},
		})
		require.NoError(t, err)
		assert.Contains(t, out, "📍 Your Location: (-31.9500, 115.8600)")
		require.NotNil(t, routes.last)
		assert.Len(t, routes.last.Intermediates, 1)
	})

	t.Run("NoContext", func(t *testing.T) {
		out, err := tool.Invoke(context.Background(), map[string]interface{}{"destination": "Fremantle"})
		require.NoError(t, err)
		assert.Contains(t, out, "No origin specified")
	})
}

func TestUserContextFromContext(t *testing.T) {
	assert.Equal(t, UserContext{}, UserContextFromContext(context.Background()))

	sample := &geo.LocationSample{Latitude: 1, Longitude: 2}
	ctx := WithUserContext(context.Background(), UserContext{CurrentLocation: sample})
	assert.Same(t, sample, UserContextFromContext(ctx).CurrentLocation)
}
