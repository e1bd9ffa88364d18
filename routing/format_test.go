package routing

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/va6996/routebot/geo"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{45 * time.Second, "0m"},
		{7500 * time.Second, "2h 5m"},
		{time.Hour, "1h 0m"},
		{59*time.Minute + 59*time.Second, "59m"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatDuration(tt.in), tt.in.String())
	}
}

func TestOptimizedStops(t *testing.T) {
	names := []string{"A", "B", "C"}
	assert.Equal(t, []string{"C", "A", "B"}, OptimizedStops([]int{2, 0, 1}, names))
	assert.Equal(t, []string{"C", "A"}, OptimizedStops([]int{2, 7, 0, -1}, names))
	assert.Empty(t, OptimizedStops(nil, names))
}

func TestParseDuration(t *testing.T) {
	d, err := ParseDuration("123s")
	require.NoError(t, err)
	assert.Equal(t, 123*time.Second, d)

	_, err = ParseDuration("123")
	assert.Error(t, err)
	_, err = ParseDuration("abcs")
	assert.Error(t, err)
}

func TestFormat_MissingFields(t *testing.T) {
	res, err := NewRouteResult(Route{
		Legs: []RouteLeg{{Duration: "60s"}, {DistanceMeters: intp(850)}},
	}, nil)
	require.NoError(t, err)

	out := Format(res, Display{
		OriginLabel:         "Hay St",
		Destination:         "Fremantle",
		Mode:                "driving",
		FromCurrentLocation: true,
		MapLink:             "https://www.google.com/maps/dir/1,2/3,4",
	})

	assert.NotContains(t, out, "Total Time")
	assert.NotContains(t, out, "Total Distance")
	assert.Contains(t, out, "• **Leg 1**: 📍 Your Location → Stop 1 (1m)\n")
	assert.Contains(t, out, "• **Leg 2**: Stop 1 → 🎯 Fremantle - 850 m\n")
}

func TestFormat_OptimizedLineNeedsWaypoints(t *testing.T) {
	res := RouteResult{OptimizedOrder: []int{0}}
	out := Format(res, Display{Mode: "transit"})
	assert.NotContains(t, out, "Optimized stops")
	assert.Contains(t, out, "**Travel Mode**: Transit")
}

func TestFormat_EmptyOptimizedOrder(t *testing.T) {
	res := RouteResult{OptimizedOrder: []int{}}
	out := Format(res, Display{Mode: "driving", Waypoints: []string{"Kings Park"}})
	assert.NotContains(t, out, "Optimized stops")

	res = RouteResult{OptimizedOrder: []int{5}}
	out = Format(res, Display{Mode: "driving", Waypoints: []string{"Kings Park"}})
	assert.NotContains(t, out, "Optimized stops")
}

func TestFormat_OptimizedLabelsSkipUnknownIndex(t *testing.T) {
	res := RouteResult{
		OptimizedOrder: []int{2, 7, 0},
		Legs:           make([]Leg, 4),
	}
	out := Format(res, Display{
		OriginLabel: "Perth",
		Destination: "Fremantle",
		Mode:        "driving",
		Waypoints:   []string{"Kings Park", "Cottesloe", "Scarborough"},
		LegLabels:   LegLabelsOptimized,
	})

	assert.Contains(t, out, "🔄 **Optimized stops**: Scarborough → Kings Park\n\n")
	assert.Contains(t, out, "• **Leg 1**: Perth → Scarborough\n")
	assert.Contains(t, out, "• **Leg 2**: Scarborough → Stop 2\n")
	assert.Contains(t, out, "• **Leg 3**: Stop 2 → Kings Park\n")
	assert.Contains(t, out, "• **Leg 4**: Kings Park → 🎯 Fremantle\n")
}

func TestNewRouteResult_BadDuration(t *testing.T) {
	_, err := NewRouteResult(Route{Duration: "soon"}, nil)
	assert.Error(t, err)
}

func TestMapLink(t *testing.T) {
	origin := geo.Coordinate{Latitude: -31.9523, Longitude: 115.8613}
	dest := geo.Coordinate{Latitude: -32.0569, Longitude: 115.7439}

	tests := []struct {
		name      string
		waypoints []geo.Coordinate
	}{
		{"NoWaypoints", nil},
		{"OneWaypoint", []geo.Coordinate{{Latitude: 1.5, Longitude: 2.25}}},
		{"ThreeWaypoints", []geo.Coordinate{{Latitude: 1, Longitude: 2}, {Latitude: 3, Longitude: 4}, {Latitude: 5, Longitude: 6}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			link := MapLink("", origin, tt.waypoints, dest)
			require.True(t, strings.HasPrefix(link, "https://www.google.com/maps/dir/"))

			segments := strings.Split(strings.TrimPrefix(link, "https://www.google.com/maps/dir/"), "/")
			require.Len(t, segments, len(tt.waypoints)+2)
			assert.Equal(t, origin.PathSegment(), segments[0])
			for i, w := range tt.waypoints {
				assert.Equal(t, w.PathSegment(), segments[i+1])
			}
			assert.Equal(t, dest.PathSegment(), segments[len(segments)-1])
			assert.NotContains(t, link, "|")
		})
	}

	assert.Equal(t, "https://maps.example.com/maps/dir/1,2/3,4",
		MapLink("maps.example.com", geo.Coordinate{Latitude: 1, Longitude: 2}, nil, geo.Coordinate{Latitude: 3, Longitude: 4}))
}

func TestBuildRoutesRequest(t *testing.T) {
	o := geo.Coordinate{Latitude: 1, Longitude: 2}
	d := geo.Coordinate{Latitude: 3, Longitude: 4}

	req := BuildRoutesRequest(o, d, nil, "BICYCLING")
	assert.Equal(t, "BICYCLE", req.TravelMode)
	assert.False(t, req.OptimizeWaypointOrder)
	assert.Nil(t, req.Intermediates)

	req = BuildRoutesRequest(o, d, []geo.Coordinate{{Latitude: 5, Longitude: 6}}, "transit")
	assert.Equal(t, "TRANSIT", req.TravelMode)
	assert.True(t, req.OptimizeWaypointOrder)
	assert.Equal(t, []Waypoint{{Location: Location{LatLng: LatLng{Latitude: 5, Longitude: 6}}}}, req.Intermediates)
}

func TestTravelModeFor(t *testing.T) {
	assert.Equal(t, "DRIVE", TravelModeFor("driving"))
	assert.Equal(t, "WALK", TravelModeFor("walking"))
	assert.Equal(t, "BICYCLE", TravelModeFor("bicycling"))
	assert.Equal(t, "TRANSIT", TravelModeFor("transit"))
	assert.Equal(t, "DRIVE", TravelModeFor("teleport"))
	assert.Equal(t, "DRIVE", TravelModeFor(""))
}

func TestParseLegLabelMode(t *testing.T) {
	assert.Equal(t, LegLabelsOptimized, ParseLegLabelMode("Optimized"))
	assert.Equal(t, LegLabelsInput, ParseLegLabelMode("input"))
	assert.Equal(t, LegLabelsInput, ParseLegLabelMode(""))
}
