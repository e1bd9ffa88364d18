package routing

import (
	"fmt"
	"strings"
	"time"

	"github.com/va6996/routebot/geo"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// LegLabelMode controls how intermediate stops are named in the leg breakdown
type LegLabelMode string

const (
	// LegLabelsInput numbers stops "Stop 1", "Stop 2", ... regardless of the
	// order the service chose.
	LegLabelsInput LegLabelMode = "input"
	// LegLabelsOptimized names stops after the waypoints in optimized order.
	LegLabelsOptimized LegLabelMode = "optimized"
)

// ParseLegLabelMode accepts "optimized"; anything else is LegLabelsInput.
func ParseLegLabelMode(s string) LegLabelMode {
	if LegLabelMode(strings.ToLower(s)) == LegLabelsOptimized {
		return LegLabelsOptimized
	}
	return LegLabelsInput
}

// Leg is the duration and distance of one leg. Nil means the service left
// the value out.
type Leg struct {
	Duration *time.Duration
	Distance *int
}

// RouteResult is the first computed route reduced to what gets displayed
type RouteResult struct {
	Duration       *time.Duration
	Distance       *int
	Legs           []Leg
	OptimizedOrder []int
	Unresolved     []string
}

// NewRouteResult converts a wire route. unresolved lists waypoint names that
// could not be geocoded.
func NewRouteResult(route Route, unresolved []string) (RouteResult, error) {
	res := RouteResult{
		Distance:       route.DistanceMeters,
		OptimizedOrder: route.OptimizedIntermediateWaypointIndex,
		Unresolved:     unresolved,
	}

	if route.Duration != "" {
		d, err := ParseDuration(route.Duration)
		if err != nil {
			return RouteResult{}, err
		}
		res.Duration = &d
	}

	for _, wl := range route.Legs {
		leg := Leg{Distance: wl.DistanceMeters}
		if wl.Duration != "" {
			d, err := ParseDuration(wl.Duration)
			if err != nil {
				return RouteResult{}, err
			}
			leg.Duration = &d
		}
		res.Legs = append(res.Legs, leg)
	}
	return res, nil
}

// Display is the request-side metadata the formatter needs
type Display struct {
	OriginLabel         string
	Destination         string
	Mode                string
	FromCurrentLocation bool
	// Waypoints are the geocoded waypoint names in input order
	Waypoints []string
	MapLink   string
	LegLabels LegLabelMode
}

// FormatDuration renders whole minutes as "Xh Ym", or "Ym" under an hour.
func FormatDuration(d time.Duration) string {
	secs := int64(d / time.Second)
	hours := secs / 3600
	minutes := (secs % 3600) / 60
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}

// UnresolvedWarning is the line listing waypoints that could not be found
func UnresolvedWarning(names []string) string {
	if len(names) == 0 {
		return ""
	}
	return fmt.Sprintf("⚠️ Could not find: %s\n\n", strings.Join(names, ", "))
}

// OptimizedStops maps the service's index permutation onto names. Indices
// outside names are dropped.
func OptimizedStops(order []int, names []string) []string {
	out := make([]string, 0, len(order))
	for _, i := range order {
		if i >= 0 && i < len(names) {
			out = append(out, names[i])
		}
	}
	return out
}

// Format renders the route summary
func Format(res RouteResult, d Display) string {
	var b strings.Builder

	b.WriteString(UnresolvedWarning(res.Unresolved))

	indicator := "📍 Starting Point"
	if d.FromCurrentLocation {
		indicator = "📍 Your Location"
	}
	b.WriteString("🗺️ **Route Summary**\n")
	fmt.Fprintf(&b, "%s: %s\n", indicator, d.OriginLabel)
	fmt.Fprintf(&b, "🎯 **Destination**: %s\n", d.Destination)
	fmt.Fprintf(&b, "🚗 **Travel Mode**: %s\n\n", cases.Title(language.Und).String(d.Mode))

	optimized := OptimizedStops(res.OptimizedOrder, d.Waypoints)
	if len(optimized) > 0 {
		fmt.Fprintf(&b, "🔄 **Optimized stops**: %s\n\n", strings.Join(optimized, " → "))
	}

	if res.Duration != nil {
		fmt.Fprintf(&b, "⏱️ **Total Time**: %s\n", FormatDuration(*res.Duration))
	}
	if res.Distance != nil {
		fmt.Fprintf(&b, "📏 **Total Distance**: %s\n\n", geo.FormatDistance(*res.Distance))
	}

	fmt.Fprintf(&b, "🔗 **[Open in Google Maps](%s)**\n\n", d.MapLink)

	if len(res.Legs) > 1 {
		stop := func(n int) string {
			if d.LegLabels == LegLabelsOptimized && n-1 < len(res.OptimizedOrder) {
				if i := res.OptimizedOrder[n-1]; i >= 0 && i < len(d.Waypoints) {
					return d.Waypoints[i]
				}
			}
			return fmt.Sprintf("Stop %d", n)
		}

		b.WriteString("📋 **Route Breakdown**:\n")
		last := len(res.Legs) - 1
		for i, leg := range res.Legs {
			var start, end string
			switch {
			case i == 0 && d.FromCurrentLocation:
				start = "📍 Your Location"
			case i == 0:
				start = d.OriginLabel
			default:
				start = stop(i)
			}
			if i == last {
				end = "🎯 " + d.Destination
			} else {
				end = stop(i + 1)
			}

			fmt.Fprintf(&b, "• **Leg %d**: %s → %s", i+1, start, end)
			if leg.Duration != nil {
				fmt.Fprintf(&b, " (%s)", FormatDuration(*leg.Duration))
			}
			if leg.Distance != nil {
				fmt.Fprintf(&b, " - %s", geo.FormatDistance(*leg.Distance))
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("\n✅ **Route ready!** Click the Google Maps link above for turn-by-turn navigation.")
	return b.String()
}
