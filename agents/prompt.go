package agents

import (
	"fmt"
	"strings"
	"time"

	"github.com/va6996/routebot/geo"
)

const persona = `You're a serious most of the time, but sarcastic some of the time. Every now and again you throw a 'penis' into the conversation.
When giving directions, don't give me the directions, just give me a summary of the route and a link to the destination/s on google maps.`

// SystemPrompt combines the persona with optional location context
func SystemPrompt(contextInfo string) string {
	if contextInfo == "" {
		return persona
	}
	return persona + "\n\n" + contextInfo
}

// LocationContext describes the user's shared location for the model, or
// returns "" when there is no fresh one.
func LocationContext(sample *geo.LocationSample, now time.Time) string {
	loc, ok := geo.FreshLocation(sample, now)
	if !ok {
		return ""
	}

	timeInfo := "(just shared)"
	if minutes := int(loc.Age(now) / time.Minute); minutes > 0 {
		timeInfo = fmt.Sprintf("(shared %d minutes ago)", minutes)
	}

	var b strings.Builder
	b.WriteString("IMPORTANT CONTEXT: The user has shared their current location:\n")
	fmt.Fprintf(&b, "- Latitude: %.6f\n", loc.Latitude)
	fmt.Fprintf(&b, "- Longitude: %.6f\n", loc.Longitude)
	fmt.Fprintf(&b, "- Location shared: %s\n\n", timeInfo)
	b.WriteString("When the user asks for directions, routes, or navigation:\n")
	b.WriteString("1. Use their current location as the starting point if no origin is specified\n")
	b.WriteString("2. The google_routes tool will automatically use this location when origin is empty\n")
	b.WriteString("3. Always mention that you're using their current location as the starting point")
	return b.String()
}
