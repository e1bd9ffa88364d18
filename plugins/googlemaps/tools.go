package googlemaps

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/firebase/genkit/go/genkit"
	"github.com/va6996/routebot/geo"
	"github.com/va6996/routebot/log"
	"github.com/va6996/routebot/routing"
	"github.com/va6996/routebot/tools"
)

const (
	// defaultPlaceResults matches how many places are detailed per query
	defaultPlaceResults = 2
	// nearbyRadiusMeters biases text search around a shared location
	nearbyRadiusMeters = 5000
)

// PlacesInput is the google_places tool input
type PlacesInput struct {
	Query string `json:"query" description:"What to look for, e.g. 'coffee near Kings Park' or 'Perth Zoo'"`
}

// PlacesTool looks places up by free text
type PlacesTool struct {
	client     *Client
	maxResults int
	now        func() time.Time

	// MapsHost is the host used in place links
	MapsHost string
}

// NewPlacesTool creates the tool and registers it
func NewPlacesTool(client *Client, gk *genkit.Genkit, registry *tools.Registry) *PlacesTool {
	t := &PlacesTool{
		client:     client,
		maxResults: defaultPlaceResults,
		now:        time.Now,
	}
	tools.Define(gk, registry, t, func(ctx context.Context, input *PlacesInput) (string, error) {
		if input == nil {
			return "", fmt.Errorf("query is required")
		}
		return t.Search(ctx, input.Query)
	})
	return t
}

func (t *PlacesTool) Name() string {
	return "google_places"
}

func (t *PlacesTool) Description() string {
	return "A wrapper around Google Places. Useful for when you need to validate or discover addresses from ambiguous text. " +
		"Searches near the user's shared location when one is available. Input should be a search query."
}

func (t *PlacesTool) Invoke(ctx context.Context, args map[string]interface{}) (string, error) {
	return t.Search(ctx, tools.StringArg(args, "query"))
}

// Search runs the query and formats the top hits with their details
func (t *PlacesTool) Search(ctx context.Context, query string) (string, error) {
	if query == "" {
		return "", fmt.Errorf("query is required")
	}

	var near *geo.Coordinate
	if sample, ok := geo.FreshLocation(routing.UserContextFromContext(ctx).CurrentLocation, t.now()); ok {
		c := sample.Coordinate()
		near = &c
	}

	places, err := t.client.SearchPlaces(ctx, query, near, nearbyRadiusMeters)
	if err != nil {
		log.Errorf(ctx, "[Places] search for %q failed: %v", query, err)
		return "", err
	}
	if len(places) == 0 {
		return "Google Places did not find any places that match the description", nil
	}
	if len(places) > t.maxResults {
		places = places[:t.maxResults]
	}

	var b strings.Builder
	for i, p := range places {
		details, err := t.client.GetPlaceDetails(ctx, p.PlaceID)
		if err != nil {
			log.Warnf(ctx, "[Places] details for %s failed: %v", p.PlaceID, err)
			details = &PlaceDetails{PlaceID: p.PlaceID, Name: p.Name, FormattedAddress: p.FormattedAddress, Location: p.Location, Rating: p.Rating}
		}
		fmt.Fprintf(&b, "%d. %s", i+1, formatPlace(t.MapsHost, details, p.OpenNow, near))
	}
	return b.String(), nil
}

func formatPlace(host string, d *PlaceDetails, openNow *bool, near *geo.Coordinate) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\nAddress: %s\nGoogle place ID: %s\n", d.Name, d.FormattedAddress, d.PlaceID)
	if d.PhoneNumber != "" {
		fmt.Fprintf(&b, "Phone: %s\n", d.PhoneNumber)
	}
	if d.Website != "" {
		fmt.Fprintf(&b, "Website: %s\n", d.Website)
	}
	if d.Rating > 0 {
		fmt.Fprintf(&b, "Rating: %.1f\n", d.Rating)
	}
	if openNow != nil {
		if *openNow {
			b.WriteString("Open now\n")
		} else {
			b.WriteString("Closed now\n")
		}
	}
	if near != nil && d.Location.Valid() {
		fmt.Fprintf(&b, "Distance: %s away\n", geo.FormatDistance(int(near.DistanceMeters(d.Location))))
	}
	fmt.Fprintf(&b, "Map: %s\n\n", placeLink(host, d))
	return b.String()
}

// placeLink opens the place itself rather than directions to it
func placeLink(host string, d *PlaceDetails) string {
	if host == "" {
		host = routing.DefaultMapsHost
	}
	q := url.Values{}
	q.Set("api", "1")
	q.Set("query", d.Location.PathSegment())
	q.Set("query_place_id", d.PlaceID)
	return "https://" + host + "/maps/search/?" + q.Encode()
}
