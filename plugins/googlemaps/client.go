package googlemaps

import (
	"context"
	"fmt"

	"github.com/va6996/routebot/geo"
	"github.com/va6996/routebot/log"
	"googlemaps.github.io/maps"
)

// Client handles Google Maps geocoding and places requests
type Client struct {
	APIKey     string
	MapsClient *maps.Client
}

// NewClient creates a new Google Maps API client
// Returns an error if the client cannot be initialized
func NewClient(apiKey string, opts ...maps.ClientOption) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	opts = append([]maps.ClientOption{maps.WithAPIKey(apiKey)}, opts...)
	c, err := maps.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}

	return &Client{
		APIKey:     apiKey,
		MapsClient: c,
	}, nil
}

// Geocode resolves a free-text place to the first candidate's coordinate.
// No match and transport failures both report false; the cause is logged.
func (c *Client) Geocode(ctx context.Context, place string) (geo.Coordinate, bool) {
	if c.MapsClient == nil {
		log.Errorf(ctx, "Geocoding error for %q: maps client not initialized", place)
		return geo.Coordinate{}, false
	}

	results, err := c.MapsClient.Geocode(ctx, &maps.GeocodingRequest{Address: place})
	if err != nil {
		log.Warnf(ctx, "Geocoding error for %q: %v", place, err)
		return geo.Coordinate{}, false
	}
	if len(results) == 0 {
		log.Debugf(ctx, "Geocoding found no match for %q", place)
		return geo.Coordinate{}, false
	}

	loc := results[0].Geometry.Location
	return geo.Coordinate{Latitude: loc.Lat, Longitude: loc.Lng}, true
}

// ReverseGeocode returns the formatted address of the coordinate, or the
// coordinate itself as "(lat, lng)" when the service has nothing.
func (c *Client) ReverseGeocode(ctx context.Context, coord geo.Coordinate) string {
	if c.MapsClient == nil {
		return coord.Label()
	}

	results, err := c.MapsClient.ReverseGeocode(ctx, &maps.GeocodingRequest{
		LatLng: &maps.LatLng{Lat: coord.Latitude, Lng: coord.Longitude},
	})
	if err != nil {
		log.Warnf(ctx, "Reverse geocoding error for %s: %v", coord.Label(), err)
		return coord.Label()
	}
	if len(results) == 0 || results[0].FormattedAddress == "" {
		return coord.Label()
	}
	return results[0].FormattedAddress
}

// Place is a single places search hit
type Place struct {
	PlaceID          string
	Name             string
	FormattedAddress string
	Location         geo.Coordinate
	Rating           float32
	OpenNow          *bool
}

// SearchPlaces runs a text search, biased towards near when given.
func (c *Client) SearchPlaces(ctx context.Context, query string, near *geo.Coordinate, radius uint) ([]Place, error) {
	if c.MapsClient == nil {
		return nil, fmt.Errorf("maps client not initialized")
	}

	req := &maps.TextSearchRequest{Query: query}
	if near != nil {
		req.Location = &maps.LatLng{Lat: near.Latitude, Lng: near.Longitude}
		if radius > 0 {
			req.Radius = radius
		}
	}

	resp, err := c.MapsClient.TextSearch(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("text search request failed: %w", err)
	}

	places := make([]Place, len(resp.Results))
	for i, r := range resp.Results {
		places[i] = Place{
			PlaceID:          r.PlaceID,
			Name:             r.Name,
			FormattedAddress: r.FormattedAddress,
			Location:         geo.Coordinate{Latitude: r.Geometry.Location.Lat, Longitude: r.Geometry.Location.Lng},
			Rating:           r.Rating,
		}
		if r.OpeningHours != nil {
			places[i].OpenNow = r.OpeningHours.OpenNow
		}
	}
	return places, nil
}

// PlaceDetails contains detailed information about a place
type PlaceDetails struct {
	PlaceID          string
	Name             string
	FormattedAddress string
	PhoneNumber      string
	Website          string
	Location         geo.Coordinate
	Rating           float32
}

// GetPlaceDetails retrieves detailed information about a place
func (c *Client) GetPlaceDetails(ctx context.Context, placeID string) (*PlaceDetails, error) {
	if c.MapsClient == nil {
		return nil, fmt.Errorf("maps client not initialized")
	}

	req := &maps.PlaceDetailsRequest{
		PlaceID: placeID,
		Fields: []maps.PlaceDetailsFieldMask{
			maps.PlaceDetailsFieldMaskPlaceID,
			maps.PlaceDetailsFieldMaskName,
			maps.PlaceDetailsFieldMaskFormattedAddress,
			maps.PlaceDetailsFieldMaskGeometry,
			maps.PlaceDetailsFieldMaskRatings,
			maps.PlaceDetailsFieldMaskInternationalPhoneNumber,
			maps.PlaceDetailsFieldMaskWebsite,
		},
	}

	result, err := c.MapsClient.PlaceDetails(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("place details request failed: %w", err)
	}

	return &PlaceDetails{
		PlaceID:          result.PlaceID,
		Name:             result.Name,
		FormattedAddress: result.FormattedAddress,
		PhoneNumber:      result.InternationalPhoneNumber,
		Website:          result.Website,
		Location:         geo.Coordinate{Latitude: result.Geometry.Location.Lat, Longitude: result.Geometry.Location.Lng},
		Rating:           result.Rating,
	}, nil
}
