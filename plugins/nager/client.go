// Package nager looks up public holidays through the Nager.Date API so the
// assistant can warn about closures and traffic on travel days.
package nager

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/firebase/genkit/go/genkit"
	"github.com/va6996/routebot/tools"
)

const BaseURL = "https://date.nager.at/api/v3"

// Client handles Nager.Date API requests
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates a Nager.Date client and registers the holidays tool.
// gk and registry may be nil to use the client on its own.
func NewClient(gk *genkit.Genkit, registry *tools.Registry, loc *time.Location) *Client {
	c := &Client{
		BaseURL:    BaseURL,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
	NewHolidaysTool(c, gk, registry, loc)
	return c
}

// Holiday is a public holiday as returned by the API
type Holiday struct {
	Date        string   `json:"date"`
	LocalName   string   `json:"localName"`
	Name        string   `json:"name"`
	CountryCode string   `json:"countryCode"`
	Global      bool     `json:"global"`
	Counties    []string `json:"counties"`
}

// LongWeekend is a run of days off including a weekend
type LongWeekend struct {
	StartDate     string `json:"startDate"`
	EndDate       string `json:"endDate"`
	DayCount      int    `json:"dayCount"`
	NeedBridgeDay bool   `json:"needBridgeDay"`
}

// GetPublicHolidays returns public holidays for a country and year
func (c *Client) GetPublicHolidays(ctx context.Context, year int, countryCode string) ([]Holiday, error) {
	var holidays []Holiday
	if err := c.get(ctx, fmt.Sprintf("%s/PublicHolidays/%d/%s", c.BaseURL, year, countryCode), &holidays); err != nil {
		return nil, fmt.Errorf("failed to get public holidays: %w", err)
	}
	return holidays, nil
}

// GetLongWeekends returns long weekends for a country and year
func (c *Client) GetLongWeekends(ctx context.Context, year int, countryCode string) ([]LongWeekend, error) {
	var weekends []LongWeekend
	if err := c.get(ctx, fmt.Sprintf("%s/LongWeekend/%d/%s", c.BaseURL, year, countryCode), &weekends); err != nil {
		return nil, fmt.Errorf("failed to get long weekends: %w", err)
	}
	return weekends, nil
}

func (c *Client) get(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("API request failed with status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
