package googlemaps

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/va6996/routebot/log"
	"github.com/va6996/routebot/routing"
	"golang.org/x/time/rate"
)

// RoutesURL is the Routes API v2 computeRoutes endpoint
const RoutesURL = "https://routes.googleapis.com/directions/v2:computeRoutes"

// RoutesClient calls the Routes API. It is safe for concurrent use.
type RoutesClient struct {
	apiKey     string
	url        string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewRoutesClient creates a Routes API client. rateLimit is requests per
// second; zero disables limiting.
func NewRoutesClient(apiKey, url string, timeout time.Duration, rateLimit int) (*RoutesClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if url == "" {
		url = RoutesURL
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if rateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(rateLimit), rateLimit)
	}

	return &RoutesClient{
		apiKey:     apiKey,
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    limiter,
	}, nil
}

// ComputeRoutes posts req once. An error payload from the service is
// returned in the response, not as an error.
func (c *RoutesClient) ComputeRoutes(ctx context.Context, req *routing.RoutesRequest) (*routing.RoutesResponse, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Goog-Api-Key", c.apiKey)
	httpReq.Header.Set("X-Goog-FieldMask", routing.FieldMask)

	log.Debugf(ctx, "[Routes] computeRoutes: mode=%s intermediates=%d", req.TravelMode, len(req.Intermediates))

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var out routing.RoutesResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to decode response (status %s): %w", resp.Status, err)
	}

	log.Debugf(ctx, "[Routes] computeRoutes returned %s with %d routes", resp.Status, len(out.Routes))
	return &out, nil
}
