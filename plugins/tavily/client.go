package tavily

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/firebase/genkit/go/genkit"
	"github.com/va6996/routebot/log"
	"github.com/va6996/routebot/tools"
)

const (
	BaseURL = "https://api.tavily.com"

	defaultMaxResults = 5
)

// Client is the Tavily API client
type Client struct {
	apiKey     string
	baseURL    string
	maxResults int
	httpClient *http.Client
}

// Option tweaks a Client
type Option func(*Client)

// WithBaseURL points the client at another Tavily-compatible host
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = url }
}

// NewClient creates a new Tavily client and registers tavily_search.
// maxResults applies when a request leaves it unset.
func NewClient(apiKey string, gk *genkit.Genkit, registry *tools.Registry, timeout, maxResults int, opts ...Option) *Client {
	if apiKey == "" {
		log.Warn(context.Background(), "Tavily API key is empty, web search will not work")
	}
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	client := &Client{
		apiKey:     apiKey,
		baseURL:    BaseURL,
		maxResults: maxResults,
		httpClient: &http.Client{
			Timeout: time.Duration(timeout) * time.Second,
		},
	}
	for _, opt := range opts {
		opt(client)
	}

	NewSearchTool(client, gk, registry)
	return client
}

// SearchRequest represents a Tavily search request
type SearchRequest struct {
	Query         string `json:"query" description:"The search query to execute"`
	SearchDepth   string `json:"search_depth,omitempty" description:"Search depth: basic or advanced (default: basic)"`
	MaxResults    int    `json:"max_results,omitempty" description:"Maximum number of results (1-20, default: 5)"`
	Topic         string `json:"topic,omitempty" description:"Search category: general or news (default: general)"`
	TimeRange     string `json:"time_range,omitempty" description:"Time range: day, week, month, or year"`
	IncludeAnswer bool   `json:"include_answer,omitempty" description:"Include a short generated answer"`
}

// SearchResult represents a single search result
type SearchResult struct {
	Title   string  `json:"title"`
	URL     string  `json:"url"`
	Content string  `json:"content"`
	Score   float64 `json:"score"`
}

// SearchResponse represents the Tavily search response
type SearchResponse struct {
	Query     string         `json:"query"`
	Answer    string         `json:"answer,omitempty"`
	Results   []SearchResult `json:"results"`
	RequestID string         `json:"request_id"`
}

// Search performs a Tavily search
func (c *Client) Search(ctx context.Context, req *SearchRequest) (*SearchResponse, error) {
	if req == nil || req.Query == "" {
		return nil, fmt.Errorf("query is required")
	}

	body := *req
	if body.SearchDepth == "" {
		body.SearchDepth = "basic"
	}
	if body.MaxResults == 0 {
		body.MaxResults = c.maxResults
	}
	if body.Topic == "" {
		body.Topic = "general"
	}

	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/search", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	log.Debugf(ctx, "[Tavily] Sending search request: query=%s, depth=%s, max_results=%d", body.Query, body.SearchDepth, body.MaxResults)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("API returned status %s: %s", resp.Status, bytes.TrimSpace(msg))
	}

	var searchResp SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	log.Debugf(ctx, "[Tavily] Search completed: %d results", len(searchResp.Results))
	return &searchResp, nil
}
