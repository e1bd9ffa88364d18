package tavily

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/va6996/routebot/tools"
)

func TestClient_Search(t *testing.T) {
	var got SearchRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "Bearer tvly-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		io.WriteString(w, `{"query":"perth zoo hours","answer":"Open 9am to 5pm daily.","results":[
			{"title":"Perth Zoo","url":"https://perthzoo.wa.gov.au","content":"  Open every day from 9am. ","score":0.9}
		],"request_id":"r1"}`)
	}))
	defer srv.Close()

	registry := tools.NewRegistry()
	NewClient("tvly-key", nil, registry, 5, 3, WithBaseURL(srv.URL))
	require.Equal(t, []string{"tavily_search"}, registry.Names())

	out, err := registry.ExecuteTool(context.Background(), "tavily_search", map[string]interface{}{"query": "perth zoo hours"})
	require.NoError(t, err)

	assert.Equal(t, "basic", got.SearchDepth)
	assert.Equal(t, 3, got.MaxResults)
	assert.Equal(t, "general", got.Topic)
	assert.Equal(t, "Answer: Open 9am to 5pm daily.\n\n1. Perth Zoo\nhttps://perthzoo.wa.gov.au\nOpen every day from 9am.", out)
}

func TestClient_SearchErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `{"detail":{"error":"Unauthorized: missing or invalid API key."}}`)
	}))
	defer srv.Close()

	c := NewClient("bad", nil, nil, 5, 0, WithBaseURL(srv.URL))

	_, err := c.Search(context.Background(), &SearchRequest{Query: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")

	_, err = c.Search(context.Background(), &SearchRequest{})
	assert.EqualError(t, err, "query is required")
}

func TestFormatResults(t *testing.T) {
	assert.Equal(t, "No search results found.", FormatResults(nil))
	assert.Equal(t, "No search results found.", FormatResults(&SearchResponse{}))
}
