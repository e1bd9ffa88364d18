package tavily

import (
	"context"
	"fmt"
	"strings"

	"github.com/firebase/genkit/go/genkit"
	"github.com/va6996/routebot/log"
	"github.com/va6996/routebot/tools"
)

// SearchTool implements the Tavily search tool
type SearchTool struct {
	client *Client
}

// NewSearchTool creates the tool and registers it
func NewSearchTool(client *Client, gk *genkit.Genkit, registry *tools.Registry) *SearchTool {
	t := &SearchTool{client: client}
	tools.Define(gk, registry, t, func(ctx context.Context, input *SearchRequest) (string, error) {
		if input == nil {
			return "", fmt.Errorf("query is required")
		}
		return t.Execute(ctx, input)
	})
	return t
}

func (t *SearchTool) Name() string {
	return "tavily_search"
}

func (t *SearchTool) Description() string {
	return "Searches the web for current information using Tavily. Useful for opening hours, events, news, prices or anything recent. " +
		"Arguments: query (string, required), search_depth (basic/advanced, optional), max_results (int 1-20, optional), " +
		"topic (general/news, optional), time_range (day/week/month/year, optional)."
}

func (t *SearchTool) Invoke(ctx context.Context, args map[string]interface{}) (string, error) {
	req := &SearchRequest{
		Query:       tools.StringArg(args, "query"),
		SearchDepth: tools.StringArg(args, "search_depth"),
		MaxResults:  tools.IntArg(args, "max_results"),
		Topic:       tools.StringArg(args, "topic"),
		TimeRange:   tools.StringArg(args, "time_range"),
	}
	if answer, ok := args["include_answer"].(bool); ok {
		req.IncludeAnswer = answer
	}
	return t.Execute(ctx, req)
}

// Execute searches and renders the results as text for the model
func (t *SearchTool) Execute(ctx context.Context, input *SearchRequest) (string, error) {
	if t.client == nil {
		return "", fmt.Errorf("tavily client not initialized")
	}

	resp, err := t.client.Search(ctx, input)
	if err != nil {
		log.Errorf(ctx, "[Tavily] SearchTool failed: %v", err)
		return "", err
	}
	return FormatResults(resp), nil
}

// FormatResults renders a response as a numbered list
func FormatResults(resp *SearchResponse) string {
	if resp == nil || (len(resp.Results) == 0 && resp.Answer == "") {
		return "No search results found."
	}

	var b strings.Builder
	if resp.Answer != "" {
		fmt.Fprintf(&b, "Answer: %s\n\n", resp.Answer)
	}
	for i, r := range resp.Results {
		fmt.Fprintf(&b, "%d. %s\n%s\n%s\n\n", i+1, r.Title, r.URL, strings.TrimSpace(r.Content))
	}
	return strings.TrimRight(b.String(), "\n")
}
