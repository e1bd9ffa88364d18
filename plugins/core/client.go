package core

import (
	"time"

	"github.com/firebase/genkit/go/genkit"
	"github.com/va6996/routebot/tools"
)

// Client manages the core set of tools
type Client struct {
	DateTool *DateTool
}

// NewClient initializes the core plugin and registers its tools
func NewClient(gk *genkit.Genkit, registry *tools.Registry, loc *time.Location) *Client {
	return &Client{
		DateTool: NewDateTool(gk, registry, loc),
	}
}
