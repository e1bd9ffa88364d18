package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	"github.com/firebase/genkit/go/plugins/googlegenai"
	"github.com/firebase/genkit/go/plugins/ollama"
	"github.com/openai/openai-go"
	"github.com/va6996/routebot/agents"
	"github.com/va6996/routebot/bootstrap/together"
	"github.com/va6996/routebot/bot"
	"github.com/va6996/routebot/config"
	"github.com/va6996/routebot/log"
	"github.com/va6996/routebot/plugins/core"
	"github.com/va6996/routebot/plugins/googlemaps"
	"github.com/va6996/routebot/plugins/nager"
	"github.com/va6996/routebot/plugins/tavily"
	"github.com/va6996/routebot/routing"
	"github.com/va6996/routebot/server"
	"github.com/va6996/routebot/session"
	"github.com/va6996/routebot/tools"
)

// App holds the initialized components of the application
type App struct {
	Genkit    *genkit.Genkit
	Model     ai.Model
	Registry  *tools.Registry
	Maps      *googlemaps.Client
	Planner   *routing.Planner
	Store     session.Store
	Assistant *agents.Assistant
	Location  *time.Location
}

// Setup initializes the application components based on the configuration
func Setup(ctx context.Context, cfg *config.Config) (*App, error) {
	loc, err := time.LoadLocation(cfg.Telegram.Timezone)
	if err != nil {
		log.Warnf(ctx, "Unknown timezone %q, using UTC: %v", cfg.Telegram.Timezone, err)
		loc = time.UTC
	}

	// 1. Setup Genkit with AI Plugin
	gk, model, genConfig, err := setupModel(ctx, cfg.AI)
	if err != nil {
		return nil, err
	}

	// 2. Init Tools Registry
	registry := tools.NewRegistry()

	mapsClient, err := googlemaps.NewClient(cfg.Google.APIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Google Maps client: %w", err)
	}
	routesClient, err := googlemaps.NewRoutesClient(
		cfg.Google.APIKey,
		cfg.Google.RoutesURL,
		time.Duration(cfg.Google.Timeout)*time.Second,
		cfg.Google.RateLimit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Routes client: %w", err)
	}

	var geocoder routing.Geocoder = mapsClient
	if cfg.Google.GeocodeCacheTTL > 0 {
		geocoder = googlemaps.NewCachedGeocoder(mapsClient, time.Duration(cfg.Google.GeocodeCacheTTL)*time.Minute)
	}
	planner := routing.NewPlanner(geocoder, routesClient,
		routing.WithMapsHost(cfg.Google.MapsHost),
		routing.WithLegLabels(routing.ParseLegLabelMode(cfg.Google.LegLabels)),
	)
	routing.NewRouteTool(planner, gk, registry)

	places := googlemaps.NewPlacesTool(mapsClient, gk, registry)
	places.MapsHost = cfg.Google.MapsHost

	// Web search
	tavily.NewClient(cfg.Tavily.APIKey, gk, registry, cfg.Tavily.Timeout, cfg.Tavily.MaxResults)

	// Core Tools
	core.NewClient(gk, registry, loc)

	// Nager Holiday API
	nager.NewClient(gk, registry, loc)

	log.Infof(ctx, "Registered tools: %v", registry.Names())

	// 3. Session store and assistant
	store, err := session.New(cfg.Session)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize session store: %w", err)
	}

	gen := agents.NewGenkitGenerator(gk, model, registry, cfg.AI.MaxTurns, genConfig)
	assistant := agents.NewAssistant(gen, store, cfg.AI.HistoryLimit)

	return &App{
		Genkit:    gk,
		Model:     model,
		Registry:  registry,
		Maps:      mapsClient,
		Planner:   planner,
		Store:     store,
		Assistant: assistant,
		Location:  loc,
	}, nil
}

// setupModel initializes genkit with the configured plugin. The returned
// config is passed to every generate call and may be nil.
func setupModel(ctx context.Context, cfg config.AIConfig) (*genkit.Genkit, ai.Model, any, error) {
	switch cfg.Plugin {
	case "ollama":
		log.Infof(ctx, "Using Ollama Plugin (Model: %s)...", cfg.Ollama.Model)
		ollamaPlugin := &ollama.Ollama{
			ServerAddress: cfg.Ollama.BaseURL,
		}
		gk := genkit.Init(ctx, genkit.WithPlugins(ollamaPlugin))

		// Define the model with capabilities - explicitly enable tool support
		model := ollamaPlugin.DefineModel(gk, ollama.ModelDefinition{
			Name: cfg.Ollama.Model,
			Type: "chat",
		}, &ai.ModelOptions{
			Supports: &ai.ModelSupports{
				Multiturn:  true,
				SystemRole: true,
				Tools:      true,
				Media:      false,
			},
		})
		return gk, model, nil, nil

	case "gemini":
		log.Infof(ctx, "Using Gemini Plugin (Model: %s)...", cfg.Gemini.Model)
		if cfg.Gemini.APIKey == "" {
			return nil, nil, nil, fmt.Errorf("GEMINI_API_KEY must be set (or set AI_PLUGIN=together)")
		}
		gk := genkit.Init(ctx, genkit.WithPlugins(&googlegenai.GoogleAI{
			APIKey: cfg.Gemini.APIKey,
		}))
		return gk, googlegenai.GoogleAIModel(gk, cfg.Gemini.Model), nil, nil

	case "together", "":
		log.Infof(ctx, "Using Together Plugin (Model: %s)...", cfg.Together.Model)
		if cfg.Together.APIKey == "" {
			return nil, nil, nil, fmt.Errorf("TOGETHER_API_KEY must be set (or set AI_PLUGIN=ollama)")
		}
		plugin := &together.Together{
			APIKey:  cfg.Together.APIKey,
			BaseURL: cfg.Together.BaseURL,
			Models:  []string{cfg.Together.Model},
		}
		gk := genkit.Init(ctx, genkit.WithPlugins(plugin))
		modelName := cfg.Together.Model
		if modelName == "" {
			modelName = together.DefaultModel
		}
		genConfig := &openai.ChatCompletionNewParams{
			Temperature: openai.Float(cfg.Temperature),
		}
		return gk, plugin.Model(gk, modelName), genConfig, nil

	default:
		return nil, nil, nil, fmt.Errorf("unknown AI plugin %q", cfg.Plugin)
	}
}

// NewBotHandler builds the Telegram handler around sender
func (a *App) NewBotHandler(sender bot.Sender) *bot.Handler {
	return bot.NewHandler(sender, a.Assistant, a.Store, a.Maps, a.Location)
}

// NewServer builds the HTTP API
func (a *App) NewServer() *server.Server {
	return server.New(a.Planner, a.Assistant, a.Store)
}
