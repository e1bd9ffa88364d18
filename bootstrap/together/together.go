// Package together is a genkit plugin for Together AI's OpenAI-compatible
// chat API.
package together

import (
	"context"
	"os"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/core/api"
	"github.com/firebase/genkit/go/genkit"
	"github.com/firebase/genkit/go/plugins/compat_oai"
	"github.com/openai/openai-go/option"
)

const (
	provider = "together"

	DefaultBaseURL = "https://api.together.xyz/v1"
	DefaultModel   = "meta-llama/Llama-3.3-70B-Instruct-Turbo-Free"
)

// ChatModel is what the assistant needs from a Together model: multi-turn
// chat with a system prompt and tool calls
var ChatModel = ai.ModelSupports{
	Multiturn:  true,
	SystemRole: true,
	Tools:      true,
}

// Together is a plugin exposing Together AI chat models.
type Together struct {
	// APIKey is the Together API key. If empty, TOGETHER_API_KEY is consulted.
	APIKey string
	// BaseURL defaults to DefaultBaseURL. Any OpenAI-compatible endpoint works.
	BaseURL string
	// Models lists extra chat model ids to define next to DefaultModel
	Models []string

	openAICompatible *compat_oai.OpenAICompatible
}

// Name implements genkit.Plugin.
func (t *Together) Name() string {
	return provider
}

// Init implements genkit.Plugin.
func (t *Together) Init(ctx context.Context) []api.Action {
	apiKey := t.APIKey
	baseURL := t.BaseURL

	if apiKey == "" {
		apiKey = os.Getenv("TOGETHER_API_KEY")
	}
	if apiKey == "" {
		panic("together plugin initialization failed: apiKey is required (set TOGETHER_API_KEY or pass APIKey)")
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	if t.openAICompatible == nil {
		t.openAICompatible = &compat_oai.OpenAICompatible{}
	}
	t.openAICompatible.Opts = []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithBaseURL(baseURL),
	}
	t.openAICompatible.Provider = provider

	var actions []api.Action
	actions = append(actions, t.openAICompatible.Init(ctx)...)
	actions = append(actions, t.DefineModel(DefaultModel, ai.ModelOptions{
		Label:    "Together Llama 3.3 70B Instruct Turbo",
		Supports: &ChatModel,
		Versions: []string{DefaultModel},
	}).(api.Action))
	for _, id := range t.Models {
		if id == "" || id == DefaultModel {
			continue
		}
		actions = append(actions, t.DefineModel(id, ai.ModelOptions{
			Label:    "Together " + id,
			Supports: &ChatModel,
		}).(api.Action))
	}

	return actions
}

// Model returns a model by name.
func (t *Together) Model(g *genkit.Genkit, name string) ai.Model {
	return t.openAICompatible.Model(g, api.NewName(provider, name))
}

// DefineModel defines a model with the given ID and options.
func (t *Together) DefineModel(id string, opts ai.ModelOptions) ai.Model {
	return t.openAICompatible.DefineModel(provider, id, opts)
}

// ListActions returns a list of actions provided by this plugin.
func (t *Together) ListActions(ctx context.Context) []api.ActionDesc {
	return t.openAICompatible.ListActions(ctx)
}

// ResolveAction resolves an action by type and name.
func (t *Together) ResolveAction(atype api.ActionType, name string) api.Action {
	return t.openAICompatible.ResolveAction(atype, name)
}
