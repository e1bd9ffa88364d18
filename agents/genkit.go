package agents

import (
	"context"
	"fmt"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	"github.com/va6996/routebot/log"
	"github.com/va6996/routebot/tools"
)

// DefaultMaxTurns caps tool-call round trips per question
const DefaultMaxTurns = 10

// GenkitGenerator runs the question through a genkit model with the
// registry's tools
type GenkitGenerator struct {
	genkit   *genkit.Genkit
	model    ai.Model
	registry *tools.Registry
	maxTurns int
	// config is passed as-is to the model plugin, nil for plugin defaults
	config any
}

func NewGenkitGenerator(gk *genkit.Genkit, model ai.Model, registry *tools.Registry, maxTurns int, config any) *GenkitGenerator {
	if maxTurns <= 0 {
		maxTurns = DefaultMaxTurns
	}
	return &GenkitGenerator{
		genkit:   gk,
		model:    model,
		registry: registry,
		maxTurns: maxTurns,
		config:   config,
	}
}

func (g *GenkitGenerator) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	messages := make([]*ai.Message, 0, len(req.History)+1)
	for _, turn := range req.History {
		role := ai.RoleUser
		if turn.Role == RoleModel {
			role = ai.RoleModel
		}
		messages = append(messages, ai.NewTextMessage(role, turn.Text))
	}
	messages = append(messages, ai.NewUserTextMessage(req.Prompt))

	opts := []ai.GenerateOption{
		ai.WithModel(g.model),
		ai.WithSystem(req.System),
		ai.WithMessages(messages...),
		ai.WithMaxTurns(g.maxTurns),
	}
	if g.registry != nil {
		if refs := g.registry.GetTools(); len(refs) > 0 {
			opts = append(opts, ai.WithTools(refs...))
		}
	}
	if g.config != nil {
		opts = append(opts, ai.WithConfig(g.config))
	}

	log.Debugf(ctx, "Calling genkit.Generate with %d messages", len(messages))
	resp, err := genkit.Generate(ctx, g.genkit, opts...)
	if err != nil {
		return "", fmt.Errorf("generate failed: %w", err)
	}
	return resp.Text(), nil
}
