package tools

import (
	"context"
	"fmt"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
)

// Tool is a capability offered to the model. Invoke always answers with
// text the model can relay to the user.
type Tool interface {
	// Name returns the unique name of the tool (e.g. "google_routes")
	Name() string

	// Description returns a description of what the tool does and its arguments
	Description() string

	// Invoke runs the tool with loosely typed arguments
	Invoke(ctx context.Context, args map[string]interface{}) (string, error)
}

// Registry holds the fixed set of tools wired at startup
type Registry struct {
	defs  []ai.Tool
	tools map[string]Tool
	order []string
}

// NewRegistry creates a new tool registry
func NewRegistry() *Registry {
	return &Registry{
		defs:  make([]ai.Tool, 0),
		tools: make(map[string]Tool),
	}
}

// Register adds a tool. def is the model-facing definition and may be nil
// when no genkit instance is configured.
func (r *Registry) Register(def ai.Tool, tool Tool) {
	if _, exists := r.tools[tool.Name()]; !exists {
		r.order = append(r.order, tool.Name())
	}
	r.tools[tool.Name()] = tool
	if def != nil {
		r.defs = append(r.defs, def)
	}
}

// GetTools returns the model-facing tool definitions
func (r *Registry) GetTools() []ai.ToolRef {
	refs := make([]ai.ToolRef, 0, len(r.defs))
	for _, def := range r.defs {
		refs = append(refs, def)
	}
	return refs
}

// Names lists registered tools in registration order
func (r *Registry) Names() []string {
	return append([]string(nil), r.order...)
}

// Get looks a tool up by name
func (r *Registry) Get(name string) (Tool, bool) {
	tool, ok := r.tools[name]
	return tool, ok
}

// ExecuteTool runs a registered tool by name
func (r *Registry) ExecuteTool(ctx context.Context, name string, args map[string]interface{}) (string, error) {
	tool, ok := r.tools[name]
	if !ok {
		return "", fmt.Errorf("tool not found: %s", name)
	}
	return tool.Invoke(ctx, args)
}

// Define registers tool with r and, when gk is set, defines it on genkit
// with a typed input so the model receives a proper JSON schema.
func Define[In any](gk *genkit.Genkit, r *Registry, tool Tool, run func(ctx context.Context, input In) (string, error)) {
	if r == nil {
		return
	}

	var def ai.Tool
	if gk != nil {
		def = genkit.DefineTool(gk, tool.Name(), tool.Description(),
			func(ctx *ai.ToolContext, input In) (string, error) {
				return run(ctx, input)
			},
		)
	}
	r.Register(def, tool)
}

// StringArg reads an optional string argument
func StringArg(args map[string]interface{}, key string) string {
	s, _ := args[key].(string)
	return s
}

// StringSliceArg reads an optional list of strings, accepting both []string
// and the []interface{} produced by JSON decoding.
func StringSliceArg(args map[string]interface{}, key string) []string {
	switch v := args[key].(type) {
	case []string:
		return v
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// IntArg reads an optional number argument decoded from JSON
func IntArg(args map[string]interface{}, key string) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return 0
}
