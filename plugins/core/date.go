package core

import (
	"context"
	"fmt"
	"time"

	"github.com/dop251/goja"
	"github.com/firebase/genkit/go/genkit"
	"github.com/va6996/routebot/log"
	"github.com/va6996/routebot/tools"
)

// DateInput defines the input for the date tool
type DateInput struct {
	Expression string `json:"expression" description:"JavaScript expression to calculate a date. Variable 'now' is available as current timestamp in milliseconds."`
}

// DateTool evaluates date arithmetic written as JavaScript
type DateTool struct {
	Now      func() time.Time
	Location *time.Location
}

// NewDateTool creates a new DateTool and registers it. Results are shown in
// loc, or UTC when loc is nil.
func NewDateTool(gk *genkit.Genkit, registry *tools.Registry, loc *time.Location) *DateTool {
	if loc == nil {
		loc = time.UTC
	}
	t := &DateTool{
		Now:      time.Now,
		Location: loc,
	}

	tools.Define(gk, registry, t, func(ctx context.Context, input *DateInput) (string, error) {
		res, err := t.Execute(ctx, input)
		if err != nil {
			return "", err
		}
		return t.format(res), nil
	})
	return t
}

func (t *DateTool) Name() string {
	return "dateTool"
}

func (t *DateTool) Description() string {
	return `Executes JavaScript expression to calculate dates. Variable 'now' is available holding the current timestamp (milliseconds).
Return a Date object or ISO string. The last expression is the return value.
Examples:
- Next Friday: "var d = new Date(now); d.setDate(d.getDate() + (12 - d.getDay()) % 7); if(d.getDay() !== 5 || d <= now) d.setDate(d.getDate() + 7); d"
- Tomorrow: "new Date(now + 86400000)"`
}

func (t *DateTool) Invoke(ctx context.Context, args map[string]interface{}) (string, error) {
	res, err := t.Execute(ctx, &DateInput{Expression: tools.StringArg(args, "expression")})
	if err != nil {
		return "", err
	}
	return t.format(res), nil
}

// format renders a result in the tool's location, e.g. "Friday 2026-01-02 08:00 AWST".
func (t *DateTool) format(ts *time.Time) string {
	local := ts.In(t.Location)
	return fmt.Sprintf("%s %s (%s)", local.Weekday(), local.Format("2006-01-02 15:04 MST"), local.Format(time.RFC3339))
}

// Execute runs the expression and returns the date it evaluates to
func (t *DateTool) Execute(ctx context.Context, input *DateInput) (*time.Time, error) {
	if input == nil || input.Expression == "" {
		return nil, fmt.Errorf("expression is required")
	}
	log.Debugf(ctx, "[DateTool] Executing expression: %s", input.Expression)

	vm := goja.New()
	if err := vm.Set("now", t.Now().UnixMilli()); err != nil {
		return nil, fmt.Errorf("failed to set 'now': %w", err)
	}

	val, err := vm.RunString(input.Expression)
	if err != nil {
		log.Debugf(ctx, "[DateTool] RunString error: %v", err)
		return nil, fmt.Errorf("js execution failed: %w", err)
	}

	exported := val.Export()
	if exported == nil {
		return nil, fmt.Errorf("result is null or undefined")
	}

	// goja exports JS Date values as time.Time
	if dateObj, ok := exported.(time.Time); ok {
		return &dateObj, nil
	}
	if str, ok := exported.(string); ok {
		for _, layout := range []string{time.RFC3339, "2006-01-02"} {
			if parsed, err := time.ParseInLocation(layout, str, t.Location); err == nil {
				return &parsed, nil
			}
		}
	}

	return nil, fmt.Errorf("result is not a valid Date object or ISO string")
}
