package core

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/va6996/routebot/tools"
)

func TestDateTool_Execute_Validation(t *testing.T) {
	registry := tools.NewRegistry()
	dt := NewDateTool(nil, registry, nil)
	dt.Now = func() time.Time {
		return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	}

	tests := []struct {
		name      string
		code      string
		expectErr bool
	}{
		{"Valid Date Object", "new Date('2026-01-02T00:00:00Z')", false},
		{"Valid ISO String", "'2026-01-02T00:00:00Z'", false},
		{"Plain Date String", "'2026-01-02'", false},
		{"Invalid Return Type (Number)", "12345", true},
		{"Null Return", "null", true},
		{"Undefined Return (no return)", "var x = 1;", true},
		{"Syntax Error", "new Date(", true},
		{"Empty", "", true},
		{
			"LLM Generated Code",
			"var d = new Date(now); d.setDate(d.getDate() + (12 - d.getDay()) % 7); if(d.getDay() !== 5 || d <= now) d.setDate(d.getDate() + 7); d",
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := dt.Execute(context.Background(), &DateInput{Expression: tt.code})
			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, res)
			}
		})
	}
}

func TestDateTool_InvokeInLocation(t *testing.T) {
	perth, err := time.LoadLocation("Australia/Perth")
	require.NoError(t, err)

	registry := tools.NewRegistry()
	client := NewClient(nil, registry, perth)
	client.DateTool.Now = func() time.Time {
		return time.Date(2026, 1, 1, 20, 0, 0, 0, time.UTC)
	}

	out, err := registry.ExecuteTool(context.Background(), "dateTool", map[string]interface{}{
		"expression": "new Date(now + 86400000)",
	})
	require.NoError(t, err)
	assert.Equal(t, "Saturday 2026-01-03 04:00 AWST (2026-01-03T04:00:00+08:00)", out)
}
