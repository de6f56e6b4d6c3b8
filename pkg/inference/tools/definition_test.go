package tools

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/go-go-golems/weatherchat/pkg/turns"
	"github.com/stretchr/testify/require"
)

type testInput struct {
	Location string `json:"location" jsonschema_description:"The city name, e.g. New York"`
	Units    string `json:"units,omitempty"`
}

func TestNewToolDefinition_ReflectsParameters(t *testing.T) {
	def := NewToolDefinition("get_current_weather", "Get the current weather", testInput{})
	require.Equal(t, "get_current_weather", def.Name)
	require.NotNil(t, def.Parameters)
	require.Equal(t, "object", def.Parameters.Type)
	require.Equal(t, []string{"location", "units"}, def.ParameterNames())
	require.Equal(t, []string{"location"}, def.Parameters.Required)

	b, err := json.Marshal(def.Parameters)
	require.NoError(t, err)
	require.NotContains(t, string(b), "$schema")
	require.Contains(t, string(b), "The city name, e.g. New York")
}

func TestTypedToolFunc_DecodesArguments(t *testing.T) {
	fn := NewTypedToolFunc(func(ctx context.Context, in testInput) turns.ToolResult {
		return turns.ToolResult{"location": in.Location}
	})
	res := fn(context.Background(), map[string]any{"location": "Paris"})
	require.Equal(t, "Paris", res["location"])
}

func TestTypedToolFunc_BadArgumentsBecomeErrorResult(t *testing.T) {
	fn := NewTypedToolFunc(func(ctx context.Context, in testInput) turns.ToolResult {
		t.Fatalf("should not be called")
		return nil
	})
	res := fn(context.Background(), map[string]any{"location": 42})
	reason, ok := res.Error()
	if !ok {
		t.Fatalf("expected error result, got %v", res)
	}
	require.Contains(t, reason, "invalid tool arguments")
}
