package weather

import (
	"context"

	"github.com/go-go-golems/weatherchat/pkg/inference/tools"
	"github.com/go-go-golems/weatherchat/pkg/turns"
)

const (
	ToolName = "get_current_weather"
	// ToolAlias is the name older prompts use for the same tool.
	ToolAlias = "get_current_temperature"
)

type Request struct {
	Location string `json:"location" jsonschema_description:"The city name, e.g. New York"`
}

func ToolDefinition() tools.ToolDefinition {
	return tools.NewToolDefinition(ToolName, "Get the current weather in a given location", Request{})
}

// ExampleCall is a sample invocation shown to models without native tool calling.
func ExampleCall() turns.ToolCall {
	return turns.ToolCall{Name: ToolName, Arguments: map[string]any{"location": "Paris"}}
}

// Register adds the weather tool and its alias to reg.
func Register(reg *tools.Registry, r *Resolver) error {
	fn := tools.NewTypedToolFunc(func(ctx context.Context, req Request) turns.ToolResult {
		return r.Resolve(ctx, req.Location)
	})
	if err := reg.Register(ToolDefinition(), fn); err != nil {
		return err
	}
	return reg.Alias(ToolAlias, ToolName)
}
