package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-go-golems/weatherchat/pkg/turns"
	"github.com/invopop/jsonschema"
	"github.com/rs/zerolog/log"
)

// ToolDefinition describes a tool that can be offered to a model. It is an
// immutable configuration value handed to each adapter at construction.
type ToolDefinition struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Parameters  *jsonschema.Schema `json:"parameters"`
}

// NewToolDefinition reflects the JSON schema of input (a struct value) into
// the tool's parameters.
func NewToolDefinition(name, description string, input any) ToolDefinition {
	reflector := jsonschema.Reflector{
		// Expand definitions inline instead of using $refs
		DoNotReference:            true,
		AllowAdditionalProperties: true,
	}
	schema := reflector.Reflect(input)
	// providers reject the meta-schema keys
	schema.Version = ""
	schema.ID = ""
	if schema.Type == "" {
		schema.Type = "object"
	}
	return ToolDefinition{
		Name:        name,
		Description: description,
		Parameters:  schema,
	}
}

// WithName returns a copy of the definition registered under another name.
func (td ToolDefinition) WithName(name string) ToolDefinition {
	td.Name = name
	return td
}

// ParameterNames returns the top-level property names in declaration order.
func (td ToolDefinition) ParameterNames() []string {
	if td.Parameters == nil || td.Parameters.Properties == nil {
		return nil
	}
	var names []string
	for pair := td.Parameters.Properties.Oldest(); pair != nil; pair = pair.Next() {
		names = append(names, pair.Key)
	}
	return names
}

// ToolFunc executes a tool. Tool functions report failures through an
// error-shaped result rather than an error so the model can explain them.
type ToolFunc func(ctx context.Context, args map[string]any) turns.ToolResult

// NewTypedToolFunc decodes the call arguments into In before invoking fn.
func NewTypedToolFunc[In any](fn func(ctx context.Context, in In) turns.ToolResult) ToolFunc {
	return func(ctx context.Context, args map[string]any) turns.ToolResult {
		var in In
		b, err := json.Marshal(args)
		if err == nil {
			err = json.Unmarshal(b, &in)
		}
		if err != nil {
			log.Debug().Err(err).Interface("args", args).Msg("could not decode tool arguments")
			return turns.ErrorResult(fmt.Sprintf("invalid tool arguments: %v", err))
		}
		return fn(ctx, in)
	}
}
