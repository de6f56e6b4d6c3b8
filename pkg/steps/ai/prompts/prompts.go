// Package prompts holds the instruction and prompt templates handed to the
// adapters at construction.
package prompts

import (
	"bytes"
	"embed"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig"
	"github.com/go-go-golems/weatherchat/pkg/inference/toolcall"
	"github.com/go-go-golems/weatherchat/pkg/inference/tools"
	"github.com/go-go-golems/weatherchat/pkg/turns"
	"github.com/pkg/errors"
)

//go:embed templates/*
var templateFS embed.FS

var templates = template.Must(
	template.New("prompts").
		Funcs(sprig.TxtFuncMap()).
		ParseFS(templateFS, "templates/*.tmpl"),
)

// WeatherInstructions returns the system instructions for the weather assistant.
func WeatherInstructions() string {
	b, err := templateFS.ReadFile("templates/weather_instructions.md")
	if err != nil {
		// embedded at build time
		panic(err)
	}
	return string(b)
}

type promptBasedSystemData struct {
	Tools        []tools.ToolDefinition
	Example      string
	Instructions string
}

// RenderPromptBasedSystem renders the system prompt for models without native
// function calling. It describes each tool and the fenced JSON reply the model
// must produce to call one. example is rendered as a sample call when its name
// is set. instructions are appended verbatim.
func RenderPromptBasedSystem(defs []tools.ToolDefinition, example turns.ToolCall, instructions string) (string, error) {
	data := promptBasedSystemData{Tools: defs, Instructions: instructions}
	if example.Name != "" {
		s, err := toolcall.Render(example)
		if err != nil {
			return "", errors.Wrap(err, "could not render example tool call")
		}
		data.Example = s
	}
	return execute("prompt_based_system.tmpl", data)
}

// RenderToolResultSummary renders the user message that hands a tool result
// back to a model that has no tool role.
func RenderToolResultSummary(toolName string, result turns.ToolResult) (string, error) {
	if result == nil {
		result = turns.ToolResult{}
	}
	return execute("tool_result_summary.tmpl", map[string]any{
		"ToolName": toolName,
		"Result":   map[string]any(result),
	})
}

func execute(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", errors.Wrapf(err, "could not render %s", name)
	}
	return strings.TrimSpace(buf.String()), nil
}
