package openai

import (
	"testing"

	"github.com/go-go-golems/weatherchat/pkg/inference/engine"
	"github.com/go-go-golems/weatherchat/pkg/inference/tools"
	"github.com/go-go-golems/weatherchat/pkg/turns"
	go_openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/require"
)

type weatherArgs struct {
	Location string `json:"location" jsonschema_description:"The city name, e.g. New York"`
}

func testConfig() engine.Config {
	return engine.Config{
		Model:        "gemini-2.0-flash-lite",
		Instructions: "be brief",
		Tools: []tools.ToolDefinition{
			tools.NewToolDefinition("get_current_temperature", "Gets the current temperature for a given location.", weatherArgs{}),
		},
	}
}

func TestMakeCompletionRequest_ToolRoundTrip(t *testing.T) {
	call := turns.ToolCall{Name: "get_current_temperature", Arguments: map[string]any{"location": "Rome"}, ID: "call_1"}
	transcript := []turns.Turn{
		turns.NewUserTurn("temperature in the Eternal City?"),
		turns.NewToolCallTurn(call),
		turns.NewToolResultTurn(call, turns.ToolResult{"temperature": 25.5}),
	}

	req, err := MakeCompletionRequest(testConfig(), transcript)
	require.NoError(t, err)
	require.Equal(t, "auto", req.ToolChoice)
	require.Len(t, req.Tools, 1)
	require.Equal(t, "get_current_temperature", req.Tools[0].Function.Name)

	require.Len(t, req.Messages, 4)
	require.Equal(t, go_openai.ChatMessageRoleSystem, req.Messages[0].Role)
	require.Equal(t, "be brief", req.Messages[0].Content)
	require.Equal(t, go_openai.ChatMessageRoleUser, req.Messages[1].Role)

	assistant := req.Messages[2]
	require.Equal(t, go_openai.ChatMessageRoleAssistant, assistant.Role)
	require.Len(t, assistant.ToolCalls, 1)
	require.Equal(t, "call_1", assistant.ToolCalls[0].ID)
	require.JSONEq(t, `{"location":"Rome"}`, assistant.ToolCalls[0].Function.Arguments)

	tool := req.Messages[3]
	require.Equal(t, go_openai.ChatMessageRoleTool, tool.Role)
	require.Equal(t, "call_1", tool.ToolCallID)
	require.JSONEq(t, `{"temperature":25.5}`, tool.Content)
}

func TestMakeCompletionRequest_DropsOrphanedToolResult(t *testing.T) {
	call := turns.ToolCall{Name: "get_current_temperature", ID: "call_1"}
	transcript := []turns.Turn{
		turns.NewToolResultTurn(call, turns.ToolResult{"temperature": 1}),
		turns.NewAssistantTextTurn("It is cold."),
		turns.NewUserTurn("thanks"),
	}
	req, err := MakeCompletionRequest(testConfig(), transcript)
	require.NoError(t, err)
	require.Len(t, req.Messages, 3)
	for _, m := range req.Messages {
		require.NotEqual(t, go_openai.ChatMessageRoleTool, m.Role)
	}
}

func TestExtractOpenAIToolCall(t *testing.T) {
	cfg := testConfig()
	msg := go_openai.ChatCompletionMessage{
		Role: go_openai.ChatMessageRoleAssistant,
		ToolCalls: []go_openai.ToolCall{
			{ID: "call_1", Type: go_openai.ToolTypeFunction, Function: go_openai.FunctionCall{
				Name: "get_current_temperature", Arguments: `{"location":"Karachi"}`,
			}},
			{ID: "call_2", Type: go_openai.ToolTypeFunction, Function: go_openai.FunctionCall{
				Name: "get_current_temperature", Arguments: `{"location":"Lahore"}`,
			}},
		},
	}
	call := extractOpenAIToolCall(msg, cfg)
	require.Equal(t, &turns.ToolCall{
		Name:        "get_current_temperature",
		Arguments:   map[string]any{"location": "Karachi"},
		Description: "Gets the current temperature for a given location.",
		ID:          "call_1",
	}, call)

	require.Nil(t, extractOpenAIToolCall(go_openai.ChatCompletionMessage{Content: "hi"}, cfg))

	msg = go_openai.ChatCompletionMessage{ToolCalls: []go_openai.ToolCall{{
		Function: go_openai.FunctionCall{Name: "get_current_temperature", Arguments: `{"location":`},
	}}}
	call = extractOpenAIToolCall(msg, cfg)
	require.NotNil(t, call)
	require.Empty(t, call.Arguments)
	require.NotEmpty(t, call.ID)
}
