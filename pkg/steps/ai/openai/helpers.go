package openai

import (
	"encoding/json"

	"github.com/go-go-golems/weatherchat/pkg/conversation"
	"github.com/go-go-golems/weatherchat/pkg/inference/engine"
	"github.com/go-go-golems/weatherchat/pkg/inference/tools"
	"github.com/go-go-golems/weatherchat/pkg/turns"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	go_openai "github.com/sashabaranov/go-openai"
)

// MakeClient creates a client for an OpenAI-compatible endpoint. baseURL is
// optional.
func MakeClient(apiKey string, baseURL string) (*go_openai.Client, error) {
	if apiKey == "" {
		return nil, errors.New("no API key for openai-compatible endpoint")
	}
	config := go_openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return go_openai.NewClientWithConfig(config), nil
}

func MakeTools(defs []tools.ToolDefinition) []go_openai.Tool {
	var out []go_openai.Tool
	for _, td := range defs {
		out = append(out, go_openai.Tool{
			Type: go_openai.ToolTypeFunction,
			Function: &go_openai.FunctionDefinition{
				Name:        td.Name,
				Description: td.Description,
				Parameters:  td.Parameters,
			},
		})
	}
	return out
}

// MakeCompletionRequest builds the chat completion request for a transcript.
// Tool turns that lost their counterpart are left out.
func MakeCompletionRequest(cfg engine.Config, transcript []turns.Turn) (*go_openai.ChatCompletionRequest, error) {
	var msgs []go_openai.ChatCompletionMessage
	if cfg.Instructions != "" {
		msgs = append(msgs, go_openai.ChatCompletionMessage{
			Role:    go_openai.ChatMessageRoleSystem,
			Content: cfg.Instructions,
		})
	}

	for _, t := range conversation.PairToolTurns(transcript) {
		msg, err := turnToMessage(t)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, msg)
	}

	req := &go_openai.ChatCompletionRequest{
		Model:    cfg.Model,
		Messages: msgs,
	}
	if cfg.Temperature != nil {
		req.Temperature = *cfg.Temperature
	}
	if t := MakeTools(cfg.Tools); len(t) > 0 {
		req.Tools = t
		req.ToolChoice = "auto"
	}
	return req, nil
}

func turnToMessage(t turns.Turn) (go_openai.ChatCompletionMessage, error) {
	switch t.Role {
	case turns.RoleSystem:
		return go_openai.ChatCompletionMessage{Role: go_openai.ChatMessageRoleSystem, Content: t.Text}, nil
	case turns.RoleUser:
		return go_openai.ChatCompletionMessage{Role: go_openai.ChatMessageRoleUser, Content: t.Text}, nil
	case turns.RoleAssistant:
		if t.ToolCall == nil {
			return go_openai.ChatCompletionMessage{Role: go_openai.ChatMessageRoleAssistant, Content: t.Text}, nil
		}
		args := t.ToolCall.Arguments
		if args == nil {
			args = map[string]any{}
		}
		b, err := json.Marshal(args)
		if err != nil {
			return go_openai.ChatCompletionMessage{}, errors.Wrapf(err, "could not encode arguments of %s", t.ToolCall.Name)
		}
		return go_openai.ChatCompletionMessage{
			Role: go_openai.ChatMessageRoleAssistant,
			ToolCalls: []go_openai.ToolCall{{
				ID:   t.ToolCall.ID,
				Type: go_openai.ToolTypeFunction,
				Function: go_openai.FunctionCall{
					Name:      t.ToolCall.Name,
					Arguments: string(b),
				},
			}},
		}, nil
	case turns.RoleTool:
		result := t.Result
		if result == nil {
			result = turns.ToolResult{}
		}
		b, err := json.Marshal(result)
		if err != nil {
			return go_openai.ChatCompletionMessage{}, errors.Wrap(err, "could not encode tool result")
		}
		msg := go_openai.ChatCompletionMessage{Role: go_openai.ChatMessageRoleTool, Content: string(b)}
		if t.ToolCall != nil {
			msg.ToolCallID = t.ToolCall.ID
			msg.Name = t.ToolCall.Name
		}
		return msg, nil
	default:
		return go_openai.ChatCompletionMessage{}, errors.Errorf("unknown role %q", t.Role)
	}
}

// extractOpenAIToolCall returns the first tool call of msg. Arguments that do
// not decode to an object become an empty map.
func extractOpenAIToolCall(msg go_openai.ChatCompletionMessage, cfg engine.Config) *turns.ToolCall {
	if len(msg.ToolCalls) == 0 {
		return nil
	}
	if len(msg.ToolCalls) > 1 {
		log.Warn().Int("tool_calls", len(msg.ToolCalls)).Msg("keeping only the first tool call of the response")
	}
	tc := msg.ToolCalls[0]
	args := map[string]any{}
	if tc.Function.Arguments != "" {
		if err := json.Unmarshal([]byte(tc.Function.Arguments), &args); err != nil || args == nil {
			log.Warn().Err(err).Str("tool", tc.Function.Name).Str("arguments", tc.Function.Arguments).
				Msg("could not decode tool call arguments")
			args = map[string]any{}
		}
	}
	id := tc.ID
	if id == "" {
		id = "call_" + uuid.NewString()
	}
	return &turns.ToolCall{
		Name:        tc.Function.Name,
		Arguments:   args,
		Description: cfg.ToolDescription(tc.Function.Name),
		ID:          id,
	}
}
