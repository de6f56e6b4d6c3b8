package gemini

import (
	"strings"

	"github.com/go-go-golems/weatherchat/pkg/turns"
	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog/log"
)

const (
	roleUser  = "user"
	roleModel = "model"
)

// turnsToContents converts a transcript into Gemini contents. System turns
// are dropped since instructions travel on the model.
func turnsToContents(ts []turns.Turn) []*genai.Content {
	var out []*genai.Content
	for _, t := range ts {
		switch t.Role {
		case turns.RoleUser:
			out = append(out, &genai.Content{Role: roleUser, Parts: []genai.Part{genai.Text(t.Text)}})
		case turns.RoleAssistant:
			if t.ToolCall != nil {
				args := t.ToolCall.Arguments
				if args == nil {
					args = map[string]any{}
				}
				out = append(out, &genai.Content{Role: roleModel, Parts: []genai.Part{
					genai.FunctionCall{Name: t.ToolCall.Name, Args: args},
				}})
				continue
			}
			if t.Text == "" {
				// empty text parts are rejected
				continue
			}
			out = append(out, &genai.Content{Role: roleModel, Parts: []genai.Part{genai.Text(t.Text)}})
		case turns.RoleTool:
			name := ""
			if t.ToolCall != nil {
				name = t.ToolCall.Name
			}
			out = append(out, &genai.Content{Role: roleUser, Parts: []genai.Part{
				genai.FunctionResponse{Name: name, Response: map[string]any(t.Result.Clone())},
			}})
		case turns.RoleSystem:
		}
	}
	return out
}

// splitForSend separates the contents into the chat history and the message
// to send, which is the last user-role content. Model contents following it
// are left out of the request.
func splitForSend(contents []*genai.Content) ([]*genai.Content, *genai.Content, bool) {
	for i := len(contents) - 1; i >= 0; i-- {
		if contents[i].Role == roleUser {
			if dropped := len(contents) - 1 - i; dropped > 0 {
				log.Debug().Int("dropped", dropped).Msg("re-sending last user content, trailing model contents left out")
			}
			return contents[:i], contents[i], true
		}
	}
	return nil, nil, false
}

// extractGeminiResponse returns the first function call and the text of the
// first candidate.
func extractGeminiResponse(resp *genai.GenerateContentResponse) (*genai.FunctionCall, string, int) {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil, "", 0
	}
	cand := resp.Candidates[0]
	if cand.Content == nil {
		return nil, "", 0
	}
	var text strings.Builder
	for _, p := range cand.Content.Parts {
		if t, ok := p.(genai.Text); ok {
			text.WriteString(string(t))
		}
	}
	calls := cand.FunctionCalls()
	if len(calls) == 0 {
		return nil, text.String(), 0
	}
	return &calls[0], text.String(), len(calls)
}
