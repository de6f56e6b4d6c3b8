package gemini

import (
	"context"

	"github.com/go-go-golems/weatherchat/pkg/conversation"
	"github.com/go-go-golems/weatherchat/pkg/inference/engine"
	"github.com/go-go-golems/weatherchat/pkg/turns"
	"github.com/google/generative-ai-go/genai"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

// ContentGenerator sends one message on top of a chat history.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, history []*genai.Content, next *genai.Content) (*genai.GenerateContentResponse, error)
}

// chatGenerator starts a fresh chat session per request so that the history
// sent is always exactly the adapter's transcript.
type chatGenerator struct {
	model *genai.GenerativeModel
}

func (g *chatGenerator) GenerateContent(ctx context.Context, history []*genai.Content, next *genai.Content) (*genai.GenerateContentResponse, error) {
	cs := g.model.StartChat()
	cs.History = history
	return cs.SendMessage(ctx, next.Parts...)
}

// Adapter talks to Gemini through its native function-calling API.
type Adapter struct {
	engine.Session

	cfg       engine.Config
	buffer    *conversation.Buffer
	generator ContentGenerator
	client    *genai.Client

	lastResponse *genai.GenerateContentResponse
}

var _ engine.Adapter = (*Adapter)(nil)
var _ engine.HistoryProvider = (*Adapter)(nil)

// NewAdapter creates a Gemini client and configures the model with the tools
// and instructions of cfg. baseURL is optional.
func NewAdapter(ctx context.Context, cfg engine.Config, apiKey string, baseURL string) (*Adapter, error) {
	if apiKey == "" {
		return nil, errors.New("missing gemini API key")
	}
	opts := []option.ClientOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithEndpoint(baseURL))
	}
	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create gemini client")
	}

	model := client.GenerativeModel(cfg.Model)
	if cfg.Instructions != "" {
		model.SystemInstruction = genai.NewUserContent(genai.Text(cfg.Instructions))
	}
	if decls := functionDeclarations(cfg.Tools); len(decls) > 0 {
		model.Tools = []*genai.Tool{{FunctionDeclarations: decls}}
		log.Debug().Int("gemini_tool_count", len(decls)).Msg("Added tools to Gemini model")
	}
	if cfg.Temperature != nil {
		model.SetTemperature(*cfg.Temperature)
	}

	a, err := NewAdapterWithGenerator(cfg, &chatGenerator{model: model})
	if err != nil {
		_ = client.Close()
		return nil, err
	}
	a.client = client
	return a, nil
}

// NewAdapterWithGenerator builds an adapter on top of an existing generator.
func NewAdapterWithGenerator(cfg engine.Config, generator ContentGenerator) (*Adapter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	buffer, err := cfg.NewBuffer()
	if err != nil {
		return nil, err
	}
	return &Adapter{
		Session:   engine.NewSession(cfg.Model),
		cfg:       cfg,
		buffer:    buffer,
		generator: generator,
	}, nil
}

func (a *Adapter) Advance(ctx context.Context, userInput string, result turns.ToolResult) error {
	in, err := engine.ClassifyInput(userInput, result)
	if err != nil {
		return err
	}

	var sent []turns.Turn
	var pendingCall *turns.Turn
	switch in {
	case engine.InputUser:
		sent = append(sent, turns.NewUserTurn(userInput))
	case engine.InputToolResult:
		if !a.AcceptsToolResult() {
			return nil
		}
		call := *a.PendingToolCall()
		callTurn := turns.NewToolCallTurn(call)
		pendingCall = &callTurn
		sent = append(sent, turns.NewToolResultTurn(call, result))
	case engine.InputNone:
		if a.buffer.Len() == 0 {
			a.Logger().Debug().Msg("nothing to send, history is empty")
			return nil
		}
	}

	preview := a.buffer.Preview(sent...)
	if pendingCall != nil {
		preview = conversation.AnchorToolResult(preview, *pendingCall)
	}
	transcript := conversation.PairToolTurns(preview)
	history, next, ok := splitForSend(turnsToContents(transcript))
	if !ok {
		a.Logger().Debug().Msg("nothing to send, no user content in history")
		return nil
	}

	a.Logger().Debug().
		Int("history_len", len(history)).
		Int("turns_sent", len(sent)).
		Msg("Gemini request")
	resp, err := a.generator.GenerateContent(ctx, history, next)
	if err != nil {
		return errors.Wrap(err, "gemini request failed")
	}

	call, text, n := extractGeminiResponse(resp)
	if n > 1 {
		a.Logger().Warn().Int("function_calls", n).Msg("keeping only the first function call of the response")
	}

	var toolCall *turns.ToolCall
	var assistant turns.Turn
	if call != nil {
		toolCall = &turns.ToolCall{
			Name:        call.Name,
			Arguments:   copyArgs(call.Args),
			Description: a.cfg.ToolDescription(call.Name),
		}
		assistant = turns.NewToolCallTurn(*toolCall)
	} else {
		assistant = turns.NewAssistantTextTurn(text)
	}

	if in == engine.InputNone {
		// the new answer replaces the previous one, contents must keep alternating
		if n := a.buffer.DropTrailing(isAssistantTurn); n > 0 {
			a.Logger().Debug().Int("replaced", n).Msg("re-issued request replaces trailing model turns")
		}
	}
	a.buffer.Append(sent...)
	a.buffer.Append(assistant)
	a.lastResponse = resp
	a.Record(toolCall, text)
	return nil
}

// LastResponse returns the raw response of the latest successful request.
func (a *Adapter) LastResponse() *genai.GenerateContentResponse {
	return a.lastResponse
}

func (a *Adapter) History() []turns.Turn {
	return a.buffer.Snapshot()
}

func (a *Adapter) Close() error {
	if a.client == nil {
		return nil
	}
	return a.client.Close()
}

func isAssistantTurn(t turns.Turn) bool {
	return t.Role == turns.RoleAssistant
}

func copyArgs(args map[string]any) map[string]any {
	out := make(map[string]any, len(args))
	for k, v := range args {
		out[k] = v
	}
	return out
}
