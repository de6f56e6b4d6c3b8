package ollama

import (
	"context"

	"github.com/go-go-golems/weatherchat/pkg/conversation"
	"github.com/go-go-golems/weatherchat/pkg/inference/engine"
	"github.com/go-go-golems/weatherchat/pkg/inference/toolcall"
	"github.com/go-go-golems/weatherchat/pkg/steps/ai/prompts"
	"github.com/go-go-golems/weatherchat/pkg/turns"
	"github.com/pkg/errors"
)

const (
	seedGreeting = "Hello"
	seedReply    = "Hello! How can I help you today?"
)

type Option func(*Adapter)

// WithExampleCall sets the sample call shown to the model in its instructions.
func WithExampleCall(call turns.ToolCall) Option {
	return func(a *Adapter) {
		a.example = call
	}
}

// Adapter drives a model without native function calling. The model is told
// to answer with a fenced JSON tool call, which is recognized in its reply
// text. Tool results are handed back as a user message.
type Adapter struct {
	engine.Session

	cfg       engine.Config
	example   turns.ToolCall
	preamble  []turns.Turn
	buffer    *conversation.Buffer
	completer TextCompleter
	// contextWindow is the model's context size in tokens, 0 when unknown.
	contextWindow int

	lastResponse string
}

var _ engine.Adapter = (*Adapter)(nil)
var _ engine.HistoryProvider = (*Adapter)(nil)

func NewAdapter(cfg engine.Config, completer TextCompleter, options ...Option) (*Adapter, error) {
	if completer == nil {
		return nil, errors.New("no text completer")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	buffer, err := cfg.NewBuffer()
	if err != nil {
		return nil, err
	}
	a := &Adapter{
		Session:   engine.NewSession(cfg.Model),
		cfg:       cfg,
		buffer:    buffer,
		completer: completer,
	}
	for _, o := range options {
		o(a)
	}

	system, err := prompts.RenderPromptBasedSystem(cfg.Tools, a.example, cfg.Instructions)
	if err != nil {
		return nil, err
	}
	a.preamble = []turns.Turn{
		turns.NewUserTurn(seedGreeting),
		turns.NewAssistantTextTurn(seedReply),
		turns.NewSystemTurn(system),
	}
	return a, nil
}

func (a *Adapter) Advance(ctx context.Context, userInput string, result turns.ToolResult) error {
	in, err := engine.ClassifyInput(userInput, result)
	if err != nil {
		return err
	}

	var sent []turns.Turn
	switch in {
	case engine.InputUser:
		sent = append(sent, turns.NewUserTurn(userInput))
	case engine.InputToolResult:
		if !a.AcceptsToolResult() {
			return nil
		}
		summary, err := prompts.RenderToolResultSummary(a.PendingToolCall().Name, result)
		if err != nil {
			return err
		}
		sent = append(sent, turns.NewUserTurn(summary))
	case engine.InputNone:
		if a.buffer.Len() == 0 {
			a.Logger().Debug().Msg("nothing to send, history is empty")
			return nil
		}
	}

	messages := a.messages(a.buffer.Preview(sent...))
	a.Logger().Debug().Int("messages", len(messages)).Msg("prompt-based chat request")
	a.checkContextWindow(messages)
	text, err := a.completer.Complete(ctx, messages)
	if err != nil {
		return errors.Wrap(err, "prompt-based request failed")
	}

	a.buffer.Append(sent...)
	a.buffer.Append(turns.NewAssistantTextTurn(text))
	a.lastResponse = text

	call, ok := toolcall.Extract(text)
	if ok {
		call.Description = a.cfg.ToolDescription(call.Name)
		a.Logger().Debug().Str("tool", call.Name).Msg("tool call found in reply")
	}
	a.Record(call, text)
	return nil
}

func (a *Adapter) messages(history []turns.Turn) []Message {
	all := append(append([]turns.Turn{}, a.preamble...), history...)
	out := make([]Message, 0, len(all))
	for _, t := range all {
		out = append(out, Message{Role: t.Role.String(), Content: t.Text})
	}
	return out
}

// LastResponse returns the raw reply text of the latest successful request.
func (a *Adapter) LastResponse() string {
	return a.lastResponse
}

// History returns the buffered conversation, without the fixed preamble.
func (a *Adapter) History() []turns.Turn {
	return a.buffer.Snapshot()
}
