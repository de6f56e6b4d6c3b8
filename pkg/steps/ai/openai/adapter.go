package openai

import (
	"context"

	"github.com/go-go-golems/weatherchat/pkg/conversation"
	"github.com/go-go-golems/weatherchat/pkg/inference/engine"
	"github.com/go-go-golems/weatherchat/pkg/turns"
	"github.com/pkg/errors"
	go_openai "github.com/sashabaranov/go-openai"
)

// ChatCompleter is the part of the go-openai client the adapter uses.
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req go_openai.ChatCompletionRequest) (go_openai.ChatCompletionResponse, error)
}

var _ ChatCompleter = (*go_openai.Client)(nil)

// Adapter talks to an OpenAI-compatible chat completions endpoint with native
// tool calls. Tool results are threaded back with the call's correlation id.
type Adapter struct {
	engine.Session

	cfg    engine.Config
	buffer *conversation.Buffer
	client ChatCompleter

	lastResponse *go_openai.ChatCompletionResponse
}

var _ engine.Adapter = (*Adapter)(nil)
var _ engine.HistoryProvider = (*Adapter)(nil)

func NewAdapter(cfg engine.Config, client ChatCompleter) (*Adapter, error) {
	if client == nil {
		return nil, errors.New("no chat completion client")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	buffer, err := cfg.NewBuffer()
	if err != nil {
		return nil, err
	}
	return &Adapter{
		Session: engine.NewSession(cfg.Model),
		cfg:     cfg,
		buffer:  buffer,
		client:  client,
	}, nil
}

func (a *Adapter) Advance(ctx context.Context, userInput string, result turns.ToolResult) error {
	in, err := engine.ClassifyInput(userInput, result)
	if err != nil {
		return err
	}

	var sent turns.Turn
	var pendingCall *turns.Turn
	switch in {
	case engine.InputNone:
		a.Logger().Debug().Msg("no input, nothing to send")
		return nil
	case engine.InputUser:
		sent = turns.NewUserTurn(userInput)
	case engine.InputToolResult:
		if !a.AcceptsToolResult() {
			return nil
		}
		call := *a.PendingToolCall()
		callTurn := turns.NewToolCallTurn(call)
		pendingCall = &callTurn
		sent = turns.NewToolResultTurn(call, result)
	}

	transcript := a.buffer.Preview(sent)
	if pendingCall != nil {
		transcript = conversation.AnchorToolResult(transcript, *pendingCall)
	}
	req, err := MakeCompletionRequest(a.cfg, transcript)
	if err != nil {
		return err
	}
	a.Logger().Debug().
		Int("messages", len(req.Messages)).
		Int("tools", len(req.Tools)).
		Msg("OpenAI chat completion request")
	resp, err := a.client.CreateChatCompletion(ctx, *req)
	if err != nil {
		return errors.Wrap(err, "chat completion request failed")
	}
	if len(resp.Choices) == 0 {
		return errors.New("chat completion returned no choices")
	}

	msg := resp.Choices[0].Message
	call := extractOpenAIToolCall(msg, a.cfg)
	assistant := turns.NewAssistantTextTurn(msg.Content)
	if call != nil {
		assistant = turns.NewToolCallTurn(*call)
	}

	a.buffer.Append(sent, assistant)
	a.lastResponse = &resp
	a.Record(call, msg.Content)
	return nil
}

// LastResponse returns the raw response of the latest successful request.
func (a *Adapter) LastResponse() *go_openai.ChatCompletionResponse {
	return a.lastResponse
}

func (a *Adapter) History() []turns.Turn {
	return a.buffer.Snapshot()
}
