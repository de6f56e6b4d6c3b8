package openai

import (
	"context"
	"testing"

	"github.com/go-go-golems/weatherchat/pkg/inference/engine"
	"github.com/go-go-golems/weatherchat/pkg/turns"
	"github.com/pkg/errors"
	go_openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/require"
)

type fakeCompleter struct {
	requests  []go_openai.ChatCompletionRequest
	responses []go_openai.ChatCompletionMessage
	err       error
}

func (f *fakeCompleter) CreateChatCompletion(ctx context.Context, req go_openai.ChatCompletionRequest) (go_openai.ChatCompletionResponse, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return go_openai.ChatCompletionResponse{}, f.err
	}
	msg := go_openai.ChatCompletionMessage{Role: go_openai.ChatMessageRoleAssistant, Content: "ok"}
	if len(f.responses) > 0 {
		msg = f.responses[0]
		f.responses = f.responses[1:]
	}
	return go_openai.ChatCompletionResponse{Choices: []go_openai.ChatCompletionChoice{{Message: msg}}}, nil
}

func toolCallMessage(id, location string) go_openai.ChatCompletionMessage {
	return go_openai.ChatCompletionMessage{
		Role: go_openai.ChatMessageRoleAssistant,
		ToolCalls: []go_openai.ToolCall{{
			ID:   id,
			Type: go_openai.ToolTypeFunction,
			Function: go_openai.FunctionCall{
				Name:      "get_current_temperature",
				Arguments: `{"location":"` + location + `"}`,
			},
		}},
	}
}

func TestAdapter_ToolCallAndResult(t *testing.T) {
	fc := &fakeCompleter{responses: []go_openai.ChatCompletionMessage{
		toolCallMessage("call_42", "New York"),
		{Role: go_openai.ChatMessageRoleAssistant, Content: "It is 22°C in New York."},
	}}
	a, err := NewAdapter(testConfig(), fc)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, a.Advance(ctx, "temperature in NY", nil))
	pending := a.PendingToolCall()
	require.NotNil(t, pending)
	require.Equal(t, "call_42", pending.ID)
	require.Equal(t, map[string]any{"location": "New York"}, pending.Arguments)
	require.Empty(t, a.TextReply())

	require.NoError(t, a.Advance(ctx, "", turns.ToolResult{"temperature": 22.0}))
	require.Equal(t, "It is 22°C in New York.", a.TextReply())
	require.Nil(t, a.PendingToolCall())

	msgs := fc.requests[1].Messages
	last := msgs[len(msgs)-1]
	require.Equal(t, go_openai.ChatMessageRoleTool, last.Role)
	require.Equal(t, "call_42", last.ToolCallID)
	require.Equal(t, "call_42", msgs[len(msgs)-2].ToolCalls[0].ID)

	require.Len(t, a.History(), 4)
	require.NotNil(t, a.LastResponse())
	require.Equal(t, "It is 22°C in New York.", a.LastResponse().Choices[0].Message.Content)
}

func TestAdapter_ToolRoundTripAtCapacityOne(t *testing.T) {
	cfg := testConfig()
	cfg.HistorySize = 1
	fc := &fakeCompleter{responses: []go_openai.ChatCompletionMessage{
		toolCallMessage("call_7", "Paris"),
		{Role: go_openai.ChatMessageRoleAssistant, Content: "It is 20°C in Paris."},
	}}
	a, err := NewAdapter(cfg, fc)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, a.Advance(ctx, "weather in Paris?", nil))
	require.NoError(t, a.Advance(ctx, "", turns.ToolResult{"temperature": 20}))

	require.Len(t, fc.requests, 2)
	require.Equal(t, engine.StateDone, a.State())
	require.Equal(t, "It is 20°C in Paris.", a.TextReply())

	// system message, the evicted call sent again, then its result
	msgs := fc.requests[1].Messages
	require.Len(t, msgs, 3)
	require.Equal(t, go_openai.ChatMessageRoleSystem, msgs[0].Role)
	require.Equal(t, "call_7", msgs[1].ToolCalls[0].ID)
	require.Equal(t, go_openai.ChatMessageRoleTool, msgs[2].Role)
	require.Equal(t, "call_7", msgs[2].ToolCallID)

	require.Len(t, a.History(), 1)
}

func TestAdapter_EmptyInputIsNoop(t *testing.T) {
	fc := &fakeCompleter{}
	a, err := NewAdapter(testConfig(), fc)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, a.Advance(ctx, "hi", nil))
	require.NoError(t, a.Advance(ctx, "", nil))
	require.Len(t, fc.requests, 1)
	require.Equal(t, "ok", a.TextReply())
}

func TestAdapter_ToolResultWithoutPendingCallIsNoop(t *testing.T) {
	fc := &fakeCompleter{}
	a, err := NewAdapter(testConfig(), fc)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, a.Advance(ctx, "hi", nil))
	require.NoError(t, a.Advance(ctx, "", turns.ToolResult{"temperature": 1}))
	require.Len(t, fc.requests, 1)
	require.Equal(t, "ok", a.TextReply())
	require.Equal(t, engine.StateDone, a.State())
}

func TestAdapter_TransportError(t *testing.T) {
	fc := &fakeCompleter{err: errors.New("503 service unavailable")}
	a, err := NewAdapter(testConfig(), fc)
	require.NoError(t, err)

	err = a.Advance(context.Background(), "hi", nil)
	require.Error(t, err)
	require.Empty(t, a.History())
	require.Equal(t, engine.StateIdle, a.State())
}

func TestAdapter_AmbiguousInput(t *testing.T) {
	fc := &fakeCompleter{}
	a, err := NewAdapter(testConfig(), fc)
	require.NoError(t, err)
	require.ErrorIs(t, a.Advance(context.Background(), "hi", turns.ToolResult{}), engine.ErrAmbiguousInput)
	require.Empty(t, fc.requests)
}
