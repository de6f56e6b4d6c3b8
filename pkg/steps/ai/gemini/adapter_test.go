package gemini

import (
	"context"
	"testing"

	"github.com/go-go-golems/weatherchat/pkg/inference/engine"
	"github.com/go-go-golems/weatherchat/pkg/inference/tools"
	"github.com/go-go-golems/weatherchat/pkg/turns"
	"github.com/google/generative-ai-go/genai"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

type generateCall struct {
	history []*genai.Content
	next    *genai.Content
}

type fakeGenerator struct {
	calls     []generateCall
	responses []*genai.GenerateContentResponse
	err       error

	lastResponse *genai.GenerateContentResponse
}

func (f *fakeGenerator) GenerateContent(ctx context.Context, history []*genai.Content, next *genai.Content) (*genai.GenerateContentResponse, error) {
	f.calls = append(f.calls, generateCall{history: history, next: next})
	if f.err != nil {
		return nil, f.err
	}
	if len(f.responses) == 0 {
		return textResponse("ok"), nil
	}
	resp := f.responses[0]
	f.responses = f.responses[1:]
	f.lastResponse = resp
	return resp, nil
}

func response(parts ...genai.Part) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
		Content: &genai.Content{Role: roleModel, Parts: parts},
	}}}
}

func textResponse(text string) *genai.GenerateContentResponse {
	return response(genai.Text(text))
}

func testConfig() engine.Config {
	return engine.Config{
		Model:        "gemini-2.0-flash-lite",
		Instructions: "be brief",
		Tools: []tools.ToolDefinition{
			tools.NewToolDefinition("get_current_weather", "Get the current weather in a given location", weatherArgs{}),
		},
	}
}

func newTestAdapter(t *testing.T, gen *fakeGenerator) *Adapter {
	a, err := NewAdapterWithGenerator(testConfig(), gen)
	require.NoError(t, err)
	return a
}

func TestAdapter_ToolCallScenario(t *testing.T) {
	gen := &fakeGenerator{responses: []*genai.GenerateContentResponse{
		response(genai.FunctionCall{Name: "get_current_weather", Args: map[string]any{"location": "Paris"}}),
	}}
	a := newTestAdapter(t, gen)

	require.NoError(t, a.Advance(context.Background(), "weather in Paris?", nil))

	require.Equal(t, &turns.ToolCall{
		Name:        "get_current_weather",
		Arguments:   map[string]any{"location": "Paris"},
		Description: "Get the current weather in a given location",
	}, a.PendingToolCall())
	require.Empty(t, a.TextReply())
	require.Equal(t, engine.StateToolPending, a.State())

	require.Len(t, gen.calls, 1)
	require.Empty(t, gen.calls[0].history)
	require.Equal(t, []genai.Part{genai.Text("weather in Paris?")}, gen.calls[0].next.Parts)

	h := a.History()
	require.Len(t, h, 2)
	require.Equal(t, turns.RoleUser, h[0].Role)
	require.True(t, h[1].IsToolCall())
}

func TestAdapter_ToolResultRoundTrip(t *testing.T) {
	gen := &fakeGenerator{responses: []*genai.GenerateContentResponse{
		response(genai.FunctionCall{Name: "get_current_weather", Args: map[string]any{"location": "Paris"}}),
		textResponse("It is 21°C in Paris."),
	}}
	a := newTestAdapter(t, gen)
	ctx := context.Background()

	require.NoError(t, a.Advance(ctx, "weather in Paris?", nil))
	require.NoError(t, a.Advance(ctx, "", turns.ToolResult{"temperature": 21.0}))

	require.Nil(t, a.PendingToolCall())
	require.Equal(t, "It is 21°C in Paris.", a.TextReply())
	require.Equal(t, engine.StateDone, a.State())
	require.Same(t, gen.lastResponse, a.LastResponse())

	second := gen.calls[1]
	require.Len(t, second.history, 2)
	require.Equal(t, roleModel, second.history[1].Role)
	require.Equal(t, genai.FunctionCall{Name: "get_current_weather", Args: map[string]any{"location": "Paris"}}, second.history[1].Parts[0])
	require.Equal(t, []genai.Part{genai.FunctionResponse{
		Name:     "get_current_weather",
		Response: map[string]any{"temperature": 21.0},
	}}, second.next.Parts)

	require.Len(t, a.History(), 4)
}

func TestAdapter_ToolResultWithoutPendingCallIsNoop(t *testing.T) {
	gen := &fakeGenerator{responses: []*genai.GenerateContentResponse{textResponse("Hello!")}}
	a := newTestAdapter(t, gen)
	ctx := context.Background()

	require.NoError(t, a.Advance(ctx, "", turns.ToolResult{"temperature": 1}))
	require.Empty(t, gen.calls)

	require.NoError(t, a.Advance(ctx, "hi", nil))
	reply, pending := a.TextReply(), a.PendingToolCall()

	require.NoError(t, a.Advance(ctx, "", turns.ToolResult{"temperature": 1}))
	require.Len(t, gen.calls, 1)
	require.Equal(t, reply, a.TextReply())
	require.Equal(t, pending, a.PendingToolCall())
	require.Len(t, a.History(), 2)
}

func TestAdapter_EmptyInputReissuesRequest(t *testing.T) {
	gen := &fakeGenerator{}
	a := newTestAdapter(t, gen)
	ctx := context.Background()

	require.NoError(t, a.Advance(ctx, "", nil))
	require.Empty(t, gen.calls)

	require.NoError(t, a.Advance(ctx, "hi", nil))
	first := a.LastResponse()
	gen.responses = []*genai.GenerateContentResponse{textResponse("Hello again!")}
	require.NoError(t, a.Advance(ctx, "", nil))
	require.Len(t, gen.calls, 2)
	require.Equal(t, gen.calls[0].next, gen.calls[1].next)
	require.Empty(t, gen.calls[1].history)

	// the new answer replaces the previous model turn
	h := a.History()
	require.Len(t, h, 2)
	require.Equal(t, turns.RoleUser, h[0].Role)
	require.Equal(t, "Hello again!", h[1].Text)
	require.NotSame(t, first, a.LastResponse())
	require.Equal(t, "Hello again!", a.TextReply())

	// a further message sees alternating contents
	require.NoError(t, a.Advance(ctx, "thanks", nil))
	third := gen.calls[2]
	require.Len(t, third.history, 2)
	require.Equal(t, roleUser, third.history[0].Role)
	require.Equal(t, roleModel, third.history[1].Role)
}

func TestAdapter_AmbiguousInput(t *testing.T) {
	gen := &fakeGenerator{}
	a := newTestAdapter(t, gen)
	err := a.Advance(context.Background(), "hi", turns.ToolResult{"a": 1})
	require.ErrorIs(t, err, engine.ErrAmbiguousInput)
	require.Empty(t, gen.calls)
}

func TestAdapter_TransportErrorLeavesHistoryUnchanged(t *testing.T) {
	gen := &fakeGenerator{}
	a := newTestAdapter(t, gen)
	ctx := context.Background()
	require.NoError(t, a.Advance(ctx, "hi", nil))
	before := a.History()

	gen.err = errors.New("connection refused")
	err := a.Advance(ctx, "again", nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "connection refused")
	require.Equal(t, before, a.History())
	require.Equal(t, "ok", a.TextReply())
}

func TestAdapter_EvictionKeepsTranscriptValid(t *testing.T) {
	cfg := testConfig()
	cfg.HistorySize = 2
	gen := &fakeGenerator{responses: []*genai.GenerateContentResponse{
		response(genai.FunctionCall{Name: "get_current_weather", Args: map[string]any{"location": "Paris"}}),
	}}
	a, err := NewAdapterWithGenerator(cfg, gen)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, a.Advance(ctx, "weather?", nil))
	require.NoError(t, a.Advance(ctx, "", turns.ToolResult{"temperature": 3}))

	// the user turn is evicted, the call and its result stay paired
	second := gen.calls[1]
	require.Len(t, second.history, 1)
	require.Equal(t, roleModel, second.history[0].Role)
	require.IsType(t, genai.FunctionResponse{}, second.next.Parts[0])
	require.Equal(t, "ok", a.TextReply())
}

func TestAdapter_ToolRoundTripAtCapacityOne(t *testing.T) {
	cfg := testConfig()
	cfg.HistorySize = 1
	gen := &fakeGenerator{responses: []*genai.GenerateContentResponse{
		response(genai.FunctionCall{Name: "get_current_weather", Args: map[string]any{"location": "Paris"}}),
		textResponse("It is 20°C in Paris."),
	}}
	a, err := NewAdapterWithGenerator(cfg, gen)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, a.Advance(ctx, "weather?", nil))
	require.NoError(t, a.Advance(ctx, "", turns.ToolResult{"temperature": 20}))

	require.Len(t, gen.calls, 2)
	require.Equal(t, engine.StateDone, a.State())
	require.Equal(t, "It is 20°C in Paris.", a.TextReply())

	// the evicted call is sent again in front of its result
	second := gen.calls[1]
	require.Len(t, second.history, 1)
	require.Equal(t, genai.FunctionCall{Name: "get_current_weather", Args: map[string]any{"location": "Paris"}}, second.history[0].Parts[0])
	require.Equal(t, []genai.Part{genai.FunctionResponse{
		Name:     "get_current_weather",
		Response: map[string]any{"temperature": 20},
	}}, second.next.Parts)

	h := a.History()
	require.Len(t, h, 1)
	require.Equal(t, "It is 20°C in Paris.", h[0].Text)
}
