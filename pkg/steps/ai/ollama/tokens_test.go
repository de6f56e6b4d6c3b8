package ollama

import (
	"context"
	"strings"
	"testing"

	"github.com/go-go-golems/weatherchat/pkg/turns"
	"github.com/stretchr/testify/require"
)

func TestEstimateTokens(t *testing.T) {
	short, err := estimateTokens([]Message{{Role: "user", Content: "Hello"}})
	require.NoError(t, err)
	require.Greater(t, short, messageOverhead)

	long, err := estimateTokens([]Message{
		{Role: "user", Content: "Hello"},
		{Role: "user", Content: strings.Repeat("What is the weather in Paris? ", 20)},
	})
	require.NoError(t, err)
	require.Greater(t, long, short)
}

func TestAdapter_SmallContextWindowOnlyWarns(t *testing.T) {
	fc := &fakeCompleter{replies: []string{"It is sunny."}}
	a, err := NewAdapter(testConfig(), fc,
		WithExampleCall(turns.ToolCall{Name: "get_current_weather", Arguments: map[string]any{"location": "Paris"}}),
		WithContextWindow(8))
	require.NoError(t, err)

	require.NoError(t, a.Advance(context.Background(), "weather in Paris?", nil))
	require.Equal(t, "It is sunny.", a.TextReply())
	require.Len(t, fc.requests, 1)
}
