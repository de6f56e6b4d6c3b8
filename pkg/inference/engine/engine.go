package engine

import (
	"context"

	"github.com/go-go-golems/weatherchat/pkg/turns"
	"github.com/pkg/errors"
)

// ErrAmbiguousInput is returned by Advance when both a user message and a tool
// result are supplied.
var ErrAmbiguousInput = errors.New("advance takes either a user message or a tool result, not both")

// Adapter drives one conversation with one backend. Every backend exposes the
// same tool-calling protocol through it, whether the backend has native
// function calling or not.
//
// After Advance returns, PendingToolCall and TextReply describe the latest
// response until the next call to Advance. TextReply is empty while a tool
// call is pending.
type Adapter interface {
	// Advance sends either the user's next message or the result of the
	// pending tool call. A tool result supplied while no call is pending is
	// ignored. On error the conversation is left as it was before the call.
	Advance(ctx context.Context, userInput string, result turns.ToolResult) error
	PendingToolCall() *turns.ToolCall
	TextReply() string
}

// HistoryProvider is implemented by adapters that can expose their current
// conversation history.
type HistoryProvider interface {
	History() []turns.Turn
}
