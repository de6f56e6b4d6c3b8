package toolloop

import (
	"context"

	"github.com/go-go-golems/weatherchat/pkg/inference/engine"
	"github.com/go-go-golems/weatherchat/pkg/inference/tools"
	"github.com/go-go-golems/weatherchat/pkg/turns"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Exchange is the outcome of one user message.
type Exchange struct {
	UserInput string
	// ToolCall is the call the model requested, nil when it answered directly.
	ToolCall *turns.ToolCall
	Result   turns.ToolResult
	Reply    string
}

// ToolCallHook is called before a requested tool is executed.
type ToolCallHook func(ctx context.Context, call turns.ToolCall)

// SnapshotHook receives the adapter's history after each phase of an
// exchange, when the adapter exposes it.
type SnapshotHook func(ctx context.Context, phase string, history []turns.Turn)

// Loop runs one request, tool execution and follow-up cycle per user message.
// All conversation state lives in the adapter.
type Loop struct {
	adapter  engine.Adapter
	executor tools.Executor

	onToolCall   ToolCallHook
	snapshotHook SnapshotHook
}

type Option func(*Loop)

func New(opts ...Option) *Loop {
	l := &Loop{}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}
	return l
}

func WithAdapter(a engine.Adapter) Option {
	return func(l *Loop) { l.adapter = a }
}

func WithExecutor(exec tools.Executor) Option {
	return func(l *Loop) { l.executor = exec }
}

func WithToolCallHook(h ToolCallHook) Option {
	return func(l *Loop) { l.onToolCall = h }
}

func WithSnapshotHook(h SnapshotHook) Option {
	return func(l *Loop) { l.snapshotHook = h }
}

// RunTurn sends userInput, resolves a requested tool call if any, and returns
// the model's reply. Adapter errors end the exchange and are returned as is.
func (l *Loop) RunTurn(ctx context.Context, userInput string) (*Exchange, error) {
	if l.adapter == nil {
		return nil, errors.New("no adapter configured")
	}
	if l.executor == nil {
		return nil, errors.New("no tool executor configured")
	}

	ex := &Exchange{UserInput: userInput}
	if err := l.adapter.Advance(ctx, userInput, nil); err != nil {
		return nil, err
	}
	l.snapshot(ctx, "model_response")

	call := l.adapter.PendingToolCall()
	if call == nil {
		ex.Reply = l.adapter.TextReply()
		return ex, nil
	}

	ex.ToolCall = call
	if l.onToolCall != nil {
		l.onToolCall(ctx, *call)
	}
	log.Debug().Str("tool", call.Name).Interface("arguments", call.Arguments).Msg("resolving tool call")
	ex.Result = l.executor.Execute(ctx, *call)
	if ex.Result == nil {
		ex.Result = turns.ToolResult{}
	}
	if reason, ok := ex.Result.Error(); ok {
		log.Debug().Str("tool", call.Name).Str("reason", reason).Msg("tool returned an error result")
	}

	if err := l.adapter.Advance(ctx, "", ex.Result); err != nil {
		return nil, err
	}
	l.snapshot(ctx, "tool_response")

	ex.Reply = l.adapter.TextReply()
	if next := l.adapter.PendingToolCall(); next != nil {
		// one tool round per message
		log.Warn().Str("tool", next.Name).Msg("model requested another tool call after the tool result, not resolving it")
	}
	return ex, nil
}

func (l *Loop) snapshot(ctx context.Context, phase string) {
	if l.snapshotHook == nil {
		return
	}
	hp, ok := l.adapter.(engine.HistoryProvider)
	if !ok {
		return
	}
	l.snapshotHook(ctx, phase, hp.History())
}
