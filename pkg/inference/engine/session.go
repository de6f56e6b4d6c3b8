package engine

import (
	"github.com/go-go-golems/weatherchat/pkg/turns"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// State is the observable state of an adapter session.
type State int

const (
	StateIdle State = iota
	StateToolPending
	StateDone
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateToolPending:
		return "tool_pending"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// Input classifies the arguments of a call to Advance.
type Input int

const (
	InputNone Input = iota
	InputUser
	InputToolResult
)

// ClassifyInput tells which of the two optional Advance inputs was supplied.
func ClassifyInput(userInput string, result turns.ToolResult) (Input, error) {
	switch {
	case userInput != "" && result != nil:
		return InputNone, ErrAmbiguousInput
	case userInput != "":
		return InputUser, nil
	case result != nil:
		return InputToolResult, nil
	default:
		return InputNone, nil
	}
}

// Session holds the bookkeeping every adapter keeps about the latest
// response. Adapters embed it by value and only change it after a response
// was received successfully.
type Session struct {
	ID    string
	Model string

	state   State
	pending *turns.ToolCall
	reply   string
}

func NewSession(model string) Session {
	return Session{ID: uuid.NewString(), Model: model}
}

func (s *Session) SessionID() string {
	return s.ID
}

func (s *Session) State() State {
	return s.state
}

// PendingToolCall returns a copy of the tool call awaiting a result, or nil.
func (s *Session) PendingToolCall() *turns.ToolCall {
	return s.pending.Clone()
}

func (s *Session) TextReply() string {
	return s.reply
}

// SetToolPending records a response that requested a tool.
func (s *Session) SetToolPending(call *turns.ToolCall) {
	s.state = StateToolPending
	s.pending = call.Clone()
	s.reply = ""
}

// SetReply records a plain-text response.
func (s *Session) SetReply(text string) {
	s.state = StateDone
	s.pending = nil
	s.reply = text
}

// Record stores the outcome of a response: a pending call when call is
// non-nil, the text reply otherwise.
func (s *Session) Record(call *turns.ToolCall, text string) {
	if call != nil {
		s.SetToolPending(call)
		return
	}
	s.SetReply(text)
}

// AcceptsToolResult reports whether a tool result can be applied. When it
// cannot, the ignored input is logged.
func (s *Session) AcceptsToolResult() bool {
	if s.state == StateToolPending && s.pending != nil {
		return true
	}
	s.Logger().Debug().Str("state", s.state.String()).Msg("ignoring tool result, no tool call pending")
	return false
}

// Logger returns a logger carrying the session's fields.
func (s *Session) Logger() *zerolog.Logger {
	l := log.With().Str("session_id", s.ID).Str("model", s.Model).Logger()
	return &l
}
