package turns

import (
	"github.com/google/uuid"
)

// Role identifies who produced a Turn. It also decides how the Turn is
// serialized back to each backend.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

func (r Role) String() string {
	return string(r)
}

// ToolCall is a model's request to invoke a tool.
//
// ID is the correlation id some backends require to be echoed back with the
// tool's result. It stays empty for backends that correlate implicitly.
type ToolCall struct {
	Name        string         `yaml:"name" json:"name"`
	Arguments   map[string]any `yaml:"arguments" json:"arguments"`
	Description string         `yaml:"description,omitempty" json:"description,omitempty"`
	ID          string         `yaml:"id,omitempty" json:"id,omitempty"`
}

// Clone returns a copy of the call with its own arguments map.
func (c *ToolCall) Clone() *ToolCall {
	if c == nil {
		return nil
	}
	out := *c
	out.Arguments = cloneMap(c.Arguments)
	return &out
}

// ToolResult is the opaque mapping produced by a tool resolver. It is passed
// back to the backend verbatim.
type ToolResult map[string]any

// ErrorResult builds the error-shaped result tool resolvers return instead of
// failing.
func ErrorResult(reason string) ToolResult {
	return ToolResult{"error": reason}
}

// Error returns the error reason carried by the result, if any.
func (r ToolResult) Error() (string, bool) {
	if r == nil {
		return "", false
	}
	s, ok := r["error"].(string)
	return s, ok
}

func (r ToolResult) Clone() ToolResult {
	if r == nil {
		return nil
	}
	return ToolResult(cloneMap(r))
}

// Turn is one message of a conversation transcript.
//
//   - user and system turns carry Text.
//   - assistant turns carry either Text or ToolCall.
//   - tool turns carry Result, and ToolCall names the call being answered.
type Turn struct {
	ID       string     `yaml:"id,omitempty"`
	Role     Role       `yaml:"role"`
	Text     string     `yaml:"text,omitempty"`
	ToolCall *ToolCall  `yaml:"tool_call,omitempty"`
	Result   ToolResult `yaml:"result,omitempty"`
}

// IsToolCall reports whether this is an assistant turn requesting a tool.
func (t Turn) IsToolCall() bool {
	return t.Role == RoleAssistant && t.ToolCall != nil
}

// Clone returns a deep copy of the Turn that can be mutated freely.
func (t Turn) Clone() Turn {
	out := t
	out.ToolCall = t.ToolCall.Clone()
	out.Result = t.Result.Clone()
	return out
}

func NewUserTurn(text string) Turn {
	return Turn{ID: uuid.NewString(), Role: RoleUser, Text: text}
}

func NewSystemTurn(text string) Turn {
	return Turn{ID: uuid.NewString(), Role: RoleSystem, Text: text}
}

func NewAssistantTextTurn(text string) Turn {
	return Turn{ID: uuid.NewString(), Role: RoleAssistant, Text: text}
}

// NewToolCallTurn records the assistant asking for a tool invocation.
func NewToolCallTurn(call ToolCall) Turn {
	return Turn{ID: uuid.NewString(), Role: RoleAssistant, ToolCall: call.Clone()}
}

// NewToolResultTurn records the result of the given call. Only the call's
// name and correlation id are kept on the turn.
func NewToolResultTurn(call ToolCall, result ToolResult) Turn {
	return Turn{
		ID:   uuid.NewString(),
		Role: RoleTool,
		ToolCall: &ToolCall{
			Name: call.Name,
			ID:   call.ID,
		},
		Result: result.Clone(),
	}
}

// cloneMap copies nested maps and slices so that callers cannot mutate a
// stored turn through a value they handed in.
func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch vv := v.(type) {
	case map[string]any:
		return cloneMap(vv)
	case ToolResult:
		return vv.Clone()
	case []any:
		cp := make([]any, len(vv))
		for i := range vv {
			cp[i] = cloneValue(vv[i])
		}
		return cp
	default:
		return v
	}
}
