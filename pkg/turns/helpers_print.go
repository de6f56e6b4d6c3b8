package turns

import (
	"encoding/json"
	"fmt"
	"io"
)

// FprintTurns prints turns in a readable form to the provided writer,
// one line per turn, similar to a chat transcript.
func FprintTurns(w io.Writer, ts []Turn) {
	for _, t := range ts {
		FprintTurn(w, t)
	}
}

func FprintTurn(w io.Writer, t Turn) {
	switch t.Role {
	case RoleSystem, RoleUser:
		fmt.Fprintf(w, "%s: %s\n", t.Role, textOrPlaceholder(t.Text))
	case RoleAssistant:
		if t.ToolCall != nil {
			fmt.Fprintf(w, "assistant: tool_call %s %s\n", t.ToolCall.Name, compactJSON(t.ToolCall.Arguments))
			return
		}
		fmt.Fprintf(w, "assistant: %s\n", textOrPlaceholder(t.Text))
	case RoleTool:
		name := ""
		if t.ToolCall != nil {
			name = t.ToolCall.Name
		}
		fmt.Fprintf(w, "tool: %s %s\n", name, compactJSON(t.Result))
	default:
		fmt.Fprintf(w, "%s: <unknown role>\n", t.Role)
	}
}

func textOrPlaceholder(s string) string {
	if s == "" {
		return "<no text>"
	}
	return s
}

func compactJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}
