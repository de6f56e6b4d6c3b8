// Package toolcall recognizes tool-call requests that a model without native
// function calling embeds in its plain-text reply.
//
// The expected wire shape is a fenced JSON block:
//
//	```json
//	{"tool_call": {"name": "get_current_weather", "arguments": {"location": "Paris"}}}
//	```
package toolcall

import (
	"encoding/json"
	"strings"

	"github.com/go-go-golems/weatherchat/pkg/steps/parse"
	"github.com/go-go-golems/weatherchat/pkg/turns"
)

const (
	fenceOpen  = "```json"
	fenceClose = "```"
)

// Extract returns the tool call embedded in text, if any.
//
// When text contains a ```json fence, only the content up to the next closing
// fence (or the end of the text when the fence is never closed) is decoded.
// The fences need not sit on their own lines. Otherwise the whole text is
// decoded. When that fails, the first fenced json block of the text read as
// markdown is tried, which skips earlier inline mentions of the fence.
// Anything that does not decode to an object with a tool_call object holding
// a string name and an object of arguments yields (nil, false).
func Extract(text string) (*turns.ToolCall, bool) {
	if call, ok := decode(fencedPayload(text)); ok {
		return call, true
	}
	if code, ok := parse.FirstCodeBlock(text, "json"); ok {
		return decode(code)
	}
	return nil, false
}

func decode(payload string) (*turns.ToolCall, bool) {
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return nil, false
	}

	var envelope map[string]any
	if err := json.Unmarshal([]byte(payload), &envelope); err != nil {
		return nil, false
	}
	call, ok := envelope["tool_call"].(map[string]any)
	if !ok {
		return nil, false
	}
	name, ok := call["name"].(string)
	if !ok {
		return nil, false
	}
	args, ok := call["arguments"].(map[string]any)
	if !ok {
		return nil, false
	}
	return &turns.ToolCall{Name: name, Arguments: args}, true
}

func fencedPayload(text string) string {
	idx := strings.Index(text, fenceOpen)
	if idx < 0 {
		return text
	}
	rest := text[idx+len(fenceOpen):]
	if end := strings.Index(rest, fenceClose); end >= 0 {
		return rest[:end]
	}
	return rest
}

// Render formats a call the way Extract expects to find it. It is used for
// the few-shot example in the local model's instructions.
func Render(call turns.ToolCall) (string, error) {
	args := call.Arguments
	if args == nil {
		args = map[string]any{}
	}
	b, err := json.Marshal(map[string]any{
		"tool_call": map[string]any{
			"name":      call.Name,
			"arguments": args,
		},
	})
	if err != nil {
		return "", err
	}
	return fenceOpen + "\n" + string(b) + "\n" + fenceClose, nil
}
