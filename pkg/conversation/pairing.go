package conversation

import (
	"github.com/go-go-golems/weatherchat/pkg/turns"
	"github.com/rs/zerolog/log"
)

// PairToolTurns drops tool-call turns and tool-result turns that lost their
// counterpart, either through eviction or because a tool round-trip failed
// half way. Backends with a structured tool channel reject such transcripts.
//
// A tool-call turn is paired with the tool-result turn directly following it.
// Calls are matched by correlation id when both sides carry one, by name
// otherwise.
func PairToolTurns(ts []turns.Turn) []turns.Turn {
	out := make([]turns.Turn, 0, len(ts))
	dropped := 0
	for i := 0; i < len(ts); i++ {
		t := ts[i]
		switch {
		case t.IsToolCall():
			if i+1 < len(ts) && answers(ts[i+1], *t.ToolCall) {
				out = append(out, t, ts[i+1])
				i++
				continue
			}
			if i == len(ts)-1 {
				// trailing call: the response currently being resolved
				out = append(out, t)
				continue
			}
			dropped++
		case t.Role == turns.RoleTool:
			dropped++
		default:
			out = append(out, t)
		}
	}
	if dropped > 0 {
		log.Warn().Int("dropped_turns", dropped).Msg("dropped unpaired tool turns from request history")
	}
	return out
}

func answers(t turns.Turn, call turns.ToolCall) bool {
	if t.Role != turns.RoleTool || t.ToolCall == nil {
		return false
	}
	if call.ID != "" && t.ToolCall.ID != "" {
		return call.ID == t.ToolCall.ID
	}
	return call.Name == t.ToolCall.Name
}

// AnchorToolResult puts call back in front of the trailing tool result of
// transcript when eviction removed it. The result being sent always travels
// with the call it answers, even when that makes the request one turn longer
// than the buffer.
func AnchorToolResult(transcript []turns.Turn, call turns.Turn) []turns.Turn {
	n := len(transcript)
	if n == 0 || !call.IsToolCall() || !answers(transcript[n-1], *call.ToolCall) {
		return transcript
	}
	if n >= 2 && transcript[n-2].IsToolCall() && answers(transcript[n-1], *transcript[n-2].ToolCall) {
		return transcript
	}
	out := make([]turns.Turn, 0, n+1)
	out = append(out, transcript[:n-1]...)
	out = append(out, call.Clone(), transcript[n-1])
	return out
}
