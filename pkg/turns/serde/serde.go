package serde

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/go-go-golems/weatherchat/pkg/turns"
)

// Transcript is the YAML document shape for a list of turns.
type Transcript struct {
	SessionID string       `yaml:"session_id,omitempty"`
	Turns     []turns.Turn `yaml:"turns"`
}

// NormalizeTurns applies serde defaults (best-effort) without mutating order.
func NormalizeTurns(ts []turns.Turn) {
	for i := range ts {
		t := &ts[i]
		if t.ToolCall != nil && t.ToolCall.Arguments == nil && t.Role == turns.RoleAssistant {
			t.ToolCall.Arguments = map[string]any{}
		}
	}
}

// ToYAML marshals a transcript to YAML using snake_case tags.
func ToYAML(sessionID string, ts []turns.Turn) ([]byte, error) {
	cp := make([]turns.Turn, len(ts))
	for i := range ts {
		cp[i] = ts[i].Clone()
	}
	NormalizeTurns(cp)
	return yaml.Marshal(Transcript{SessionID: sessionID, Turns: cp})
}

// FromYAML unmarshals a transcript from YAML.
func FromYAML(b []byte) (*Transcript, error) {
	var t Transcript
	if err := yaml.Unmarshal(b, &t); err != nil {
		return nil, err
	}
	NormalizeTurns(t.Turns)
	return &t, nil
}

// SaveTranscriptYAML writes a transcript to a YAML file.
func SaveTranscriptYAML(path string, sessionID string, ts []turns.Turn) error {
	data, err := ToYAML(sessionID, ts)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
