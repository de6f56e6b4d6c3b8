package settings

import (
	"github.com/go-go-golems/weatherchat/pkg/steps/ai/types"
	"github.com/huandu/go-clone"
)

type ChatSettings struct {
	Client types.ClientType `yaml:"client"`
	// Model defaults to the client's default model when empty.
	Model       string   `yaml:"model,omitempty"`
	HistorySize int      `yaml:"history-size"`
	Temperature *float64 `yaml:"temperature,omitempty"`
}

func NewChatSettings() *ChatSettings {
	return &ChatSettings{
		Client:      types.ClientTypeGeminiGenAI,
		HistorySize: 10,
	}
}

func (s *ChatSettings) Clone() *ChatSettings {
	return clone.Clone(s).(*ChatSettings)
}

// EffectiveModel returns the configured model or the client's default.
func (s *ChatSettings) EffectiveModel() string {
	if s.Model != "" {
		return s.Model
	}
	return s.Client.DefaultModel()
}

// EffectiveTemperature returns the sampling temperature. Prompt-based clients
// run at 0 unless configured otherwise.
func (s *ChatSettings) EffectiveTemperature() *float32 {
	if s.Temperature != nil {
		v := float32(*s.Temperature)
		return &v
	}
	if s.Client.IsPromptBased() {
		v := float32(0)
		return &v
	}
	return nil
}
