package gemini

import (
	"github.com/huandu/go-clone"
)

const DefaultOpenAIBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai/"

type Settings struct {
	APIKey string `yaml:"api-key,omitempty"`
	// BaseURL overrides the endpoint of the native API.
	BaseURL string `yaml:"base-url,omitempty"`
	// OpenAIBaseURL is the OpenAI-compatible endpoint used by gemini-openai.
	OpenAIBaseURL string `yaml:"openai-base-url,omitempty"`
}

func NewSettings() *Settings {
	return &Settings{
		OpenAIBaseURL: DefaultOpenAIBaseURL,
	}
}

func (s *Settings) Clone() *Settings {
	return clone.Clone(s).(*Settings)
}
