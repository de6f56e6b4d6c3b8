package ollama

import (
	"github.com/huandu/go-clone"
)

const DefaultOpenAIBaseURL = "http://localhost:11434/v1"

type Settings struct {
	// BaseURL of the native API. Empty means OLLAMA_HOST or the default host.
	BaseURL       string `yaml:"base-url,omitempty"`
	OpenAIBaseURL string `yaml:"openai-base-url,omitempty"`

	NumCtx     *int     `yaml:"num-ctx,omitempty"`
	Seed       *int     `yaml:"seed,omitempty"`
	TopK       *int     `yaml:"top-k,omitempty"`
	TopP       *float64 `yaml:"top-p,omitempty"`
	NumPredict *int     `yaml:"num-predict,omitempty"`
}

func NewSettings() *Settings {
	return &Settings{
		OpenAIBaseURL: DefaultOpenAIBaseURL,
	}
}

func (s *Settings) Clone() *Settings {
	return clone.Clone(s).(*Settings)
}

// Options returns the sampling options understood by the native API.
func (s *Settings) Options() map[string]any {
	ret := map[string]any{}
	if s.NumCtx != nil {
		ret["num_ctx"] = *s.NumCtx
	}
	if s.Seed != nil {
		ret["seed"] = *s.Seed
	}
	if s.TopK != nil {
		ret["top_k"] = *s.TopK
	}
	if s.TopP != nil {
		ret["top_p"] = *s.TopP
	}
	if s.NumPredict != nil {
		ret["num_predict"] = *s.NumPredict
	}
	return ret
}
