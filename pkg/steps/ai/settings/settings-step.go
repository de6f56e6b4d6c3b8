package settings

import (
	"io"

	"github.com/go-go-golems/weatherchat/pkg/security"
	"github.com/go-go-golems/weatherchat/pkg/steps/ai/settings/gemini"
	"github.com/go-go-golems/weatherchat/pkg/steps/ai/settings/ollama"
	"github.com/go-go-golems/weatherchat/pkg/steps/ai/types"
	"github.com/huandu/go-clone"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

var (
	ErrUnknownClient = errors.New("unknown client")
	ErrMissingAPIKey = errors.New("missing API key")
)

type Settings struct {
	Chat    *ChatSettings    `yaml:"chat,omitempty"`
	Gemini  *gemini.Settings `yaml:"gemini,omitempty"`
	Ollama  *ollama.Settings `yaml:"ollama,omitempty"`
	Weather *WeatherSettings `yaml:"weather,omitempty"`
}

func NewSettings() *Settings {
	return &Settings{
		Chat:    NewChatSettings(),
		Gemini:  gemini.NewSettings(),
		Ollama:  ollama.NewSettings(),
		Weather: NewWeatherSettings(),
	}
}

// NewSettingsFromYAML decodes settings on top of the defaults.
func NewSettingsFromYAML(r io.Reader) (*Settings, error) {
	s := NewSettings()
	if err := yaml.NewDecoder(r).Decode(s); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Wrap(err, "could not decode settings")
	}
	return s, nil
}

func (s *Settings) Clone() *Settings {
	return clone.Clone(s).(*Settings)
}

func (s *Settings) Validate() error {
	if s.Chat == nil {
		return errors.New("no chat settings")
	}
	if !s.Chat.Client.IsValid() {
		return errors.Wrapf(ErrUnknownClient, "%q (expected one of %v)", s.Chat.Client, types.ClientTypes())
	}
	if s.Chat.HistorySize < 1 {
		return errors.Errorf("history size must be at least 1, got %d", s.Chat.HistorySize)
	}
	if !s.Chat.Client.IsPromptBased() && (s.Gemini == nil || s.Gemini.APIKey == "") {
		return errors.Wrapf(ErrMissingAPIKey, "client %s needs a gemini API key (GEMINI_API_KEY)", s.Chat.Client)
	}
	return s.validateEndpoints()
}

func (s *Settings) validateEndpoints() error {
	type endpoint struct {
		url    string
		policy security.EndpointPolicy
	}
	var endpoints []endpoint
	if s.Gemini != nil {
		endpoints = append(endpoints,
			endpoint{s.Gemini.BaseURL, security.RemoteAPI},
			endpoint{s.Gemini.OpenAIBaseURL, security.RemoteAPI})
	}
	if s.Ollama != nil {
		endpoints = append(endpoints,
			endpoint{s.Ollama.BaseURL, security.LocalService},
			endpoint{s.Ollama.OpenAIBaseURL, security.LocalService})
	}
	if s.Weather != nil {
		endpoints = append(endpoints,
			endpoint{s.Weather.GeocodeURL, security.LocalService},
			endpoint{s.Weather.ForecastURL, security.LocalService})
	}
	for _, e := range endpoints {
		// empty means the client default
		if e.url == "" {
			continue
		}
		if err := security.ValidateEndpointURL(e.url, e.policy); err != nil {
			return err
		}
	}
	return nil
}

// GetMetadata returns the settings relevant for logs.
func (s *Settings) GetMetadata() map[string]interface{} {
	metadata := map[string]interface{}{}
	if s.Chat != nil {
		metadata["client"] = string(s.Chat.Client)
		metadata["model"] = s.Chat.EffectiveModel()
		metadata["history-size"] = s.Chat.HistorySize
		if t := s.Chat.EffectiveTemperature(); t != nil {
			metadata["temperature"] = *t
		}
	}
	if s.Gemini != nil && s.Gemini.BaseURL != "" {
		metadata["gemini-base-url"] = s.Gemini.BaseURL
	}
	if s.Ollama != nil && s.Ollama.BaseURL != "" {
		metadata["ollama-base-url"] = s.Ollama.BaseURL
	}
	return metadata
}

// Masked returns a copy with secrets replaced, for display.
func (s *Settings) Masked() *Settings {
	ret := s.Clone()
	if ret.Gemini != nil {
		ret.Gemini.APIKey = maskSecret(ret.Gemini.APIKey)
	}
	if ret.Weather != nil {
		ret.Weather.GeocodeAPIKey = maskSecret(ret.Weather.GeocodeAPIKey)
	}
	return ret
}

func maskSecret(s string) string {
	switch {
	case s == "":
		return ""
	case len(s) <= 8:
		return "****"
	default:
		return s[:4] + "****"
	}
}

func (s *Settings) ToYAML() ([]byte, error) {
	return yaml.Marshal(s)
}
