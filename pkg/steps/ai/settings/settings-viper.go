package settings

import (
	"github.com/go-go-golems/weatherchat/pkg/steps/ai/types"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Keys of the configuration values. They double as flag names, as config
// file keys and, upper-cased with WEATHERCHAT_ prefix, as environment variables.
const (
	KeyClient              = "client"
	KeyModel               = "model"
	KeyHistorySize         = "history-size"
	KeyTemperature         = "temperature"
	KeyGeminiAPIKey        = "gemini-api-key"
	KeyGeminiBaseURL       = "gemini-base-url"
	KeyGeminiOpenAIBaseURL = "gemini-openai-base-url"
	KeyOllamaBaseURL       = "ollama-base-url"
	KeyOllamaOpenAIBaseURL = "ollama-openai-base-url"
	KeyOllamaNumCtx        = "ollama-num-ctx"
	KeyGeocodeURL          = "geocode-url"
	KeyGeocodeAPIKey       = "geocode-api-key"
	KeyForecastURL         = "forecast-url"
)

// AddFlags registers the settings flags with their defaults.
func AddFlags(fs *pflag.FlagSet) {
	d := NewSettings()
	fs.String(KeyClient, string(d.Chat.Client), "Client to use: gemini-genai, gemini-openai, gemma-openai or gemma-ollama")
	fs.String(KeyModel, "", "Model name (defaults per client: gemini-2.5-flash, gemma3:1b)")
	fs.Int(KeyHistorySize, d.Chat.HistorySize, "Number of turns kept in the conversation history")
	fs.Float64(KeyTemperature, -1, "Sampling temperature (negative means the client default)")
	fs.String(KeyGeminiAPIKey, "", "Gemini API key (or GEMINI_API_KEY)")
	fs.String(KeyGeminiBaseURL, "", "Override the Gemini native API endpoint")
	fs.String(KeyGeminiOpenAIBaseURL, d.Gemini.OpenAIBaseURL, "Gemini OpenAI-compatible endpoint")
	fs.String(KeyOllamaBaseURL, "", "Ollama native API URL (defaults to OLLAMA_HOST)")
	fs.String(KeyOllamaOpenAIBaseURL, d.Ollama.OpenAIBaseURL, "Ollama OpenAI-compatible endpoint")
	fs.Int(KeyOllamaNumCtx, 0, "Ollama context window size (0 keeps the model default)")
	fs.String(KeyGeocodeURL, d.Weather.GeocodeURL, "Geocoding API base URL")
	fs.String(KeyGeocodeAPIKey, "", "Geocoding API key (or GEOCODE_API_KEY)")
	fs.String(KeyForecastURL, d.Weather.ForecastURL, "Forecast API base URL")
}

// FromViper builds settings from the values bound in v. The GEMINI_API_KEY and
// GEOCODE_API_KEY environment variables are used when the keys are not set
// otherwise.
func FromViper(v *viper.Viper) *Settings {
	s := NewSettings()

	if c := v.GetString(KeyClient); c != "" {
		s.Chat.Client = types.ClientType(c)
	}
	s.Chat.Model = v.GetString(KeyModel)
	if v.IsSet(KeyHistorySize) {
		s.Chat.HistorySize = v.GetInt(KeyHistorySize)
	}
	if v.IsSet(KeyTemperature) {
		if t := v.GetFloat64(KeyTemperature); t >= 0 {
			s.Chat.Temperature = &t
		}
	}

	s.Gemini.APIKey = firstNonEmpty(v.GetString(KeyGeminiAPIKey), v.GetString("GEMINI_API_KEY"))
	s.Gemini.BaseURL = v.GetString(KeyGeminiBaseURL)
	if u := v.GetString(KeyGeminiOpenAIBaseURL); u != "" {
		s.Gemini.OpenAIBaseURL = u
	}

	s.Ollama.BaseURL = v.GetString(KeyOllamaBaseURL)
	if u := v.GetString(KeyOllamaOpenAIBaseURL); u != "" {
		s.Ollama.OpenAIBaseURL = u
	}
	if n := v.GetInt(KeyOllamaNumCtx); n > 0 {
		s.Ollama.NumCtx = &n
	}

	if u := v.GetString(KeyGeocodeURL); u != "" {
		s.Weather.GeocodeURL = u
	}
	s.Weather.GeocodeAPIKey = firstNonEmpty(v.GetString(KeyGeocodeAPIKey), v.GetString("GEOCODE_API_KEY"))
	if u := v.GetString(KeyForecastURL); u != "" {
		s.Weather.ForecastURL = u
	}
	return s
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
