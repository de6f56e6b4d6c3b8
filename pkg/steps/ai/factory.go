package ai

import (
	"context"

	"github.com/go-go-golems/weatherchat/pkg/inference/engine"
	"github.com/go-go-golems/weatherchat/pkg/inference/tools"
	"github.com/go-go-golems/weatherchat/pkg/steps/ai/gemini"
	"github.com/go-go-golems/weatherchat/pkg/steps/ai/ollama"
	"github.com/go-go-golems/weatherchat/pkg/steps/ai/openai"
	"github.com/go-go-golems/weatherchat/pkg/steps/ai/settings"
	"github.com/go-go-golems/weatherchat/pkg/steps/ai/types"
	"github.com/go-go-golems/weatherchat/pkg/turns"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// StandardAdapterFactory builds the adapter selected by the chat settings.
type StandardAdapterFactory struct {
	Settings     *settings.Settings
	Tools        []tools.ToolDefinition
	Instructions string
	// ExampleCall is shown to prompt-based models as a sample tool call.
	ExampleCall turns.ToolCall
}

// NewAdapter creates a new session. Callers close the returned adapter when
// it implements io.Closer.
func (f *StandardAdapterFactory) NewAdapter(ctx context.Context) (engine.Adapter, error) {
	if f.Settings == nil {
		return nil, errors.New("no settings")
	}
	settings_ := f.Settings.Clone()
	if err := settings_.Validate(); err != nil {
		return nil, err
	}

	cfg := engine.Config{
		Model:        settings_.Chat.EffectiveModel(),
		Instructions: f.Instructions,
		Tools:        f.Tools,
		HistorySize:  settings_.Chat.HistorySize,
		Temperature:  settings_.Chat.EffectiveTemperature(),
	}
	log.Debug().Fields(settings_.GetMetadata()).Msg("creating adapter")

	switch settings_.Chat.Client {
	case types.ClientTypeGeminiGenAI:
		return gemini.NewAdapter(ctx, cfg, settings_.Gemini.APIKey, settings_.Gemini.BaseURL)

	case types.ClientTypeGeminiOpenAI:
		client, err := openai.MakeClient(settings_.Gemini.APIKey, settings_.Gemini.OpenAIBaseURL)
		if err != nil {
			return nil, err
		}
		return openai.NewAdapter(cfg, client)

	case types.ClientTypeGemmaOpenAI:
		completer, err := ollama.NewOpenAICompatCompleter(settings_.Ollama.OpenAIBaseURL, cfg.Model)
		if err != nil {
			return nil, err
		}
		if cfg.Temperature != nil {
			completer.Temperature = *cfg.Temperature
		}
		return ollama.NewAdapter(cfg, completer, f.promptBasedOptions(settings_)...)

	case types.ClientTypeGemmaOllama:
		options := settings_.Ollama.Options()
		if cfg.Temperature != nil {
			options["temperature"] = *cfg.Temperature
		}
		completer, err := ollama.NewNativeCompleter(settings_.Ollama.BaseURL, cfg.Model, options)
		if err != nil {
			return nil, err
		}
		return ollama.NewAdapter(cfg, completer, f.promptBasedOptions(settings_)...)
	}

	return nil, errors.Wrapf(settings.ErrUnknownClient, "%q", settings_.Chat.Client)
}

func (f *StandardAdapterFactory) promptBasedOptions(s *settings.Settings) []ollama.Option {
	var options []ollama.Option
	if f.ExampleCall.Name != "" {
		options = append(options, ollama.WithExampleCall(f.ExampleCall))
	}
	if s.Ollama != nil && s.Ollama.NumCtx != nil {
		options = append(options, ollama.WithContextWindow(*s.Ollama.NumCtx))
	}
	return options
}
