package main

import (
	"context"
	"io"
	"os"

	"github.com/go-go-golems/weatherchat/pkg/inference/toolloop"
	"github.com/go-go-golems/weatherchat/pkg/inference/tools"
	ai "github.com/go-go-golems/weatherchat/pkg/steps/ai"
	"github.com/go-go-golems/weatherchat/pkg/steps/ai/prompts"
	"github.com/go-go-golems/weatherchat/pkg/steps/ai/settings"
	"github.com/go-go-golems/weatherchat/pkg/turns"
	"github.com/go-go-golems/weatherchat/pkg/turns/serde"
	"github.com/go-go-golems/weatherchat/pkg/weather"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newChatCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive weather chat",
		RunE: func(cmd *cobra.Command, args []string) error {
			exitOnError, _ := cmd.Flags().GetBool("exit-on-error")
			transcript, _ := cmd.Flags().GetString("save-transcript")
			noColor, _ := cmd.Flags().GetBool("no-color")
			return runChat(cmd.Context(), settings.FromViper(viper.GetViper()), chatOptions{
				in:             cmd.InOrStdin(),
				out:            cmd.OutOrStdout(),
				exitOnError:    exitOnError,
				transcriptPath: transcript,
				noColor:        noColor,
			})
		},
	}
	cmd.Flags().Bool("exit-on-error", false, "Quit when a request to the model fails")
	cmd.Flags().String("save-transcript", "", "Write the conversation history as YAML to this file on exit")
	cmd.Flags().Bool("no-color", false, "Disable colored output")
	return cmd
}

type chatOptions struct {
	in             io.Reader
	out            io.Writer
	exitOnError    bool
	transcriptPath string
	noColor        bool
}

func newRegistry(s *settings.Settings) (*tools.Registry, error) {
	resolver, err := weather.NewResolver(
		weather.WithGeocodeEndpoint(s.Weather.GeocodeURL),
		weather.WithForecastEndpoint(s.Weather.ForecastURL),
		weather.WithGeocodeAPIKey(s.Weather.GeocodeAPIKey),
	)
	if err != nil {
		return nil, err
	}
	reg := tools.NewRegistry()
	if err := weather.Register(reg, resolver); err != nil {
		return nil, err
	}
	return reg, nil
}

func runChat(ctx context.Context, s *settings.Settings, opts chatOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := s.Validate(); err != nil {
		return err
	}
	reg, err := newRegistry(s)
	if err != nil {
		return err
	}

	factory := &ai.StandardAdapterFactory{
		Settings:     s,
		Tools:        []tools.ToolDefinition{weather.ToolDefinition()},
		Instructions: prompts.WeatherInstructions(),
		ExampleCall:  weather.ExampleCall(),
	}
	adapter, err := factory.NewAdapter(ctx)
	if err != nil {
		return errors.Wrap(err, "could not create chat client")
	}
	if c, ok := adapter.(io.Closer); ok {
		defer func() {
			if err := c.Close(); err != nil {
				log.Warn().Err(err).Msg("failed to close client")
			}
		}()
	}

	styles := DefaultStyles()
	if opts.noColor || !isTerminal(opts.out) {
		styles = PlainStyles()
	}
	r := &repl{
		in:          opts.in,
		out:         opts.out,
		styles:      styles,
		adapter:     adapter,
		exitOnError: opts.exitOnError,
	}
	r.loop = toolloop.New(
		toolloop.WithAdapter(adapter),
		toolloop.WithExecutor(reg),
		toolloop.WithToolCallHook(r.toolNotice),
		toolloop.WithSnapshotHook(logTranscript(sessionID(adapter))),
	)

	r.banner(string(s.Chat.Client), s.Chat.EffectiveModel())
	runErr := r.run(ctx)

	if opts.transcriptPath != "" {
		if err := saveTranscript(opts.transcriptPath, adapter); err != nil {
			log.Error().Err(err).Str("path", opts.transcriptPath).Msg("could not save transcript")
		}
	}
	return runErr
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func sessionID(a any) string {
	if s, ok := a.(interface{ SessionID() string }); ok {
		return s.SessionID()
	}
	return ""
}

// logTranscript dumps the history as YAML when debug logging is enabled.
func logTranscript(id string) toolloop.SnapshotHook {
	return func(ctx context.Context, phase string, history []turns.Turn) {
		if zerolog.GlobalLevel() > zerolog.DebugLevel {
			return
		}
		b, err := serde.ToYAML(id, history)
		if err != nil {
			log.Debug().Err(err).Msg("could not serialize transcript")
			return
		}
		log.Debug().Str("session_id", id).Str("phase", phase).Msg("transcript:\n" + string(b))
	}
}

func saveTranscript(path string, adapter any) error {
	hp, ok := adapter.(interface{ History() []turns.Turn })
	if !ok {
		return errors.New("client does not expose its history")
	}
	return serde.SaveTranscriptYAML(path, sessionID(adapter), hp.History())
}
