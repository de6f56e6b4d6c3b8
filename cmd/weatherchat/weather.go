package main

import (
	"context"

	"github.com/go-go-golems/weatherchat/pkg/inference/tools"
	"github.com/go-go-golems/weatherchat/pkg/steps/ai/settings"
	"github.com/go-go-golems/weatherchat/pkg/turns"
	"github.com/go-go-golems/weatherchat/pkg/weather"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

const maxParallelLookups = 4

// newWeatherCommand runs the weather tool directly, without a model.
func newWeatherCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "weather <location>...",
		Short:   "Look up the current weather, one argument per location",
		Example: `  weatherchat weather Paris "New York"`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := settings.FromViper(viper.GetViper())
			reg, err := newRegistry(s)
			if err != nil {
				return err
			}
			results, err := lookupAll(cmd.Context(), reg, args)
			if err != nil {
				return err
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			defer func() { _ = enc.Close() }()
			return enc.Encode(results)
		},
	}
}

type lookup struct {
	Location string           `yaml:"location"`
	Result   turns.ToolResult `yaml:"result"`
}

// lookupAll resolves the locations concurrently and returns the results in
// argument order.
func lookupAll(ctx context.Context, exec tools.Executor, locations []string) ([]lookup, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	results := make([]lookup, len(locations))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelLookups)
	for i, location := range locations {
		g.Go(func() error {
			results[i] = lookup{
				Location: location,
				Result:   exec.Execute(ctx, weatherCall(location)),
			}
			return ctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func weatherCall(location string) turns.ToolCall {
	call := weather.ExampleCall()
	call.Arguments = map[string]any{"location": location}
	return call
}
