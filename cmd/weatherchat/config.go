package main

import (
	"fmt"

	"github.com/go-go-golems/weatherchat/pkg/steps/ai/settings"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the resolved configuration",
	}
	show := &cobra.Command{
		Use:   "show",
		Short: "Print the effective settings with secrets masked",
		RunE: func(cmd *cobra.Command, args []string) error {
			s := settings.FromViper(viper.GetViper())
			b, err := s.Masked().ToYAML()
			if err != nil {
				return err
			}
			if f := viper.ConfigFileUsed(); f != "" {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "# config file: %s\n", f)
			}
			_, err = cmd.OutOrStdout().Write(b)
			return err
		},
	}
	cmd.AddCommand(show)
	return cmd
}
