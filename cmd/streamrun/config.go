package main

import (
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sa6mwa/streamrun/internal/config"
	clierrors "github.com/sa6mwa/streamrun/internal/errors"
)

type effectiveConfig struct {
	Source     string            `yaml:"source"`
	Invocation config.Invocation `yaml:"invocation"`
	Argv       []string          `yaml:"argv"`
	Sink       string            `yaml:"sink"`
}

func newConfigCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective invocation as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			inv, err := a.cfg.Invocation()
			if err != nil {
				return clierrors.Wrap(clierrors.ExitConfig, "Invalid invocation", err)
			}
			source := a.cfg.File()
			if source == "" {
				source = "defaults"
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			defer enc.Close()
			return enc.Encode(effectiveConfig{
				Source:     source,
				Invocation: inv,
				Argv:       append([]string{inv.Executable}, inv.Args()...),
				Sink:       a.cfg.Sink(),
			})
		},
	}
}
