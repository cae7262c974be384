package main

import (
	"github.com/spf13/cobra"
)

func newExecCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exec [flags] PATH [ARGS...]",
		Short: "Run an ad-hoc command instead of the configured invocation",
		Example: `  streamrun exec echo hello
  streamrun --propagate-exit exec -- /bin/sh -c 'echo oops >&2; exit 1'`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.launch(cmd, args[0], args[1:])
		},
	}
	cmd.Flags().SetInterspersed(false)
	return cmd
}
