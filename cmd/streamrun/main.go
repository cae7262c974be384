// Package main is the entry point for the streamrun CLI.
package main

import (
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sa6mwa/streamrun/internal/config"
	clierrors "github.com/sa6mwa/streamrun/internal/errors"
	"github.com/sa6mwa/streamrun/internal/observability"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "none"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	a := &app{}
	defer a.close()

	rootCmd := newRootCmd(a)
	// A nil slice would make cobra fall back to os.Args.
	rootCmd.SetArgs(append([]string{}, args...))
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	if err := rootCmd.Execute(); err != nil {
		return handleError(stderr, err)
	}
	return clierrors.ExitSuccess
}

// handleError prints err and returns the exit code to use. CLIErrors carry
// their own code and hint; cobra usage errors map to ExitUsage.
func handleError(w io.Writer, err error) int {
	failure := color.New(color.FgRed)
	info := color.New(color.FgCyan)

	var cliErr *clierrors.CLIError
	if clierrors.As(err, &cliErr) {
		failure.Fprintf(w, "✗ %s\n", cliErr.Error())
		if cliErr.Hint != "" {
			info.Fprintf(w, "ℹ %s\n", cliErr.Hint)
		}
		return cliErr.Code
	}

	errStr := err.Error()
	failure.Fprintf(w, "✗ %s\n", errStr)
	if strings.HasPrefix(errStr, "unknown command") ||
		strings.HasPrefix(errStr, "unknown flag") ||
		strings.HasPrefix(errStr, "unknown shorthand flag") ||
		strings.Contains(errStr, "arg(s)") {
		info.Fprintf(w, "ℹ Run 'streamrun --help' for usage\n")
		return clierrors.ExitUsage
	}
	return clierrors.ExitGeneral
}

// flagKeys maps config keys to the flag names that override them.
var flagKeys = map[string]string{
	"executable":     "executable",
	"script":         "script",
	"subcommand":     "subcommand",
	"sink":           "sink",
	"log.level":      "log-level",
	"log.format":     "log-format",
	"log.file":       "log-file",
	"propagate_exit": "propagate-exit",
	"capture":        "capture",
}

func newRootCmd(a *app) *cobra.Command {
	var (
		configFile string
		flagPairs  []string
	)

	rootCmd := &cobra.Command{
		Use:   "streamrun",
		Short: "Launch a child process and stream its output",
		Long: `streamrun starts the configured program and prints everything it writes,
each chunk labelled "stdout: " or "stderr: " as it arrives.

Without a subcommand it runs the configured invocation, by default:
  ` + config.DefaultExecutable + ` ` + config.DefaultScript + ` ` + config.DefaultSubcommand + ` --gsheetid <id>

Configuration is read from --config, ./streamrun.yaml or
~/.config/streamrun/streamrun.yaml, then STREAMRUN_* environment variables,
then flags.`,
		Version:       version + " (" + commit + ")",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(config.LoadOptions{File: configFile})
			if err != nil {
				return clierrors.Wrap(clierrors.ExitConfig, "Invalid configuration", err).
					WithHint("Check the YAML in --config or streamrun.yaml")
			}
			for key, name := range flagKeys {
				if f := cmd.Flags().Lookup(name); f != nil {
					if err := cfg.BindFlag(key, f); err != nil {
						return clierrors.Wrap(clierrors.ExitConfig, "Invalid configuration", err)
					}
				}
			}
			if len(flagPairs) > 0 {
				flags := make([]config.Flag, 0, len(flagPairs))
				for _, pair := range flagPairs {
					f, err := config.ParseFlag(pair)
					if err != nil {
						return clierrors.Wrap(clierrors.ExitUsage, "Invalid --flag", err).
							WithHint("Use --flag name=value, repeat for more flags")
					}
					flags = append(flags, f)
				}
				cfg.Set("flags", flags)
			}

			logger, cleanup, err := observability.NewLogger(&observability.Config{
				Level:   cfg.LogLevel(),
				Format:  cfg.LogFormat(),
				LogFile: cfg.LogFile(),
				Stderr:  cmd.ErrOrStderr(),
				RunName: cmd.CommandPath(),
				Version: version,
			})
			if err != nil {
				return clierrors.Wrap(clierrors.ExitUsage, "Invalid logging configuration", err).
					WithHint("Use --log-level (error|warn|info|debug), --log-format (text|json) and/or --log-file")
			}

			a.cfg = cfg
			a.logger = logger
			a.cleanup = cleanup
			cmd.SetContext(observability.WithLogger(cmd.Context(), logger))
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			inv, err := a.cfg.Invocation()
			if err != nil {
				return clierrors.Wrap(clierrors.ExitConfig, "Invalid invocation", err)
			}
			return a.launch(cmd, inv.Executable, inv.Args())
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "Config file (default ./streamrun.yaml or ~/.config/streamrun/streamrun.yaml)")
	pf.String("sink", config.DefaultSink, "Where child output goes: console or log")
	pf.String("log-level", "info", "Log level: error, warn, info, debug")
	pf.String("log-format", "text", "Log format: text or json")
	pf.String("log-file", "", "Write logs to this file instead of stderr")
	pf.Bool("propagate-exit", false, "Exit with the child's non-zero exit status")
	pf.Bool("capture", false, "Print a byte and chunk count summary after the child exits")
	pf.BoolVar(&a.noColor, "no-color", false, "Disable coloured labels")
	pf.String("executable", config.DefaultExecutable, "Program to start")
	pf.String("script", config.DefaultScript, "First argument, usually the script path")
	pf.String("subcommand", config.DefaultSubcommand, "Positional subcommand after the script")
	pf.StringArrayVar(&flagPairs, "flag", nil, "Named child flag as name=value, passed as --name value (repeatable, replaces configured flags)")

	rootCmd.AddCommand(newExecCmd(a), newConfigCmd(a))

	return rootCmd
}
