// Package config handles streamrun configuration using Viper.
//
// Configuration sources (in priority order):
//  1. Command line flags bound through BindFlag
//  2. Environment variables (STREAMRUN_*)
//  3. Config file (./streamrun.yaml or ~/.config/streamrun/streamrun.yaml)
//  4. Built-in defaults
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Defaults reproduce the bundled report launcher.
const (
	DefaultExecutable = "./scripts/biz_stats/env/bin/python3.6"
	DefaultScript     = "./scripts/biz_stats/main.py"
	DefaultSubcommand = "bikeshare"
	DefaultSheetID    = "1BuR-tIVZBFaxBAoGdu8DHF2v-hhW5BePtOjpxnmpd60"
	DefaultSink       = "console"
)

// Flag is one named option passed to the child as "--Name Value".
type Flag struct {
	Name  string `mapstructure:"name" yaml:"name"`
	Value string `mapstructure:"value" yaml:"value"`
}

// Invocation is the complete description of the child to launch.
type Invocation struct {
	Executable string `mapstructure:"executable" yaml:"executable"`
	Script     string `mapstructure:"script" yaml:"script,omitempty"`
	Subcommand string `mapstructure:"subcommand" yaml:"subcommand,omitempty"`
	Flags      []Flag `mapstructure:"flags" yaml:"flags,omitempty"`
}

// Args builds the ordered argument list: script, subcommand, then each flag
// as "--name value". Empty parts are left out.
func (i Invocation) Args() []string {
	args := make([]string, 0, 2+2*len(i.Flags))
	if i.Script != "" {
		args = append(args, i.Script)
	}
	if i.Subcommand != "" {
		args = append(args, i.Subcommand)
	}
	for _, f := range i.Flags {
		args = append(args, "--"+f.Name, f.Value)
	}
	return args
}

// ParseFlag parses "name=value" (a leading "--" on name is dropped).
func ParseFlag(s string) (Flag, error) {
	name, value, ok := strings.Cut(s, "=")
	name = strings.TrimLeft(strings.TrimSpace(name), "-")
	if !ok || name == "" {
		return Flag{}, fmt.Errorf("invalid flag %q (want name=value)", s)
	}
	return Flag{Name: name, Value: value}, nil
}

// Config holds the streamrun configuration.
type Config struct {
	v *viper.Viper
}

// LoadOptions controls where Load looks for a config file.
type LoadOptions struct {
	// File is an explicit config file. When set it must exist.
	File string
	// Dirs overrides the search path used when File is empty.
	Dirs []string
}

// Load reads configuration from all sources.
func Load(opts LoadOptions) (*Config, error) {
	v := viper.New()

	v.SetDefault("executable", DefaultExecutable)
	v.SetDefault("script", DefaultScript)
	v.SetDefault("subcommand", DefaultSubcommand)
	v.SetDefault("flags", []map[string]any{{"name": "gsheetid", "value": DefaultSheetID}})
	v.SetDefault("sink", DefaultSink)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.file", "")
	v.SetDefault("propagate_exit", false)
	v.SetDefault("capture", false)

	if opts.File != "" {
		v.SetConfigFile(opts.File)
	} else {
		v.SetConfigName("streamrun")
		v.SetConfigType("yaml")
		for _, dir := range searchDirs(opts.Dirs) {
			v.AddConfigPath(dir)
		}
	}

	v.SetEnvPrefix("STREAMRUN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if opts.File != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	return &Config{v: v}, nil
}

func searchDirs(dirs []string) []string {
	if len(dirs) > 0 {
		return dirs
	}
	out := []string{"."}
	if home, err := os.UserHomeDir(); err == nil {
		out = append(out, filepath.Join(home, ".config", "streamrun"))
	}
	return out
}

// BindFlag makes a command line flag take precedence over the other sources
// for key, but only when the flag was set explicitly.
func (c *Config) BindFlag(key string, flag *pflag.Flag) error {
	if flag == nil {
		return fmt.Errorf("bind %s: nil flag", key)
	}
	return c.v.BindPFlag(key, flag)
}

// Set overrides key for the lifetime of c.
func (c *Config) Set(key string, value any) {
	c.v.Set(key, value)
}

// File returns the config file in use, or "" when none was found.
func (c *Config) File() string {
	return c.v.ConfigFileUsed()
}

// GetString returns a configuration value as string.
func (c *Config) GetString(key string) string {
	return c.v.GetString(key)
}

// GetBool returns a configuration value as bool.
func (c *Config) GetBool(key string) bool {
	return c.v.GetBool(key)
}

// Invocation decodes the configured child invocation.
func (c *Config) Invocation() (Invocation, error) {
	var inv Invocation
	if err := c.v.Unmarshal(&inv); err != nil {
		return Invocation{}, fmt.Errorf("decode invocation: %w", err)
	}
	for idx, f := range inv.Flags {
		if strings.TrimSpace(f.Name) == "" {
			return Invocation{}, fmt.Errorf("decode invocation: flags[%d] has no name", idx)
		}
	}
	return inv, nil
}

// LogLevel returns the configured log level.
func (c *Config) LogLevel() string { return c.GetString("log.level") }

// LogFormat returns the configured log format.
func (c *Config) LogFormat() string { return c.GetString("log.format") }

// LogFile returns the configured log file, "" for stderr.
func (c *Config) LogFile() string { return c.GetString("log.file") }

// Sink returns the configured output sink name.
func (c *Config) Sink() string { return c.GetString("sink") }

// PropagateExit reports whether the child's exit status becomes the
// launcher's.
func (c *Config) PropagateExit() bool { return c.GetBool("propagate_exit") }

// Capture reports whether a byte-count summary is printed after the drain.
func (c *Config) Capture() bool { return c.GetBool("capture") }
