// Package config provides configuration management for filterattrs.
//
// Configuration is loaded from three sources with the following precedence
// (highest to lowest):
//  1. CLI flags
//  2. Environment variables (FILTERATTRS_ prefix)
//  3. Config file (.filterattrs.yaml)
package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ral-nujan/filterattrs/internal/filter"
	"github.com/ral-nujan/filterattrs/internal/version"
)

// Supported log levels.
const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)

// Supported log formats.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Supported statistics formats.
const (
	StatsFormatYAML = "yaml"
	StatsFormatJSON = "json"
)

// Config represents the global configuration for filterattrs.
type Config struct {
	// LogLevel controls the verbosity of log output.
	// Valid values: debug, info, warn, error.
	LogLevel string `mapstructure:"log-level" json:"logLevel"`

	// LogFormat controls the format of log output.
	// Valid values: text, json.
	LogFormat string `mapstructure:"log-format" json:"logFormat"`

	// NoColor disables colored output.
	NoColor bool `mapstructure:"no-color" json:"noColor"`

	// Quiet suppresses all log output below error level.
	Quiet bool `mapstructure:"quiet" json:"quiet"`

	// Profile names the attribute profile to filter with.
	Profile string `mapstructure:"profile" json:"profile"`

	// Attrs replaces the profile's attribute names when non-empty.
	Attrs []string `mapstructure:"attrs" json:"attrs,omitempty"`

	// Lookahead replaces the profile's block window when non-zero.
	Lookahead int `mapstructure:"lookahead" json:"lookahead,omitempty"`

	// Stats writes filter statistics to stderr after each run.
	Stats bool `mapstructure:"stats" json:"stats"`

	// StatsFormat selects the statistics encoding: yaml or json.
	StatsFormat string `mapstructure:"stats-format" json:"statsFormat"`

	// Requires is a semver constraint the running binary must satisfy,
	// e.g. ">= 0.3.0". Lets shared config files fail fast on old binaries.
	Requires string `mapstructure:"requires" json:"requires,omitempty"`

	// Profiles are custom profiles declared in the config file.
	// Populated by Load from the file's profiles section.
	Profiles map[string]filter.ProfileConfig `mapstructure:"-" json:"profiles,omitempty"`

	// ConfigFile is the resolved path to the config file used.
	// Set by Load, never read from the config itself.
	ConfigFile string `mapstructure:"-" json:"-"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		LogLevel:    LogLevelInfo,
		LogFormat:   LogFormatText,
		NoColor:     false,
		Quiet:       false,
		Profile:     filter.DefaultProfile,
		StatsFormat: StatsFormatYAML,
	}
}

// Validate checks that all config values are valid.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		// valid
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", c.LogLevel)
	}

	switch c.LogFormat {
	case LogFormatText, LogFormatJSON:
		// valid
	default:
		return fmt.Errorf("invalid log format %q: must be one of text, json", c.LogFormat)
	}

	switch c.StatsFormat {
	case StatsFormatYAML, StatsFormatJSON:
		// valid
	default:
		return fmt.Errorf("invalid stats format %q: must be one of yaml, json", c.StatsFormat)
	}

	if c.Profile == "" {
		return fmt.Errorf("profile must not be empty")
	}

	if c.Lookahead != 0 && c.Lookahead < filter.MinLookahead {
		return fmt.Errorf("invalid lookahead %d: must be 0 (profile default) or at least %d", c.Lookahead, filter.MinLookahead)
	}

	for i, a := range c.Attrs {
		if strings.TrimSpace(a) == "" {
			return fmt.Errorf("attrs[%d]: attribute name must not be empty", i)
		}
	}

	return nil
}

// EffectiveLogLevel returns the log level to use. When Quiet is true the log
// level is overridden to "error" regardless of the configured LogLevel.
func (c *Config) EffectiveLogLevel() string {
	if c.Quiet {
		return LogLevelError
	}

	return c.LogLevel
}

// FilterOptions resolves the configured profile and applies the attrs and
// lookahead overrides on top of it.
func (c *Config) FilterOptions() (filter.Options, error) {
	name := c.Profile
	if name == "" {
		name = filter.DefaultProfile
	}

	p, err := filter.ResolveProfile(name, c.Profiles)
	if err != nil {
		if s := SuggestProfile(name, c.Profiles); s != "" {
			return filter.Options{}, fmt.Errorf("%w (did you mean %q?)", err, s)
		}

		return filter.Options{}, err
	}

	opts := p.Options()

	if len(c.Attrs) > 0 {
		opts.AttrNames = append([]string(nil), c.Attrs...)
	}

	if c.Lookahead != 0 {
		opts.Lookahead = c.Lookahead
	}

	if err := opts.Validate(); err != nil {
		return filter.Options{}, fmt.Errorf("profile %q: %w", name, err)
	}

	return opts, nil
}

// Load initialises configuration from flags, environment variables, and an
// optional config file. A fresh viper instance is used on every call so that
// Load is safe for concurrent tests.
func Load(cmd *cobra.Command, configFile string) (*Config, error) {
	v := viper.New()

	setDefaults(v)
	configureEnv(v)

	if err := configureFile(v, configFile); err != nil {
		return nil, err
	}

	if err := bindFlags(v, cmd); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	// Store the resolved config file path so downstream code can locate it.
	cfg.ConfigFile = v.ConfigFileUsed()

	if cfg.ConfigFile != "" {
		profiles, err := LoadProfiles(cfg.ConfigFile)
		if err != nil {
			return nil, err
		}

		cfg.Profiles = profiles
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := CheckRequires(cfg.Requires, version.GetInfo().Version); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// setDefaults registers default values in viper.
func setDefaults(v *viper.Viper) {
	v.SetDefault("log-level", LogLevelInfo)
	v.SetDefault("log-format", LogFormatText)
	v.SetDefault("no-color", false)
	v.SetDefault("quiet", false)
	v.SetDefault("profile", filter.DefaultProfile)
	v.SetDefault("attrs", []string{})
	v.SetDefault("lookahead", 0)
	v.SetDefault("stats", false)
	v.SetDefault("stats-format", StatsFormatYAML)
	v.SetDefault("requires", "")
}

// configureEnv sets up environment variable support.
func configureEnv(v *viper.Viper) {
	v.SetEnvPrefix("FILTERATTRS")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
}

// configureFile sets up the config file source.
func configureFile(v *viper.Viper, configFile string) error {
	if configFile != "" {
		v.SetConfigFile(configFile)

		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file %q: %w", configFile, err)
		}

		return nil
	}

	// Auto-discovery mode.
	v.SetConfigName(".filterattrs")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "filterattrs"))
	}

	if err := v.ReadInConfig(); err != nil {
		// No config file found → perfectly fine in auto-discovery.
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}

		// Found a file but it was malformed.
		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// bindFlags walks from cmd up to the root and binds all PersistentFlags.
func bindFlags(v *viper.Viper, cmd *cobra.Command) error {
	if cmd == nil {
		return nil
	}

	// Bind the current command's own flags.
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("binding flags: %w", err)
	}

	// Walk up to root and bind all persistent flags at each level.
	for c := cmd; c != nil; c = c.Parent() {
		if err := v.BindPFlags(c.PersistentFlags()); err != nil {
			return fmt.Errorf("binding persistent flags: %w", err)
		}
	}

	return nil
}

// ---------------------------------------------------------------------------
// Context helpers
// ---------------------------------------------------------------------------

type ctxKey struct{}

// NewContext returns a child context carrying cfg.
func NewContext(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, ctxKey{}, cfg)
}

// FromContext extracts a Config from ctx, falling back to Default().
func FromContext(ctx context.Context) *Config {
	if cfg, ok := ctx.Value(ctxKey{}).(*Config); ok {
		return cfg
	}

	return Default()
}
