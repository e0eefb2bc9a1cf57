// Package config loads slurmsweep settings.
//
// Precedence, highest first: explicitly set flags, SLURMSWEEP_* environment
// variables, the settings file (slurmsweep.yaml), built-in defaults.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/felixgeelhaar/slurmsweep/internal/errors"
	"github.com/felixgeelhaar/slurmsweep/internal/log"
)

// EnvPrefix is the prefix of environment variables read as settings
const EnvPrefix = "SLURMSWEEP_"

// Default values
const (
	DefaultSbatchBinary = "sbatch"
	DefaultStateDir     = ".slurmsweep"
	DefaultConfigFile   = "sbatch-config.toml"
	DefaultArray        = "0-{count}"
	DefaultLogLevel     = "warn"
	DefaultLogFormat    = "text"
	DefaultFormat       = "text"
)

// settingsFiles are searched in the working directory when no file is given
var settingsFiles = []string{"slurmsweep.yaml", "slurmsweep.yml"}

// flagKeys maps flag names whose setting key is not the snake_case name
var flagKeys = map[string]string{
	"configfile": "config_file",
}

// flags that never become settings
var ignoredFlags = map[string]bool{
	"config": true,
}

// Settings holds the resolved configuration
type Settings struct {
	SbatchBinary string `koanf:"sbatch_binary" json:"sbatch_binary" yaml:"sbatch_binary"`
	StateDir     string `koanf:"state_dir" json:"state_dir" yaml:"state_dir"`
	ConfigFile   string `koanf:"config_file" json:"config_file" yaml:"config_file"`
	Array        string `koanf:"array" json:"array" yaml:"array"`
	LogLevel     string `koanf:"log_level" json:"log_level" yaml:"log_level"`
	LogFormat    string `koanf:"log_format" json:"log_format" yaml:"log_format"`
	Format       string `koanf:"format" json:"format" yaml:"format"`
	Yes          bool   `koanf:"yes" json:"yes" yaml:"yes"`
	Verbose      bool   `koanf:"verbose" json:"verbose" yaml:"verbose"`
	NoColor      bool   `koanf:"no_color" json:"no_color" yaml:"no_color"`
	MetricsFile  string `koanf:"metrics_file" json:"metrics_file,omitempty" yaml:"metrics_file,omitempty"`

	// SettingsFile is the settings file that was loaded, if any
	SettingsFile string `koanf:"-" json:"settings_file,omitempty" yaml:"settings_file,omitempty"`
	// ConfigFileExplicit reports whether the sbatch config file was named
	// by the user rather than taken from the default
	ConfigFileExplicit bool `koanf:"-" json:"-" yaml:"-"`
}

// Defaults returns the built-in settings as a flat key map
func Defaults() map[string]any {
	return map[string]any{
		"sbatch_binary": DefaultSbatchBinary,
		"state_dir":     DefaultStateDir,
		"config_file":   DefaultConfigFile,
		"array":         DefaultArray,
		"log_level":     DefaultLogLevel,
		"log_format":    DefaultLogFormat,
		"format":        DefaultFormat,
		"yes":           false,
		"verbose":       false,
		"no_color":      false,
		"metrics_file":  "",
	}
}

// Load resolves settings from defaults, the settings file, the environment
// and flags. An explicit settingsFile must exist; otherwise slurmsweep.yaml
// is used when present in the working directory.
func Load(settingsFile string, flags *pflag.FlagSet) (*Settings, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(Defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	used, err := findSettingsFile(settingsFile)
	if err != nil {
		return nil, err
	}
	if used != "" {
		if err := k.Load(file.Provider(used), yaml.Parser()); err != nil {
			return nil, errors.NewFileUnmarshalError(used, "YAML", err)
		}
	}

	// SLURMSWEEP_STATE_DIR -> state_dir
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed || ignoredFlags[f.Name] {
				return "", nil
			}
			key, ok := flagKeys[f.Name]
			if !ok {
				key = strings.ReplaceAll(f.Name, "-", "_")
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var s Settings
	if err := k.Unmarshal("", &s); err != nil {
		return nil, fmt.Errorf("unable to decode settings: %w", err)
	}
	s.SettingsFile = used
	s.ConfigFileExplicit = k.String("config_file") != DefaultConfigFile

	if s.Verbose && (flags == nil || !flags.Changed("log-level")) && k.String("log_level") == DefaultLogLevel {
		s.LogLevel = "info"
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}

	return &s, nil
}

func findSettingsFile(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", errors.NewFileNotFoundError(explicit)
		}
		return explicit, nil
	}
	for _, name := range settingsFiles {
		if _, err := os.Stat(name); err == nil {
			return name, nil
		}
	}
	return "", nil
}

// Validate checks that every setting has a usable value
func (s *Settings) Validate() error {
	var problems []string

	if strings.TrimSpace(s.SbatchBinary) == "" {
		problems = append(problems, "sbatch_binary must not be empty")
	}
	if strings.TrimSpace(s.StateDir) == "" {
		problems = append(problems, "state_dir must not be empty")
	}
	if strings.TrimSpace(s.Array) == "" {
		problems = append(problems, "array must not be empty")
	}
	if _, err := log.ParseLevel(s.LogLevel); err != nil {
		problems = append(problems, err.Error())
	}
	if _, err := log.ParseFormat(s.LogFormat); err != nil {
		problems = append(problems, err.Error())
	}
	switch s.Format {
	case "text", "json", "yaml":
	default:
		problems = append(problems, fmt.Sprintf("unknown output format %q (want text, json or yaml)", s.Format))
	}

	if len(problems) > 0 {
		return errors.New(errors.ErrCodeInvalidSettings, "invalid settings").WithSuggestions(problems...)
	}
	return nil
}

// LogConfig returns the logger configuration for the settings
func (s *Settings) LogConfig() (log.Config, error) {
	return log.ParseConfig(s.LogLevel, s.LogFormat)
}
