package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/slurmsweep/internal/errors"
	"github.com/felixgeelhaar/slurmsweep/internal/log"
)

func testFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("config", "", "")
	flags.String("log-level", DefaultLogLevel, "")
	flags.String("log-format", DefaultLogFormat, "")
	flags.StringP("format", "f", DefaultFormat, "")
	flags.BoolP("verbose", "v", false, "")
	flags.String("configfile", DefaultConfigFile, "")
	flags.String("array", DefaultArray, "")
	flags.Bool("yes", false, "")
	require.NoError(t, flags.Parse(args))
	return flags
}

func TestLoadDefaults(t *testing.T) {
	testChdir(t, t.TempDir())

	s, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultSbatchBinary, s.SbatchBinary)
	assert.Equal(t, DefaultStateDir, s.StateDir)
	assert.Equal(t, DefaultConfigFile, s.ConfigFile)
	assert.Equal(t, DefaultArray, s.Array)
	assert.Equal(t, DefaultLogLevel, s.LogLevel)
	assert.Equal(t, DefaultFormat, s.Format)
	assert.False(t, s.Yes)
	assert.False(t, s.ConfigFileExplicit)
	assert.Empty(t, s.SettingsFile)
}

func TestLoadSettingsFileFromWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	testChdir(t, dir)

	require.NoError(t, os.WriteFile("slurmsweep.yaml", []byte(`
sbatch_binary: /opt/slurm/bin/sbatch
state_dir: /scratch/sweeps
array: "0-{count}%20"
`), 0644))

	s, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, "slurmsweep.yaml", s.SettingsFile)
	assert.Equal(t, "/opt/slurm/bin/sbatch", s.SbatchBinary)
	assert.Equal(t, "/scratch/sweeps", s.StateDir)
	assert.Equal(t, "0-{count}%20", s.Array)
	assert.Equal(t, DefaultLogLevel, s.LogLevel)
}

func TestLoadExplicitSettingsFile(t *testing.T) {
	testChdir(t, t.TempDir())
	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("config_file: cluster.toml\nformat: json\n"), 0644))

	s, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, path, s.SettingsFile)
	assert.Equal(t, "cluster.toml", s.ConfigFile)
	assert.True(t, s.ConfigFileExplicit)
	assert.Equal(t, "json", s.Format)
}

func TestLoadExplicitSettingsFileMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrFileNotFound)
}

func TestLoadSettingsFileInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("state_dir: [unclosed\n"), 0644))

	_, err := Load(path, nil)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeFileUnmarshal, errors.CodeOf(err))
}

func TestLoadPrecedence(t *testing.T) {
	testChdir(t, t.TempDir())
	require.NoError(t, os.WriteFile("slurmsweep.yaml", []byte("state_dir: from-file\narray: from-file\nlog_level: error\n"), 0644))

	t.Setenv("SLURMSWEEP_STATE_DIR", "from-env")
	t.Setenv("SLURMSWEEP_ARRAY", "from-env")
	t.Setenv("SLURMSWEEP_YES", "true")

	flags := testFlags(t, "--array=from-flag", "--configfile=cluster.toml")

	s, err := Load("", flags)
	require.NoError(t, err)

	assert.Equal(t, "from-env", s.StateDir, "env overrides file")
	assert.Equal(t, "from-flag", s.Array, "flag overrides env")
	assert.Equal(t, "error", s.LogLevel, "file overrides default")
	assert.True(t, s.Yes)
	assert.Equal(t, "cluster.toml", s.ConfigFile)
	assert.True(t, s.ConfigFileExplicit)
}

func TestLoadUnchangedFlagsDoNotOverride(t *testing.T) {
	testChdir(t, t.TempDir())
	t.Setenv("SLURMSWEEP_ARRAY", "1-{count}")

	s, err := Load("", testFlags(t))
	require.NoError(t, err)
	assert.Equal(t, "1-{count}", s.Array)
}

func TestLoadVerbose(t *testing.T) {
	testChdir(t, t.TempDir())

	s, err := Load("", testFlags(t, "-v"))
	require.NoError(t, err)
	assert.Equal(t, "info", s.LogLevel)

	s, err = Load("", testFlags(t, "-v", "--log-level=debug"))
	require.NoError(t, err)
	assert.Equal(t, "debug", s.LogLevel)
}

func TestLoadInvalidFlagValue(t *testing.T) {
	testChdir(t, t.TempDir())

	_, err := Load("", testFlags(t, "--format=xml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrInvalidSettings)
}

func TestValidate(t *testing.T) {
	valid := func() Settings {
		return Settings{
			SbatchBinary: "sbatch",
			StateDir:     ".slurmsweep",
			Array:        "0-{count}",
			LogLevel:     "warn",
			LogFormat:    "text",
			Format:       "text",
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Settings)
		wantErr string
	}{
		{name: "valid", mutate: func(*Settings) {}},
		{name: "yaml output", mutate: func(s *Settings) { s.Format = "yaml" }},
		{name: "empty binary", mutate: func(s *Settings) { s.SbatchBinary = " " }, wantErr: "sbatch_binary"},
		{name: "empty state dir", mutate: func(s *Settings) { s.StateDir = "" }, wantErr: "state_dir"},
		{name: "empty array", mutate: func(s *Settings) { s.Array = "" }, wantErr: "array"},
		{name: "bad log level", mutate: func(s *Settings) { s.LogLevel = "loud" }, wantErr: "log level"},
		{name: "bad log format", mutate: func(s *Settings) { s.LogFormat = "xml" }, wantErr: "log format"},
		{name: "bad output format", mutate: func(s *Settings) { s.Format = "csv" }, wantErr: "output format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid()
			tt.mutate(&s)
			err := s.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLogConfig(t *testing.T) {
	s := Settings{LogLevel: "debug", LogFormat: "json"}
	cfg, err := s.LogConfig()
	require.NoError(t, err)
	assert.Equal(t, log.LevelDebug, cfg.Level)
	assert.Equal(t, log.FormatJSON, cfg.Format)
}

// testChdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent to testing.T.Chdir, which needs Go 1.24).
func testChdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatal(err)
		}
	})
}
