package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validTestConfig() *Config {
	return &Config{
		App:    AppConfig{Environment: "development"},
		Logger: LoggerConfig{Level: "info"},
		Server: ServerConfig{Port: "8080"},
		Data: DataConfig{
			BasePath: "/tmp/narrate-test",
		},
		Playback: PlaybackConfig{
			SampleInterval:   50 * time.Millisecond,
			PersistInterval:  10 * time.Second,
			MaxSentenceWords: 30,
		},
	}
}

func TestValidate(t *testing.T) {
	assert.NoError(t, validTestConfig().Validate())
}

func TestValidate_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{
			name:   "bad environment",
			mutate: func(c *Config) { c.App.Environment = "testing" },
		},
		{
			name:   "bad log level",
			mutate: func(c *Config) { c.Logger.Level = "verbose" },
		},
		{
			name:   "empty base path",
			mutate: func(c *Config) { c.Data.BasePath = "" },
		},
		{
			name:   "zero sentence bound",
			mutate: func(c *Config) { c.Playback.MaxSentenceWords = 0 },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validTestConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestExpandPaths_Defaults(t *testing.T) {
	cfg := validTestConfig()
	cfg.Data.BasePath = ""
	cfg.Data.ReadingsPath = ""

	require.NoError(t, cfg.expandPaths())

	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "Narrate"), cfg.Data.BasePath)
	assert.Equal(t, filepath.Join(cfg.Data.BasePath, "readings"), cfg.Data.ReadingsPath)
	assert.Equal(t, filepath.Join(cfg.Data.BasePath, "db"), cfg.Data.StorePath)
	assert.Equal(t, filepath.Join(cfg.Data.BasePath, "search"), cfg.Data.SearchPath)
}

func TestExpandPaths_TildeExpansion(t *testing.T) {
	cfg := validTestConfig()
	cfg.Data.BasePath = "~/narrate-data"

	require.NoError(t, cfg.expandPaths())

	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "narrate-data"), cfg.Data.BasePath)
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	content := "# comment line\nNARRATE_TEST_KEY=from-file\n\nNARRATE_TEST_QUOTED=\"quoted value\"\n"
	require.NoError(t, os.WriteFile(envPath, []byte(content), 0o644))

	t.Setenv("NARRATE_TEST_KEY", "")
	t.Setenv("NARRATE_TEST_QUOTED", "")
	os.Unsetenv("NARRATE_TEST_KEY")
	os.Unsetenv("NARRATE_TEST_QUOTED")

	require.NoError(t, loadEnvFile(envPath))
	assert.Equal(t, "from-file", os.Getenv("NARRATE_TEST_KEY"))
	assert.Equal(t, "quoted value", os.Getenv("NARRATE_TEST_QUOTED"))
}

func TestLoadEnvFile_EnvVarWins(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envPath, []byte("NARRATE_TEST_WINNER=file\n"), 0o644))

	t.Setenv("NARRATE_TEST_WINNER", "env")
	require.NoError(t, loadEnvFile(envPath))
	assert.Equal(t, "env", os.Getenv("NARRATE_TEST_WINNER"))
}

func TestLoadEnvFile_BadFormat(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envPath, []byte("NOT A PAIR\n"), 0o644))

	assert.Error(t, loadEnvFile(envPath))
}

func TestGetConfigValue_Precedence(t *testing.T) {
	t.Setenv("NARRATE_TEST_PRECEDENCE", "from-env")

	assert.Equal(t, "from-flag", getConfigValue("from-flag", "NARRATE_TEST_PRECEDENCE", "default"))
	assert.Equal(t, "from-env", getConfigValue("", "NARRATE_TEST_PRECEDENCE", "default"))
	assert.Equal(t, "default", getConfigValue("", "NARRATE_TEST_UNSET", "default"))
}

func TestParseDurationValue(t *testing.T) {
	d, err := parseDurationValue("250ms", "NARRATE_TEST_DURATION", "50ms")
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, d)

	d, err = parseDurationValue("", "NARRATE_TEST_DURATION_UNSET", "10s")
	require.NoError(t, err)
	assert.Equal(t, 10*time.Second, d)

	_, err = parseDurationValue("soon", "NARRATE_TEST_DURATION", "50ms")
	assert.Error(t, err)
}
