package config

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"profilebook/store"
)

// runs a command with the global flags and returns what FromCommand read
func parse(t *testing.T, args ...string) (Config, error) {
	t.Helper()
	var (
		cfg    Config
		cfgErr error
	)
	cmd := &cli.Command{
		Name:  "profilebook",
		Flags: Flags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, cfgErr = FromCommand(cmd)
			return nil
		},
	}
	require.NoError(t, cmd.Run(context.Background(), append([]string{"profilebook"}, args...)))
	return cfg, cfgErr
}

func TestDefaults(t *testing.T) {
	cfg, err := parse(t)
	require.NoError(t, err)

	assert.Equal(t, Config{
		DB:            "./profilebook.db",
		Driver:        store.DriverCGO,
		SchemaVersion: store.CurrentSchemaVersion,
		LogLevel:      "info",
		LogFormat:     FormatColor,
		LogMaxSizeMB:  10,
		LogMaxFiles:   5,
	}, cfg)
}

func TestFlagsAndEnv(t *testing.T) {
	t.Setenv("PROFILEBOOK_DRIVER", store.DriverPureGo)
	t.Setenv("PROFILEBOOK_LOG_FORMAT", FormatJSON)

	cfg, err := parse(t, "--db", "/tmp/people.db", "--schema-version", "3", "--log-level", "debug")
	require.NoError(t, err)

	assert.Equal(t, "/tmp/people.db", cfg.DB)
	assert.Equal(t, store.DriverPureGo, cfg.Driver)
	assert.Equal(t, 3, cfg.SchemaVersion)
	assert.Equal(t, FormatJSON, cfg.LogFormat)

	level, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)

	logger := slog.Default()
	assert.Equal(t, store.Config{Location: "/tmp/people.db", Driver: store.DriverPureGo, SchemaVersion: 3, Logger: logger}, cfg.Store(logger))
}

func TestValidate(t *testing.T) {
	valid := Config{DB: "x.db", Driver: store.DriverCGO, SchemaVersion: 1, LogLevel: "info", LogFormat: FormatText}
	require.NoError(t, valid.Validate())

	testCases := []struct {
		name   string
		modify func(c *Config)
	}{
		{name: "empty db", modify: func(c *Config) { c.DB = "" }},
		{name: "unknown driver", modify: func(c *Config) { c.Driver = "mysql" }},
		{name: "zero schema version", modify: func(c *Config) { c.SchemaVersion = 0 }},
		{name: "unknown log format", modify: func(c *Config) { c.LogFormat = "xml" }},
		{name: "unknown log level", modify: func(c *Config) { c.LogLevel = "loud" }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid
			tc.modify(&cfg)
			err := cfg.Validate()
			assert.True(t, errors.Is(err, errInvalidConfig), "got %v", err)
		})
	}
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("PROFILEBOOK_TEST_DB=from-file.db\nPROFILEBOOK_TEST_DRIVER=sqlite\n"), 0o600))

	t.Setenv("PROFILEBOOK_TEST_DRIVER", "sqlite3")
	t.Cleanup(func() { os.Unsetenv("PROFILEBOOK_TEST_DB") })

	require.NoError(t, LoadEnv(filepath.Join(dir, "missing.env"), envFile))

	assert.Equal(t, "from-file.db", os.Getenv("PROFILEBOOK_TEST_DB"))
	assert.Equal(t, "sqlite3", os.Getenv("PROFILEBOOK_TEST_DRIVER"), "existing variables are not overridden")
}
