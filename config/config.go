package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/modfin/clix"
	"github.com/urfave/cli/v3"

	"profilebook/store"
)

const envPrefix = "PROFILEBOOK_"

// Log output formats
const (
	FormatColor = "color"
	FormatText  = "text"
	FormatJSON  = "json"
)

// Config is everything the commands share, read from flags and PROFILEBOOK_* variables
type Config struct {
	DB            string `cli:"db"`
	Driver        string `cli:"driver"`
	SchemaVersion int    `cli:"schema-version"`

	LogLevel     string `cli:"log-level"`
	LogFormat    string `cli:"log-format"`
	LogFile      string `cli:"log-file"`
	LogMaxSizeMB int    `cli:"log-max-size-mb"`
	LogMaxFiles  int    `cli:"log-max-files"`
}

// Flags declares the global flags Config is parsed from
func Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			Usage:   "path of the profile database file",
			Value:   "./profilebook.db",
			Sources: cli.EnvVars(envPrefix + "DB"),
		},
		&cli.StringFlag{
			Name:    "driver",
			Usage:   "sqlite driver, sqlite3 (cgo) or sqlite (pure go)",
			Value:   store.DriverCGO,
			Sources: cli.EnvVars(envPrefix + "DRIVER"),
		},
		&cli.IntFlag{
			Name:    "schema-version",
			Usage:   "schema version of the profile table, raising it drops all stored profiles",
			Value:   store.CurrentSchemaVersion,
			Sources: cli.EnvVars(envPrefix + "SCHEMA_VERSION"),
		},
		&cli.StringFlag{
			Name:    "log-level",
			Value:   "info",
			Sources: cli.EnvVars(envPrefix + "LOG_LEVEL"),
		},
		&cli.StringFlag{
			Name:    "log-format",
			Usage:   "color, text or json",
			Value:   FormatColor,
			Sources: cli.EnvVars(envPrefix + "LOG_FORMAT"),
		},
		&cli.StringFlag{
			Name:    "log-file",
			Usage:   "write logs to this file instead of stderr, rotated by size",
			Sources: cli.EnvVars(envPrefix + "LOG_FILE"),
		},
		&cli.IntFlag{
			Name:    "log-max-size-mb",
			Value:   10,
			Sources: cli.EnvVars(envPrefix + "LOG_MAX_SIZE_MB"),
		},
		&cli.IntFlag{
			Name:    "log-max-files",
			Value:   5,
			Sources: cli.EnvVars(envPrefix + "LOG_MAX_FILES"),
		},
	}
}

// FromCommand reads the global flags of cmd into a validated Config
func FromCommand(cmd *cli.Command) (Config, error) {
	cfg := clix.ParseCommand[Config](cmd)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadEnv loads variables from the given dotenv files, ".env" if none are
// given. Missing files are skipped and variables already set win.
func LoadEnv(filenames ...string) error {
	if len(filenames) == 0 {
		filenames = []string{".env"}
	}
	for _, f := range filenames {
		if _, err := os.Stat(f); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("load env file %s: %w", f, err)
		}
	}
	return nil
}

var errInvalidConfig = errors.New("invalid configuration")

func (c Config) Validate() error {
	if c.DB == "" {
		return fmt.Errorf("%w: db must not be empty", errInvalidConfig)
	}
	if c.Driver != store.DriverCGO && c.Driver != store.DriverPureGo {
		return fmt.Errorf("%w: unknown driver %q", errInvalidConfig, c.Driver)
	}
	if c.SchemaVersion < 1 {
		return fmt.Errorf("%w: schema version must be at least 1, got %d", errInvalidConfig, c.SchemaVersion)
	}
	switch c.LogFormat {
	case FormatColor, FormatText, FormatJSON:
	default:
		return fmt.Errorf("%w: unknown log format %q", errInvalidConfig, c.LogFormat)
	}
	if _, err := c.Level(); err != nil {
		return fmt.Errorf("%w: %w", errInvalidConfig, err)
	}
	return nil
}

// Level parses LogLevel, e.g. "debug" or "WARN"
func (c Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, err
	}
	return level, nil
}

// Store returns the store configuration
func (c Config) Store(logger *slog.Logger) store.Config {
	return store.Config{
		Location:      c.DB,
		Driver:        c.Driver,
		SchemaVersion: c.SchemaVersion,
		Logger:        logger,
	}
}
