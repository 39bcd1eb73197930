package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/MatusOllah/slogcolor"
	"gopkg.in/natefinch/lumberjack.v2"

	"profilebook/config"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New builds the process logger described by cfg. The returned closer
// flushes and releases the log file, if one is used.
func New(cfg config.Config) (*slog.Logger, io.Closer, error) {
	level, err := cfg.Level()
	if err != nil {
		return nil, nil, err
	}

	var (
		out    io.Writer = os.Stderr
		closer io.Closer = nopCloser{}
	)
	if cfg.LogFile != "" {
		writer, err := newRotatingWriter(cfg.LogFile, cfg.LogMaxSizeMB, cfg.LogMaxFiles)
		if err != nil {
			return nil, nil, err
		}
		out, closer = writer, writer
	}

	return slog.New(newHandler(out, cfg.LogFormat, level, cfg.LogFile != "")), closer, nil
}

func newHandler(out io.Writer, format string, level slog.Level, toFile bool) slog.Handler {
	switch format {
	case config.FormatJSON:
		return slog.NewJSONHandler(out, &slog.HandlerOptions{Level: level})
	case config.FormatColor:
		if !toFile {
			opts := *slogcolor.DefaultOptions
			opts.Level = level
			return slogcolor.NewHandler(out, &opts)
		}
	}
	// no escape codes in log files
	return slog.NewTextHandler(out, &slog.HandlerOptions{Level: level})
}

func newRotatingWriter(file string, maxSizeMB, maxFiles int) (*lumberjack.Logger, error) {
	if maxSizeMB <= 0 {
		maxSizeMB = 10
	}
	if maxFiles <= 0 {
		maxFiles = 5
	}

	if err := os.MkdirAll(filepath.Dir(file), 0o700); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	return &lumberjack.Logger{
		Filename:   file,
		MaxSize:    maxSizeMB,
		MaxBackups: maxFiles,
	}, nil
}
