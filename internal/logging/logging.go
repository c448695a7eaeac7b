// Package logging builds the shared structured logger.
package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/idilsaglam/todo-tui/internal/config"
)

// New returns a logger configured from cfg, writing to w.
func New(w io.Writer, cfg *config.Config) (*log.Logger, error) {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}
	formatter := log.TextFormatter
	if cfg.LogFormat == "json" {
		formatter = log.JSONFormatter
	}
	return log.NewWithOptions(w, log.Options{
		Level:           level,
		Formatter:       formatter,
		ReportTimestamp: true,
	}), nil
}

// Open returns a logger plus a closer for its sink.
//
// In TUI mode stderr belongs to the alt-screen renderer, so without an
// explicit log_file everything is discarded there; one-shot CLI commands
// log to stderr as usual.
func Open(cfg *config.Config, tui bool) (*log.Logger, io.Closer, error) {
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		logger, err := New(f, cfg)
		if err != nil {
			f.Close()
			return nil, nil, err
		}
		return logger, f, nil
	}

	var w io.Writer = os.Stderr
	if tui {
		w = io.Discard
	}
	logger, err := New(w, cfg)
	if err != nil {
		return nil, nil, err
	}
	return logger, nopCloser{}, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
