// Package logging builds the process logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/idilsaglam/tada/internal/config"
)

const prefix = "tada"

// Logger wraps a charm logger with the file it may own.
type Logger struct {
	*log.Logger
	closeFile func() error
	path      string
}

// New returns a logger honoring cfg. With a log file configured, output goes
// there in logfmt. Otherwise it goes to console as styled text, unless quiet
// is set (the TUI owns the terminal), in which case logs are discarded.
func New(console io.Writer, cfg config.LoggingConfig, quiet bool) (*Logger, error) {
	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parse logging level %q: %w", cfg.Level, err)
	}
	if console == nil || quiet {
		console = io.Discard
	}

	if cfg.File == "" {
		return &Logger{Logger: log.NewWithOptions(console, log.Options{
			Level:           level,
			Prefix:          prefix,
			ReportTimestamp: true,
			TimeFormat:      time.Kitchen,
			Formatter:       log.TextFormatter,
		})}, nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return &Logger{
		Logger: log.NewWithOptions(f, log.Options{
			Level:           level,
			Prefix:          prefix,
			ReportTimestamp: true,
			TimeFormat:      time.RFC3339,
			Formatter:       log.LogfmtFormatter,
		}),
		closeFile: f.Close,
		path:      cfg.File,
	}, nil
}

// Path is the log file in use, if any.
func (l *Logger) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// Close releases the log file.
func (l *Logger) Close() error {
	if l == nil || l.closeFile == nil {
		return nil
	}
	err := l.closeFile()
	l.closeFile = nil
	return err
}
