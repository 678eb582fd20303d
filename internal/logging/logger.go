package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/nzbgetcom/Extension-RemoveSamples/internal/config"
)

// Options describes logger construction parameters.
type Options struct {
	Debug      bool
	FilePath   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int

	// ConsoleWriter defaults to os.Stdout. Tests substitute a buffer.
	ConsoleWriter io.Writer
}

// New constructs the run logger: an NZBGet-tagged console handler, plus a
// rotating JSON file handler when a file path is configured. The returned
// closer flushes and closes the file sink.
func New(opts Options) (*slog.Logger, func() error) {
	consoleLevel := new(slog.LevelVar)
	if opts.Debug {
		consoleLevel.Set(slog.LevelDebug)
	} else {
		consoleLevel.Set(slog.LevelInfo)
	}

	writer := opts.ConsoleWriter
	if writer == nil {
		writer = os.Stdout
	}
	console := newConsoleHandler(writer, consoleLevel)

	closer := func() error { return nil }
	var file slog.Handler
	if strings.TrimSpace(opts.FilePath) != "" {
		rotator := &lumberjack.Logger{
			Filename:   opts.FilePath,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAgeDays,
			Compress:   true,
		}
		fileLevel := new(slog.LevelVar)
		fileLevel.Set(slog.LevelDebug)
		file = newJSONHandler(rotator, fileLevel)
		closer = rotator.Close
	}

	return slog.New(newFanoutHandler(console, file)), closer
}

// NewFromConfig builds the logger from ambient config plus the run debug flag.
func NewFromConfig(cfg *config.Config, debug bool) (*slog.Logger, func() error) {
	if cfg == nil {
		return New(Options{Debug: debug})
	}
	return New(Options{
		Debug:      debug,
		FilePath:   cfg.Logging.File,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
	})
}

func newJSONHandler(w io.Writer, level *slog.LevelVar) slog.Handler {
	opts := slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, attr slog.Attr) slog.Attr {
			switch attr.Key {
			case slog.TimeKey:
				attr.Key = "ts"
				if attr.Value.Kind() == slog.KindTime {
					attr.Value = slog.StringValue(attr.Value.Time().UTC().Format(time.RFC3339))
				}
			case slog.LevelKey:
				attr.Key = "level"
				if level, ok := attr.Value.Any().(slog.Level); ok {
					attr.Value = slog.StringValue(strings.ToLower(levelTag(level)))
				}
			case slog.MessageKey:
				attr.Key = "msg"
			case slog.SourceKey:
				if src, ok := attr.Value.Any().(*slog.Source); ok && src != nil {
					attr.Value = slog.StringValue(fmt.Sprintf("%s:%d", filepath.Base(src.File), src.Line))
				}
			}
			return attr
		},
	}
	return slog.NewJSONHandler(w, &opts)
}
