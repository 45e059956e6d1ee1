// Package logger configures the structured logger shared by the CLI and the
// driver. Loggers travel through context.Context.
package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	charmlog "github.com/charmbracelet/log"
)

// Config holds the logger configuration.
type Config struct {
	Level      string
	Output     io.Writer
	JSON       bool
	TimeFormat string
}

// DefaultConfig logs warnings and above to stderr.
func DefaultConfig() *Config {
	return &Config{
		Level:      "warn",
		Output:     os.Stderr,
		TimeFormat: "15:04:05",
	}
}

// ParseLevel maps debug|info|warn|error to a level.
func ParseLevel(s string) (charmlog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return charmlog.DebugLevel, nil
	case "info", "":
		return charmlog.InfoLevel, nil
	case "warn", "warning":
		return charmlog.WarnLevel, nil
	case "error":
		return charmlog.ErrorLevel, nil
	}
	return charmlog.InfoLevel, fmt.Errorf("invalid log level %q (expected debug|info|warn|error)", s)
}

// New builds a logger from cfg.
func New(cfg *Config) (*charmlog.Logger, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	l := charmlog.NewWithOptions(out, charmlog.Options{
		ReportTimestamp: true,
		TimeFormat:      cfg.TimeFormat,
		Level:           level,
		Prefix:          "mvvmgen",
	})
	if cfg.JSON {
		l.SetFormatter(charmlog.JSONFormatter)
	} else {
		l.SetFormatter(charmlog.TextFormatter)
		l.SetStyles(defaultStyles())
	}
	return l, nil
}

// Discard returns a logger that drops everything.
func Discard() *charmlog.Logger {
	return charmlog.NewWithOptions(io.Discard, charmlog.Options{Level: charmlog.FatalLevel})
}

// WithContext attaches l to ctx.
func WithContext(ctx context.Context, l *charmlog.Logger) context.Context {
	return charmlog.WithContext(ctx, l)
}

// FromContext returns the logger carried by ctx, or a discarding logger.
func FromContext(ctx context.Context) *charmlog.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(charmlog.ContextKey).(*charmlog.Logger); ok && l != nil {
			return l
		}
	}
	return Discard()
}

func defaultStyles() *charmlog.Styles {
	styles := charmlog.DefaultStyles()
	styles.Levels[charmlog.DebugLevel] = styles.Levels[charmlog.DebugLevel].SetString("DEBUG")
	styles.Levels[charmlog.InfoLevel] = styles.Levels[charmlog.InfoLevel].SetString("INFO")
	styles.Levels[charmlog.WarnLevel] = styles.Levels[charmlog.WarnLevel].SetString("WARN")
	styles.Levels[charmlog.ErrorLevel] = styles.Levels[charmlog.ErrorLevel].SetString("ERROR")
	return styles
}
