package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	slogmulti "github.com/samber/slog-multi"

	"github.com/phrazzld/casebook/internal/config"
)

// ParseLevel maps a configured level name (case-insensitive) to a slog.Level.
// Unknown names fall back to info.
func ParseLevel(name string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}

// New builds a logger writing JSON records to out. When mirror is non-nil,
// every record is also written to it as text.
func New(cfg config.LogConfig, out io.Writer, mirror io.Writer) *slog.Logger {
	level, _ := ParseLevel(cfg.Level)
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler = slog.NewJSONHandler(out, opts)
	if mirror != nil {
		handler = slogmulti.Fanout(handler, slog.NewTextHandler(mirror, opts))
	}
	return slog.New(handler)
}

// Setup initializes the application's logging system from configuration:
// JSON records on stderr, plus a text copy in cfg.File when set. The logger
// becomes the slog default. The returned closer releases the log file.
func Setup(cfg config.LogConfig) (*slog.Logger, io.Closer, error) {
	if _, ok := ParseLevel(cfg.Level); !ok {
		slog.New(slog.NewTextHandler(os.Stderr, nil)).Warn(
			"invalid log level configured, using default level",
			"configured_level", cfg.Level,
			"default_level", "info")
	}

	var (
		mirror io.Writer
		closer io.Closer = nopCloser{}
	)
	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file %s: %w", cfg.File, err)
		}
		mirror, closer = f, f
	}

	l := New(cfg, os.Stderr, mirror)
	slog.SetDefault(l)
	return l, closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
