package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/nerrad567/ebus-core/internal/infrastructure/config"
)

// Logger wraps slog.Logger so every record carries the identity of the
// bus this process is attached to. One ebusd instance serves exactly
// one bus, and a broker or log aggregator usually sees several
// instances at once; the service/bus pair is what tells them apart.
type Logger struct {
	*slog.Logger
}

// New builds a Logger from the logging section of config.yaml. Format
// selects a JSON or text slog handler, output selects stdout/stderr,
// and busID is stamped on every record alongside the service name.
func New(cfg config.LoggingConfig, busID string) *Logger {
	var output io.Writer
	switch strings.ToLower(cfg.Output) {
	case "stderr":
		output = os.Stderr
	default:
		output = os.Stdout
	}

	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}

	var handler slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "text":
		handler = slog.NewTextHandler(output, opts)
	default:
		handler = slog.NewJSONHandler(output, opts)
	}

	attrs := []slog.Attr{slog.String("service", "ebusd")}
	if busID != "" {
		attrs = append(attrs, slog.String("bus", busID))
	}

	return &Logger{Logger: slog.New(handler.WithAttrs(attrs))}
}

// parseLevel maps the configured level string onto slog's levels,
// defaulting to info for anything it does not recognise.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// With returns a child Logger carrying additional default attributes,
// typically a component name:
//
//	serialLog := logger.With("component", "serial")
func (l *Logger) With(args ...any) *Logger {
	return &Logger{Logger: l.Logger.With(args...)}
}

// Default is the bootstrap logger used before config.yaml has been
// read: JSON to stdout at info level, with no bus identity yet.
func Default() *Logger {
	return New(config.LoggingConfig{Level: "info", Format: "json", Output: "stdout"}, "")
}

// Hex renders wire bytes in log records the way they appear in eBUS
// captures: uppercase hex, space separated ("FF 52 B5 09"). Addresses,
// commands and whole telegram halves all log through this rather than
// slog's default base-10 []uint8 rendering.
type Hex []byte

// LogValue implements slog.LogValuer.
func (h Hex) LogValue() slog.Value {
	if len(h) == 0 {
		return slog.StringValue("")
	}
	var b strings.Builder
	for i, v := range h {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%02X", v)
	}
	return slog.StringValue(b.String())
}
