package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"
)

const (
	FormatAuto    = "auto"
	FormatJSON    = "json"
	FormatConsole = "console"
)

// Options select and configure the backend.
type Options struct {
	Format string    // auto, json or console
	Level  string    // debug, info, warn or error
	Out    io.Writer // defaults to os.Stderr
}

// isTerminal is a test seam for term.IsTerminal.
var isTerminal = term.IsTerminal

// New builds the process logger. It is meant to be called once, at startup.
//
// With FormatAuto the backend is picked by probing Out: a terminal gets the
// zap console encoder, anything else (pipes, files, CI) gets slog JSON.
func New(opts Options) (Logger, error) {
	if opts.Out == nil {
		opts.Out = os.Stderr
	}

	level, err := parseLevel(opts.Level)
	if err != nil {
		return nil, err
	}

	format := strings.ToLower(strings.TrimSpace(opts.Format))
	if format == "" || format == FormatAuto {
		format = detectFormat(opts.Out)
	}

	switch format {
	case FormatJSON:
		h := slog.NewJSONHandler(opts.Out, &slog.HandlerOptions{Level: level})
		return NewSlogLogger(slog.New(h)), nil
	case FormatConsole:
		enc := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
		core := zapcore.NewCore(enc, zapcore.AddSync(opts.Out), zapLevel(level))
		return NewZapLogger(zap.New(core)), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", opts.Format)
	}
}

func detectFormat(w io.Writer) string {
	if f, ok := w.(*os.File); ok && isTerminal(int(f.Fd())) {
		return FormatConsole
	}
	return FormatJSON
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("unknown log level %q", s)
}

func zapLevel(l slog.Level) zapcore.Level {
	switch {
	case l <= slog.LevelDebug:
		return zapcore.DebugLevel
	case l <= slog.LevelInfo:
		return zapcore.InfoLevel
	case l <= slog.LevelWarn:
		return zapcore.WarnLevel
	}
	return zapcore.ErrorLevel
}
