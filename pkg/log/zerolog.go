package log

import (
	"context"
	"io"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"

	serrors "github.com/YuminosukeSato/salarygo/pkg/errors"
)

// ZerologLogger implements Logger on top of zerolog. Errors that implement
// zerolog.LogObjectMarshaler (every typed error in pkg/errors) are emitted
// as structured objects next to the message.
type ZerologLogger struct {
	logger zerolog.Logger
}

// NewZerologLogger creates a JSON zerolog logger writing to w.
func NewZerologLogger(w io.Writer, level Level) *ZerologLogger {
	zl := zerolog.New(w).Level(toZerologLevel(level)).With().Timestamp().Logger()
	return &ZerologLogger{logger: zl}
}

// NewConsoleLogger creates a human-readable zerolog logger (log_format: console).
func NewConsoleLogger(w io.Writer, level Level) *ZerologLogger {
	cw := zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}
	zl := zerolog.New(cw).Level(toZerologLevel(level)).With().Timestamp().Logger()
	return &ZerologLogger{logger: zl}
}

// Zerolog exposes the underlying logger for libraries that want it directly.
func (z *ZerologLogger) Zerolog() zerolog.Logger {
	return z.logger
}

func (z *ZerologLogger) Debug(msg string, fields ...any) {
	z.emit(z.logger.Debug(), msg, fields)
}

func (z *ZerologLogger) Info(msg string, fields ...any) {
	z.emit(z.logger.Info(), msg, fields)
}

func (z *ZerologLogger) Warn(msg string, fields ...any) {
	z.emit(z.logger.Warn(), msg, fields)
}

func (z *ZerologLogger) Error(msg string, fields ...any) {
	e := z.logger.Error()
	if err, rest, ok := splitLeadingError(fields); ok {
		e = withError(e, err)
		fields = rest
	}
	z.emit(e, msg, fields)
}

func (z *ZerologLogger) With(fields ...any) Logger {
	return &ZerologLogger{logger: z.logger.With().Fields(normalizeFields(fields)).Logger()}
}

func (z *ZerologLogger) Enabled(ctx context.Context, level Level) bool {
	lvl := toZerologLevel(level)
	return lvl >= z.logger.GetLevel() && lvl >= zerolog.GlobalLevel()
}

// InstallWarnHook routes pkg/errors warnings (e.g. data conversion warnings
// raised by the CSV loader) to this logger.
func (z *ZerologLogger) InstallWarnHook() {
	serrors.SetZerologWarnFunc(func(w error) {
		withError(z.logger.Warn(), w).Msg("warning")
	})
}

func (z *ZerologLogger) emit(e *zerolog.Event, msg string, fields []any) {
	if e == nil {
		return
	}
	e.Fields(normalizeFields(fields)).Msg(msg)
}

func withError(e *zerolog.Event, err error) *zerolog.Event {
	if e == nil {
		return e
	}
	e = e.Err(err)
	var m zerolog.LogObjectMarshaler
	if errors.As(err, &m) {
		e = e.Object("error_detail", m)
	}
	return e
}

// normalizeFields turns error values into strings so that zerolog does not
// render them as empty objects.
func normalizeFields(fields []any) []any {
	out := make([]any, len(fields))
	for i, f := range fields {
		if err, ok := f.(error); ok && i%2 == 1 {
			out[i] = err.Error()
			continue
		}
		out[i] = f
	}
	return out
}

func toZerologLevel(level Level) zerolog.Level {
	switch {
	case level <= LevelDebug:
		return zerolog.DebugLevel
	case level <= LevelInfo:
		return zerolog.InfoLevel
	case level <= LevelWarn:
		return zerolog.WarnLevel
	default:
		return zerolog.ErrorLevel
	}
}
