package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ZerologLogger adapts rs/zerolog to the Logger interface. Every entry carries
// a component field identifying the subsystem that emitted it.
type ZerologLogger struct {
	log zerolog.Logger
}

// NewZerologLogger writes to stdout. When APP_ENV is "dev" the output is a
// human-readable console format, otherwise JSON.
func NewZerologLogger(component string) Logger {
	return NewZerologLoggerTo(component, os.Stdout)
}

// NewZerologLoggerTo writes to the given writer, which lets callers capture
// log output.
func NewZerologLoggerTo(component string, out io.Writer) Logger {
	env := strings.ToLower(os.Getenv("APP_ENV"))
	if env == "dev" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}
	z := zerolog.New(out).With().Timestamp().Str("component", component).Logger()
	return &ZerologLogger{log: z}
}

func (l *ZerologLogger) Debugf(format string, args ...any) {
	l.log.Debug().Msgf(format, args...)
}

func (l *ZerologLogger) Debugw(msg string, fields map[string]any) {
	ev := l.log.Debug()
	for k, v := range fields {
		ev = ev.Interface(k, v)
	}
	ev.Msg(msg)
}

func (l *ZerologLogger) Infof(format string, args ...any) {
	l.log.Info().Msgf(format, args...)
}

func (l *ZerologLogger) Warnf(format string, args ...any) {
	l.log.Warn().Msgf(format, args...)
}

func (l *ZerologLogger) Errorf(format string, args ...any) {
	l.log.Error().Msgf(format, args...)
}
