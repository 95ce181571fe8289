package log

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"golang.org/x/term"
)

// consoleLogger adapts zerolog to the Logger interface.
type consoleLogger struct {
	zl zerolog.Logger
}

// NewConsoleLogger creates a human-readable logger writing to out.
// Colour is enabled only when out is a terminal.
func NewConsoleLogger(out io.Writer, level Level) Logger {
	cw := zerolog.ConsoleWriter{
		Out:        out,
		NoColor:    !isTerminal(out),
		TimeFormat: "15:04:05.000",
	}
	return NewZerologLogger(cw, level)
}

// NewZerologLogger creates a logger that writes zerolog JSON (or whatever
// the writer renders) to out.
func NewZerologLogger(out io.Writer, level Level) Logger {
	zl := zerolog.New(out).
		Level(zerologLevel(level)).
		With().
		Timestamp().
		Logger()
	return &consoleLogger{zl: zl}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

func zerologLevel(l Level) zerolog.Level {
	switch l {
	case LevelDebug:
		return zerolog.DebugLevel
	case LevelInfo:
		return zerolog.InfoLevel
	case LevelWarn:
		return zerolog.WarnLevel
	case LevelError:
		return zerolog.ErrorLevel
	default:
		return zerolog.Disabled
	}
}

func emit(e *zerolog.Event, msg string, fields []Field) {
	for _, f := range fields {
		e = e.Interface(f.Key, f.Value)
	}
	e.Msg(msg)
}

func (c *consoleLogger) Debug(msg string, fields ...Field) {
	emit(c.zl.Debug(), msg, fields)
}

func (c *consoleLogger) Info(msg string, fields ...Field) {
	emit(c.zl.Info(), msg, fields)
}

func (c *consoleLogger) Warn(msg string, fields ...Field) {
	emit(c.zl.Warn(), msg, fields)
}

func (c *consoleLogger) Error(msg string, fields ...Field) {
	emit(c.zl.Error(), msg, fields)
}

func (c *consoleLogger) WithFields(fields ...Field) Logger {
	ctx := c.zl.With()
	for _, f := range fields {
		ctx = ctx.Interface(f.Key, f.Value)
	}
	return &consoleLogger{zl: ctx.Logger()}
}
