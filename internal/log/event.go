package log

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"websql/internal/errors"
)

// TimestampFormat is the local-time prefix of every debug log line.
const TimestampFormat = "2006-01-02 15:04:05.000"

// EventLog appends lifecycle lines to a plain-text file.
// Every Append opens, writes, flushes and closes the file, so concurrent
// callers produce whole lines and no handle is held between events.
type EventLog struct {
	path    string
	now     func() time.Time
	stderr  io.Writer
	console Logger
}

// NewEventLog creates an event log at path. console may be nil.
func NewEventLog(path string, console Logger) *EventLog {
	if console == nil {
		console = &nullLogger{}
	}
	return &EventLog{
		path:    path,
		now:     time.Now,
		stderr:  os.Stderr,
		console: console,
	}
}

// Path returns the file the log appends to.
func (e *EventLog) Path() string {
	return e.path
}

var lineBreaks = strings.NewReplacer("\r\n", " | ", "\n", " | ", "\r", " | ")

// FormatLine renders one debug log line without the trailing newline.
// Line breaks inside message are folded so every event stays on one line.
func FormatLine(t time.Time, message string) string {
	return fmt.Sprintf("[%s] %s", t.Local().Format(TimestampFormat), lineBreaks.Replace(message))
}

// Append writes one timestamped line. Failures are returned as
// *errors.LogIOError and are never retried.
func (e *EventLog) Append(message string) error {
	return appendLine(e.path, FormatLine(e.now(), message))
}

// Record appends message and mirrors it to the console logger.
// A write failure is reported on stderr and otherwise ignored.
func (e *EventLog) Record(message string, fields ...Field) {
	e.console.Info(message, fields...)
	if err := e.Append(message); err != nil {
		fmt.Fprintf(e.stderr, "failed to write debug log: %v\n", err)
	}
}

func appendLine(path, line string) (err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return errors.NewLogIOError("open", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.NewLogIOError("close", path, cerr)
		}
	}()

	w := bufio.NewWriter(f)
	if _, err := w.WriteString(line + "\n"); err != nil {
		return errors.NewLogIOError("write", path, err)
	}
	if err := w.Flush(); err != nil {
		return errors.NewLogIOError("flush", path, err)
	}
	return nil
}
