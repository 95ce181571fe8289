package app

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	websqlerrors "websql/internal/errors"
	"websql/internal/log"
)

// fakeShell calls the setup callbacks when run calls ready.
type fakeShell struct {
	setup []func()
	run   func(ctx context.Context, ready func()) error
}

func (f *fakeShell) Setup(fn func()) { f.setup = append(f.setup, fn) }

func (f *fakeShell) Run(ctx context.Context) error {
	ready := func() {
		for _, fn := range f.setup {
			fn()
		}
	}
	return f.run(ctx, ready)
}

var linePattern = regexp.MustCompile(`^\[\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}\.\d{3}\] (.*)$`)

// readMessages returns the message part of every debug log line.
func readMessages(t *testing.T, path string) []string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open debug log: %v", err)
	}
	defer f.Close()

	var msgs []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		m := linePattern.FindStringSubmatch(sc.Text())
		if m == nil {
			t.Fatalf("Malformed debug log line %q", sc.Text())
		}
		msgs = append(msgs, m[1])
	}
	if err := sc.Err(); err != nil {
		t.Fatal(err)
	}
	return msgs
}

func newEvents(t *testing.T) *log.EventLog {
	t.Helper()
	return log.NewEventLog(filepath.Join(t.TempDir(), "websql-debug.log"), nil)
}

func TestBootstrapCleanExit(t *testing.T) {
	events := newEvents(t)
	shell := &fakeShell{run: func(_ context.Context, ready func()) error {
		ready()
		return nil
	}}
	b := NewBootstrap(events, shell, nil)

	if code := b.Run(context.Background()); code != 0 {
		t.Errorf("Expected exit code 0, got %d", code)
	}
	if b.Lifecycle().Phase() != ExitedNormally {
		t.Errorf("Expected ExitedNormally, got %s", b.Lifecycle().Phase())
	}

	got := readMessages(t, events.Path())
	want := []string{MsgStarting, MsgSetup, MsgExited}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestBootstrapExitBeforeSetup(t *testing.T) {
	events := newEvents(t)
	shell := &fakeShell{run: func(context.Context, func()) error { return nil }}
	b := NewBootstrap(events, shell, nil)

	if code := b.Run(context.Background()); code != 0 {
		t.Errorf("Expected exit code 0, got %d", code)
	}
	got := readMessages(t, events.Path())
	if len(got) != 2 || got[0] != MsgStarting || got[1] != MsgExited {
		t.Errorf("Unexpected log %q", got)
	}
}

func TestBootstrapRunError(t *testing.T) {
	events := newEvents(t)
	shell := &fakeShell{run: func(_ context.Context, ready func()) error {
		ready()
		return websqlerrors.NewShellRunError("event loop", errors.New("display unavailable"))
	}}
	b := NewBootstrap(events, shell, nil)

	if code := b.Run(context.Background()); code != 1 {
		t.Errorf("Expected exit code 1, got %d", code)
	}
	if b.Lifecycle().Phase() != ExitedWithFault {
		t.Errorf("Expected ExitedWithFault, got %s", b.Lifecycle().Phase())
	}

	got := readMessages(t, events.Path())
	last := got[len(got)-1]
	if !strings.HasPrefix(last, MsgFailed) || !strings.Contains(last, "display unavailable") {
		t.Errorf("Unexpected failure line %q", last)
	}
	for _, m := range got {
		if m == MsgExited {
			t.Error("A failed run must not record a normal exit")
		}
	}
}

func TestBootstrapClassifiesFailure(t *testing.T) {
	tests := []struct {
		name string
		run  func() error
		want string
	}{
		{"shell run", func() error {
			return websqlerrors.NewShellRunError("event loop", errors.New("display unavailable"))
		}, `"message":"shell terminated"`},
		{"panic in event loop", func() error {
			return websqlerrors.NewShellRunError("event loop", &websqlerrors.PanicError{Value: "boom", Location: "view.go:12"})
		}, `"message":"captured panic"`},
		{"other", func() error { return errors.New("no display") }, `"message":"run failed"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			shell := &fakeShell{run: func(context.Context, func()) error { return tt.run() }}
			b := NewBootstrap(newEvents(t), shell, log.NewZerologLogger(&buf, log.LevelDebug))

			if code := b.Run(context.Background()); code != 1 {
				t.Errorf("Expected exit code 1, got %d", code)
			}
			if !strings.Contains(buf.String(), tt.want) {
				t.Errorf("Expected %s in console output:\n%s", tt.want, buf.String())
			}
		})
	}
}

func TestBootstrapPanic(t *testing.T) {
	events := newEvents(t)
	shell := &fakeShell{run: func(_ context.Context, ready func()) error {
		ready()
		panic("index out of range")
	}}
	b := NewBootstrap(events, shell, nil)

	if code := b.Run(context.Background()); code != 1 {
		t.Errorf("Expected exit code 1, got %d", code)
	}

	got := readMessages(t, events.Path())
	var panicLine string
	for _, m := range got {
		if strings.HasPrefix(m, "panic: ") {
			panicLine = m
			break
		}
	}
	if panicLine == "" {
		t.Fatalf("Expected a panic line in %q", got)
	}
	if !strings.Contains(panicLine, "index out of range") || !strings.Contains(panicLine, "bootstrap_test.go:") {
		t.Errorf("Panic line lacks payload or location: %q", panicLine)
	}
	if last := got[len(got)-1]; !strings.HasPrefix(last, MsgFailed) {
		t.Errorf("Expected failure line last, got %q", last)
	}
	if b.Lifecycle().Phase() != ExitedWithFault {
		t.Errorf("Expected ExitedWithFault, got %s", b.Lifecycle().Phase())
	}
}

func TestBootstrapUnwritableLog(t *testing.T) {
	events := log.NewEventLog(filepath.Join(t.TempDir(), "missing", "websql-debug.log"), nil)
	shell := &fakeShell{run: func(_ context.Context, ready func()) error {
		ready()
		return nil
	}}
	b := NewBootstrap(events, shell, nil)

	if code := b.Run(context.Background()); code != 0 {
		t.Errorf("Log failures must not change the exit code, got %d", code)
	}
}

func TestHandlePanic(t *testing.T) {
	events := newEvents(t)
	b := NewBootstrap(events, &fakeShell{}, nil)

	b.HandlePanic(&websqlerrors.PanicError{Value: "worker failed", Location: "compare.go:88 (websql/internal/compare.diff)"})

	got := readMessages(t, events.Path())
	if len(got) != 1 || got[0] != "panic: worker failed at compare.go:88 (websql/internal/compare.diff)" {
		t.Errorf("Unexpected log %q", got)
	}
}

func TestGuard(t *testing.T) {
	if err := Guard(func() error { return nil }); err != nil {
		t.Errorf("Expected nil, got %v", err)
	}

	want := errors.New("plain failure")
	if err := Guard(func() error { return want }); err != want {
		t.Errorf("Expected error to pass through, got %v", err)
	}

	err := Guard(func() error { panic(want) })
	var p *websqlerrors.PanicError
	if !errors.As(err, &p) {
		t.Fatalf("Expected *PanicError, got %T", err)
	}
	if !errors.Is(err, want) {
		t.Error("PanicError should unwrap an error payload")
	}
}
