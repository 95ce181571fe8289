// Package errors provides typed errors for the WebSQL desktop shell.
// This enables callers to use errors.Is() and errors.As() for specific error handling.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common error conditions.
// Use errors.Is(err, errors.ErrShellRun) to check for specific errors.
var (
	// Shell and lifecycle errors
	ErrShellRun          = errors.New("shell run failed")
	ErrInvalidTransition = errors.New("invalid lifecycle transition")
	ErrDuplicatePlugin   = errors.New("plugin already registered")
	ErrPluginNotFound    = errors.New("plugin not registered")

	// Updater errors
	ErrNoPlatform    = errors.New("no update artifact for this platform")
	ErrBadSignature  = errors.New("update signature verification failed")
	ErrNoPublicKey   = errors.New("no update public key configured")
	ErrBadManifest   = errors.New("invalid update manifest")
	ErrNoEndpoint    = errors.New("no update endpoint configured")
	ErrUpdateHTTP    = errors.New("unexpected update server response")
	ErrInstallFailed = errors.New("update install failed")
	ErrTooLarge      = errors.New("update artifact too large")

	// Filesystem scope errors
	ErrOutsideScope = errors.New("path outside allowed scope")
)

// LogIOError represents a failure to open, append to, or flush the debug log.
// It is always recovered locally and never aborts the program.
type LogIOError struct {
	Op   string // Operation: "open", "write", "flush", "close"
	Path string // Log file path
	Err  error  // Underlying error
}

func (e *LogIOError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("log %s %s: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("log %s %s failed", e.Op, e.Path)
}

func (e *LogIOError) Unwrap() error {
	return e.Err
}

// NewLogIOError creates a new LogIOError.
func NewLogIOError(op, path string, err error) *LogIOError {
	return &LogIOError{Op: op, Path: path, Err: err}
}

// ShellRunError represents an abnormal termination of the GUI shell.
// The bootstrap converts it into a non-zero process exit code.
type ShellRunError struct {
	Op  string // Stage: "plugin updater", "event loop", ...
	Err error  // Underlying error
}

func (e *ShellRunError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("shell %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("shell %s failed", e.Op)
}

func (e *ShellRunError) Unwrap() error {
	return e.Err
}

// Is reports ErrShellRun as a match so callers need not know the concrete type.
func (e *ShellRunError) Is(target error) bool {
	return target == ErrShellRun
}

// NewShellRunError creates a new ShellRunError.
func NewShellRunError(op string, err error) *ShellRunError {
	return &ShellRunError{Op: op, Err: err}
}

// PanicError carries a recovered panic payload together with where it happened.
type PanicError struct {
	Value    any    // Recovered payload
	Location string // "file:line (func)" of the panicking frame
	Stack    []byte // Goroutine stack at recovery time
}

func (e *PanicError) Error() string {
	if e.Location == "" {
		return fmt.Sprintf("panic: %v", e.Value)
	}
	return fmt.Sprintf("panic: %v at %s", e.Value, e.Location)
}

// Unwrap exposes the payload when it was itself an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// PluginError wraps a plugin initialisation or operation failure.
type PluginError struct {
	Plugin string
	Err    error
}

func (e *PluginError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("plugin %s: %v", e.Plugin, e.Err)
	}
	return fmt.Sprintf("plugin %s failed", e.Plugin)
}

func (e *PluginError) Unwrap() error {
	return e.Err
}

// NewPluginError creates a new PluginError.
func NewPluginError(plugin string, err error) *PluginError {
	return &PluginError{Plugin: plugin, Err: err}
}

// Is checks if target matches any of our sentinel errors.
// This is a convenience function for common error checks.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// New returns an error that formats as the given text.
func New(text string) error {
	return errors.New(text)
}

// IsShellRun checks if the error indicates the GUI shell terminated abnormally.
func IsShellRun(err error) bool {
	return errors.Is(err, ErrShellRun)
}

// IsPanic checks if the error carries a recovered panic.
func IsPanic(err error) bool {
	var target *PanicError
	return errors.As(err, &target)
}
