package errors

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
)

// Recovered builds a PanicError from a value returned by recover().
// It must be called from the deferred function that called recover, so the
// panicking frame is still on the stack.
func Recovered(r any) *PanicError {
	if p, ok := r.(*PanicError); ok {
		return p
	}
	return &PanicError{
		Value:    r,
		Location: panicLocation(),
		Stack:    debug.Stack(),
	}
}

// panicLocation returns "file:line (func)" of the first non-runtime frame
// below runtime.gopanic.
func panicLocation() string {
	pcs := make([]uintptr, 64)
	n := runtime.Callers(2, pcs)
	frames := runtime.CallersFrames(pcs[:n])

	seenPanic := false
	for {
		f, more := frames.Next()
		if !seenPanic {
			seenPanic = f.Function == "runtime.gopanic"
		} else if !strings.HasPrefix(f.Function, "runtime.") {
			return fmt.Sprintf("%s:%d (%s)", f.File, f.Line, f.Function)
		}
		if !more {
			return ""
		}
	}
}
