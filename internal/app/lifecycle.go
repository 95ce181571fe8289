// Package app is the application bootstrap.
//
// It ties the pieces together in a fixed order:
//
//  1. Lifecycle (lifecycle.go):
//     A small state machine, Starting → Running → {ExitedNormally |
//     ExitedWithFault}. Each terminal state is entered exactly once.
//
//  2. Bootstrap (bootstrap.go):
//     Records lifecycle events to the debug log, runs the GUI shell under a
//     top-level fault guard and turns the outcome into a process exit code.
//
//  3. Launch (launch.go):
//     Builds the static plugin list for the configured variant, the shell and
//     the main window, then hands them to Bootstrap.
package app

import (
	"fmt"
	"slices"
	"sync"

	"websql/internal/errors"
)

// Phase is a lifecycle state.
type Phase int

const (
	Starting Phase = iota
	Running
	ExitedNormally
	ExitedWithFault
)

func (p Phase) String() string {
	switch p {
	case Starting:
		return "starting"
	case Running:
		return "running"
	case ExitedNormally:
		return "exited normally"
	case ExitedWithFault:
		return "exited with fault"
	default:
		return "unknown"
	}
}

// Terminal reports whether p is a final state.
func (p Phase) Terminal() bool {
	return p == ExitedNormally || p == ExitedWithFault
}

var transitions = map[Phase][]Phase{
	Starting: {Running, ExitedNormally, ExitedWithFault},
	Running:  {ExitedNormally, ExitedWithFault},
}

// Lifecycle tracks the application phase. It is safe for concurrent use.
type Lifecycle struct {
	mu        sync.RWMutex
	phase     Phase
	listeners []func(Phase)
}

// NewLifecycle returns a lifecycle in the Starting phase.
func NewLifecycle() *Lifecycle {
	return &Lifecycle{phase: Starting}
}

// Phase returns the current phase.
func (l *Lifecycle) Phase() Phase {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.phase
}

// OnChange registers fn to be called after every successful transition.
func (l *Lifecycle) OnChange(fn func(Phase)) {
	l.mu.Lock()
	l.listeners = append(l.listeners, fn)
	l.mu.Unlock()
}

// Transition moves to phase to, or returns ErrInvalidTransition.
func (l *Lifecycle) Transition(to Phase) error {
	l.mu.Lock()
	from := l.phase
	allowed := false
	for _, p := range transitions[from] {
		if p == to {
			allowed = true
			break
		}
	}
	if !allowed {
		l.mu.Unlock()
		return fmt.Errorf("%w: %s to %s", errors.ErrInvalidTransition, from, to)
	}
	l.phase = to
	listeners := slices.Clone(l.listeners)
	l.mu.Unlock()

	for _, fn := range listeners {
		fn(to)
	}
	return nil
}
