package app

import (
	"context"

	"websql/internal/errors"
	"websql/internal/log"
)

// Debug log messages, one per lifecycle event.
const (
	MsgStarting = "starting up"
	MsgSetup    = "setup complete"
	MsgExited   = "application exited normally"
	MsgFailed   = "error while running application: "
)

// Runner is the part of the GUI shell the bootstrap drives.
type Runner interface {
	Setup(fn func())
	Run(ctx context.Context) error
}

// Bootstrap runs the shell once and records the outcome.
type Bootstrap struct {
	events    *log.EventLog
	shell     Runner
	lifecycle *Lifecycle
	logger    log.Logger
}

// NewBootstrap creates a bootstrap around shell.
func NewBootstrap(events *log.EventLog, shell Runner, logger log.Logger) *Bootstrap {
	if logger == nil {
		logger = log.Nop()
	}
	return &Bootstrap{
		events:    events,
		shell:     shell,
		lifecycle: NewLifecycle(),
		logger:    logger,
	}
}

// Lifecycle exposes the state machine so the UI can observe it.
func (b *Bootstrap) Lifecycle() *Lifecycle {
	return b.lifecycle
}

// Guard runs fn and converts a panic into an *errors.PanicError.
func Guard(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Recovered(r)
		}
	}()
	return fn()
}

// HandlePanic records a captured fault. It never escalates.
func (b *Bootstrap) HandlePanic(p *errors.PanicError) {
	b.logger.Error("captured panic", log.String("location", p.Location))
	b.events.Record(p.Error())
}

// Run blocks until the shell exits and returns the process exit code:
// 0 on a clean exit and 1 when the shell failed or panicked.
func (b *Bootstrap) Run(ctx context.Context) int {
	b.events.Record(MsgStarting)

	b.shell.Setup(func() {
		if err := b.lifecycle.Transition(Running); err != nil {
			b.logger.Warn("setup callback out of order", log.Err(err))
			return
		}
		b.events.Record(MsgSetup)
	})

	err := Guard(func() error { return b.shell.Run(ctx) })
	if err != nil {
		switch {
		case errors.IsPanic(err):
			var p *errors.PanicError
			errors.As(err, &p)
			b.HandlePanic(p)
		case errors.IsShellRun(err):
			b.logger.Error("shell terminated", log.Err(err))
		default:
			b.logger.Error("run failed", log.Err(err))
		}
		b.events.Record(MsgFailed + err.Error())
		_ = b.lifecycle.Transition(ExitedWithFault)
		return 1
	}

	b.events.Record(MsgExited)
	_ = b.lifecycle.Transition(ExitedNormally)
	return 0
}
