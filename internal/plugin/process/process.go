// Package process lets the application end or restart itself.
package process

import (
	"fmt"
	"os"
	"os/exec"

	"websql/internal/log"
	"websql/internal/plugin"

	"fyne.io/fyne/v2"
)

// Plugin implements process control.
type Plugin struct {
	app    fyne.App
	logger log.Logger

	// Overridable for tests.
	exit       func(code int)
	executable func() (string, error)
	start      func(cmd *exec.Cmd) error
	args       []string
}

var _ plugin.Plugin = (*Plugin)(nil)

// New creates a process plugin bound to the real process.
func New() *Plugin {
	return &Plugin{
		logger:     log.Nop(),
		exit:       os.Exit,
		executable: os.Executable,
		start:      (*exec.Cmd).Start,
		args:       os.Args[1:],
	}
}

// Capability implements plugin.Plugin.
func (p *Plugin) Capability() plugin.Capability {
	return plugin.Process
}

// Init implements plugin.Plugin.
func (p *Plugin) Init(h plugin.Host) error {
	p.app = h.App()
	p.logger = h.Logger()
	return nil
}

// Exit terminates the process immediately with code.
func (p *Plugin) Exit(code int) {
	p.logger.Info("process exit requested", log.Int("code", code))
	p.exit(code)
}

// Relaunch starts a fresh copy of the executable with the same arguments and
// environment, then quits the running app.
func (p *Plugin) Relaunch() error {
	exe, err := p.executable()
	if err != nil {
		return fmt.Errorf("relaunch: locate executable: %w", err)
	}

	cmd := exec.Command(exe, p.args...)
	cmd.Env = os.Environ()
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := p.start(cmd); err != nil {
		return fmt.Errorf("relaunch %s: %w", exe, err)
	}

	p.logger.Info("relaunched", log.String("path", exe))
	if p.app != nil {
		fyne.Do(p.app.Quit)
	}
	return nil
}
