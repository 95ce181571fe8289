// Package shell hosts the Fyne application window and its capability plugins.
//
// A Shell is configured builder-style (plugins, setup callbacks, window
// content) and then Run blocks on the GUI event loop until the window is
// closed. Plugins are initialised in registration order before the loop
// starts; an initialisation failure or a panic on the loop goroutine is
// returned as *errors.ShellRunError.
package shell

import (
	"context"
	"sync"

	"websql/internal/errors"
	"websql/internal/log"
	"websql/internal/plugin"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"
)

// Loop runs the event loop for w and must call ready once the app is up.
type Loop func(a fyne.App, w fyne.Window, ready func())

// FyneLoop is the production loop: it hooks ready to the app lifecycle and
// blocks in ShowAndRun.
func FyneLoop(a fyne.App, w fyne.Window, ready func()) {
	a.Lifecycle().SetOnStarted(ready)
	w.ShowAndRun()
}

// Option configures a Shell.
type Option func(*Shell)

// WithAppFactory overrides how the fyne.App is created.
func WithAppFactory(f func(appID string) fyne.App) Option {
	return func(s *Shell) { s.newApp = f }
}

// WithLoop overrides the event loop.
func WithLoop(l Loop) Option {
	return func(s *Shell) { s.loop = l }
}

// WithLogger sets the logger handed to plugins.
func WithLogger(l log.Logger) Option {
	return func(s *Shell) { s.logger = l }
}

// WithPanicHandler receives panics captured on goroutines started via Go.
func WithPanicHandler(fn func(*errors.PanicError)) Option {
	return func(s *Shell) { s.onPanic = fn }
}

// WithSize sets the initial window size.
func WithSize(width, height float32) Option {
	return func(s *Shell) { s.size = fyne.NewSize(width, height) }
}

// Shell is the GUI application shell.
type Shell struct {
	appID string
	title string

	newApp  func(appID string) fyne.App
	loop    Loop
	logger  log.Logger
	onPanic func(*errors.PanicError)
	size    fyne.Size

	plugins    []plugin.Plugin
	registered map[plugin.Capability]plugin.Plugin
	setup      []func()
	content    func(*Shell) fyne.CanvasObject

	// Set while Run is active.
	app    fyne.App
	window fyne.Window
	ctx    context.Context
	wg     sync.WaitGroup
}

// New creates a shell for the given application ID and window title.
func New(appID, title string, opts ...Option) *Shell {
	s := &Shell{
		appID:      appID,
		title:      title,
		newApp:     fyneapp.NewWithID,
		loop:       FyneLoop,
		logger:     log.Nop(),
		size:       fyne.NewSize(1400, 900),
		registered: make(map[plugin.Capability]plugin.Plugin),
		ctx:        context.Background(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Plugin registers p. Each capability may be registered once.
func (s *Shell) Plugin(p plugin.Plugin) error {
	c := p.Capability()
	if _, dup := s.registered[c]; dup {
		return errors.NewPluginError(c.String(), errors.ErrDuplicatePlugin)
	}
	s.registered[c] = p
	s.plugins = append(s.plugins, p)
	return nil
}

// Setup adds a callback that runs once, after the app has started.
func (s *Shell) Setup(fn func()) {
	s.setup = append(s.setup, fn)
}

// Content sets the builder for the main window's content. It runs after
// plugins are initialised so it can look them up.
func (s *Shell) Content(fn func(*Shell) fyne.CanvasObject) {
	s.content = fn
}

// Lookup returns the registered plugin for c.
func (s *Shell) Lookup(c plugin.Capability) (plugin.Plugin, bool) {
	p, ok := s.registered[c]
	return p, ok
}

// Registered returns the set of registered capabilities.
func (s *Shell) Registered() plugin.Set {
	var set plugin.Set
	for c := range s.registered {
		set |= plugin.Set(c)
	}
	return set
}

// App implements plugin.Host.
func (s *Shell) App() fyne.App { return s.app }

// Window implements plugin.Host.
func (s *Shell) Window() fyne.Window { return s.window }

// Logger implements plugin.Host.
func (s *Shell) Logger() log.Logger { return s.logger }

// Context implements plugin.Host.
func (s *Shell) Context() context.Context { return s.ctx }

// Go implements plugin.Host. A panic in fn is captured and passed to the
// panic handler instead of crashing the process.
func (s *Shell) Go(fn func(ctx context.Context)) {
	ctx := s.ctx
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				p := errors.Recovered(r)
				s.logger.Error("background task panicked", log.String("panic", p.Error()))
				if s.onPanic != nil {
					s.onPanic(p)
				}
			}
		}()
		fn(ctx)
	}()
}

// Run initialises plugins, builds the window and blocks on the event loop.
// Cancelling ctx quits the app. Background goroutines started with Go see
// their context cancelled when Run returns.
func (s *Shell) Run(ctx context.Context) (err error) {
	runCtx, cancel := context.WithCancel(ctx)
	s.ctx = runCtx
	defer func() {
		cancel()
		s.wg.Wait()
	}()

	s.app = s.newApp(s.appID)
	s.window = s.app.NewWindow(s.title)
	s.window.SetMaster()
	s.window.Resize(s.size)

	for _, p := range s.plugins {
		name := p.Capability().String()
		if err := p.Init(s); err != nil {
			return errors.NewShellRunError("plugin "+name, err)
		}
		s.logger.Debug("plugin registered", log.String("plugin", name))
	}

	if s.content != nil {
		s.window.SetContent(s.content(s))
	}

	var once sync.Once
	ready := func() {
		once.Do(func() {
			for _, fn := range s.setup {
				fn()
			}
		})
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			s.logger.Info("shutdown requested")
			fyne.Do(s.app.Quit)
		case <-done:
		}
	}()

	defer func() {
		if r := recover(); r != nil {
			err = errors.NewShellRunError("event loop", errors.Recovered(r))
		}
	}()
	s.loop(s.app, s.window, ready)
	return nil
}
