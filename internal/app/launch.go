package app

import (
	"context"

	"websql/internal/config"
	"websql/internal/errors"
	"websql/internal/log"
	"websql/internal/plugin"
	"websql/internal/plugin/dialog"
	"websql/internal/plugin/fs"
	"websql/internal/plugin/process"
	"websql/internal/plugin/updater"
	"websql/internal/shell"
	"websql/internal/ui"

	"fyne.io/fyne/v2"
)

// Plugins builds the plugin list for cfg.Plugins, in plugin.Order.
func Plugins(cfg config.Config, logger log.Logger) ([]plugin.Plugin, error) {
	if logger == nil {
		logger = log.Nop()
	}
	var plugins []plugin.Plugin
	for _, c := range cfg.Plugins.Capabilities() {
		switch c {
		case plugin.Updater:
			u, err := updater.New(updater.Options{
				Endpoint:  cfg.Update.Endpoint,
				Current:   cfg.Version,
				PublicKey: cfg.Update.PublicKey,
				Logger:    logger.WithFields(log.String("plugin", "updater")),
			})
			if err != nil {
				return nil, errors.NewPluginError(c.String(), err)
			}
			plugins = append(plugins, updater.NewPlugin(u, cfg.Update.Interval))
		case plugin.Process:
			plugins = append(plugins, process.New())
		case plugin.Filesystem:
			plugins = append(plugins, fs.New(cfg.FSScope...))
		case plugin.Dialog:
			plugins = append(plugins, dialog.New())
		}
	}
	return plugins, nil
}

// Launch builds the shell for cfg and runs it to completion, returning the
// process exit code. opts are passed to the shell after the defaults.
func Launch(ctx context.Context, cfg config.Config, events *log.EventLog, logger log.Logger, opts ...shell.Option) int {
	if logger == nil {
		logger = log.Nop()
	}
	var boot *Bootstrap

	opts = append([]shell.Option{
		shell.WithLogger(logger),
		shell.WithSize(ui.WindowWidth, ui.WindowHeight),
		shell.WithPanicHandler(func(p *errors.PanicError) { boot.HandlePanic(p) }),
	}, opts...)
	s := shell.New(cfg.AppID, cfg.Title, opts...)
	boot = NewBootstrap(events, s, logger)

	plugins, err := Plugins(cfg, logger)
	if err == nil {
		for _, p := range plugins {
			if err = s.Plugin(p); err != nil {
				break
			}
		}
	}
	if err != nil {
		// Nothing has run yet, but the failure still belongs in the debug log.
		events.Record(MsgStarting)
		events.Record(MsgFailed + err.Error())
		return 1
	}

	s.Content(func(s *shell.Shell) fyne.CanvasObject {
		var scope []string
		if p, ok := s.Lookup(plugin.Filesystem); ok {
			scope = p.(*fs.Plugin).Roots()
		}
		view := ui.NewMainView(s, ui.Info{
			Title:   cfg.Title,
			Version: cfg.Version,
			LogPath: cfg.LogPath,
			Plugins: s.Registered(),
			Scope:   scope,
		})
		boot.Lifecycle().OnChange(func(p Phase) { view.SetPhase(p.String()) })
		return view.Content()
	})

	return boot.Run(ctx)
}
