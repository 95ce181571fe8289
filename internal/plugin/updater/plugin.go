package updater

import (
	"context"
	"slices"
	"sync"
	"time"

	"websql/internal/log"
	"websql/internal/plugin"
)

// Plugin hosts the Updater in the shell and runs the periodic watcher.
type Plugin struct {
	*Updater
	interval time.Duration

	mu        sync.Mutex
	latest    *Update
	listeners []func(*Update)
}

var _ plugin.Plugin = (*Plugin)(nil)

// NewPlugin wraps u. interval is the gap between background checks.
func NewPlugin(u *Updater, interval time.Duration) *Plugin {
	return &Plugin{Updater: u, interval: interval}
}

// Capability implements plugin.Plugin.
func (p *Plugin) Capability() plugin.Capability {
	return plugin.Updater
}

// Init implements plugin.Plugin. Without an endpoint the watcher is not started.
func (p *Plugin) Init(h plugin.Host) error {
	if !p.Enabled() {
		h.Logger().Info("updater disabled: no endpoint configured")
		return nil
	}
	h.Go(func(ctx context.Context) {
		p.Watch(ctx, p.interval, p.publish)
	})
	h.Logger().Debug("update watcher started", log.Duration("interval", p.interval))
	return nil
}

// OnUpdate registers fn to be called for every update found. If an update is
// already known, fn is called immediately with it.
func (p *Plugin) OnUpdate(fn func(*Update)) {
	p.mu.Lock()
	p.listeners = append(p.listeners, fn)
	latest := p.latest
	p.mu.Unlock()
	if latest != nil {
		fn(latest)
	}
}

// Latest returns the most recent update found, or nil.
func (p *Plugin) Latest() *Update {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.latest
}

func (p *Plugin) publish(up *Update) {
	p.mu.Lock()
	if p.latest != nil && p.latest.Version == up.Version {
		p.mu.Unlock()
		return
	}
	p.latest = up
	listeners := slices.Clone(p.listeners)
	p.mu.Unlock()

	for _, fn := range listeners {
		fn(up)
	}
}
