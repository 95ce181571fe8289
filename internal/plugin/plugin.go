// Package plugin defines the capability plugins the GUI shell hosts.
//
// The set of plugins is compiled in. A build picks one of the named variants
// below and nothing at runtime can add or remove a capability.
package plugin

import (
	"context"
	"strings"

	"websql/internal/log"

	"fyne.io/fyne/v2"
)

// Capability identifies one kind of plugin.
type Capability uint8

const (
	Updater Capability = 1 << iota
	Process
	Filesystem
	Dialog
)

// Order is the registration order used for every variant.
var Order = []Capability{Updater, Process, Filesystem, Dialog}

func (c Capability) String() string {
	switch c {
	case Updater:
		return "updater"
	case Process:
		return "process"
	case Filesystem:
		return "fs"
	case Dialog:
		return "dialog"
	default:
		return "unknown"
	}
}

// Set is a bitmask of capabilities.
type Set uint8

// Named build variants. VariantFull is what the application ships.
const (
	VariantBare    Set = 0
	VariantUpdater     = Set(Updater) | Set(Process)
	VariantFull        = Set(Updater) | Set(Process) | Set(Filesystem) | Set(Dialog)
)

// Has reports whether c is in the set.
func (s Set) Has(c Capability) bool {
	return s&Set(c) != 0
}

// Capabilities returns the members of s in registration order.
func (s Set) Capabilities() []Capability {
	var caps []Capability
	for _, c := range Order {
		if s.Has(c) {
			caps = append(caps, c)
		}
	}
	return caps
}

func (s Set) String() string {
	caps := s.Capabilities()
	if len(caps) == 0 {
		return "none"
	}
	names := make([]string, len(caps))
	for i, c := range caps {
		names[i] = c.String()
	}
	return strings.Join(names, ",")
}

// Host is what the shell exposes to plugins during and after Init.
type Host interface {
	App() fyne.App
	Window() fyne.Window
	Logger() log.Logger
	// Context is cancelled when the event loop returns.
	Context() context.Context
	// Go runs fn on a new goroutine with panic capture.
	Go(fn func(ctx context.Context))
}

// Plugin is a capability module registered with the shell before it runs.
type Plugin interface {
	Capability() Capability
	Init(h Host) error
}
