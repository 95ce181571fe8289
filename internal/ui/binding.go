package ui

import (
	"fyne.io/fyne/v2/data/binding"
)

// Bindings holds the data behind the main view. Values may be set from any
// goroutine; bound widgets refresh on the UI thread.
type Bindings struct {
	// Lifecycle phase, e.g. "running".
	Phase binding.String

	// Version offered by the updater, empty when none.
	UpdateVersion binding.String

	// Release notes for UpdateVersion.
	UpdateNotes binding.String

	// Set while an update is being installed.
	Installing binding.Bool
}

// NewBindings creates bindings with default values.
func NewBindings() *Bindings {
	b := &Bindings{
		Phase:         binding.NewString(),
		UpdateVersion: binding.NewString(),
		UpdateNotes:   binding.NewString(),
		Installing:    binding.NewBool(),
	}
	_ = b.Phase.Set("starting")
	return b
}

// SetPhase updates the phase binding.
func (b *Bindings) SetPhase(phase string) {
	_ = b.Phase.Set(phase)
}

// SetUpdate records an available update.
func (b *Bindings) SetUpdate(version, notes string) {
	_ = b.UpdateNotes.Set(notes)
	_ = b.UpdateVersion.Set(version)
}

// SetInstalling updates the installing flag.
func (b *Bindings) SetInstalling(on bool) {
	_ = b.Installing.Set(on)
}

// Reset clears the update state.
func (b *Bindings) Reset() {
	_ = b.UpdateVersion.Set("")
	_ = b.UpdateNotes.Set("")
	_ = b.Installing.Set(false)
}
