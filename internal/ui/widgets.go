package ui

import (
	"image/color"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/data/binding"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// PhaseBadge shows the lifecycle phase as a colored dot followed by its name.
type PhaseBadge struct {
	widget.BaseWidget

	mu    sync.RWMutex
	phase string
}

// NewPhaseBadge creates a badge that follows data.
func NewPhaseBadge(data binding.String) *PhaseBadge {
	b := &PhaseBadge{}
	b.phase, _ = data.Get()
	b.ExtendBaseWidget(b)
	data.AddListener(binding.NewDataListener(func() {
		v, err := data.Get()
		if err == nil {
			b.SetPhase(v)
		}
	}))
	return b
}

// SetPhase updates the displayed phase.
func (b *PhaseBadge) SetPhase(phase string) {
	b.mu.Lock()
	b.phase = phase
	b.mu.Unlock()
	b.Refresh()
}

// Phase returns the displayed phase.
func (b *PhaseBadge) Phase() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.phase
}

// CreateRenderer implements fyne.Widget.
func (b *PhaseBadge) CreateRenderer() fyne.WidgetRenderer {
	r := &phaseBadgeRenderer{
		badge: b,
		dot:   canvas.NewCircle(color.Transparent),
		text:  canvas.NewText("", theme.Color(theme.ColorNameForeground)),
	}
	r.Refresh()
	return r
}

// phaseColor maps a phase name to a theme color.
func phaseColor(phase string) color.Color {
	switch phase {
	case "running":
		return theme.Color(theme.ColorNameSuccess)
	case "exited with fault":
		return theme.Color(theme.ColorNameError)
	case "starting":
		return theme.Color(theme.ColorNameWarning)
	default:
		return theme.Color(theme.ColorNameDisabled)
	}
}

type phaseBadgeRenderer struct {
	badge *PhaseBadge
	dot   *canvas.Circle
	text  *canvas.Text
}

const badgeDot = 10

func (r *phaseBadgeRenderer) Layout(size fyne.Size) {
	y := (size.Height - badgeDot) / 2
	r.dot.Move(fyne.NewPos(0, y))
	r.dot.Resize(fyne.NewSize(badgeDot, badgeDot))
	r.text.Move(fyne.NewPos(badgeDot+theme.Padding(), 0))
	r.text.Resize(fyne.NewSize(size.Width-badgeDot-theme.Padding(), size.Height))
}

func (r *phaseBadgeRenderer) MinSize() fyne.Size {
	ts := fyne.MeasureText(r.text.Text, theme.TextSize(), r.text.TextStyle)
	return fyne.NewSize(badgeDot+theme.Padding()+ts.Width, fyne.Max(badgeDot, ts.Height))
}

func (r *phaseBadgeRenderer) Refresh() {
	phase := r.badge.Phase()
	r.dot.FillColor = phaseColor(phase)
	r.text.Text = phase
	r.text.Color = theme.Color(theme.ColorNameForeground)
	r.text.TextSize = theme.TextSize()
	r.dot.Refresh()
	r.text.Refresh()
}

func (r *phaseBadgeRenderer) Destroy() {}

func (r *phaseBadgeRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.dot, r.text}
}
