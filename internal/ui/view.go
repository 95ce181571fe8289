package ui

import (
	"context"
	"fmt"
	"strings"

	"websql/internal/errors"
	"websql/internal/log"
	"websql/internal/plugin"
	"websql/internal/plugin/dialog"
	"websql/internal/plugin/process"
	"websql/internal/plugin/updater"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/data/binding"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// Host is what the view needs from the shell.
type Host interface {
	plugin.Host
	Lookup(c plugin.Capability) (plugin.Plugin, bool)
}

// Initial size of the status window.
const (
	WindowWidth  = 760
	WindowHeight = 520
)

// Info is the static content of the status view.
type Info struct {
	Title   string
	Version string
	LogPath string
	Plugins plugin.Set
	Scope   []string // filesystem roots the fs plugin allows
}

// MainView is the status window: app identity, debug log location, lifecycle
// phase and, when the updater finds a release, the update banner.
type MainView struct {
	host   Host
	info   Info
	bind   *Bindings
	logger log.Logger

	phase        *PhaseBadge
	scope        *widget.Label
	banner       *fyne.Container
	bannerText   *widget.Label
	updateButton *widget.Button
	content      fyne.CanvasObject

	updater *updater.Plugin
	dialogs *dialog.Plugin
	process *process.Plugin
	pending *updater.Update
}

// NewMainView builds the view and subscribes it to the updater, if present.
func NewMainView(h Host, info Info) *MainView {
	v := &MainView{
		host:   h,
		info:   info,
		bind:   NewBindings(),
		logger: h.Logger(),
	}
	if v.logger == nil {
		v.logger = log.Nop()
	}
	if p, ok := h.Lookup(plugin.Updater); ok {
		v.updater, _ = p.(*updater.Plugin)
	}
	if p, ok := h.Lookup(plugin.Dialog); ok {
		v.dialogs, _ = p.(*dialog.Plugin)
	}
	if p, ok := h.Lookup(plugin.Process); ok {
		v.process, _ = p.(*process.Plugin)
	}

	if a := h.App(); a != nil {
		a.Settings().SetTheme(NewCompactTheme())
	}
	v.content = v.build()

	if v.updater != nil {
		v.updater.OnUpdate(func(up *updater.Update) {
			fyne.Do(func() { v.ShowUpdate(up) })
		})
	}
	return v
}

// Content returns the root canvas object.
func (v *MainView) Content() fyne.CanvasObject {
	return v.content
}

// Bindings exposes the view's data.
func (v *MainView) Bindings() *Bindings {
	return v.bind
}

// SetPhase shows the lifecycle phase. Safe from any goroutine.
func (v *MainView) SetPhase(phase string) {
	v.bind.SetPhase(phase)
}

func (v *MainView) build() fyne.CanvasObject {
	title := canvas.NewText(v.info.Title, theme.Color(theme.ColorNameForeground))
	title.TextSize = theme.Size(theme.SizeNameHeadingText)
	title.TextStyle = fyne.TextStyle{Bold: true}

	v.phase = NewPhaseBadge(v.bind.Phase)

	logPath := widget.NewLabel(v.info.LogPath)
	logPath.Wrapping = fyne.TextWrapBreak
	logPath.TextStyle = fyne.TextStyle{Monospace: true}

	scope := "none"
	if len(v.info.Scope) > 0 {
		scope = strings.Join(v.info.Scope, "\n")
	}
	v.scope = widget.NewLabel(scope)
	v.scope.TextStyle = fyne.TextStyle{Monospace: true}

	details := widget.NewForm(
		widget.NewFormItem("Version", widget.NewLabel(v.info.Version)),
		widget.NewFormItem("Status", v.phase),
		widget.NewFormItem("Debug log", logPath),
		widget.NewFormItem("Plugins", widget.NewLabel(v.info.Plugins.String())),
		widget.NewFormItem("File access", v.scope),
	)

	v.banner = v.buildBanner()
	v.banner.Hide()

	return container.NewBorder(
		container.NewVBox(v.banner, container.NewPadded(title), widget.NewSeparator()),
		nil, nil, nil,
		container.NewVScroll(container.NewPadded(details)),
	)
}

func (v *MainView) buildBanner() *fyne.Container {
	heading := widget.NewLabelWithStyle("Update Available!", fyne.TextAlignLeading, fyne.TextStyle{Bold: true})

	v.bannerText = widget.NewLabel("")
	v.bannerText.Wrapping = fyne.TextWrapWord

	notes := widget.NewLabelWithData(v.bind.UpdateNotes)
	notes.Wrapping = fyne.TextWrapWord
	notes.TextStyle = fyne.TextStyle{Italic: true}

	v.updateButton = widget.NewButtonWithIcon("Update Now", theme.DownloadIcon(), func() {
		if err := v.InstallUpdate(); err != nil {
			v.logger.Warn("cannot install update", log.Err(err))
		}
	})
	v.updateButton.Importance = widget.HighImportance
	v.bind.Installing.AddListener(binding.NewDataListener(func() {
		if on, _ := v.bind.Installing.Get(); on {
			v.updateButton.Disable()
		} else {
			v.updateButton.Enable()
		}
	}))

	bg := canvas.NewRectangle(theme.Color(ColorNameBanner))
	body := container.NewBorder(nil, nil, nil, container.NewCenter(v.updateButton),
		container.NewVBox(heading, v.bannerText, notes))
	return container.NewStack(bg, container.NewPadded(body))
}

// ShowUpdate reveals the banner for up. Must run on the UI thread.
func (v *MainView) ShowUpdate(up *updater.Update) {
	if up == nil {
		return
	}
	v.pending = up
	v.bind.SetUpdate(up.Version, strings.TrimSpace(up.Notes))
	v.bannerText.SetText(fmt.Sprintf("Version %s is ready to install", up.Version))
	v.banner.Show()
}

// BannerVisible reports whether the update banner is shown.
func (v *MainView) BannerVisible() bool {
	return v.banner.Visible()
}

// InstallUpdate installs the pending update behind a progress dialog and
// relaunches on success. Must run on the UI thread.
func (v *MainView) InstallUpdate() error {
	up := v.pending
	if up == nil {
		return nil
	}
	if v.updater == nil {
		return errors.NewPluginError(plugin.Updater.String(), errors.ErrPluginNotFound)
	}
	v.bind.SetInstalling(true)

	var r updater.Reporter
	var pd *dialog.ProgressDialog
	if v.dialogs != nil {
		pd = v.dialogs.Progress("Updating to " + up.Version)
		r = pd
	}

	v.host.Go(func(ctx context.Context) {
		_, err := v.updater.Install(ctx, up, r)
		if pd != nil {
			pd.Close()
		}
		if err == nil && v.process != nil {
			err = v.process.Relaunch()
		}
		if err != nil {
			v.logger.Error("update failed", log.String("version", up.Version), log.Err(err))
			v.bind.SetInstalling(false)
			if v.dialogs != nil {
				fyne.Do(func() { v.dialogs.Error(err) })
			}
			return
		}
		if v.process == nil && v.dialogs != nil {
			fyne.Do(func() {
				v.dialogs.Message("Update installed", "Restart the application to use version "+up.Version+".")
			})
		}
	})
	return nil
}
