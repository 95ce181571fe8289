// Package dialog exposes native-looking dialogs on the main window.
package dialog

import (
	"strings"
	"sync/atomic"

	"websql/internal/log"
	"websql/internal/plugin"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	fynedialog "fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
)

// Plugin implements dialog access.
type Plugin struct {
	window fyne.Window
	logger log.Logger
}

var _ plugin.Plugin = (*Plugin)(nil)

// New creates a dialog plugin. It is bound to a window in Init.
func New() *Plugin {
	return &Plugin{logger: log.Nop()}
}

// Capability implements plugin.Plugin.
func (p *Plugin) Capability() plugin.Capability {
	return plugin.Dialog
}

// Init implements plugin.Plugin.
func (p *Plugin) Init(h plugin.Host) error {
	p.window = h.Window()
	p.logger = h.Logger()
	return nil
}

// Message shows an informational dialog.
func (p *Plugin) Message(title, message string) {
	fynedialog.ShowInformation(title, message, p.window)
}

// Error shows an error dialog and logs err.
func (p *Plugin) Error(err error) {
	p.logger.Warn("error dialog shown", log.Err(err))
	fynedialog.ShowError(err, p.window)
}

// Confirm asks a yes/no question.
func (p *Plugin) Confirm(title, message string, cb func(bool)) {
	fynedialog.ShowConfirm(title, message, cb, p.window)
}

// Open lets the user pick a file. extensions filters by suffix, e.g. ".csv".
// cb receives "" when the dialog is cancelled.
func (p *Plugin) Open(extensions []string, cb func(path string, err error)) {
	d := fynedialog.NewFileOpen(func(r fyne.URIReadCloser, err error) {
		if err != nil || r == nil {
			cb("", err)
			return
		}
		path := r.URI().Path()
		r.Close()
		cb(path, nil)
	}, p.window)
	if len(extensions) > 0 {
		d.SetFilter(storage.NewExtensionFileFilter(normalise(extensions)))
	}
	d.Show()
}

// Save lets the user choose a destination file, pre-filled with name.
// cb receives "" when the dialog is cancelled.
func (p *Plugin) Save(name string, cb func(path string, err error)) {
	d := fynedialog.NewFileSave(func(w fyne.URIWriteCloser, err error) {
		if err != nil || w == nil {
			cb("", err)
			return
		}
		path := w.URI().Path()
		w.Close()
		cb(path, nil)
	}, p.window)
	d.SetFileName(name)
	d.Show()
}

// Folder lets the user pick a directory.
func (p *Plugin) Folder(cb func(path string, err error)) {
	fynedialog.ShowFolderOpen(func(l fyne.ListableURI, err error) {
		if err != nil || l == nil {
			cb("", err)
			return
		}
		cb(l.Path(), nil)
	}, p.window)
}

func normalise(exts []string) []string {
	out := make([]string, len(exts))
	for i, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		out[i] = e
	}
	return out
}

// ProgressDialog is a modal progress bar with a Cancel button.
// It satisfies updater.Reporter.
type ProgressDialog struct {
	bar       *widget.ProgressBar
	status    *widget.Label
	info      *widget.Label
	cancel    *widget.Button
	dialog    fynedialog.Dialog
	cancelled atomic.Bool
}

// Progress opens a progress dialog titled title.
func (p *Plugin) Progress(title string) *ProgressDialog {
	pd := &ProgressDialog{
		bar:    widget.NewProgressBar(),
		status: widget.NewLabel(""),
		info:   widget.NewLabel(""),
	}
	pd.cancel = widget.NewButton("Cancel", func() {
		pd.cancelled.Store(true)
		pd.cancel.Disable()
	})

	content := container.NewVBox(
		pd.status,
		container.NewBorder(nil, nil, nil, pd.cancel, pd.bar),
		pd.info,
	)
	pd.dialog = fynedialog.NewCustomWithoutButtons(title, content, p.window)
	pd.dialog.Show()
	return pd
}

// SetStatus implements updater.Reporter.
func (pd *ProgressDialog) SetStatus(text string) {
	fyne.Do(func() { pd.status.SetText(text) })
}

// SetProgress implements updater.Reporter.
func (pd *ProgressDialog) SetProgress(fraction float32, info string) {
	fyne.Do(func() {
		pd.bar.SetValue(float64(fraction))
		pd.info.SetText(info)
	})
}

// IsCancelled implements updater.Reporter.
func (pd *ProgressDialog) IsCancelled() bool {
	return pd.cancelled.Load()
}

// Close hides the dialog.
func (pd *ProgressDialog) Close() {
	fyne.Do(pd.dialog.Hide)
}
