// Package fs gives the application read/write access to files inside an
// explicit set of allowed roots. Every path is cleaned and made absolute
// before the scope check, so ".." cannot climb out of a root.
package fs

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"websql/internal/errors"
	"websql/internal/log"
	"websql/internal/plugin"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/storage"
)

// Entry is one item returned by ReadDir.
type Entry struct {
	Name  string
	Path  string
	IsDir bool
}

// Plugin implements scoped filesystem access on top of Fyne storage URIs.
type Plugin struct {
	roots  []string
	logger log.Logger
}

var _ plugin.Plugin = (*Plugin)(nil)

// New creates a filesystem plugin limited to roots.
func New(roots ...string) *Plugin {
	p := &Plugin{logger: log.Nop()}
	for _, r := range roots {
		p.AddRoot(r)
	}
	return p
}

// Capability implements plugin.Plugin.
func (p *Plugin) Capability() plugin.Capability {
	return plugin.Filesystem
}

// Init implements plugin.Plugin. The app's private storage root is added
// to the scope.
func (p *Plugin) Init(h plugin.Host) error {
	p.logger = h.Logger()
	if a := h.App(); a != nil {
		if root := a.Storage().RootURI(); root != nil && root.Scheme() == "file" {
			p.AddRoot(root.Path())
		}
	}
	p.logger.Debug("filesystem scope", log.String("roots", strings.Join(p.roots, string(filepath.ListSeparator))))
	return nil
}

// AddRoot allows access below dir.
func (p *Plugin) AddRoot(dir string) {
	if dir == "" {
		return
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return
	}
	p.roots = append(p.roots, abs)
}

// Roots returns the allowed roots.
func (p *Plugin) Roots() []string {
	return append([]string(nil), p.roots...)
}

// resolve checks path against the scope and returns its file URI.
func (p *Plugin) resolve(path string) (fyne.URI, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	for _, root := range p.roots {
		rel, err := filepath.Rel(root, abs)
		if err != nil {
			continue
		}
		if rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))) {
			return storage.NewFileURI(abs), nil
		}
	}
	return nil, fmt.Errorf("%w: %s", errors.ErrOutsideScope, abs)
}

// ReadFile returns the contents of path.
func (p *Plugin) ReadFile(path string) ([]byte, error) {
	u, err := p.resolve(path)
	if err != nil {
		return nil, err
	}
	r, err := storage.Reader(u)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

// WriteFile creates or truncates path and writes data.
func (p *Plugin) WriteFile(path string, data []byte) error {
	u, err := p.resolve(path)
	if err != nil {
		return err
	}
	w, err := storage.Writer(u)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

// Exists reports whether path exists.
func (p *Plugin) Exists(path string) (bool, error) {
	u, err := p.resolve(path)
	if err != nil {
		return false, err
	}
	return storage.Exists(u)
}

// ReadDir lists path, sorted by name.
func (p *Plugin) ReadDir(path string) ([]Entry, error) {
	u, err := p.resolve(path)
	if err != nil {
		return nil, err
	}
	children, err := storage.List(u)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(children))
	for _, c := range children {
		isDir, _ := storage.CanList(c)
		entries = append(entries, Entry{Name: c.Name(), Path: c.Path(), IsDir: isDir})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

// Mkdir creates the directory path. Its parent must exist.
func (p *Plugin) Mkdir(path string) error {
	u, err := p.resolve(path)
	if err != nil {
		return err
	}
	return storage.CreateListable(u)
}

// Remove deletes path.
func (p *Plugin) Remove(path string) error {
	u, err := p.resolve(path)
	if err != nil {
		return err
	}
	return storage.Delete(u)
}
