package fs

import (
	"os"
	"path/filepath"
	"testing"

	"websql/internal/errors"
	"websql/internal/plugin"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scoped(t *testing.T) (*Plugin, string) {
	t.Helper()
	// The test app registers the file:// storage repository.
	test.NewApp()

	root := t.TempDir()
	return New(root), root
}

func TestCapability(t *testing.T) {
	assert.Equal(t, plugin.Filesystem, New().Capability())
}

func TestWriteReadRoundTrip(t *testing.T) {
	p, root := scoped(t)
	path := filepath.Join(root, "query.sql")

	require.NoError(t, p.WriteFile(path, []byte("select 1;")))

	data, err := p.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "select 1;", string(data))

	ok, err := p.Exists(path)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestReadDirAndMkdir(t *testing.T) {
	p, root := scoped(t)

	require.NoError(t, p.Mkdir(filepath.Join(root, "exports")))
	require.NoError(t, p.WriteFile(filepath.Join(root, "b.csv"), []byte("x")))
	require.NoError(t, p.WriteFile(filepath.Join(root, "a.csv"), []byte("y")))

	entries, err := p.ReadDir(root)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "a.csv", entries[0].Name)
	assert.Equal(t, "b.csv", entries[1].Name)
	assert.Equal(t, "exports", entries[2].Name)
	assert.True(t, entries[2].IsDir)
	assert.False(t, entries[0].IsDir)
}

func TestRemove(t *testing.T) {
	p, root := scoped(t)
	path := filepath.Join(root, "tmp.csv")
	require.NoError(t, os.WriteFile(path, []byte("z"), 0644))

	require.NoError(t, p.Remove(path))
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestOutsideScope(t *testing.T) {
	p, root := scoped(t)
	outside := t.TempDir()

	tests := []string{
		filepath.Join(outside, "secret.txt"),
		filepath.Join(root, "..", filepath.Base(outside), "secret.txt"),
		filepath.Join(root, "..", "..", "etc", "passwd"),
	}
	for _, path := range tests {
		_, err := p.ReadFile(path)
		assert.ErrorIs(t, err, errors.ErrOutsideScope, path)
		assert.ErrorIs(t, p.WriteFile(path, nil), errors.ErrOutsideScope, path)
	}
}

func TestRootItselfAllowed(t *testing.T) {
	p, root := scoped(t)
	ok, err := p.Exists(root)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSiblingPrefixNotAllowed(t *testing.T) {
	test.NewApp()
	base := t.TempDir()
	p := New(filepath.Join(base, "data"))

	_, err := p.Exists(filepath.Join(base, "data-other", "x"))
	assert.ErrorIs(t, err, errors.ErrOutsideScope)
}

func TestEmptyScopeDeniesEverything(t *testing.T) {
	test.NewApp()
	p := New()
	assert.Empty(t, p.Roots())
	_, err := p.Exists(t.TempDir())
	assert.ErrorIs(t, err, errors.ErrOutsideScope)
}
