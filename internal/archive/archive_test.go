package archive

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	ftlerrors "github.com/conneroisu/ftlpack/internal/errors"
	"github.com/conneroisu/ftlpack/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMount(t *testing.T) {
	p := testutils.CreateJar(t, t.TempDir(), "app.jar", map[string]string{
		"templates/x.ftl": "hello",
	})

	view, err := Mount(p)
	require.NoError(t, err)
	defer view.Close()

	assert.Equal(t, p, view.Path())
	data, err := fs.ReadFile(view, "templates/x.ftl")
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestMountMissingArchiveIsEmpty(t *testing.T) {
	view, err := Mount(filepath.Join(t.TempDir(), "absent.jar"))
	require.NoError(t, err)
	defer view.Close()

	entries, err := fs.ReadDir(view, ".")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestMountCorruptArchive(t *testing.T) {
	p := filepath.Join(t.TempDir(), "bad.jar")
	require.NoError(t, os.WriteFile(p, []byte("garbage"), 0644))

	_, err := Mount(p)
	require.Error(t, err)
	assert.True(t, ftlerrors.IsType(err, ftlerrors.ErrorTypeTraversal))
}

func TestCloseIsIdempotent(t *testing.T) {
	p := testutils.CreateJar(t, t.TempDir(), "app.jar", map[string]string{"a.ftl": "a"})

	view, err := Mount(p)
	require.NoError(t, err)
	assert.NoError(t, view.Close())
	assert.NoError(t, view.Close())
}

func TestWithClosesOnSuccessAndFailure(t *testing.T) {
	p := testutils.CreateJar(t, t.TempDir(), "app.jar", map[string]string{"templates/x.ftl": "x"})

	var seen *View
	err := With(p, func(fsys fs.FS) error {
		seen = fsys.(*View)
		_, err := fs.Stat(fsys, "templates/x.ftl")
		return err
	})
	require.NoError(t, err)
	require.NotNil(t, seen)
	assert.Nil(t, seen.closer, "view must be released after success")

	boom := errors.New("boom")
	err = With(p, func(fsys fs.FS) error {
		seen = fsys.(*View)
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, seen.closer, "view must be released after failure")
}

func TestWithClosesOnPanic(t *testing.T) {
	p := testutils.CreateJar(t, t.TempDir(), "app.jar", map[string]string{"a.ftl": "a"})

	var seen *View
	assert.Panics(t, func() {
		_ = With(p, func(fsys fs.FS) error {
			seen = fsys.(*View)
			panic("walk exploded")
		})
	})
	require.NotNil(t, seen)
	assert.Nil(t, seen.closer)
}

func TestWithMountFailure(t *testing.T) {
	p := filepath.Join(t.TempDir(), "bad.jar")
	require.NoError(t, os.WriteFile(p, []byte("garbage"), 0644))

	called := false
	err := With(p, func(fs.FS) error {
		called = true
		return nil
	})
	assert.Error(t, err)
	assert.False(t, called)
}
