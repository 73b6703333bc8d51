// Package archive mounts zip and jar files as read-only fs.FS views.
//
// A view holds an open file handle, so callers acquire it right before they
// walk the archive and release it right after. With does both and closes the
// view on every return path.
package archive

import (
	"archive/zip"
	"bytes"
	"errors"
	"io/fs"

	ftlerrors "github.com/conneroisu/ftlpack/internal/errors"
)

// View is a mounted archive.
type View struct {
	fs.FS
	path   string
	closer interface{ Close() error }
}

// Path returns the archive path the view was mounted from.
func (v *View) Path() string {
	return v.path
}

// Close releases the archive handle. It is safe to call more than once.
func (v *View) Close() error {
	if v.closer == nil {
		return nil
	}
	err := v.closer.Close()
	v.closer = nil
	return err
}

// Mount opens the archive at path. A missing archive mounts as an empty view
// rather than failing, mirroring a create-if-absent filesystem mount.
func Mount(path string) (*View, error) {
	zr, err := zip.OpenReader(path)
	if err == nil {
		return &View{FS: zr, path: path, closer: zr}, nil
	}

	if !errors.Is(err, fs.ErrNotExist) {
		return nil, ftlerrors.NewTraversalError(ftlerrors.CodeMount, "cannot mount archive", err).WithPath(path)
	}

	empty, err := emptyArchive()
	if err != nil {
		return nil, ftlerrors.NewTraversalError(ftlerrors.CodeMount, "cannot create empty archive view", err).WithPath(path)
	}
	return &View{FS: empty, path: path}, nil
}

// With mounts the archive at path, runs fn against it, and always unmounts.
// A close failure is joined with fn's error.
func With(path string, fn func(fsys fs.FS) error) (err error) {
	view, err := Mount(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := view.Close(); cerr != nil {
			err = errors.Join(err, ftlerrors.NewTraversalError(ftlerrors.CodeMount, "cannot unmount archive", cerr).WithPath(path))
		}
	}()

	return fn(view)
}

func emptyArchive() (*zip.Reader, error) {
	var buf bytes.Buffer
	if err := zip.NewWriter(&buf).Close(); err != nil {
		return nil, err
	}
	return zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
}
