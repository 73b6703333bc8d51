package testutils

import (
	"archive/zip"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

// CreateTree writes files (slash-separated relative path -> content) under
// root and returns root.
func CreateTree(t *testing.T, root string, files map[string]string) string {
	t.Helper()

	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	}

	return root
}

// CreateTempClasspathDir creates a temporary directory classpath entry
// holding files.
func CreateTempClasspathDir(t *testing.T, files map[string]string) string {
	t.Helper()
	return CreateTree(t, t.TempDir(), files)
}

// CreateJar writes a zip archive at dir/name containing files. Names ending
// in "/" become explicit directory entries. Entries are written in sorted
// order.
func CreateJar(t *testing.T, dir, name string, files map[string]string) string {
	t.Helper()

	p := filepath.Join(dir, name)
	f, err := os.Create(p)
	require.NoError(t, err)
	defer f.Close()

	names := make([]string, 0, len(files))
	for n := range files {
		names = append(names, n)
	}
	sort.Strings(names)

	zw := zip.NewWriter(f)
	for _, n := range names {
		w, err := zw.Create(n)
		require.NoError(t, err)
		if files[n] != "" {
			_, err = w.Write([]byte(files[n]))
			require.NoError(t, err)
		}
	}
	require.NoError(t, zw.Close())

	return p
}
