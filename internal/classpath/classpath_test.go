package classpath

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	ftlerrors "github.com/conneroisu/ftlpack/internal/errors"
	"github.com/conneroisu/ftlpack/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripPrefix(t *testing.T) {
	tests := []struct {
		in, out string
	}{
		{"classpath:templates", "templates"},
		{"templates", "templates"},
		{"Classpath:templates", "Classpath:templates"},
		{"classpath templates", "classpath templates"},
		{"classpath:", ""},
		{"classpath:classpath:x", "classpath:x"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.out, StripPrefix(tt.in))
		})
	}
}

func TestParseEntry(t *testing.T) {
	abs := filepath.Join(string(filepath.Separator), "opt", "app")

	tests := []struct {
		name   string
		raw    string
		kind   EntryKind
		path   string
		scheme string
	}{
		{"plain directory", abs, KindDirectory, abs, ""},
		{"plain jar", filepath.Join(abs, "lib.jar"), KindArchive, filepath.Join(abs, "lib.jar"), ""},
		{"plain zip upper case", filepath.Join(abs, "LIB.ZIP"), KindArchive, filepath.Join(abs, "LIB.ZIP"), ""},
		{"file url", "file:///opt/app/classes", KindDirectory, filepath.FromSlash("/opt/app/classes"), ""},
		{"file url jar", "file:/opt/app/lib.jar", KindArchive, filepath.FromSlash("/opt/app/lib.jar"), ""},
		{"jar url", "jar:file:/opt/app/lib.jar!/", KindArchive, filepath.FromSlash("/opt/app/lib.jar"), ""},
		{"foreign url", "http://repo.example/lib", KindForeign, "http://repo.example/lib", "http"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry, err := ParseEntry(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.kind, entry.Kind)
			assert.Equal(t, tt.path, entry.Path)
			assert.Equal(t, tt.scheme, entry.Scheme)
		})
	}
}

func TestParseEntryErrors(t *testing.T) {
	for _, raw := range []string{"jar:http://x/lib.jar!/", "file:", "http://bad host/%zz"} {
		t.Run(raw, func(t *testing.T) {
			_, err := ParseEntry(raw)
			require.Error(t, err)
			assert.True(t, ftlerrors.IsType(err, ftlerrors.ErrorTypeResolution))
		})
	}
}

func TestParseSplitsList(t *testing.T) {
	raw := strings.Join([]string{"/a", "/b.jar"}, string(os.PathListSeparator)) + ",/c"
	cp, err := Parse(raw)
	require.NoError(t, err)

	entries := cp.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, KindDirectory, entries[0].Kind)
	assert.Equal(t, KindArchive, entries[1].Kind)
	assert.Equal(t, KindDirectory, entries[2].Kind)
	assert.Len(t, cp.Directories(), 2)
}

func TestResources(t *testing.T) {
	dir := testutils.CreateTempClasspathDir(t, map[string]string{
		"templates/a.ftl": "a",
		"other/b.ftl":     "b",
	})
	libs := t.TempDir()
	withDir := testutils.CreateJar(t, libs, "explicit.jar", map[string]string{
		"templates/":      "",
		"templates/x.ftl": "x",
	})
	implied := testutils.CreateJar(t, libs, "implied.jar", map[string]string{
		"templates/deep/y.ftl": "y",
	})
	unrelated := testutils.CreateJar(t, libs, "unrelated.jar", map[string]string{
		"templatesextra/z.ftl": "z",
	})

	cp := New(
		Entry{Kind: KindDirectory, Path: dir},
		Entry{Kind: KindArchive, Path: withDir},
		Entry{Kind: KindArchive, Path: implied},
		Entry{Kind: KindArchive, Path: unrelated},
		Entry{Kind: KindArchive, Path: filepath.Join(libs, "missing.jar")},
		Entry{Kind: KindDirectory, Path: filepath.Join(libs, "missing-dir")},
		Entry{Kind: KindForeign, Path: "http://repo.example/lib/", Scheme: "http"},
	)

	resources, err := cp.Resources("templates")
	require.NoError(t, err)
	require.Len(t, resources, 4)

	assert.Equal(t, Resource{Protocol: ProtocolFile, Path: filepath.Join(dir, "templates")}, resources[0])
	assert.Equal(t, Resource{Protocol: ProtocolJar, Path: withDir, Entry: "templates"}, resources[1])
	assert.Equal(t, Resource{Protocol: ProtocolJar, Path: implied, Entry: "templates"}, resources[2])
	assert.Equal(t, Resource{Protocol: "http", Path: "http://repo.example/lib/templates"}, resources[3])
}

func TestResourcesNestedName(t *testing.T) {
	dir := testutils.CreateTempClasspathDir(t, map[string]string{
		"freemarker/templates/a.ftl": "a",
	})
	cp := New(Entry{Kind: KindDirectory, Path: dir})

	for _, name := range []string{"freemarker/templates", "/freemarker/templates/", "freemarker/./templates"} {
		resources, err := cp.Resources(name)
		require.NoError(t, err)
		require.Len(t, resources, 1, name)
		assert.Equal(t, filepath.Join(dir, "freemarker", "templates"), resources[0].Path)
	}
}

func TestResourcesSkipsFiles(t *testing.T) {
	dir := testutils.CreateTempClasspathDir(t, map[string]string{
		"templates": "not a directory",
	})
	cp := New(Entry{Kind: KindDirectory, Path: dir})

	resources, err := cp.Resources("templates")
	require.NoError(t, err)
	assert.Empty(t, resources)
}

func TestResourcesCorruptArchive(t *testing.T) {
	libs := t.TempDir()
	bad := filepath.Join(libs, "bad.jar")
	require.NoError(t, os.WriteFile(bad, []byte("not a zip"), 0644))

	_, err := New(Entry{Kind: KindArchive, Path: bad}).Resources("templates")
	require.Error(t, err)
	assert.True(t, ftlerrors.IsFatal(err))
}

func TestResourceString(t *testing.T) {
	assert.Equal(t, "file:/cp/templates", Resource{Protocol: ProtocolFile, Path: "/cp/templates"}.String())
	assert.Equal(t, "jar:file:/lib/app.jar!/templates", Resource{Protocol: ProtocolJar, Path: "/lib/app.jar", Entry: "templates"}.String())
	assert.Equal(t, "vfs:/x", Resource{Protocol: "vfs", Path: "vfs:/x"}.String())
}

func TestEntryKindString(t *testing.T) {
	assert.Equal(t, "directory", KindDirectory.String())
	assert.Equal(t, "archive", KindArchive.String())
	assert.Equal(t, "foreign", KindForeign.String())
	assert.Equal(t, "unknown", EntryKind(42).String())
}
