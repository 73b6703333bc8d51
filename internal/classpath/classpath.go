// Package classpath models an ordered list of classpath entries (plain
// directories, zip/jar archives, or foreign URLs) and resolves a relative
// resource name against it the way a class loader's getResources does: one
// protocol-tagged Resource per entry that contains the name.
package classpath

import (
	"archive/zip"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	ftlerrors "github.com/conneroisu/ftlpack/internal/errors"
)

// Prefix marks a location as classpath-relative. It is implied and removed
// before resolution.
const Prefix = "classpath:"

// Recognised resource protocols.
const (
	ProtocolFile = "file"
	ProtocolJar  = "jar"
)

// EntryKind distinguishes how an entry is read.
type EntryKind int

// Entry kinds.
const (
	KindDirectory EntryKind = iota
	KindArchive
	KindForeign
)

// String returns the string representation of the EntryKind
func (k EntryKind) String() string {
	switch k {
	case KindDirectory:
		return "directory"
	case KindArchive:
		return "archive"
	case KindForeign:
		return "foreign"
	default:
		return "unknown"
	}
}

// Entry is one element of a classpath.
type Entry struct {
	Kind EntryKind
	// Path is the absolute filesystem path for directory and archive entries,
	// and the raw URL for foreign entries.
	Path string
	// Scheme is set for foreign entries only.
	Scheme string
}

// Resource is one physical occurrence of a name on the classpath.
type Resource struct {
	Protocol string
	// Path is the directory to walk for file resources, or the archive path
	// for jar resources. For other protocols it is the raw locator.
	Path string
	// Entry is the directory name inside the archive for jar resources.
	Entry string
}

// String renders the resource as a JVM-style URL.
func (r Resource) String() string {
	switch r.Protocol {
	case ProtocolFile:
		return "file:" + filepath.ToSlash(r.Path)
	case ProtocolJar:
		return "jar:file:" + filepath.ToSlash(r.Path) + "!/" + r.Entry
	default:
		return r.Path
	}
}

// Resolver resolves a relative resource name to zero or more resources.
type Resolver interface {
	Resources(name string) ([]Resource, error)
}

// Classpath is an ordered list of entries implementing Resolver.
type Classpath struct {
	entries []Entry
}

// New creates a classpath from already parsed entries.
func New(entries ...Entry) *Classpath {
	return &Classpath{entries: entries}
}

// Parse splits a classpath string on commas and parses each element.
// Elements that are not URLs are further split on the OS list separator, as
// in a JVM -cp value. Empty elements are ignored.
func Parse(value string) (*Classpath, error) {
	var fields []string
	for _, field := range strings.Split(value, ",") {
		if isURL(field) {
			fields = append(fields, field)
			continue
		}
		fields = append(fields, strings.Split(field, string(os.PathListSeparator))...)
	}
	return FromList(fields)
}

func isURL(s string) bool {
	s = strings.TrimSpace(s)
	return strings.HasPrefix(s, "file:") || strings.HasPrefix(s, "jar:") || strings.Contains(s, "://")
}

// FromList parses every element of list as a classpath entry.
func FromList(list []string) (*Classpath, error) {
	cp := &Classpath{}
	for _, raw := range list {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		entry, err := ParseEntry(raw)
		if err != nil {
			return nil, err
		}
		cp.entries = append(cp.entries, entry)
	}
	return cp, nil
}

// ParseEntry parses a single classpath element. Accepted forms are a plain
// path, a file: URL, a jar:file:...!/ URL, or any other scheme:// URL.
func ParseEntry(raw string) (Entry, error) {
	switch {
	case strings.HasPrefix(raw, "jar:"):
		inner := strings.TrimPrefix(raw, "jar:")
		if i := strings.Index(inner, "!/"); i >= 0 {
			inner = inner[:i]
		}
		p, err := fileURLPath(inner)
		if err != nil {
			return Entry{}, err
		}
		return Entry{Kind: KindArchive, Path: p}, nil
	case strings.HasPrefix(raw, "file:"):
		p, err := fileURLPath(raw)
		if err != nil {
			return Entry{}, err
		}
		return pathEntry(p), nil
	case strings.Contains(raw, "://"):
		u, err := url.Parse(raw)
		if err != nil {
			return Entry{}, ftlerrors.NewResolutionError("malformed classpath URL", err).WithPath(raw)
		}
		return Entry{Kind: KindForeign, Path: raw, Scheme: u.Scheme}, nil
	default:
		abs, err := filepath.Abs(raw)
		if err != nil {
			return Entry{}, ftlerrors.NewResolutionError("cannot make classpath entry absolute", err).WithPath(raw)
		}
		return pathEntry(abs), nil
	}
}

func fileURLPath(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", ftlerrors.NewResolutionError("malformed classpath URL", err).WithPath(raw)
	}
	if u.Scheme != ProtocolFile {
		return "", ftlerrors.NewResolutionError(fmt.Sprintf("expected file URL, got scheme %q", u.Scheme), nil).WithPath(raw)
	}
	p := u.Path
	if p == "" {
		p = u.Opaque
	}
	if p == "" {
		return "", ftlerrors.NewResolutionError("file URL has no path", nil).WithPath(raw)
	}
	return filepath.FromSlash(p), nil
}

func pathEntry(p string) Entry {
	if IsArchive(p) {
		return Entry{Kind: KindArchive, Path: p}
	}
	return Entry{Kind: KindDirectory, Path: p}
}

// IsArchive reports whether p names a jar or zip archive by extension.
func IsArchive(p string) bool {
	ext := strings.ToLower(filepath.Ext(p))
	return ext == ".jar" || ext == ".zip"
}

// Entries returns a copy of the classpath entries.
func (c *Classpath) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Directories returns the paths of all directory entries.
func (c *Classpath) Directories() []string {
	var dirs []string
	for _, e := range c.entries {
		if e.Kind == KindDirectory {
			dirs = append(dirs, e.Path)
		}
	}
	return dirs
}

// Resources resolves name against every entry in order. Entries that do not
// contain name are skipped; missing entries are skipped too.
func (c *Classpath) Resources(name string) ([]Resource, error) {
	name = strings.Trim(path.Clean("/"+filepath.ToSlash(name)), "/")

	var out []Resource
	for _, e := range c.entries {
		switch e.Kind {
		case KindDirectory:
			dir := filepath.Join(e.Path, filepath.FromSlash(name))
			info, err := os.Stat(dir)
			if err != nil {
				if os.IsNotExist(err) {
					continue
				}
				return nil, ftlerrors.NewResolutionError("cannot stat classpath directory", err).WithPath(dir)
			}
			if info.IsDir() {
				out = append(out, Resource{Protocol: ProtocolFile, Path: dir})
			}
		case KindArchive:
			ok, err := archiveContainsDir(e.Path, name)
			if err != nil {
				return nil, err
			}
			if ok {
				out = append(out, Resource{Protocol: ProtocolJar, Path: e.Path, Entry: name})
			}
		case KindForeign:
			out = append(out, Resource{Protocol: e.Scheme, Path: strings.TrimSuffix(e.Path, "/") + "/" + name})
		}
	}
	return out, nil
}

func archiveContainsDir(archivePath, name string) (bool, error) {
	if _, err := os.Stat(archivePath); os.IsNotExist(err) {
		return false, nil
	}

	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return false, ftlerrors.NewResolutionError("cannot open classpath archive", err).WithPath(archivePath)
	}
	defer zr.Close()

	if name == "" {
		return true, nil
	}

	prefix := name + "/"
	for _, f := range zr.File {
		if f.Name == prefix || strings.HasPrefix(f.Name, prefix) {
			return true, nil
		}
	}
	return false, nil
}

// StripPrefix removes an exact, case-sensitive "classpath:" prefix.
func StripPrefix(location string) string {
	return strings.TrimPrefix(location, Prefix)
}
