// Package discovery finds FreeMarker templates on a classpath.
//
// For every configured location the Discoverer asks a classpath.Resolver for
// the matching resources, walks each one (plain directories directly, jar and
// zip archives through a scoped archive view) and collects every regular file
// ending in ".ftl". The union of those identifiers becomes the manifest that
// a runtime resolver reads instead of scanning, and, together with the
// manifest's own path, the set of resources that native compilation must
// keep.
package discovery

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/conneroisu/ftlpack/internal/archive"
	"github.com/conneroisu/ftlpack/internal/classpath"
	ftlerrors "github.com/conneroisu/ftlpack/internal/errors"
	"github.com/conneroisu/ftlpack/internal/logging"
	"github.com/conneroisu/ftlpack/internal/manifest"
	"golang.org/x/text/unicode/norm"
)

// DefaultLocation is searched when no locations are configured.
const DefaultLocation = "freemarker/templates"

// TemplateSuffix is matched exactly and case-sensitively against file names.
const TemplateSuffix = ".ftl"

// Naming selects how a discovered file is turned into a template identifier.
type Naming string

const (
	// NamingRelative joins the location with the file's path relative to
	// the walked resource root.
	NamingRelative Naming = "relative"
	// NamingLastIndex cuts the file's full path at the last occurrence of
	// the location string. It breaks when a nested directory repeats the
	// location name and fails when the location does not occur at all.
	NamingLastIndex Naming = "last-index"
)

// Valid reports whether n is a known naming mode.
func (n Naming) Valid() bool {
	return n == NamingRelative || n == NamingLastIndex
}

// Options configures a Discoverer.
type Options struct {
	Naming Naming
}

// Result is the outcome of one discovery run.
type Result struct {
	// Templates holds the discovered identifiers in discovery order.
	Templates []string
	// ResourcePaths is Templates followed by manifest.ListFile.
	ResourcePaths []string
	// Manifest is the encoded template list.
	Manifest []byte
	// Origins maps each identifier to the resource it was first found in.
	Origins map[string]string
}

// Register hands the result to sink.
func (r *Result) Register(sink manifest.Sink) error {
	return manifest.Register(sink, r.Manifest, r.ResourcePaths)
}

// Discoverer finds templates through a Resolver.
type Discoverer struct {
	resolver classpath.Resolver
	logger   logging.Logger
	opts     Options
}

// NewDiscoverer creates a Discoverer. A nil logger discards output.
func NewDiscoverer(resolver classpath.Resolver, logger logging.Logger, opts Options) *Discoverer {
	if logger == nil {
		logger = logging.NewNop()
	}
	if opts.Naming == "" {
		opts.Naming = NamingRelative
	}
	return &Discoverer{
		resolver: resolver,
		logger:   logger.WithComponent("discovery"),
		opts:     opts,
	}
}

// Discover walks every location and returns the merged result. Any
// resolution or traversal failure aborts the run with no partial result.
// Resources with an unsupported protocol are logged and skipped.
func (d *Discoverer) Discover(ctx context.Context, locations []string) (*Result, error) {
	if !d.opts.Naming.Valid() {
		return nil, ftlerrors.NewConfigError(fmt.Sprintf("unknown naming mode %q", d.opts.Naming), nil)
	}

	if len(locations) == 0 {
		locations = []string{DefaultLocation}
	}

	found := newOrderedSet()
	for _, raw := range locations {
		location, err := normalizeLocation(classpath.StripPrefix(raw))
		if err != nil {
			return nil, err
		}

		resources, err := d.resolver.Resources(location)
		if err != nil {
			return nil, wrapResolution(err, raw)
		}

		for _, res := range resources {
			d.logger.Info(ctx, "Adding application freemarker templates",
				"path", res.Path, "protocol", res.Protocol)

			var ids []string
			switch res.Protocol {
			case classpath.ProtocolJar:
				err = archive.With(res.Path, func(fsys fs.FS) error {
					root := res.Entry
					if root == "" {
						root = "."
					}
					var werr error
					ids, werr = d.walk(fsys, root, location, "/")
					return werr
				})
			case classpath.ProtocolFile:
				ids, err = d.walk(os.DirFS(res.Path), ".", location, res.Path)
			default:
				d.logger.Warn(ctx, ftlerrors.NewUnsupportedProtocolError(res.Protocol, res.Path),
					"Unsupported URL protocol, freemarker files will not be discovered",
					"protocol", res.Protocol, "path", res.Path)
				continue
			}
			if err != nil {
				return nil, err
			}

			for _, id := range ids {
				if found.add(id, res.String()) {
					d.logger.Debug(ctx, "Discovered", "template", id)
				}
			}
		}
	}

	ids := found.items()
	return &Result{
		Templates:     ids,
		ResourcePaths: manifest.ResourcePaths(ids),
		Manifest:      manifest.Encode(ids),
		Origins:       found.origins,
	}, nil
}

// walk collects template identifiers under root in fsys. base is the
// physical prefix of fsys, used only by NamingLastIndex.
func (d *Discoverer) walk(fsys fs.FS, root, location, base string) ([]string, error) {
	var ids []string
	err := fs.WalkDir(fsys, root, func(p string, entry fs.DirEntry, err error) error {
		if err != nil {
			return ftlerrors.NewTraversalError(ftlerrors.CodeWalk, "cannot walk template directory", err).WithPath(p)
		}
		if !entry.Type().IsRegular() || !strings.HasSuffix(entry.Name(), TemplateSuffix) {
			return nil
		}

		var id string
		switch {
		case d.opts.Naming == NamingLastIndex && location != "":
			id, err = lastIndexIdentifier(base, p, location)
			if err != nil {
				return err
			}
		default:
			id = relativeIdentifier(root, p, location)
		}

		ids = append(ids, id)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func relativeIdentifier(root, p, location string) string {
	rel := p
	if root != "." {
		rel = strings.TrimPrefix(p, root+"/")
	}
	if location == "" {
		return rel
	}
	return location + "/" + rel
}

func lastIndexIdentifier(base, p, location string) (string, error) {
	full := filepath.ToSlash(filepath.Join(base, filepath.FromSlash(p)))
	i := strings.LastIndex(full, location)
	if i < 0 {
		return "", ftlerrors.NewResolutionError(
			fmt.Sprintf("location %q does not occur in discovered path", location), nil).WithPath(full)
	}
	return path.Clean(full[i:]), nil
}

// normalizeLocation cleans a location into slash form without leading or
// trailing separators. "." and "/" both become the classpath root "".
// Locations that climb above the root are rejected.
func normalizeLocation(location string) (string, error) {
	cleaned := path.Clean(strings.TrimLeft(filepath.ToSlash(location), "/"))
	if cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", ftlerrors.NewResolutionError("location escapes the classpath root", nil).WithPath(location)
	}
	if cleaned == "." {
		return "", nil
	}
	return cleaned, nil
}

func wrapResolution(err error, location string) error {
	if ftlerrors.IsType(err, ftlerrors.ErrorTypeResolution) {
		return err
	}
	return ftlerrors.NewResolutionError("cannot enumerate classpath resources", err).WithPath(location)
}

// orderedSet keeps identifiers in first-seen order. Identifiers that differ
// only in Unicode composition (NFD names from macOS against NFC names
// elsewhere) count as one; the first physical spelling is kept.
type orderedSet struct {
	order   []string
	seen    map[string]bool
	origins map[string]string
}

func newOrderedSet() *orderedSet {
	return &orderedSet{
		seen:    make(map[string]bool),
		origins: make(map[string]string),
	}
}

// add inserts id and reports whether it was new.
func (s *orderedSet) add(id, origin string) bool {
	key := norm.NFC.String(id)
	if s.seen[key] {
		return false
	}
	s.seen[key] = true
	s.origins[id] = origin
	s.order = append(s.order, id)
	return true
}

func (s *orderedSet) items() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}
