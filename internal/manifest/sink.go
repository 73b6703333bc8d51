package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	ftlerrors "github.com/conneroisu/ftlpack/internal/errors"
	"gopkg.in/yaml.v3"
)

// ResourceConfigDir is where the preserve declaration is written, relative
// to the output root.
const ResourceConfigDir = "META-INF/native-image"

// Sink receives the outputs of one discovery run.
type Sink interface {
	// Generate publishes data as a generated resource at path.
	Generate(path string, data []byte) error
	// Preserve declares resources that ahead-of-time compilation must keep.
	Preserve(paths []string) error
}

// Register publishes the manifest bytes at ListFile and declares
// resourcePaths for preservation.
func Register(sink Sink, data []byte, resourcePaths []string) error {
	if err := sink.Generate(ListFile, data); err != nil {
		return err
	}
	return sink.Preserve(resourcePaths)
}

// ResourceConfig is the native-image resource configuration document.
type ResourceConfig struct {
	Resources ResourceIncludes `json:"resources" yaml:"resources"`
}

// ResourceIncludes lists include patterns.
type ResourceIncludes struct {
	Includes []ResourcePattern `json:"includes" yaml:"includes"`
}

// ResourcePattern is one quoted include pattern.
type ResourcePattern struct {
	Pattern string `json:"pattern" yaml:"pattern"`
}

// NewResourceConfig quotes every path literally so regex metacharacters in
// file names are not interpreted.
func NewResourceConfig(paths []string) ResourceConfig {
	cfg := ResourceConfig{Resources: ResourceIncludes{Includes: make([]ResourcePattern, 0, len(paths))}}
	for _, p := range paths {
		cfg.Resources.Includes = append(cfg.Resources.Includes, ResourcePattern{Pattern: `\Q` + p + `\E`})
	}
	return cfg
}

// DirSink writes outputs beneath Root. Format selects "json" (default) or
// "yaml" for the preserve declaration.
type DirSink struct {
	Root   string
	Format string
}

// Generate implements Sink.
func (s *DirSink) Generate(path string, data []byte) error {
	if !filepath.IsLocal(filepath.FromSlash(path)) {
		return ftlerrors.NewIOError("generated resource path must be relative and local", nil).WithPath(path)
	}
	return s.write(filepath.FromSlash(path), data)
}

// Preserve implements Sink.
func (s *DirSink) Preserve(paths []string) error {
	cfg := NewResourceConfig(paths)

	var (
		data []byte
		err  error
		name string
	)
	switch strings.ToLower(s.Format) {
	case "", "json":
		name = "resource-config.json"
		data, err = json.MarshalIndent(cfg, "", "  ")
		data = append(data, '\n')
	case "yaml":
		name = "resource-config.yaml"
		data, err = yaml.Marshal(cfg)
	default:
		return ftlerrors.NewConfigError(fmt.Sprintf("unsupported resource config format %q", s.Format), nil)
	}
	if err != nil {
		return ftlerrors.NewIOError("cannot encode resource config", err)
	}

	return s.write(filepath.Join(filepath.FromSlash(ResourceConfigDir), name), data)
}

func (s *DirSink) write(rel string, data []byte) error {
	target := filepath.Join(s.Root, rel)
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return ftlerrors.NewIOError("cannot create output directory", err).WithPath(filepath.Dir(target))
	}
	if err := os.WriteFile(target, data, 0644); err != nil {
		return ftlerrors.NewIOError("cannot write output", err).WithPath(target)
	}
	return nil
}

// MemorySink keeps outputs in memory.
type MemorySink struct {
	Generated map[string][]byte
	Preserved []string
}

// NewMemorySink creates an empty MemorySink.
func NewMemorySink() *MemorySink {
	return &MemorySink{Generated: make(map[string][]byte)}
}

// Generate implements Sink.
func (m *MemorySink) Generate(path string, data []byte) error {
	m.Generated[path] = append([]byte(nil), data...)
	return nil
}

// Preserve implements Sink. Repeated calls accumulate.
func (m *MemorySink) Preserve(paths []string) error {
	m.Preserved = append(m.Preserved, paths...)
	return nil
}

// GeneratedPaths returns the generated resource paths in sorted order.
func (m *MemorySink) GeneratedPaths() []string {
	out := make([]string, 0, len(m.Generated))
	for p := range m.Generated {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}
