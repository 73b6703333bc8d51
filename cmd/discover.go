package cmd

import (
	"context"
	"fmt"

	"github.com/conneroisu/ftlpack/internal/classpath"
	"github.com/conneroisu/ftlpack/internal/config"
	"github.com/conneroisu/ftlpack/internal/discovery"
	"github.com/conneroisu/ftlpack/internal/logging"
	"github.com/conneroisu/ftlpack/internal/manifest"
)

// session holds what a discovering command needs after configuration has
// been resolved.
type session struct {
	cfg       *config.Config
	logger    *logging.ZapLogger
	classpath *classpath.Classpath
}

func newSession() (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := logging.NewLogger(cfg.LoggerConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	cp, err := cfg.ClasspathResolver()
	if err != nil {
		return nil, fmt.Errorf("failed to parse classpath: %w", err)
	}

	return &session{cfg: cfg, logger: logger, classpath: cp}, nil
}

func (s *session) close() {
	_ = s.logger.Sync()
}

func (s *session) discover(ctx context.Context) (*discovery.Result, error) {
	d := discovery.NewDiscoverer(s.classpath, s.logger, s.cfg.DiscoveryOptions())
	return d.Discover(ctx, s.cfg.Freemarker.Locations)
}

// build discovers templates and registers them with a DirSink rooted at the
// configured output directory.
func (s *session) build(ctx context.Context) (*discovery.Result, error) {
	result, err := s.discover(ctx)
	if err != nil {
		return nil, err
	}

	sink := &manifest.DirSink{Root: s.cfg.Output.Dir, Format: s.cfg.Output.Format}
	if err := result.Register(sink); err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "Registered templates",
		"templates", len(result.Templates),
		"output", s.cfg.Output.Dir)

	return result, nil
}
