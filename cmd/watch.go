package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/conneroisu/ftlpack/internal/watcher"
	"github.com/spf13/cobra"
)

func newWatchCmd() *cobra.Command {
	var debounce time.Duration

	watchCmd := &cobra.Command{
		Use:     "watch",
		Aliases: []string{"w"},
		Short:   "Rebuild outputs whenever templates change",
		Long: `Run a build, then watch the classpath directories and the directories
holding classpath archives. Any .ftl or archive change triggers a rebuild
after the debounce delay. Stop with Ctrl+C.

Examples:
  ftlpack watch
  ftlpack watch --debounce 1s -o target/classes`,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			bindings := map[string]string{
				"output": "output.dir",
				"format": "output.format",
			}
			for k, v := range discoveryFlagBindings {
				bindings[k] = v
			}
			return bindFlags(cmd, bindings)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runWatch(ctx, cmd, debounce)
		},
	}

	addDiscoveryFlags(watchCmd)
	watchCmd.Flags().StringP("output", "o", "", "output directory (default build/ftlpack)")
	watchCmd.Flags().String("format", "", "resource configuration format (json, yaml)")
	watchCmd.Flags().DurationVar(&debounce, "debounce", 300*time.Millisecond, "delay before rebuilding after a change")

	AddFlagValidation(watchCmd, "format", func(format string) error {
		return ValidateChoice(format, []string{"json", "yaml"})
	})

	return watchCmd
}

func runWatch(ctx context.Context, cmd *cobra.Command, debounce time.Duration) error {
	s, err := newSession()
	if err != nil {
		return err
	}
	defer s.close()

	out := cmd.OutOrStdout()

	rebuild := func(ctx context.Context) error {
		result, err := s.build(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Built %d templates\n", len(result.Templates))
		return nil
	}

	// A failing initial build is reported, not fatal: the next change may
	// fix it.
	if err := rebuild(ctx); err != nil {
		s.logger.Error(ctx, err, "Initial build failed")
	}

	fw, err := watcher.NewFileWatcher(debounce, s.logger)
	if err != nil {
		return err
	}
	defer fw.Stop()

	fw.AddFilter(watcher.NoHiddenFilter)
	fw.AddFilter(watcher.AnyOf(watcher.TemplateFilter, watcher.ArchiveFilter))
	fw.AddHandler(func(ctx context.Context, events []watcher.ChangeEvent) error {
		for _, e := range events {
			s.logger.Debug(ctx, "Change detected", "path", e.Path, "type", e.Type.String())
		}
		return rebuild(ctx)
	})

	if err := fw.AddClasspath(s.classpath.Entries()); err != nil {
		return err
	}

	if err := fw.Start(ctx); err != nil {
		return err
	}

	s.logger.Info(ctx, "Watching for template changes", "paths", len(fw.WatchList()))
	<-ctx.Done()
	s.logger.Info(context.Background(), "Stopping watcher")

	return nil
}
