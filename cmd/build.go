package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/conneroisu/ftlpack/internal/manifest"
	"github.com/spf13/cobra"
)

func newBuildCmd() *cobra.Command {
	buildCmd := &cobra.Command{
		Use:     "build",
		Aliases: []string{"b"},
		Short:   "Write the template manifest and resource configuration",
		Long: `Discover FreeMarker templates and write the build outputs:

  <output>/META-INF/freemarker-templates.list
  <output>/META-INF/native-image/resource-config.json (or .yaml)

The manifest lists one template identifier per line. The resource
configuration declares every template and the manifest itself as resources
to keep in a native image.

Examples:
  ftlpack build                                  # Defaults from .ftlpack.yml
  ftlpack build -o target/classes                # Write next to compiled classes
  ftlpack build --classpath target/classes,lib/app.jar
  ftlpack build -L classpath:mail -L views --format yaml`,
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
		RunE: runBuild,
	}

	addDiscoveryFlags(buildCmd)
	buildCmd.Flags().StringP("output", "o", "", "output directory (default build/ftlpack)")
	buildCmd.Flags().String("format", "", "resource configuration format (json, yaml)")

	AddFlagValidation(buildCmd, "format", func(format string) error {
		return ValidateChoice(format, []string{"json", "yaml"})
	})

	return buildCmd
}

func runBuild(cmd *cobra.Command, args []string) error {
	s, err := newSession()
	if err != nil {
		return err
	}
	defer s.close()

	result, err := s.build(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Found %d templates\n", len(result.Templates))
	fmt.Fprintf(out, "Wrote %s\n", filepath.Join(s.cfg.Output.Dir, filepath.FromSlash(manifest.ListFile)))

	return nil
}
