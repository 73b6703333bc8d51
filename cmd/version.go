package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/conneroisu/ftlpack/internal/version"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newVersionCmd() *cobra.Command {
	var (
		versionFormat string
		versionShort  bool
		detailed      bool
	)

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long: `Display version information for ftlpack.

Examples:
  ftlpack version               # Show version
  ftlpack version --detailed    # Show detailed version info
  ftlpack version --format json # Output as JSON`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch versionFormat {
			case "json":
				return outputVersionJSON(out)
			case "yaml":
				return yaml.NewEncoder(out).Encode(version.GetBuildInfo())
			case "text":
				switch {
				case versionShort:
					fmt.Fprintln(out, version.GetShortVersion())
				case detailed:
					fmt.Fprintln(out, version.GetDetailedVersion())
				default:
					fmt.Fprintf(out, "ftlpack %s\n", version.GetShortVersion())
				}
				return nil
			default:
				return fmt.Errorf("unsupported format: %s (supported: text, json, yaml)", versionFormat)
			}
		},
	}

	versionCmd.Flags().StringVarP(&versionFormat, "format", "f", "text", "Output format (text, json, yaml)")
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "Show short version only")
	versionCmd.Flags().BoolVar(&detailed, "detailed", false, "Show detailed version information")

	return versionCmd
}

func outputVersionJSON(w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(version.GetBuildInfo())
}
