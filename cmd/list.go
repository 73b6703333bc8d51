package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/conneroisu/ftlpack/internal/discovery"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// listEntry is one row of list output.
type listEntry struct {
	Template string `json:"template" yaml:"template"`
	Origin   string `json:"origin" yaml:"origin"`
}

func newListCmd() *cobra.Command {
	var format string

	listCmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"l"},
		Short:   "List discovered templates",
		Long: `List every discovered template identifier and the classpath resource it
was found in. Nothing is written to disk.

Examples:
  ftlpack list                    # Table of templates and origins
  ftlpack list -f json            # Output as JSON
  ftlpack list -f manifest        # Print the manifest exactly as build writes it`,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return bindFlags(cmd, discoveryFlagBindings)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, format)
		},
	}

	addDiscoveryFlags(listCmd)
	listCmd.Flags().StringVarP(&format, "format", "f", "table", "output format (table, json, yaml, manifest)")

	AddFlagValidation(listCmd, "format", func(format string) error {
		return ValidateChoice(format, []string{"table", "json", "yaml", "manifest"})
	})

	return listCmd
}

func runList(cmd *cobra.Command, format string) error {
	s, err := newSession()
	if err != nil {
		return err
	}
	defer s.close()

	result, err := s.discover(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	switch strings.ToLower(format) {
	case "manifest":
		_, err := out.Write(result.Manifest)
		return err
	case "json":
		return outputListJSON(out, listEntries(result))
	case "yaml":
		return outputListYAML(out, listEntries(result))
	case "table":
		if len(result.Templates) == 0 {
			fmt.Fprintln(out, "No templates found.")
			return nil
		}
		return outputListTable(out, listEntries(result))
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

func listEntries(result *discovery.Result) []listEntry {
	entries := make([]listEntry, 0, len(result.Templates))
	for _, id := range result.Templates {
		entries = append(entries, listEntry{Template: id, Origin: result.Origins[id]})
	}
	return entries
}

func outputListJSON(w io.Writer, entries []listEntry) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(entries)
}

func outputListYAML(w io.Writer, entries []listEntry) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	defer encoder.Close()
	return encoder.Encode(entries)
}

func outputListTable(w io.Writer, entries []listEntry) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TEMPLATE\tORIGIN")
	fmt.Fprintln(tw, "--------\t------")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\n", e.Template, e.Origin)
	}
	fmt.Fprintf(tw, "\nTotal: %d templates\n", len(entries))
	return tw.Flush()
}
