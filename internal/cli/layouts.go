package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/stubtree-labs/stubtree/internal/layout"
	"github.com/stubtree-labs/stubtree/internal/preview"
)

var (
	layoutsListJSON bool
	layoutsExportTo string
)

func init() {
	layoutsListCmd.Flags().BoolVar(&layoutsListJSON, "json", false, "Output as JSON")
	layoutsExportCmd.Flags().StringVarP(&layoutsExportTo, "output", "o", "", "Write to a file instead of stdout")
	layoutsCmd.AddCommand(layoutsListCmd)
	layoutsCmd.AddCommand(layoutsShowCmd)
	layoutsCmd.AddCommand(layoutsExportCmd)
	rootCmd.AddCommand(layoutsCmd)
}

var layoutsCmd = &cobra.Command{
	Use:   "layouts",
	Short: "Inspect built-in layouts",
}

type layoutInfo struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Description string `json:"description,omitempty"`
	Paths       int    `json:"paths"`
}

var layoutsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List built-in layouts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var infos []layoutInfo
		for _, name := range layout.BuiltinNames() {
			l, err := layout.Builtin(name)
			if err != nil {
				return err
			}
			infos = append(infos, layoutInfo{
				Name:        l.Name,
				Version:     l.Version,
				Description: l.Description,
				Paths:       len(l.Paths),
			})
		}

		out := cmd.OutOrStdout()
		if layoutsListJSON {
			data, err := json.MarshalIndent(infos, "", "  ")
			if err != nil {
				return fmt.Errorf("marshaling layouts: %w", err)
			}
			fmt.Fprintln(out, string(data))
			return nil
		}

		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tPATHS\tDESCRIPTION")
		for _, info := range infos {
			fmt.Fprintf(w, "%s\t%d\t%s\n", info.Name, info.Paths, info.Description)
		}
		return w.Flush()
	},
}

var layoutsShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show a built-in layout as a tree",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		l, err := layout.Builtin(args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s (format %s)\n", l.Name, l.Version)
		if l.Description != "" {
			fmt.Fprintln(out, l.Description)
		}
		fmt.Fprintln(out)
		fmt.Fprintln(out, preview.Tree(".", l.PathSpec(), nil))
		return nil
	},
}

var layoutsExportCmd = &cobra.Command{
	Use:   "export <name>",
	Short: "Print a built-in layout as YAML",
	Long:  `Print the YAML of a built-in layout, ready to edit and pass back with 'apply --file'.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := layout.BuiltinSource(args[0])
		if err != nil {
			return err
		}
		if layoutsExportTo == "" {
			_, err := cmd.OutOrStdout().Write(data)
			return err
		}
		if err := os.WriteFile(layoutsExportTo, data, 0644); err != nil {
			return fmt.Errorf("writing %s: %w", layoutsExportTo, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", layoutsExportTo)
		return nil
	},
}
