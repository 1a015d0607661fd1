package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/stubtree-labs/stubtree/internal/layout"
)

func init() {
	rootCmd.AddCommand(validateCmd)
}

var validateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Check a layout file against the layout schema",
	Long: `Validate a layout YAML file: schema, format version, and every path.
Use '-' to read the layout from stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		file := args[0]
		res, err := layout.ValidateFile(file)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if res.Valid {
			fmt.Fprintf(out, "%s: valid\n", file)
			return nil
		}
		for _, issue := range res.Issues {
			fmt.Fprintf(out, "  %s\n", issue)
		}
		return fmt.Errorf("%s: %d validation issue(s)", file, len(res.Issues))
	},
}
