package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/stubtree-labs/stubtree/internal/config"
	"github.com/stubtree-labs/stubtree/internal/pathspec"
	"github.com/stubtree-labs/stubtree/internal/preview"
	"github.com/stubtree-labs/stubtree/internal/scaffold"
)

var planInputs inputFlags

func init() {
	planInputs.register(planCmd)
	rootCmd.AddCommand(planCmd)
}

var planCmd = &cobra.Command{
	Use:   "plan [path...]",
	Short: "Preview the tree apply would create",
	Long: `Check every path against the target directory and render the resulting tree.
Files already on disk are marked. Nothing is written.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := config.Current()
		if err != nil {
			return err
		}
		paths, source, err := planInputs.resolvePaths(args, settings)
		if err != nil {
			return err
		}
		logger.Debug("planning paths", "source", source, "count", len(paths), "root", planInputs.dir)

		res, err := scaffold.Materialize(paths, scaffold.Options{
			Root:   planInputs.dir,
			Out:    io.Discard,
			Logger: logger,
			DryRun: true,
		})
		if err != nil {
			return err
		}

		existing := make(map[string]bool)
		for _, e := range res.Entries {
			if e.Status == scaffold.StatusExisted {
				existing[pathspec.Clean(e.Path)] = true
			}
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, preview.Tree(res.Root, paths, existing))
		fmt.Fprintln(out)
		printSummary(out, res, true)
		return nil
	},
}
