package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/stubtree-labs/stubtree/internal/config"
	"github.com/stubtree-labs/stubtree/internal/scaffold"
	"github.com/stubtree-labs/stubtree/internal/watch"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	applyInputs inputFlags
	applyReport string
	applyStaged bool
	applyDryRun bool
	applyWatch  bool
)

var (
	summaryStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	summary      = message.NewPrinter(language.English)
)

func init() {
	applyInputs.register(applyCmd)
	applyCmd.Flags().StringVar(&applyReport, "report", "", "Confirmation wording: compat or accurate (default from config)")
	applyCmd.Flags().BoolVar(&applyStaged, "staged", false, "Create everything or nothing, committing through a staging directory")
	applyCmd.Flags().BoolVar(&applyDryRun, "dry-run", false, "Report what would be created without touching the filesystem")
	applyCmd.Flags().BoolVarP(&applyWatch, "watch", "w", false, "Re-apply whenever the --file layout changes")
	rootCmd.AddCommand(applyCmd)
}

var applyCmd = &cobra.Command{
	Use:   "apply [path...]",
	Short: "Create placeholder files and their parent directories",
	Long: `Create an empty file at each relative path, making parent directories as needed.
Existing files are left untouched. One line is printed per path, in order.

Paths come from the arguments, a layout file (--file), or a built-in layout (--layout).
With none of those given, the layout named by the "layout" config key is used.`,
	Example: `  stubtree apply src/main.go docs/README.md
  stubtree apply --layout station-finder
  stubtree apply -f layout.yaml -C ./out --staged
  stubtree apply -f layout.yaml --watch`,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := config.Current()
		if err != nil {
			return err
		}
		if applyWatch {
			if applyInputs.file == "" || applyInputs.file == "-" {
				return fmt.Errorf("--watch needs a layout file given with --file")
			}
			if len(args) > 0 || applyInputs.layout != "" {
				return fmt.Errorf("use only one of path arguments, --file, or --layout")
			}
			return watch.Run(cmd.Context(), watch.Options{File: applyInputs.file, Logger: logger},
				func(context.Context) error { return runApply(cmd, args, settings) })
		}
		return runApply(cmd, args, settings)
	},
}

func runApply(cmd *cobra.Command, args []string, settings config.Settings) error {
	paths, source, err := applyInputs.resolvePaths(args, settings)
	if err != nil {
		return err
	}
	opts, err := scaffoldOptions(cmd, applyInputs.dir, applyReport, applyStaged, settings)
	if err != nil {
		return err
	}
	opts.DryRun = applyDryRun

	logger.Debug("applying paths", "source", source, "count", len(paths), "root", opts.Root,
		"staged", opts.Staged, "dry_run", opts.DryRun, "report", string(opts.Report))

	res, err := scaffold.Materialize(paths, opts)
	if res != nil {
		printSummary(cmd.ErrOrStderr(), res, opts.DryRun)
	}
	return err
}

func printSummary(w io.Writer, res *scaffold.Result, dryRun bool) {
	var line string
	if dryRun {
		line = summary.Sprintf("%d files would be created, %d already exist, %d directories would be made",
			res.Count(scaffold.StatusPlanned), res.Count(scaffold.StatusExisted), len(res.Dirs))
	} else {
		line = summary.Sprintf("%d files created, %d already existed, %d directories made",
			res.Count(scaffold.StatusCreated), res.Count(scaffold.StatusExisted), len(res.Dirs))
	}
	fmt.Fprintln(w, summaryStyle.Render(line))
}
