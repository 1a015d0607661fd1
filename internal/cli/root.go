package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/stubtree-labs/stubtree/internal/branding"
	"github.com/stubtree-labs/stubtree/internal/config"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

var verbose bool

// logger is configured per invocation in PersistentPreRun.
var logger = slog.New(slog.NewTextHandler(io.Discard, nil))

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` creates empty placeholder files and their parent directories from a
list of relative paths, a layout file, or a built-in layout. Existing files are never truncated.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		config.Load()
		setupLogging(cmd.ErrOrStderr())
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging on stderr")
}

func setupLogging(w io.Writer) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	logger = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
}

// Execute runs the root command with build info injected via ldflags.
// Interrupts cancel the command context so watch mode can exit cleanly.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
