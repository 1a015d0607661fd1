package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/stubtree-labs/stubtree/internal/config"
	"github.com/stubtree-labs/stubtree/internal/layout"
	"github.com/stubtree-labs/stubtree/internal/pathspec"
	"github.com/stubtree-labs/stubtree/internal/scaffold"
)

// inputFlags are the path sources shared by apply and plan.
type inputFlags struct {
	file   string
	layout string
	dir    string
}

func (in *inputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&in.file, "file", "f", "", "Layout YAML file to read paths from ('-' for stdin)")
	cmd.Flags().StringVarP(&in.layout, "layout", "l", "", "Built-in layout name (see 'layouts list')")
	cmd.Flags().StringVarP(&in.dir, "dir", "C", ".", "Directory the paths are relative to")
}

// resolvePaths picks exactly one path source: positional arguments, --file,
// or --layout. With none given, the configured default layout is used.
func (in *inputFlags) resolvePaths(args []string, settings config.Settings) (pathspec.PathSpec, string, error) {
	sources := 0
	if len(args) > 0 {
		sources++
	}
	if in.file != "" {
		sources++
	}
	if in.layout != "" {
		sources++
	}
	if sources > 1 {
		return nil, "", fmt.Errorf("use only one of path arguments, --file, or --layout")
	}

	switch {
	case len(args) > 0:
		return pathspec.PathSpec(args), "arguments", nil
	case in.file != "":
		l, err := layout.Load(in.file)
		if err != nil {
			return nil, "", err
		}
		warnIfNewer(l)
		return l.PathSpec(), in.file, nil
	case in.layout != "":
		l, err := layout.Builtin(in.layout)
		if err != nil {
			return nil, "", err
		}
		return l.PathSpec(), "builtin:" + in.layout, nil
	case settings.Layout != "":
		return loadDefaultLayout(settings.Layout)
	default:
		return nil, "", fmt.Errorf("no paths given: pass paths as arguments, --file, or --layout (or set a default with 'config set layout <name>')")
	}
}

// loadDefaultLayout treats values ending in .yaml/.yml as files and anything
// else as a built-in layout name.
func loadDefaultLayout(name string) (pathspec.PathSpec, string, error) {
	if strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml") {
		l, err := layout.Load(name)
		if err != nil {
			return nil, "", fmt.Errorf("default layout: %w", err)
		}
		warnIfNewer(l)
		return l.PathSpec(), name, nil
	}
	l, err := layout.Builtin(name)
	if err != nil {
		return nil, "", fmt.Errorf("default layout: %w", err)
	}
	return l.PathSpec(), "builtin:" + name, nil
}

func warnIfNewer(l *layout.Layout) {
	if layout.IsNewer(l.Version) {
		logger.Warn("layout was written for a newer format; unknown features are ignored",
			"layout", l.Name, "version", l.Version, "supported", layout.SupportedVersions)
	}
}

// scaffoldOptions merges config settings with command flags.
func scaffoldOptions(cmd *cobra.Command, dir, report string, staged bool, settings config.Settings) (scaffold.Options, error) {
	if report == "" {
		report = settings.Report
	}
	mode, err := scaffold.ParseReportMode(report)
	if err != nil {
		return scaffold.Options{}, err
	}
	if !cmd.Flags().Changed("staged") {
		staged = settings.Staged
	}
	return scaffold.Options{
		Root:     dir,
		Out:      cmd.OutOrStdout(),
		Logger:   logger,
		Report:   mode,
		DirMode:  settings.DirMode,
		FileMode: settings.FileMode,
		Staged:   staged,
	}, nil
}
