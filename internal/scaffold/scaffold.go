package scaffold

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/stubtree-labs/stubtree/internal/pathspec"
)

// Sentinel errors carried inside *fs.PathError values.
var (
	// ErrNotDirectory means an ancestor of a path exists but is not a directory.
	ErrNotDirectory = errors.New("not a directory")
	// ErrIsDirectory means a path names an existing (or planned) directory.
	ErrIsDirectory = errors.New("is a directory")
	// ErrInvalidPath is returned for paths rejected by pathspec.Check.
	ErrInvalidPath = pathspec.ErrInvalidPath
)

// Default permission bits for created entries, before umask.
const (
	DefaultDirMode  os.FileMode = 0755
	DefaultFileMode os.FileMode = 0644
)

// ReportMode selects how confirmation lines describe files that already existed.
type ReportMode string

const (
	// ReportCompat prints "Created: <path>" for every path, existing or not.
	ReportCompat ReportMode = "compat"
	// ReportAccurate prints "Exists: <path>" for files that were already there.
	ReportAccurate ReportMode = "accurate"
)

// ParseReportMode converts a flag or config value to a ReportMode.
func ParseReportMode(s string) (ReportMode, error) {
	switch ReportMode(s) {
	case "", ReportCompat:
		return ReportCompat, nil
	case ReportAccurate:
		return ReportAccurate, nil
	default:
		return "", fmt.Errorf("unknown report mode %q: want %q or %q", s, ReportCompat, ReportAccurate)
	}
}

// Options configure a materialization run. The zero value materializes into
// the current directory on the OS filesystem and discards output.
type Options struct {
	Fs       afero.Fs     // Filesystem to write to (default: OS filesystem)
	Root     string       // Directory paths are relative to (default: ".")
	Out      io.Writer    // Receives one confirmation line per path
	Logger   *slog.Logger // Debug diagnostics (default: discarded)
	Report   ReportMode   // Confirmation wording (default: ReportCompat)
	DirMode  os.FileMode  // Mode for new directories (default: 0755)
	FileMode os.FileMode  // Mode for new files (default: 0644)
	Staged   bool         // All-or-nothing commit through a staging directory
	DryRun   bool         // Check and report only; takes precedence over Staged
}

func (o Options) withDefaults() Options {
	if o.Fs == nil {
		o.Fs = afero.NewOsFs()
	}
	if o.Root == "" {
		o.Root = "."
	}
	o.Root = filepath.Clean(o.Root)
	if o.Out == nil {
		o.Out = io.Discard
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if o.Report == "" {
		o.Report = ReportCompat
	}
	if o.DirMode == 0 {
		o.DirMode = DefaultDirMode
	}
	if o.FileMode == 0 {
		o.FileMode = DefaultFileMode
	}
	return o
}

// Status describes what happened to a single path.
type Status int

const (
	StatusCreated Status = iota // file was created
	StatusExisted               // file was already present and left untouched
	StatusPlanned               // dry run: file would be created
)

func (s Status) String() string {
	switch s {
	case StatusCreated:
		return "created"
	case StatusExisted:
		return "exists"
	case StatusPlanned:
		return "planned"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Entry records the outcome for one path.
type Entry struct {
	Path   string
	Status Status
}

// Result holds the outcome of a materialization run.
type Result struct {
	Root    string
	Entries []Entry
	Dirs    []string // Directories created (or, in a dry run, to be created), relative to Root
}

// Count returns how many entries have the given status.
func (r *Result) Count(s Status) int {
	n := 0
	for _, e := range r.Entries {
		if e.Status == s {
			n++
		}
	}
	return n
}

// Materialize ensures a file exists at every path, in order. In direct mode
// the returned Result describes the paths completed before any error. In
// staged mode a failed run returns a nil Result and leaves Root unchanged.
func Materialize(paths pathspec.PathSpec, opts Options) (*Result, error) {
	o := opts.withDefaults()
	switch {
	case o.DryRun:
		return dryRun(paths, o)
	case o.Staged:
		return materializeStaged(paths, o)
	default:
		return materializeDirect(paths, o)
	}
}

func materializeDirect(paths pathspec.PathSpec, o Options) (*Result, error) {
	result := &Result{Root: o.Root}
	pl := newPlanner(o.Fs, o.Root)

	for _, p := range paths {
		st, err := pl.plan(p)
		if err != nil {
			return result, fmt.Errorf("materializing %s: %w", p, err)
		}

		// MkdirAll tolerates directories that appear concurrently.
		parent := filepath.Dir(st.Target)
		if err := o.Fs.MkdirAll(parent, o.DirMode); err != nil {
			return result, fmt.Errorf("materializing %s: creating directory %s: %w", p, parent, err)
		}
		for _, d := range st.NewDirs {
			o.Logger.Debug("created directory", "dir", d)
		}
		result.Dirs = append(result.Dirs, st.NewDirs...)

		if err := touch(o.Fs, st.Target, o.FileMode); err != nil {
			return result, fmt.Errorf("materializing %s: %w", p, err)
		}

		status := StatusCreated
		if st.Exists {
			status = StatusExisted
			o.Logger.Debug("file exists", "path", p)
		} else {
			o.Logger.Debug("created file", "path", p)
		}
		result.Entries = append(result.Entries, Entry{Path: p, Status: status})
		report(o, p, status)
	}

	return result, nil
}

func dryRun(paths pathspec.PathSpec, o Options) (*Result, error) {
	steps, err := preflight(o.Fs, o.Root, paths)
	if err != nil {
		return nil, err
	}
	result := &Result{Root: o.Root}
	for _, st := range steps {
		status := StatusPlanned
		if st.Exists {
			status = StatusExisted
		}
		result.Dirs = append(result.Dirs, st.NewDirs...)
		result.Entries = append(result.Entries, Entry{Path: st.Path, Status: status})
		report(o, st.Path, status)
	}
	return result, nil
}

// touch opens path for append, creating it if needed, and closes it without
// writing. Append mode never truncates an existing file.
func touch(afs afero.Fs, path string, mode os.FileMode) error {
	f, err := afs.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, mode)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	return nil
}

func report(o Options, p string, s Status) {
	switch {
	case s == StatusPlanned:
		fmt.Fprintf(o.Out, "Would create: %s\n", p)
	case s == StatusExisted && (o.Report == ReportAccurate || o.DryRun):
		fmt.Fprintf(o.Out, "Exists: %s\n", p)
	default:
		fmt.Fprintf(o.Out, "Created: %s\n", p)
	}
}

func notDirectory(op, path string) error {
	return &fs.PathError{Op: op, Path: path, Err: ErrNotDirectory}
}

func isDirectory(op, path string) error {
	return &fs.PathError{Op: op, Path: path, Err: ErrIsDirectory}
}
