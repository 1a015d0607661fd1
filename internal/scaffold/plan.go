package scaffold

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/stubtree-labs/stubtree/internal/pathspec"
)

// step is the checked plan for a single path.
type step struct {
	Path    string   // As given by the caller
	Clean   string   // Canonical slash form, relative to root
	Target  string   // OS path under root
	Exists  bool     // A regular file (or something openable as one) is already there
	NewDirs []string // Missing ancestors, relative to root, outermost first
}

// planner checks paths against the filesystem and against the paths planned
// before them, so a later path cannot collide with what an earlier one creates.
type planner struct {
	fs    afero.Fs
	root  string
	dirs  map[string]bool // known or planned directories
	files map[string]bool // known or planned files
}

func newPlanner(afs afero.Fs, root string) *planner {
	return &planner{
		fs:    afs,
		root:  root,
		dirs:  make(map[string]bool),
		files: make(map[string]bool),
	}
}

func (pl *planner) target(rel string) string {
	return filepath.Join(pl.root, filepath.FromSlash(rel))
}

func (pl *planner) plan(p string) (step, error) {
	if err := pathspec.Check(p); err != nil {
		return step{}, err
	}
	clean := pathspec.Clean(p)
	st := step{Path: p, Clean: clean, Target: pl.target(clean)}

	if err := pl.checkRoot(); err != nil {
		return step{}, err
	}

	for _, anc := range pathspec.Ancestors(clean) {
		if pl.files[anc] {
			return step{}, notDirectory("mkdir", pl.target(anc))
		}
		if pl.dirs[anc] {
			continue
		}
		info, err := pl.fs.Stat(pl.target(anc))
		switch {
		case err == nil && info.IsDir():
			pl.dirs[anc] = true
		case err == nil:
			pl.files[anc] = true
			return step{}, notDirectory("mkdir", pl.target(anc))
		case errors.Is(err, fs.ErrNotExist):
			pl.dirs[anc] = true
			st.NewDirs = append(st.NewDirs, anc)
		default:
			return step{}, fmt.Errorf("checking %s: %w", pl.target(anc), err)
		}
	}

	if pl.dirs[clean] {
		return step{}, isDirectory("open", st.Target)
	}
	if pl.files[clean] {
		st.Exists = true
		return st, nil
	}
	// New ancestors mean the target cannot exist yet.
	if len(st.NewDirs) == 0 {
		info, err := pl.fs.Stat(st.Target)
		switch {
		case err == nil && info.IsDir():
			pl.dirs[clean] = true
			return step{}, isDirectory("open", st.Target)
		case err == nil:
			st.Exists = true
		case errors.Is(err, fs.ErrNotExist):
		default:
			return step{}, fmt.Errorf("checking %s: %w", st.Target, err)
		}
	}
	pl.files[clean] = true
	return st, nil
}

// checkRoot verifies once that the root is a directory or does not exist yet.
func (pl *planner) checkRoot() error {
	if pl.dirs["."] {
		return nil
	}
	info, err := pl.fs.Stat(pl.root)
	switch {
	case err == nil && !info.IsDir():
		return notDirectory("mkdir", pl.root)
	case err == nil, errors.Is(err, fs.ErrNotExist):
		pl.dirs["."] = true
		return nil
	default:
		return fmt.Errorf("checking root %s: %w", pl.root, err)
	}
}

// preflight plans every path without touching the filesystem.
func preflight(afs afero.Fs, root string, paths pathspec.PathSpec) ([]step, error) {
	pl := newPlanner(afs, root)
	steps := make([]step, 0, len(paths))
	for _, p := range paths {
		st, err := pl.plan(p)
		if err != nil {
			return nil, fmt.Errorf("checking %s: %w", p, err)
		}
		steps = append(steps, st)
	}
	return steps, nil
}
