package scaffold

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/stubtree-labs/stubtree/internal/pathspec"
)

const stagePrefix = ".stubtree-stage-"

// created is an entry this run added under the root, kept for rollback.
type created struct {
	path string
	dir  bool
}

// transaction stages new files in a temporary directory inside the root and
// moves them into place. Close removes the staging directory; Rollback
// removes everything committed so far.
type transaction struct {
	o        Options
	stageDir string
	done     []created
}

func materializeStaged(paths pathspec.PathSpec, o Options) (*Result, error) {
	steps, err := preflight(o.Fs, o.Root, paths)
	if err != nil {
		return nil, err
	}

	tx, err := beginTransaction(o)
	if err != nil {
		return nil, err
	}
	defer tx.Close()

	for _, st := range steps {
		if st.Exists {
			continue
		}
		if err := tx.stage(st); err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("staging %s: %w", st.Path, err)
		}
	}

	result := &Result{Root: o.Root}
	for i := range steps {
		st := &steps[i]
		if st.Exists {
			continue
		}
		existed, err := tx.commit(*st)
		if err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("committing %s: %w", st.Path, err)
		}
		st.Exists = existed
		result.Dirs = append(result.Dirs, st.NewDirs...)
	}

	for _, st := range steps {
		status := StatusCreated
		if st.Exists {
			status = StatusExisted
		}
		result.Entries = append(result.Entries, Entry{Path: st.Path, Status: status})
		report(o, st.Path, status)
	}
	o.Logger.Debug("staged run committed", "root", o.Root, "files", result.Count(StatusCreated), "dirs", len(result.Dirs))
	return result, nil
}

func beginTransaction(o Options) (*transaction, error) {
	tx := &transaction{o: o}

	// The staging directory must live on the same filesystem as the root so
	// commits are renames; create the root first if needed.
	if err := tx.createRoot(); err != nil {
		tx.Rollback()
		return nil, err
	}

	dir, err := afero.TempDir(o.Fs, o.Root, stagePrefix)
	if err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("creating staging directory: %w", err)
	}
	tx.stageDir = dir
	o.Logger.Debug("staging directory created", "dir", dir)
	return tx, nil
}

// createRoot makes every missing level of the root, outermost first, and
// records each one so Rollback can remove them all.
func (tx *transaction) createRoot() error {
	var missing []string
	for d := tx.o.Root; ; {
		_, err := tx.o.Fs.Stat(d)
		if err == nil {
			break
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("checking root %s: %w", d, err)
		}
		missing = append(missing, d)
		parent := filepath.Dir(d)
		if parent == d {
			break
		}
		d = parent
	}

	for i := len(missing) - 1; i >= 0; i-- {
		d := missing[i]
		if err := tx.mkdir(d); err != nil {
			return fmt.Errorf("creating root %s: %w", tx.o.Root, err)
		}
	}
	return nil
}

// mkdir creates one directory and records it. A directory that already
// exists is accepted and left out of the rollback list.
func (tx *transaction) mkdir(target string) error {
	err := tx.o.Fs.Mkdir(target, tx.o.DirMode)
	switch {
	case err == nil:
		tx.done = append(tx.done, created{path: target, dir: true})
		tx.o.Logger.Debug("created directory", "dir", target)
		return nil
	case errors.Is(err, fs.ErrExist):
		info, statErr := tx.o.Fs.Stat(target)
		if statErr != nil {
			return fmt.Errorf("checking %s: %w", target, statErr)
		}
		if !info.IsDir() {
			return notDirectory("mkdir", target)
		}
		return nil
	default:
		return fmt.Errorf("creating directory %s: %w", target, err)
	}
}

func (tx *transaction) stagedPath(st step) string {
	return filepath.Join(tx.stageDir, filepath.FromSlash(st.Clean))
}

func (tx *transaction) stage(st step) error {
	staged := tx.stagedPath(st)
	if err := tx.o.Fs.MkdirAll(filepath.Dir(staged), tx.o.DirMode); err != nil {
		return fmt.Errorf("creating staging directory: %w", err)
	}
	return touch(tx.o.Fs, staged, tx.o.FileMode)
}

// commit creates the step's missing ancestors and renames the staged file
// into place. It reports true if the target appeared after preflight, in
// which case the existing file is kept.
func (tx *transaction) commit(st step) (bool, error) {
	for _, d := range st.NewDirs {
		if err := tx.mkdir(filepath.Join(tx.o.Root, filepath.FromSlash(d))); err != nil {
			return false, err
		}
	}

	// Rename would replace a file created since preflight; keep it instead.
	if info, err := tx.o.Fs.Stat(st.Target); err == nil {
		if info.IsDir() {
			return false, isDirectory("open", st.Target)
		}
		tx.o.Logger.Debug("file appeared during commit", "path", st.Path)
		return true, nil
	}
	if err := tx.o.Fs.Rename(tx.stagedPath(st), st.Target); err != nil {
		return false, fmt.Errorf("moving staged file into place: %w", err)
	}
	tx.done = append(tx.done, created{path: st.Target})
	tx.o.Logger.Debug("created file", "path", st.Path)
	return false, nil
}

// Rollback removes the staging directory, then committed entries in reverse
// order. Removal failures are logged; the original error is what the caller
// reports.
func (tx *transaction) Rollback() {
	tx.Close()
	for i := len(tx.done) - 1; i >= 0; i-- {
		c := tx.done[i]
		if err := tx.o.Fs.Remove(c.path); err != nil {
			tx.o.Logger.Warn("rollback: could not remove", "path", c.path, "error", err)
			continue
		}
		tx.o.Logger.Debug("rollback: removed", "path", c.path, "dir", c.dir)
	}
	tx.done = nil
}

// Close removes the staging directory and anything left in it.
func (tx *transaction) Close() {
	if tx.stageDir == "" {
		return
	}
	if err := tx.o.Fs.RemoveAll(tx.stageDir); err != nil {
		tx.o.Logger.Warn("could not remove staging directory", "dir", tx.stageDir, "error", err)
	}
	tx.stageDir = ""
}
