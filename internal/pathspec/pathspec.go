// Package pathspec defines the ordered list of relative file paths that
// stubtree materializes, along with the rules every path must satisfy.
//
// Paths are written with forward slashes regardless of platform. A valid
// path is relative, names a file rather than a directory, and stays inside
// the root it is joined to.
package pathspec

import (
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strings"
)

// ErrInvalidPath is wrapped by every error returned from Check.
var ErrInvalidPath = errors.New("invalid path")

// PathSpec is an ordered sequence of relative file paths. Order only
// affects reporting; the materialized tree is the same for any permutation.
type PathSpec []string

// Check validates a single path.
func Check(p string) error {
	if p == "" {
		return fmt.Errorf("%w: empty path", ErrInvalidPath)
	}
	slashed := filepath.ToSlash(p)
	if strings.HasSuffix(slashed, "/") {
		return fmt.Errorf("%w: %q names a directory, not a file", ErrInvalidPath, p)
	}
	if path.IsAbs(slashed) || filepath.IsAbs(p) || filepath.VolumeName(p) != "" {
		return fmt.Errorf("%w: %q is absolute", ErrInvalidPath, p)
	}
	if base := path.Base(slashed); base == "." || base == ".." {
		return fmt.Errorf("%w: %q names a directory, not a file", ErrInvalidPath, p)
	}
	clean := path.Clean(slashed)
	if clean == "." {
		return fmt.Errorf("%w: %q does not name a file", ErrInvalidPath, p)
	}
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return fmt.Errorf("%w: %q escapes the root", ErrInvalidPath, p)
	}
	return nil
}

// Clean returns the canonical slash-separated form of p.
func Clean(p string) string {
	return path.Clean(filepath.ToSlash(p))
}

// Ancestors returns the directory chain of p from the outermost directory
// inward, e.g. "a/b/c.txt" yields ["a", "a/b"]. A top-level file has none.
func Ancestors(p string) []string {
	dir := path.Dir(Clean(p))
	if dir == "." || dir == "/" {
		return nil
	}
	parts := strings.Split(dir, "/")
	out := make([]string, 0, len(parts))
	for i := range parts {
		out = append(out, strings.Join(parts[:i+1], "/"))
	}
	return out
}

// Check validates every path and returns the first failure.
func (ps PathSpec) Check() error {
	for i, p := range ps {
		if err := Check(p); err != nil {
			return fmt.Errorf("path %d: %w", i, err)
		}
	}
	return nil
}

// Duplicates returns the indexes of paths whose cleaned form appeared
// earlier in the list.
func (ps PathSpec) Duplicates() []int {
	seen := make(map[string]bool, len(ps))
	var dups []int
	for i, p := range ps {
		c := Clean(p)
		if seen[c] {
			dups = append(dups, i)
			continue
		}
		seen[c] = true
	}
	return dups
}

// Dirs returns every distinct directory implied by the paths, outermost first,
// in order of first appearance.
func (ps PathSpec) Dirs() []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range ps {
		for _, d := range Ancestors(p) {
			if !seen[d] {
				seen[d] = true
				out = append(out, d)
			}
		}
	}
	return out
}
