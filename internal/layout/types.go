package layout

import (
	"errors"
	"fmt"
	"strings"

	"github.com/stubtree-labs/stubtree/internal/pathspec"
)

// ErrInvalid is matched by errors.Is for any *InvalidError.
var ErrInvalid = errors.New("invalid layout")

// Layout is a named, versioned list of paths.
type Layout struct {
	Version     string   `yaml:"version"`
	Name        string   `yaml:"name"`
	Description string   `yaml:"description,omitempty"`
	Paths       []string `yaml:"paths"`
}

// PathSpec returns the layout's paths as a pathspec.PathSpec.
func (l *Layout) PathSpec() pathspec.PathSpec {
	return pathspec.PathSpec(l.Paths)
}

// InvalidError reports every validation issue found in a layout document.
type InvalidError struct {
	Source string
	Issues []ValidationIssue
}

func (e *InvalidError) Error() string {
	src := e.Source
	if src == "" {
		src = "layout"
	}
	if len(e.Issues) == 0 {
		return src + ": invalid layout"
	}
	first := e.Issues[0].String()
	if len(e.Issues) == 1 {
		return fmt.Sprintf("%s: %s", src, first)
	}
	return fmt.Sprintf("%s: %s (and %d more issues)", src, first, len(e.Issues)-1)
}

// Is lets errors.Is(err, ErrInvalid) match.
func (e *InvalidError) Is(target error) bool {
	return target == ErrInvalid
}

// ValidationResult contains the outcome of validating a layout document.
type ValidationResult struct {
	Valid  bool
	Issues []ValidationIssue
}

// ValidationIssue represents a single problem in a layout document.
type ValidationIssue struct {
	Path    string // Instance location (e.g., "/name", "/paths/3")
	Message string // Human-readable error message
	Keyword string // Schema keyword or check that failed
}

func (i ValidationIssue) String() string {
	if i.Path == "" {
		return i.Message
	}
	return i.Path + ": " + i.Message
}

// Summary joins all issues into one line per issue.
func (r *ValidationResult) Summary() string {
	lines := make([]string, 0, len(r.Issues))
	for _, issue := range r.Issues {
		lines = append(lines, issue.String())
	}
	return strings.Join(lines, "\n")
}
