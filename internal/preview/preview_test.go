package preview

import (
	"strings"
	"testing"

	"github.com/stubtree-labs/stubtree/internal/pathspec"
)

func TestTreeListsEveryPath(t *testing.T) {
	out := Tree(".", pathspec.PathSpec{
		"src/components/EnhancedSearch.tsx",
		"src/components/index.ts",
		"src/types/gasStationTypes.ts",
		"src/GasStationsList.tsx",
	}, nil)

	for _, want := range []string{"src/", "components/", "types/", "EnhancedSearch.tsx", "index.ts", "gasStationTypes.ts", "GasStationsList.tsx"} {
		if !strings.Contains(out, want) {
			t.Errorf("tree missing %q:\n%s", want, out)
		}
	}
	// One line per directory and file plus the root.
	if lines := len(strings.Split(strings.TrimRight(out, "\n"), "\n")); lines != 8 {
		t.Errorf("tree has %d lines, want 8:\n%s", lines, out)
	}
}

func TestTreeMarksExisting(t *testing.T) {
	out := Tree("proj", pathspec.PathSpec{"a/b.txt", "a/c.txt"}, map[string]bool{"a/b.txt": true})

	var marked []string
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "(exists)") {
			marked = append(marked, line)
		}
	}
	if len(marked) != 1 || !strings.Contains(marked[0], "b.txt") {
		t.Errorf("only b.txt should be marked, got %q", marked)
	}
}

func TestTreeSkipsInvalidAndDuplicatePaths(t *testing.T) {
	out := Tree(".", pathspec.PathSpec{"x.txt", "../bad.txt", "./x.txt"}, nil)
	if strings.Contains(out, "bad.txt") {
		t.Errorf("invalid path rendered:\n%s", out)
	}
	if strings.Count(out, "x.txt") != 1 {
		t.Errorf("duplicate path rendered twice:\n%s", out)
	}
}
