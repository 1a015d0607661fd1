package pathspec

import (
	"errors"
	"reflect"
	"testing"
)

func TestCheck(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"nested file", "src/components/index.ts", false},
		{"top-level file", "README.md", false},
		{"dot segment", "src/./utils.ts", false},
		{"inner parent that stays inside", "src/x/../utils.ts", false},
		{"empty", "", true},
		{"whitespace name", "   ", false},
		{"trailing dot segment", "a/.", true},
		{"trailing parent segment", "a/b/..", true},
		{"parent of top-level dir", "x/..", true},
		{"trailing slash", "src/components/", true},
		{"absolute", "/etc/passwd", true},
		{"escapes root", "../outside.txt", true},
		{"escapes after clean", "src/../../outside.txt", true},
		{"parent only", "..", true},
		{"dot only", ".", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Check(tt.path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Check(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidPath) {
				t.Errorf("Check(%q) error should wrap ErrInvalidPath, got %v", tt.path, err)
			}
		})
	}
}

func TestAncestors(t *testing.T) {
	tests := []struct {
		path string
		want []string
	}{
		{"a/b/c.txt", []string{"a", "a/b"}},
		{"a/d.txt", []string{"a"}},
		{"top.txt", nil},
		{"a/./b/../c/d.txt", []string{"a", "a/c"}},
	}
	for _, tt := range tests {
		got := Ancestors(tt.path)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Ancestors(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestPathSpecCheckReportsIndex(t *testing.T) {
	ps := PathSpec{"ok.txt", "also/ok.txt", "../bad.txt"}
	err := ps.Check()
	if err == nil {
		t.Fatal("expected error")
	}
	if got := err.Error(); got[:6] != "path 2" {
		t.Errorf("error should name index 2, got %q", got)
	}
}

func TestDuplicates(t *testing.T) {
	ps := PathSpec{"a/b.txt", "c.txt", "a/./b.txt", "c.txt"}
	want := []int{2, 3}
	if got := ps.Duplicates(); !reflect.DeepEqual(got, want) {
		t.Errorf("Duplicates() = %v, want %v", got, want)
	}
}

func TestDirs(t *testing.T) {
	ps := PathSpec{"src/components/A.tsx", "src/types/t.ts", "src/components/B.tsx", "root.ts"}
	want := []string{"src", "src/components", "src/types"}
	if got := ps.Dirs(); !reflect.DeepEqual(got, want) {
		t.Errorf("Dirs() = %v, want %v", got, want)
	}
}
