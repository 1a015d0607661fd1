//go:build integration

package integration_test

import (
	"os"
	"path/filepath"
	"testing"
)

// testEnv holds paths to isolated test directories.
type testEnv struct {
	HomeDir    string // STUBTREE_HOME, holds config.yaml
	ProjectDir string // Root the layouts are applied to
}

// setupTestEnv creates isolated temp directories and points STUBTREE_HOME at
// one of them so no test reads the developer's own config.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		HomeDir:    t.TempDir(),
		ProjectDir: t.TempDir(),
	}
	t.Setenv("STUBTREE_HOME", env.HomeDir)
	return env
}

// writeFile creates a file at the given path with the given content.
func writeFile(t *testing.T, path, content string) {
	t.Helper()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("creating dir %s: %v", dir, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

// assertEmptyFile fails the test unless path is a zero-length regular file.
func assertEmptyFile(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Errorf("expected file to exist: %s (error: %v)", path, err)
		return
	}
	if !info.Mode().IsRegular() || info.Size() != 0 {
		t.Errorf("expected %s to be an empty regular file (mode %v, size %d)", path, info.Mode(), info.Size())
	}
}

// assertFileNotExists fails the test if the file exists.
func assertFileNotExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err == nil {
		t.Errorf("expected file NOT to exist: %s", path)
	}
}

// assertFileContent fails if the file doesn't hold exactly want.
func assertFileContent(t *testing.T, path, want string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Errorf("reading %s: %v", path, err)
		return
	}
	if string(data) != want {
		t.Errorf("file %s = %q, want %q", path, string(data), want)
	}
}

// listTree returns every entry under root as a slash-separated relative path.
func listTree(t *testing.T, root string) []string {
	t.Helper()
	var out []string
	err := filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p == root {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		out = append(out, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		t.Fatalf("walking %s: %v", root, err)
	}
	return out
}
