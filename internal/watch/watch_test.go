package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestRunAppliesOnStartAndOnChange(t *testing.T) {
	file := filepath.Join(t.TempDir(), "layout.yaml")
	if err := os.WriteFile(file, []byte("v1"), 0644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	calls := make(chan struct{}, 10)
	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, Options{File: file, Debounce: 20 * time.Millisecond}, func(context.Context) error {
			calls <- struct{}{}
			return nil
		})
	}()

	waitCall(t, calls, "initial apply")

	if err := os.WriteFile(file, []byte("v2"), 0644); err != nil {
		t.Fatal(err)
	}
	waitCall(t, calls, "apply after change")

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() returned %v after cancel", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not return after cancel")
	}
}

func TestRunIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "layout.yaml")
	if err := os.WriteFile(file, []byte("v1"), 0644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	calls := make(chan struct{}, 10)
	go func() {
		_ = Run(ctx, Options{File: file, Debounce: 20 * time.Millisecond}, func(context.Context) error {
			calls <- struct{}{}
			return nil
		})
	}()
	waitCall(t, calls, "initial apply")

	if err := os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	select {
	case <-calls:
		t.Error("change to an unrelated file triggered apply")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestRunKeepsGoingAfterActionError(t *testing.T) {
	file := filepath.Join(t.TempDir(), "layout.yaml")
	if err := os.WriteFile(file, []byte("v1"), 0644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	calls := make(chan struct{}, 10)
	go func() {
		_ = Run(ctx, Options{File: file, Debounce: 20 * time.Millisecond}, func(context.Context) error {
			calls <- struct{}{}
			return errors.New("broken layout")
		})
	}()
	waitCall(t, calls, "initial apply")

	if err := os.WriteFile(file, []byte("v2"), 0644); err != nil {
		t.Fatal(err)
	}
	waitCall(t, calls, "apply after failed apply")
}

func TestRunMissingDirectory(t *testing.T) {
	err := Run(context.Background(), Options{File: filepath.Join(t.TempDir(), "nope", "layout.yaml")}, func(context.Context) error {
		return nil
	})
	if err == nil {
		t.Fatal("expected error watching a missing directory")
	}
}

func waitCall(t *testing.T, calls <-chan struct{}, what string) {
	t.Helper()
	select {
	case <-calls:
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for %s", what)
	}
}
