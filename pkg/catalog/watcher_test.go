package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcherDeliversReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "obligations.json")
	if err := os.WriteFile(path, []byte("[]"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	reloaded := make(chan struct{}, 1)
	w := NewWatcher(path, 10*time.Millisecond, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- w.Watch(ctx, func() error {
			select {
			case reloaded <- struct{}{}:
			default:
			}
			return nil
		})
	}()

	// Give the watcher time to register before writing.
	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(path, []byte(`[{"id":"x"}]`), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	select {
	case <-reloaded:
	case <-time.After(5 * time.Second):
		t.Fatal("reload callback never fired")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Watch returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Watch did not stop on context cancel")
	}
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "obligations.json")
	if err := os.WriteFile(path, []byte("[]"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	reloaded := make(chan struct{}, 1)
	w := NewWatcher(path, 10*time.Millisecond, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		_ = w.Watch(ctx, func() error {
			select {
			case reloaded <- struct{}{}:
			default:
			}
			return nil
		})
	}()

	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(filepath.Join(dir, "unrelated.json"), []byte("{}"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	select {
	case <-reloaded:
		t.Error("reload fired for an unrelated file")
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcherRefusesDoubleStart(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "obligations.json")
	w := NewWatcher(path, 10*time.Millisecond, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		_ = w.Watch(ctx, func() error { return nil })
	}()
	time.Sleep(100 * time.Millisecond)

	if err := w.Watch(ctx, func() error { return nil }); err == nil {
		t.Error("second Watch should fail while the first is running")
	}
}
