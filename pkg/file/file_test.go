package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// watchDocument writes contents to a control document in a fresh directory,
// starts a Watcher on it and consumes the initial emission.
func watchDocument(t *testing.T, contents string) (string, <-chan []byte, context.CancelFunc) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "control.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	ch, err := New(path).Watch(ctx)
	if err != nil {
		cancel()
		t.Fatalf("Watch failed: %v", err)
	}

	select {
	case data := <-ch:
		if string(data) != contents {
			t.Fatalf("expected initial document %q, got %q", contents, data)
		}
	case <-ctx.Done():
		cancel()
		t.Fatal("timeout waiting for initial document")
	}
	return path, ch, cancel
}

func TestWatcher_Watch_EmitsInitialDocument(t *testing.T) {
	_, _, cancel := watchDocument(t, "paused: false\nspeed: 3\n")
	cancel()
}

func TestWatcher_Watch_MissingDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.yaml")
	if _, err := New(path).Watch(context.Background()); err == nil {
		t.Error("expected error for a missing document")
	}
}

func TestWatcher_Watch_ClosesOnContextCancel(t *testing.T) {
	_, ch, cancel := watchDocument(t, "speed: 1\n")
	cancel()

	select {
	case _, ok := <-ch:
		if ok {
			t.Error("expected channel to close after cancel")
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for channel to close")
	}
}

func TestWatcher_Watch_EmitsOnWrite(t *testing.T) {
	path, ch, cancel := watchDocument(t, "reset: 0\n")
	defer cancel()

	if err := os.WriteFile(path, []byte("reset: 1\n"), 0o600); err != nil {
		t.Fatalf("failed to update file: %v", err)
	}

	select {
	case data := <-ch:
		if string(data) != "reset: 1\n" {
			t.Errorf("expected bumped reset generation, got %q", data)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for update")
	}
}

func TestWatcher_Watch_SkipsUnchangedContents(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "control.yaml")

	if err := os.WriteFile(path, []byte("paused: true\n"), 0o600); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	watcher := New(path)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	ch, err := watcher.Watch(ctx)
	if err != nil {
		t.Fatalf("Watch failed: %v", err)
	}
	<-ch

	// Same bytes, then new bytes. Only the new bytes are emitted.
	if err := os.WriteFile(path, []byte("paused: true\n"), 0o600); err != nil {
		t.Fatalf("failed to rewrite file: %v", err)
	}
	if err := os.WriteFile(path, []byte("paused: false\n"), 0o600); err != nil {
		t.Fatalf("failed to update file: %v", err)
	}

	select {
	case data := <-ch:
		if string(data) != "paused: false\n" {
			t.Errorf("expected updated content, got %q", data)
		}
	case <-ctx.Done():
		t.Fatal("timeout waiting for file update")
	}
}

func TestWatcher_Watch_FollowsRenameSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "control.yaml")

	if err := os.WriteFile(path, []byte("speed: 3\n"), 0o600); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	watcher := New(path)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	ch, err := watcher.Watch(ctx)
	if err != nil {
		t.Fatalf("Watch failed: %v", err)
	}
	<-ch

	tmp := filepath.Join(dir, "control.yaml.tmp")
	if err := os.WriteFile(tmp, []byte("speed: 5\n"), 0o600); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		t.Fatalf("failed to rename: %v", err)
	}

	select {
	case data := <-ch:
		if string(data) != "speed: 5\n" {
			t.Errorf("expected renamed content, got %q", data)
		}
	case <-ctx.Done():
		t.Fatal("timeout waiting for rename")
	}
}

func TestWatcher_Watch_IgnoresSiblings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "control.yaml")

	if err := os.WriteFile(path, []byte("speed: 3\n"), 0o600); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	watcher := New(path)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	ch, err := watcher.Watch(ctx)
	if err != nil {
		t.Fatalf("Watch failed: %v", err)
	}
	<-ch

	if err := os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x: 1\n"), 0o600); err != nil {
		t.Fatalf("failed to write sibling: %v", err)
	}

	select {
	case data := <-ch:
		t.Errorf("expected no emission for sibling file, got %q", data)
	case <-time.After(200 * time.Millisecond):
	}
}
