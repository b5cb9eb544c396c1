package media

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func waitChange(t *testing.T, ch <-chan Change, timeout time.Duration) (Change, bool) {
	t.Helper()
	select {
	case c, ok := <-ch:
		return c, ok
	case <-time.After(timeout):
		return Change{}, false
	}
}

func TestWatch_NotifyReportsNewImage(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := Watch(ctx, &Library{Root: dir}, WatchConfig{Debounce: 10 * time.Millisecond})
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}

	// Non-images are ignored
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "cat.png"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	c, ok := waitChange(t, ch, 2*time.Second)
	if !ok {
		t.Fatal("no change reported for new image")
	}
	if filepath.Base(c.Path) != "cat.png" {
		t.Errorf("change path = %q, want cat.png", c.Path)
	}
	if c.At.IsZero() {
		t.Error("change should carry a timestamp")
	}
}

func TestWatch_PollingReportsChange(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := Watch(ctx, &Library{Root: dir}, WatchConfig{
		ForcePolling:   true,
		RescanInterval: 20 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}

	// Let the baseline scan happen before changing anything
	time.Sleep(50 * time.Millisecond)
	if err := os.WriteFile(filepath.Join(dir, "dog.jpg"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	c, ok := waitChange(t, ch, 2*time.Second)
	if !ok {
		t.Fatal("poller did not report the change")
	}
	if c.Op != OpRescan {
		t.Errorf("op = %q, want %q", c.Op, OpRescan)
	}
}

func TestWatch_ClosesOnCancel(t *testing.T) {
	for _, polling := range []bool{false, true} {
		ctx, cancel := context.WithCancel(context.Background())
		ch, err := Watch(ctx, &Library{Root: t.TempDir()}, WatchConfig{
			ForcePolling:   polling,
			RescanInterval: 20 * time.Millisecond,
		})
		if err != nil {
			t.Fatalf("Watch(polling=%v): %v", polling, err)
		}
		cancel()

		deadline := time.After(2 * time.Second)
	drain:
		for {
			select {
			case _, ok := <-ch:
				if !ok {
					break drain
				}
			case <-deadline:
				t.Fatalf("channel not closed after cancel (polling=%v)", polling)
			}
		}
	}
}

func TestWatch_MissingDirFallsBackToPolling(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := Watch(ctx, &Library{Root: "/nonexistent/pictures"}, WatchConfig{RescanInterval: 20 * time.Millisecond})
	if err != nil {
		t.Fatalf("Watch should fall back to polling, got %v", err)
	}
	if ch == nil {
		t.Fatal("Watch returned nil channel")
	}
}
