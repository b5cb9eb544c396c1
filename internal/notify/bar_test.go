package notify

import (
	"strings"
	"testing"
	"time"

	"github.com/JPM1118/assetpick/internal/media"
	"github.com/mattn/go-runewidth"
)

func TestBar_PushAndVisible(t *testing.T) {
	b := NewBar(20)
	now := time.Now()

	b.Push(Notification{Name: "a.png", Op: media.OpCreate, Timestamp: now})
	b.Push(Notification{Name: "b.png", Op: media.OpWrite, Timestamp: now})
	b.Push(Notification{Name: "c.png", Op: media.OpRemove, Timestamp: now})

	visible := b.Visible()
	if len(visible) != 2 {
		t.Fatalf("Visible() = %d items, want 2", len(visible))
	}
	if visible[0].Name != "b.png" {
		t.Errorf("visible[0].Name = %q, want b.png", visible[0].Name)
	}
	if visible[1].Name != "c.png" {
		t.Errorf("visible[1].Name = %q, want c.png", visible[1].Name)
	}
}

func TestBar_VisibleEmpty(t *testing.T) {
	b := NewBar(20)
	if len(b.Visible()) != 0 {
		t.Error("empty bar should have no visible items")
	}
}

func TestBar_MaxBuffer(t *testing.T) {
	b := NewBar(3)
	now := time.Now()

	for i := 0; i < 10; i++ {
		b.Push(Notification{Name: string(rune('a' + i)), Timestamp: now})
	}

	if b.Len() != 3 {
		t.Errorf("Len() = %d, want 3 (max buffer)", b.Len())
	}

	visible := b.Visible()
	if visible[0].Name != "i" || visible[1].Name != "j" {
		t.Errorf("visible = %v, want [i j]", visible)
	}
}

func TestBar_Render(t *testing.T) {
	b := NewBar(20)
	now := time.Now()

	b.Push(Notification{
		Name:      "holiday.jpg",
		Op:        media.OpCreate,
		Timestamp: now.Add(-2 * time.Minute),
	})

	result := b.Render(80, now)
	if !strings.Contains(result, "holiday.jpg") {
		t.Errorf("render should contain file name, got: %q", result)
	}
	if !strings.Contains(result, "added") {
		t.Errorf("render should contain the change, got: %q", result)
	}
	if !strings.Contains(result, "2m ago") {
		t.Errorf("render should contain relative time, got: %q", result)
	}
}

func TestBar_RenderEmpty(t *testing.T) {
	b := NewBar(20)
	if b.Render(80, time.Now()) != "" {
		t.Error("empty bar should render empty string")
	}
}

func TestBar_RenderTruncation(t *testing.T) {
	b := NewBar(20)
	now := time.Now()

	b.Push(Notification{Name: "a-very-long-file-name.png", Op: media.OpCreate, Timestamp: now})
	b.Push(Notification{Name: "another-long-file-name.jpg", Op: media.OpRemove, Timestamp: now})

	result := b.Render(30, now)
	if w := runewidth.StringWidth(result); w > 30 {
		t.Errorf("render should be truncated to 30 columns, got %d: %q", w, result)
	}
}

func TestFromChange(t *testing.T) {
	now := time.Now()

	n := FromChange(media.Change{Path: "/pics/cat.png", Op: media.OpCreate, At: now})
	if n.Name != "cat.png" || n.Op != media.OpCreate || !n.Timestamp.Equal(now) {
		t.Errorf("FromChange = %+v", n)
	}

	n = FromChange(media.Change{Path: "/pics", Op: media.OpRescan, At: now})
	if n.Name != "library" {
		t.Errorf("rescan notification name = %q, want library", n.Name)
	}
}
