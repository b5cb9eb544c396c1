package notify

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/JPM1118/assetpick/internal/media"
	"github.com/mattn/go-runewidth"
)

// Notification represents a single library change shown to the user.
type Notification struct {
	Name      string
	Op        media.Op
	Timestamp time.Time
}

// FromChange converts a library change into a notification.
func FromChange(c media.Change) Notification {
	name := filepath.Base(c.Path)
	if c.Op == media.OpRescan {
		name = "library"
	}
	return Notification{Name: name, Op: c.Op, Timestamp: c.At}
}

// Bar manages a FIFO queue of notification entries.
type Bar struct {
	items    []Notification
	maxStore int
}

// NewBar creates a notification bar with the given buffer size.
func NewBar(maxStore int) *Bar {
	return &Bar{
		items:    make([]Notification, 0, maxStore),
		maxStore: maxStore,
	}
}

// Push adds a notification, trimming oldest if at capacity.
func (b *Bar) Push(n Notification) {
	b.items = append(b.items, n)
	if len(b.items) > b.maxStore {
		b.items = b.items[len(b.items)-b.maxStore:]
	}
}

// Visible returns the most recent notifications (max 2).
func (b *Bar) Visible() []Notification {
	if len(b.items) <= 2 {
		return b.items
	}
	return b.items[len(b.items)-2:]
}

// Len returns the total number of buffered notifications.
func (b *Bar) Len() int {
	return len(b.items)
}

// Render formats the visible notifications for display within the given width.
func (b *Bar) Render(width int, now time.Time) string {
	visible := b.Visible()
	if len(visible) == 0 {
		return ""
	}

	result := ""
	for i, n := range visible {
		if i > 0 {
			result += " │ "
		}
		result += formatNotification(n, now)
	}

	if runewidth.StringWidth(result) > width {
		result = runewidth.Truncate(result, width, "…")
	}
	return result
}

func formatNotification(n Notification, now time.Time) string {
	age := now.Sub(n.Timestamp).Truncate(time.Second)
	var ageStr string
	if age < time.Minute {
		ageStr = fmt.Sprintf("%ds ago", int(age.Seconds()))
	} else if age < time.Hour {
		ageStr = fmt.Sprintf("%dm ago", int(age.Minutes()))
	} else {
		ageStr = fmt.Sprintf("%dh ago", int(age.Hours()))
	}

	return fmt.Sprintf("● %s %s (%s)", n.Name, n.Op, ageStr)
}
