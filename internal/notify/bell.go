package notify

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/JPM1118/assetpick/internal/media"
)

// Bell manages terminal bell notifications with debounce and suspension.
type Bell struct {
	out       io.Writer
	debounce  time.Duration
	lastRing  time.Time
	suspended bool
	triggerOn map[media.Op]bool
}

// NewBell creates a Bell with the given debounce interval and trigger ops.
// It rings on stderr.
func NewBell(debounce time.Duration, ops []media.Op) *Bell {
	triggerOn := make(map[media.Op]bool, len(ops))
	for _, op := range ops {
		triggerOn[op] = true
	}
	return &Bell{
		out:       os.Stderr,
		debounce:  debounce,
		triggerOn: triggerOn,
	}
}

// SetOutput redirects the bell character.
func (b *Bell) SetOutput(w io.Writer) {
	b.out = w
}

// Ring attempts to ring the terminal bell for the given change.
// Returns true if the bell actually rang.
func (b *Bell) Ring(op media.Op, now time.Time) bool {
	if b.suspended {
		return false
	}
	if !b.triggerOn[op] {
		return false
	}
	if !b.lastRing.IsZero() && now.Sub(b.lastRing) < b.debounce {
		return false
	}

	fmt.Fprint(b.out, "\a")
	b.lastRing = now
	return true
}

// Suspend disables bell ringing.
func (b *Bell) Suspend() {
	b.suspended = true
}

// Resume re-enables bell ringing.
func (b *Bell) Resume() {
	b.suspended = false
}

// IsSuspended returns whether the bell is currently suspended.
func (b *Bell) IsSuspended() bool {
	return b.suspended
}
