package selection

import (
	"context"

	"github.com/JPM1118/assetpick/internal/media"
)

// Sink receives terminal events from a picker surface.
// Controller implements this interface.
type Sink interface {
	OnUserPicked(img *media.Image)
	OnUserCancelled()
}

// Surface is a picker UI that a Controller drives.
//
// Show starts the picker scoped to host and returns without waiting for the
// user. The surface reports the outcome through sink. A returned error means
// the picker could not be shown at all.
//
// Dismiss tears the picker down. It is called once, after the outcome has
// been delivered, and must be safe to call from any goroutine.
type Surface interface {
	Show(host context.Context, sink Sink) error
	Dismiss()
}
