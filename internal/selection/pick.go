package selection

import (
	"context"
)

// Pick runs a complete session on surface and blocks until it resolves or
// ctx ends. Cancelling ctx dismisses the picker and yields NoSelection.
func Pick(ctx context.Context, surface Surface, opts ...Option) Result {
	done := make(chan Result, 1)

	c := New(surface, opts...)
	defer c.Release()

	_ = c.SetCallback(func(r Result) {
		done <- r
	})
	_ = c.Present(ctx)

	return <-done
}
