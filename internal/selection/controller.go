package selection

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/JPM1118/assetpick/internal/media"
	"github.com/google/uuid"
)

// Misuse errors. In strict mode these panic instead of being returned.
var (
	ErrAlreadyPresented   = errors.New("selection: controller already presented")
	ErrCallbackAlreadySet = errors.New("selection: callback already set")
	ErrCompleted          = errors.New("selection: controller already completed")
)

// State is the lifecycle phase of a Controller.
type State int

const (
	Idle State = iota
	Presenting
	Completed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Presenting:
		return "presenting"
	case Completed:
		return "completed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Controller owns one picker session and converts the surface's events into
// exactly one callback invocation.
//
// A Controller is single use: Idle → Presenting → Completed. Events that
// arrive while Idle or Completed are discarded. Once Completed, the
// controller holds no reference to the callback or the surface.
type Controller struct {
	mu       sync.Mutex
	id       string
	state    State
	cb       Callback
	surface  Surface
	stopHost func() bool

	strict bool
	log    *slog.Logger
}

var _ Sink = (*Controller)(nil)

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger used for session diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.log = l
		}
	}
}

// WithStrict makes misuse (presenting twice, setting the callback twice or
// late) panic instead of returning an error. Intended for tests.
func WithStrict(strict bool) Option {
	return func(c *Controller) {
		c.strict = strict
	}
}

// New creates an idle controller that will drive surface.
func New(surface Surface, opts ...Option) *Controller {
	c := &Controller{
		id:      uuid.NewString(),
		surface: surface,
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.With("session", c.id)
	return c
}

// ID returns the session identifier used in log records.
func (c *Controller) ID() string {
	return c.id
}

// State returns the current lifecycle phase.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// SetCallback stores the function to invoke when the session ends.
// It may be called once, before Present. Later calls leave the stored
// callback untouched and return ErrCallbackAlreadySet, ErrAlreadyPresented
// or ErrCompleted.
func (c *Controller) SetCallback(cb Callback) error {
	c.mu.Lock()
	var err error
	switch {
	case c.state == Completed:
		err = ErrCompleted
	case c.state == Presenting:
		err = ErrAlreadyPresented
	case c.cb != nil:
		err = ErrCallbackAlreadySet
	default:
		c.cb = cb
	}
	c.mu.Unlock()

	if err != nil {
		return c.misuse("set callback", err)
	}
	return nil
}

// Present shows the picker surface scoped to host. When host is cancelled
// before the user picks or cancels, the session resolves with NoSelection.
//
// A surface that cannot be shown also resolves the session with
// NoSelection; the reason is logged. Present only returns an error for
// misuse.
func (c *Controller) Present(host context.Context) error {
	c.mu.Lock()
	switch c.state {
	case Presenting:
		c.mu.Unlock()
		return c.misuse("present", ErrAlreadyPresented)
	case Completed:
		c.mu.Unlock()
		return c.misuse("present", ErrCompleted)
	}
	c.state = Presenting
	surface := c.surface
	c.mu.Unlock()

	c.log.Debug("presenting picker")

	if surface == nil {
		c.resolve(NoSelection(), "no picker surface")
		return nil
	}
	if host.Err() != nil {
		c.resolve(NoSelection(), "host dismissed")
		return nil
	}
	if err := surface.Show(host, c); err != nil {
		c.log.Warn("picker surface failed", "err", err)
		c.resolve(NoSelection(), "surface failed")
		return nil
	}

	c.mu.Lock()
	if c.state == Presenting {
		c.stopHost = context.AfterFunc(host, c.OnHostDismissed)
	}
	c.mu.Unlock()
	return nil
}

// OnUserPicked resolves the session with img. A nil img resolves it with
// NoSelection.
func (c *Controller) OnUserPicked(img *media.Image) {
	c.resolve(Selected(img), "picked")
}

// OnUserCancelled resolves the session with NoSelection.
func (c *Controller) OnUserCancelled() {
	c.resolve(NoSelection(), "cancelled")
}

// OnHostDismissed resolves the session with NoSelection when the host goes
// away before the surface reported anything.
func (c *Controller) OnHostDismissed() {
	c.resolve(NoSelection(), "host dismissed")
}

// Release invalidates the controller on caller teardown. A session that is
// still presenting resolves with NoSelection first; an idle controller
// completes without invoking its callback.
func (c *Controller) Release() {
	c.resolve(NoSelection(), "released")

	c.mu.Lock()
	if c.state == Idle {
		c.state = Completed
		c.cb = nil
		c.surface = nil
	}
	c.mu.Unlock()
}

func (c *Controller) resolve(r Result, reason string) {
	c.mu.Lock()
	if c.state != Presenting {
		state := c.state
		c.mu.Unlock()
		c.log.Debug("event discarded", "event", reason, "state", state)
		return
	}
	c.state = Completed
	cb, surface, stop := c.cb, c.surface, c.stopHost
	c.cb, c.surface, c.stopHost = nil, nil, nil
	c.mu.Unlock()

	if stop != nil {
		stop()
	}

	c.log.Debug("session completed", "event", reason, "result", r)

	if cb != nil {
		cb(r)
	}
	if surface != nil {
		surface.Dismiss()
	}
}

func (c *Controller) misuse(op string, err error) error {
	if c.strict {
		panic(fmt.Sprintf("%s: %v", op, err))
	}
	c.log.Warn("controller misuse", "op", op, "err", err)
	return err
}
