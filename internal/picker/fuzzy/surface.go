package fuzzy

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/JPM1118/assetpick/internal/media"
	"github.com/JPM1118/assetpick/internal/selection"
	"github.com/ktr0731/go-fuzzyfinder"
)

// finder runs the interactive search over a live slice and returns the
// chosen index.
type finder func(ctx context.Context, images *[]*media.Image, lock sync.Locker) (int, error)

// Surface is an fzf-style picker.
type Surface struct {
	src     media.Source
	changes <-chan media.Change
	find    finder
	log     *slog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

var _ selection.Surface = (*Surface)(nil)

// NewSurface creates a fuzzy picker over src. A non-nil changes channel
// reloads the candidate list while the finder is open.
func NewSurface(src media.Source, changes <-chan media.Change) *Surface {
	return &Surface{
		src:     src,
		changes: changes,
		find:    runFinder,
		log:     slog.Default(),
		done:    make(chan struct{}),
	}
}

// WithLogger sets the logger.
func (s *Surface) WithLogger(l *slog.Logger) *Surface {
	if l != nil {
		s.log = l
	}
	return s
}

// Show scans the library and opens the finder in the background.
func (s *Surface) Show(host context.Context, sink selection.Sink) error {
	images, err := s.src.Scan(host)
	if err != nil {
		close(s.done)
		return err
	}
	if len(images) == 0 {
		close(s.done)
		return fmt.Errorf("%s: %w", s.src.Dir(), media.ErrEmptyLibrary)
	}

	ctx, cancel := context.WithCancel(host)
	s.mu.Lock()
	s.cancel = cancel
	s.mu.Unlock()

	var lock sync.Mutex
	go s.reload(ctx, &images, &lock)

	go func() {
		defer close(s.done)
		defer cancel()

		idx, err := s.find(ctx, &images, &lock)
		if err != nil {
			if !errors.Is(err, fuzzyfinder.ErrAbort) {
				s.log.Debug("fuzzy finder ended", "err", err)
			}
			sink.OnUserCancelled()
			return
		}

		lock.Lock()
		var picked *media.Image
		if idx >= 0 && idx < len(images) {
			picked = images[idx]
		}
		lock.Unlock()

		sink.OnUserPicked(picked)
	}()

	return nil
}

// reload swaps in a fresh scan whenever the library changes.
func (s *Surface) reload(ctx context.Context, images *[]*media.Image, lock sync.Locker) {
	if s.changes == nil {
		return
	}
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-s.changes:
			if !ok {
				return
			}
			fresh, err := s.src.Scan(ctx)
			if err != nil {
				s.log.Debug("reload failed", "err", err)
				continue
			}
			lock.Lock()
			*images = fresh
			lock.Unlock()
		}
	}
}

// Dismiss closes the finder if it is still open.
func (s *Surface) Dismiss() {
	s.mu.Lock()
	cancel := s.cancel
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

// Done is closed once the finder has exited.
func (s *Surface) Done() <-chan struct{} {
	return s.done
}

func runFinder(ctx context.Context, images *[]*media.Image, lock sync.Locker) (int, error) {
	return fuzzyfinder.Find(
		images,
		func(i int) string { return (*images)[i].Name },
		fuzzyfinder.WithContext(ctx),
		fuzzyfinder.WithHotReloadLock(lock),
		fuzzyfinder.WithPromptString("image> "),
		fuzzyfinder.WithPreviewWindow(func(i, width, height int) string {
			if i < 0 || i >= len(*images) {
				return ""
			}
			return preview((*images)[i])
		}),
	)
}

func preview(img *media.Image) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", img.Name)
	fmt.Fprintf(&b, "Format:   %s\n", strings.ToUpper(img.Format))
	fmt.Fprintf(&b, "Size:     %s\n", img.HumanSize())
	fmt.Fprintf(&b, "Modified: %s\n", img.Age())
	fmt.Fprintf(&b, "Path:     %s\n", img.Path)
	return b.String()
}
