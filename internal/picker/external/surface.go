package external

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/JPM1118/assetpick/internal/media"
	"github.com/JPM1118/assetpick/internal/selection"
)

// runner executes the dialog and returns its stdout.
type runner func(ctx context.Context, d Dialog) ([]byte, error)

// Surface shows a native file dialog.
type Surface struct {
	dialog Dialog
	exts   []string
	run    runner
	log    *slog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

var _ selection.Surface = (*Surface)(nil)

// NewSurface creates a surface that runs d and accepts files with one of
// the given extensions.
func NewSurface(d Dialog, exts []string) *Surface {
	if len(exts) == 0 {
		exts = media.DefaultExtensions
	}
	return &Surface{
		dialog: d,
		exts:   exts,
		run:    runDialog,
		log:    slog.Default(),
		done:   make(chan struct{}),
	}
}

// WithLogger sets the logger.
func (s *Surface) WithLogger(l *slog.Logger) *Surface {
	if l != nil {
		s.log = l
	}
	return s
}

// Show starts the dialog in the background.
func (s *Surface) Show(host context.Context, sink selection.Sink) error {
	if _, err := exec.LookPath(s.dialog.Name); err != nil {
		close(s.done)
		return fmt.Errorf("%s not found in PATH: %w", s.dialog.Name, err)
	}

	ctx, cancel := context.WithCancel(host)
	s.mu.Lock()
	s.cancel = cancel
	s.mu.Unlock()

	go func() {
		defer close(s.done)
		defer cancel()

		out, err := s.run(ctx, s.dialog)
		if err != nil {
			if !isCancelExit(err) {
				s.log.Warn("file dialog failed", "dialog", s.dialog.Name, "err", err)
			}
			sink.OnUserCancelled()
			return
		}

		img, err := s.resolve(out)
		if err != nil {
			s.log.Warn("file dialog returned unusable path", "err", err)
			sink.OnUserCancelled()
			return
		}
		if img == nil {
			sink.OnUserCancelled()
			return
		}
		sink.OnUserPicked(img)
	}()

	return nil
}

// resolve turns dialog output into an image. Empty output means the user
// closed the dialog without choosing.
func (s *Surface) resolve(out []byte) (*media.Image, error) {
	path := strings.TrimSpace(string(out))
	if path == "" {
		return nil, nil
	}
	// Some dialogs separate multiple selections with '|' or newlines
	if i := strings.IndexAny(path, "|\n"); i >= 0 {
		path = strings.TrimSpace(path[:i])
	}

	if !media.IsImage(path, s.exts) {
		return nil, fmt.Errorf("%s is not an image", path)
	}
	fi, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat selection: %w", err)
	}
	if !fi.Mode().IsRegular() {
		return nil, fmt.Errorf("%s is not a regular file", path)
	}
	return media.NewImage(path, fi.Size(), fi.ModTime()), nil
}

// Dismiss kills the dialog if it is still open.
func (s *Surface) Dismiss() {
	s.mu.Lock()
	cancel := s.cancel
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

// Done is closed once the dialog process has exited.
func (s *Surface) Done() <-chan struct{} {
	return s.done
}

func runDialog(ctx context.Context, d Dialog) ([]byte, error) {
	cmd := exec.CommandContext(ctx, d.Name, d.Args...)
	cmd.WaitDelay = time.Second
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			msg := strings.TrimSpace(stderr.String())
			if msg != "" {
				return nil, fmt.Errorf("%s: %w: %s", d.Name, err, msg)
			}
		}
		return nil, fmt.Errorf("%s: %w", d.Name, err)
	}
	return stdout.Bytes(), nil
}

// isCancelExit reports whether err is the dialog's "user cancelled" exit
// status, or the dialog was closed because the session ended.
func isCancelExit(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var exitErr *exec.ExitError
	return errors.As(err, &exitErr) && exitErr.ExitCode() == 1
}
