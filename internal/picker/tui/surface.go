package tui

import (
	"context"
	"log/slog"
	"sync"

	"github.com/JPM1118/assetpick/internal/media"
	"github.com/JPM1118/assetpick/internal/selection"
	tea "github.com/charmbracelet/bubbletea"
)

// Surface runs the Browser as a full-screen picker. A Surface backs a single
// session; create a new one for each controller.
type Surface struct {
	src         media.Source
	opts        []Option
	programOpts []tea.ProgramOption
	log         *slog.Logger

	mu        sync.Mutex
	program   *tea.Program
	dismissed bool
	done      chan struct{}
}

var _ selection.Surface = (*Surface)(nil)

// NewSurface creates a picker surface over src. Browser options are applied
// to every model the surface creates.
func NewSurface(src media.Source, opts ...Option) *Surface {
	return &Surface{
		src:         src,
		opts:        opts,
		programOpts: []tea.ProgramOption{tea.WithAltScreen()},
		log:         slog.Default(),
		done:        make(chan struct{}),
	}
}

// WithProgramOptions replaces the Bubble Tea program options. Tests use it
// to run without a terminal.
func (s *Surface) WithProgramOptions(opts ...tea.ProgramOption) *Surface {
	s.programOpts = opts
	return s
}

// WithLogger sets the logger.
func (s *Surface) WithLogger(l *slog.Logger) *Surface {
	if l != nil {
		s.log = l
	}
	return s
}

// Show starts the browser in the background and reports the user's choice
// to sink.
func (s *Surface) Show(host context.Context, sink selection.Sink) error {
	model := NewBrowser(s.src, s.opts...)
	opts := append([]tea.ProgramOption{tea.WithContext(host)}, s.programOpts...)
	p := tea.NewProgram(model, opts...)

	s.mu.Lock()
	if s.dismissed {
		s.mu.Unlock()
		close(s.done)
		return context.Canceled
	}
	s.program = p
	s.mu.Unlock()

	go func() {
		defer close(s.done)

		final, err := p.Run()
		if err != nil {
			s.log.Debug("picker program ended", "err", err)
			sink.OnUserCancelled()
			return
		}

		if m, ok := final.(Browser); ok && m.Selected() != nil {
			sink.OnUserPicked(m.Selected())
			return
		}
		sink.OnUserCancelled()
	}()

	return nil
}

// Dismiss stops the program if it is still running.
func (s *Surface) Dismiss() {
	s.mu.Lock()
	s.dismissed = true
	p := s.program
	s.mu.Unlock()

	if p != nil {
		p.Quit()
	}
}

// Done is closed once the program has exited and the terminal is restored.
func (s *Surface) Done() <-chan struct{} {
	return s.done
}
