package media

import (
	"context"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// WatchConfig controls how a library is watched for changes.
type WatchConfig struct {
	// RescanInterval is the polling interval used when filesystem
	// notifications are unavailable.
	RescanInterval time.Duration
	// Debounce coalesces bursts of notifications for the same file.
	Debounce time.Duration
	// ForcePolling skips fsnotify entirely.
	ForcePolling bool
	Logger       *slog.Logger
}

func (c WatchConfig) withDefaults() WatchConfig {
	if c.RescanInterval <= 0 {
		c.RescanInterval = 30 * time.Second
	}
	if c.Debounce <= 0 {
		c.Debounce = 100 * time.Millisecond
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	return c
}

// Watch reports changes to the library until ctx is cancelled, at which
// point the returned channel is closed. It prefers filesystem notifications
// and falls back to periodic rescans.
func Watch(ctx context.Context, lib *Library, cfg WatchConfig) (<-chan Change, error) {
	cfg = cfg.withDefaults()

	if !cfg.ForcePolling {
		events, err := watchNotify(ctx, lib, cfg)
		if err == nil {
			return events, nil
		}
		cfg.Logger.Warn("filesystem notifications unavailable, polling instead",
			"dir", lib.Dir(), "err", err)
	}

	return watchPoll(ctx, lib, cfg), nil
}

func watchNotify(ctx context.Context, lib *Library, cfg WatchConfig) (<-chan Change, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if err := watcher.Add(lib.Dir()); err != nil {
		watcher.Close()
		return nil, err
	}
	if lib.Recursive {
		addSubdirs(watcher, lib.Dir(), cfg.Logger)
	}

	events := make(chan Change, 32)

	go func() {
		defer watcher.Close()

		var (
			mu      sync.Mutex
			timers  = make(map[string]*time.Timer)
			pending sync.WaitGroup
		)
		defer func() {
			mu.Lock()
			for _, t := range timers {
				if t.Stop() {
					pending.Done()
				}
			}
			mu.Unlock()
			pending.Wait()
			close(events)
		}()

		for {
			select {
			case <-ctx.Done():
				return

			case event, ok := <-watcher.Events:
				if !ok {
					return
				}

				if lib.Recursive && event.Op&fsnotify.Create != 0 && isDir(event.Name) {
					addSubdirs(watcher, event.Name, cfg.Logger)
					continue
				}
				if !lib.Contains(event.Name) {
					continue
				}

				change := Change{Path: event.Name, Op: opFor(event.Op)}

				// Debounce rapid events per file
				mu.Lock()
				if t, ok := timers[event.Name]; ok && t.Stop() {
					pending.Done()
				}
				pending.Add(1)
				var t *time.Timer
				t = time.AfterFunc(cfg.Debounce, func() {
					defer pending.Done()
					mu.Lock()
					if timers[change.Path] == t {
						delete(timers, change.Path)
					}
					mu.Unlock()

					change.At = time.Now()
					select {
					case events <- change:
					default:
						// Channel full, drop event
					}
				})
				timers[event.Name] = t
				mu.Unlock()

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				cfg.Logger.Debug("watch error", "dir", lib.Dir(), "err", err)
			}
		}
	}()

	return events, nil
}

func opFor(op fsnotify.Op) Op {
	switch {
	case op&fsnotify.Create != 0:
		return OpCreate
	case op&fsnotify.Remove != 0:
		return OpRemove
	case op&fsnotify.Rename != 0:
		return OpRename
	default:
		return OpWrite
	}
}

func addSubdirs(w *fsnotify.Watcher, dir string, log *slog.Logger) {
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if path != dir && isHidden(d.Name()) {
			return fs.SkipDir
		}
		if err := w.Add(path); err != nil {
			log.Debug("watch subdirectory", "dir", path, "err", err)
		}
		return nil
	})
}

func watchPoll(ctx context.Context, lib *Library, cfg WatchConfig) <-chan Change {
	events := make(chan Change, 4)

	go func() {
		defer close(events)

		state := &scanState{}
		scan := func() {
			now := time.Now()
			if !state.ShouldScan(now) {
				return
			}
			images, err := lib.Scan(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				state.RecordFailure(cfg.RescanInterval, now)
				cfg.Logger.Debug("rescan failed", "dir", lib.Dir(),
					"fails", state.ConsecFails, "retry_at", state.BackoffUntil, "err", err)
				return
			}
			if state.RecordSuccess(signature(images), now) {
				select {
				case events <- Change{Path: lib.Dir(), Op: OpRescan, At: now}:
				default:
				}
			}
		}

		// Baseline
		scan()

		ticker := time.NewTicker(cfg.RescanInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				scan()
			}
		}
	}()

	return events
}
