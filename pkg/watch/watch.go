package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/hashicorp/go-multierror"

	"github.com/etsvibes/ets-vibes/pkg/profile"
)

var ErrWatch = errors.New("watch")

const gameSIIName = "game.sii"

// Handler is called once a save has settled after the game wrote it.
type Handler func(ctx context.Context, save *profile.SaveFile) error

// Watcher watches save directories for writes to game.sii.
// Create instances with [New].
type Watcher struct {
	watcher  *fsnotify.Watcher
	handler  Handler
	saves    map[string]*profile.SaveFile
	pending  map[string]time.Time
	ignore   map[string]time.Time
	debounce time.Duration
	mu       sync.Mutex
}

type WatcherOpts func(*Watcher)

// WithDebounce sets how long a save must stay unchanged before the handler
// runs. Writes within the same window after the handler returns are treated
// as the handler's own.
func WithDebounce(d time.Duration) WatcherOpts {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// New creates a [Watcher] over saves.
func New(saves []*profile.SaveFile, handler Handler, opts ...WatcherOpts) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWatch, err)
	}

	w := &Watcher{
		watcher:  fw,
		handler:  handler,
		saves:    map[string]*profile.SaveFile{},
		pending:  map[string]time.Time{},
		ignore:   map[string]time.Time{},
		debounce: 2 * time.Second,
	}
	for _, opt := range opts {
		opt(w)
	}

	for _, s := range saves {
		if err := fw.Add(s.Path); err != nil {
			merr := multierror.Append(err, fw.Close())

			return nil, fmt.Errorf("%w: add %q: %w", ErrWatch, s.Path, merr.ErrorOrNil())
		}

		w.saves[filepath.Clean(s.Path)] = s
	}

	return w, nil
}

// Run processes events until ctx is done, then closes the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer func() {
		if err := w.watcher.Close(); err != nil {
			slog.Error("failed to close watcher", slog.Any("err", err))
		}
	}()

	ticker := time.NewTicker(max(w.debounce/4, 10*time.Millisecond))
	defer ticker.Stop()

	slog.Info("watching saves", slog.Int("count", len(w.saves)))

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}

			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}

			slog.Warn("watch error", slog.Any("err", err))

		case now := <-ticker.C:
			w.flush(ctx, now)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if filepath.Base(event.Name) != gameSIIName {
		return
	}

	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}

	dir := filepath.Dir(event.Name)

	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.saves[dir]; !ok {
		return
	}

	if until, ok := w.ignore[dir]; ok && time.Now().Before(until) {
		return
	}

	slog.Debug("save changed", slog.String("path", event.Name), slog.String("op", event.Op.String()))

	w.pending[dir] = time.Now()
}

// flush runs the handler for every save that has settled.
func (w *Watcher) flush(ctx context.Context, now time.Time) {
	w.mu.Lock()

	ready := []*profile.SaveFile{}

	for dir, last := range w.pending {
		if now.Sub(last) < w.debounce {
			continue
		}

		delete(w.pending, dir)
		ready = append(ready, w.saves[dir])
	}

	w.mu.Unlock()

	for _, s := range ready {
		err := w.handler(ctx, s)
		if err != nil {
			slog.Error("failed to handle save", slog.String("save", s.Key()), slog.Any("err", err))
		}

		w.mu.Lock()
		w.ignore[filepath.Clean(s.Path)] = time.Now().Add(w.debounce)
		w.mu.Unlock()
	}
}
