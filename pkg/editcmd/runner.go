package editcmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync/atomic"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/semaphore"

	"github.com/etsvibes/ets-vibes/pkg/compression"
	"github.com/etsvibes/ets-vibes/pkg/editor"
	"github.com/etsvibes/ets-vibes/pkg/profile"
	"github.com/etsvibes/ets-vibes/pkg/syncs"
	"github.com/etsvibes/ets-vibes/pkg/tracing"
)

var (
	ErrNoEdits          = errors.New("no edits requested")
	ErrEditWorkerFailed = errors.New("edit worker failed")
	ErrSaveEditFailed   = errors.New("save edit failed")
)

// Runner edits saves. Create instances with [NewRunner].
type Runner struct {
	codec   *compression.Codec
	locks   syncs.PathLocker
	tracer  tracing.Tracer
	subs    []func(any)
	workers int64
}

type RunnerOpts func(*Runner)

func WithCodec(c *compression.Codec) RunnerOpts {
	return func(r *Runner) {
		r.codec = c
	}
}

// WithLocker shares save locks with other writers, such as a watcher.
func WithLocker(l syncs.PathLocker) RunnerOpts {
	return func(r *Runner) {
		r.locks = l
	}
}

// WithTracer times each save edit. By default, spans are logged at debug
// level.
func WithTracer(t tracing.Tracer) RunnerOpts {
	return func(r *Runner) {
		r.tracer = t
	}
}

// WithWorkers bounds the number of saves edited concurrently.
func WithWorkers(n int) RunnerOpts {
	return func(r *Runner) {
		r.workers = int64(max(1, n))
	}
}

func NewRunner(opts ...RunnerOpts) *Runner {
	r := &Runner{
		codec:   compression.NewCodec(),
		locks:   syncs.NewPathLock(),
		tracer:  tracing.NewLoggingTracer(nil),
		workers: int64(runtime.GOMAXPROCS(0)),
		subs:    []func(any){},
	}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Subscribe registers f to receive events. It must not be called while a
// command is running.
func (r *Runner) Subscribe(f func(any)) {
	r.subs = append(r.subs, f)
}

func (r *Runner) broadcastEvent(evt any) {
	for _, sub := range r.subs {
		sub(evt)
	}
}

// EditSave loads save, applies opts and writes it back as plain text. When
// money is edited, the summary in info.sii is updated on a best-effort basis.
func (r *Runner) EditSave(ctx context.Context, save *profile.SaveFile, opts editor.Options) (editor.Result, error) {
	if opts.Empty() {
		return editor.Result{}, ErrNoEdits
	}

	if err := ctx.Err(); err != nil {
		return editor.Result{}, fmt.Errorf("%w: %w", ErrSaveEditFailed, err)
	}

	logger := slog.With(
		slog.String("save", save.Key()),
	)

	span := r.tracer.StartSpan("edit_save")
	span.SetAttr("save", save.Key())
	defer span.Finish()

	r.locks.Lock(save.Path)
	defer r.locks.Unlock(save.Path)

	e := editor.New(save, editor.WithCodec(r.codec))
	if err := e.Load(); err != nil {
		return editor.Result{}, fmt.Errorf("%w: %w", ErrSaveEditFailed, err)
	}

	logger.Debug("loaded save", slog.Bool("encrypted", e.WasEncrypted()))

	res, err := e.Apply(opts)
	if err != nil {
		return editor.Result{}, fmt.Errorf("%w: %w", ErrSaveEditFailed, err)
	}

	if err := e.Save(); err != nil {
		return res, fmt.Errorf("%w: %w", ErrSaveEditFailed, err)
	}

	if opts.Money != nil {
		if err := e.UpdateInfo(*opts.Money); err != nil {
			logger.Warn("could not update info.sii", slog.Any("err", err))
		}
	}

	logger.Info("edited save")

	return res, nil
}

// EditAll runs [Runner.EditSave] for every save concurrently. It keeps going
// after failures and returns the number of saves edited together with every
// error.
func (r *Runner) EditAll(ctx context.Context, saves []*profile.SaveFile, opts editor.Options) (int, error) {
	if opts.Empty() {
		return 0, ErrNoEdits
	}

	sem := semaphore.NewWeighted(r.workers)
	errChan := make(chan error, len(saves))

	var edited atomic.Int64

	var merr error

	r.broadcastEvent(EventSetSaveTotal(len(saves)))

	for _, save := range saves {
		key := save.Key()

		err := sem.Acquire(ctx, 1)
		if err != nil {
			merr = multierror.Append(merr, fmt.Errorf("%w: %w", ErrEditWorkerFailed, err))

			break
		}

		r.broadcastEvent(EventEditingSave(key))

		go func() {
			defer sem.Release(1)

			_, err := r.EditSave(ctx, save, opts)
			if err != nil {
				r.broadcastEvent(EventEditedSave{Save: key, Err: err})

				errChan <- fmt.Errorf("edit %q: %w", key, err)

				return
			}

			edited.Add(1)
			r.broadcastEvent(EventEditedSave{Save: key})
		}()
	}

	// Wait for every worker.
	err := sem.Acquire(context.WithoutCancel(ctx), r.workers)
	if err != nil {
		return int(edited.Load()), fmt.Errorf("%w: %w", ErrEditWorkerFailed, err)
	}

	close(errChan)

	for err := range errChan {
		merr = multierror.Append(merr, err)
	}

	if merr != nil {
		return int(edited.Load()), merr
	}

	slog.Info("edit complete", slog.Int64("saves", edited.Load()))

	return int(edited.Load()), nil
}

// Restore copies the backup of save over its game.sii.
func (r *Runner) Restore(save *profile.SaveFile) error {
	r.locks.Lock(save.Path)
	defer r.locks.Unlock(save.Path)

	if err := save.RestoreBackup(); err != nil {
		return fmt.Errorf("restore %q: %w", save.Key(), err)
	}

	slog.Info("restored backup", slog.String("save", save.Key()))

	return nil
}
