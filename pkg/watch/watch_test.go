package watch_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/etsvibes/ets-vibes/pkg/games"
	"github.com/etsvibes/ets-vibes/pkg/profile"
	"github.com/etsvibes/ets-vibes/pkg/savetest"
	"github.com/etsvibes/ets-vibes/pkg/watch"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestWatcher(t *testing.T) {
	t.Parallel()

	h := savetest.NewHome(t)
	p := h.AddProfile(games.ETS2, "Alice")
	s := h.AddSave(p, "autosave", []byte(savetest.GameSII(1, 1)), nil)
	other := h.AddSave(p, "other", []byte(savetest.GameSII(1, 1)), nil)

	handled := make(chan string, 10)

	w, err := watch.New(
		[]*profile.SaveFile{s, other},
		func(_ context.Context, save *profile.SaveFile) error {
			handled <- save.Name

			return nil
		},
		watch.WithDebounce(50*time.Millisecond),
	)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(t.Context())

	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx)
	}()

	// Not game.sii; ignored.
	require.NoError(t, os.WriteFile(s.InfoSIIPath(), []byte("x"), 0o600))

	// Several writes in quick succession settle into one call.
	for i := range 3 {
		require.NoError(t, os.WriteFile(s.GameSIIPath(), []byte(savetest.GameSII(int64(i), 1)), 0o600))
		time.Sleep(5 * time.Millisecond)
	}

	select {
	case name := <-handled:
		assert.Equal(t, "autosave", name)
	case <-time.After(5 * time.Second):
		t.Fatal("handler was not called")
	}

	select {
	case name := <-handled:
		t.Fatalf("unexpected extra call for %q", name)
	case <-time.After(200 * time.Millisecond):
	}

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestWatcherIgnoresOwnWrites(t *testing.T) {
	t.Parallel()

	h := savetest.NewHome(t)
	p := h.AddProfile(games.ETS2, "Alice")
	s := h.AddSave(p, "autosave", []byte(savetest.GameSII(1, 1)), nil)

	handled := make(chan int64, 10)

	w, err := watch.New(
		[]*profile.SaveFile{s},
		func(_ context.Context, save *profile.SaveFile) error {
			handled <- 1

			return save.WriteGameSII([]byte(savetest.GameSII(500, 1)))
		},
		watch.WithDebounce(50*time.Millisecond),
	)
	require.NoError(t, err)

	stop := runForTest(t, w)

	require.NoError(t, os.WriteFile(s.GameSIIPath(), []byte(savetest.GameSII(2, 1)), 0o600))

	waitForCall(t, handled)

	select {
	case <-handled:
		t.Fatal("handler ran again for its own write")
	case <-time.After(300 * time.Millisecond):
	}

	assert.Equal(t, savetest.GameSII(500, 1), h.ReadFile(s.GameSIIPath()))

	stop()
}

func TestWatcherContinuesAfterHandlerError(t *testing.T) {
	t.Parallel()

	h := savetest.NewHome(t)
	p := h.AddProfile(games.ETS2, "Alice")
	s := h.AddSave(p, "autosave", []byte(savetest.GameSII(1, 1)), nil)

	handled := make(chan int64, 10)
	calls := 0

	w, err := watch.New(
		[]*profile.SaveFile{s},
		func(_ context.Context, _ *profile.SaveFile) error {
			calls++
			handled <- int64(calls)

			if calls == 1 {
				return errors.New("save is locked")
			}

			return nil
		},
		watch.WithDebounce(50*time.Millisecond),
	)
	require.NoError(t, err)

	stop := runForTest(t, w)

	require.NoError(t, os.WriteFile(s.GameSIIPath(), []byte(savetest.GameSII(2, 1)), 0o600))
	assert.Equal(t, int64(1), waitForCall(t, handled))

	// Past the window where writes count as the handler's own.
	time.Sleep(200 * time.Millisecond)

	require.NoError(t, os.WriteFile(s.GameSIIPath(), []byte(savetest.GameSII(3, 1)), 0o600))
	assert.Equal(t, int64(2), waitForCall(t, handled))

	stop()
}

func TestNewMissingDir(t *testing.T) {
	t.Parallel()

	s := profile.NewSaveFile(games.TypeETS2, t.TempDir(), "missing")

	_, err := watch.New([]*profile.SaveFile{s}, nil)
	require.ErrorIs(t, err, watch.ErrWatch)
}

func runForTest(t *testing.T, w *watch.Watcher) func() {
	t.Helper()

	ctx, cancel := context.WithCancel(t.Context())

	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx)
	}()

	return func() {
		cancel()

		select {
		case err := <-done:
			require.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Fatal("watcher did not stop")
		}
	}
}

func waitForCall(t *testing.T, handled <-chan int64) int64 {
	t.Helper()

	select {
	case n := <-handled:
		return n
	case <-time.After(5 * time.Second):
		t.Fatal("handler was not called")
	}

	return 0
}
