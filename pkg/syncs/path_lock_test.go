package syncs_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/etsvibes/ets-vibes/pkg/syncs"
)

func TestPathLock(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		newLock func() *syncs.PathLock
	}{
		"with constructor": {
			newLock: syncs.NewPathLock,
		},
		"zero value": {
			newLock: func() *syncs.PathLock { return &syncs.PathLock{} },
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			t.Run("entries are released", func(t *testing.T) {
				t.Parallel()

				pl := tc.newLock()
				pl.Lock("/saves/a")
				assert.Equal(t, 1, pl.Len())
				pl.Unlock("/saves/a/")
				assert.Equal(t, 0, pl.Len())
			})

			t.Run("different paths do not block", func(t *testing.T) {
				t.Parallel()

				pl := tc.newLock()
				pl.Lock("/saves/a")

				done := make(chan struct{})
				go func() {
					pl.Lock("/saves/b")
					pl.Unlock("/saves/b")
					close(done)
				}()

				select {
				case <-done:
				case <-time.After(5 * time.Second):
					t.Fatal("lock on a different path blocked")
				}

				pl.Unlock("/saves/a")
			})

			t.Run("same path is serialized", func(t *testing.T) {
				t.Parallel()

				pl := tc.newLock()

				var (
					wg      sync.WaitGroup
					mu      sync.Mutex
					active  int
					maxSeen int
				)

				for range 20 {
					wg.Add(1)

					go func() {
						defer wg.Done()

						pl.Lock("/saves/a")
						defer pl.Unlock("/saves/a")

						mu.Lock()
						active++
						maxSeen = max(maxSeen, active)
						mu.Unlock()

						time.Sleep(time.Millisecond)

						mu.Lock()
						active--
						mu.Unlock()
					}()
				}

				wg.Wait()

				assert.Equal(t, 1, maxSeen)
				assert.Equal(t, 0, pl.Len())
			})
		})
	}

	t.Run("unlock without lock panics", func(t *testing.T) {
		t.Parallel()

		assert.Panics(t, func() {
			syncs.NewPathLock().Unlock("/saves/a")
		})
	})
}
