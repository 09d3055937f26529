package syncs

import (
	"path/filepath"
	"sync"
)

// PathLocker provides per-path mutual exclusion.
// See [PathLock] for an implementation.
type PathLocker interface {
	Lock(path string)
	Unlock(path string)
}

type pathEntry struct {
	mu   sync.Mutex
	refs int
}

// PathLock is a per-path mutex. Paths are cleaned before use, so "a/b" and
// "a/b/" share a lock. Entries are dropped once no goroutine holds or waits
// for them. The zero value is ready to use.
type PathLock struct {
	locks map[string]*pathEntry
	mu    sync.Mutex
}

// NewPathLock creates a new [PathLock].
func NewPathLock() *PathLock {
	return &PathLock{
		locks: map[string]*pathEntry{},
	}
}

// Lock acquires the mutex for path, blocking while another goroutine holds it.
func (pl *PathLock) Lock(path string) {
	path = filepath.Clean(path)

	pl.mu.Lock()

	if pl.locks == nil {
		pl.locks = map[string]*pathEntry{}
	}

	e, ok := pl.locks[path]
	if !ok {
		e = &pathEntry{}
		pl.locks[path] = e
	}

	e.refs++

	pl.mu.Unlock()

	e.mu.Lock()
}

// Unlock releases the mutex for path. It panics if path is not locked.
func (pl *PathLock) Unlock(path string) {
	path = filepath.Clean(path)

	pl.mu.Lock()
	defer pl.mu.Unlock()

	e, ok := pl.locks[path]
	if !ok {
		panic("syncs: unlock of unlocked path " + path)
	}

	e.refs--
	if e.refs == 0 {
		delete(pl.locks, path)
	}

	e.mu.Unlock()
}

// Len returns the number of paths currently held or waited on.
func (pl *PathLock) Len() int {
	pl.mu.Lock()
	defer pl.mu.Unlock()

	return len(pl.locks)
}
