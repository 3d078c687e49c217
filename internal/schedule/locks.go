package schedule

import (
	"slices"
	"sync"
)

// RootLocks serializes propagation chains per root project within one
// process. A chain never leaves its root, so holding the root's lock covers
// every node the chain may write.
type RootLocks struct {
	mu    sync.Mutex
	locks map[string]*rootLock
}

type rootLock struct {
	mu   sync.Mutex
	refs int
}

func NewRootLocks() *RootLocks {
	return &RootLocks{locks: make(map[string]*rootLock)}
}

// Lock acquires the locks for all given roots in sorted order and returns a
// function releasing them. Empty and duplicate ids are ignored.
func (l *RootLocks) Lock(rootIDs ...string) (unlock func()) {
	ids := make([]string, 0, len(rootIDs))
	for _, id := range rootIDs {
		if id != "" {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	ids = slices.Compact(ids)

	held := make([]*rootLock, 0, len(ids))
	for _, id := range ids {
		rl := l.acquire(id)
		rl.mu.Lock()
		held = append(held, rl)
	}

	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].mu.Unlock()
			l.release(ids[i])
		}
	}
}

func (l *RootLocks) acquire(id string) *rootLock {
	l.mu.Lock()
	defer l.mu.Unlock()
	rl, ok := l.locks[id]
	if !ok {
		rl = &rootLock{}
		l.locks[id] = rl
	}
	rl.refs++
	return rl
}

func (l *RootLocks) release(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	rl := l.locks[id]
	rl.refs--
	if rl.refs == 0 {
		delete(l.locks, id)
	}
}

// size is the number of roots currently tracked.
func (l *RootLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
