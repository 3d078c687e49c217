package schedule

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRootLocks_SerializesSameRoot(t *testing.T) {
	locks := NewRootLocks()
	var inside, maxInside atomic.Int32
	var wg sync.WaitGroup

	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locks.Lock("root")
			defer unlock()
			n := inside.Add(1)
			for {
				m := maxInside.Load()
				if n <= m || maxInside.CompareAndSwap(m, n) {
					break
				}
			}
			inside.Add(-1)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxInside.Load())
	assert.Zero(t, locks.size())
}

func TestRootLocks_MultipleRootsInAnyOrder(t *testing.T) {
	locks := NewRootLocks()
	var wg sync.WaitGroup

	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var unlock func()
			if i%2 == 0 {
				unlock = locks.Lock("a", "b")
			} else {
				unlock = locks.Lock("b", "a")
			}
			unlock()
		}()
	}
	wg.Wait()

	assert.Zero(t, locks.size())
}

func TestRootLocks_IgnoresEmptyAndDuplicateIDs(t *testing.T) {
	locks := NewRootLocks()
	unlock := locks.Lock("a", "", "a")
	assert.Equal(t, 1, locks.size())
	unlock()
	assert.Zero(t, locks.size())
}
