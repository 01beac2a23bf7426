package booking

import "sync"

// courtLocks serializes admission commits per court. The availability read
// and the insert/update for one decision must not interleave with another
// commit on the same court, but different courts stay independent.
type courtLocks struct {
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func newCourtLocks() *courtLocks {
	return &courtLocks{locks: make(map[int64]*sync.Mutex)}
}

// Lock acquires the mutex for courtID, creating it on first use, and returns
// the unlock function.
func (c *courtLocks) Lock(courtID int64) func() {
	c.mu.Lock()
	lock, ok := c.locks[courtID]
	if !ok {
		lock = &sync.Mutex{}
		c.locks[courtID] = lock
	}
	c.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}
