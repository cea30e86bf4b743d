// Package locking provides per-rental exclusive access. Extend and return are
// read-modify-write sequences; serializing them per rental id is the only
// synchronization the core needs.
package locking

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/AnkitDhruva08/bookrent/internal/domain"
)

// Keyed hands out weight-1 semaphores per rental id. Entries are refcounted
// and removed once the last holder releases, so the map stays bounded by the
// number of in-flight mutations.
type Keyed struct {
	mu             sync.Mutex
	entries        map[int32]*entry
	acquireTimeout time.Duration
}

type entry struct {
	sem  *semaphore.Weighted
	refs int
}

func NewKeyed(acquireTimeout time.Duration) *Keyed {
	return &Keyed{
		entries:        make(map[int32]*entry),
		acquireTimeout: acquireTimeout,
	}
}

// WithLock runs fn while holding exclusive access to id. A second caller for
// the same id blocks until the first commits or fails; callers for other ids
// are unaffected. If the lock cannot be acquired within the configured
// timeout, fn is not run and ErrConcurrencyConflict is returned.
func (k *Keyed) WithLock(ctx context.Context, id int32, fn func() error) error {
	e := k.retain(id)
	defer k.release(id)

	acquireCtx, cancel := context.WithTimeout(ctx, k.acquireTimeout)
	defer cancel()

	if err := e.sem.Acquire(acquireCtx, 1); err != nil {
		return fmt.Errorf("%w: rental %d", domain.ErrConcurrencyConflict, id)
	}
	defer e.sem.Release(1)

	return fn()
}

func (k *Keyed) retain(id int32) *entry {
	k.mu.Lock()
	defer k.mu.Unlock()

	e, ok := k.entries[id]
	if !ok {
		e = &entry{sem: semaphore.NewWeighted(1)}
		k.entries[id] = e
	}
	e.refs++
	return e
}

func (k *Keyed) release(id int32) {
	k.mu.Lock()
	defer k.mu.Unlock()

	e := k.entries[id]
	e.refs--
	if e.refs == 0 {
		delete(k.entries, id)
	}
}
