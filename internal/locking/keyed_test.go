package locking

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/AnkitDhruva08/bookrent/internal/domain"
)

func TestWithLock_SerializesPerKey(t *testing.T) {
	locks := NewKeyed(5 * time.Second)
	ctx := context.Background()

	var inSection bool
	counter := 0

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := locks.WithLock(ctx, 1, func() error {
				assert.False(t, inSection, "two holders inside the critical section")
				inSection = true
				counter++
				inSection = false
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, counter)
}

func TestWithLock_DifferentKeysDoNotBlock(t *testing.T) {
	locks := NewKeyed(200 * time.Millisecond)
	ctx := context.Background()

	release := make(chan struct{})
	held := make(chan struct{})

	go func() {
		_ = locks.WithLock(ctx, 1, func() error {
			close(held)
			<-release
			return nil
		})
	}()
	<-held

	// Key 2 must acquire immediately even while key 1 is held.
	err := locks.WithLock(ctx, 2, func() error { return nil })
	assert.NoError(t, err)

	close(release)
}

func TestWithLock_ContentionTimesOut(t *testing.T) {
	locks := NewKeyed(50 * time.Millisecond)
	ctx := context.Background()

	release := make(chan struct{})
	held := make(chan struct{})

	go func() {
		_ = locks.WithLock(ctx, 7, func() error {
			close(held)
			<-release
			return nil
		})
	}()
	<-held

	err := locks.WithLock(ctx, 7, func() error {
		t.Error("must not run while the lock is held")
		return nil
	})
	assert.ErrorIs(t, err, domain.ErrConcurrencyConflict)

	close(release)
}

func TestWithLock_EntriesAreReclaimed(t *testing.T) {
	locks := NewKeyed(time.Second)
	ctx := context.Background()

	for id := int32(1); id <= 10; id++ {
		assert.NoError(t, locks.WithLock(ctx, id, func() error { return nil }))
	}

	locks.mu.Lock()
	defer locks.mu.Unlock()
	assert.Empty(t, locks.entries)
}
