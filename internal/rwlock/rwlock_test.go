package rwlock

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRWLock_AllowsConcurrentReaders(t *testing.T) {
	l := New()
	var active int32
	var maxActive int32
	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.RLock()
			defer l.RUnlock()
			n := atomic.AddInt32(&active, 1)
			for {
				old := atomic.LoadInt32(&maxActive)
				if n <= old || atomic.CompareAndSwapInt32(&maxActive, old, n) {
					break
				}
			}
			time.Sleep(10 * time.Millisecond)
			atomic.AddInt32(&active, -1)
		}()
	}
	wg.Wait()

	assert.Greater(t, maxActive, int32(1), "multiple readers should have been active concurrently")
}

func TestRWLock_WriterExcludesReadersAndWriters(t *testing.T) {
	l := New()
	var active int32
	var sawOverlap int32
	var wg sync.WaitGroup

	work := func() {
		defer wg.Done()
		l.Lock()
		defer l.Unlock()
		if atomic.AddInt32(&active, 1) > 1 {
			atomic.StoreInt32(&sawOverlap, 1)
		}
		time.Sleep(5 * time.Millisecond)
		atomic.AddInt32(&active, -1)
	}

	for i := 0; i < 5; i++ {
		wg.Add(1)
		go work()
	}
	wg.Wait()

	assert.Zero(t, sawOverlap, "writers must never run concurrently with each other")
}

func TestRWLock_WaitingWriterBlocksNewReaders(t *testing.T) {
	l := New()
	l.RLock()

	writerAcquired := make(chan struct{})
	go func() {
		l.Lock()
		close(writerAcquired)
		l.Unlock()
	}()

	// Give the writer goroutine a chance to register as waiting.
	time.Sleep(20 * time.Millisecond)

	readerBlocked := make(chan struct{})
	go func() {
		l.RLock()
		close(readerBlocked)
		l.RUnlock()
	}()

	select {
	case <-readerBlocked:
		t.Fatal("new reader acquired the lock while a writer was waiting")
	case <-time.After(20 * time.Millisecond):
	}

	l.RUnlock()

	select {
	case <-writerAcquired:
	case <-time.After(time.Second):
		t.Fatal("writer never acquired the lock")
	}

	select {
	case <-readerBlocked:
	case <-time.After(time.Second):
		t.Fatal("reader never acquired the lock after the writer released it")
	}
}

func TestRWLock_LockCtxSucceedsWhenUncontended(t *testing.T) {
	l := New()
	err := l.LockCtx(context.Background())
	require.NoError(t, err)
	l.Unlock()
}

func TestRWLock_LockCtxReturnsErrOnCancellation(t *testing.T) {
	l := New()
	l.Lock() // held forever in this test, never unlocked

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := l.LockCtx(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRWLock_CrashedWaiterDoesNotStarveOthers(t *testing.T) {
	l := New()
	l.Lock()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := l.LockCtx(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	l.Unlock()

	// A fresh writer must still be able to acquire the lock; the abandoned
	// waiter must have decremented writersWaiting on its way out.
	done := make(chan struct{})
	go func() {
		l.Lock()
		l.Unlock()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock is stuck after a cancelled waiter abandoned its wait")
	}
}
