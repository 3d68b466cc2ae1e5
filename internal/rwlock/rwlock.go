// Package rwlock implements a many-readers-XOR-one-writer lock with
// writer-starvation avoidance: a waiting writer blocks new readers from
// acquiring, so a steady stream of readers cannot starve a pending writer
// out indefinitely.
package rwlock

import (
	"context"
	"sync"
)

// RWLock is a reader-writer lock with anti-starvation semantics. The zero
// value is not usable; construct with New.
type RWLock struct {
	mu        sync.Mutex
	readersOK sync.Cond
	writersOK sync.Cond

	numReaders     int
	writerActive   bool
	writersWaiting int
}

// New constructs a ready-to-use RWLock.
func New() *RWLock {
	l := &RWLock{}
	l.readersOK.L = &l.mu
	l.writersOK.L = &l.mu
	return l
}

// RLock blocks new readers while a writer is active or a writer is
// waiting, then registers this goroutine as an active reader.
func (l *RWLock) RLock() {
	l.mu.Lock()
	defer l.mu.Unlock()

	for l.writerActive || l.writersWaiting > 0 {
		l.writersOK.Wait()
	}
	l.numReaders++
}

// RUnlock releases a read lock. If this was the last active reader, it
// wakes any writer blocked waiting for readers to drain.
func (l *RWLock) RUnlock() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.numReaders--
	if l.numReaders == 0 {
		l.readersOK.Broadcast()
	}
}

// Lock blocks until no readers and no other writer hold the lock, then
// acquires it exclusively. While waiting, it is counted in
// writersWaiting, which blocks new readers from acquiring in the
// meantime.
func (l *RWLock) Lock() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.writersWaiting++
	for l.numReaders > 0 || l.writerActive {
		if l.numReaders > 0 {
			l.readersOK.Wait()
		} else {
			l.writersOK.Wait()
		}
	}
	l.writersWaiting--
	l.writerActive = true
}

// Unlock releases the write lock and wakes any waiting readers and
// writers.
func (l *RWLock) Unlock() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.writerActive = false
	l.writersOK.Broadcast()
	l.readersOK.Broadcast()
}

// LockCtx behaves like Lock, but returns ctx.Err() if ctx is cancelled
// before the write lock is acquired. If the wait is abandoned, it still
// decrements writersWaiting and broadcasts before returning, so pending
// readers and writers are never left blocked by a crashed waiter.
func (l *RWLock) LockCtx(ctx context.Context) error {
	// sync.Cond has no context-aware wait, so a watcher goroutine
	// translates ctx cancellation into a broadcast that wakes this
	// goroutine's Wait() call spuriously; it then re-checks ctx.Err().
	stop := context.AfterFunc(ctx, func() {
		l.mu.Lock()
		l.writersOK.Broadcast()
		l.readersOK.Broadcast()
		l.mu.Unlock()
	})
	defer stop()

	l.mu.Lock()
	l.writersWaiting++

	acquired := false
	for {
		if ctx.Err() != nil {
			l.writersWaiting--
			l.writersOK.Broadcast()
			l.readersOK.Broadcast()
			l.mu.Unlock()
			return ctx.Err()
		}
		if l.numReaders == 0 && !l.writerActive {
			acquired = true
			break
		}
		if l.numReaders > 0 {
			l.readersOK.Wait()
		} else {
			l.writersOK.Wait()
		}
	}

	if acquired {
		l.writersWaiting--
		l.writerActive = true
	}
	l.mu.Unlock()
	return nil
}

// RLocker returns a sync.Locker that acquires/releases the read side of l,
// for use with helpers that expect the standard library Locker interface.
func (l *RWLock) RLocker() sync.Locker {
	return (*rlocker)(l)
}

type rlocker RWLock

func (r *rlocker) Lock()   { (*RWLock)(r).RLock() }
func (r *rlocker) Unlock() { (*RWLock)(r).RUnlock() }
