package lock

import (
	"context"
	"sync"
)

type keyedEntry struct {
	ch   chan struct{}
	refs int
}

// LocalLocker is an in-process keyed mutex. Entries are reference counted and
// dropped when no goroutine holds or waits on them.
type LocalLocker struct {
	mu      sync.Mutex
	entries map[string]*keyedEntry
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{entries: make(map[string]*keyedEntry)}
}

func (l *LocalLocker) Lock(ctx context.Context, keys ...string) (Unlock, error) {
	ordered := orderedKeys(keys)
	held := make([]string, 0, len(ordered))

	release := func() {
		for i := len(held) - 1; i >= 0; i-- {
			l.release(held[i])
		}
	}

	for _, k := range ordered {
		if err := l.acquire(ctx, k); err != nil {
			release()
			return nil, err
		}
		held = append(held, k)
	}
	return release, nil
}

func (l *LocalLocker) acquire(ctx context.Context, key string) error {
	l.mu.Lock()
	e, ok := l.entries[key]
	if !ok {
		e = &keyedEntry{ch: make(chan struct{}, 1)}
		l.entries[key] = e
	}
	e.refs++
	l.mu.Unlock()

	select {
	case e.ch <- struct{}{}:
		return nil
	case <-ctx.Done():
		l.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(l.entries, key)
		}
		l.mu.Unlock()
		return ctx.Err()
	}
}

func (l *LocalLocker) release(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[key]
	if !ok {
		return
	}
	<-e.ch
	e.refs--
	if e.refs == 0 {
		delete(l.entries, key)
	}
}
