package cart

import (
	"context"
	"sync"
)

// Subscription is returned by Store.Subscribe.
type Subscription struct {
	once  sync.Once
	store *Store
	id    uint64
}

// Unsubscribe stops further notifications. Safe to call more than once and from
// inside a callback.
func (sub *Subscription) Unsubscribe() {
	sub.once.Do(func() {
		sub.store.mu.Lock()
		delete(sub.store.subs, sub.id)
		sub.store.mu.Unlock()
	})
}

// Subscribe registers fn and calls it right away with the current lines. fn then
// runs synchronously after every mutation, in the mutating goroutine.
func (s *Store) Subscribe(fn func([]Line)) *Subscription {
	s.publishMu.Lock()
	defer s.publishMu.Unlock()

	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.subs[id] = fn
	snapshot := cloneLines(s.lines)
	s.mu.Unlock()

	fn(snapshot)
	return &Subscription{store: s, id: id}
}

func (s *Store) subscriberCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subs)
}

// Watch delivers snapshots on a channel until ctx is done. Slow readers only see
// the latest snapshot; intermediate ones are dropped.
func (s *Store) Watch(ctx context.Context) <-chan []Line {
	w := &watcher{ch: make(chan []Line, 1)}
	sub := s.Subscribe(w.offer)
	go func() {
		<-ctx.Done()
		sub.Unsubscribe()
		w.close()
	}()
	return w.ch
}

type watcher struct {
	mu     sync.Mutex
	closed bool
	ch     chan []Line
}

func (w *watcher) offer(lines []Line) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	select {
	case w.ch <- lines:
		return
	default:
	}
	// replace the stale snapshot
	select {
	case <-w.ch:
	default:
	}
	w.ch <- lines
}

func (w *watcher) close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.closed {
		w.closed = true
		close(w.ch)
	}
}
