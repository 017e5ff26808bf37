package hotkey

import "sync"

// queue is an unbounded FIFO hand-off. push never blocks, so the event tap
// callback can enqueue without stalling the keyboard event stream.
type queue[T any] struct {
	mu     sync.Mutex
	items  []T
	closed bool
	signal chan struct{}
}

func newQueue[T any]() *queue[T] {
	return &queue[T]{signal: make(chan struct{}, 1)}
}

// push appends v. It reports false once the queue is closed.
func (q *queue[T]) push(v T) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return false
	}
	q.items = append(q.items, v)
	select {
	case q.signal <- struct{}{}:
	default:
	}
	return true
}

// tryPop returns the oldest item without blocking.
func (q *queue[T]) tryPop() (v T, ok bool, closed bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return v, false, true
	}
	if len(q.items) == 0 {
		return v, false, false
	}
	v = q.items[0]
	var zero T
	q.items[0] = zero
	q.items = q.items[1:]
	return v, true, false
}

// pop blocks until an item is available or the queue is closed.
func (q *queue[T]) pop() (T, bool) {
	for {
		v, ok, closed := q.tryPop()
		if ok {
			return v, true
		}
		if closed {
			return v, false
		}
		<-q.signal
	}
}

func (q *queue[T]) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// close stops the queue. Items not yet popped are dropped.
func (q *queue[T]) close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	q.items = nil
	close(q.signal)
}
