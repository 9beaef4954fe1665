package output_storage

import (
	"errors"
	"sync"
)

// ErrBroadcasterStopped is returned by Subscribe after Stop.
var ErrBroadcasterStopped = errors.New("broadcaster is stopped")

// Broadcaster fans every published value out to all subscribers.
// Each subscriber channel holds at most one pending value; when a subscriber
// falls behind, its stale value is replaced by the newest one, so Publish never blocks.
type Broadcaster[T any] struct {
	mu          sync.Mutex
	subscribers map[chan T]struct{}
	stopped     bool
}

func NewBroadcaster[T any]() *Broadcaster[T] {
	return &Broadcaster[T]{
		subscribers: make(map[chan T]struct{}),
	}
}

// Stop closes every subscriber channel. Calling Stop more than once is a no-op.
func (broadcaster *Broadcaster[T]) Stop() {
	broadcaster.mu.Lock()
	defer broadcaster.mu.Unlock()

	if broadcaster.stopped {
		return
	}
	broadcaster.stopped = true
	for s := range broadcaster.subscribers {
		close(s)
	}
	clear(broadcaster.subscribers)
	logger.Debug("broadcaster stopped")
}

func (broadcaster *Broadcaster[T]) Subscribe() (chan T, error) {
	ch := make(chan T, 1)

	broadcaster.mu.Lock()
	defer broadcaster.mu.Unlock()

	if broadcaster.stopped {
		return nil, ErrBroadcasterStopped
	}
	broadcaster.subscribers[ch] = struct{}{}
	return ch, nil
}

func (broadcaster *Broadcaster[T]) Unsubscribe(subscriber chan T) {
	broadcaster.mu.Lock()
	defer broadcaster.mu.Unlock()

	if _, ok := broadcaster.subscribers[subscriber]; !ok {
		return
	}
	delete(broadcaster.subscribers, subscriber)
	close(subscriber)
}

func (broadcaster *Broadcaster[T]) Publish(msg T) {
	broadcaster.mu.Lock()
	defer broadcaster.mu.Unlock()

	for s := range broadcaster.subscribers {
		select {
		case s <- msg:
			continue
		default:
		}
		// full: drop the pending value in favour of the newest one
		select {
		case <-s:
		default:
		}
		select {
		case s <- msg:
		default:
		}
	}
}
