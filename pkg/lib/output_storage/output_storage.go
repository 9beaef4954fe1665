package output_storage

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
)

// DefaultLimit is the number of output bytes retained for replay when no limit is given.
const DefaultLimit = 1 << 20

var logger = slog.New(slog.NewTextHandler(io.Discard, nil))

// SetLogger replaces the package logger.
func SetLogger(l *slog.Logger) {
	if l != nil {
		logger = l.With("component", "output_storage")
	}
}

// node is one element of the singly linked chunk list.
// The node referenced by OutputStorage.head is a sentinel: its data has been
// trimmed (or never existed) and readers start from its successor.
type node struct {
	data []byte
	next atomic.Pointer[node]
}

// OutputStorage retains the most recent output chunks of one stream of a child process.
// Appends are serialized; readers traverse the list without locks. Once more than limit
// bytes are retained the oldest chunks are dropped, so a long-running backend does not
// grow the agent's memory without bound. The newest chunk is always kept.
type OutputStorage struct {
	mu    sync.Mutex
	head  atomic.Pointer[node]
	tail  *node
	size  int
	limit int

	closed      atomic.Bool
	broadcaster *Broadcaster[struct{}]
}

// NewOutputStorage creates an empty storage that retains up to limit bytes.
// A non-positive limit selects DefaultLimit.
func NewOutputStorage(limit int) *OutputStorage {
	if limit <= 0 {
		limit = DefaultLimit
	}

	sentinel := &node{}
	s := &OutputStorage{
		tail:        sentinel,
		limit:       limit,
		broadcaster: NewBroadcaster[struct{}](),
	}
	s.head.Store(sentinel)

	return s
}

// Close marks the stream as finished. Subscribers drain what is retained and then
// see their channel closed.
func (s *OutputStorage) Close() {
	if s == nil {
		return
	}
	if s.closed.Swap(true) {
		return
	}

	s.broadcaster.Stop()
}

// Closed reports whether Close has been called.
func (s *OutputStorage) Closed() bool {
	return s != nil && s.closed.Load()
}

// Append adds data to the end of the list. The slice is stored as-is.
func (s *OutputStorage) Append(data []byte) {
	if s == nil {
		return
	}

	s.mu.Lock()
	n := &node{data: data}
	s.tail.next.Store(n)
	s.tail = n
	s.size += len(data)

	for s.size > s.limit {
		head := s.head.Load()
		oldest := head.next.Load()
		if oldest == nil || oldest == s.tail {
			break
		}
		s.size -= len(oldest.data)
		s.head.Store(oldest)
	}
	s.mu.Unlock()

	s.broadcaster.Publish(struct{}{})
}

// Size returns the number of bytes currently retained.
func (s *OutputStorage) Size() int {
	if s == nil {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.size
}

// Subscribe returns a channel that first replays the retained chunks and then follows
// new ones until the storage is closed or ctx is cancelled, at which point the channel
// is closed.
func (s *OutputStorage) Subscribe(ctx context.Context, capacity int) <-chan []byte {
	ch := make(chan []byte, capacity)
	if s == nil {
		close(ch)
		return ch
	}

	// Subscribe before taking the starting position so no append is missed.
	notifier, err := s.broadcaster.Subscribe()
	if err != nil {
		notifier = nil
	}
	start := s.head.Load()

	go s.follow(ctx, start, notifier, ch)

	return ch
}

func (s *OutputStorage) follow(ctx context.Context, prev *node, notifier chan struct{}, ch chan<- []byte) {
	defer close(ch)
	if notifier != nil {
		defer s.broadcaster.Unsubscribe(notifier)
	}

	for {
		current := prev.next.Load()
		if current == nil {
			if notifier == nil {
				return
			}
			select {
			case _, ok := <-notifier:
				if !ok {
					// stopped; one more pass picks up the final appends
					notifier = nil
				}
			case <-ctx.Done():
				return
			}
			continue
		}

		select {
		case ch <- current.data:
		case <-ctx.Done():
			return
		}
		prev = current
	}
}

// ForEach iterates over all retained byte slices in insertion order.
// The iterator function receives each slice; if it returns false, iteration stops early.
func (s *OutputStorage) ForEach(iter func([]byte) bool) {
	if s == nil || iter == nil {
		return
	}
	cur := s.head.Load().next.Load()
	for cur != nil {
		if !iter(cur.data) {
			return
		}
		cur = cur.next.Load()
	}
}

// Bytes concatenates all retained byte slices into a single slice.
func (s *OutputStorage) Bytes() []byte {
	var out []byte
	s.ForEach(func(b []byte) bool {
		out = append(out, b...)
		return true
	})
	return out
}

// String returns all retained byte slices concatenated into a single string.
func (s *OutputStorage) String() string {
	return string(s.Bytes())
}
