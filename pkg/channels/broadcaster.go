package channels

import (
	"sort"
	"sync"
	"sync/atomic"
)

type subscriber[T any] struct {
	ch      chan T
	dropped atomic.Int32
}

// Broadcaster delivers published values to every current subscriber.
//
// Subscribers may come and go at any time. Delivery is non-blocking: a
// subscriber whose buffer is full misses the value and the drop is counted.
// Subscriber channels are only ever closed by the Broadcaster, under its lock,
// so Publish never races a close.
type Broadcaster[T any] struct {
	mu     sync.Mutex
	subs   map[uint64]*subscriber[T]
	nextID uint64
	closed bool
}

// NewBroadcaster creates an empty Broadcaster for values of type T.
func NewBroadcaster[T any]() *Broadcaster[T] {
	return &Broadcaster[T]{
		subs: make(map[uint64]*subscriber[T]),
	}
}

// Subscribe registers a new subscriber with the given buffer size and returns
// its receive channel plus a cancel func. Cancel is idempotent and closes the
// channel. Subscribing to a closed Broadcaster yields an already-closed channel.
func (b *Broadcaster[T]) Subscribe(buffer int) (<-chan T, func()) {
	if buffer < 0 {
		buffer = 0
	}

	ch := make(chan T, buffer)

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		close(ch)
		return ch, func() {}
	}

	id := b.nextID
	b.nextID++
	b.subs[id] = &subscriber[T]{ch: ch}

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()

			if sub, ok := b.subs[id]; ok {
				delete(b.subs, id)
				close(sub.ch)
			}
		})
	}

	return ch, cancel
}

// Publish sends msg to every subscriber without blocking and reports how many
// subscribers received it.
func (b *Broadcaster[T]) Publish(msg T) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	delivered := 0
	for _, sub := range b.subs {
		if err := SendNonBlock(sub.ch, msg); err != nil {
			sub.dropped.Add(1)
			continue
		}
		delivered++
	}

	return delivered
}

// Close closes every subscriber channel. Later Publish calls are no-ops.
func (b *Broadcaster[T]) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true

	for id, sub := range b.subs {
		close(sub.ch)
		delete(b.subs, id)
	}
}

// Len returns the number of active subscribers.
func (b *Broadcaster[T]) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return len(b.subs)
}

type SubscriberStats struct {
	Dropped int
}

// Stats returns per-subscriber drop counts in subscription order.
func (b *Broadcaster[T]) Stats() []SubscriberStats {
	b.mu.Lock()
	defer b.mu.Unlock()

	ids := make([]uint64, 0, len(b.subs))
	for id := range b.subs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	stats := make([]SubscriberStats, 0, len(ids))
	for _, id := range ids {
		stats = append(stats, SubscriberStats{Dropped: int(b.subs[id].dropped.Load())})
	}

	return stats
}
