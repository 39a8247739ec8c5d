// Package bus implements the broadcast point that fans file events out to
// subscribers with bounded, independent per-subscriber buffering.
package bus

import (
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/EdwardDiehl/file-indexer/internal/event"
)

// subscriberBuffer is the per-subscriber queue capacity. A publish to a
// subscriber whose buffer is full drops the event for that subscriber only;
// publishing never blocks the producer.
const subscriberBuffer = 128

// Bus broadcasts FileEvents to all active subscriptions.
//
// Concurrency model: a single internal event loop (goroutine) owns the
// subscriber table. Public methods communicate with this loop through
// channels, so no mutexes are required.
type Bus struct {
	subscribeCh   chan *Subscription
	unsubscribeCh chan uuid.UUID
	publishCh     chan event.FileEvent
	countReqCh    chan chan int

	stopCh  chan struct{}
	stopped chan struct{}
	closed  atomic.Bool
}

// Subscription is one attached consumer. Events arrive on C until Cancel is
// called or the bus is closed, at which point C is closed.
type Subscription struct {
	id        uuid.UUID
	ch        chan event.FileEvent
	bus       *Bus
	cancelled atomic.Bool
}

// C returns the receive side of the subscription.
func (s *Subscription) C() <-chan event.FileEvent { return s.ch }

// Cancel detaches the subscription and closes C. Events still buffered are
// abandoned. Cancel is idempotent and safe from any goroutine.
func (s *Subscription) Cancel() {
	if !s.cancelled.CompareAndSwap(false, true) {
		return
	}
	select {
	case s.bus.unsubscribeCh <- s.id:
	case <-s.bus.stopped:
		// Bus loop already exited and closed every subscriber channel.
	}
}

// New creates a Bus and starts its event loop.
func New() *Bus {
	b := &Bus{
		subscribeCh:   make(chan *Subscription),
		unsubscribeCh: make(chan uuid.UUID),
		publishCh:     make(chan event.FileEvent, 256),
		countReqCh:    make(chan chan int),
		stopCh:        make(chan struct{}),
		stopped:       make(chan struct{}),
	}
	go b.run()
	return b
}

func (b *Bus) run() {
	defer close(b.stopped)

	subs := make(map[uuid.UUID]chan event.FileEvent)

	for {
		select {
		case <-b.stopCh:
			for _, ch := range subs {
				close(ch)
			}
			return

		case sub := <-b.subscribeCh:
			subs[sub.id] = sub.ch

		case id := <-b.unsubscribeCh:
			if ch, ok := subs[id]; ok {
				delete(subs, id)
				close(ch)
				// Discard events still buffered for the cancelled subscriber.
				for range ch {
				}
			}

		case ev := <-b.publishCh:
			for _, ch := range subs {
				select {
				case ch <- ev:
				default:
					// Subscriber buffer full; drop so the producer never blocks.
				}
			}

		case resp := <-b.countReqCh:
			resp <- len(subs)
		}
	}
}

// Subscribe attaches a new subscription. A subscriber observes only events
// published after it attached; there is no replay. Subscribing to a closed
// bus returns a subscription whose channel is already closed.
func (b *Bus) Subscribe() *Subscription {
	sub := &Subscription{
		id:  uuid.New(),
		ch:  make(chan event.FileEvent, subscriberBuffer),
		bus: b,
	}

	if b.closed.Load() {
		sub.cancelled.Store(true)
		close(sub.ch)
		return sub
	}

	select {
	case b.subscribeCh <- sub:
	case <-b.stopped:
		sub.cancelled.Store(true)
		close(sub.ch)
	}
	return sub
}

// Publish broadcasts ev to every subscriber. Delivery to each subscriber is
// non-blocking; a full buffer drops the event for that subscriber.
func (b *Bus) Publish(ev event.FileEvent) {
	if b.closed.Load() {
		return
	}
	select {
	case b.publishCh <- ev:
	case <-b.stopped:
	}
}

// SubscriberCount returns the number of attached subscriptions.
func (b *Bus) SubscriberCount() int {
	if b.closed.Load() {
		return 0
	}

	resp := make(chan int, 1)
	select {
	case b.countReqCh <- resp:
	case <-b.stopped:
		return 0
	}

	select {
	case n := <-resp:
		return n
	case <-b.stopped:
		return 0
	}
}

// Close stops the event loop and closes every subscriber channel.
func (b *Bus) Close() {
	if b.closed.CompareAndSwap(false, true) {
		close(b.stopCh)
	}
	<-b.stopped
}
