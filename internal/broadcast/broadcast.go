package broadcast

import (
	"sync"
	"targetrange/internal/events"
)

const subscriberBuffer = 32

// Message is one server-sent event. Data is JSON encoded by the stream.
type Message struct {
	Event string
	Data  any
}

type Broadcaster struct {
	Mu      sync.Mutex
	Clients map[chan Message]bool
	closed  bool
	done    chan struct{}
}

// NewBroadcaster forwards every bus event to the subscribers until the bus
// is closed.
func NewBroadcaster(bus *events.Bus) *Broadcaster {
	b := &Broadcaster{
		Clients: make(map[chan Message]bool),
		done:    make(chan struct{}),
	}
	go func() {
		defer close(b.done)
		shots, hits := bus.Shots, bus.Hits
		for shots != nil || hits != nil {
			select {
			case ev, ok := <-shots:
				if !ok {
					shots = nil
					continue
				}
				b.Broadcast("shot", ev)
			case ev, ok := <-hits:
				if !ok {
					hits = nil
					continue
				}
				b.Broadcast("hit", ev)
			}
		}
	}()
	return b
}

// Done is closed once the bus has been drained.
func (b *Broadcaster) Done() <-chan struct{} {
	return b.done
}

// Subscribe registers a new subscriber. After CloseAll the returned channel
// is already closed.
func (b *Broadcaster) Subscribe() chan Message {
	ch := make(chan Message, subscriberBuffer)
	b.Mu.Lock()
	defer b.Mu.Unlock()
	if b.closed {
		close(ch)
		return ch
	}
	b.Clients[ch] = true
	return ch
}

func (b *Broadcaster) Unsubscribe(ch chan Message) {
	b.Mu.Lock()
	defer b.Mu.Unlock()
	if b.Clients[ch] {
		delete(b.Clients, ch)
		close(ch)
	}
}

// CloseAll ends every subscription, present and future.
func (b *Broadcaster) CloseAll() {
	b.Mu.Lock()
	defer b.Mu.Unlock()
	b.closed = true
	for ch := range b.Clients {
		delete(b.Clients, ch)
		close(ch)
	}
}

func (b *Broadcaster) Broadcast(event string, data any) {
	b.Mu.Lock()
	defer b.Mu.Unlock()
	for ch := range b.Clients {
		select {
		case ch <- Message{Event: event, Data: data}:
		default:
			// skip clients with full data channels
		}
	}
}
