// Package events provides the per-actor notification bus.
//
// Every character owns one Bus. Listeners are keyed by Kind and receive the
// fixed payload type registered for that kind. Delivery is synchronous, in
// descending priority with ties kept in subscription order, and runs over a
// snapshot of the listener list taken when Emit is called. A listener added or
// removed while an emission is in flight takes effect from the next emission.
//
// The bus is not a fault boundary: a listener that panics unwinds through Emit
// into the emitter's caller.
package events

import (
	"sort"
	"sync"
)

// Event is implemented by every payload that travels on a Bus
type Event interface {
	Kind() Kind
}

// Handler receives an event delivered by a Bus
type Handler func(Event)

// Unsubscribe removes a subscription. Calling it more than once is a no-op.
type Unsubscribe func()

// Priorities used by the engine. Higher runs first.
const (
	PriorityDefault  = 0
	PriorityReactive = 100
)

type listener struct {
	id       uint64
	priority int
	handler  Handler
}

// Bus is a synchronous publish/subscribe channel owned by a single actor
type Bus struct {
	mu        sync.Mutex
	nextID    uint64
	listeners map[Kind][]listener
}

// NewBus creates an empty bus
func NewBus() *Bus {
	return &Bus{
		listeners: make(map[Kind][]listener),
	}
}

// Subscribe registers handler for kind at the given priority
func (b *Bus) Subscribe(kind Kind, priority int, handler Handler) Unsubscribe {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	l := listener{id: b.nextID, priority: priority, handler: handler}

	current := b.listeners[kind]
	// insert after every listener with priority >= p to keep ties stable
	idx := sort.Search(len(current), func(i int) bool {
		return current[i].priority < priority
	})

	next := make([]listener, 0, len(current)+1)
	next = append(next, current[:idx]...)
	next = append(next, l)
	next = append(next, current[idx:]...)
	b.listeners[kind] = next

	var once sync.Once
	return func() {
		once.Do(func() { b.remove(kind, l.id) })
	}
}

func (b *Bus) remove(kind Kind, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	current := b.listeners[kind]
	for i, l := range current {
		if l.id != id {
			continue
		}
		next := make([]listener, 0, len(current)-1)
		next = append(next, current[:i]...)
		next = append(next, current[i+1:]...)
		if len(next) == 0 {
			delete(b.listeners, kind)
		} else {
			b.listeners[kind] = next
		}
		return
	}
}

// Emit delivers e to every listener of e.Kind()
func (b *Bus) Emit(e Event) {
	b.mu.Lock()
	snapshot := make([]listener, len(b.listeners[e.Kind()]))
	copy(snapshot, b.listeners[e.Kind()])
	b.mu.Unlock()

	for _, l := range snapshot {
		l.handler(e)
	}
}

// Len returns the number of listeners registered for kind
func (b *Bus) Len(kind Kind) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.listeners[kind])
}

// Total returns the number of listeners across every kind
func (b *Bus) Total() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := 0
	for _, ls := range b.listeners {
		n += len(ls)
	}
	return n
}

// Clear removes every subscription
func (b *Bus) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners = make(map[Kind][]listener)
}

// On subscribes fn to the kind carried by E. The handler only sees payloads
// of type E; anything else emitted under the same kind is ignored.
func On[E Event](b *Bus, priority int, fn func(E)) Unsubscribe {
	var zero E
	return b.Subscribe(zero.Kind(), priority, func(e Event) {
		if typed, ok := e.(E); ok {
			fn(typed)
		}
	})
}
