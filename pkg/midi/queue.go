package midi

import (
	"sort"
	"sync"
)

// EventQueue accumulates events and hands them out ordered by sample
// offset. The legacy bridge stashes plugin-to-host events in one until the
// audio call returns, since the host only accepts them during processing.
// The zero value is ready to use.
type EventQueue struct {
	mu     sync.Mutex
	events []Event
	sorted bool
}

func NewEventQueue() *EventQueue {
	return &EventQueue{
		events: make([]Event, 0, 128),
		sorted: true,
	}
}

func (q *EventQueue) Add(event Event) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.events = append(q.events, event)
	q.sorted = false
}

func (q *EventQueue) AddMultiple(events []Event) {
	if len(events) == 0 {
		return
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	q.events = append(q.events, events...)
	q.sorted = false
}

// Drain returns all queued events ordered by sample offset and empties the
// queue.
func (q *EventQueue) Drain() []Event {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.events) == 0 {
		return nil
	}
	q.sortLocked()
	out := make([]Event, len(q.events))
	copy(out, q.events)
	q.events = q.events[:0]
	q.sorted = true
	return out
}

func (q *EventQueue) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.events)
}

func (q *EventQueue) sortLocked() {
	if q.sorted {
		return
	}
	sort.SliceStable(q.events, func(i, j int) bool {
		return q.events[i].SampleOffset() < q.events[j].SampleOffset()
	})
	q.sorted = true
}
