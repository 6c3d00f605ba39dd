package desim

import (
	"container/heap"
	"sort"
)

// EventHeap is a min-priority structure over pending Events, keyed by the
// ordering key from spec.md §3. It is not safe for concurrent use; the
// Simulator that owns a heap is the only thing that touches it, from the
// single goroutine that runs the run loop.
type EventHeap struct {
	events rawEventHeap
}

// NewEventHeap creates an empty EventHeap.
func NewEventHeap() *EventHeap {
	h := &EventHeap{events: make(rawEventHeap, 0)}
	heap.Init(&h.events)

	return h
}

// Push inserts an event. O(log n).
func (h *EventHeap) Push(e *Event) {
	heap.Push(&h.events, e)
}

// Peek returns the minimum event without removing it, or nil if the heap is
// empty.
func (h *EventHeap) Peek() *Event {
	if len(h.events) == 0 {
		return nil
	}

	return h.events[0]
}

// IsEmpty reports whether the heap holds no events.
func (h *EventHeap) IsEmpty() bool {
	return len(h.events) == 0
}

// Len returns the number of pending events.
func (h *EventHeap) Len() int {
	return len(h.events)
}

// PopFrontier pops and returns every event tied with the current minimum on
// (receive_time, receiver) — the set a single Dispatcher invocation handles
// together. It is returned already ordered by the remaining ordering-key
// fields (sender priority, sender name, sequence number), since that's the
// order Dispatcher needs whether or not a batch handler is installed.
func (h *EventHeap) PopFrontier() []*Event {
	if h.IsEmpty() {
		return nil
	}

	first := heap.Pop(&h.events).(*Event)
	frontier := []*Event{first}

	for len(h.events) > 0 && h.events[0].sameFrontier(first) {
		frontier = append(frontier, heap.Pop(&h.events).(*Event))
	}

	sort.SliceStable(frontier, func(i, j int) bool {
		return senderOrderLess(frontier[i], frontier[j])
	})

	return frontier
}

// senderOrderLess implements the within-frontier tiebreak from spec.md §5:
// (sender.priority_key, sender.name, sequence_number).
func senderOrderLess(a, b *Event) bool {
	pa, pb := senderPriority(a), senderPriority(b)
	if pa != pb {
		return pa < pb
	}

	na, nb := senderName(a), senderName(b)
	if na != nb {
		return na < nb
	}

	return a.sequenceNumber < b.sequenceNumber
}

func senderPriority(e *Event) int {
	if e.sender == nil {
		return 0
	}

	return e.sender.priorityKey
}

func senderName(e *Event) string {
	if e.sender == nil {
		return ""
	}

	return e.sender.name
}

// Snapshot returns every pending event, sorted by the ordering key, without
// removing them from the heap. Used to implement Simulator.SnapshotHeap.
func (h *EventHeap) Snapshot() []*Event {
	out := make([]*Event, len(h.events))
	copy(out, h.events)

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].less(out[j])
	})

	return out
}

type rawEventHeap []*Event

func (h rawEventHeap) Len() int { return len(h) }

func (h rawEventHeap) Less(i, j int) bool { return h[i].less(h[j]) }

func (h rawEventHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *rawEventHeap) Push(x interface{}) {
	*h = append(*h, x.(*Event))
}

func (h *rawEventHeap) Pop() interface{} {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]

	return e
}
