package kmc

import "container/heap"

// EventHeap is the global minimum-selection structure described in §4.5
// and §9: a single priority queue ordered by (t_exec, particle_id, kind
// ordinal), adapted directly from the teacher's cluster/event_heap.go
// (timestamp → type priority → event ID).
type EventHeap struct {
	events []*Event
}

// NewEventHeap creates an empty, ready-to-use EventHeap.
func NewEventHeap() *EventHeap {
	h := &EventHeap{}
	heap.Init(h)
	return h
}

// Len implements heap.Interface.
func (h *EventHeap) Len() int { return len(h.events) }

// Less implements heap.Interface with the deterministic tie-break order
// required by §4.5 step 1: t_exec, then particle id, then kind ordinal.
func (h *EventHeap) Less(i, j int) bool {
	a, b := h.events[i], h.events[j]
	if a.TExec != b.TExec {
		return a.TExec < b.TExec
	}
	if a.Subject != b.Subject {
		return a.Subject < b.Subject
	}
	return a.Kind < b.Kind
}

// Swap implements heap.Interface.
func (h *EventHeap) Swap(i, j int) { h.events[i], h.events[j] = h.events[j], h.events[i] }

// Push implements heap.Interface.
func (h *EventHeap) Push(x interface{}) { h.events = append(h.events, x.(*Event)) }

// Pop implements heap.Interface.
func (h *EventHeap) Pop() interface{} {
	old := h.events
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	h.events = old[:n-1]
	return item
}

// Schedule adds an event to the heap.
func (h *EventHeap) Schedule(e *Event) { heap.Push(h, e) }

// PopNext removes and returns the globally minimum event, or nil if
// empty.
func (h *EventHeap) PopNext() *Event {
	if h.Len() == 0 {
		return nil
	}
	return heap.Pop(h).(*Event)
}

// Peek returns the minimum event without removing it, or nil if empty.
func (h *EventHeap) Peek() *Event {
	if h.Len() == 0 {
		return nil
	}
	return h.events[0]
}
