// Package queue holds the FIFO operation queue a Processor drains.
package queue

import (
	"fmt"

	"github.com/fsynth-go/fsynth/pkg/fsynth/operation"
)

// Queue is a first-in-first-out list of operations, preserving
// insertion order and offering 1-based indexed access and removal for
// callers inspecting or editing a batch before it runs.
type Queue struct {
	items []operation.Operation
}

// New returns an empty queue.
func New() *Queue {
	return &Queue{}
}

// Enqueue appends op to the back of the queue.
func (q *Queue) Enqueue(op operation.Operation) {
	q.items = append(q.items, op)
}

// Dequeue removes and returns the operation at the front of the
// queue. The second return value is false if the queue is empty.
func (q *Queue) Dequeue() (operation.Operation, bool) {
	if len(q.items) == 0 {
		return nil, false
	}
	op := q.items[0]
	q.items = q.items[1:]
	return op, true
}

// Peek returns the operation at the front of the queue without
// removing it.
func (q *Queue) Peek() (operation.Operation, bool) {
	if len(q.items) == 0 {
		return nil, false
	}
	return q.items[0], true
}

// IsEmpty reports whether the queue has no operations left.
func (q *Queue) IsEmpty() bool {
	return len(q.items) == 0
}

// Size returns the number of operations currently queued.
func (q *Queue) Size() int {
	return len(q.items)
}

// Clear removes every queued operation.
func (q *Queue) Clear() {
	q.items = nil
}

// At returns the operation at 1-based position n.
func (q *Queue) At(n int) (operation.Operation, error) {
	if n < 1 || n > len(q.items) {
		return nil, fmt.Errorf("queue: index %d out of range (size %d)", n, len(q.items))
	}
	return q.items[n-1], nil
}

// RemoveAt removes and returns the operation at 1-based position n,
// shifting later operations down to fill the gap.
func (q *Queue) RemoveAt(n int) (operation.Operation, error) {
	if n < 1 || n > len(q.items) {
		return nil, fmt.Errorf("queue: index %d out of range (size %d)", n, len(q.items))
	}
	op := q.items[n-1]
	q.items = append(q.items[:n-1], q.items[n:]...)
	return op, nil
}

// All returns a copy of the operations currently queued, in order.
func (q *Queue) All() []operation.Operation {
	out := make([]operation.Operation, len(q.items))
	copy(out, q.items)
	return out
}
