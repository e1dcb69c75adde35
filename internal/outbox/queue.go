// Package outbox buffers roster events in memory and delivers them to Kafka.
package outbox

import (
	"context"
	"sync"

	"example.com/signup/internal/events"
)

// Queue is a bounded FIFO of roster events. It implements domain.EventRecorder.
type Queue struct {
	mu       sync.Mutex
	capacity int
	pending  []events.RosterChanged
}

// NewQueue constructs a Queue holding at most capacity events.
func NewQueue(capacity int) *Queue {
	if capacity <= 0 {
		capacity = 1
	}
	return &Queue{capacity: capacity}
}

// Record enqueues the event without blocking. Events beyond capacity are dropped.
func (q *Queue) Record(ctx context.Context, event events.RosterChanged) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.pending) >= q.capacity {
		droppedCounter.Inc()
		return
	}
	q.pending = append(q.pending, event)
	queueDepthGauge.Set(float64(len(q.pending)))
}

// Claim removes and returns up to limit events from the head of the queue.
func (q *Queue) Claim(limit int) []events.RosterChanged {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.pending) == 0 {
		return nil
	}
	if limit <= 0 || limit > len(q.pending) {
		limit = len(q.pending)
	}
	out := make([]events.RosterChanged, limit)
	copy(out, q.pending[:limit])
	q.pending = q.pending[limit:]
	queueDepthGauge.Set(float64(len(q.pending)))
	return out
}

// Requeue puts claimed events back at the head of the queue in their original order.
// Capacity is not enforced since the events were already admitted once.
func (q *Queue) Requeue(batch []events.RosterChanged) {
	if len(batch) == 0 {
		return
	}
	q.mu.Lock()
	defer q.mu.Unlock()

	pending := make([]events.RosterChanged, 0, len(batch)+len(q.pending))
	pending = append(pending, batch...)
	q.pending = append(pending, q.pending...)
	queueDepthGauge.Set(float64(len(q.pending)))
}

// Len reports the number of queued events.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}
