package jobs

import (
	"container/heap"
	"context"
	"sync"
	"time"

	"serviceorders/internal/core/domain/model/kernel"
	"serviceorders/internal/core/domain/model/order"
	"serviceorders/internal/core/ports"
)

var _ ports.NotificationSink = (*FollowUpScheduler)(nil)

// FollowUp is a transition to attempt on an order once Due has passed.
type FollowUp struct {
	OrderID   kernel.UUID
	Operation order.Operation
	Due       time.Time
}

// FollowUpScheduler turns lifecycle events into timed follow-ups. A zero delay
// disables the corresponding follow-up.
type FollowUpScheduler struct {
	startAfter    time.Duration
	completeAfter time.Duration

	mu    sync.Mutex
	queue followUpQueue
}

func NewFollowUpScheduler(startAfter, completeAfter time.Duration) *FollowUpScheduler {
	return &FollowUpScheduler{
		startAfter:    startAfter,
		completeAfter: completeAfter,
	}
}

// Publish schedules the follow-up implied by the event, if any.
func (s *FollowUpScheduler) Publish(_ context.Context, e order.LifecycleEvent) error {
	switch {
	case e.NewStatus == order.Accepted && s.startAfter > 0:
		s.Schedule(FollowUp{OrderID: e.OrderID, Operation: order.MarkInProgress, Due: e.Timestamp.Add(s.startAfter)})
	case e.NewStatus == order.InProgress && s.completeAfter > 0:
		s.Schedule(FollowUp{OrderID: e.OrderID, Operation: order.MarkCompleted, Due: e.Timestamp.Add(s.completeAfter)})
	}
	return nil
}

func (s *FollowUpScheduler) Schedule(f FollowUp) {
	s.mu.Lock()
	defer s.mu.Unlock()
	heap.Push(&s.queue, f)
}

// PopDue removes and returns every follow-up due at or before now, earliest first.
func (s *FollowUpScheduler) PopDue(now time.Time) []FollowUp {
	s.mu.Lock()
	defer s.mu.Unlock()

	var due []FollowUp
	for len(s.queue) > 0 && !s.queue[0].Due.After(now) {
		due = append(due, heap.Pop(&s.queue).(FollowUp))
	}
	return due
}

func (s *FollowUpScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

// followUpQueue is a min-heap on Due.
type followUpQueue []FollowUp

func (q followUpQueue) Len() int           { return len(q) }
func (q followUpQueue) Less(i, j int) bool { return q[i].Due.Before(q[j].Due) }
func (q followUpQueue) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }

func (q *followUpQueue) Push(x any) {
	*q = append(*q, x.(FollowUp))
}

func (q *followUpQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}
