package commands

import (
	"context"
	"log/slog"

	"serviceorders/internal/core/domain/model/order"
	"serviceorders/internal/core/ports"
)

// AggregateSource exposes the aggregates written during a unit of work.
type AggregateSource interface {
	TrackedAggregates() []*order.Order
}

// EventPublisher forwards lifecycle events of committed aggregates to the
// notification sink. Sink failures are logged and swallowed: the transition is
// already durable.
type EventPublisher struct {
	sink   ports.NotificationSink
	logger *slog.Logger
}

func NewEventPublisher(sink ports.NotificationSink, logger *slog.Logger) EventPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return EventPublisher{sink: sink, logger: logger.With("component", "event_publisher")}
}

// PublishTracked drains the events of every aggregate tracked by uow.
func (p EventPublisher) PublishTracked(ctx context.Context, uow AggregateSource) {
	for _, aggregate := range uow.TrackedAggregates() {
		for _, event := range aggregate.PullEvents() {
			if p.sink == nil {
				continue
			}
			if err := p.sink.Publish(ctx, event); err != nil {
				p.logger.WarnContext(ctx, "Lifecycle notification failed",
					"order_id", event.OrderID.String(),
					"old_status", event.OldStatus.String(),
					"new_status", event.NewStatus.String(),
					"error", err)
			}
		}
	}
}
