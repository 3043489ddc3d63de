// Package notifications contains NotificationSink adapters. Sinks are composed
// with FanOut, so a single lifecycle event can be logged, counted and handed
// to the follow-up scheduler.
package notifications

import (
	"context"
	"errors"
	"log/slog"

	"serviceorders/internal/core/domain/model/order"
	"serviceorders/internal/core/ports"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	_ ports.NotificationSink = (*LogSink)(nil)
	_ ports.NotificationSink = (*MetricsSink)(nil)
	_ ports.NotificationSink = FanOut(nil)
)

// LogSink writes every lifecycle event to the structured log.
type LogSink struct {
	logger *slog.Logger
}

func NewLogSink(logger *slog.Logger) *LogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSink{logger: logger.With("component", "lifecycle_notifications")}
}

func (s *LogSink) Publish(ctx context.Context, e order.LifecycleEvent) error {
	s.logger.InfoContext(ctx, "Order status changed",
		"order_id", e.OrderID.String(),
		"old_status", e.OldStatus.String(),
		"new_status", e.NewStatus.String(),
		"timestamp", e.Timestamp,
		"note", e.Note)
	return nil
}

// MetricsSink counts transitions by source and target status.
type MetricsSink struct {
	transitions *prometheus.CounterVec
}

// NewMetricsSink registers the serviceorders_order_transitions_total counter
// with reg.
func NewMetricsSink(reg prometheus.Registerer) (*MetricsSink, error) {
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "serviceorders",
		Name:      "order_transitions_total",
		Help:      "Committed order status transitions.",
	}, []string{"from", "to"})

	if err := reg.Register(transitions); err != nil {
		var already prometheus.AlreadyRegisteredError
		if !errors.As(err, &already) {
			return nil, err
		}
		existing, ok := already.ExistingCollector.(*prometheus.CounterVec)
		if !ok {
			return nil, err
		}
		transitions = existing
	}
	return &MetricsSink{transitions: transitions}, nil
}

func (s *MetricsSink) Publish(_ context.Context, e order.LifecycleEvent) error {
	from := "NONE"
	if e.OldStatus != order.Unknown {
		from = e.OldStatus.String()
	}
	s.transitions.WithLabelValues(from, e.NewStatus.String()).Inc()
	return nil
}

// FanOut publishes each event to every sink in order. All sinks are called
// even if some fail; their errors are joined.
type FanOut []ports.NotificationSink

func (f FanOut) Publish(ctx context.Context, e order.LifecycleEvent) error {
	var errs []error
	for _, sink := range f {
		if sink == nil {
			continue
		}
		if err := sink.Publish(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
