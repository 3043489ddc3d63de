package ports

import (
	"context"

	"serviceorders/internal/core/domain/model/order"
)

// NotificationSink receives one event per committed status change.
// Errors are reported to the caller for logging only; they never undo a transition.
type NotificationSink interface {
	Publish(ctx context.Context, event order.LifecycleEvent) error
}
