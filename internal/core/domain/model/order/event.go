package order

import (
	"time"

	"serviceorders/internal/core/domain/model/kernel"
)

// LifecycleEvent describes one committed status change. OldStatus is Unknown
// for the creation event.
type LifecycleEvent struct {
	OrderID   kernel.UUID
	OldStatus Status
	NewStatus Status
	Timestamp time.Time
	Note      string
}
