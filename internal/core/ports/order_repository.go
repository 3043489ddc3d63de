package ports

import (
	"context"

	"serviceorders/internal/core/domain/model/kernel"
	"serviceorders/internal/core/domain/model/order"
)

// OrderRepository is the only way the core reads or writes orders.
// Returned aggregates are snapshots: mutating one has no effect on storage
// until it is passed to Update and the surrounding unit of work commits.
type OrderRepository interface {
	// Add persists a new order. The order must not already exist.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists an order that went through exactly one transition since
	// it was loaded. The write succeeds only if the stored version is still
	// aggregate.Version()-1; otherwise it fails with errs.ErrVersionIsInvalid.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get returns the order with the given id or errs.ObjectNotFoundError.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetForUpdate is Get plus a storage-level lock held until the unit of work
	// ends. Backends without row locks rely on the version check in Update.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// ListByClient returns the client's orders, newest first.
	ListByClient(ctx context.Context, clientID string) ([]*order.Order, error)

	// ListByProfessional returns the professional's orders, newest first.
	ListByProfessional(ctx context.Context, professionalID string) ([]*order.Order, error)

	// ListByStatus returns every order currently in status, oldest first.
	ListByStatus(ctx context.Context, status order.Status) ([]*order.Order, error)
}
