package ports

import (
	"context"

	"serviceorders/internal/core/domain/model/order"
)

// UnitOfWorkFactory creates a fresh UnitOfWork for each command.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// AggregateTracker records aggregates written during a unit of work so their
// lifecycle events can be published once the transaction commits.
type AggregateTracker interface {
	TrackAggregate(aggregate *order.Order)
}

// UnitOfWork represents a business transaction boundary.
// Client code must explicitly manage transaction lifecycle.
type UnitOfWork interface {
	// Begin starts a new transaction.
	Begin(ctx context.Context) error

	// Commit makes every write since Begin visible at once.
	Commit(ctx context.Context) error

	// Rollback discards the pending writes. It is safe to call after Commit.
	Rollback(ctx context.Context) error

	// OrderRepository returns a repository bound to the current transaction.
	OrderRepository() OrderRepository

	// TrackedAggregates returns the aggregates added or updated through this
	// unit of work, in write order.
	TrackedAggregates() []*order.Order
}
