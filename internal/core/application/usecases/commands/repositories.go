// Package commands contains the write side of the service order engine: one
// command and one handler per lifecycle operation. Handlers are the only code
// that persists status changes.
package commands

import (
	"context"

	"serviceorders/internal/core/domain/model/order"
	"serviceorders/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
type (
	// TxManager handles the transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides access to the order repository within a transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// OrderUoW manages transactions for order operations and exposes the
	// aggregates written through it.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   o, err := uow.OrderRepository().GetForUpdate(ctx, id)
	//   // ... apply one transition
	//   err = uow.OrderRepository().Update(ctx, o)
	//
	//   err = uow.Commit(ctx)
	//   for _, a := range uow.TrackedAggregates() { publish(a.PullEvents()) }
	OrderUoW interface {
		TxManager
		OrderRepoFactory
		TrackedAggregates() []*order.Order
	}

	// OrderUoWFactory creates new order unit of work instances.
	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// OrderLocker serializes transitions of the same order within the process.
	// Lock returns the release function or ctx's error.
	OrderLocker interface {
		Lock(ctx context.Context, key string) (func(), error)
	}
)

// UoWFactoryAdapter narrows a ports.UnitOfWorkFactory to OrderUoWFactory.
type UoWFactoryAdapter struct {
	Factory ports.UnitOfWorkFactory
}

func (a UoWFactoryAdapter) Create() OrderUoW {
	return a.Factory.Create()
}
