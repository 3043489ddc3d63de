package memory

import (
	"context"
	"errors"

	"serviceorders/internal/core/domain/model/order"
	"serviceorders/internal/core/ports"
)

// ErrNoActiveTransaction is returned by Commit and Rollback outside Begin.
var ErrNoActiveTransaction = errors.New("no active transaction")

// UnitOfWorkFactory creates units of work over one Store.
type UnitOfWorkFactory struct {
	store *Store
}

func NewUnitOfWorkFactory(store *Store) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{store: store}
}

func (f *UnitOfWorkFactory) Create() ports.UnitOfWork {
	return &UnitOfWork{store: f.store}
}

// UnitOfWork stages writes until Commit. It is used by one goroutine at a time.
type UnitOfWork struct {
	store   *Store
	active  bool
	writes  []write
	tracked []*order.Order
}

// Begin is a no-op when a transaction is already active.
func (u *UnitOfWork) Begin(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if u.active {
		return nil
	}
	u.active = true
	u.writes = nil
	return nil
}

func (u *UnitOfWork) Commit(_ context.Context) error {
	if !u.active {
		return ErrNoActiveTransaction
	}
	err := u.store.apply(u.writes)
	u.active = false
	u.writes = nil
	return err
}

func (u *UnitOfWork) Rollback(_ context.Context) error {
	if !u.active {
		return ErrNoActiveTransaction
	}
	u.active = false
	u.writes = nil
	return nil
}

func (u *UnitOfWork) OrderRepository() ports.OrderRepository {
	return &OrderRepository{store: u.store, uow: u}
}

func (u *UnitOfWork) TrackAggregate(aggregate *order.Order) {
	u.tracked = append(u.tracked, aggregate)
}

func (u *UnitOfWork) TrackedAggregates() []*order.Order {
	return append([]*order.Order(nil), u.tracked...)
}

func (u *UnitOfWork) stage(w write) {
	for i, existing := range u.writes {
		if existing.aggregate.ID().IsEqual(w.aggregate.ID()) {
			w.isNew = w.isNew || existing.isNew
			u.writes[i] = w
			return
		}
	}
	u.writes = append(u.writes, w)
}

// staged returns a copy of the latest staged write for id.
func (u *UnitOfWork) staged(id string) (*order.Order, bool) {
	for _, w := range u.writes {
		if w.aggregate.ID().String() == id {
			return w.aggregate.Clone(), true
		}
	}
	return nil, false
}
