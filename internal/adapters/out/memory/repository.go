package memory

import (
	"context"

	"serviceorders/internal/core/domain/model/kernel"
	"serviceorders/internal/core/domain/model/order"
	"serviceorders/internal/core/ports"
	"serviceorders/internal/pkg/errs"
)

var _ ports.OrderRepository = (*OrderRepository)(nil)

// OrderRepository reads from the store and writes either straight to it or,
// inside an active unit of work, to the unit's staging area.
type OrderRepository struct {
	store *Store
	uow   *UnitOfWork
}

// NewOrderRepository returns a repository that commits every write immediately.
func NewOrderRepository(store *Store) *OrderRepository {
	return &OrderRepository{store: store}
}

func (r *OrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	return r.write(ctx, aggregate, true)
}

func (r *OrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	return r.write(ctx, aggregate, false)
}

func (r *OrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if r.inTransaction() {
		if staged, ok := r.uow.staged(id.String()); ok {
			return staged, nil
		}
	}

	o, ok := r.store.get(id.String())
	if !ok {
		return nil, errs.NewObjectNotFoundError("orderId", id)
	}
	return o, nil
}

// GetForUpdate takes no lock of its own: callers hold the per-order lock and
// Commit re-checks the version.
func (r *OrderRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	return r.Get(ctx, id)
}

func (r *OrderRepository) ListByClient(ctx context.Context, clientID string) ([]*order.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.store.list(func(o *order.Order) bool { return o.ClientID() == clientID }, true), nil
}

func (r *OrderRepository) ListByProfessional(ctx context.Context, professionalID string) ([]*order.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.store.list(func(o *order.Order) bool { return o.ProfessionalID() == professionalID }, true), nil
}

func (r *OrderRepository) ListByStatus(ctx context.Context, status order.Status) ([]*order.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.store.list(func(o *order.Order) bool { return o.Status() == status }, false), nil
}

func (r *OrderRepository) write(ctx context.Context, aggregate *order.Order, isNew bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := aggregate.Validate(); err != nil {
		return err
	}

	if !r.inTransaction() {
		return r.store.apply([]write{{aggregate: aggregate, isNew: isNew}})
	}

	r.uow.stage(write{aggregate: aggregate.Clone(), isNew: isNew})
	r.uow.TrackAggregate(aggregate)
	return nil
}

func (r *OrderRepository) inTransaction() bool {
	return r.uow != nil && r.uow.active
}
