package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"serviceorders/internal/core/domain/model/kernel"
	"serviceorders/internal/core/domain/model/order"
	"serviceorders/internal/core/ports"
)

// applyFunc builds the operation's sub-record and applies it to o. It runs only
// after the status check passed and must not mutate o on failure.
type applyFunc func(ctx context.Context, o *order.Order, now time.Time) error

// TransitionRunner executes one lifecycle transition as a single
// read-validate-write sequence:
//
//  1. take the per-order lock
//  2. begin a unit of work and load the order with GetForUpdate
//  3. reject the operation if the current status does not allow it
//  4. let the operation validate its input and apply itself to the aggregate
//  5. update and commit
//  6. publish the lifecycle events of every tracked aggregate
//
// A second caller racing on the same order waits at step 1 and then sees the
// committed status at step 3.
type TransitionRunner struct {
	uowFactory OrderUoWFactory
	locker     OrderLocker
	publisher  EventPublisher
	now        func() time.Time
}

func NewTransitionRunner(
	uowFactory OrderUoWFactory,
	locker OrderLocker,
	sink ports.NotificationSink,
	now func() time.Time,
	logger *slog.Logger,
) *TransitionRunner {
	if now == nil {
		now = time.Now
	}
	return &TransitionRunner{
		uowFactory: uowFactory,
		locker:     locker,
		publisher:  NewEventPublisher(sink, logger),
		now:        now,
	}
}

func (r *TransitionRunner) run(ctx context.Context, orderID kernel.UUID, op order.Operation, apply applyFunc) error {
	unlock, err := r.locker.Lock(ctx, orderID.String())
	if err != nil {
		return fmt.Errorf("%s order %s: acquire lock: %w", op, orderID, err)
	}
	defer unlock()

	uow := r.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.OrderRepository()
	o, err := repo.GetForUpdate(ctx, orderID)
	if err != nil {
		return err
	}

	if err = o.CheckCanApply(op); err != nil {
		return err
	}

	if err = apply(ctx, o, r.now()); err != nil {
		return fmt.Errorf("%s order %s in status %s: %w", op, orderID, o.Status(), err)
	}

	if err = repo.Update(ctx, o); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	r.publisher.PublishTracked(ctx, uow)
	return nil
}
