package commands

import (
	"context"
	"time"

	"serviceorders/internal/core/domain/model/order"
)

// CancelOrderCommandHandler moves a Pending or Quoted order to Cancelled.
//
// Example:
//
//	cmd, _ := NewCancelOrderCommand(orderID, "changed mind")
//	err := handler.Handle(ctx, cmd)
//	if errors.Is(err, errs.ErrInvalidStateTransition) {
//	    // the order was already accepted, or is terminal
//	}
type CancelOrderCommandHandler struct {
	runner *TransitionRunner
}

func NewCancelOrderCommandHandler(runner *TransitionRunner) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{runner: runner}
}

func (h CancelOrderCommandHandler) Handle(ctx context.Context, cmd CancelOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	return h.runner.run(ctx, cmd.OrderID(), order.Cancel, func(_ context.Context, o *order.Order, now time.Time) error {
		return o.Cancel(cmd.Reason(), now)
	})
}
