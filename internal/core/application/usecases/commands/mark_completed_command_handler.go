package commands

import (
	"context"
	"time"

	"serviceorders/internal/core/domain/model/order"
)

// MarkCompletedCommandHandler moves an InProgress order to Completed.
type MarkCompletedCommandHandler struct {
	runner *TransitionRunner
}

func NewMarkCompletedCommandHandler(runner *TransitionRunner) MarkCompletedCommandHandler {
	return MarkCompletedCommandHandler{runner: runner}
}

func (h MarkCompletedCommandHandler) Handle(ctx context.Context, cmd MarkCompletedCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	return h.runner.run(ctx, cmd.OrderID(), order.MarkCompleted, func(_ context.Context, o *order.Order, now time.Time) error {
		return o.MarkCompleted(now)
	})
}
