package commands

import (
	"context"
	"time"

	"serviceorders/internal/core/domain/model/order"
)

// MarkInProgressCommandHandler moves an Accepted order to InProgress. The follow-up scheduler fires it too.
type MarkInProgressCommandHandler struct {
	runner *TransitionRunner
}

func NewMarkInProgressCommandHandler(runner *TransitionRunner) MarkInProgressCommandHandler {
	return MarkInProgressCommandHandler{runner: runner}
}

func (h MarkInProgressCommandHandler) Handle(ctx context.Context, cmd MarkInProgressCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	return h.runner.run(ctx, cmd.OrderID(), order.MarkInProgress, func(_ context.Context, o *order.Order, now time.Time) error {
		return o.MarkInProgress(now)
	})
}
