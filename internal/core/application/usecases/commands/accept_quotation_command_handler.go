package commands

import (
	"context"
	"time"

	"serviceorders/internal/core/domain/model/order"
)

// AcceptQuotationCommandHandler moves a Quoted order to Accepted and stamps the quotation's acceptance time.
type AcceptQuotationCommandHandler struct {
	runner *TransitionRunner
}

func NewAcceptQuotationCommandHandler(runner *TransitionRunner) AcceptQuotationCommandHandler {
	return AcceptQuotationCommandHandler{runner: runner}
}

func (h AcceptQuotationCommandHandler) Handle(ctx context.Context, cmd AcceptQuotationCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	return h.runner.run(ctx, cmd.OrderID(), order.AcceptQuotation, func(_ context.Context, o *order.Order, now time.Time) error {
		return o.AcceptQuotation(now)
	})
}
