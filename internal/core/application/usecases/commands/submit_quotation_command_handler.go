package commands

import (
	"context"
	"time"

	"serviceorders/internal/core/domain/model/order"
	"serviceorders/internal/core/domain/services"
)

// SubmitQuotationCommandHandler moves a Pending order to Quoted.
type SubmitQuotationCommandHandler struct {
	runner    *TransitionRunner
	quotation services.QuotationManager
}

func NewSubmitQuotationCommandHandler(runner *TransitionRunner) SubmitQuotationCommandHandler {
	return SubmitQuotationCommandHandler{runner: runner, quotation: services.NewQuotationManager()}
}

func (h SubmitQuotationCommandHandler) Handle(ctx context.Context, cmd SubmitQuotationCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	return h.runner.run(ctx, cmd.OrderID(), order.SubmitQuotation, func(_ context.Context, o *order.Order, now time.Time) error {
		q, err := h.quotation.Prepare(cmd.Amount(), cmd.Description(), cmd.EstimatedDuration(), now)
		if err != nil {
			return err
		}
		return o.SubmitQuotation(q)
	})
}
