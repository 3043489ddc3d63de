package commands

import (
	"context"
	"time"

	"serviceorders/internal/core/domain/model/order"
	"serviceorders/internal/core/domain/services"
)

// ProcessPaymentCommandHandler moves a Completed order to Paid.
//
// The request is validated against the quotation before the gateway is called.
// A decline or a gateway timeout returns errs.PaymentFailureError and the
// order stays Completed.
type ProcessPaymentCommandHandler struct {
	runner    *TransitionRunner
	processor services.PaymentProcessor
}

func NewProcessPaymentCommandHandler(
	runner *TransitionRunner, processor services.PaymentProcessor,
) ProcessPaymentCommandHandler {
	return ProcessPaymentCommandHandler{runner: runner, processor: processor}
}

// Handle returns the gateway transaction id of the recorded payment.
func (h ProcessPaymentCommandHandler) Handle(ctx context.Context, cmd ProcessPaymentCommand) (string, error) {
	if err := cmd.Validate(); err != nil {
		return "", err
	}

	var transactionID string
	err := h.runner.run(ctx, cmd.OrderID(), order.ProcessPayment, func(ctx context.Context, o *order.Order, now time.Time) error {
		req, err := h.processor.Prepare(o, cmd.Method(), cmd.Amount())
		if err != nil {
			return err
		}

		payment, err := h.processor.Charge(ctx, o, req, now)
		if err != nil {
			return err
		}

		if err = o.RecordPayment(payment); err != nil {
			return err
		}
		transactionID = payment.TransactionID()
		return nil
	})
	if err != nil {
		return "", err
	}
	return transactionID, nil
}
