package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"serviceorders/internal/core/domain/model/order"
	"serviceorders/internal/core/ports"
	"serviceorders/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// DefaultPaymentTimeout bounds a single gateway call when none is configured.
const DefaultPaymentTimeout = 5 * time.Second

// PaymentProcessor validates a payment request against the order's quotation
// and charges it through a PaymentGateway.
//
// Business rules:
//   - Amount must be greater than zero
//   - Method must be one of card, cash, transfer, wallet
//   - Amount must equal the accepted quotation amount
//   - The gateway call is bounded by the configured timeout
//   - A decline, a gateway error or a timeout is a PaymentFailureError
//
// Example usage:
//
//	processor := NewPaymentProcessor(gateway, 5*time.Second)
//	req, err := processor.Prepare(o, "card", decimal.NewFromInt(3500))
//	if err != nil {
//	    return err // ValidationError, nothing charged
//	}
//	payment, err := processor.Charge(ctx, o, req, time.Now())
type PaymentProcessor struct {
	gateway ports.PaymentGateway
	timeout time.Duration
}

func NewPaymentProcessor(gateway ports.PaymentGateway, timeout time.Duration) PaymentProcessor {
	if timeout <= 0 {
		timeout = DefaultPaymentTimeout
	}
	return PaymentProcessor{gateway: gateway, timeout: timeout}
}

// PaymentRequest is a validated, not yet charged, payment.
type PaymentRequest struct {
	Method order.PaymentMethod
	Amount decimal.Decimal
}

// Prepare checks the request against o's quotation without calling the gateway.
func (p PaymentProcessor) Prepare(o *order.Order, method string, amount decimal.Decimal) (PaymentRequest, error) {
	var problems []error

	m, err := order.ParsePaymentMethod(method)
	if err != nil {
		problems = append(problems, err)
	}
	if !amount.IsPositive() {
		problems = append(problems, errs.NewValueIsOutOfRangeError("payment amount", amount.String(), "> 0", "unbounded"))
	} else if q, ok := o.Quotation(); !ok {
		problems = append(problems, errs.NewValueIsRequiredError("quotation"))
	} else if !amount.Equal(q.Amount()) {
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause("payment amount",
			fmt.Errorf("%s does not match the quoted %s", amount.String(), q.Amount().String())))
	}

	if err := errors.Join(problems...); err != nil {
		return PaymentRequest{}, err
	}
	return PaymentRequest{Method: m, Amount: amount}, nil
}

// Charge calls the gateway and returns the payment record to attach to o.
// It does not modify o.
func (p PaymentProcessor) Charge(ctx context.Context, o *order.Order, req PaymentRequest, now time.Time) (order.Payment, error) {
	orderID := o.ID().String()

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	result, err := p.gateway.Charge(ctx, ports.ChargeRequest{
		OrderID:     o.ID(),
		ClientID:    o.ClientID(),
		Amount:      req.Amount,
		Method:      req.Method,
		Description: o.Description(),
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return order.Payment{}, errs.NewPaymentFailureErrorWithCause(orderID,
				fmt.Sprintf("gateway did not answer within %s", p.timeout), err)
		}
		return order.Payment{}, errs.NewPaymentFailureErrorWithCause(orderID, "gateway error", err)
	}
	if !result.Approved {
		reason := result.DeclineReason
		if reason == "" {
			reason = "declined"
		}
		return order.Payment{}, errs.NewPaymentFailureError(orderID, reason)
	}

	payment, err := order.NewPayment(req.Method, req.Amount, now, result.TransactionID)
	if err != nil {
		return order.Payment{}, errs.NewPaymentFailureErrorWithCause(orderID, "gateway returned an unusable receipt", err)
	}
	return payment, nil
}
