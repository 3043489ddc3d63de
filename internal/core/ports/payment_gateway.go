package ports

import (
	"context"

	"serviceorders/internal/core/domain/model/kernel"
	"serviceorders/internal/core/domain/model/order"

	"github.com/shopspring/decimal"
)

// ChargeRequest is one attempt to collect the price of a completed order.
type ChargeRequest struct {
	OrderID     kernel.UUID
	ClientID    string
	Amount      decimal.Decimal
	Method      order.PaymentMethod
	Description string
}

// ChargeResult is the gateway's answer. A declined charge is not an error:
// Approved is false and DeclineReason says why.
type ChargeResult struct {
	Approved      bool
	TransactionID string
	DeclineReason string
}

// PaymentGateway charges clients. Implementations must honour ctx cancellation.
type PaymentGateway interface {
	Charge(ctx context.Context, req ChargeRequest) (ChargeResult, error)
}
