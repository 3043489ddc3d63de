package commands

import (
	"errors"

	"serviceorders/internal/core/domain/model/kernel"
	"serviceorders/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrSubmitQuotationCommandIsNotConstructed = errors.New(
	"SubmitQuotationCommand must be created via NewSubmitQuotationCommand constructor",
)

// SubmitQuotationCommand carries a professional's price offer for a pending order.
// The offer itself is validated by the handler once the order is known to be
// Pending, so a wrong-state request is always reported as such.
//
// Example:
//
//	cmd, _ := NewSubmitQuotationCommand(orderID, decimal.NewFromInt(3500), "Pipe fix", "30-45 min")
//	err := handler.Handle(ctx, cmd)
type SubmitQuotationCommand struct { //nolint:recvcheck //using for validation
	orderID           kernel.UUID
	amount            decimal.Decimal
	description       string
	estimatedDuration string

	guard guard.ConstructorGuard
}

func NewSubmitQuotationCommand(
	orderID kernel.UUID, amount decimal.Decimal, description, estimatedDuration string,
) (SubmitQuotationCommand, error) {
	if err := orderID.Validate(); err != nil {
		return SubmitQuotationCommand{}, err
	}
	return SubmitQuotationCommand{
		orderID:           orderID,
		amount:            amount,
		description:       description,
		estimatedDuration: estimatedDuration,
		guard:             guard.NewConstructorGuard(),
	}, nil
}

func (c SubmitQuotationCommand) Validate() error {
	return c.guard.Validate(ErrSubmitQuotationCommandIsNotConstructed)
}

func (c SubmitQuotationCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c SubmitQuotationCommand) Amount() decimal.Decimal {
	return c.amount
}

func (c SubmitQuotationCommand) Description() string {
	return c.description
}

func (c SubmitQuotationCommand) EstimatedDuration() string {
	return c.estimatedDuration
}
