package commands

import (
	"errors"

	"serviceorders/internal/core/domain/model/kernel"
	"serviceorders/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrProcessPaymentCommandIsNotConstructed = errors.New(
	"ProcessPaymentCommand must be created via NewProcessPaymentCommand constructor",
)

// ProcessPaymentCommand asks to charge the client for a completed order.
type ProcessPaymentCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	method  string
	amount  decimal.Decimal

	guard guard.ConstructorGuard
}

func NewProcessPaymentCommand(orderID kernel.UUID, method string, amount decimal.Decimal) (ProcessPaymentCommand, error) {
	if err := orderID.Validate(); err != nil {
		return ProcessPaymentCommand{}, err
	}
	return ProcessPaymentCommand{
		orderID: orderID,
		method:  method,
		amount:  amount,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c ProcessPaymentCommand) Validate() error {
	return c.guard.Validate(ErrProcessPaymentCommandIsNotConstructed)
}

func (c ProcessPaymentCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c ProcessPaymentCommand) Method() string {
	return c.method
}

func (c ProcessPaymentCommand) Amount() decimal.Decimal {
	return c.amount
}
