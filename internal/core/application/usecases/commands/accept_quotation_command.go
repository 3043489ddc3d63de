package commands

import (
	"errors"

	"serviceorders/internal/core/domain/model/kernel"
	"serviceorders/internal/pkg/guard"
)

var ErrAcceptQuotationCommandIsNotConstructed = errors.New(
	"AcceptQuotationCommand must be created via NewAcceptQuotationCommand constructor",
)

// AcceptQuotationCommand is the client accepting the quoted price.
type AcceptQuotationCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

func NewAcceptQuotationCommand(orderID kernel.UUID) (AcceptQuotationCommand, error) {
	if err := orderID.Validate(); err != nil {
		return AcceptQuotationCommand{}, err
	}
	return AcceptQuotationCommand{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

func (c AcceptQuotationCommand) Validate() error {
	return c.guard.Validate(ErrAcceptQuotationCommandIsNotConstructed)
}

func (c AcceptQuotationCommand) OrderID() kernel.UUID {
	return c.orderID
}
