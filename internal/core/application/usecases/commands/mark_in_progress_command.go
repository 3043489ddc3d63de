package commands

import (
	"errors"

	"serviceorders/internal/core/domain/model/kernel"
	"serviceorders/internal/pkg/guard"
)

var ErrMarkInProgressCommandIsNotConstructed = errors.New(
	"MarkInProgressCommand must be created via NewMarkInProgressCommand constructor",
)

// MarkInProgressCommand reports that the professional started working.
type MarkInProgressCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

func NewMarkInProgressCommand(orderID kernel.UUID) (MarkInProgressCommand, error) {
	if err := orderID.Validate(); err != nil {
		return MarkInProgressCommand{}, err
	}
	return MarkInProgressCommand{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

func (c MarkInProgressCommand) Validate() error {
	return c.guard.Validate(ErrMarkInProgressCommandIsNotConstructed)
}

func (c MarkInProgressCommand) OrderID() kernel.UUID {
	return c.orderID
}
