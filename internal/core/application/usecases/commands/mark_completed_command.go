package commands

import (
	"errors"

	"serviceorders/internal/core/domain/model/kernel"
	"serviceorders/internal/pkg/guard"
)

var ErrMarkCompletedCommandIsNotConstructed = errors.New(
	"MarkCompletedCommand must be created via NewMarkCompletedCommand constructor",
)

// MarkCompletedCommand reports that the work is done.
type MarkCompletedCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

func NewMarkCompletedCommand(orderID kernel.UUID) (MarkCompletedCommand, error) {
	if err := orderID.Validate(); err != nil {
		return MarkCompletedCommand{}, err
	}
	return MarkCompletedCommand{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

func (c MarkCompletedCommand) Validate() error {
	return c.guard.Validate(ErrMarkCompletedCommandIsNotConstructed)
}

func (c MarkCompletedCommand) OrderID() kernel.UUID {
	return c.orderID
}
