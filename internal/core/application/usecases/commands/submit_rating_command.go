package commands

import (
	"errors"

	"serviceorders/internal/core/domain/model/kernel"
	"serviceorders/internal/pkg/guard"
)

var ErrSubmitRatingCommandIsNotConstructed = errors.New(
	"SubmitRatingCommand must be created via NewSubmitRatingCommand constructor",
)

// SubmitRatingCommand is the client's evaluation of a paid order.
type SubmitRatingCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	score   int
	comment string

	guard guard.ConstructorGuard
}

func NewSubmitRatingCommand(orderID kernel.UUID, score int, comment string) (SubmitRatingCommand, error) {
	if err := orderID.Validate(); err != nil {
		return SubmitRatingCommand{}, err
	}
	return SubmitRatingCommand{orderID: orderID, score: score, comment: comment, guard: guard.NewConstructorGuard()}, nil
}

func (c SubmitRatingCommand) Validate() error {
	return c.guard.Validate(ErrSubmitRatingCommandIsNotConstructed)
}

func (c SubmitRatingCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c SubmitRatingCommand) Score() int {
	return c.score
}

func (c SubmitRatingCommand) Comment() string {
	return c.comment
}
