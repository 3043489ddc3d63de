package commands

import (
	"errors"
	"strings"
	"unicode/utf8"

	"serviceorders/internal/core/domain/model/kernel"
	"serviceorders/internal/pkg/errs"
	"serviceorders/internal/pkg/guard"
)

// MaxCancelReasonLength bounds the free-text reason kept in the timeline.
const MaxCancelReasonLength = 500

var ErrCancelOrderCommandIsNotConstructed = errors.New(
	"CancelOrderCommand must be created via NewCancelOrderCommand constructor",
)

// CancelOrderCommand withdraws a Pending or Quoted order. The reason is optional.
type CancelOrderCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	reason  string

	guard guard.ConstructorGuard
}

func NewCancelOrderCommand(orderID kernel.UUID, reason string) (CancelOrderCommand, error) {
	reason = strings.TrimSpace(reason)

	var problems []error
	if err := orderID.Validate(); err != nil {
		problems = append(problems, err)
	}
	if n := utf8.RuneCountInString(reason); n > MaxCancelReasonLength {
		problems = append(problems, errs.NewValueIsOutOfRangeError("reason length", n, 0, MaxCancelReasonLength))
	}
	if err := errors.Join(problems...); err != nil {
		return CancelOrderCommand{}, err
	}

	return CancelOrderCommand{orderID: orderID, reason: reason, guard: guard.NewConstructorGuard()}, nil
}

func (c CancelOrderCommand) Validate() error {
	return c.guard.Validate(ErrCancelOrderCommandIsNotConstructed)
}

func (c CancelOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c CancelOrderCommand) Reason() string {
	return c.reason
}
