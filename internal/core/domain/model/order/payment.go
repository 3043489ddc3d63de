package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"serviceorders/internal/pkg/errs"
	"serviceorders/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

// PaymentMethod is how the client settles a completed order.
type PaymentMethod string

const (
	Card     PaymentMethod = "card"
	Cash     PaymentMethod = "cash"
	Transfer PaymentMethod = "transfer"
	Wallet   PaymentMethod = "wallet"
)

func ParsePaymentMethod(s string) (PaymentMethod, error) {
	m := PaymentMethod(strings.ToLower(strings.TrimSpace(s)))
	if err := m.Validate(); err != nil {
		return "", err
	}
	return m, nil
}

func (m PaymentMethod) Validate() error {
	switch m {
	case Card, Cash, Transfer, Wallet:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("payment method",
			fmt.Errorf("%q is not one of card, cash, transfer, wallet", string(m)))
	}
}

func (m PaymentMethod) String() string {
	return string(m)
}

var ErrPaymentIsNotConstructed = errs.NewValueIsRequiredError("payment must be created via NewPayment")

// Payment records a successful charge.
type Payment struct {
	method        PaymentMethod
	amount        decimal.Decimal
	paidAt        time.Time
	transactionID string

	guard guard.ConstructorGuard
}

func NewPayment(method PaymentMethod, amount decimal.Decimal, paidAt time.Time, transactionID string) (Payment, error) {
	transactionID = strings.TrimSpace(transactionID)

	var problems []error
	if err := method.Validate(); err != nil {
		problems = append(problems, err)
	}
	if !amount.IsPositive() {
		problems = append(problems, errs.NewValueIsOutOfRangeError("payment amount", amount.String(), "> 0", "unbounded"))
	}
	if transactionID == "" {
		problems = append(problems, errs.NewValueIsRequiredError("transaction id"))
	}
	if err := errors.Join(problems...); err != nil {
		return Payment{}, err
	}

	return Payment{
		method:        method,
		amount:        amount,
		paidAt:        paidAt,
		transactionID: transactionID,
		guard:         guard.NewConstructorGuard(),
	}, nil
}

func (p Payment) Validate() error {
	return p.guard.Validate(ErrPaymentIsNotConstructed)
}

func (p Payment) Method() PaymentMethod {
	return p.method
}

func (p Payment) Amount() decimal.Decimal {
	return p.amount
}

func (p Payment) PaidAt() time.Time {
	return p.paidAt
}

func (p Payment) TransactionID() string {
	return p.transactionID
}
