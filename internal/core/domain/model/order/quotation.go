package order

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"serviceorders/internal/pkg/errs"
	"serviceorders/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

// MaxEstimatedDurationLength bounds the free-text duration a professional quotes.
const MaxEstimatedDurationLength = 100

var ErrQuotationIsNotConstructed = errs.NewValueIsRequiredError("quotation must be created via NewQuotation")

// Quotation is the professional's price offer. It is immutable; acceptance
// produces a copy with AcceptedAt set.
type Quotation struct {
	amount            decimal.Decimal
	description       string
	estimatedDuration string
	sentAt            time.Time
	acceptedAt        *time.Time

	guard guard.ConstructorGuard
}

// NewQuotation trims the text fields and rejects a non-positive amount, an
// empty description or an over-long duration. All problems are reported together.
func NewQuotation(amount decimal.Decimal, description, estimatedDuration string, sentAt time.Time) (Quotation, error) {
	description = strings.TrimSpace(description)
	estimatedDuration = strings.TrimSpace(estimatedDuration)

	var problems []error
	if !amount.IsPositive() {
		problems = append(problems, errs.NewValueIsOutOfRangeError("quotation amount", amount.String(), "> 0", "unbounded"))
	}
	if description == "" {
		problems = append(problems, errs.NewValueIsRequiredError("quotation description"))
	}
	if n := utf8.RuneCountInString(estimatedDuration); n > MaxEstimatedDurationLength {
		problems = append(problems, errs.NewValueIsOutOfRangeError("estimated duration length", n, 0, MaxEstimatedDurationLength))
	}
	if err := errors.Join(problems...); err != nil {
		return Quotation{}, err
	}

	return Quotation{
		amount:            amount,
		description:       description,
		estimatedDuration: estimatedDuration,
		sentAt:            sentAt,
		guard:             guard.NewConstructorGuard(),
	}, nil
}

// RestoreQuotation rebuilds a stored quotation, including its acceptance time.
func RestoreQuotation(
	amount decimal.Decimal, description, estimatedDuration string, sentAt time.Time, acceptedAt *time.Time,
) (Quotation, error) {
	q, err := NewQuotation(amount, description, estimatedDuration, sentAt)
	if err != nil {
		return Quotation{}, err
	}
	if acceptedAt != nil {
		at := *acceptedAt
		q.acceptedAt = &at
	}
	return q, nil
}

func (q Quotation) Validate() error {
	return q.guard.Validate(ErrQuotationIsNotConstructed)
}

func (q Quotation) Amount() decimal.Decimal {
	return q.amount
}

func (q Quotation) Description() string {
	return q.description
}

func (q Quotation) EstimatedDuration() string {
	return q.estimatedDuration
}

func (q Quotation) SentAt() time.Time {
	return q.sentAt
}

// AcceptedAt is nil until the client accepts the quotation.
func (q Quotation) AcceptedAt() *time.Time {
	if q.acceptedAt == nil {
		return nil
	}
	at := *q.acceptedAt
	return &at
}

func (q Quotation) accept(at time.Time) Quotation {
	q.acceptedAt = &at
	return q
}

func (q Quotation) clone() Quotation {
	if q.acceptedAt != nil {
		at := *q.acceptedAt
		q.acceptedAt = &at
	}
	return q
}
