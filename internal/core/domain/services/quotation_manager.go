package services

import (
	"time"

	"serviceorders/internal/core/domain/model/order"

	"github.com/shopspring/decimal"
)

// QuotationManager validates a professional's offer.
//
// Business rules:
//   - Amount must be greater than zero
//   - Description is trimmed and must not be empty
//   - Estimated duration is optional free text of at most 100 characters
type QuotationManager struct{}

func NewQuotationManager() QuotationManager {
	return QuotationManager{}
}

// Prepare returns a quotation stamped with sentAt = now, or a validation error
// joining every rejected field.
func (QuotationManager) Prepare(
	amount decimal.Decimal, description, estimatedDuration string, now time.Time,
) (order.Quotation, error) {
	return order.NewQuotation(amount, description, estimatedDuration, now)
}
