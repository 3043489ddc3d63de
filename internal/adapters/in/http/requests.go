package http

import (
	"time"

	"github.com/shopspring/decimal"
)

type (
	// Error is the body of every non-2xx response.
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	}

	NewOrder struct {
		ClientID       string     `json:"clientId"`
		ProfessionalID string     `json:"professionalId"`
		ServiceType    string     `json:"serviceType"`
		Description    string     `json:"description"`
		Location       Location   `json:"location"`
		Photos         []string   `json:"photos"`
		ScheduledDate  *time.Time `json:"scheduledDate"`
		Urgency        string     `json:"urgency"`
	}

	Location struct {
		Address   string   `json:"address"`
		Latitude  *float64 `json:"latitude"`
		Longitude *float64 `json:"longitude"`
	}

	CreatedOrder struct {
		ID string `json:"id"`
	}

	NewQuotation struct {
		Amount            decimal.Decimal `json:"amount"`
		Description       string          `json:"description"`
		EstimatedDuration string          `json:"estimatedDuration"`
	}

	NewPayment struct {
		Method string          `json:"method"`
		Amount decimal.Decimal `json:"amount"`
	}

	PaymentReceipt struct {
		TransactionID string `json:"transactionId"`
	}

	NewRating struct {
		Score   int    `json:"score"`
		Comment string `json:"comment"`
	}

	Cancellation struct {
		Reason string `json:"reason"`
	}
)
