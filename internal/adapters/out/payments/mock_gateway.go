// Package payments contains the PaymentGateway adapters: a simulated gateway
// for development and tests, and a Mercado Pago client.
package payments

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"serviceorders/internal/core/ports"

	"github.com/oklog/ulid/v2"
)

const (
	DefaultMockLatency     = 150 * time.Millisecond
	DefaultMockDeclineRate = 0.1
)

var _ ports.PaymentGateway = (*MockGateway)(nil)

// MockGateway approves or declines charges at random after a fixed latency.
// Transaction ids are ULIDs, so they sort by approval time.
type MockGateway struct {
	latency     time.Duration
	declineRate float64
	roll        func() float64
	logger      *slog.Logger
}

// NewMockGateway creates a simulated gateway. declineRate is the fraction of
// charges declined, clamped to [0, 1].
func NewMockGateway(latency time.Duration, declineRate float64, logger *slog.Logger) *MockGateway {
	if logger == nil {
		logger = slog.Default()
	}
	return &MockGateway{
		latency:     max(latency, 0),
		declineRate: min(max(declineRate, 0), 1),
		roll:        rand.Float64,
		logger:      logger.With("component", "mock_payment_gateway"),
	}
}

// WithRoll replaces the random source. roll must return values in [0, 1).
func (g *MockGateway) WithRoll(roll func() float64) *MockGateway {
	g.roll = roll
	return g
}

// Charge waits for the simulated latency, or until ctx is done, and then
// decides the outcome.
func (g *MockGateway) Charge(ctx context.Context, req ports.ChargeRequest) (ports.ChargeResult, error) {
	if g.latency > 0 {
		timer := time.NewTimer(g.latency)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ports.ChargeResult{}, ctx.Err()
		case <-timer.C:
		}
	} else if err := ctx.Err(); err != nil {
		return ports.ChargeResult{}, err
	}

	if g.roll() < g.declineRate {
		g.logger.InfoContext(ctx, "Charge declined",
			"order_id", req.OrderID.String(), "amount", req.Amount.String())
		return ports.ChargeResult{Approved: false, DeclineReason: "insufficient funds"}, nil
	}

	txID := fmt.Sprintf("mock_%s", ulid.Make())
	g.logger.InfoContext(ctx, "Charge approved",
		"order_id", req.OrderID.String(), "amount", req.Amount.String(), "transaction_id", txID)
	return ports.ChargeResult{Approved: true, TransactionID: txID}, nil
}
