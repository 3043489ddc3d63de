package payments

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"serviceorders/internal/core/domain/model/order"
	"serviceorders/internal/core/ports"

	"github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/payment"
)

// ErrMissingAccessToken is returned when the Mercado Pago gateway is selected
// without credentials.
var ErrMissingAccessToken = errors.New("missing Mercado Pago access token")

const statusApproved = "approved"

var _ ports.PaymentGateway = (*MercadoPagoGateway)(nil)

// paymentCreator is the part of payment.Client the gateway calls.
type paymentCreator interface {
	Create(ctx context.Context, request payment.Request) (*payment.Response, error)
}

// methodIDs maps order payment methods to Mercado Pago payment_method_id values.
var methodIDs = map[order.PaymentMethod]string{
	order.Card:     "credit_card",
	order.Cash:     "cash",
	order.Transfer: "bank_transfer",
	order.Wallet:   "account_money",
}

// MercadoPagoGateway charges orders through the Mercado Pago payments API.
// Any status other than "approved" is reported as a decline.
type MercadoPagoGateway struct {
	client paymentCreator
	logger *slog.Logger
}

func NewMercadoPagoGateway(accessToken string, logger *slog.Logger) (*MercadoPagoGateway, error) {
	if accessToken == "" {
		return nil, ErrMissingAccessToken
	}
	cfg, err := config.New(accessToken)
	if err != nil {
		return nil, fmt.Errorf("mercado pago config: %w", err)
	}
	return newMercadoPagoGateway(payment.NewClient(cfg), logger), nil
}

func newMercadoPagoGateway(client paymentCreator, logger *slog.Logger) *MercadoPagoGateway {
	if logger == nil {
		logger = slog.Default()
	}
	return &MercadoPagoGateway{
		client: client,
		logger: logger.With("component", "mercadopago_gateway"),
	}
}

func (g *MercadoPagoGateway) Charge(ctx context.Context, req ports.ChargeRequest) (ports.ChargeResult, error) {
	amount, _ := req.Amount.Float64()
	request := payment.Request{
		TransactionAmount: amount,
		Description:       req.Description,
		PaymentMethodID:   methodIDs[req.Method],
		ExternalReference: req.OrderID.String(),
		Metadata: map[string]any{
			"order_id":  req.OrderID.String(),
			"client_id": req.ClientID,
		},
	}

	resp, err := g.client.Create(ctx, request)
	if err != nil {
		g.logger.ErrorContext(ctx, "Payment request failed", "order_id", req.OrderID.String(), "error", err)
		return ports.ChargeResult{}, err
	}

	txID := fmt.Sprint(resp.ID)
	if resp.Status != statusApproved {
		g.logger.InfoContext(ctx, "Payment not approved",
			"order_id", req.OrderID.String(), "payment_id", txID,
			"status", resp.Status, "status_detail", resp.StatusDetail)
		reason := resp.Status
		if resp.StatusDetail != "" {
			reason = fmt.Sprintf("%s: %s", resp.Status, resp.StatusDetail)
		}
		return ports.ChargeResult{Approved: false, TransactionID: txID, DeclineReason: reason}, nil
	}

	g.logger.InfoContext(ctx, "Payment approved", "order_id", req.OrderID.String(), "payment_id", txID)
	return ports.ChargeResult{Approved: true, TransactionID: txID}, nil
}
