// Package queries contains the read side of the service order engine. Queries
// never take the per-order lock and return detached snapshots.
package queries

import (
	"context"
	"time"

	"serviceorders/internal/core/domain/model/kernel"
	"serviceorders/internal/core/domain/model/order"

	"github.com/shopspring/decimal"
)

// OrderReader is the read-only part of ports.OrderRepository.
type OrderReader interface {
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)
	ListByClient(ctx context.Context, clientID string) ([]*order.Order, error)
	ListByProfessional(ctx context.Context, professionalID string) ([]*order.Order, error)
	ListByStatus(ctx context.Context, status order.Status) ([]*order.Order, error)
}

// OrderView is the externally visible state of an order.
type OrderView struct {
	ID             string         `json:"id"`
	ClientID       string         `json:"clientId"`
	ProfessionalID string         `json:"professionalId"`
	ServiceType    string         `json:"serviceType"`
	Description    string         `json:"description"`
	Location       LocationView   `json:"location"`
	Photos         []string       `json:"photos"`
	ScheduledDate  *time.Time     `json:"scheduledDate,omitempty"`
	Urgency        string         `json:"urgency"`
	Status         string         `json:"status"`
	Quotation      *QuotationView `json:"quotation,omitempty"`
	Payment        *PaymentView   `json:"payment,omitempty"`
	Rating         *RatingView    `json:"rating,omitempty"`
	Timeline       []TimelineView `json:"timeline"`
	ConversationID string         `json:"conversationId,omitempty"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
	Version        int            `json:"version"`
}

type LocationView struct {
	Address   string   `json:"address"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

type QuotationView struct {
	Amount            decimal.Decimal `json:"amount"`
	Description       string          `json:"description"`
	EstimatedDuration string          `json:"estimatedDuration,omitempty"`
	SentAt            time.Time       `json:"sentAt"`
	AcceptedAt        *time.Time      `json:"acceptedAt,omitempty"`
}

type PaymentView struct {
	Method        string          `json:"method"`
	Amount        decimal.Decimal `json:"amount"`
	PaidAt        time.Time       `json:"paidAt"`
	TransactionID string          `json:"transactionId"`
}

type RatingView struct {
	Score   int       `json:"score"`
	Comment string    `json:"comment,omitempty"`
	RatedAt time.Time `json:"ratedAt"`
}

type TimelineView struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Note      string    `json:"note"`
}

// NewOrderView copies o into a view.
func NewOrderView(o *order.Order) OrderView {
	v := OrderView{
		ID:             o.ID().String(),
		ClientID:       o.ClientID(),
		ProfessionalID: o.ProfessionalID(),
		ServiceType:    o.ServiceType().String(),
		Description:    o.Description(),
		Location:       LocationView{Address: o.Location().Address()},
		Photos:         o.Photos(),
		ScheduledDate:  o.ScheduledDate(),
		Urgency:        o.Urgency().String(),
		Status:         o.Status().String(),
		ConversationID: o.ConversationID(),
		CreatedAt:      o.CreatedAt(),
		UpdatedAt:      o.UpdatedAt(),
		Version:        o.Version(),
	}

	if c, ok := o.Location().Coordinates(); ok {
		lat, lng := c.Latitude(), c.Longitude()
		v.Location.Latitude, v.Location.Longitude = &lat, &lng
	}
	if q, ok := o.Quotation(); ok {
		v.Quotation = &QuotationView{
			Amount:            q.Amount(),
			Description:       q.Description(),
			EstimatedDuration: q.EstimatedDuration(),
			SentAt:            q.SentAt(),
			AcceptedAt:        q.AcceptedAt(),
		}
	}
	if p, ok := o.Payment(); ok {
		v.Payment = &PaymentView{
			Method:        p.Method().String(),
			Amount:        p.Amount(),
			PaidAt:        p.PaidAt(),
			TransactionID: p.TransactionID(),
		}
	}
	if r, ok := o.Rating(); ok {
		v.Rating = &RatingView{Score: r.Score(), Comment: r.Comment(), RatedAt: r.RatedAt()}
	}

	entries := o.Timeline()
	v.Timeline = make([]TimelineView, 0, len(entries))
	for _, e := range entries {
		v.Timeline = append(v.Timeline, TimelineView{
			Status:    e.Status().String(),
			Timestamp: e.Timestamp(),
			Note:      e.Note(),
		})
	}
	return v
}

func newOrderViews(orders []*order.Order) []OrderView {
	views := make([]OrderView, 0, len(orders))
	for _, o := range orders {
		views = append(views, NewOrderView(o))
	}
	return views
}
