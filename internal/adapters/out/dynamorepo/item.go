package dynamorepo

import (
	"fmt"
	"time"

	"serviceorders/internal/core/domain/model/kernel"
	"serviceorders/internal/core/domain/model/order"

	"github.com/shopspring/decimal"
)

// timeLayout is fixed-width so that created_at sorts lexicographically in the
// index range keys.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

type orderItem struct {
	ID             string         `dynamodbav:"id"`
	ClientID       string         `dynamodbav:"client_id"`
	ProfessionalID string         `dynamodbav:"professional_id"`
	ServiceType    string         `dynamodbav:"service_type"`
	Description    string         `dynamodbav:"description"`
	Address        string         `dynamodbav:"address"`
	Latitude       *float64       `dynamodbav:"latitude,omitempty"`
	Longitude      *float64       `dynamodbav:"longitude,omitempty"`
	Photos         []string       `dynamodbav:"photos,omitempty"`
	ScheduledDate  string         `dynamodbav:"scheduled_date,omitempty"`
	Urgency        string         `dynamodbav:"urgency"`
	Status         string         `dynamodbav:"status"`
	Quotation      *quotationItem `dynamodbav:"quotation,omitempty"`
	Payment        *paymentItem   `dynamodbav:"payment,omitempty"`
	Rating         *ratingItem    `dynamodbav:"rating,omitempty"`
	Timeline       []timelineItem `dynamodbav:"timeline"`
	ConversationID string         `dynamodbav:"conversation_id,omitempty"`
	CreatedAt      string         `dynamodbav:"created_at"`
	UpdatedAt      string         `dynamodbav:"updated_at"`
	Version        int            `dynamodbav:"version"`
}

type quotationItem struct {
	Amount            string `dynamodbav:"amount"`
	Description       string `dynamodbav:"description"`
	EstimatedDuration string `dynamodbav:"estimated_duration,omitempty"`
	SentAt            string `dynamodbav:"sent_at"`
	AcceptedAt        string `dynamodbav:"accepted_at,omitempty"`
}

type paymentItem struct {
	Method        string `dynamodbav:"method"`
	Amount        string `dynamodbav:"amount"`
	PaidAt        string `dynamodbav:"paid_at"`
	TransactionID string `dynamodbav:"transaction_id"`
}

type ratingItem struct {
	Score   int    `dynamodbav:"score"`
	Comment string `dynamodbav:"comment,omitempty"`
	RatedAt string `dynamodbav:"rated_at"`
}

type timelineItem struct {
	Status    string `dynamodbav:"status"`
	Timestamp string `dynamodbav:"timestamp"`
	Note      string `dynamodbav:"note"`
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(field, s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: %w", field, err)
	}
	return t, nil
}

func fromDomain(o *order.Order) orderItem {
	it := orderItem{
		ID:             o.ID().String(),
		ClientID:       o.ClientID(),
		ProfessionalID: o.ProfessionalID(),
		ServiceType:    o.ServiceType().String(),
		Description:    o.Description(),
		Address:        o.Location().Address(),
		Photos:         o.Photos(),
		Urgency:        o.Urgency().String(),
		Status:         o.Status().String(),
		ConversationID: o.ConversationID(),
		CreatedAt:      formatTime(o.CreatedAt()),
		UpdatedAt:      formatTime(o.UpdatedAt()),
		Version:        o.Version(),
	}

	if c, ok := o.Location().Coordinates(); ok {
		lat, lng := c.Latitude(), c.Longitude()
		it.Latitude, it.Longitude = &lat, &lng
	}
	if d := o.ScheduledDate(); d != nil {
		it.ScheduledDate = formatTime(*d)
	}

	if q, ok := o.Quotation(); ok {
		qi := &quotationItem{
			Amount:            q.Amount().String(),
			Description:       q.Description(),
			EstimatedDuration: q.EstimatedDuration(),
			SentAt:            formatTime(q.SentAt()),
		}
		if at := q.AcceptedAt(); at != nil {
			qi.AcceptedAt = formatTime(*at)
		}
		it.Quotation = qi
	}
	if p, ok := o.Payment(); ok {
		it.Payment = &paymentItem{
			Method:        p.Method().String(),
			Amount:        p.Amount().String(),
			PaidAt:        formatTime(p.PaidAt()),
			TransactionID: p.TransactionID(),
		}
	}
	if r, ok := o.Rating(); ok {
		it.Rating = &ratingItem{
			Score:   r.Score(),
			Comment: r.Comment(),
			RatedAt: formatTime(r.RatedAt()),
		}
	}

	for _, e := range o.Timeline() {
		it.Timeline = append(it.Timeline, timelineItem{
			Status:    e.Status().String(),
			Timestamp: formatTime(e.Timestamp()),
			Note:      e.Note(),
		})
	}
	return it
}

//nolint:gocognit,funlen // flat field-by-field mapping
func toDomain(it orderItem) (*order.Order, error) {
	id, err := kernel.UUIDFromString(it.ID)
	if err != nil {
		return nil, err
	}

	var location kernel.Location
	if it.Latitude != nil && it.Longitude != nil {
		coordinates, coordErr := kernel.NewCoordinates(*it.Latitude, *it.Longitude)
		if coordErr != nil {
			return nil, coordErr
		}
		location, err = kernel.NewLocationWithCoordinates(it.Address, coordinates)
	} else {
		location, err = kernel.NewLocation(it.Address)
	}
	if err != nil {
		return nil, err
	}

	serviceType, err := order.ParseServiceType(it.ServiceType)
	if err != nil {
		return nil, err
	}
	urgency, err := order.ParseUrgency(it.Urgency)
	if err != nil {
		return nil, err
	}
	status, err := order.ParseStatus(it.Status)
	if err != nil {
		return nil, err
	}

	var scheduledDate *time.Time
	if it.ScheduledDate != "" {
		d, parseErr := parseTime("scheduled_date", it.ScheduledDate)
		if parseErr != nil {
			return nil, parseErr
		}
		scheduledDate = &d
	}

	createdAt, err := parseTime("created_at", it.CreatedAt)
	if err != nil {
		return nil, err
	}
	updatedAt, err := parseTime("updated_at", it.UpdatedAt)
	if err != nil {
		return nil, err
	}

	params := order.RestoreOrderParams{
		NewOrderParams: order.NewOrderParams{
			ClientID:       it.ClientID,
			ProfessionalID: it.ProfessionalID,
			ServiceType:    serviceType,
			Description:    it.Description,
			Location:       location,
			Photos:         it.Photos,
			ScheduledDate:  scheduledDate,
			Urgency:        urgency,
		},
		ID:             id,
		Status:         status,
		ConversationID: it.ConversationID,
		CreatedAt:      createdAt,
		UpdatedAt:      updatedAt,
		Version:        it.Version,
	}

	if params.Quotation, err = quotationToDomain(it.Quotation); err != nil {
		return nil, err
	}
	if params.Payment, err = paymentToDomain(it.Payment); err != nil {
		return nil, err
	}
	if params.Rating, err = ratingToDomain(it.Rating); err != nil {
		return nil, err
	}

	for _, e := range it.Timeline {
		s, parseErr := order.ParseStatus(e.Status)
		if parseErr != nil {
			return nil, parseErr
		}
		ts, parseErr := parseTime("timeline.timestamp", e.Timestamp)
		if parseErr != nil {
			return nil, parseErr
		}
		params.Timeline = append(params.Timeline, order.NewTimelineEntry(s, ts, e.Note))
	}

	return order.RestoreOrder(params)
}

func quotationToDomain(it *quotationItem) (*order.Quotation, error) {
	if it == nil {
		return nil, nil //nolint:nilnil // no quotation yet
	}
	amount, err := decimal.NewFromString(it.Amount)
	if err != nil {
		return nil, fmt.Errorf("quotation.amount: %w", err)
	}
	sentAt, err := parseTime("quotation.sent_at", it.SentAt)
	if err != nil {
		return nil, err
	}
	var acceptedAt *time.Time
	if it.AcceptedAt != "" {
		at, parseErr := parseTime("quotation.accepted_at", it.AcceptedAt)
		if parseErr != nil {
			return nil, parseErr
		}
		acceptedAt = &at
	}
	q, err := order.RestoreQuotation(amount, it.Description, it.EstimatedDuration, sentAt, acceptedAt)
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func paymentToDomain(it *paymentItem) (*order.Payment, error) {
	if it == nil {
		return nil, nil //nolint:nilnil // not paid yet
	}
	method, err := order.ParsePaymentMethod(it.Method)
	if err != nil {
		return nil, err
	}
	amount, err := decimal.NewFromString(it.Amount)
	if err != nil {
		return nil, fmt.Errorf("payment.amount: %w", err)
	}
	paidAt, err := parseTime("payment.paid_at", it.PaidAt)
	if err != nil {
		return nil, err
	}
	p, err := order.NewPayment(method, amount, paidAt, it.TransactionID)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func ratingToDomain(it *ratingItem) (*order.Rating, error) {
	if it == nil {
		return nil, nil //nolint:nilnil // not rated yet
	}
	ratedAt, err := parseTime("rating.rated_at", it.RatedAt)
	if err != nil {
		return nil, err
	}
	r, err := order.NewRating(it.Score, it.Comment, ratedAt)
	if err != nil {
		return nil, err
	}
	return &r, nil
}
