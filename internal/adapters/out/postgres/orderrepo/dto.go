// Package orderrepo persists order aggregates in PostgreSQL through GORM.
// An order is one row in "orders" with its quotation, payment and rating as
// nullable column groups, plus one row per timeline entry in
// "order_timeline_entries".
package orderrepo

import (
	"errors"
	"time"

	"serviceorders/internal/core/domain/model/kernel"
	"serviceorders/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// OrderDTO is the "orders" row.
type OrderDTO struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey"`
	ClientID       string         `gorm:"type:varchar(128);not null;index:idx_orders_client"`
	ProfessionalID string         `gorm:"type:varchar(128);not null;index:idx_orders_professional"`
	ServiceType    string         `gorm:"type:varchar(16);not null"`
	Description    string         `gorm:"type:text;not null"`
	Location       LocationDTO    `gorm:"embedded;embeddedPrefix:location_"`
	Photos         pq.StringArray `gorm:"type:text[]"`
	ScheduledDate  *time.Time
	Urgency        string       `gorm:"type:varchar(16);not null"`
	Status         string       `gorm:"type:varchar(16);not null;index:idx_orders_status"`
	Quotation      QuotationDTO `gorm:"embedded;embeddedPrefix:quotation_"`
	Payment        PaymentDTO   `gorm:"embedded;embeddedPrefix:payment_"`
	Rating         RatingDTO    `gorm:"embedded;embeddedPrefix:rating_"`
	ConversationID string       `gorm:"type:varchar(128)"`
	CreatedAt      time.Time    `gorm:"autoCreateTime:false;not null;index"`
	UpdatedAt      time.Time    `gorm:"autoUpdateTime:false;not null"`
	Version        int          `gorm:"not null"`

	Timeline []TimelineEntryDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (OrderDTO) TableName() string {
	return "orders"
}

type LocationDTO struct {
	Address   string `gorm:"type:text;not null"`
	Latitude  *float64
	Longitude *float64
}

// QuotationDTO columns are all NULL until a quotation is submitted.
type QuotationDTO struct {
	Amount            decimal.NullDecimal `gorm:"type:numeric(14,2)"`
	Description       *string             `gorm:"type:text"`
	EstimatedDuration *string             `gorm:"type:varchar(100)"`
	SentAt            *time.Time
	AcceptedAt        *time.Time
}

type PaymentDTO struct {
	Method        *string             `gorm:"type:varchar(16)"`
	Amount        decimal.NullDecimal `gorm:"type:numeric(14,2)"`
	PaidAt        *time.Time
	TransactionID *string `gorm:"type:varchar(128)"`
}

type RatingDTO struct {
	Score   *int
	Comment *string `gorm:"type:text"`
	RatedAt *time.Time
}

// TimelineEntryDTO is one "order_timeline_entries" row. Seq is the entry's
// position in the timeline, starting at 0.
type TimelineEntryDTO struct {
	OrderID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Seq       int       `gorm:"primaryKey;autoIncrement:false"`
	Status    string    `gorm:"type:varchar(16);not null"`
	Timestamp time.Time `gorm:"not null"`
	Note      string    `gorm:"type:text;not null"`
}

func (TimelineEntryDTO) TableName() string {
	return "order_timeline_entries"
}

var errIncompleteSubRecord = errors.New("stored sub-record is incomplete")

func fromDomain(o *order.Order) OrderDTO {
	dto := OrderDTO{
		ID:             o.ID().Bytes(),
		ClientID:       o.ClientID(),
		ProfessionalID: o.ProfessionalID(),
		ServiceType:    o.ServiceType().String(),
		Description:    o.Description(),
		Location:       LocationDTO{Address: o.Location().Address()},
		Photos:         pq.StringArray(o.Photos()),
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
		dto.Location.Latitude = &lat
		dto.Location.Longitude = &lng
	}

	if q, ok := o.Quotation(); ok {
		sentAt := q.SentAt()
		dto.Quotation = QuotationDTO{
			Amount:            decimal.NewNullDecimal(q.Amount()),
			Description:       ptr(q.Description()),
			EstimatedDuration: ptr(q.EstimatedDuration()),
			SentAt:            &sentAt,
			AcceptedAt:        q.AcceptedAt(),
		}
	}

	if p, ok := o.Payment(); ok {
		paidAt := p.PaidAt()
		dto.Payment = PaymentDTO{
			Method:        ptr(p.Method().String()),
			Amount:        decimal.NewNullDecimal(p.Amount()),
			PaidAt:        &paidAt,
			TransactionID: ptr(p.TransactionID()),
		}
	}

	if r, ok := o.Rating(); ok {
		ratedAt := r.RatedAt()
		dto.Rating = RatingDTO{
			Score:   ptr(r.Score()),
			Comment: ptr(r.Comment()),
			RatedAt: &ratedAt,
		}
	}

	dto.Timeline = timelineFromDomain(dto.ID, o.Timeline())
	return dto
}

func timelineFromDomain(orderID uuid.UUID, entries []order.TimelineEntry) []TimelineEntryDTO {
	dtos := make([]TimelineEntryDTO, 0, len(entries))
	for i, e := range entries {
		dtos = append(dtos, TimelineEntryDTO{
			OrderID:   orderID,
			Seq:       i,
			Status:    e.Status().String(),
			Timestamp: e.Timestamp(),
			Note:      e.Note(),
		})
	}
	return dtos
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	location, err := locationToDomain(dto.Location)
	if err != nil {
		return nil, err
	}

	serviceType, err := order.ParseServiceType(dto.ServiceType)
	if err != nil {
		return nil, err
	}
	urgency, err := order.ParseUrgency(dto.Urgency)
	if err != nil {
		return nil, err
	}
	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	quotation, err := quotationToDomain(dto.Quotation)
	if err != nil {
		return nil, err
	}
	payment, err := paymentToDomain(dto.Payment)
	if err != nil {
		return nil, err
	}
	rating, err := ratingToDomain(dto.Rating)
	if err != nil {
		return nil, err
	}

	timeline := make([]order.TimelineEntry, 0, len(dto.Timeline))
	for _, e := range dto.Timeline {
		s, parseErr := order.ParseStatus(e.Status)
		if parseErr != nil {
			return nil, parseErr
		}
		timeline = append(timeline, order.NewTimelineEntry(s, e.Timestamp, e.Note))
	}

	return order.RestoreOrder(order.RestoreOrderParams{
		NewOrderParams: order.NewOrderParams{
			ClientID:       dto.ClientID,
			ProfessionalID: dto.ProfessionalID,
			ServiceType:    serviceType,
			Description:    dto.Description,
			Location:       location,
			Photos:         []string(dto.Photos),
			ScheduledDate:  dto.ScheduledDate,
			Urgency:        urgency,
		},
		ID:             id,
		Status:         status,
		Quotation:      quotation,
		Payment:        payment,
		Rating:         rating,
		Timeline:       timeline,
		ConversationID: dto.ConversationID,
		CreatedAt:      dto.CreatedAt,
		UpdatedAt:      dto.UpdatedAt,
		Version:        dto.Version,
	})
}

func locationToDomain(dto LocationDTO) (kernel.Location, error) {
	if dto.Latitude == nil || dto.Longitude == nil {
		return kernel.NewLocation(dto.Address)
	}
	coordinates, err := kernel.NewCoordinates(*dto.Latitude, *dto.Longitude)
	if err != nil {
		return kernel.Location{}, err
	}
	return kernel.NewLocationWithCoordinates(dto.Address, coordinates)
}

func quotationToDomain(dto QuotationDTO) (*order.Quotation, error) {
	if dto.SentAt == nil {
		return nil, nil //nolint:nilnil // no quotation yet
	}
	if !dto.Amount.Valid || dto.Description == nil {
		return nil, errIncompleteSubRecord
	}
	q, err := order.RestoreQuotation(
		dto.Amount.Decimal, *dto.Description, deref(dto.EstimatedDuration), *dto.SentAt, dto.AcceptedAt,
	)
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func paymentToDomain(dto PaymentDTO) (*order.Payment, error) {
	if dto.PaidAt == nil {
		return nil, nil //nolint:nilnil // not paid yet
	}
	if dto.Method == nil || !dto.Amount.Valid || dto.TransactionID == nil {
		return nil, errIncompleteSubRecord
	}
	method, err := order.ParsePaymentMethod(*dto.Method)
	if err != nil {
		return nil, err
	}
	p, err := order.NewPayment(method, dto.Amount.Decimal, *dto.PaidAt, *dto.TransactionID)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func ratingToDomain(dto RatingDTO) (*order.Rating, error) {
	if dto.RatedAt == nil {
		return nil, nil //nolint:nilnil // not rated yet
	}
	if dto.Score == nil {
		return nil, errIncompleteSubRecord
	}
	r, err := order.NewRating(*dto.Score, deref(dto.Comment), *dto.RatedAt)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func ptr[T any](v T) *T {
	return &v
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
