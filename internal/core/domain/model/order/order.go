package order

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"serviceorders/internal/core/domain/model/kernel"
	"serviceorders/internal/pkg/errs"
	"serviceorders/internal/pkg/guard"
)

const (
	// MaxPhotos bounds the number of photo URIs attached at creation.
	MaxPhotos = 10
	// MaxDescriptionLength bounds the client's problem description, in runes.
	MaxDescriptionLength = 2000
)

// ErrOrderIsNotConstructed is returned when an Order was not created through
// NewOrder or RestoreOrder.
var ErrOrderIsNotConstructed = errors.New("order must be created via NewOrder or RestoreOrder")

// Order is a service request from a client to a professional. It is the aggregate
// root of the lifecycle: every status change goes through one of its transition
// methods, which checks the transition table, applies the sub-record and appends
// exactly one timeline entry.
//
// Order follows these invariants:
//   - The last timeline entry has the same status as the order
//   - Quotation, payment and rating are present exactly when the status requires them
//   - ScheduledDate is present if and only if ServiceType is Scheduled
//   - A rejected transition leaves every field unchanged
//
// An Order is not safe for concurrent use. Callers serialize access per order id.
type Order struct {
	id             kernel.UUID
	clientID       string
	professionalID string
	serviceType    ServiceType
	description    string
	location       kernel.Location
	photos         []string
	scheduledDate  *time.Time
	urgency        Urgency

	status    Status
	quotation *Quotation
	payment   *Payment
	rating    *Rating
	timeline  Timeline

	conversationID string
	createdAt      time.Time
	updatedAt      time.Time

	// version counts committed transitions; creation is version 1.
	version int

	events []LifecycleEvent
	guard  guard.ConstructorGuard
}

// NewOrderParams carries the client-supplied fields of a new request.
type NewOrderParams struct {
	ClientID       string
	ProfessionalID string
	ServiceType    ServiceType
	Description    string
	Location       kernel.Location
	Photos         []string
	ScheduledDate  *time.Time
	Urgency        Urgency
}

// NewOrder validates params and returns an order in Pending status with one
// timeline entry and a pending creation event. Every invalid field is reported
// in the joined error.
//
// Example:
//
//	location, _ := kernel.NewLocation("Av. Reforma 222, CDMX")
//	o, err := order.NewOrder(kernel.NewUUID(), order.NewOrderParams{
//	    ClientID:       "client-1",
//	    ProfessionalID: "pro-7",
//	    ServiceType:    order.Immediate,
//	    Description:    "Fuga en el lavabo",
//	    Location:       location,
//	    Urgency:        order.High,
//	}, time.Now())
func NewOrder(id kernel.UUID, params NewOrderParams, now time.Time) (*Order, error) {
	o := &Order{
		status:    Pending,
		createdAt: now,
		updatedAt: now,
		version:   1,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(id),
		o.setClientID(params.ClientID),
		o.setProfessionalID(params.ProfessionalID),
		o.setDescription(params.Description),
		o.setLocation(params.Location),
		o.setPhotos(params.Photos),
		o.setSchedule(params.ServiceType, params.ScheduledDate),
		o.setUrgency(params.Urgency),
	); err != nil {
		return nil, err
	}

	entry := o.timeline.Append(Pending, now, noteCreated)
	o.events = append(o.events, LifecycleEvent{
		OrderID:   o.id,
		OldStatus: Unknown,
		NewStatus: Pending,
		Timestamp: entry.Timestamp(),
		Note:      entry.Note(),
	})
	return o, nil
}

// RestoreOrderParams is the full persisted state of an order.
type RestoreOrderParams struct {
	NewOrderParams

	ID             kernel.UUID
	Status         Status
	Quotation      *Quotation
	Payment        *Payment
	Rating         *Rating
	Timeline       []TimelineEntry
	ConversationID string
	CreatedAt      time.Time
	UpdatedAt      time.Time
	Version        int
}

// RestoreOrder rebuilds an order loaded from storage. It re-checks the field
// rules and the status invariants, and produces no events.
func RestoreOrder(p RestoreOrderParams) (*Order, error) {
	o := &Order{
		conversationID: p.ConversationID,
		createdAt:      p.CreatedAt,
		updatedAt:      p.UpdatedAt,
		version:        p.Version,
		guard:          guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(p.ID),
		o.setClientID(p.ClientID),
		o.setProfessionalID(p.ProfessionalID),
		o.setDescription(p.Description),
		o.setLocation(p.Location),
		o.setPhotos(p.Photos),
		o.setSchedule(p.ServiceType, p.ScheduledDate),
		o.setUrgency(p.Urgency),
	); err != nil {
		return nil, err
	}

	if err := p.Status.Validate(); err != nil {
		return nil, err
	}
	if err := p.Status.ValidateSubRecords(p.Quotation != nil, p.Payment != nil, p.Rating != nil); err != nil {
		return nil, err
	}
	timeline, err := RestoreTimeline(p.Timeline)
	if err != nil {
		return nil, err
	}
	if last, _ := timeline.Last(); last.Status() != p.Status {
		return nil, errs.NewValueIsInvalidErrorWithCause("timeline",
			fmt.Errorf("last entry is %s but order status is %s", last.Status(), p.Status))
	}
	if p.Version < 1 {
		return nil, errs.NewValueIsOutOfRangeError("version", p.Version, 1, "unbounded")
	}

	o.status = p.Status
	o.timeline = timeline
	if p.Quotation != nil {
		q := p.Quotation.clone()
		o.quotation = &q
	}
	if p.Payment != nil {
		pm := *p.Payment
		o.payment = &pm
	}
	if p.Rating != nil {
		r := *p.Rating
		o.rating = &r
	}
	return o, nil
}

// Validate ensures the order was built by NewOrder or RestoreOrder.
func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.UUID {
	return o.id
}

func (o *Order) ClientID() string {
	return o.clientID
}

func (o *Order) ProfessionalID() string {
	return o.professionalID
}

func (o *Order) ServiceType() ServiceType {
	return o.serviceType
}

func (o *Order) Description() string {
	return o.description
}

func (o *Order) Location() kernel.Location {
	return o.location
}

func (o *Order) Urgency() Urgency {
	return o.urgency
}

func (o *Order) Status() Status {
	return o.status
}

func (o *Order) ConversationID() string {
	return o.conversationID
}

func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

func (o *Order) UpdatedAt() time.Time {
	return o.updatedAt
}

func (o *Order) Version() int {
	return o.version
}

func (o *Order) Timeline() []TimelineEntry {
	return o.timeline.Entries()
}

func (o *Order) Photos() []string {
	return append([]string(nil), o.photos...)
}

// ScheduledDate is nil for Immediate orders.
func (o *Order) ScheduledDate() *time.Time {
	if o.scheduledDate == nil {
		return nil
	}
	d := *o.scheduledDate
	return &d
}

// Quotation returns the attached quotation, if any.
func (o *Order) Quotation() (Quotation, bool) {
	if o.quotation == nil {
		return Quotation{}, false
	}
	return o.quotation.clone(), true
}

func (o *Order) Payment() (Payment, bool) {
	if o.payment == nil {
		return Payment{}, false
	}
	return *o.payment, true
}

func (o *Order) Rating() (Rating, bool) {
	if o.rating == nil {
		return Rating{}, false
	}
	return *o.rating, true
}

// CheckCanApply returns an InvalidStateTransitionError carrying the order id
// when op is not allowed from the current status. It does not mutate.
func (o *Order) CheckCanApply(op Operation) error {
	if _, err := o.next(op); err != nil {
		return err
	}
	return nil
}

// SubmitQuotation moves Pending to Quoted and attaches q.
func (o *Order) SubmitQuotation(q Quotation) error {
	next, err := o.next(SubmitQuotation)
	if err != nil {
		return err
	}
	if err := q.Validate(); err != nil {
		return err
	}

	q = q.clone()
	o.quotation = &q
	o.apply(next, q.SentAt(), quotationNote(q))
	return nil
}

// AcceptQuotation moves Quoted to Accepted and stamps the quotation's acceptance time.
func (o *Order) AcceptQuotation(now time.Time) error {
	next, err := o.next(AcceptQuotation)
	if err != nil {
		return err
	}
	if o.quotation == nil {
		return errs.NewValueIsRequiredError("quotation")
	}

	accepted := o.quotation.accept(now)
	o.quotation = &accepted
	o.apply(next, now, noteQuotationAccepted)
	return nil
}

// MarkInProgress moves Accepted to InProgress.
func (o *Order) MarkInProgress(now time.Time) error {
	next, err := o.next(MarkInProgress)
	if err != nil {
		return err
	}
	o.apply(next, now, noteInProgress)
	return nil
}

// MarkCompleted moves InProgress to Completed.
func (o *Order) MarkCompleted(now time.Time) error {
	next, err := o.next(MarkCompleted)
	if err != nil {
		return err
	}
	o.apply(next, now, noteCompleted)
	return nil
}

// RecordPayment moves Completed to Paid and attaches p.
func (o *Order) RecordPayment(p Payment) error {
	next, err := o.next(ProcessPayment)
	if err != nil {
		return err
	}
	if err := p.Validate(); err != nil {
		return err
	}

	o.payment = &p
	o.apply(next, p.PaidAt(), paymentNote(p))
	return nil
}

// Rate moves Paid to Rated and attaches r. Rated is terminal, so a second
// rating is an invalid transition.
func (o *Order) Rate(r Rating) error {
	next, err := o.next(SubmitRating)
	if err != nil {
		return err
	}
	if err := r.Validate(); err != nil {
		return err
	}

	o.rating = &r
	o.apply(next, r.RatedAt(), ratingNote(r))
	return nil
}

// Cancel moves Pending or Quoted to Cancelled and records reason in the timeline.
func (o *Order) Cancel(reason string, now time.Time) error {
	next, err := o.next(Cancel)
	if err != nil {
		return err
	}
	o.apply(next, now, cancelNote(strings.TrimSpace(reason)))
	return nil
}

// LinkConversation attaches a messaging thread id. It is not a transition and
// records no timeline entry.
func (o *Order) LinkConversation(conversationID string) error {
	conversationID = strings.TrimSpace(conversationID)
	if conversationID == "" {
		return errs.NewValueIsRequiredError("conversationId")
	}
	o.conversationID = conversationID
	return nil
}

// PullEvents returns the events recorded since the last call and clears them.
func (o *Order) PullEvents() []LifecycleEvent {
	events := o.events
	o.events = nil
	return events
}

// Clone returns a deep copy without pending events.
func (o *Order) Clone() *Order {
	c := *o
	c.photos = o.Photos()
	c.scheduledDate = o.ScheduledDate()
	c.timeline = o.timeline.clone()
	c.events = nil
	if o.quotation != nil {
		q := o.quotation.clone()
		c.quotation = &q
	}
	if o.payment != nil {
		p := *o.payment
		c.payment = &p
	}
	if o.rating != nil {
		r := *o.rating
		c.rating = &r
	}
	return &c
}

func (o *Order) next(op Operation) (Status, error) {
	next, err := o.status.Next(op)
	if err != nil {
		return Unknown, errs.NewInvalidStateTransitionError(o.id.String(), op.String(), o.status.String())
	}
	return next, nil
}

func (o *Order) apply(next Status, at time.Time, note string) {
	old := o.status
	entry := o.timeline.Append(next, at, note)
	o.status = next
	o.updatedAt = entry.Timestamp()
	o.version++
	o.events = append(o.events, LifecycleEvent{
		OrderID:   o.id,
		OldStatus: old,
		NewStatus: next,
		Timestamp: entry.Timestamp(),
		Note:      note,
	})
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setClientID(clientID string) error {
	clientID = strings.TrimSpace(clientID)
	if clientID == "" {
		return errs.NewValueIsRequiredError("clientId")
	}
	o.clientID = clientID
	return nil
}

func (o *Order) setProfessionalID(professionalID string) error {
	professionalID = strings.TrimSpace(professionalID)
	if professionalID == "" {
		return errs.NewValueIsRequiredError("professionalId")
	}
	o.professionalID = professionalID
	return nil
}

func (o *Order) setDescription(description string) error {
	description = strings.TrimSpace(description)
	if description == "" {
		return errs.NewValueIsRequiredError("description")
	}
	if n := utf8.RuneCountInString(description); n > MaxDescriptionLength {
		return errs.NewValueIsOutOfRangeError("description length", n, 1, MaxDescriptionLength)
	}
	o.description = description
	return nil
}

func (o *Order) setLocation(location kernel.Location) error {
	if err := location.Validate(); err != nil {
		return err
	}
	o.location = location
	return nil
}

func (o *Order) setPhotos(photos []string) error {
	if len(photos) > MaxPhotos {
		return errs.NewValueIsOutOfRangeError("photos count", len(photos), 0, MaxPhotos)
	}
	cleaned := make([]string, 0, len(photos))
	for i, raw := range photos {
		raw = strings.TrimSpace(raw)
		u, err := url.Parse(raw)
		if err != nil || !u.IsAbs() || u.Host == "" {
			return errs.NewValueIsInvalidErrorWithCause(fmt.Sprintf("photos[%d]", i),
				fmt.Errorf("%q is not an absolute URI", raw))
		}
		cleaned = append(cleaned, raw)
	}
	o.photos = cleaned
	return nil
}

func (o *Order) setSchedule(serviceType ServiceType, scheduledDate *time.Time) error {
	if err := serviceType.Validate(); err != nil {
		return err
	}
	switch {
	case serviceType == Scheduled && scheduledDate == nil:
		return errs.NewValueIsRequiredErrorWithCause("scheduledDate", errors.New("SCHEDULED service needs a date"))
	case serviceType == Immediate && scheduledDate != nil:
		return errs.NewValueIsInvalidErrorWithCause("scheduledDate", errors.New("IMMEDIATE service cannot have a date"))
	}
	o.serviceType = serviceType
	if scheduledDate != nil {
		d := *scheduledDate
		o.scheduledDate = &d
	}
	return nil
}

func (o *Order) setUrgency(urgency Urgency) error {
	if err := urgency.Validate(); err != nil {
		return err
	}
	o.urgency = urgency
	return nil
}
