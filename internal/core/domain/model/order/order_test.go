package order_test

import (
	"testing"
	"time"

	"serviceorders/internal/core/domain/model/kernel"
	"serviceorders/internal/core/domain/model/order"
	"serviceorders/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

func validParams(t *testing.T) order.NewOrderParams {
	t.Helper()
	location, err := kernel.NewLocation("Av. Reforma 222, CDMX")
	require.NoError(t, err)
	return order.NewOrderParams{
		ClientID:       "C1",
		ProfessionalID: "P1",
		ServiceType:    order.Immediate,
		Description:    "Leak repair",
		Location:       location,
		Urgency:        order.High,
	}
}

func newPendingOrder(t *testing.T) *order.Order {
	t.Helper()
	o, err := order.NewOrder(kernel.NewUUID(), validParams(t), t0)
	require.NoError(t, err)
	return o
}

func quotation(t *testing.T, at time.Time) order.Quotation {
	t.Helper()
	q, err := order.NewQuotation(decimal.NewFromInt(3500), "Pipe fix", "30-45 min", at)
	require.NoError(t, err)
	return q
}

func advanceTo(t *testing.T, o *order.Order, target order.Status) {
	t.Helper()
	at := t0
	step := func() time.Time { at = at.Add(time.Minute); return at }

	path := []order.Status{order.Quoted, order.Accepted, order.InProgress, order.Completed, order.Paid, order.Rated}
	for _, s := range path {
		if o.Status() == target {
			return
		}
		switch s { //nolint:exhaustive // only the happy path is walked
		case order.Quoted:
			require.NoError(t, o.SubmitQuotation(quotation(t, step())))
		case order.Accepted:
			require.NoError(t, o.AcceptQuotation(step()))
		case order.InProgress:
			require.NoError(t, o.MarkInProgress(step()))
		case order.Completed:
			require.NoError(t, o.MarkCompleted(step()))
		case order.Paid:
			p, err := order.NewPayment(order.Card, decimal.NewFromInt(3500), step(), "tx-1")
			require.NoError(t, err)
			require.NoError(t, o.RecordPayment(p))
		case order.Rated:
			r, err := order.NewRating(5, "Great job", step())
			require.NoError(t, err)
			require.NoError(t, o.Rate(r))
		}
	}
	require.Equal(t, target, o.Status())
}

func assertTimelineInvariant(t *testing.T, o *order.Order) {
	t.Helper()
	entries := o.Timeline()
	require.NotEmpty(t, entries)
	assert.Equal(t, o.Status(), entries[len(entries)-1].Status())
	for i := 1; i < len(entries); i++ {
		assert.False(t, entries[i].Timestamp().Before(entries[i-1].Timestamp()))
	}
	_, hasQ := o.Quotation()
	_, hasP := o.Payment()
	_, hasR := o.Rating()
	require.NoError(t, o.Status().ValidateSubRecords(hasQ, hasP, hasR))
}

func TestNewOrder(t *testing.T) {
	t.Run("should create a pending order with one timeline entry", func(t *testing.T) {
		id := kernel.NewUUID()
		o, err := order.NewOrder(id, validParams(t), t0)

		require.NoError(t, err)
		require.NoError(t, o.Validate())
		assert.True(t, o.ID().IsEqual(id))
		assert.Equal(t, order.Pending, o.Status())
		assert.Equal(t, 1, o.Version())
		assert.Equal(t, t0, o.CreatedAt())
		require.Len(t, o.Timeline(), 1)
		assert.Equal(t, "Solicitud creada", o.Timeline()[0].Note())
		assertTimelineInvariant(t, o)

		events := o.PullEvents()
		require.Len(t, events, 1)
		assert.Equal(t, order.Unknown, events[0].OldStatus)
		assert.Equal(t, order.Pending, events[0].NewStatus)
		assert.Empty(t, o.PullEvents())
	})

	t.Run("should require a date for scheduled service", func(t *testing.T) {
		params := validParams(t)
		params.ServiceType = order.Scheduled

		o, err := order.NewOrder(kernel.NewUUID(), params, t0)

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
		assert.Nil(t, o)
		assert.Contains(t, err.Error(), "scheduledDate")
	})

	t.Run("should reject a date for immediate service", func(t *testing.T) {
		params := validParams(t)
		tomorrow := t0.Add(24 * time.Hour)
		params.ScheduledDate = &tomorrow

		_, err := order.NewOrder(kernel.NewUUID(), params, t0)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("should keep the date for scheduled service", func(t *testing.T) {
		params := validParams(t)
		params.ServiceType = order.Scheduled
		tomorrow := t0.Add(24 * time.Hour)
		params.ScheduledDate = &tomorrow

		o, err := order.NewOrder(kernel.NewUUID(), params, t0)

		require.NoError(t, err)
		require.NotNil(t, o.ScheduledDate())
		assert.Equal(t, tomorrow, *o.ScheduledDate())
	})

	t.Run("should reject too many photos", func(t *testing.T) {
		params := validParams(t)
		for i := 0; i <= order.MaxPhotos; i++ {
			params.Photos = append(params.Photos, "https://cdn.example.com/p.jpg")
		}

		_, err := order.NewOrder(kernel.NewUUID(), params, t0)

		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})

	t.Run("should reject relative photo URIs", func(t *testing.T) {
		params := validParams(t)
		params.Photos = []string{"https://cdn.example.com/a.jpg", "uploads/b.jpg"}

		_, err := order.NewOrder(kernel.NewUUID(), params, t0)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Contains(t, err.Error(), "photos[1]")
	})

	t.Run("should join every field error", func(t *testing.T) {
		o, err := order.NewOrder(kernel.UUID{}, order.NewOrderParams{Description: "  "}, t0)

		require.Error(t, err)
		assert.Nil(t, o)
		for _, field := range []string{"UUID", "clientId", "professionalId", "description", "location", "serviceType", "urgency"} {
			assert.Contains(t, err.Error(), field)
		}
	})
}

func TestOrder_Lifecycle(t *testing.T) {
	o := newPendingOrder(t)

	// B
	require.NoError(t, o.SubmitQuotation(quotation(t, t0.Add(time.Minute))))
	assert.Equal(t, order.Quoted, o.Status())
	q, ok := o.Quotation()
	require.True(t, ok)
	assert.Equal(t, t0.Add(time.Minute), q.SentAt())
	assert.Len(t, o.Timeline(), 2)
	assert.Equal(t, "Cotización enviada: $3,500", o.Timeline()[1].Note())

	// C
	require.NoError(t, o.AcceptQuotation(t0.Add(2*time.Minute)))
	assert.Equal(t, order.Accepted, o.Status())
	q, _ = o.Quotation()
	require.NotNil(t, q.AcceptedAt())
	assert.Len(t, o.Timeline(), 3)
	require.ErrorIs(t, o.AcceptQuotation(t0.Add(3*time.Minute)), errs.ErrInvalidStateTransition)
	assert.Len(t, o.Timeline(), 3)

	// D
	require.NoError(t, o.MarkInProgress(t0.Add(3*time.Minute)))
	require.NoError(t, o.MarkCompleted(t0.Add(4*time.Minute)))
	p, err := order.NewPayment(order.Card, decimal.NewFromInt(3500), t0.Add(5*time.Minute), "tx-1")
	require.NoError(t, err)
	require.NoError(t, o.RecordPayment(p))
	assert.Equal(t, order.Paid, o.Status())
	paid, ok := o.Payment()
	require.True(t, ok)
	assert.Equal(t, "tx-1", paid.TransactionID())
	assert.Len(t, o.Timeline(), 6)

	// E
	r, err := order.NewRating(5, "Great job", t0.Add(6*time.Minute))
	require.NoError(t, err)
	require.NoError(t, o.Rate(r))
	assert.Equal(t, order.Rated, o.Status())
	assert.Len(t, o.Timeline(), 7)
	require.ErrorIs(t, o.Cancel("x", t0.Add(7*time.Minute)), errs.ErrInvalidStateTransition)

	assertTimelineInvariant(t, o)
	assert.Equal(t, 7, o.Version())
	assert.Len(t, o.PullEvents(), 7)
}

func TestOrder_Cancel(t *testing.T) {
	t.Run("should cancel a pending order and become terminal", func(t *testing.T) {
		o := newPendingOrder(t)

		require.NoError(t, o.Cancel("changed mind", t0.Add(time.Minute)))

		assert.Equal(t, order.Cancelled, o.Status())
		require.Len(t, o.Timeline(), 2)
		assert.Equal(t, "Solicitud cancelada: changed mind", o.Timeline()[1].Note())
		require.ErrorIs(t, o.SubmitQuotation(quotation(t, t0)), errs.ErrInvalidStateTransition)
		require.ErrorIs(t, o.Cancel("again", t0), errs.ErrInvalidStateTransition)
		assertTimelineInvariant(t, o)
	})

	t.Run("should cancel a quoted order and keep the quotation", func(t *testing.T) {
		o := newPendingOrder(t)
		advanceTo(t, o, order.Quoted)

		require.NoError(t, o.Cancel("", t0.Add(time.Hour)))

		_, hasQ := o.Quotation()
		assert.True(t, hasQ)
		assert.Equal(t, "Solicitud cancelada", o.Timeline()[2].Note())
		assertTimelineInvariant(t, o)
	})

	for _, s := range []order.Status{order.Accepted, order.InProgress, order.Completed, order.Paid} {
		t.Run("should not cancel from "+s.String(), func(t *testing.T) {
			o := newPendingOrder(t)
			advanceTo(t, o, s)

			err := o.Cancel("late", t0.Add(time.Hour))

			var transitionErr *errs.InvalidStateTransitionError
			require.ErrorAs(t, err, &transitionErr)
			assert.Equal(t, o.ID().String(), transitionErr.OrderID)
			assert.Equal(t, s.String(), transitionErr.Status)
			assert.Equal(t, s, o.Status())
		})
	}
}

func TestOrder_RejectedTransitionDoesNotMutate(t *testing.T) {
	o := newPendingOrder(t)
	before := o.Clone()

	require.ErrorIs(t, o.AcceptQuotation(t0.Add(time.Minute)), errs.ErrInvalidStateTransition)
	require.ErrorIs(t, o.MarkCompleted(t0.Add(time.Minute)), errs.ErrInvalidStateTransition)
	require.Error(t, o.SubmitQuotation(order.Quotation{}))

	assert.Equal(t, before.Status(), o.Status())
	assert.Equal(t, before.Timeline(), o.Timeline())
	assert.Equal(t, before.Version(), o.Version())
	_, hasQ := o.Quotation()
	assert.False(t, hasQ)
}

func TestOrder_CheckCanApply(t *testing.T) {
	o := newPendingOrder(t)

	require.NoError(t, o.CheckCanApply(order.SubmitQuotation))
	require.NoError(t, o.CheckCanApply(order.Cancel))
	require.ErrorIs(t, o.CheckCanApply(order.ProcessPayment), errs.ErrInvalidStateTransition)
	assert.Equal(t, order.Pending, o.Status())
}

func TestOrder_TimelineClampsClockSkew(t *testing.T) {
	o := newPendingOrder(t)

	require.NoError(t, o.Cancel("skew", t0.Add(-time.Hour)))

	entries := o.Timeline()
	assert.Equal(t, entries[0].Timestamp(), entries[1].Timestamp())
	assert.Equal(t, t0, o.UpdatedAt())
}

func TestOrder_Clone(t *testing.T) {
	o := newPendingOrder(t)
	advanceTo(t, o, order.Quoted)

	c := o.Clone()
	require.NoError(t, c.AcceptQuotation(t0.Add(time.Hour)))

	assert.Equal(t, order.Quoted, o.Status())
	q, _ := o.Quotation()
	assert.Nil(t, q.AcceptedAt())
	assert.Len(t, o.Timeline(), 2)
	assert.Len(t, c.PullEvents(), 1)
}

func TestRestoreOrder(t *testing.T) {
	params := validParams(t)
	id := kernel.NewUUID()
	q := quotation(t, t0.Add(time.Minute))

	restore := func(mut func(p *order.RestoreOrderParams)) (*order.Order, error) {
		p := order.RestoreOrderParams{
			NewOrderParams: params,
			ID:             id,
			Status:         order.Quoted,
			Quotation:      &q,
			Timeline: []order.TimelineEntry{
				order.NewTimelineEntry(order.Pending, t0, "Solicitud creada"),
				order.NewTimelineEntry(order.Quoted, t0.Add(time.Minute), "Cotización enviada: $3,500"),
			},
			ConversationID: "conv-1",
			CreatedAt:      t0,
			UpdatedAt:      t0.Add(time.Minute),
			Version:        2,
		}
		if mut != nil {
			mut(&p)
		}
		return order.RestoreOrder(p)
	}

	t.Run("should restore a consistent order", func(t *testing.T) {
		o, err := restore(nil)

		require.NoError(t, err)
		require.NoError(t, o.Validate())
		assert.Equal(t, order.Quoted, o.Status())
		assert.Equal(t, 2, o.Version())
		assert.Equal(t, "conv-1", o.ConversationID())
		assert.Empty(t, o.PullEvents())
		require.NoError(t, o.AcceptQuotation(t0.Add(2*time.Minute)))
		assert.Equal(t, 3, o.Version())
	})

	t.Run("should reject a missing quotation", func(t *testing.T) {
		_, err := restore(func(p *order.RestoreOrderParams) { p.Quotation = nil })
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("should reject a timeline that disagrees with the status", func(t *testing.T) {
		_, err := restore(func(p *order.RestoreOrderParams) { p.Timeline = p.Timeline[:1] })
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("should reject a zero version", func(t *testing.T) {
		_, err := restore(func(p *order.RestoreOrderParams) { p.Version = 0 })
		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})
}

func TestOrder_ZeroValueIsNotConstructed(t *testing.T) {
	var o order.Order
	require.ErrorIs(t, o.Validate(), order.ErrOrderIsNotConstructed)

	var nilOrder *order.Order
	require.ErrorIs(t, nilOrder.Validate(), order.ErrOrderIsNotConstructed)
}

func TestOrder_LinkConversation(t *testing.T) {
	o := newPendingOrder(t)

	require.ErrorIs(t, o.LinkConversation(" "), errs.ErrValueIsRequired)
	require.NoError(t, o.LinkConversation("thread-9"))
	assert.Equal(t, "thread-9", o.ConversationID())
	assert.Len(t, o.Timeline(), 1)
}
