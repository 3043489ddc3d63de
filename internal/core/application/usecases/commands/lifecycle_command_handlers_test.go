package commands_test

import (
	"context"
	"errors"
	"testing"

	"serviceorders/internal/core/application/usecases/commands"
	"serviceorders/internal/core/domain/model/kernel"
	"serviceorders/internal/core/domain/model/order"
	"serviceorders/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSubmitQuotationCommandHandler_Handle_Success(t *testing.T) {
	ctx := context.Background()
	o := orderIn(t, order.Pending)
	factory, uow, repo := expectTransition(ctx, o)
	sink := new(MockNotificationSink)
	sink.On("Publish", ctx, mock.MatchedBy(func(e order.LifecycleEvent) bool {
		return e.OldStatus == order.Pending && e.NewStatus == order.Quoted && e.Note == "Cotización enviada: $3,500"
	})).Return(nil).Once()

	cmd, err := commands.NewSubmitQuotationCommand(o.ID(), decimal.NewFromInt(3500), " Pipe fix ", "30-45 min")
	require.NoError(t, err)
	h := commands.NewSubmitQuotationCommandHandler(newRunner(factory, sink))

	require.NoError(t, h.Handle(ctx, cmd))

	assert.Equal(t, order.Quoted, o.Status())
	q, ok := o.Quotation()
	require.True(t, ok)
	assert.Equal(t, "Pipe fix", q.Description())
	assert.Equal(t, fixedNow, q.SentAt())
	assert.Len(t, o.Timeline(), 2)
	repo.AssertExpectations(t)
	uow.AssertExpectations(t)
	sink.AssertExpectations(t)
}

func TestSubmitQuotationCommandHandler_Handle_InvalidQuotation(t *testing.T) {
	ctx := context.Background()
	o := orderIn(t, order.Pending)
	factory, uow, repo := expectRejected(ctx, o)

	cmd, _ := commands.NewSubmitQuotationCommand(o.ID(), decimal.Zero, "", "")
	h := commands.NewSubmitQuotationCommandHandler(newRunner(factory, nil))

	err := h.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrValidation)
	assert.Contains(t, err.Error(), o.ID().String())
	assert.Contains(t, err.Error(), "PENDING")
	assert.Equal(t, order.Pending, o.Status())
	assert.Len(t, o.Timeline(), 1)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	uow.AssertExpectations(t)
}

func TestSubmitQuotationCommandHandler_Handle_StateCheckComesFirst(t *testing.T) {
	ctx := context.Background()
	o := orderIn(t, order.Accepted)
	factory, _, _ := expectRejected(ctx, o)

	// The amount is invalid too, but the wrong status wins.
	cmd, _ := commands.NewSubmitQuotationCommand(o.ID(), decimal.Zero, "", "")
	h := commands.NewSubmitQuotationCommandHandler(newRunner(factory, nil))

	err := h.Handle(ctx, cmd)

	var transitionErr *errs.InvalidStateTransitionError
	require.ErrorAs(t, err, &transitionErr)
	assert.Equal(t, "ACCEPTED", transitionErr.Status)
	assert.Equal(t, "submit_quotation", transitionErr.Operation)
	assert.NotErrorIs(t, err, errs.ErrValidation)
}

func TestTransitionHandlers_Success(t *testing.T) {
	tests := []struct {
		name string
		from order.Status
		to   order.Status
		run  func(ctx context.Context, r *commands.TransitionRunner, id kernel.UUID) error
	}{
		{
			name: "accept quotation", from: order.Quoted, to: order.Accepted,
			run: func(ctx context.Context, r *commands.TransitionRunner, id kernel.UUID) error {
				cmd, _ := commands.NewAcceptQuotationCommand(id)
				return commands.NewAcceptQuotationCommandHandler(r).Handle(ctx, cmd)
			},
		},
		{
			name: "mark in progress", from: order.Accepted, to: order.InProgress,
			run: func(ctx context.Context, r *commands.TransitionRunner, id kernel.UUID) error {
				cmd, _ := commands.NewMarkInProgressCommand(id)
				return commands.NewMarkInProgressCommandHandler(r).Handle(ctx, cmd)
			},
		},
		{
			name: "mark completed", from: order.InProgress, to: order.Completed,
			run: func(ctx context.Context, r *commands.TransitionRunner, id kernel.UUID) error {
				cmd, _ := commands.NewMarkCompletedCommand(id)
				return commands.NewMarkCompletedCommandHandler(r).Handle(ctx, cmd)
			},
		},
		{
			name: "submit rating", from: order.Paid, to: order.Rated,
			run: func(ctx context.Context, r *commands.TransitionRunner, id kernel.UUID) error {
				cmd, _ := commands.NewSubmitRatingCommand(id, 5, "Great job")
				return commands.NewSubmitRatingCommandHandler(r).Handle(ctx, cmd)
			},
		},
		{
			name: "cancel pending", from: order.Pending, to: order.Cancelled,
			run: func(ctx context.Context, r *commands.TransitionRunner, id kernel.UUID) error {
				cmd, _ := commands.NewCancelOrderCommand(id, "changed mind")
				return commands.NewCancelOrderCommandHandler(r).Handle(ctx, cmd)
			},
		},
		{
			name: "cancel quoted", from: order.Quoted, to: order.Cancelled,
			run: func(ctx context.Context, r *commands.TransitionRunner, id kernel.UUID) error {
				cmd, _ := commands.NewCancelOrderCommand(id, "")
				return commands.NewCancelOrderCommandHandler(r).Handle(ctx, cmd)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			o := orderIn(t, tt.from)
			before := len(o.Timeline())
			factory, uow, repo := expectTransition(ctx, o)
			sink := new(MockNotificationSink)
			sink.On("Publish", ctx, eventTo(tt.to)).Return(nil).Once()

			require.NoError(t, tt.run(ctx, newRunner(factory, sink), o.ID()))

			assert.Equal(t, tt.to, o.Status())
			require.Len(t, o.Timeline(), before+1)
			last := o.Timeline()[before]
			assert.Equal(t, tt.to, last.Status())
			assert.Equal(t, fixedNow, last.Timestamp())
			repo.AssertExpectations(t)
			uow.AssertExpectations(t)
			sink.AssertExpectations(t)
		})
	}
}

func TestTransitionHandlers_InvalidState(t *testing.T) {
	tests := []struct {
		name string
		from order.Status
		run  func(ctx context.Context, r *commands.TransitionRunner, id kernel.UUID) error
	}{
		{
			name: "accept pending", from: order.Pending,
			run: func(ctx context.Context, r *commands.TransitionRunner, id kernel.UUID) error {
				cmd, _ := commands.NewAcceptQuotationCommand(id)
				return commands.NewAcceptQuotationCommandHandler(r).Handle(ctx, cmd)
			},
		},
		{
			name: "accept twice", from: order.Accepted,
			run: func(ctx context.Context, r *commands.TransitionRunner, id kernel.UUID) error {
				cmd, _ := commands.NewAcceptQuotationCommand(id)
				return commands.NewAcceptQuotationCommandHandler(r).Handle(ctx, cmd)
			},
		},
		{
			name: "complete before start", from: order.Accepted,
			run: func(ctx context.Context, r *commands.TransitionRunner, id kernel.UUID) error {
				cmd, _ := commands.NewMarkCompletedCommand(id)
				return commands.NewMarkCompletedCommandHandler(r).Handle(ctx, cmd)
			},
		},
		{
			name: "start cancelled", from: order.Cancelled,
			run: func(ctx context.Context, r *commands.TransitionRunner, id kernel.UUID) error {
				cmd, _ := commands.NewMarkInProgressCommand(id)
				return commands.NewMarkInProgressCommandHandler(r).Handle(ctx, cmd)
			},
		},
		{
			name: "rate twice", from: order.Rated,
			run: func(ctx context.Context, r *commands.TransitionRunner, id kernel.UUID) error {
				cmd, _ := commands.NewSubmitRatingCommand(id, 1, "changed my mind")
				return commands.NewSubmitRatingCommandHandler(r).Handle(ctx, cmd)
			},
		},
		{
			name: "cancel rated", from: order.Rated,
			run: func(ctx context.Context, r *commands.TransitionRunner, id kernel.UUID) error {
				cmd, _ := commands.NewCancelOrderCommand(id, "x")
				return commands.NewCancelOrderCommandHandler(r).Handle(ctx, cmd)
			},
		},
		{
			name: "cancel in progress", from: order.InProgress,
			run: func(ctx context.Context, r *commands.TransitionRunner, id kernel.UUID) error {
				cmd, _ := commands.NewCancelOrderCommand(id, "too slow")
				return commands.NewCancelOrderCommandHandler(r).Handle(ctx, cmd)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			o := orderIn(t, tt.from)
			timeline := o.Timeline()
			version := o.Version()
			factory, uow, repo := expectRejected(ctx, o)
			sink := new(MockNotificationSink)

			err := tt.run(ctx, newRunner(factory, sink), o.ID())

			var transitionErr *errs.InvalidStateTransitionError
			require.ErrorAs(t, err, &transitionErr)
			assert.Equal(t, o.ID().String(), transitionErr.OrderID)
			assert.Equal(t, tt.from.String(), transitionErr.Status)
			assert.Equal(t, tt.from, o.Status())
			assert.Equal(t, timeline, o.Timeline())
			assert.Equal(t, version, o.Version())
			repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
			uow.AssertExpectations(t)
			sink.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
		})
	}
}

func TestTransitionHandlers_NotFound(t *testing.T) {
	ctx := context.Background()
	id := kernel.NewUUID()

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("GetForUpdate", ctx, id).Return(nil, errs.NewObjectNotFoundError("orderId", id)).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)
	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	cmd, _ := commands.NewMarkCompletedCommand(id)
	err := commands.NewMarkCompletedCommandHandler(newRunner(factory, nil)).Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrObjectNotFound)
	uow.AssertExpectations(t)
}

func TestTransitionHandlers_UpdateConflict(t *testing.T) {
	ctx := context.Background()
	o := orderIn(t, order.Quoted)

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("GetForUpdate", ctx, o.ID()).Return(o, nil).Once(),
		repo.On("Update", ctx, o).Return(errs.NewVersionIsInvalidError("order")).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)
	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()
	sink := new(MockNotificationSink)

	cmd, _ := commands.NewCancelOrderCommand(o.ID(), "")
	err := commands.NewCancelOrderCommandHandler(newRunner(factory, sink)).Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrVersionIsInvalid)
	uow.AssertExpectations(t)
	sink.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestTransitionHandlers_LockTimeout(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	factory := new(MockOrderUoWFactory)

	cmd, _ := commands.NewAcceptQuotationCommand(kernel.NewUUID())
	err := commands.NewAcceptQuotationCommandHandler(newRunner(factory, nil)).Handle(ctx, cmd)

	require.ErrorIs(t, err, context.Canceled)
	factory.AssertNotCalled(t, "Create")
}

func TestCommands_ZeroValuesAreRejected(t *testing.T) {
	ctx := context.Background()
	r := newRunner(new(MockOrderUoWFactory), nil)

	require.ErrorIs(t, commands.NewAcceptQuotationCommandHandler(r).Handle(ctx, commands.AcceptQuotationCommand{}),
		commands.ErrAcceptQuotationCommandIsNotConstructed)
	require.ErrorIs(t, commands.NewMarkInProgressCommandHandler(r).Handle(ctx, commands.MarkInProgressCommand{}),
		commands.ErrMarkInProgressCommandIsNotConstructed)
	require.ErrorIs(t, commands.NewMarkCompletedCommandHandler(r).Handle(ctx, commands.MarkCompletedCommand{}),
		commands.ErrMarkCompletedCommandIsNotConstructed)
	require.ErrorIs(t, commands.NewSubmitRatingCommandHandler(r).Handle(ctx, commands.SubmitRatingCommand{}),
		commands.ErrSubmitRatingCommandIsNotConstructed)
	require.ErrorIs(t, commands.NewCancelOrderCommandHandler(r).Handle(ctx, commands.CancelOrderCommand{}),
		commands.ErrCancelOrderCommandIsNotConstructed)
	require.ErrorIs(t, commands.NewSubmitQuotationCommandHandler(r).Handle(ctx, commands.SubmitQuotationCommand{}),
		commands.ErrSubmitQuotationCommandIsNotConstructed)
}

func TestCommandConstructors_RejectZeroID(t *testing.T) {
	var id kernel.UUID

	_, err := commands.NewAcceptQuotationCommand(id)
	require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
	_, err = commands.NewSubmitQuotationCommand(id, decimal.NewFromInt(1), "x", "")
	require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
	_, err = commands.NewProcessPaymentCommand(id, "card", decimal.NewFromInt(1))
	require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
	_, err = commands.NewCancelOrderCommand(id, "")
	require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
}

func TestNewCancelOrderCommand_ReasonTooLong(t *testing.T) {
	long := make([]byte, commands.MaxCancelReasonLength+1)
	for i := range long {
		long[i] = 'a'
	}

	_, err := commands.NewCancelOrderCommand(kernel.NewUUID(), string(long))

	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	require.False(t, errors.Is(err, errs.ErrInvalidStateTransition))
}
