package commands_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"serviceorders/internal/core/application/usecases/commands"
	"serviceorders/internal/core/domain/model/kernel"
	"serviceorders/internal/core/domain/model/order"
	"serviceorders/internal/core/ports"
	"serviceorders/internal/pkg/keylock"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) ListByClient(ctx context.Context, clientID string) ([]*order.Order, error) {
	args := m.Called(ctx, clientID)
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *MockOrderRepository) ListByProfessional(ctx context.Context, professionalID string) ([]*order.Order, error) {
	args := m.Called(ctx, professionalID)
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *MockOrderRepository) ListByStatus(ctx context.Context, status order.Status) ([]*order.Order, error) {
	args := m.Called(ctx, status)
	return args.Get(0).([]*order.Order), args.Error(1)
}

type MockOrderUoW struct{ mock.Mock }

func (m *MockOrderUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

// TrackedAggregates accepts either a slice or a func returning one, for
// aggregates that only exist once the handler runs.
func (m *MockOrderUoW) TrackedAggregates() []*order.Order {
	args := m.Called()
	if fn, ok := args.Get(0).(func() []*order.Order); ok {
		return fn()
	}
	return args.Get(0).([]*order.Order)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockNotificationSink struct{ mock.Mock }

func (m *MockNotificationSink) Publish(ctx context.Context, event order.LifecycleEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

type MockConversationLinker struct{ mock.Mock }

func (m *MockConversationLinker) Link(ctx context.Context, orderID kernel.UUID, clientID, professionalID string) (string, error) {
	args := m.Called(ctx, orderID, clientID, professionalID)
	return args.String(0), args.Error(1)
}

type MockPaymentGateway struct{ mock.Mock }

func (m *MockPaymentGateway) Charge(ctx context.Context, req ports.ChargeRequest) (ports.ChargeResult, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(ports.ChargeResult), args.Error(1)
}

func newRunner(factory commands.OrderUoWFactory, sink ports.NotificationSink) *commands.TransitionRunner {
	return commands.NewTransitionRunner(factory, keylock.New(), sink, clock, discardLogger())
}

func eventTo(status order.Status) any {
	return mock.MatchedBy(func(e order.LifecycleEvent) bool { return e.NewStatus == status })
}

// orderIn returns an order walked to status with its events already drained,
// as a repository would return it.
func orderIn(t *testing.T, status order.Status) *order.Order {
	t.Helper()
	location, err := kernel.NewLocation("Av. Insurgentes Sur 1602, CDMX")
	require.NoError(t, err)
	o, err := order.NewOrder(kernel.NewUUID(), order.NewOrderParams{
		ClientID:       "C1",
		ProfessionalID: "P1",
		ServiceType:    order.Immediate,
		Description:    "Leak repair",
		Location:       location,
		Urgency:        order.High,
	}, fixedNow.Add(-time.Hour))
	require.NoError(t, err)

	at := fixedNow.Add(-time.Hour)
	for o.Status() != status {
		at = at.Add(time.Minute)
		switch o.Status() { //nolint:exhaustive // walks the happy path only
		case order.Pending:
			if status == order.Cancelled {
				require.NoError(t, o.Cancel("", at))
				continue
			}
			q, err := order.NewQuotation(decimal.NewFromInt(3500), "Pipe fix", "30-45 min", at)
			require.NoError(t, err)
			require.NoError(t, o.SubmitQuotation(q))
		case order.Quoted:
			require.NoError(t, o.AcceptQuotation(at))
		case order.Accepted:
			require.NoError(t, o.MarkInProgress(at))
		case order.InProgress:
			require.NoError(t, o.MarkCompleted(at))
		case order.Completed:
			p, err := order.NewPayment(order.Card, decimal.NewFromInt(3500), at, "tx-0")
			require.NoError(t, err)
			require.NoError(t, o.RecordPayment(p))
		case order.Paid:
			r, err := order.NewRating(4, "", at)
			require.NoError(t, err)
			require.NoError(t, o.Rate(r))
		default:
			t.Fatalf("cannot walk from %s to %s", o.Status(), status)
		}
	}
	o.PullEvents()
	return o
}

// expectTransition wires the happy-path unit of work sequence for o.
func expectTransition(ctx context.Context, o *order.Order) (*MockOrderUoWFactory, *MockOrderUoW, *MockOrderRepository) {
	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("GetForUpdate", ctx, o.ID()).Return(o, nil).Once(),
		repo.On("Update", ctx, o).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("TrackedAggregates").Return([]*order.Order{o}).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)
	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()
	return factory, uow, repo
}

// expectRejected wires a unit of work that loads o and is rolled back.
func expectRejected(ctx context.Context, o *order.Order) (*MockOrderUoWFactory, *MockOrderUoW, *MockOrderRepository) {
	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("GetForUpdate", ctx, o.ID()).Return(o, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)
	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()
	return factory, uow, repo
}
