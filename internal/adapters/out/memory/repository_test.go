package memory_test

import (
	"context"
	"testing"
	"time"

	"serviceorders/internal/adapters/out/memory"
	"serviceorders/internal/core/domain/model/kernel"
	"serviceorders/internal/core/domain/model/order"
	"serviceorders/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

func newOrder(t *testing.T, clientID, professionalID string, createdAt time.Time) *order.Order {
	t.Helper()
	location, err := kernel.NewLocation("Av. Juárez 100, Guadalajara")
	require.NoError(t, err)
	o, err := order.NewOrder(kernel.NewUUID(), order.NewOrderParams{
		ClientID:       clientID,
		ProfessionalID: professionalID,
		ServiceType:    order.Immediate,
		Description:    "Leak repair",
		Location:       location,
		Urgency:        order.Low,
	}, createdAt)
	require.NoError(t, err)
	return o
}

func TestOrderRepository_AddGet(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewOrderRepository(memory.NewStore())
	o := newOrder(t, "C1", "P1", t0)

	require.NoError(t, repo.Add(ctx, o))
	require.ErrorIs(t, repo.Add(ctx, o), memory.ErrOrderAlreadyExists)

	got, err := repo.Get(ctx, o.ID())
	require.NoError(t, err)
	assert.True(t, got.IsEqual(o))
	assert.Equal(t, o.Timeline(), got.Timeline())

	_, err = repo.Get(ctx, kernel.NewUUID())
	require.ErrorIs(t, err, errs.ErrObjectNotFound)
}

func TestOrderRepository_SnapshotsAreDetached(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewOrderRepository(memory.NewStore())
	o := newOrder(t, "C1", "P1", t0)
	require.NoError(t, repo.Add(ctx, o))

	got, err := repo.Get(ctx, o.ID())
	require.NoError(t, err)
	require.NoError(t, got.Cancel("local only", t0.Add(time.Minute)))
	require.NoError(t, o.Cancel("caller copy", t0.Add(time.Minute)))

	again, err := repo.Get(ctx, o.ID())
	require.NoError(t, err)
	assert.Equal(t, order.Pending, again.Status())
	assert.Len(t, again.Timeline(), 1)
}

func TestOrderRepository_UpdateChecksVersion(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewOrderRepository(memory.NewStore())
	o := newOrder(t, "C1", "P1", t0)
	require.NoError(t, repo.Add(ctx, o))

	first, _ := repo.Get(ctx, o.ID())
	second, _ := repo.Get(ctx, o.ID())
	require.NoError(t, first.Cancel("one", t0.Add(time.Minute)))
	require.NoError(t, second.Cancel("two", t0.Add(time.Minute)))

	require.NoError(t, repo.Update(ctx, first))
	require.ErrorIs(t, repo.Update(ctx, second), errs.ErrVersionIsInvalid)

	stored, _ := repo.Get(ctx, o.ID())
	assert.Equal(t, "Solicitud cancelada: one", stored.Timeline()[1].Note())
}

func TestOrderRepository_UpdateUnknown(t *testing.T) {
	repo := memory.NewOrderRepository(memory.NewStore())
	o := newOrder(t, "C1", "P1", t0)
	require.NoError(t, o.Cancel("", t0))

	require.ErrorIs(t, repo.Update(context.Background(), o), errs.ErrObjectNotFound)
}

func TestOrderRepository_Lists(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewOrderRepository(memory.NewStore())
	older := newOrder(t, "C1", "P1", t0)
	newer := newOrder(t, "C1", "P2", t0.Add(time.Hour))
	other := newOrder(t, "C2", "P1", t0.Add(2*time.Hour))
	for _, o := range []*order.Order{older, newer, other} {
		require.NoError(t, repo.Add(ctx, o))
	}
	cancelled, _ := repo.Get(ctx, other.ID())
	require.NoError(t, cancelled.Cancel("", t0.Add(3*time.Hour)))
	require.NoError(t, repo.Update(ctx, cancelled))

	byClient, err := repo.ListByClient(ctx, "C1")
	require.NoError(t, err)
	require.Len(t, byClient, 2)
	assert.True(t, byClient[0].IsEqual(newer))
	assert.True(t, byClient[1].IsEqual(older))

	byPro, err := repo.ListByProfessional(ctx, "P1")
	require.NoError(t, err)
	assert.Len(t, byPro, 2)

	pending, err := repo.ListByStatus(ctx, order.Pending)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.True(t, pending[0].IsEqual(older))

	none, err := repo.ListByClient(ctx, "nobody")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestUnitOfWork_CommitAndRollback(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	factory := memory.NewUnitOfWorkFactory(store)

	t.Run("rollback discards staged writes", func(t *testing.T) {
		uow := factory.Create()
		require.NoError(t, uow.Begin(ctx))
		o := newOrder(t, "C1", "P1", t0)
		require.NoError(t, uow.OrderRepository().Add(ctx, o))

		staged, err := uow.OrderRepository().Get(ctx, o.ID())
		require.NoError(t, err)
		assert.True(t, staged.IsEqual(o))
		assert.Equal(t, 0, store.Len())

		require.NoError(t, uow.Rollback(ctx))
		assert.Equal(t, 0, store.Len())
		require.ErrorIs(t, uow.Rollback(ctx), memory.ErrNoActiveTransaction)
	})

	t.Run("commit publishes staged writes and tracks aggregates", func(t *testing.T) {
		uow := factory.Create()
		require.NoError(t, uow.Begin(ctx))
		o := newOrder(t, "C1", "P1", t0)
		require.NoError(t, uow.OrderRepository().Add(ctx, o))

		require.NoError(t, uow.Commit(ctx))

		assert.Equal(t, 1, store.Len())
		tracked := uow.TrackedAggregates()
		require.Len(t, tracked, 1)
		assert.Same(t, o, tracked[0])
		require.ErrorIs(t, uow.Commit(ctx), memory.ErrNoActiveTransaction)
	})

	t.Run("commit fails as a whole on a version conflict", func(t *testing.T) {
		seed := newOrder(t, "C1", "P1", t0)
		require.NoError(t, memory.NewOrderRepository(store).Add(ctx, seed))
		before := store.Len()

		uow := factory.Create()
		require.NoError(t, uow.Begin(ctx))
		repo := uow.OrderRepository()
		fresh := newOrder(t, "C3", "P3", t0)
		require.NoError(t, repo.Add(ctx, fresh))
		stale, err := repo.Get(ctx, seed.ID())
		require.NoError(t, err)
		require.NoError(t, stale.Cancel("", t0))
		require.NoError(t, repo.Update(ctx, stale))

		concurrent, _ := memory.NewOrderRepository(store).Get(ctx, seed.ID())
		require.NoError(t, concurrent.Cancel("first", t0))
		require.NoError(t, memory.NewOrderRepository(store).Update(ctx, concurrent))

		require.ErrorIs(t, uow.Commit(ctx), errs.ErrVersionIsInvalid)
		assert.Equal(t, before, store.Len())
	})
}
