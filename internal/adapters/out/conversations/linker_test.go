package conversations_test

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"serviceorders/internal/adapters/out/conversations"
	"serviceorders/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLinker() *conversations.InMemoryLinker {
	return conversations.NewInMemoryLinker(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestInMemoryLinker_ReusesThreadPerPair(t *testing.T) {
	l := newLinker()
	first, second, other := kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID()

	a, err := l.Link(context.Background(), first, "C1", "P1")
	require.NoError(t, err)
	b, err := l.Link(context.Background(), second, "C1", "P1")
	require.NoError(t, err)
	c, err := l.Link(context.Background(), other, "C1", "P2")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(a, "conv_"))
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)

	got, ok := l.ConversationOf(second)
	require.True(t, ok)
	assert.Equal(t, a, got)
}

func TestInMemoryLinker_IdempotentPerOrder(t *testing.T) {
	l := newLinker()
	id := kernel.NewUUID()

	a, err := l.Link(context.Background(), id, "C1", "P1")
	require.NoError(t, err)
	b, err := l.Link(context.Background(), id, "C9", "P9")
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestInMemoryLinker_Errors(t *testing.T) {
	l := newLinker()

	_, err := l.Link(context.Background(), kernel.NewUUID(), " ", "P1")
	require.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = l.Link(ctx, kernel.NewUUID(), "C1", "P1")
	require.ErrorIs(t, err, context.Canceled)

	_, ok := l.ConversationOf(kernel.NewUUID())
	assert.False(t, ok)
}
