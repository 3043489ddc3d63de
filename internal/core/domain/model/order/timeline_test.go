package order_test

import (
	"testing"
	"time"

	"serviceorders/internal/core/domain/model/order"
	"serviceorders/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeline_Append(t *testing.T) {
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	t.Run("should keep insertion order", func(t *testing.T) {
		var tl order.Timeline
		tl.Append(order.Pending, base, "a")
		tl.Append(order.Quoted, base.Add(time.Minute), "b")

		entries := tl.Entries()
		require.Len(t, entries, 2)
		assert.Equal(t, order.Pending, entries[0].Status())
		assert.Equal(t, "b", entries[1].Note())
	})

	t.Run("should clamp a timestamp that goes backwards", func(t *testing.T) {
		var tl order.Timeline
		tl.Append(order.Pending, base, "a")
		entry := tl.Append(order.Quoted, base.Add(-time.Hour), "b")

		assert.Equal(t, base, entry.Timestamp())
	})

	t.Run("should not expose internal storage", func(t *testing.T) {
		var tl order.Timeline
		tl.Append(order.Pending, base, "a")

		entries := tl.Entries()
		entries[0] = order.NewTimelineEntry(order.Rated, base, "tampered")

		last, ok := tl.Last()
		require.True(t, ok)
		assert.Equal(t, order.Pending, last.Status())
	})
}

func TestRestoreTimeline(t *testing.T) {
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	t.Run("should reject an empty timeline", func(t *testing.T) {
		_, err := order.RestoreTimeline(nil)
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("should reject decreasing timestamps", func(t *testing.T) {
		_, err := order.RestoreTimeline([]order.TimelineEntry{
			order.NewTimelineEntry(order.Pending, base, ""),
			order.NewTimelineEntry(order.Quoted, base.Add(-time.Second), ""),
		})
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("should accept equal timestamps", func(t *testing.T) {
		tl, err := order.RestoreTimeline([]order.TimelineEntry{
			order.NewTimelineEntry(order.Pending, base, ""),
			order.NewTimelineEntry(order.Cancelled, base, ""),
		})
		require.NoError(t, err)
		assert.Equal(t, 2, tl.Len())
	})
}
