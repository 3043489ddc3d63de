package order_test

import (
	"testing"

	"serviceorders/internal/core/domain/model/order"
	"serviceorders/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allOperations = []order.Operation{
	order.SubmitQuotation,
	order.AcceptQuotation,
	order.MarkInProgress,
	order.MarkCompleted,
	order.ProcessPayment,
	order.SubmitRating,
	order.Cancel,
}

var allStatuses = []order.Status{
	order.Pending,
	order.Quoted,
	order.Accepted,
	order.InProgress,
	order.Completed,
	order.Paid,
	order.Rated,
	order.Cancelled,
}

func TestStatus_Next(t *testing.T) {
	allowed := map[order.Status]map[order.Operation]order.Status{
		order.Pending:    {order.SubmitQuotation: order.Quoted, order.Cancel: order.Cancelled},
		order.Quoted:     {order.AcceptQuotation: order.Accepted, order.Cancel: order.Cancelled},
		order.Accepted:   {order.MarkInProgress: order.InProgress},
		order.InProgress: {order.MarkCompleted: order.Completed},
		order.Completed:  {order.ProcessPayment: order.Paid},
		order.Paid:       {order.SubmitRating: order.Rated},
	}

	for _, from := range allStatuses {
		for _, op := range allOperations {
			want, ok := allowed[from][op]
			t.Run(from.String()+"/"+op.String(), func(t *testing.T) {
				got, err := from.Next(op)
				if ok {
					require.NoError(t, err)
					assert.Equal(t, want, got)
					assert.True(t, from.Allows(op))
					return
				}
				require.ErrorIs(t, err, errs.ErrInvalidStateTransition)
				assert.Equal(t, order.Unknown, got)
				assert.False(t, from.Allows(op))
			})
		}
	}
}

func TestStatus_IsTerminal(t *testing.T) {
	for _, s := range allStatuses {
		terminal := s == order.Rated || s == order.Cancelled
		assert.Equal(t, terminal, s.IsTerminal(), s.String())
		if terminal {
			for _, op := range allOperations {
				assert.False(t, s.Allows(op))
			}
		}
	}
}

func TestParseStatus(t *testing.T) {
	for _, s := range allStatuses {
		parsed, err := order.ParseStatus(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, parsed)
	}

	parsed, err := order.ParseStatus(" in_progress ")
	require.NoError(t, err)
	assert.Equal(t, order.InProgress, parsed)

	_, err = order.ParseStatus("DELIVERED")
	require.ErrorIs(t, err, errs.ErrValidation)
}

func TestStatus_Validate(t *testing.T) {
	require.NoError(t, order.Pending.Validate())
	require.Error(t, order.Unknown.Validate())
	require.Error(t, order.Status(42).Validate())
	assert.Equal(t, "UNKNOWN", order.Status(42).String())
}

func TestStatus_ValidateSubRecords(t *testing.T) {
	tests := []struct {
		name                string
		status              order.Status
		quotation, pay, rat bool
		wantErr             bool
	}{
		{"pending bare", order.Pending, false, false, false, false},
		{"pending with quotation", order.Pending, true, false, false, true},
		{"quoted needs quotation", order.Quoted, false, false, false, true},
		{"quoted", order.Quoted, true, false, false, false},
		{"completed with payment", order.Completed, true, true, false, true},
		{"paid", order.Paid, true, true, false, false},
		{"paid without payment", order.Paid, true, false, false, true},
		{"rated", order.Rated, true, true, true, false},
		{"rated without rating", order.Rated, true, true, false, true},
		{"cancelled from pending", order.Cancelled, false, false, false, false},
		{"cancelled from quoted", order.Cancelled, true, false, false, false},
		{"cancelled with payment", order.Cancelled, true, true, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.status.ValidateSubRecords(tt.quotation, tt.pay, tt.rat)
			if tt.wantErr {
				require.ErrorIs(t, err, errs.ErrValidation)
				return
			}
			require.NoError(t, err)
		})
	}
}
