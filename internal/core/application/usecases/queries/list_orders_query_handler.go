package queries

import (
	"context"
	"fmt"

	"serviceorders/internal/core/domain/model/order"
)

// ListOrdersQueryHandler reads a filtered list of orders.
type ListOrdersQueryHandler struct {
	reader OrderReader
}

func NewListOrdersQueryHandler(reader OrderReader) ListOrdersQueryHandler {
	return ListOrdersQueryHandler{reader: reader}
}

// Handle returns an empty, non-nil slice when nothing matches.
func (h ListOrdersQueryHandler) Handle(ctx context.Context, query ListOrdersQuery) ([]OrderView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	var (
		orders []*order.Order
		err    error
	)
	switch query.filter {
	case ByClient:
		orders, err = h.reader.ListByClient(ctx, query.value)
	case ByProfessional:
		orders, err = h.reader.ListByProfessional(ctx, query.value)
	case ByStatus:
		orders, err = h.reader.ListByStatus(ctx, query.status)
	default:
		return nil, fmt.Errorf("unsupported list filter %d", query.filter)
	}
	if err != nil {
		return nil, err
	}
	return newOrderViews(orders), nil
}
