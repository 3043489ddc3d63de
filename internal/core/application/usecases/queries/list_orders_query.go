package queries

import (
	"errors"
	"strings"

	"serviceorders/internal/core/domain/model/order"
	"serviceorders/internal/pkg/errs"
	"serviceorders/internal/pkg/guard"
)

var ErrListOrdersQueryIsNotConstructed = errors.New(
	"ListOrdersQuery must be created via one of the NewListOrdersBy... constructors",
)

// ListFilter selects which index a ListOrdersQuery reads.
type ListFilter int

const (
	ByClient ListFilter = iota + 1
	ByProfessional
	ByStatus
)

// ListOrdersQuery lists orders of one client, one professional or one status.
type ListOrdersQuery struct {
	filter ListFilter
	value  string
	status order.Status

	guard guard.ConstructorGuard
}

func NewListOrdersByClientQuery(clientID string) (ListOrdersQuery, error) {
	clientID = strings.TrimSpace(clientID)
	if clientID == "" {
		return ListOrdersQuery{}, errs.NewValueIsRequiredError("clientId")
	}
	return ListOrdersQuery{filter: ByClient, value: clientID, guard: guard.NewConstructorGuard()}, nil
}

func NewListOrdersByProfessionalQuery(professionalID string) (ListOrdersQuery, error) {
	professionalID = strings.TrimSpace(professionalID)
	if professionalID == "" {
		return ListOrdersQuery{}, errs.NewValueIsRequiredError("professionalId")
	}
	return ListOrdersQuery{filter: ByProfessional, value: professionalID, guard: guard.NewConstructorGuard()}, nil
}

// NewListOrdersByStatusQuery accepts the status name, e.g. "IN_PROGRESS".
func NewListOrdersByStatusQuery(status string) (ListOrdersQuery, error) {
	s, err := order.ParseStatus(status)
	if err != nil {
		return ListOrdersQuery{}, err
	}
	return ListOrdersQuery{filter: ByStatus, status: s, value: s.String(), guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through a constructor.
func (q ListOrdersQuery) Validate() error {
	return q.guard.Validate(ErrListOrdersQueryIsNotConstructed)
}

func (q ListOrdersQuery) Filter() ListFilter {
	return q.filter
}

// Value is the client id, professional id or status name being filtered on.
func (q ListOrdersQuery) Value() string {
	return q.value
}
