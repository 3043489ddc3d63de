// Package memory is the default storage backend: a process-local map guarded by
// a RWMutex. Every read and write copies the aggregate, so callers never share
// state with the store. A unit of work stages its writes and applies them in one
// critical section on commit, with the same version check as the database backends.
package memory

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"serviceorders/internal/core/domain/model/order"
	"serviceorders/internal/pkg/errs"
)

// ErrOrderAlreadyExists is returned when Add is called twice for the same id.
var ErrOrderAlreadyExists = errors.New("order already exists")

// Store holds the committed orders keyed by id.
type Store struct {
	mu     sync.RWMutex
	orders map[string]*order.Order
}

func NewStore() *Store {
	return &Store{orders: make(map[string]*order.Order)}
}

type write struct {
	aggregate *order.Order
	isNew     bool
}

func (s *Store) get(id string) (*order.Order, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.orders[id]
	if !ok {
		return nil, false
	}
	return o.Clone(), true
}

// list returns copies of the matching orders ordered by creation time, then id.
func (s *Store) list(match func(*order.Order) bool, newestFirst bool) []*order.Order {
	s.mu.RLock()
	result := make([]*order.Order, 0)
	for _, o := range s.orders {
		if match(o) {
			result = append(result, o.Clone())
		}
	}
	s.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		a, b := result[i], result[j]
		if !a.CreatedAt().Equal(b.CreatedAt()) {
			if newestFirst {
				return a.CreatedAt().After(b.CreatedAt())
			}
			return a.CreatedAt().Before(b.CreatedAt())
		}
		return a.ID().String() < b.ID().String()
	})
	return result
}

// apply checks every write before changing anything, so a batch is all or nothing.
func (s *Store) apply(writes []write) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, w := range writes {
		id := w.aggregate.ID().String()
		stored, exists := s.orders[id]
		switch {
		case w.isNew && exists:
			return fmt.Errorf("%w: %s", ErrOrderAlreadyExists, id)
		case w.isNew:
		case !exists:
			return errs.NewObjectNotFoundError("orderId", id)
		case stored.Version() != w.aggregate.Version()-1:
			return errs.NewVersionIsInvalidErrorWithCause("order "+id,
				fmt.Errorf("stored version %d, update based on %d", stored.Version(), w.aggregate.Version()-1))
		}
	}

	for _, w := range writes {
		s.orders[w.aggregate.ID().String()] = w.aggregate.Clone()
	}
	return nil
}

// Len returns the number of stored orders.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.orders)
}
