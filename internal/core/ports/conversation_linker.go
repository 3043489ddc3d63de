package ports

import (
	"context"

	"serviceorders/internal/core/domain/model/kernel"
)

// ConversationLinker opens a messaging thread between the client and the
// professional of a new order and returns its id.
type ConversationLinker interface {
	Link(ctx context.Context, orderID kernel.UUID, clientID, professionalID string) (string, error)
}
