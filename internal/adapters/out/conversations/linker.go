// Package conversations links new orders to a messaging thread between the
// client and the professional.
package conversations

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"serviceorders/internal/core/domain/model/kernel"
	"serviceorders/internal/core/ports"

	"github.com/oklog/ulid/v2"
)

var _ ports.ConversationLinker = (*InMemoryLinker)(nil)

var errParticipantMissing = errors.New("both participants are required")

type thread struct {
	id           string
	client       string
	professional string
}

// InMemoryLinker keeps one thread per client/professional pair and reuses it
// for every order between them. Linking the same order twice returns the same
// thread.
type InMemoryLinker struct {
	mu      sync.Mutex
	byPair  map[string]*thread
	byOrder map[string]*thread
	logger  *slog.Logger
}

func NewInMemoryLinker(logger *slog.Logger) *InMemoryLinker {
	if logger == nil {
		logger = slog.Default()
	}
	return &InMemoryLinker{
		byPair:  make(map[string]*thread),
		byOrder: make(map[string]*thread),
		logger:  logger.With("component", "conversation_linker"),
	}
}

func (l *InMemoryLinker) Link(ctx context.Context, orderID kernel.UUID, clientID, professionalID string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	clientID, professionalID = strings.TrimSpace(clientID), strings.TrimSpace(professionalID)
	if clientID == "" || professionalID == "" {
		return "", errParticipantMissing
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if t, ok := l.byOrder[orderID.String()]; ok {
		return t.id, nil
	}

	key := clientID + "\x00" + professionalID
	t, ok := l.byPair[key]
	if !ok {
		t = &thread{id: "conv_" + ulid.Make().String(), client: clientID, professional: professionalID}
		l.byPair[key] = t
		l.logger.InfoContext(ctx, "Conversation opened",
			"conversation_id", t.id, "client_id", clientID, "professional_id", professionalID)
	}
	l.byOrder[orderID.String()] = t
	return t.id, nil
}

// ConversationOf returns the thread linked to orderID, if any.
func (l *InMemoryLinker) ConversationOf(orderID kernel.UUID) (string, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	t, ok := l.byOrder[orderID.String()]
	if !ok {
		return "", false
	}
	return t.id, true
}
