package commands

import (
	"context"
	"log/slog"
	"time"

	"serviceorders/internal/core/domain/model/kernel"
	"serviceorders/internal/core/domain/model/order"
	"serviceorders/internal/core/ports"
)

// CreateOrderCommandHandler registers a new order in Pending status.
//
// When a ConversationLinker is configured the order is linked to a messaging
// thread before it is stored. A linking failure is logged and the order is
// created without a conversation.
type CreateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	linker     ports.ConversationLinker
	publisher  EventPublisher
	now        func() time.Time
	logger     *slog.Logger
}

// NewCreateOrderCommandHandler creates a handler for order creation. linker may be nil.
func NewCreateOrderCommandHandler(
	uowFactory OrderUoWFactory,
	linker ports.ConversationLinker,
	sink ports.NotificationSink,
	now func() time.Time,
	logger *slog.Logger,
) CreateOrderCommandHandler {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		linker:     linker,
		publisher:  NewEventPublisher(sink, logger),
		now:        now,
		logger:     logger.With("component", "create_order_handler"),
	}
}

// Handle builds, links and stores the order and returns its new id.
func (h CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (kernel.UUID, error) {
	if err := cmd.Validate(); err != nil {
		return kernel.UUID{}, err
	}

	o, err := order.NewOrder(kernel.NewUUID(), cmd.Params(), h.now())
	if err != nil {
		return kernel.UUID{}, err
	}

	h.linkConversation(ctx, o)

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return kernel.UUID{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.OrderRepository().Add(ctx, o); err != nil {
		return kernel.UUID{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return kernel.UUID{}, err
	}

	h.publisher.PublishTracked(ctx, uow)
	return o.ID(), nil
}

func (h CreateOrderCommandHandler) linkConversation(ctx context.Context, o *order.Order) {
	if h.linker == nil {
		return
	}

	conversationID, err := h.linker.Link(ctx, o.ID(), o.ClientID(), o.ProfessionalID())
	if err == nil {
		err = o.LinkConversation(conversationID)
	}
	if err != nil {
		h.logger.WarnContext(ctx, "Conversation linking failed, order created without thread",
			"order_id", o.ID().String(), "error", err)
	}
}
