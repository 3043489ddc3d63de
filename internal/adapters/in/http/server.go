package http

import (
	"log/slog"
	"net/http"

	"serviceorders/internal/core/application/usecases/commands"
	"serviceorders/internal/core/application/usecases/queries"
	"serviceorders/internal/core/domain/model/kernel"
	"serviceorders/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Handlers groups the use cases exposed over HTTP.
type Handlers struct {
	CreateOrder     commands.CreateOrderCommandHandler
	SubmitQuotation commands.SubmitQuotationCommandHandler
	AcceptQuotation commands.AcceptQuotationCommandHandler
	MarkInProgress  commands.MarkInProgressCommandHandler
	MarkCompleted   commands.MarkCompletedCommandHandler
	ProcessPayment  commands.ProcessPaymentCommandHandler
	SubmitRating    commands.SubmitRatingCommandHandler
	CancelOrder     commands.CancelOrderCommandHandler

	GetOrder   queries.GetOrderQueryHandler
	ListOrders queries.ListOrdersQueryHandler
}

// Server translates HTTP requests into commands and queries.
// It coordinates between HTTP handlers and application use cases.
type Server struct {
	h      Handlers
	logger *slog.Logger
}

func NewServer(h Handlers, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{h: h, logger: logger.With("component", "http_server")}
}

// Register mounts the order API under /api/v1.
func (s *Server) Register(e *echo.Echo) {
	g := e.Group("/api/v1")

	g.POST("/orders", s.CreateOrder)
	g.GET("/orders", s.ListOrdersByStatus)
	g.GET("/orders/:id", s.GetOrder)
	g.GET("/clients/:clientId/orders", s.ListClientOrders)
	g.GET("/professionals/:professionalId/orders", s.ListProfessionalOrders)

	g.POST("/orders/:id/quotation", s.SubmitQuotation)
	g.POST("/orders/:id/quotation/accept", s.AcceptQuotation)
	g.POST("/orders/:id/start", s.StartWork)
	g.POST("/orders/:id/complete", s.CompleteWork)
	g.POST("/orders/:id/payment", s.ProcessPayment)
	g.POST("/orders/:id/rating", s.SubmitRating)
	g.POST("/orders/:id/cancel", s.CancelOrder)
}

// CreateOrder handles POST /api/v1/orders.
func (s *Server) CreateOrder(c echo.Context) error {
	var body NewOrder
	if err := c.Bind(&body); err != nil {
		return badRequest(c)
	}

	cmd, err := commands.NewCreateOrderCommand(commands.CreateOrderParams{
		ClientID:       body.ClientID,
		ProfessionalID: body.ProfessionalID,
		ServiceType:    body.ServiceType,
		Description:    body.Description,
		Address:        body.Location.Address,
		Latitude:       body.Location.Latitude,
		Longitude:      body.Location.Longitude,
		Photos:         body.Photos,
		ScheduledDate:  body.ScheduledDate,
		Urgency:        body.Urgency,
	})
	if err != nil {
		return s.fail(c, err)
	}

	id, err := s.h.CreateOrder.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusCreated, CreatedOrder{ID: id.String()})
}

// GetOrder handles GET /api/v1/orders/:id.
func (s *Server) GetOrder(c echo.Context) error {
	id, err := orderID(c)
	if err != nil {
		return s.fail(c, err)
	}
	query, err := queries.NewGetOrderQuery(id)
	if err != nil {
		return s.fail(c, err)
	}

	view, err := s.h.GetOrder.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, view)
}

// ListOrdersByStatus handles GET /api/v1/orders?status=.
func (s *Server) ListOrdersByStatus(c echo.Context) error {
	query, err := queries.NewListOrdersByStatusQuery(c.QueryParam("status"))
	if err != nil {
		return s.fail(c, err)
	}
	return s.list(c, query)
}

// ListClientOrders handles GET /api/v1/clients/:clientId/orders.
func (s *Server) ListClientOrders(c echo.Context) error {
	query, err := queries.NewListOrdersByClientQuery(c.Param("clientId"))
	if err != nil {
		return s.fail(c, err)
	}
	return s.list(c, query)
}

// ListProfessionalOrders handles GET /api/v1/professionals/:professionalId/orders.
func (s *Server) ListProfessionalOrders(c echo.Context) error {
	query, err := queries.NewListOrdersByProfessionalQuery(c.Param("professionalId"))
	if err != nil {
		return s.fail(c, err)
	}
	return s.list(c, query)
}

func (s *Server) list(c echo.Context, query queries.ListOrdersQuery) error {
	views, err := s.h.ListOrders.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, views)
}

// SubmitQuotation handles POST /api/v1/orders/:id/quotation.
func (s *Server) SubmitQuotation(c echo.Context) error {
	id, err := orderID(c)
	if err != nil {
		return s.fail(c, err)
	}
	var body NewQuotation
	if err = c.Bind(&body); err != nil {
		return badRequest(c)
	}

	cmd, err := commands.NewSubmitQuotationCommand(id, body.Amount, body.Description, body.EstimatedDuration)
	if err != nil {
		return s.fail(c, err)
	}
	if err = s.h.SubmitQuotation.Handle(c.Request().Context(), cmd); err != nil {
		return s.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// AcceptQuotation handles POST /api/v1/orders/:id/quotation/accept.
func (s *Server) AcceptQuotation(c echo.Context) error {
	id, err := orderID(c)
	if err != nil {
		return s.fail(c, err)
	}
	cmd, err := commands.NewAcceptQuotationCommand(id)
	if err != nil {
		return s.fail(c, err)
	}
	if err = s.h.AcceptQuotation.Handle(c.Request().Context(), cmd); err != nil {
		return s.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// StartWork handles POST /api/v1/orders/:id/start.
func (s *Server) StartWork(c echo.Context) error {
	id, err := orderID(c)
	if err != nil {
		return s.fail(c, err)
	}
	cmd, err := commands.NewMarkInProgressCommand(id)
	if err != nil {
		return s.fail(c, err)
	}
	if err = s.h.MarkInProgress.Handle(c.Request().Context(), cmd); err != nil {
		return s.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// CompleteWork handles POST /api/v1/orders/:id/complete.
func (s *Server) CompleteWork(c echo.Context) error {
	id, err := orderID(c)
	if err != nil {
		return s.fail(c, err)
	}
	cmd, err := commands.NewMarkCompletedCommand(id)
	if err != nil {
		return s.fail(c, err)
	}
	if err = s.h.MarkCompleted.Handle(c.Request().Context(), cmd); err != nil {
		return s.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ProcessPayment handles POST /api/v1/orders/:id/payment.
func (s *Server) ProcessPayment(c echo.Context) error {
	id, err := orderID(c)
	if err != nil {
		return s.fail(c, err)
	}
	var body NewPayment
	if err = c.Bind(&body); err != nil {
		return badRequest(c)
	}

	cmd, err := commands.NewProcessPaymentCommand(id, body.Method, body.Amount)
	if err != nil {
		return s.fail(c, err)
	}
	txID, err := s.h.ProcessPayment.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, PaymentReceipt{TransactionID: txID})
}

// SubmitRating handles POST /api/v1/orders/:id/rating.
func (s *Server) SubmitRating(c echo.Context) error {
	id, err := orderID(c)
	if err != nil {
		return s.fail(c, err)
	}
	var body NewRating
	if err = c.Bind(&body); err != nil {
		return badRequest(c)
	}

	cmd, err := commands.NewSubmitRatingCommand(id, body.Score, body.Comment)
	if err != nil {
		return s.fail(c, err)
	}
	if err = s.h.SubmitRating.Handle(c.Request().Context(), cmd); err != nil {
		return s.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// CancelOrder handles POST /api/v1/orders/:id/cancel. The body is optional.
func (s *Server) CancelOrder(c echo.Context) error {
	id, err := orderID(c)
	if err != nil {
		return s.fail(c, err)
	}
	var body Cancellation
	if err = c.Bind(&body); err != nil {
		return badRequest(c)
	}

	cmd, err := commands.NewCancelOrderCommand(id, body.Reason)
	if err != nil {
		return s.fail(c, err)
	}
	if err = s.h.CancelOrder.Handle(c.Request().Context(), cmd); err != nil {
		return s.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// orderID reads the :id path parameter. An id that cannot name an order is
// reported as not found.
func orderID(c echo.Context) (kernel.UUID, error) {
	raw := c.Param("id")
	id, err := kernel.UUIDFromString(raw)
	if err != nil {
		return kernel.UUID{}, errs.NewObjectNotFoundErrorWithCause("orderId", raw, err)
	}
	return id, nil
}
