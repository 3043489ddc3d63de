package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	httpadapter "serviceorders/internal/adapters/in/http"
	"serviceorders/internal/adapters/out/conversations"
	"serviceorders/internal/adapters/out/dynamorepo"
	"serviceorders/internal/adapters/out/memory"
	"serviceorders/internal/adapters/out/notifications"
	"serviceorders/internal/adapters/out/payments"
	"serviceorders/internal/adapters/out/postgres"
	"serviceorders/internal/adapters/out/postgres/orderrepo"
	"serviceorders/internal/core/application/usecases/commands"
	"serviceorders/internal/core/application/usecases/queries"
	"serviceorders/internal/core/domain/services"
	"serviceorders/internal/core/ports"
	"serviceorders/internal/jobs"
	"serviceorders/internal/pkg/keylock"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type CompositionRoot struct {
	cfg      Config
	logger   *slog.Logger
	registry *prometheus.Registry

	uowFactory commands.OrderUoWFactory
	reader     queries.OrderReader
	closers    []func() error

	linker    *conversations.InMemoryLinker
	gateway   ports.PaymentGateway
	scheduler *jobs.FollowUpScheduler
	sink      ports.NotificationSink
	runner    *commands.TransitionRunner
}

// NewCompositionRoot opens the configured storage and payment gateway and
// wires the lifecycle notifications. Close releases the storage.
func NewCompositionRoot(ctx context.Context, cfg Config, logger *slog.Logger) (*CompositionRoot, error) {
	c := &CompositionRoot{
		cfg:      cfg,
		logger:   logger,
		registry: prometheus.NewRegistry(),
		linker:   conversations.NewInMemoryLinker(logger),
	}
	c.registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	if err := c.openStorage(ctx); err != nil {
		return nil, err
	}

	gateway, err := c.openGateway()
	if err != nil {
		_ = c.Close()
		return nil, err
	}
	c.gateway = gateway

	metricsSink, err := notifications.NewMetricsSink(c.registry)
	if err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("register metrics: %w", err)
	}
	c.scheduler = jobs.NewFollowUpScheduler(cfg.AutoStartAfter, cfg.AutoCompleteAfter)
	c.sink = notifications.FanOut{notifications.NewLogSink(logger), metricsSink, c.scheduler}

	c.runner = commands.NewTransitionRunner(c.uowFactory, keylock.New(), c.sink, nil, logger)
	return c, nil
}

func (c *CompositionRoot) openStorage(ctx context.Context) error {
	switch c.cfg.StorageBackend {
	case StoragePostgres:
		db, err := gorm.Open(gormpostgres.Open(c.cfg.DSN()), &gorm.Config{TranslateError: true})
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		c.closers = append(c.closers, sqlDB.Close)
		if err = postgres.AutoMigrate(db); err != nil {
			_ = c.Close()
			return fmt.Errorf("migrate: %w", err)
		}
		c.uowFactory = commands.UoWFactoryAdapter{Factory: postgres.NewGormUnitOfWorkFactory(db)}
		c.reader = orderrepo.NewGormOrderRepository(db, nil)

	case StorageDynamoDB:
		client, err := dynamorepo.NewClient(ctx, dynamorepo.ClientConfig{
			Region:          c.cfg.DynamoRegion,
			Endpoint:        c.cfg.DynamoEndpoint,
			AccessKeyID:     c.cfg.DynamoAccessKeyID,
			SecretAccessKey: c.cfg.DynamoSecretAccessKey,
		})
		if err != nil {
			return err
		}
		if c.cfg.DynamoCreateTable {
			if err = dynamorepo.EnsureTable(ctx, client, c.cfg.DynamoTable); err != nil {
				return err
			}
		}
		c.uowFactory = commands.UoWFactoryAdapter{Factory: dynamorepo.NewUnitOfWorkFactory(client, c.cfg.DynamoTable)}
		c.reader = dynamorepo.NewOrderRepository(client, c.cfg.DynamoTable)

	default:
		store := memory.NewStore()
		c.uowFactory = commands.UoWFactoryAdapter{Factory: memory.NewUnitOfWorkFactory(store)}
		c.reader = memory.NewOrderRepository(store)
	}

	c.logger.Info("Storage ready", "backend", c.cfg.StorageBackend)
	return nil
}

func (c *CompositionRoot) openGateway() (ports.PaymentGateway, error) {
	if c.cfg.PaymentGateway == GatewayMercadoPago {
		return payments.NewMercadoPagoGateway(c.cfg.MercadoPagoAccessToken, c.logger)
	}
	return payments.NewMockGateway(c.cfg.PaymentMockLatency, c.cfg.PaymentDeclineRate, c.logger), nil
}

// Registry holds the service metrics served on /metrics.
func (c *CompositionRoot) Registry() *prometheus.Registry {
	return c.registry
}

func (c *CompositionRoot) Close() error {
	var errs []error
	for _, closeFn := range c.closers {
		errs = append(errs, closeFn())
	}
	c.closers = nil
	return errors.Join(errs...)
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(c.uowFactory, c.linker, c.sink, nil, c.logger)
}

func (c *CompositionRoot) CreateSubmitQuotationCommandHandler() commands.SubmitQuotationCommandHandler {
	return commands.NewSubmitQuotationCommandHandler(c.runner)
}

func (c *CompositionRoot) CreateAcceptQuotationCommandHandler() commands.AcceptQuotationCommandHandler {
	return commands.NewAcceptQuotationCommandHandler(c.runner)
}

func (c *CompositionRoot) CreateMarkInProgressCommandHandler() commands.MarkInProgressCommandHandler {
	return commands.NewMarkInProgressCommandHandler(c.runner)
}

func (c *CompositionRoot) CreateMarkCompletedCommandHandler() commands.MarkCompletedCommandHandler {
	return commands.NewMarkCompletedCommandHandler(c.runner)
}

func (c *CompositionRoot) CreateProcessPaymentCommandHandler() commands.ProcessPaymentCommandHandler {
	return commands.NewProcessPaymentCommandHandler(c.runner,
		services.NewPaymentProcessor(c.gateway, c.cfg.PaymentTimeout))
}

func (c *CompositionRoot) CreateSubmitRatingCommandHandler() commands.SubmitRatingCommandHandler {
	return commands.NewSubmitRatingCommandHandler(c.runner)
}

func (c *CompositionRoot) CreateCancelOrderCommandHandler() commands.CancelOrderCommandHandler {
	return commands.NewCancelOrderCommandHandler(c.runner)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.reader)
}

func (c *CompositionRoot) CreateListOrdersQueryHandler() queries.ListOrdersQueryHandler {
	return queries.NewListOrdersQueryHandler(c.reader)
}

func (c *CompositionRoot) CreateHTTPHandlers() httpadapter.Handlers {
	return httpadapter.Handlers{
		CreateOrder:     c.CreateCreateOrderCommandHandler(),
		SubmitQuotation: c.CreateSubmitQuotationCommandHandler(),
		AcceptQuotation: c.CreateAcceptQuotationCommandHandler(),
		MarkInProgress:  c.CreateMarkInProgressCommandHandler(),
		MarkCompleted:   c.CreateMarkCompletedCommandHandler(),
		ProcessPayment:  c.CreateProcessPaymentCommandHandler(),
		SubmitRating:    c.CreateSubmitRatingCommandHandler(),
		CancelOrder:     c.CreateCancelOrderCommandHandler(),
		GetOrder:        c.CreateGetOrderQueryHandler(),
		ListOrders:      c.CreateListOrdersQueryHandler(),
	}
}

// CreateJobManager returns the background jobs. The follow-up job is left out
// when both follow-up delays are disabled.
func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	if c.cfg.AutoStartAfter == 0 && c.cfg.AutoCompleteAfter == 0 {
		return jobs.NewJobManager(nil)
	}
	return jobs.NewJobManager(jobs.NewFollowUpJob(c.scheduler,
		c.CreateMarkInProgressCommandHandler(),
		c.CreateMarkCompletedCommandHandler(),
		c.logger))
}
