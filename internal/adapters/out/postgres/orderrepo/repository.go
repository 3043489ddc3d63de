package orderrepo

import (
	"context"
	"errors"
	"fmt"

	"serviceorders/internal/core/domain/model/kernel"
	"serviceorders/internal/core/domain/model/order"
	"serviceorders/internal/pkg/errs"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrOrderAlreadyExists is returned by Add for a duplicate id.
var ErrOrderAlreadyExists = errors.New("order already exists")

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// GormOrderRepository implements ports.OrderRepository using GORM.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(aggregate *order.Order)
}

// NewGormOrderRepository creates a repository bound to db, which is either the
// pool or an open transaction. tracker may be nil for read-only use.
func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

func (r *GormOrderRepository) track(aggregate *order.Order) {
	if r.tracker != nil {
		r.tracker.TrackAggregate(aggregate)
	}
}

// Add inserts the order row together with its timeline.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: %s", ErrOrderAlreadyExists, aggregate.ID())
		}
		return err
	}

	r.track(aggregate)
	return nil
}

// Update rewrites the order row if the stored version is the one the aggregate
// was loaded with, then appends the timeline entries it does not have yet.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	db := r.db.WithContext(ctx)

	result := db.Model(&OrderDTO{}).
		Where("id = ? AND version = ?", dto.ID, dto.Version-1).
		Select("*").
		Omit("id", "created_at", clause.Associations).
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		var count int64
		if err := db.Model(&OrderDTO{}).Where("id = ?", dto.ID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return errs.NewObjectNotFoundError("orderId", aggregate.ID().String())
		}
		return errs.NewVersionIsInvalidErrorWithCause("order",
			fmt.Errorf("order %s was modified concurrently", aggregate.ID()))
	}

	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&dto.Timeline).Error; err != nil {
		return err
	}

	r.track(aggregate)
	return nil
}

// Get retrieves an order by ID.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	return r.get(r.db.WithContext(ctx), id)
}

// GetForUpdate retrieves an order and holds its row lock until the surrounding
// transaction ends. Outside a transaction it behaves like Get.
func (r *GormOrderRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	return r.get(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *GormOrderRepository) get(db *gorm.DB, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	err := db.
		Preload("Timeline", func(tx *gorm.DB) *gorm.DB { return tx.Order("seq") }).
		First(&dto, "id = ?", id.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("orderId", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

func (r *GormOrderRepository) ListByClient(ctx context.Context, clientID string) ([]*order.Order, error) {
	return r.list(ctx, squirrel.Eq{"client_id": clientID}, "created_at DESC, id DESC")
}

func (r *GormOrderRepository) ListByProfessional(ctx context.Context, professionalID string) ([]*order.Order, error) {
	return r.list(ctx, squirrel.Eq{"professional_id": professionalID}, "created_at DESC, id DESC")
}

func (r *GormOrderRepository) ListByStatus(ctx context.Context, status order.Status) ([]*order.Order, error) {
	if err := status.Validate(); err != nil {
		return nil, err
	}
	return r.list(ctx, squirrel.Eq{"status": status.String()}, "created_at ASC, id ASC")
}

func (r *GormOrderRepository) list(ctx context.Context, where squirrel.Eq, orderBy string) ([]*order.Order, error) {
	query, args, err := psql.Select("*").From(OrderDTO{}.TableName()).Where(where).OrderBy(orderBy).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list query: %w", err)
	}

	db := r.db.WithContext(ctx)

	var dtos []OrderDTO
	if err = db.Raw(query, args...).Scan(&dtos).Error; err != nil {
		return nil, err
	}
	if len(dtos) == 0 {
		return []*order.Order{}, nil
	}

	ids := make([]uuid.UUID, 0, len(dtos))
	for _, dto := range dtos {
		ids = append(ids, dto.ID)
	}

	var entries []TimelineEntryDTO
	if err = db.Where("order_id IN ?", ids).Order("order_id, seq").Find(&entries).Error; err != nil {
		return nil, err
	}
	byOrder := make(map[uuid.UUID][]TimelineEntryDTO, len(dtos))
	for _, e := range entries {
		byOrder[e.OrderID] = append(byOrder[e.OrderID], e)
	}

	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		dto.Timeline = byOrder[dto.ID]
		o, convErr := toDomain(dto)
		if convErr != nil {
			return nil, fmt.Errorf("order %s: %w", dto.ID, convErr)
		}
		orders = append(orders, o)
	}

	return orders, nil
}
