package dynamorepo

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"

	"serviceorders/internal/core/domain/model/kernel"
	"serviceorders/internal/core/domain/model/order"
	"serviceorders/internal/pkg/errs"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// ErrOrderAlreadyExists is returned on Commit when an added order's id is taken.
var ErrOrderAlreadyExists = errors.New("order already exists")

// OrderRepository reads orders directly and stages writes on its unit of work.
type OrderRepository struct {
	api   API
	table string
	uow   *UnitOfWork
}

// NewOrderRepository returns a repository outside of any unit of work. Its
// writes go to the table immediately.
func NewOrderRepository(api API, table string) *OrderRepository {
	return &OrderRepository{api: api, table: table, uow: &UnitOfWork{api: api, table: table}}
}

// Add stages the order for insertion, conditioned on the id being free.
func (r *OrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	return r.write(ctx, aggregate, true)
}

// Update stages the order for a write conditioned on the stored version being
// aggregate.Version()-1.
func (r *OrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	return r.write(ctx, aggregate, false)
}

func (r *OrderRepository) write(ctx context.Context, aggregate *order.Order, isNew bool) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	if err := r.uow.write(ctx, aggregate.Clone(), isNew); err != nil {
		return err
	}
	if r.uow.active {
		r.uow.TrackAggregate(aggregate)
	}
	return nil
}

func (r *OrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if o, ok := r.uow.staged(id.String()); ok {
		return o, nil
	}

	out, err := r.api.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.table),
		Key:            map[string]types.AttributeValue{"id": &types.AttributeValueMemberS{Value: id.String()}},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("get order %s: %w", id, err)
	}
	if len(out.Item) == 0 {
		return nil, errs.NewObjectNotFoundError("orderId", id.String())
	}

	var it orderItem
	if err = attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return nil, fmt.Errorf("decode order %s: %w", id, err)
	}
	return toDomain(it)
}

// GetForUpdate is Get. DynamoDB has no row locks; concurrent writers are
// caught by the version condition on Commit.
func (r *OrderRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	return r.Get(ctx, id)
}

func (r *OrderRepository) ListByClient(ctx context.Context, clientID string) ([]*order.Order, error) {
	return r.query(ctx, ClientIndex, "client_id", clientID, true)
}

func (r *OrderRepository) ListByProfessional(ctx context.Context, professionalID string) ([]*order.Order, error) {
	return r.query(ctx, ProfessionalIndex, "professional_id", professionalID, true)
}

func (r *OrderRepository) ListByStatus(ctx context.Context, status order.Status) ([]*order.Order, error) {
	if err := status.Validate(); err != nil {
		return nil, err
	}
	return r.query(ctx, StatusIndex, "status", status.String(), false)
}

func (r *OrderRepository) query(
	ctx context.Context, index, attribute, value string, newestFirst bool,
) ([]*order.Order, error) {
	paginator := dynamodb.NewQueryPaginator(r.api, &dynamodb.QueryInput{
		TableName:                aws.String(r.table),
		IndexName:                aws.String(index),
		KeyConditionExpression:   aws.String("#k = :v"),
		ExpressionAttributeNames: map[string]string{"#k": attribute},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":v": &types.AttributeValueMemberS{Value: value},
		},
		ScanIndexForward: aws.Bool(!newestFirst),
	})

	orders := make([]*order.Order, 0)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("query %s: %w", index, err)
		}
		var items []orderItem
		if err = attributevalue.UnmarshalListOfMaps(page.Items, &items); err != nil {
			return nil, fmt.Errorf("decode %s page: %w", index, err)
		}
		for _, it := range items {
			o, convErr := toDomain(it)
			if convErr != nil {
				return nil, fmt.Errorf("order %s: %w", it.ID, convErr)
			}
			orders = append(orders, o)
		}
	}

	// The index orders by created_at only; ties are broken by id.
	slices.SortStableFunc(orders, func(a, b *order.Order) int {
		c := a.CreatedAt().Compare(b.CreatedAt())
		if c == 0 {
			c = cmp.Compare(a.ID().String(), b.ID().String())
		}
		if newestFirst {
			return -c
		}
		return c
	})
	return orders, nil
}
