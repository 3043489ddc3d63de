package dynamorepo

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"serviceorders/internal/core/domain/model/order"
	"serviceorders/internal/core/ports"
	"serviceorders/internal/pkg/errs"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// ErrNoActiveTransaction is returned by Commit and Rollback outside Begin.
var ErrNoActiveTransaction = errors.New("no active transaction")

const (
	conditionNotExists = "attribute_not_exists(#id)"
	conditionVersion   = "attribute_exists(#id) AND #version = :expected"
)

type UnitOfWorkFactory struct {
	api   API
	table string
}

func NewUnitOfWorkFactory(api API, table string) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{api: api, table: table}
}

func (f *UnitOfWorkFactory) Create() ports.UnitOfWork {
	return &UnitOfWork{api: f.api, table: f.table}
}

type stagedWrite struct {
	aggregate *order.Order
	isNew     bool
}

// UnitOfWork collects writes and sends them in a single TransactWriteItems
// call on Commit. Outside Begin, Add and Update are written immediately.
// A UnitOfWork is used by one goroutine at a time.
type UnitOfWork struct {
	api     API
	table   string
	active  bool
	writes  []stagedWrite
	tracked []*order.Order
}

func (u *UnitOfWork) Begin(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if u.active {
		return nil
	}
	u.active = true
	u.writes = nil
	return nil
}

func (u *UnitOfWork) Commit(ctx context.Context) error {
	if !u.active {
		return ErrNoActiveTransaction
	}
	writes := u.writes
	u.active = false
	u.writes = nil
	return u.flush(ctx, writes)
}

func (u *UnitOfWork) Rollback(_ context.Context) error {
	if !u.active {
		return ErrNoActiveTransaction
	}
	u.active = false
	u.writes = nil
	return nil
}

func (u *UnitOfWork) OrderRepository() ports.OrderRepository {
	return &OrderRepository{api: u.api, table: u.table, uow: u}
}

func (u *UnitOfWork) TrackAggregate(aggregate *order.Order) {
	u.tracked = append(u.tracked, aggregate)
}

func (u *UnitOfWork) TrackedAggregates() []*order.Order {
	return append([]*order.Order(nil), u.tracked...)
}

// write stages the order inside a transaction and writes it right away
// outside of one.
func (u *UnitOfWork) write(ctx context.Context, aggregate *order.Order, isNew bool) error {
	if !u.active {
		return u.flush(ctx, []stagedWrite{{aggregate: aggregate, isNew: isNew}})
	}
	for i, w := range u.writes {
		if w.aggregate.ID().IsEqual(aggregate.ID()) {
			u.writes[i] = stagedWrite{aggregate: aggregate, isNew: isNew || w.isNew}
			return nil
		}
	}
	u.writes = append(u.writes, stagedWrite{aggregate: aggregate, isNew: isNew})
	return nil
}

func (u *UnitOfWork) staged(id string) (*order.Order, bool) {
	for _, w := range u.writes {
		if w.aggregate.ID().String() == id {
			return w.aggregate.Clone(), true
		}
	}
	return nil, false
}

func (u *UnitOfWork) flush(ctx context.Context, writes []stagedWrite) error {
	if len(writes) == 0 {
		return nil
	}

	items := make([]types.TransactWriteItem, 0, len(writes))
	for _, w := range writes {
		put, err := u.put(w)
		if err != nil {
			return err
		}
		items = append(items, types.TransactWriteItem{Put: put})
	}

	_, err := u.api.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: items})
	if err == nil {
		return nil
	}

	var canceled *types.TransactionCanceledException
	if !errors.As(err, &canceled) {
		return fmt.Errorf("write orders: %w", err)
	}
	for i, reason := range canceled.CancellationReasons {
		if aws.ToString(reason.Code) != "ConditionalCheckFailed" || i >= len(writes) {
			continue
		}
		return conditionError(writes[i], reason.Item)
	}
	return fmt.Errorf("write orders: %w", err)
}

func (u *UnitOfWork) put(w stagedWrite) (*types.Put, error) {
	item, err := attributevalue.MarshalMap(fromDomain(w.aggregate))
	if err != nil {
		return nil, fmt.Errorf("encode order %s: %w", w.aggregate.ID(), err)
	}

	put := &types.Put{
		TableName:                           aws.String(u.table),
		Item:                                item,
		ExpressionAttributeNames:            map[string]string{"#id": "id"},
		ReturnValuesOnConditionCheckFailure: types.ReturnValuesOnConditionCheckFailureAllOld,
	}
	if w.isNew {
		put.ConditionExpression = aws.String(conditionNotExists)
		return put, nil
	}

	put.ConditionExpression = aws.String(conditionVersion)
	put.ExpressionAttributeNames["#version"] = "version"
	put.ExpressionAttributeValues = map[string]types.AttributeValue{
		":expected": &types.AttributeValueMemberN{Value: strconv.Itoa(w.aggregate.Version() - 1)},
	}
	return put, nil
}

func conditionError(w stagedWrite, old map[string]types.AttributeValue) error {
	id := w.aggregate.ID().String()
	switch {
	case w.isNew:
		return fmt.Errorf("%w: %s", ErrOrderAlreadyExists, id)
	case len(old) == 0:
		return errs.NewObjectNotFoundError("orderId", id)
	default:
		return errs.NewVersionIsInvalidErrorWithCause("order",
			fmt.Errorf("order %s was modified concurrently", id))
	}
}
