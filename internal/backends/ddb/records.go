package ddb

import (
	"context"

	"salesapi/internal/types"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ddbTypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// records stores values of one kind under the partition key `kind`.
type records[V any] struct {
	table string
	cli   *dynamodb.Client
	kind  string
}

func (r records[V]) put(ctx context.Context, id string, v V) error {
	item, err := attributevalue.MarshalMap(v)
	if err != nil {
		return err
	}
	for k, av := range keyOf(r.kind, id) {
		item[k] = av
	}
	_, err = r.cli.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           &r.table,
		Item:                item,
		ConditionExpression: awsString("attribute_not_exists(PK) AND attribute_not_exists(SK)"),
	})
	if err != nil {
		return types.Err(types.ErrDataStoreAccess, err, "put %s %s", r.kind, id)
	}
	return nil
}

func (r records[V]) get(ctx context.Context, id string) (V, error) {
	var v V
	out, err := r.cli.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      &r.table,
		Key:            keyOf(r.kind, id),
		ConsistentRead: awsBool(true),
	})
	if err != nil {
		return v, types.Err(types.ErrDataStoreAccess, err, "")
	}
	if out.Item == nil {
		return v, types.ErrNotFound
	}
	if err := attributevalue.UnmarshalMap(out.Item, &v); err != nil {
		return v, err
	}
	return v, nil
}

func (r records[V]) query(ctx context.Context, projection *string) ([]map[string]ddbTypes.AttributeValue, error) {
	p := dynamodb.NewQueryPaginator(r.cli, &dynamodb.QueryInput{
		TableName:              &r.table,
		KeyConditionExpression: awsString("PK = :pk"),
		ExpressionAttributeValues: map[string]ddbTypes.AttributeValue{
			":pk": &ddbTypes.AttributeValueMemberS{Value: r.kind},
		},
		ProjectionExpression: projection,
		ConsistentRead:       awsBool(true),
	})
	var items []map[string]ddbTypes.AttributeValue
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, types.Err(types.ErrDataStoreAccess, err, "")
		}
		items = append(items, page.Items...)
	}
	return items, nil
}

func (r records[V]) list(ctx context.Context) ([]V, error) {
	items, err := r.query(ctx, nil)
	if err != nil {
		return nil, err
	}
	out := make([]V, 0, len(items))
	if err := attributevalue.UnmarshalListOfMaps(items, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r records[V]) clear(ctx context.Context) error {
	items, err := r.query(ctx, awsString("PK, SK"))
	if err != nil {
		return err
	}
	for _, item := range items {
		_, err := r.cli.DeleteItem(ctx, &dynamodb.DeleteItemInput{
			TableName: &r.table,
			Key:       item,
		})
		if err != nil {
			return types.Err(types.ErrDataStoreAccess, err, "")
		}
	}
	return nil
}
