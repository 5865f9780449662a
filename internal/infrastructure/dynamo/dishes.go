package dynamo

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/restaurant-api-nosql/internal/domain"
)

// DishRepo provides typed DynamoDB operations for the dishes table.
type DishRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewDishRepo(client *dynamodb.Client, tableName string) *DishRepo {
	return &DishRepo{client: client, tableName: tableName}
}

func (r *DishRepo) Put(ctx context.Context, d *domain.Dish) error {
	item, err := attributevalue.MarshalMap(d)
	if err != nil {
		return fmt.Errorf("marshal dish: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *DishRepo) Get(ctx context.Context, dishID string) (*domain.Dish, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("dish_id", dishID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("dish not found: %w", domain.ErrNotFound)
	}
	var d domain.Dish
	if err := attributevalue.UnmarshalMap(out.Item, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *DishRepo) Update(ctx context.Context, dishID string, updates map[string]interface{}) error {
	updates[fieldUpdatedAt] = time.Now().UTC().Format(time.RFC3339)
	expr, names, values, err := buildUpdateExpr(updates)
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("dish_id", dishID),
		UpdateExpression:          aws.String(expr),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
	})
	return err
}

// QueryByCategory returns all dishes in a category via the category_id GSI.
func (r *DishRepo) QueryByCategory(ctx context.Context, categoryID string) ([]domain.Dish, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String("category_id-index"),
		KeyConditionExpression:    aws.String("category_id = :v"),
		ExpressionAttributeValues: map[string]types.AttributeValue{":v": &types.AttributeValueMemberS{Value: categoryID}},
	})
	if err != nil {
		return nil, err
	}
	var dishes []domain.Dish
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &dishes); err != nil {
		return nil, err
	}
	return dishes, nil
}

// ScanPage returns a page of dishes. When activeOnly is true, inactive
// (soft-deleted) dishes are filtered out.
func (r *DishRepo) ScanPage(ctx context.Context, limit int32, cursor string, activeOnly bool) ([]domain.Dish, string, error) {
	input := &dynamodb.ScanInput{
		TableName: aws.String(r.tableName),
		Limit:     aws.Int32(limit),
	}
	if activeOnly {
		input.FilterExpression = aws.String(fieldIsActive + " = :t")
		input.ExpressionAttributeValues = map[string]types.AttributeValue{
			":t": &types.AttributeValueMemberBOOL{Value: true},
		}
	}
	if cursor != "" {
		dishID, err := decodeCursor(cursor)
		if err != nil {
			return nil, "", fmt.Errorf("invalid cursor: %w", domain.ErrBadRequest)
		}
		input.ExclusiveStartKey = strKey("dish_id", dishID)
	}
	out, err := r.client.Scan(ctx, input)
	if err != nil {
		return nil, "", err
	}
	var dishes []domain.Dish
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &dishes); err != nil {
		return nil, "", err
	}
	nextCursor := ""
	if v, ok := out.LastEvaluatedKey["dish_id"].(*types.AttributeValueMemberS); ok {
		nextCursor = encodeCursor(v.Value)
	}
	return dishes, nextCursor, nil
}
