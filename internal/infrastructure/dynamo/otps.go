package dynamo

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/restaurant-api-nosql/internal/domain"
)

// OtpRepo manages one-time codes. PK: email, SK: code, so a new request always
// inserts a new record, so several outstanding codes per email may coexist.
type OtpRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewOtpRepo(client *dynamodb.Client, tableName string) *OtpRepo {
	return &OtpRepo{client: client, tableName: tableName}
}

func (r *OtpRepo) Put(ctx context.Context, c *domain.OneTimeCode) error {
	item, err := attributevalue.MarshalMap(c)
	if err != nil {
		return fmt.Errorf("marshal otp: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *OtpRepo) get(ctx context.Context, email, code string) (*domain.OneTimeCode, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       compositeKey("email", email, "code", code),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("otp not found: %w", domain.ErrNotFound)
	}
	var c domain.OneTimeCode
	if err := attributevalue.UnmarshalMap(out.Item, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// GetActive returns the record for (email, code) only if it has not been
// consumed. A used record is indistinguishable from a missing one.
func (r *OtpRepo) GetActive(ctx context.Context, email, code string) (*domain.OneTimeCode, error) {
	c, err := r.get(ctx, email, code)
	if err != nil {
		return nil, err
	}
	if c.IsUsed {
		return nil, fmt.Errorf("otp already used: %w", domain.ErrNotFound)
	}
	return c, nil
}

// GetConsumed returns the record for (email, code) only if it has already
// been verified (is_used=true).
func (r *OtpRepo) GetConsumed(ctx context.Context, email, code string) (*domain.OneTimeCode, error) {
	c, err := r.get(ctx, email, code)
	if err != nil {
		return nil, err
	}
	if !c.IsUsed {
		return nil, fmt.Errorf("otp not consumed: %w", domain.ErrNotFound)
	}
	return c, nil
}

// MarkUsed flips is_used to true with a conditional update so that two
// concurrent verifications of the same code cannot both succeed: the first
// committer wins, the loser gets ErrNotFound.
func (r *OtpRepo) MarkUsed(ctx context.Context, email, code string) error {
	_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 compositeKey("email", email, "code", code),
		UpdateExpression:    aws.String("SET #u = :t"),
		ConditionExpression: aws.String("attribute_exists(email) AND #u = :f"),
		ExpressionAttributeNames: map[string]string{
			"#u": fieldIsUsed,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":t": &types.AttributeValueMemberBOOL{Value: true},
			":f": &types.AttributeValueMemberBOOL{Value: false},
		},
	})
	if err != nil {
		var ccfe *types.ConditionalCheckFailedException
		if errors.As(err, &ccfe) {
			return fmt.Errorf("otp already used or missing: %w", domain.ErrNotFound)
		}
		return err
	}
	return nil
}

func (r *OtpRepo) Delete(ctx context.Context, email, code string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       compositeKey("email", email, "code", code),
	})
	return err
}
