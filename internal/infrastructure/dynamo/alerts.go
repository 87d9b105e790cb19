package dynamo

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/training-mne-api/internal/domain"
)

// AlertRepo provides typed DynamoDB operations for the alerts table.
type AlertRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewAlertRepo(client *dynamodb.Client, tableName string) *AlertRepo {
	return &AlertRepo{client: client, tableName: tableName}
}

func (r *AlertRepo) Put(ctx context.Context, a *domain.Alert) error {
	item, err := attributevalue.MarshalMap(a)
	if err != nil {
		return fmt.Errorf("marshal alert: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *AlertRepo) Get(ctx context.Context, alertID string) (*domain.Alert, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("alert_id", alertID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("alert %s: %w", alertID, domain.ErrNotFound)
	}
	var a domain.Alert
	if err := attributevalue.UnmarshalMap(out.Item, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// ListByPartner queries the partner_id-created_at GSI newest-first.
// When resolved is non-nil the result is filtered to that resolution state.
func (r *AlertRepo) ListByPartner(ctx context.Context, partnerID string, resolved *bool) ([]domain.Alert, error) {
	in := &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("partner_id-created_at-index"),
		KeyConditionExpression: aws.String("partner_id = :pid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pid": &types.AttributeValueMemberS{Value: partnerID},
		},
		ScanIndexForward: aws.Bool(false),
	}
	if resolved != nil {
		in.FilterExpression = aws.String("resolved = :res")
		in.ExpressionAttributeValues[":res"] = &types.AttributeValueMemberBOOL{Value: *resolved}
	}
	out, err := r.client.Query(ctx, in)
	if err != nil {
		return nil, err
	}
	var alerts []domain.Alert
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &alerts); err != nil {
		return nil, err
	}
	return alerts, nil
}

// MarkResolved sets the resolution fields on an alert.
func (r *AlertRepo) MarkResolved(ctx context.Context, alertID, actorID string, at time.Time) error {
	ue, err := buildUpdateExpr(map[string]interface{}{
		"resolved":    true,
		"resolved_by": actorID,
		"resolved_at": at.UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("alert_id", alertID),
		UpdateExpression:          aws.String(ue.Expr),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	return err
}
