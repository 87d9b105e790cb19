package dynamo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/training-mne-api/internal/domain"
)

// OpenAlertKeyRepo anchors the one-unresolved-alert-per-(partner, type,
// entity) invariant. Acquire is a conditional put: it succeeds for exactly
// one of any set of concurrent raises for the same tuple, which makes the
// alert service's check-then-create atomic without a critical section.
type OpenAlertKeyRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewOpenAlertKeyRepo(client *dynamodb.Client, tableName string) *OpenAlertKeyRepo {
	return &OpenAlertKeyRepo{client: client, tableName: tableName}
}

// Acquire claims the dedup key for a partner. Returns domain.ErrConflict
// when the key is already held by an unresolved alert.
func (r *OpenAlertKeyRepo) Acquire(ctx context.Context, partnerID, dedupKey, alertID string, at time.Time) error {
	_, err := r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item: map[string]types.AttributeValue{
			"partner_id": &types.AttributeValueMemberS{Value: partnerID},
			"dedup_key":  &types.AttributeValueMemberS{Value: dedupKey},
			"alert_id":   &types.AttributeValueMemberS{Value: alertID},
			"created_at": &types.AttributeValueMemberS{Value: at.UTC().Format(time.RFC3339Nano)},
		},
		ConditionExpression: aws.String("attribute_not_exists(dedup_key)"),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return fmt.Errorf("open alert exists for %s/%s: %w", partnerID, dedupKey, domain.ErrConflict)
		}
		return err
	}
	return nil
}

// Release frees the dedup key, allowing the same issue to be raised again.
// Called when an alert is resolved, or to roll back a failed raise.
func (r *OpenAlertKeyRepo) Release(ctx context.Context, partnerID, dedupKey string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       compositeKey("partner_id", partnerID, "dedup_key", dedupKey),
	})
	return err
}
