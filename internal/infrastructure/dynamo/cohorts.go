package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/training-mne-api/internal/domain"
)

// CohortRepo provides typed DynamoDB operations for the cohorts table.
type CohortRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewCohortRepo(client *dynamodb.Client, tableName string) *CohortRepo {
	return &CohortRepo{client: client, tableName: tableName}
}

func (r *CohortRepo) Put(ctx context.Context, c *domain.Cohort) error {
	item, err := attributevalue.MarshalMap(c)
	if err != nil {
		return fmt.Errorf("marshal cohort: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *CohortRepo) Get(ctx context.Context, cohortID string) (*domain.Cohort, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("cohort_id", cohortID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("cohort %s: %w", cohortID, domain.ErrNotFound)
	}
	var c domain.Cohort
	if err := attributevalue.UnmarshalMap(out.Item, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// ListActiveByPartner queries the partner_id GSI filtered to ACTIVE status.
func (r *CohortRepo) ListActiveByPartner(ctx context.Context, partnerID string) ([]domain.Cohort, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("partner_id-index"),
		KeyConditionExpression: aws.String("partner_id = :pid"),
		FilterExpression:       aws.String("#st = :active"),
		ExpressionAttributeNames: map[string]string{
			"#st": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pid":    &types.AttributeValueMemberS{Value: partnerID},
			":active": &types.AttributeValueMemberS{Value: string(domain.CohortStatusActive)},
		},
	})
	if err != nil {
		return nil, err
	}
	var cohorts []domain.Cohort
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &cohorts); err != nil {
		return nil, err
	}
	return cohorts, nil
}
