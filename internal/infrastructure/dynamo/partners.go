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

// PartnerRepo provides typed DynamoDB operations for the partners table.
type PartnerRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewPartnerRepo(client *dynamodb.Client, tableName string) *PartnerRepo {
	return &PartnerRepo{client: client, tableName: tableName}
}

func (r *PartnerRepo) Put(ctx context.Context, p *domain.Partner) error {
	item, err := attributevalue.MarshalMap(p)
	if err != nil {
		return fmt.Errorf("marshal partner: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *PartnerRepo) Get(ctx context.Context, partnerID string) (*domain.Partner, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("partner_id", partnerID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("partner %s: %w", partnerID, domain.ErrNotFound)
	}
	var p domain.Partner
	if err := attributevalue.UnmarshalMap(out.Item, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListEnabled queries the enable-index GSI for all active partners.
// This is the tenant enumeration used by every scheduler pass.
func (r *PartnerRepo) ListEnabled(ctx context.Context) ([]domain.Partner, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("enable-index"),
		KeyConditionExpression: aws.String("enable = :one"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":one": &types.AttributeValueMemberN{Value: "1"},
		},
	})
	if err != nil {
		return nil, err
	}
	var partners []domain.Partner
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &partners); err != nil {
		return nil, err
	}
	return partners, nil
}
