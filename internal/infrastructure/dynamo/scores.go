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

// ScoreRepo provides typed DynamoDB operations for the scores table.
type ScoreRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewScoreRepo(client *dynamodb.Client, tableName string) *ScoreRepo {
	return &ScoreRepo{client: client, tableName: tableName}
}

func (r *ScoreRepo) Put(ctx context.Context, s *domain.Score) error {
	item, err := attributevalue.MarshalMap(s)
	if err != nil {
		return fmt.Errorf("marshal score: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

// ListByPartner queries all scores recorded under a partner.
func (r *ScoreRepo) ListByPartner(ctx context.Context, partnerID string) ([]domain.Score, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("partner_id-index"),
		KeyConditionExpression: aws.String("partner_id = :pid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pid": &types.AttributeValueMemberS{Value: partnerID},
		},
	})
	if err != nil {
		return nil, err
	}
	var scores []domain.Score
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &scores); err != nil {
		return nil, err
	}
	return scores, nil
}
