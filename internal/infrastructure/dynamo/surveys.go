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

// SurveyRepo provides typed DynamoDB operations for the surveys and
// survey_responses tables.
type SurveyRepo struct {
	client         *dynamodb.Client
	tableName      string
	responsesTable string
}

func NewSurveyRepo(client *dynamodb.Client, tableName, responsesTable string) *SurveyRepo {
	return &SurveyRepo{client: client, tableName: tableName, responsesTable: responsesTable}
}

func (r *SurveyRepo) Put(ctx context.Context, s *domain.Survey) error {
	item, err := attributevalue.MarshalMap(s)
	if err != nil {
		return fmt.Errorf("marshal survey: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *SurveyRepo) PutResponse(ctx context.Context, resp *domain.SurveyResponse) error {
	item, err := attributevalue.MarshalMap(resp)
	if err != nil {
		return fmt.Errorf("marshal survey response: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.responsesTable),
		Item:      item,
	})
	return err
}

// ListByPartnerStatus queries a partner's surveys filtered by status.
func (r *SurveyRepo) ListByPartnerStatus(ctx context.Context, partnerID string, status domain.SurveyStatus) ([]domain.Survey, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("partner_id-index"),
		KeyConditionExpression: aws.String("partner_id = :pid"),
		FilterExpression:       aws.String("#st = :status"),
		ExpressionAttributeNames: map[string]string{
			"#st": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pid":    &types.AttributeValueMemberS{Value: partnerID},
			":status": &types.AttributeValueMemberS{Value: string(status)},
		},
	})
	if err != nil {
		return nil, err
	}
	var surveys []domain.Survey
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &surveys); err != nil {
		return nil, err
	}
	return surveys, nil
}

// ListResponses queries all responses of one survey.
func (r *SurveyRepo) ListResponses(ctx context.Context, surveyID string) ([]domain.SurveyResponse, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.responsesTable),
		IndexName:              aws.String("survey_id-index"),
		KeyConditionExpression: aws.String("survey_id = :sid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":sid": &types.AttributeValueMemberS{Value: surveyID},
		},
	})
	if err != nil {
		return nil, err
	}
	var responses []domain.SurveyResponse
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &responses); err != nil {
		return nil, err
	}
	return responses, nil
}
