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

// EnrollmentRepo provides typed DynamoDB operations for the enrollments table.
type EnrollmentRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewEnrollmentRepo(client *dynamodb.Client, tableName string) *EnrollmentRepo {
	return &EnrollmentRepo{client: client, tableName: tableName}
}

func (r *EnrollmentRepo) Put(ctx context.Context, e *domain.Enrollment) error {
	item, err := attributevalue.MarshalMap(e)
	if err != nil {
		return fmt.Errorf("marshal enrollment: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *EnrollmentRepo) Get(ctx context.Context, enrollmentID string) (*domain.Enrollment, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("enrollment_id", enrollmentID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("enrollment %s: %w", enrollmentID, domain.ErrNotFound)
	}
	var e domain.Enrollment
	if err := attributevalue.UnmarshalMap(out.Item, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// ListActiveByCohort queries the cohort_id GSI filtered to ACTIVE status.
func (r *EnrollmentRepo) ListActiveByCohort(ctx context.Context, cohortID string) ([]domain.Enrollment, error) {
	return r.query(ctx, "cohort_id-index", "cohort_id", cohortID, true)
}

// ListByPartner queries all enrollments of a partner, any status.
func (r *EnrollmentRepo) ListByPartner(ctx context.Context, partnerID string) ([]domain.Enrollment, error) {
	return r.query(ctx, "partner_id-index", "partner_id", partnerID, false)
}

// ListActiveByPartner queries the partner's ACTIVE enrollments.
func (r *EnrollmentRepo) ListActiveByPartner(ctx context.Context, partnerID string) ([]domain.Enrollment, error) {
	return r.query(ctx, "partner_id-index", "partner_id", partnerID, true)
}

// ListByParticipant queries all enrollments of one participant.
func (r *EnrollmentRepo) ListByParticipant(ctx context.Context, participantID string) ([]domain.Enrollment, error) {
	return r.query(ctx, "participant_id-index", "participant_id", participantID, false)
}

func (r *EnrollmentRepo) query(ctx context.Context, index, keyName, keyValue string, activeOnly bool) ([]domain.Enrollment, error) {
	in := &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(index),
		KeyConditionExpression: aws.String(keyName + " = :k"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":k": &types.AttributeValueMemberS{Value: keyValue},
		},
	}
	if activeOnly {
		in.FilterExpression = aws.String("#st = :active")
		in.ExpressionAttributeNames = map[string]string{"#st": "status"}
		in.ExpressionAttributeValues[":active"] = &types.AttributeValueMemberS{Value: string(domain.EnrollmentStatusActive)}
	}
	out, err := r.client.Query(ctx, in)
	if err != nil {
		return nil, err
	}
	var enrollments []domain.Enrollment
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &enrollments); err != nil {
		return nil, err
	}
	return enrollments, nil
}
