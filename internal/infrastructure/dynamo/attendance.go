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

// AttendanceRepo provides typed DynamoDB operations for the attendance table.
// Session dates are stored RFC 3339 so the GSI range key sorts chronologically.
type AttendanceRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewAttendanceRepo(client *dynamodb.Client, tableName string) *AttendanceRepo {
	return &AttendanceRepo{client: client, tableName: tableName}
}

func (r *AttendanceRepo) Put(ctx context.Context, a *domain.AttendanceRecord) error {
	item, err := attributevalue.MarshalMap(a)
	if err != nil {
		return fmt.Errorf("marshal attendance record: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

// Latest returns the most recent attendance record for an enrollment, or
// domain.ErrNotFound when the enrollment has none.
func (r *AttendanceRepo) Latest(ctx context.Context, enrollmentID string) (*domain.AttendanceRecord, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("enrollment_id-session_date-index"),
		KeyConditionExpression: aws.String("enrollment_id = :eid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":eid": &types.AttributeValueMemberS{Value: enrollmentID},
		},
		ScanIndexForward: aws.Bool(false),
		Limit:            aws.Int32(1),
	})
	if err != nil {
		return nil, err
	}
	if len(out.Items) == 0 {
		return nil, fmt.Errorf("attendance for enrollment %s: %w", enrollmentID, domain.ErrNotFound)
	}
	var rec domain.AttendanceRecord
	if err := attributevalue.UnmarshalMap(out.Items[0], &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// HasSince reports whether the enrollment has any attendance record with a
// session date at or after the cutoff. The comparison is pushed into the
// query's range-key condition.
func (r *AttendanceRepo) HasSince(ctx context.Context, enrollmentID string, cutoff time.Time) (bool, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("enrollment_id-session_date-index"),
		KeyConditionExpression: aws.String("enrollment_id = :eid AND session_date >= :cutoff"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":eid":    &types.AttributeValueMemberS{Value: enrollmentID},
			":cutoff": &types.AttributeValueMemberS{Value: cutoff.UTC().Format(time.RFC3339)},
		},
		Limit: aws.Int32(1),
	})
	if err != nil {
		return false, err
	}
	return len(out.Items) > 0, nil
}

// HasOnDate reports whether the enrollment has an attendance record on the
// given calendar day (UTC).
func (r *AttendanceRepo) HasOnDate(ctx context.Context, enrollmentID string, day time.Time) (bool, error) {
	start := time.Date(day.UTC().Year(), day.UTC().Month(), day.UTC().Day(), 0, 0, 0, 0, time.UTC)
	end := start.Add(24 * time.Hour)
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("enrollment_id-session_date-index"),
		KeyConditionExpression: aws.String("enrollment_id = :eid AND session_date BETWEEN :start AND :end"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":eid":   &types.AttributeValueMemberS{Value: enrollmentID},
			":start": &types.AttributeValueMemberS{Value: start.Format(time.RFC3339)},
			":end":   &types.AttributeValueMemberS{Value: end.Format(time.RFC3339)},
		},
		Limit: aws.Int32(1),
	})
	if err != nil {
		return false, err
	}
	return len(out.Items) > 0, nil
}
