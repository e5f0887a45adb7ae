package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/facegate/facegate/internal/attendance"
	"github.com/facegate/facegate/internal/enroll"
)

// counterPrefix marks per-day counter items in the records table. Counter
// sort keys ("DAY#2024-01-01") never collide with record timestamps, which
// all start with a digit.
const counterPrefix = "DAY#"

func newDynamoClient(cfg aws.Config, endpoint string) *dynamodb.Client {
	return dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})
}

// RecordStore persists attendance records in a DynamoDB table keyed by
// (EmployeeID, Timestamp). A per-day counter item per employee backs the
// atomic daily-limit check.
type RecordStore struct {
	client *dynamodb.Client
	table  string
}

// NewRecordStore creates a record store bound to one table.
func NewRecordStore(cfg aws.Config, table, endpoint string) *RecordStore {
	return &RecordStore{
		client: newDynamoClient(cfg, endpoint),
		table:  table,
	}
}

// Append inserts a record unless the employee already has limit records for
// the record's calendar day. The count check and the insert run as a single
// transaction: a conditional ADD on the day counter paired with the record
// put, so concurrent requests cannot exceed the limit.
func (s *RecordStore) Append(ctx context.Context, rec attendance.Record, limit int) error {
	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	counterKey := map[string]types.AttributeValue{
		"EmployeeID": &types.AttributeValueMemberS{Value: rec.EmployeeID},
		"Timestamp":  &types.AttributeValueMemberS{Value: counterPrefix + rec.Day()},
	}

	_, err = s.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				Update: &types.Update{
					TableName:           aws.String(s.table),
					Key:                 counterKey,
					UpdateExpression:    aws.String("ADD marks :one"),
					ConditionExpression: aws.String("attribute_not_exists(marks) OR marks < :limit"),
					ExpressionAttributeValues: map[string]types.AttributeValue{
						":one":   &types.AttributeValueMemberN{Value: "1"},
						":limit": &types.AttributeValueMemberN{Value: strconv.Itoa(limit)},
					},
				},
			},
			{
				Put: &types.Put{
					TableName: aws.String(s.table),
					Item:      item,
				},
			},
		},
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return attendance.ErrDailyLimitReached
		}
		return fmt.Errorf("failed to append record: %w", err)
	}
	return nil
}

// ScanAll returns every attendance record in the table, following scan
// pagination. Counter items are filtered out.
func (s *RecordStore) ScanAll(ctx context.Context) ([]attendance.Record, error) {
	filter := expression.Not(expression.Name("Timestamp").BeginsWith(counterPrefix))
	expr, err := expression.NewBuilder().WithFilter(filter).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build filter expression: %w", err)
	}

	var records []attendance.Record
	var startKey map[string]types.AttributeValue
	for {
		out, err := s.client.Scan(ctx, &dynamodb.ScanInput{
			TableName:                 aws.String(s.table),
			FilterExpression:          expr.Filter(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
			ExclusiveStartKey:         startKey,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to scan records table: %w", err)
		}

		var page []attendance.Record
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, fmt.Errorf("failed to unmarshal records: %w", err)
		}
		records = append(records, page...)

		if out.LastEvaluatedKey == nil {
			return records, nil
		}
		startKey = out.LastEvaluatedKey
	}
}

// isConditionalCheckFailed reports whether a transaction was canceled
// because the daily-limit condition did not hold.
func isConditionalCheckFailed(err error) bool {
	var canceled *types.TransactionCanceledException
	if !errors.As(err, &canceled) {
		return false
	}
	for _, reason := range canceled.CancellationReasons {
		if aws.ToString(reason.Code) == "ConditionalCheckFailed" {
			return true
		}
	}
	return false
}

// registrationItem is the DynamoDB shape of a face registration.
type registrationItem struct {
	EmployeeID   string `dynamodbav:"EmployeeID"`
	ID           string `dynamodbav:"ID"`
	ImageKey     string `dynamodbav:"ImageKey"`
	FaceID       string `dynamodbav:"FaceID"`
	RegisteredAt string `dynamodbav:"RegisteredAt"`
}

// RegistrationStore persists face-registration metadata.
type RegistrationStore struct {
	client *dynamodb.Client
	table  string
}

// NewRegistrationStore creates a registration store bound to one table.
func NewRegistrationStore(cfg aws.Config, table, endpoint string) *RegistrationStore {
	return &RegistrationStore{
		client: newDynamoClient(cfg, endpoint),
		table:  table,
	}
}

// SaveRegistration writes the metadata item for an enrolled face.
func (s *RegistrationStore) SaveRegistration(ctx context.Context, reg enroll.Registration) error {
	item, err := attributevalue.MarshalMap(registrationItem{
		EmployeeID:   reg.EmployeeID,
		ID:           reg.ID,
		ImageKey:     reg.ImageKey,
		FaceID:       reg.FaceID,
		RegisteredAt: reg.RegisteredAt,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal registration: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("failed to put registration: %w", err)
	}
	return nil
}
