package store

import (
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

func TestIsConditionalCheckFailed(t *testing.T) {
	canceled := &types.TransactionCanceledException{
		CancellationReasons: []types.CancellationReason{
			{Code: aws.String("ConditionalCheckFailed")},
			{Code: aws.String("None")},
		},
	}

	if !isConditionalCheckFailed(canceled) {
		t.Error("expected conditional check failure to be detected")
	}
}

func TestIsConditionalCheckFailed_OtherReasons(t *testing.T) {
	canceled := &types.TransactionCanceledException{
		CancellationReasons: []types.CancellationReason{
			{Code: aws.String("TransactionConflict")},
		},
	}

	if isConditionalCheckFailed(canceled) {
		t.Error("transaction conflict should not map to the daily limit")
	}
}

func TestIsConditionalCheckFailed_UnrelatedError(t *testing.T) {
	if isConditionalCheckFailed(errors.New("network down")) {
		t.Error("unrelated errors should not map to the daily limit")
	}
}

func TestCounterPrefixNeverMatchesDatePrefix(t *testing.T) {
	// Counter items share the records table; their sort key must never be
	// picked up by a calendar-date prefix.
	counterKey := counterPrefix + "2024-01-01"
	datePrefix := "2024-01-01"

	if counterKey[:len(datePrefix)] == datePrefix {
		t.Errorf("counter key '%s' collides with date prefix '%s'", counterKey, datePrefix)
	}
}
