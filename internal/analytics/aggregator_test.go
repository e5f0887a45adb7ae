package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/facegate/facegate/internal/attendance"
)

func testRecords() []attendance.Record {
	return []attendance.Record{
		{EmployeeID: "E1", Timestamp: "2024-01-15T08:00:00Z"},
		{EmployeeID: "E1", Timestamp: "2024-01-15T17:00:00Z"},
		{EmployeeID: "E2", Timestamp: "2024-01-15T08:30:00Z"},
		{EmployeeID: "E2", Timestamp: "2024-01-12T08:30:00Z"},
		{EmployeeID: "E3", Timestamp: "2024-01-01T08:00:00Z"}, // outside the week
		{EmployeeID: "E4", Timestamp: "garbage"},              // skipped
	}
}

func testNow() time.Time {
	return time.Date(2024, 1, 15, 18, 0, 0, 0, time.UTC)
}

func TestAggregate_Buckets(t *testing.T) {
	daily, weekly := Aggregate(testRecords(), testNow())

	wantDaily := Counts{"E1": 2, "E2": 1}
	if !reflect.DeepEqual(daily, wantDaily) {
		t.Errorf("daily = %v, want %v", daily, wantDaily)
	}

	wantWeekly := Counts{"E1": 2, "E2": 2}
	if !reflect.DeepEqual(weekly, wantWeekly) {
		t.Errorf("weekly = %v, want %v", weekly, wantWeekly)
	}
}

func TestAggregate_Idempotent(t *testing.T) {
	records := testRecords()

	daily1, weekly1 := Aggregate(records, testNow())
	daily2, weekly2 := Aggregate(records, testNow())

	if !reflect.DeepEqual(daily1, daily2) {
		t.Errorf("daily output changed between runs: %v vs %v", daily1, daily2)
	}
	if !reflect.DeepEqual(weekly1, weekly2) {
		t.Errorf("weekly output changed between runs: %v vs %v", weekly1, weekly2)
	}
}

func TestAggregate_EmptyRecords(t *testing.T) {
	daily, weekly := Aggregate(nil, testNow())

	if len(daily) != 0 || len(weekly) != 0 {
		t.Errorf("expected empty counts, got daily=%v weekly=%v", daily, weekly)
	}
}

type fakeScanner struct {
	records []attendance.Record
	err     error
}

func (f *fakeScanner) ScanAll(context.Context) ([]attendance.Record, error) {
	return f.records, f.err
}

type fakeSink struct {
	objects map[string][]byte
}

func (f *fakeSink) Put(_ context.Context, key, contentType string, body []byte) error {
	if contentType != "application/json" {
		return errors.New("unexpected content type " + contentType)
	}
	if f.objects == nil {
		f.objects = make(map[string][]byte)
	}
	f.objects[key] = body
	return nil
}

func TestJob_Run(t *testing.T) {
	sink := &fakeSink{}
	job := NewJob(&fakeScanner{records: testRecords()}, sink)
	job.WithClock(testNow)

	daily, _, err := job.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if daily["E1"] != 2 {
		t.Errorf("expected daily count 2 for E1, got %d", daily["E1"])
	}

	for _, key := range []string{DailyKey, WeeklyKey} {
		body, ok := sink.objects[key]
		if !ok {
			t.Fatalf("expected object at %s", key)
		}
		var published Counts
		if err := json.Unmarshal(body, &published); err != nil {
			t.Fatalf("published %s is not valid JSON: %v", key, err)
		}
	}
}

func TestJob_Run_PublishedOutputStable(t *testing.T) {
	first := &fakeSink{}
	second := &fakeSink{}

	job1 := NewJob(&fakeScanner{records: testRecords()}, first).WithClock(testNow)
	job2 := NewJob(&fakeScanner{records: testRecords()}, second).WithClock(testNow)

	if _, _, err := job1.Run(context.Background()); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if _, _, err := job2.Run(context.Background()); err != nil {
		t.Fatalf("second run: %v", err)
	}

	for _, key := range []string{DailyKey, WeeklyKey} {
		if string(first.objects[key]) != string(second.objects[key]) {
			t.Errorf("published %s differs between identical runs", key)
		}
	}
}

func TestJob_Run_ScanError(t *testing.T) {
	job := NewJob(&fakeScanner{err: errors.New("table missing")}, &fakeSink{})

	if _, _, err := job.Run(context.Background()); err == nil {
		t.Fatal("expected error when scan fails")
	}
}
