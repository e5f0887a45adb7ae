// Package analytics computes daily and weekly attendance counts from the
// full record set and publishes them as JSON objects in the analytics
// bucket. The aggregation is a full recompute on every run, so repeated
// runs over an unchanged record set produce identical output.
package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/facegate/facegate/internal/attendance"
)

// Object keys the aggregation output is published under.
const (
	DailyKey  = "analytics/daily.json"
	WeeklyKey = "analytics/weekly.json"
)

// RecordScanner reads the full attendance record set.
type RecordScanner interface {
	ScanAll(ctx context.Context) ([]attendance.Record, error)
}

// ObjectPutter publishes aggregation output.
type ObjectPutter interface {
	Put(ctx context.Context, key, contentType string, body []byte) error
}

// Counts maps employee IDs to attendance counts.
type Counts map[string]int

// Aggregate buckets records into per-employee counts: daily covers the
// calendar day of now, weekly covers the trailing seven days. Records with
// malformed timestamps are skipped.
func Aggregate(records []attendance.Record, now time.Time) (daily, weekly Counts) {
	daily = make(Counts)
	weekly = make(Counts)

	now = now.UTC()
	today := now.Format(time.DateOnly)
	weekAgo := time.Date(now.Year(), now.Month(), now.Day()-7, 0, 0, 0, 0, time.UTC)

	for _, rec := range records {
		day, err := time.Parse(time.DateOnly, rec.Day())
		if err != nil {
			continue
		}
		if rec.Day() == today {
			daily[rec.EmployeeID]++
		}
		if !day.Before(weekAgo) && !day.After(now) {
			weekly[rec.EmployeeID]++
		}
	}
	return daily, weekly
}

// Job scans the record store and publishes the aggregates.
type Job struct {
	records RecordScanner
	objects ObjectPutter
	now     func() time.Time
}

// NewJob creates an aggregation job writing to the given object store.
func NewJob(records RecordScanner, objects ObjectPutter) *Job {
	return &Job{
		records: records,
		objects: objects,
		now:     time.Now,
	}
}

// WithClock overrides the job clock. Used by tests.
func (j *Job) WithClock(now func() time.Time) *Job {
	j.now = now
	return j
}

// Run performs one full aggregation pass and publishes both outputs.
func (j *Job) Run(ctx context.Context) (daily, weekly Counts, err error) {
	records, err := j.records.ScanAll(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("scanning records: %w", err)
	}

	daily, weekly = Aggregate(records, j.now())

	if err := j.publish(ctx, DailyKey, daily); err != nil {
		return nil, nil, err
	}
	if err := j.publish(ctx, WeeklyKey, weekly); err != nil {
		return nil, nil, err
	}

	log.Printf("aggregated %d records into %d daily and %d weekly entries", len(records), len(daily), len(weekly))
	return daily, weekly, nil
}

func (j *Job) publish(ctx context.Context, key string, counts Counts) error {
	body, err := json.MarshalIndent(counts, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", key, err)
	}
	if err := j.objects.Put(ctx, key, "application/json", body); err != nil {
		return fmt.Errorf("publishing %s: %w", key, err)
	}
	return nil
}
