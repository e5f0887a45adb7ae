package attendance

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/facegate/facegate/internal/facematch"
)

// ObjectGetter retrieves uploaded capture bytes from the object store.
type ObjectGetter interface {
	Get(ctx context.Context, key string) ([]byte, error)
}

// FaceMatcher matches an image against the enrolled face collection.
// A nil match with a nil error means no face cleared the threshold.
type FaceMatcher interface {
	SearchByImage(ctx context.Context, image []byte) (*facematch.Match, error)
}

// RecordStore appends attendance records. Append must reject a record that
// would be the (limit+1)-th for the employee on the record's calendar day by
// returning ErrDailyLimitReached; the check and the insert happen as one
// atomic operation so concurrent requests cannot overshoot the limit.
type RecordStore interface {
	Append(ctx context.Context, rec Record, limit int) error
}

// Service drives the attendance-marking workflow.
type Service struct {
	objects ObjectGetter
	matcher FaceMatcher
	records RecordStore
	limit   int
	now     func() time.Time
}

// NewService creates an attendance service with the given daily limit.
func NewService(objects ObjectGetter, matcher FaceMatcher, records RecordStore, limit int) *Service {
	return &Service{
		objects: objects,
		matcher: matcher,
		records: records,
		limit:   limit,
		now:     time.Now,
	}
}

// WithClock overrides the service clock. Used by tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Mark fetches the uploaded capture, matches the face, and records the
// attendance event. Business outcomes (no match, limit exceeded) are
// reported in the Result, not as errors; the error return covers downstream
// failures only.
func (s *Service) Mark(ctx context.Context, imageKey string) (Result, error) {
	image, err := s.objects.Get(ctx, imageKey)
	if err != nil {
		return Result{}, fmt.Errorf("fetching capture %q: %w", imageKey, err)
	}

	match, err := s.matcher.SearchByImage(ctx, image)
	if err != nil {
		return Result{}, fmt.Errorf("searching face collection: %w", err)
	}
	if match == nil {
		return Result{
			Status:  StatusNoMatch,
			Message: "No matching face found",
		}, nil
	}

	now := s.now().UTC()
	rec := Record{
		EmployeeID: match.EmployeeID,
		Timestamp:  now.Format(time.RFC3339),
	}

	if err := s.records.Append(ctx, rec, s.limit); err != nil {
		if errors.Is(err, ErrDailyLimitReached) {
			return Result{
				Status:  StatusLimitExceeded,
				Message: fmt.Sprintf("You cannot mark attendance more than %d times today.", s.limit),
			}, nil
		}
		return Result{}, fmt.Errorf("appending attendance record: %w", err)
	}

	log.Printf("attendance recorded for %s at %s (similarity %.1f)", rec.EmployeeID, rec.Timestamp, match.Confidence)

	return Result{
		Status:     StatusRecorded,
		Message:    "Attendance marked successfully",
		EmployeeID: rec.EmployeeID,
		Date:       rec.Day(),
		Time:       rec.Timestamp,
	}, nil
}
