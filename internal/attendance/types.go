// Package attendance implements the match-and-record workflow: an uploaded
// capture is matched against the enrolled face collection and, on a match,
// an attendance record is appended subject to the per-day limit.
package attendance

import "errors"

// ErrDailyLimitReached is returned by a RecordStore when appending a record
// would exceed the daily limit for the employee.
var ErrDailyLimitReached = errors.New("daily attendance limit reached")

// Record is a single attendance event. Records are append-only and are
// identified by the (EmployeeID, Timestamp) pair.
type Record struct {
	EmployeeID string `json:"employeeId" dynamodbav:"EmployeeID"`
	Timestamp  string `json:"timestamp" dynamodbav:"Timestamp"` // RFC 3339, UTC
}

// Day returns the calendar date portion of the record timestamp.
// RFC 3339 timestamps prefix-match consistently by calendar day.
func (r Record) Day() string {
	if len(r.Timestamp) < 10 {
		return r.Timestamp
	}
	return r.Timestamp[:10]
}

// Status discriminates the outcome of a mark request. Clients switch on
// this field instead of pattern-matching free-text messages.
type Status string

const (
	StatusNoMatch       Status = "no_match"
	StatusLimitExceeded Status = "limit_exceeded"
	StatusRecorded      Status = "recorded"
	StatusError         Status = "error"
)

// Result is the outcome of a mark request. Message keeps the wording of
// the original attendance API so existing clients keep working.
type Result struct {
	Status     Status `json:"status"`
	Message    string `json:"message"`
	EmployeeID string `json:"employeeId,omitempty"`
	Date       string `json:"date,omitempty"`
	Time       string `json:"time,omitempty"`
}
