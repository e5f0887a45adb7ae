package handlers

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/facegate/facegate/internal/attendance"
)

type fakeMarker struct {
	result  attendance.Result
	err     error
	lastKey string
}

func (f *fakeMarker) Mark(_ context.Context, imageKey string) (attendance.Result, error) {
	f.lastKey = imageKey
	return f.result, f.err
}

func postMark(handler *AttendanceHandler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", "/mark-attendance", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	handler.Mark(recorder, req)
	return recorder
}

func TestMarkHandler_Recorded(t *testing.T) {
	marker := &fakeMarker{result: attendance.Result{
		Status:     attendance.StatusRecorded,
		Message:    "Attendance marked successfully",
		EmployeeID: "E1",
		Date:       "2024-01-01",
		Time:       "2024-01-01T09:00:00Z",
	}}
	handler := NewAttendanceHandler(marker)

	recorder := postMark(handler, `{"imageKey":"uploads/1_photo.png"}`)

	assertStatusCode(t, recorder, 200)

	var result attendance.Result
	parseJSONResponse(t, recorder, &result)

	if result.Status != attendance.StatusRecorded {
		t.Errorf("expected status recorded, got '%s'", result.Status)
	}
	if result.EmployeeID != "E1" {
		t.Errorf("expected employeeId E1, got '%s'", result.EmployeeID)
	}
	if marker.lastKey != "uploads/1_photo.png" {
		t.Errorf("expected marker called with image key, got '%s'", marker.lastKey)
	}
}

func TestMarkHandler_NoMatchIsSuccess(t *testing.T) {
	marker := &fakeMarker{result: attendance.Result{
		Status:  attendance.StatusNoMatch,
		Message: "No matching face found",
	}}
	handler := NewAttendanceHandler(marker)

	recorder := postMark(handler, `{"imageKey":"uploads/1_photo.png"}`)

	assertStatusCode(t, recorder, 200)

	var result attendance.Result
	parseJSONResponse(t, recorder, &result)
	if result.Status != attendance.StatusNoMatch {
		t.Errorf("expected status no_match, got '%s'", result.Status)
	}
	if result.EmployeeID != "" {
		t.Errorf("no-match response should carry no employeeId, got '%s'", result.EmployeeID)
	}
}

func TestMarkHandler_LimitExceededIs400(t *testing.T) {
	marker := &fakeMarker{result: attendance.Result{
		Status:  attendance.StatusLimitExceeded,
		Message: "You cannot mark attendance more than 2 times today.",
	}}
	handler := NewAttendanceHandler(marker)

	recorder := postMark(handler, `{"imageKey":"uploads/1_photo.png"}`)

	assertStatusCode(t, recorder, 400)

	var result attendance.Result
	parseJSONResponse(t, recorder, &result)
	if !strings.Contains(result.Message, "cannot mark attendance more than 2 times today") {
		t.Errorf("unexpected message '%s'", result.Message)
	}
}

func TestMarkHandler_MissingImageKey(t *testing.T) {
	handler := NewAttendanceHandler(&fakeMarker{})

	recorder := postMark(handler, `{}`)

	assertStatusCode(t, recorder, 400)
	assertMessage(t, recorder, "error", "Missing required parameter: imageKey")
}

func TestMarkHandler_InvalidBody(t *testing.T) {
	handler := NewAttendanceHandler(&fakeMarker{})

	recorder := postMark(handler, `not json`)

	assertStatusCode(t, recorder, 400)
}

func TestMarkHandler_DownstreamErrorIsGeneric(t *testing.T) {
	marker := &fakeMarker{err: errors.New("dynamodb: ProvisionedThroughputExceededException on AttendanceLogs-prod")}
	handler := NewAttendanceHandler(marker)

	recorder := postMark(handler, `{"imageKey":"uploads/1_photo.png"}`)

	assertStatusCode(t, recorder, 500)
	// The raw downstream error must not leak to the caller.
	assertMessage(t, recorder, "error", "Internal server error")
}
