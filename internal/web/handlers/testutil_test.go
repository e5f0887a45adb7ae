package handlers

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
)

// parseJSONResponse parses a JSON response body into the target type
func parseJSONResponse(t *testing.T, recorder *httptest.ResponseRecorder, target any) {
	t.Helper()
	if err := json.Unmarshal(recorder.Body.Bytes(), target); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nBody: %s", err, recorder.Body.String())
	}
}

// assertStatusCode checks if the response has the expected status code
func assertStatusCode(t *testing.T, recorder *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if recorder.Code != expected {
		t.Errorf("expected status %d, got %d\nBody: %s", expected, recorder.Code, recorder.Body.String())
	}
}

// assertMessage checks the status/message body shared by error responses
func assertMessage(t *testing.T, recorder *httptest.ResponseRecorder, expectedStatus, expectedMessage string) {
	t.Helper()
	var result map[string]string
	parseJSONResponse(t, recorder, &result)
	if result["status"] != expectedStatus {
		t.Errorf("expected status '%s', got '%s'", expectedStatus, result["status"])
	}
	if result["message"] != expectedMessage {
		t.Errorf("expected message '%s', got '%s'", expectedMessage, result["message"])
	}
}
