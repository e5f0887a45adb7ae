package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrSessionInvalid is returned when the token supplier yields an absent or
// expired session. Callers should re-authenticate.
var ErrSessionInvalid = errors.New("session absent or expired")

// UploadTicket is the time-limited upload capability issued by the server.
type UploadTicket struct {
	UploadURL string `json:"uploadUrl"`
	Key       string `json:"key"`
}

// MarkResponse is the mark-attendance response body.
type MarkResponse struct {
	Status     string `json:"status"`
	Message    string `json:"message"`
	EmployeeID string `json:"employeeId"`
	Date       string `json:"date"`
	Time       string `json:"time"`
	Error      string `json:"error"`
}

// API is a client for the attendance service.
type API struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSupplier
}

// NewAPI creates an API client. The supplier is consulted before every
// protected call.
func NewAPI(baseURL string, tokens TokenSupplier) *API {
	return &API{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		tokens:     tokens,
	}
}

// session fetches and validates the current session.
func (a *API) session() (Session, error) {
	sess, err := a.tokens()
	if err != nil {
		return Session{}, fmt.Errorf("obtaining session: %w", err)
	}
	if sess.State() != SessionValid {
		return Session{}, ErrSessionInvalid
	}
	return sess, nil
}

// IssueUploadURL requests a presigned upload ticket for a capture file.
func (a *API) IssueUploadURL(ctx context.Context, filename, filetype string) (UploadTicket, error) {
	sess, err := a.session()
	if err != nil {
		return UploadTicket{}, err
	}

	endpoint := fmt.Sprintf("%s/getUploadUrl?filename=%s&filetype=%s",
		a.baseURL, url.QueryEscape(filename), url.QueryEscape(filetype))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return UploadTicket{}, fmt.Errorf("could not create request: %w", err)
	}
	req.Header.Set("Authorization", sess.Token)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return UploadTicket{}, fmt.Errorf("could not send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return UploadTicket{}, fmt.Errorf("presign request failed with status %d", resp.StatusCode)
	}

	var ticket UploadTicket
	if err := json.NewDecoder(resp.Body).Decode(&ticket); err != nil {
		return UploadTicket{}, fmt.Errorf("could not unmarshal response: %w", err)
	}
	return ticket, nil
}

// UploadObject PUTs the capture bytes to the presigned URL. The content
// type must match the one the ticket was issued for.
func (a *API) UploadObject(ctx context.Context, uploadURL, contentType string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, uploadURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("could not create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("could not send request: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("upload failed with status %d", resp.StatusCode)
	}
	return nil
}

// MarkAttendance asks the server to match the uploaded capture and record
// attendance. Non-2xx business responses (limit exceeded) still return a
// parsed body; only transport and server failures return an error.
func (a *API) MarkAttendance(ctx context.Context, imageKey string) (MarkResponse, error) {
	sess, err := a.session()
	if err != nil {
		return MarkResponse{}, err
	}

	payload, err := json.Marshal(map[string]string{"imageKey": imageKey})
	if err != nil {
		return MarkResponse{}, fmt.Errorf("could not marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/mark-attendance", bytes.NewReader(payload))
	if err != nil {
		return MarkResponse{}, fmt.Errorf("could not create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", sess.Token)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return MarkResponse{}, fmt.Errorf("could not send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return MarkResponse{}, ErrSessionInvalid
	}
	if resp.StatusCode >= http.StatusInternalServerError {
		return MarkResponse{}, fmt.Errorf("mark request failed with status %d", resp.StatusCode)
	}

	var result MarkResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return MarkResponse{}, fmt.Errorf("could not unmarshal response: %w", err)
	}
	return result, nil
}

// Outcome classifies a mark response for presentation.
type Outcome int

const (
	OutcomeUnknown Outcome = iota
	OutcomeRecorded
	OutcomeNoMatch
	OutcomeLimitExceeded
	OutcomeError
)

// Classify maps a mark response to an outcome. The structured status field
// is authoritative; the message substrings of the legacy API are kept as a
// fallback for older servers that only send free text.
func Classify(resp MarkResponse) Outcome {
	switch resp.Status {
	case "recorded":
		return OutcomeRecorded
	case "no_match":
		return OutcomeNoMatch
	case "limit_exceeded":
		return OutcomeLimitExceeded
	case "error":
		return OutcomeError
	}

	switch {
	case strings.Contains(resp.Message, "Attendance marked successfully"):
		return OutcomeRecorded
	case strings.Contains(resp.Message, "No matching face"):
		return OutcomeNoMatch
	case strings.Contains(resp.Message, "cannot mark attendance more than"):
		return OutcomeLimitExceeded
	case strings.Contains(resp.Message, "already marked"):
		return OutcomeLimitExceeded
	case resp.Error != "":
		return OutcomeError
	}
	return OutcomeUnknown
}
