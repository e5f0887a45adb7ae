package client

import (
	"context"
	"errors"
	"fmt"
)

// Phase is the capture workflow state.
type Phase string

const (
	PhaseIdle          Phase = "idle"
	PhaseCameraActive  Phase = "camera-active"
	PhasePhotoCaptured Phase = "photo-captured"
	PhaseUploading     Phase = "uploading"
)

// Frame is a single captured image.
type Frame struct {
	Filename    string
	ContentType string
	Data        []byte
}

var (
	ErrNotCapturing = errors.New("no active camera")
	ErrNoFrame      = errors.New("no captured frame")
	ErrBusy         = errors.New("upload already in progress")
)

// Controller drives the capture and upload workflow. A frame survives a
// failed or rejected upload so the user can retry without recapturing.
type Controller struct {
	api   *API
	phase Phase
	frame *Frame
}

func NewController(api *API) *Controller {
	return &Controller{api: api, phase: PhaseIdle}
}

func (c *Controller) Phase() Phase { return c.phase }

// Frame returns the currently held capture, nil when none.
func (c *Controller) Frame() *Frame { return c.frame }

// StartCamera moves from idle to camera-active. Requires a valid session.
func (c *Controller) StartCamera() error {
	if c.phase != PhaseIdle {
		return fmt.Errorf("cannot start camera in phase %q", c.phase)
	}
	if _, err := c.api.session(); err != nil {
		return err
	}
	c.phase = PhaseCameraActive
	return nil
}

// Capture freezes a frame and stops the live preview.
func (c *Controller) Capture(frame Frame) error {
	if c.phase != PhaseCameraActive {
		return ErrNotCapturing
	}
	if len(frame.Data) == 0 {
		return ErrNoFrame
	}
	c.frame = &frame
	c.phase = PhasePhotoCaptured
	return nil
}

// Retake discards the held frame and returns to the live preview.
func (c *Controller) Retake() error {
	if c.phase != PhasePhotoCaptured {
		return ErrNoFrame
	}
	c.frame = nil
	c.phase = PhaseCameraActive
	return nil
}

// Upload sends the held frame through the presign/upload/mark sequence.
// On a recorded outcome the workflow resets to idle and the frame is
// dropped; on any failure or rejection the frame is kept and the phase
// returns to photo-captured so the same image can be retried.
func (c *Controller) Upload(ctx context.Context) (MarkResponse, error) {
	if c.phase == PhaseUploading {
		return MarkResponse{}, ErrBusy
	}
	if c.phase != PhasePhotoCaptured || c.frame == nil {
		return MarkResponse{}, ErrNoFrame
	}
	c.phase = PhaseUploading

	resp, err := c.upload(ctx)
	if err != nil {
		c.phase = PhasePhotoCaptured
		return MarkResponse{}, err
	}

	if Classify(resp) == OutcomeRecorded {
		c.frame = nil
		c.phase = PhaseIdle
	} else {
		c.phase = PhasePhotoCaptured
	}
	return resp, nil
}

func (c *Controller) upload(ctx context.Context) (MarkResponse, error) {
	ticket, err := c.api.IssueUploadURL(ctx, c.frame.Filename, c.frame.ContentType)
	if err != nil {
		return MarkResponse{}, fmt.Errorf("issuing upload URL: %w", err)
	}
	if err := c.api.UploadObject(ctx, ticket.UploadURL, c.frame.ContentType, c.frame.Data); err != nil {
		return MarkResponse{}, fmt.Errorf("uploading capture: %w", err)
	}
	resp, err := c.api.MarkAttendance(ctx, ticket.Key)
	if err != nil {
		return MarkResponse{}, fmt.Errorf("marking attendance: %w", err)
	}
	return resp, nil
}
