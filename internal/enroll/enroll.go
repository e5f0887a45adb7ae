// Package enroll registers employee faces: the image is stored in the
// capture bucket, indexed into the face collection under the employee ID,
// and a registration metadata item is written for audit.
package enroll

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Registration is the metadata kept for one enrolled face image.
type Registration struct {
	ID           string // unique registration ID
	EmployeeID   string
	ImageKey     string
	FaceID       string // identifier assigned by the face service
	RegisteredAt string // RFC 3339, UTC
}

// ObjectPutter writes enrollment images to the object store.
type ObjectPutter interface {
	Put(ctx context.Context, key, contentType string, body []byte) error
}

// Indexer enrolls a stored image into the face collection.
type Indexer interface {
	IndexFace(ctx context.Context, bucket, key, employeeID string) (string, error)
}

// RegistrationStore persists registration metadata.
type RegistrationStore interface {
	SaveRegistration(ctx context.Context, reg Registration) error
}

// Service enrolls faces into the collection backing the attendance matcher.
type Service struct {
	objects ObjectPutter
	indexer Indexer
	regs    RegistrationStore
	bucket  string
	now     func() time.Time
}

// NewService creates an enrollment service. The bucket must be the one the
// ObjectPutter writes to, since the indexer references images by bucket/key.
func NewService(objects ObjectPutter, indexer Indexer, regs RegistrationStore, bucket string) *Service {
	return &Service{
		objects: objects,
		indexer: indexer,
		regs:    regs,
		bucket:  bucket,
		now:     time.Now,
	}
}

// WithClock overrides the service clock. Used by tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// EnrollImage enrolls one face image for an employee. The image lands at
// faces/<employeeID>/<filename> in the bucket.
func (s *Service) EnrollImage(ctx context.Context, employeeID, filename string, image []byte) (Registration, error) {
	if employeeID == "" {
		return Registration{}, fmt.Errorf("employee ID is required")
	}

	key := fmt.Sprintf("faces/%s/%s", employeeID, filepath.Base(filename))
	contentType := mime.TypeByExtension(filepath.Ext(filename))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	if err := s.objects.Put(ctx, key, contentType, image); err != nil {
		return Registration{}, fmt.Errorf("storing enrollment image: %w", err)
	}

	faceID, err := s.indexer.IndexFace(ctx, s.bucket, key, employeeID)
	if err != nil {
		return Registration{}, fmt.Errorf("indexing face: %w", err)
	}

	reg := Registration{
		ID:           uuid.New().String(),
		EmployeeID:   employeeID,
		ImageKey:     key,
		FaceID:       faceID,
		RegisteredAt: s.now().UTC().Format(time.RFC3339),
	}
	if err := s.regs.SaveRegistration(ctx, reg); err != nil {
		return Registration{}, fmt.Errorf("saving registration: %w", err)
	}
	return reg, nil
}

// EnrollFile reads an image from disk and enrolls it.
func (s *Service) EnrollFile(ctx context.Context, employeeID, path string) (Registration, error) {
	image, err := os.ReadFile(path)
	if err != nil {
		return Registration{}, fmt.Errorf("reading %s: %w", path, err)
	}
	return s.EnrollImage(ctx, employeeID, filepath.Base(path), image)
}
