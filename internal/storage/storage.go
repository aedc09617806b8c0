package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
)

// ErrNoBackend is returned when no object storage backend is configured.
var ErrNoBackend = errors.New("object storage is not configured")

// ErrObjectNotFound is returned when the requested key does not exist in
// the bucket. Both backends translate their SDK errors to it.
var ErrObjectNotFound = errors.New("object not found")

// ObjectStorage defines common object operations across backends.
type ObjectStorage interface {
	EnsureBucket(ctx context.Context) error
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	Bucket() string
}

// DeliverableStore keeps task-submission deliverable files in an object
// storage backend, one object per submission version.
type DeliverableStore struct {
	backend ObjectStorage
}

// NewDeliverableStore constructs a store over the provided backend.
func NewDeliverableStore(backend ObjectStorage) *DeliverableStore {
	return &DeliverableStore{backend: backend}
}

// SubmissionKey builds the object key for a task's deliverable at the
// given version. Versions never repeat per task, so keys never collide.
func SubmissionKey(taskID int64, version int, filename string) string {
	return fmt.Sprintf("tasks/%d/submissions/v%d/%s", taskID, version, path.Base(filename))
}

// EnsureBucket ensures the configured bucket exists.
func (s *DeliverableStore) EnsureBucket(ctx context.Context) error {
	if s == nil || s.backend == nil {
		return ErrNoBackend
	}
	return s.backend.EnsureBucket(ctx)
}

// Put uploads a deliverable to the configured bucket.
func (s *DeliverableStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	if s == nil || s.backend == nil {
		return ErrNoBackend
	}
	return s.backend.Put(ctx, key, r, size, contentType)
}

// Get opens a reader for a stored deliverable.
func (s *DeliverableStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	if s == nil || s.backend == nil {
		return nil, ErrNoBackend
	}
	return s.backend.Get(ctx, key)
}

// Delete removes a stored deliverable.
func (s *DeliverableStore) Delete(ctx context.Context, key string) error {
	if s == nil || s.backend == nil {
		return ErrNoBackend
	}
	return s.backend.Delete(ctx, key)
}

// Bucket returns the configured bucket name.
func (s *DeliverableStore) Bucket() string {
	if s == nil || s.backend == nil {
		return ""
	}
	return s.backend.Bucket()
}
