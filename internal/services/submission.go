package services

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/solverhub/apiserver/internal/events"
	"github.com/solverhub/apiserver/internal/storage"
	"github.com/solverhub/apiserver/internal/store"
	"github.com/solverhub/apiserver/types"
)

// TaskSubmissionRepository defines persistence operations for task
// submissions. NextVersion allocates over all rows, deleted included,
// so version numbers and deliverable keys are never reused.
type TaskSubmissionRepository interface {
	NextVersion(ctx context.Context, taskID int64) (int, error)
	Create(ctx context.Context, submission types.TaskSubmission) (types.TaskSubmission, error)
	Update(ctx context.Context, submission types.TaskSubmission) (types.TaskSubmission, error)
	GetByIdentifier(ctx context.Context, ident types.Identifier) (types.TaskSubmission, error)
	ListByTask(ctx context.Context, taskID int64) ([]types.TaskSubmission, error)
	Latest(ctx context.Context, taskID int64) (types.TaskSubmission, error)
	SoftDelete(ctx context.Context, ident types.Identifier) (bool, error)
}

// TaskSubmissionService enforces the versioned submit/review cycle for
// task deliverables, keeping the files themselves in object storage.
type TaskSubmissionService struct {
	repo     TaskSubmissionRepository
	tasks    TaskRepository
	files    *storage.DeliverableStore
	notifier *events.Notifier
}

func NewTaskSubmissionService(
	repo TaskSubmissionRepository,
	tasks TaskRepository,
	files *storage.DeliverableStore,
	notifier *events.Notifier,
) *TaskSubmissionService {
	return &TaskSubmissionService{repo: repo, tasks: tasks, files: files, notifier: notifier}
}

// Submit stores a deliverable for a task at the next version. A new
// version is allowed when the task has no submissions yet or when the
// latest one asked for a revision; anything else is a conflict.
func (s *TaskSubmissionService) Submit(ctx context.Context, taskID int64, filename string, file io.Reader, size int64, contentType string) (types.TaskSubmission, error) {
	task, err := s.tasks.GetByIdentifier(ctx, types.ByID(taskID))
	if err != nil {
		return types.TaskSubmission{}, err
	}

	latest, err := s.repo.Latest(ctx, taskID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		// First submission for the task.
	case err != nil:
		return types.TaskSubmission{}, err
	case latest.Feedback != types.FeedbackRevisionRequested:
		return types.TaskSubmission{}, fmt.Errorf(
			"%w: latest submission is %s", store.ErrConflict, latest.Feedback)
	}

	uid, err := uuid.NewV7()
	if err != nil {
		return types.TaskSubmission{}, err
	}

	version, err := s.repo.NextVersion(ctx, task.ID)
	if err != nil {
		return types.TaskSubmission{}, err
	}

	key := storage.SubmissionKey(task.ID, version, filename)
	if err := s.files.Put(ctx, key, file, size, contentType); err != nil {
		return types.TaskSubmission{}, err
	}

	submission, err := s.repo.Create(ctx, types.TaskSubmission{
		UUID:      uid,
		TaskID:    task.ID,
		ObjectKey: key,
		Version:   version,
		Feedback:  types.FeedbackPending,
	})
	if err != nil {
		// The stored object is orphaned on a failed insert; remove it.
		_ = s.files.Delete(ctx, key)
		return types.TaskSubmission{}, err
	}

	s.notifier.Publish(ctx, events.ChannelSubmissions, events.SubmissionCreated, submission)
	return submission, nil
}

// Review records the buyer's verdict on a submission, rejecting verdicts
// the feedback machine does not permit.
func (s *TaskSubmissionService) Review(ctx context.Context, ident types.Identifier, feedback types.BuyerFeedback) (types.TaskSubmission, error) {
	submission, err := s.repo.GetByIdentifier(ctx, ident)
	if err != nil {
		return types.TaskSubmission{}, err
	}

	if !submission.Feedback.CanTransition(feedback) {
		return types.TaskSubmission{}, &InvalidTransitionError{
			Entity: "submission",
			From:   string(submission.Feedback),
			To:     string(feedback),
		}
	}

	submission.Feedback = feedback
	submission, err = s.repo.Update(ctx, submission)
	if err != nil {
		return types.TaskSubmission{}, err
	}

	s.notifier.Publish(ctx, events.ChannelSubmissions, events.SubmissionReviewed, submission)
	return submission, nil
}

// Get resolves a submission by id or uuid.
func (s *TaskSubmissionService) Get(ctx context.Context, ident types.Identifier) (types.TaskSubmission, error) {
	return s.repo.GetByIdentifier(ctx, ident)
}

// ListByTask returns a task's live submissions newest-version-first.
func (s *TaskSubmissionService) ListByTask(ctx context.Context, taskID int64) ([]types.TaskSubmission, error) {
	return s.repo.ListByTask(ctx, taskID)
}

// Download opens the stored deliverable for a submission.
func (s *TaskSubmissionService) Download(ctx context.Context, ident types.Identifier) (io.ReadCloser, error) {
	submission, err := s.repo.GetByIdentifier(ctx, ident)
	if err != nil {
		return nil, err
	}
	return s.files.Get(ctx, submission.ObjectKey)
}

// SoftDelete hides the submission from every read path. Idempotent.
func (s *TaskSubmissionService) SoftDelete(ctx context.Context, ident types.Identifier) (bool, error) {
	return s.repo.SoftDelete(ctx, ident)
}
