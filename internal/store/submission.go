package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/solverhub/apiserver/types"
)

const submissionColumns = `id, uuid, task_id, file_path, version,
	buyer_feedback, created_at, updated_at, deleted_at`

// TaskSubmissionRepository handles persistence for task submissions.
type TaskSubmissionRepository struct {
	db *sql.DB
}

func NewTaskSubmissionRepository(db *sql.DB) *TaskSubmissionRepository {
	return &TaskSubmissionRepository{db: db}
}

func scanSubmission(row interface{ Scan(...any) error }) (types.TaskSubmission, error) {
	var submission types.TaskSubmission
	err := row.Scan(
		&submission.ID,
		&submission.UUID,
		&submission.TaskID,
		&submission.ObjectKey,
		&submission.Version,
		&submission.Feedback,
		&submission.CreatedAt,
		&submission.UpdatedAt,
		&submission.DeletedAt,
	)
	return submission, err
}

// NextVersion returns the version the task's next submission will take.
// Soft-deleted rows count too so a number is never reused and their
// deliverable keys stay addressable.
func (r *TaskSubmissionRepository) NextVersion(ctx context.Context, taskID int64) (int, error) {
	const query = `
		SELECT COALESCE(MAX(version), 0) + 1
		FROM task_submissions WHERE task_id = $1`
	var version int
	if err := r.db.QueryRowContext(ctx, query, taskID).Scan(&version); err != nil {
		return 0, err
	}
	return version, nil
}

// Create persists a new submission at the caller-allocated version. A
// concurrent insert at the same version surfaces as ErrConflict via the
// (task_id, version) unique index.
func (r *TaskSubmissionRepository) Create(ctx context.Context, submission types.TaskSubmission) (types.TaskSubmission, error) {
	now := time.Now().UTC()
	submission.CreatedAt = now
	submission.UpdatedAt = now

	const query = `
		INSERT INTO task_submissions (uuid, task_id, file_path, version,
			buyer_feedback, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		submission.UUID,
		submission.TaskID,
		submission.ObjectKey,
		submission.Version,
		submission.Feedback,
		submission.CreatedAt,
		submission.UpdatedAt,
	).Scan(&submission.ID); err != nil {
		return types.TaskSubmission{}, translateError(err)
	}
	return submission, nil
}

// Update writes the reviewable fields keyed by uuid, refreshing
// updated_at.
func (r *TaskSubmissionRepository) Update(ctx context.Context, submission types.TaskSubmission) (types.TaskSubmission, error) {
	submission.UpdatedAt = time.Now().UTC()

	const query = `
		UPDATE task_submissions
		SET buyer_feedback = $1,
			updated_at = $2
		WHERE uuid = $3 AND ` + live
	result, err := r.db.ExecContext(
		ctx,
		query,
		submission.Feedback,
		submission.UpdatedAt,
		submission.UUID,
	)
	if err != nil {
		return types.TaskSubmission{}, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return types.TaskSubmission{}, err
	}
	if affected == 0 {
		return types.TaskSubmission{}, ErrNotFound
	}
	return submission, nil
}

// GetByIdentifier resolves a submission by either addressing scheme,
// live rows only.
func (r *TaskSubmissionRepository) GetByIdentifier(ctx context.Context, ident types.Identifier) (types.TaskSubmission, error) {
	clause, arg := identifierClause(ident, 1)
	query := fmt.Sprintf(`SELECT %s FROM task_submissions WHERE %s AND %s`, submissionColumns, clause, live)
	submission, err := scanSubmission(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.TaskSubmission{}, ErrNotFound
		}
		return types.TaskSubmission{}, err
	}
	return submission, nil
}

// ListByTask returns a task's live submissions newest-version-first.
func (r *TaskSubmissionRepository) ListByTask(ctx context.Context, taskID int64) ([]types.TaskSubmission, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM task_submissions
		WHERE task_id = $1 AND %s
		ORDER BY version DESC`, submissionColumns, live)
	rows, err := r.db.QueryContext(ctx, query, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	submissions := []types.TaskSubmission{}
	for rows.Next() {
		submission, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		submissions = append(submissions, submission)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return submissions, nil
}

// Latest returns the task's live submission with the highest version.
func (r *TaskSubmissionRepository) Latest(ctx context.Context, taskID int64) (types.TaskSubmission, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM task_submissions
		WHERE task_id = $1 AND %s
		ORDER BY version DESC
		LIMIT 1`, submissionColumns, live)
	submission, err := scanSubmission(r.db.QueryRowContext(ctx, query, taskID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.TaskSubmission{}, ErrNotFound
		}
		return types.TaskSubmission{}, err
	}
	return submission, nil
}

// SoftDelete stamps deleted_at on a live row and reports whether one was
// affected.
func (r *TaskSubmissionRepository) SoftDelete(ctx context.Context, ident types.Identifier) (bool, error) {
	clause, arg := identifierClause(ident, 2)
	query := fmt.Sprintf(`UPDATE task_submissions SET deleted_at = $1 WHERE %s AND %s`, clause, live)
	result, err := r.db.ExecContext(ctx, query, time.Now().UTC(), arg)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}
