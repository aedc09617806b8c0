package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/solverhub/apiserver/types"
)

const completionColumns = `id, uuid, project_id, completion_remark,
	solver_rating, completion_status, created_at, updated_at, deleted_at`

// CompletionRepository handles persistence for project completion
// requests.
type CompletionRepository struct {
	db *sql.DB
}

func NewCompletionRepository(db *sql.DB) *CompletionRepository {
	return &CompletionRepository{db: db}
}

func scanCompletion(row interface{ Scan(...any) error }) (types.ProjectCompletionRequest, error) {
	var request types.ProjectCompletionRequest
	err := row.Scan(
		&request.ID,
		&request.UUID,
		&request.ProjectID,
		&request.CompletionRemark,
		&request.SolverRating,
		&request.Status,
		&request.CreatedAt,
		&request.UpdatedAt,
		&request.DeletedAt,
	)
	return request, err
}

// Create persists a new completion request and assigns its durable
// identifier.
func (r *CompletionRepository) Create(ctx context.Context, request types.ProjectCompletionRequest) (types.ProjectCompletionRequest, error) {
	now := time.Now().UTC()
	request.CreatedAt = now
	request.UpdatedAt = now

	const query = `
		INSERT INTO project_completion_requests (uuid, project_id,
			completion_remark, solver_rating, completion_status,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		request.UUID,
		request.ProjectID,
		request.CompletionRemark,
		request.SolverRating,
		request.Status,
		request.CreatedAt,
		request.UpdatedAt,
	).Scan(&request.ID); err != nil {
		return types.ProjectCompletionRequest{}, translateError(err)
	}
	return request, nil
}

// Update writes the reviewable fields keyed by uuid, refreshing
// updated_at.
func (r *CompletionRepository) Update(ctx context.Context, request types.ProjectCompletionRequest) (types.ProjectCompletionRequest, error) {
	request.UpdatedAt = time.Now().UTC()

	const query = `
		UPDATE project_completion_requests
		SET completion_remark = $1,
			solver_rating = $2,
			completion_status = $3,
			updated_at = $4
		WHERE uuid = $5 AND ` + live
	result, err := r.db.ExecContext(
		ctx,
		query,
		request.CompletionRemark,
		request.SolverRating,
		request.Status,
		request.UpdatedAt,
		request.UUID,
	)
	if err != nil {
		return types.ProjectCompletionRequest{}, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return types.ProjectCompletionRequest{}, err
	}
	if affected == 0 {
		return types.ProjectCompletionRequest{}, ErrNotFound
	}
	return request, nil
}

// GetByIdentifier resolves a completion request by either addressing
// scheme, live rows only.
func (r *CompletionRepository) GetByIdentifier(ctx context.Context, ident types.Identifier) (types.ProjectCompletionRequest, error) {
	clause, arg := identifierClause(ident, 1)
	query := fmt.Sprintf(`SELECT %s FROM project_completion_requests WHERE %s AND %s`, completionColumns, clause, live)
	request, err := scanCompletion(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.ProjectCompletionRequest{}, ErrNotFound
		}
		return types.ProjectCompletionRequest{}, err
	}
	return request, nil
}

// ListByProject returns a project's live completion requests
// newest-first by id.
func (r *CompletionRepository) ListByProject(ctx context.Context, projectID int64) ([]types.ProjectCompletionRequest, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM project_completion_requests
		WHERE project_id = $1 AND %s
		ORDER BY id DESC`, completionColumns, live)
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	requests := []types.ProjectCompletionRequest{}
	for rows.Next() {
		request, err := scanCompletion(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, request)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return requests, nil
}

// CountPending counts a project's live pending completion requests.
func (r *CompletionRepository) CountPending(ctx context.Context, projectID int64) (int, error) {
	query := fmt.Sprintf(`
		SELECT COUNT(1) FROM project_completion_requests
		WHERE project_id = $1 AND completion_status = $2 AND %s`, live)
	var count int
	err := r.db.QueryRowContext(ctx, query, projectID, types.CompletionPending).Scan(&count)
	return count, err
}

// Approve marks the request approved and completes the project in one
// transaction so a failure leaves no partial state.
func (r *CompletionRepository) Approve(ctx context.Context, request types.ProjectCompletionRequest, project types.Project) (types.ProjectCompletionRequest, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return types.ProjectCompletionRequest{}, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	now := time.Now().UTC()
	request.Status = types.CompletionApproved
	request.UpdatedAt = now

	requestQuery := fmt.Sprintf(`
		UPDATE project_completion_requests
		SET completion_status = $1, updated_at = $2
		WHERE uuid = $3 AND %s`, live)
	result, err := tx.ExecContext(ctx, requestQuery, request.Status, request.UpdatedAt, request.UUID)
	if err != nil {
		return types.ProjectCompletionRequest{}, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return types.ProjectCompletionRequest{}, err
	}
	if affected == 0 {
		return types.ProjectCompletionRequest{}, ErrNotFound
	}

	projectQuery := fmt.Sprintf(`
		UPDATE projects
		SET project_status = $1, updated_at = $2
		WHERE uuid = $3 AND %s`, live)
	result, err = tx.ExecContext(ctx, projectQuery, types.ProjectCompleted, now, project.UUID)
	if err != nil {
		return types.ProjectCompletionRequest{}, err
	}
	affected, err = result.RowsAffected()
	if err != nil {
		return types.ProjectCompletionRequest{}, err
	}
	if affected == 0 {
		return types.ProjectCompletionRequest{}, ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return types.ProjectCompletionRequest{}, err
	}
	return request, nil
}

// SoftDelete stamps deleted_at on a live row and reports whether one was
// affected.
func (r *CompletionRepository) SoftDelete(ctx context.Context, ident types.Identifier) (bool, error) {
	clause, arg := identifierClause(ident, 2)
	query := fmt.Sprintf(`UPDATE project_completion_requests SET deleted_at = $1 WHERE %s AND %s`, clause, live)
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
