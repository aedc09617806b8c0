package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/solverhub/apiserver/types"
)

const taskColumns = `id, uuid, project_id, task_description, task_status,
	created_at, updated_at, deleted_at`

// TaskRepository handles persistence for tasks.
type TaskRepository struct {
	db *sql.DB
}

func NewTaskRepository(db *sql.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func scanTask(row interface{ Scan(...any) error }) (types.Task, error) {
	var task types.Task
	err := row.Scan(
		&task.ID,
		&task.UUID,
		&task.ProjectID,
		&task.Description,
		&task.Status,
		&task.CreatedAt,
		&task.UpdatedAt,
		&task.DeletedAt,
	)
	return task, err
}

// Create persists a new task and assigns its durable identifier.
func (r *TaskRepository) Create(ctx context.Context, task types.Task) (types.Task, error) {
	now := time.Now().UTC()
	task.CreatedAt = now
	task.UpdatedAt = now

	const query = `
		INSERT INTO tasks (uuid, project_id, task_description, task_status,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		task.UUID,
		task.ProjectID,
		task.Description,
		task.Status,
		task.CreatedAt,
		task.UpdatedAt,
	).Scan(&task.ID); err != nil {
		return types.Task{}, translateError(err)
	}
	return task, nil
}

// Update writes the full record keyed by uuid, refreshing updated_at.
func (r *TaskRepository) Update(ctx context.Context, task types.Task) (types.Task, error) {
	task.UpdatedAt = time.Now().UTC()

	const query = `
		UPDATE tasks
		SET task_description = $1,
			task_status = $2,
			updated_at = $3
		WHERE uuid = $4 AND ` + live
	result, err := r.db.ExecContext(
		ctx,
		query,
		task.Description,
		task.Status,
		task.UpdatedAt,
		task.UUID,
	)
	if err != nil {
		return types.Task{}, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return types.Task{}, err
	}
	if affected == 0 {
		return types.Task{}, ErrNotFound
	}
	return task, nil
}

// GetByIdentifier resolves a task by either addressing scheme,
// live rows only.
func (r *TaskRepository) GetByIdentifier(ctx context.Context, ident types.Identifier) (types.Task, error) {
	clause, arg := identifierClause(ident, 1)
	query := fmt.Sprintf(`SELECT %s FROM tasks WHERE %s AND %s`, taskColumns, clause, live)
	task, err := scanTask(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Task{}, ErrNotFound
		}
		return types.Task{}, err
	}
	return task, nil
}

// ListByProject returns a project's live tasks newest-first by id.
func (r *TaskRepository) ListByProject(ctx context.Context, projectID int64) ([]types.Task, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM tasks
		WHERE project_id = $1 AND %s
		ORDER BY id DESC`, taskColumns, live)
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := []types.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tasks, nil
}

// SoftDelete stamps deleted_at on a live row and reports whether one was
// affected.
func (r *TaskRepository) SoftDelete(ctx context.Context, ident types.Identifier) (bool, error) {
	clause, arg := identifierClause(ident, 2)
	query := fmt.Sprintf(`UPDATE tasks SET deleted_at = $1 WHERE %s AND %s`, clause, live)
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
