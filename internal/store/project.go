package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/solverhub/apiserver/types"
)

const projectColumns = `id, uuid, project_name, project_description,
	project_budget, project_duration_days, buyer_id, solver_id,
	project_status, solver_assigned_at, created_at, updated_at, deleted_at`

// ProjectRepository handles persistence for projects.
type ProjectRepository struct {
	db *sql.DB
}

func NewProjectRepository(db *sql.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

func scanProject(row interface{ Scan(...any) error }) (types.Project, error) {
	var project types.Project
	err := row.Scan(
		&project.ID,
		&project.UUID,
		&project.Name,
		&project.Description,
		&project.Budget,
		&project.DurationDays,
		&project.BuyerID,
		&project.SolverID,
		&project.Status,
		&project.SolverAssignedAt,
		&project.CreatedAt,
		&project.UpdatedAt,
		&project.DeletedAt,
	)
	return project, err
}

// Create persists a new project and assigns its durable identifier.
func (r *ProjectRepository) Create(ctx context.Context, project types.Project) (types.Project, error) {
	now := time.Now().UTC()
	project.CreatedAt = now
	project.UpdatedAt = now

	const query = `
		INSERT INTO projects (uuid, project_name, project_description,
			project_budget, project_duration_days, buyer_id, solver_id,
			project_status, solver_assigned_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		project.UUID,
		project.Name,
		project.Description,
		project.Budget,
		project.DurationDays,
		project.BuyerID,
		project.SolverID,
		project.Status,
		project.SolverAssignedAt,
		project.CreatedAt,
		project.UpdatedAt,
	).Scan(&project.ID); err != nil {
		return types.Project{}, translateError(err)
	}
	return project, nil
}

// Update writes the full record keyed by uuid, refreshing updated_at.
func (r *ProjectRepository) Update(ctx context.Context, project types.Project) (types.Project, error) {
	project.UpdatedAt = time.Now().UTC()

	const query = `
		UPDATE projects
		SET project_name = $1,
			project_description = $2,
			project_budget = $3,
			project_duration_days = $4,
			solver_id = $5,
			project_status = $6,
			solver_assigned_at = $7,
			updated_at = $8
		WHERE uuid = $9 AND ` + live
	result, err := r.db.ExecContext(
		ctx,
		query,
		project.Name,
		project.Description,
		project.Budget,
		project.DurationDays,
		project.SolverID,
		project.Status,
		project.SolverAssignedAt,
		project.UpdatedAt,
		project.UUID,
	)
	if err != nil {
		return types.Project{}, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return types.Project{}, err
	}
	if affected == 0 {
		return types.Project{}, ErrNotFound
	}
	return project, nil
}

// GetByIdentifier resolves a project by either addressing scheme,
// live rows only.
func (r *ProjectRepository) GetByIdentifier(ctx context.Context, ident types.Identifier) (types.Project, error) {
	clause, arg := identifierClause(ident, 1)
	query := fmt.Sprintf(`SELECT %s FROM projects WHERE %s AND %s`, projectColumns, clause, live)
	project, err := scanProject(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Project{}, ErrNotFound
		}
		return types.Project{}, err
	}
	return project, nil
}

// List returns live projects newest-first by id with the total count of
// rows matching the filter before pagination.
func (r *ProjectRepository) List(ctx context.Context, skip, limit int, buyerID *int64, status *types.ProjectStatus) ([]types.Project, int, error) {
	if skip < 0 {
		skip = 0
	}
	if limit < 1 {
		limit = 10
	}

	where := live
	args := []any{}
	if buyerID != nil {
		args = append(args, *buyerID)
		where += fmt.Sprintf(" AND buyer_id = $%d", len(args))
	}
	if status != nil {
		args = append(args, *status)
		where += fmt.Sprintf(" AND project_status = $%d", len(args))
	}

	countQuery := fmt.Sprintf(`SELECT COUNT(1) FROM projects WHERE %s`, where)
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	listArgs := append(args, skip, limit)
	listQuery := fmt.Sprintf(`
		SELECT %s FROM projects
		WHERE %s
		ORDER BY id DESC
		OFFSET $%d LIMIT $%d`, projectColumns, where, len(args)+1, len(args)+2)
	rows, err := r.db.QueryContext(ctx, listQuery, listArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	projects := make([]types.Project, 0, limit)
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, 0, err
		}
		projects = append(projects, project)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return projects, total, nil
}

// SoftDelete stamps deleted_at on a live row and reports whether one was
// affected.
func (r *ProjectRepository) SoftDelete(ctx context.Context, ident types.Identifier) (bool, error) {
	clause, arg := identifierClause(ident, 2)
	query := fmt.Sprintf(`UPDATE projects SET deleted_at = $1 WHERE %s AND %s`, clause, live)
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
