package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/solverhub/apiserver/types"
)

const solverColumns = `id, uuid, user_id, full_name, bio, portfolio_url,
	hourly_rate, experience_years, rating, total_projects,
	completed_projects, is_available, skills, meta, created_at,
	updated_at, deleted_at`

// SolverRepository handles persistence for solver profiles.
type SolverRepository struct {
	db *sql.DB
}

func NewSolverRepository(db *sql.DB) *SolverRepository {
	return &SolverRepository{db: db}
}

func scanSolver(row interface{ Scan(...any) error }) (types.Solver, error) {
	var solver types.Solver
	var metaJSON []byte
	err := row.Scan(
		&solver.ID,
		&solver.UUID,
		&solver.UserID,
		&solver.FullName,
		&solver.Bio,
		&solver.PortfolioURL,
		&solver.HourlyRate,
		&solver.ExperienceYears,
		&solver.Rating,
		&solver.TotalProjects,
		&solver.CompletedProjects,
		&solver.Availability,
		pq.Array(&solver.Skills),
		&metaJSON,
		&solver.CreatedAt,
		&solver.UpdatedAt,
		&solver.DeletedAt,
	)
	if err != nil {
		return types.Solver{}, err
	}
	if len(metaJSON) > 0 {
		if err := json.Unmarshal(metaJSON, &solver.Meta); err != nil {
			return types.Solver{}, fmt.Errorf("decode solver meta: %w", err)
		}
	}
	return solver, nil
}

// Create persists a new solver profile. A duplicate profile for the same
// user surfaces as ErrConflict.
func (r *SolverRepository) Create(ctx context.Context, solver types.Solver) (types.Solver, error) {
	now := time.Now().UTC()
	solver.CreatedAt = now
	solver.UpdatedAt = now

	metaJSON, err := json.Marshal(solver.Meta)
	if err != nil {
		return types.Solver{}, err
	}

	const query = `
		INSERT INTO solvers (uuid, user_id, full_name, bio, portfolio_url,
			hourly_rate, experience_years, rating, total_projects,
			completed_projects, is_available, skills, meta, created_at,
			updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		solver.UUID,
		solver.UserID,
		solver.FullName,
		solver.Bio,
		solver.PortfolioURL,
		solver.HourlyRate,
		solver.ExperienceYears,
		solver.Rating,
		solver.TotalProjects,
		solver.CompletedProjects,
		solver.Availability,
		pq.Array(solver.Skills),
		metaJSON,
		solver.CreatedAt,
		solver.UpdatedAt,
	).Scan(&solver.ID); err != nil {
		return types.Solver{}, translateError(err)
	}
	return solver, nil
}

// Update writes the full record keyed by uuid, refreshing updated_at.
func (r *SolverRepository) Update(ctx context.Context, solver types.Solver) (types.Solver, error) {
	solver.UpdatedAt = time.Now().UTC()

	metaJSON, err := json.Marshal(solver.Meta)
	if err != nil {
		return types.Solver{}, err
	}

	const query = `
		UPDATE solvers
		SET full_name = $1,
			bio = $2,
			portfolio_url = $3,
			hourly_rate = $4,
			experience_years = $5,
			rating = $6,
			total_projects = $7,
			completed_projects = $8,
			is_available = $9,
			skills = $10,
			meta = $11,
			updated_at = $12
		WHERE uuid = $13 AND ` + live
	result, err := r.db.ExecContext(
		ctx,
		query,
		solver.FullName,
		solver.Bio,
		solver.PortfolioURL,
		solver.HourlyRate,
		solver.ExperienceYears,
		solver.Rating,
		solver.TotalProjects,
		solver.CompletedProjects,
		solver.Availability,
		pq.Array(solver.Skills),
		metaJSON,
		solver.UpdatedAt,
		solver.UUID,
	)
	if err != nil {
		return types.Solver{}, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return types.Solver{}, err
	}
	if affected == 0 {
		return types.Solver{}, ErrNotFound
	}
	return solver, nil
}

// GetByIdentifier resolves a solver profile by either addressing scheme,
// live rows only.
func (r *SolverRepository) GetByIdentifier(ctx context.Context, ident types.Identifier) (types.Solver, error) {
	clause, arg := identifierClause(ident, 1)
	query := fmt.Sprintf(`SELECT %s FROM solvers WHERE %s AND %s`, solverColumns, clause, live)
	solver, err := scanSolver(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Solver{}, ErrNotFound
		}
		return types.Solver{}, err
	}
	return solver, nil
}

// GetByUserID resolves the solver profile owned by a user.
func (r *SolverRepository) GetByUserID(ctx context.Context, userID int64) (types.Solver, error) {
	query := fmt.Sprintf(`SELECT %s FROM solvers WHERE user_id = $1 AND %s`, solverColumns, live)
	solver, err := scanSolver(r.db.QueryRowContext(ctx, query, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Solver{}, ErrNotFound
		}
		return types.Solver{}, err
	}
	return solver, nil
}

// SoftDelete stamps deleted_at on a live row and reports whether one was
// affected.
func (r *SolverRepository) SoftDelete(ctx context.Context, ident types.Identifier) (bool, error) {
	clause, arg := identifierClause(ident, 2)
	query := fmt.Sprintf(`UPDATE solvers SET deleted_at = $1 WHERE %s AND %s`, clause, live)
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
