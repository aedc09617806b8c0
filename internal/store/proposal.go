package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/solverhub/apiserver/types"
)

const proposalColumns = `id, uuid, project_id, solver_id, proposed_price,
	cover_letter, proposal_status, created_at, updated_at, deleted_at`

// ProposalRepository handles persistence for proposals.
type ProposalRepository struct {
	db *sql.DB
}

func NewProposalRepository(db *sql.DB) *ProposalRepository {
	return &ProposalRepository{db: db}
}

func scanProposal(row interface{ Scan(...any) error }) (types.Proposal, error) {
	var proposal types.Proposal
	err := row.Scan(
		&proposal.ID,
		&proposal.UUID,
		&proposal.ProjectID,
		&proposal.SolverID,
		&proposal.ProposedPrice,
		&proposal.CoverLetter,
		&proposal.Status,
		&proposal.CreatedAt,
		&proposal.UpdatedAt,
		&proposal.DeletedAt,
	)
	return proposal, err
}

// Create persists a new proposal and assigns its durable identifier.
func (r *ProposalRepository) Create(ctx context.Context, proposal types.Proposal) (types.Proposal, error) {
	now := time.Now().UTC()
	proposal.CreatedAt = now
	proposal.UpdatedAt = now

	const query = `
		INSERT INTO proposals (uuid, project_id, solver_id, proposed_price,
			cover_letter, proposal_status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		proposal.UUID,
		proposal.ProjectID,
		proposal.SolverID,
		proposal.ProposedPrice,
		proposal.CoverLetter,
		proposal.Status,
		proposal.CreatedAt,
		proposal.UpdatedAt,
	).Scan(&proposal.ID); err != nil {
		return types.Proposal{}, translateError(err)
	}
	return proposal, nil
}

// Update writes the full record keyed by uuid, refreshing updated_at.
func (r *ProposalRepository) Update(ctx context.Context, proposal types.Proposal) (types.Proposal, error) {
	proposal.UpdatedAt = time.Now().UTC()

	const query = `
		UPDATE proposals
		SET proposed_price = $1,
			cover_letter = $2,
			proposal_status = $3,
			updated_at = $4
		WHERE uuid = $5 AND ` + live
	result, err := r.db.ExecContext(
		ctx,
		query,
		proposal.ProposedPrice,
		proposal.CoverLetter,
		proposal.Status,
		proposal.UpdatedAt,
		proposal.UUID,
	)
	if err != nil {
		return types.Proposal{}, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return types.Proposal{}, err
	}
	if affected == 0 {
		return types.Proposal{}, ErrNotFound
	}
	return proposal, nil
}

// GetByIdentifier resolves a proposal by either addressing scheme,
// live rows only.
func (r *ProposalRepository) GetByIdentifier(ctx context.Context, ident types.Identifier) (types.Proposal, error) {
	clause, arg := identifierClause(ident, 1)
	query := fmt.Sprintf(`SELECT %s FROM proposals WHERE %s AND %s`, proposalColumns, clause, live)
	proposal, err := scanProposal(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Proposal{}, ErrNotFound
		}
		return types.Proposal{}, err
	}
	return proposal, nil
}

// ListByProject returns a project's live proposals newest-first by id.
func (r *ProposalRepository) ListByProject(ctx context.Context, projectID int64) ([]types.Proposal, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM proposals
		WHERE project_id = $1 AND %s
		ORDER BY id DESC`, proposalColumns, live)
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	proposals := []types.Proposal{}
	for rows.Next() {
		proposal, err := scanProposal(rows)
		if err != nil {
			return nil, err
		}
		proposals = append(proposals, proposal)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return proposals, nil
}

// CountPending counts a solver's live pending proposals on a project.
func (r *ProposalRepository) CountPending(ctx context.Context, projectID, solverID int64) (int, error) {
	query := fmt.Sprintf(`
		SELECT COUNT(1) FROM proposals
		WHERE project_id = $1 AND solver_id = $2
		  AND proposal_status = $3 AND %s`, live)
	var count int
	err := r.db.QueryRowContext(ctx, query, projectID, solverID, types.ProposalPending).Scan(&count)
	return count, err
}

// Approve marks the proposal approved, assigns its solver to the project,
// and rejects the project's other live pending proposals, all in one
// transaction so a failure leaves no partial state.
func (r *ProposalRepository) Approve(ctx context.Context, proposal types.Proposal, project types.Project) (types.Proposal, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return types.Proposal{}, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	now := time.Now().UTC()
	proposal.Status = types.ProposalApproved
	proposal.UpdatedAt = now

	proposalQuery := fmt.Sprintf(`
		UPDATE proposals
		SET proposal_status = $1, updated_at = $2
		WHERE uuid = $3 AND %s`, live)
	result, err := tx.ExecContext(ctx, proposalQuery, proposal.Status, proposal.UpdatedAt, proposal.UUID)
	if err != nil {
		return types.Proposal{}, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return types.Proposal{}, err
	}
	if affected == 0 {
		return types.Proposal{}, ErrNotFound
	}

	project.SolverID = &proposal.SolverID
	project.SolverAssignedAt = &now
	project.Status = types.ProjectInProgress
	project.UpdatedAt = now

	projectQuery := fmt.Sprintf(`
		UPDATE projects
		SET solver_id = $1,
			project_status = $2,
			solver_assigned_at = $3,
			updated_at = $4
		WHERE uuid = $5 AND %s`, live)
	result, err = tx.ExecContext(
		ctx,
		projectQuery,
		project.SolverID,
		project.Status,
		project.SolverAssignedAt,
		project.UpdatedAt,
		project.UUID,
	)
	if err != nil {
		return types.Proposal{}, err
	}
	affected, err = result.RowsAffected()
	if err != nil {
		return types.Proposal{}, err
	}
	if affected == 0 {
		return types.Proposal{}, ErrNotFound
	}

	siblingQuery := fmt.Sprintf(`
		UPDATE proposals
		SET proposal_status = $1, updated_at = $2
		WHERE project_id = $3 AND id <> $4
		  AND proposal_status = $5 AND %s`, live)
	if _, err := tx.ExecContext(
		ctx,
		siblingQuery,
		types.ProposalRejected,
		now,
		proposal.ProjectID,
		proposal.ID,
		types.ProposalPending,
	); err != nil {
		return types.Proposal{}, err
	}

	if err := tx.Commit(); err != nil {
		return types.Proposal{}, err
	}
	return proposal, nil
}

// SoftDelete stamps deleted_at on a live row and reports whether one was
// affected.
func (r *ProposalRepository) SoftDelete(ctx context.Context, ident types.Identifier) (bool, error) {
	clause, arg := identifierClause(ident, 2)
	query := fmt.Sprintf(`UPDATE proposals SET deleted_at = $1 WHERE %s AND %s`, clause, live)
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
