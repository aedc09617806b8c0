package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/solverhub/apiserver/types"
)

// SolverRepository defines persistence operations for solver profiles.
type SolverRepository interface {
	Create(ctx context.Context, solver types.Solver) (types.Solver, error)
	Update(ctx context.Context, solver types.Solver) (types.Solver, error)
	GetByIdentifier(ctx context.Context, ident types.Identifier) (types.Solver, error)
	GetByUserID(ctx context.Context, userID int64) (types.Solver, error)
	SoftDelete(ctx context.Context, ident types.Identifier) (bool, error)
}

// SolverService manages the solver-side extension of user accounts.
type SolverService struct {
	repo  SolverRepository
	users UserRepository
}

func NewSolverService(repo SolverRepository, users UserRepository) *SolverService {
	return &SolverService{repo: repo, users: users}
}

// Create attaches a solver profile to a live user holding the solver
// role. A second profile for the same user surfaces as store.ErrConflict.
func (s *SolverService) Create(ctx context.Context, solver types.Solver) (types.Solver, error) {
	user, err := s.users.GetByIdentifier(ctx, types.ByID(solver.UserID))
	if err != nil {
		return types.Solver{}, err
	}
	if user.Role != types.RoleSolver {
		return types.Solver{}, ErrRoleMismatch
	}

	uid, err := uuid.NewV7()
	if err != nil {
		return types.Solver{}, err
	}
	solver.UUID = uid
	if solver.Availability == "" {
		solver.Availability = types.Available
	}
	if solver.Skills == nil {
		solver.Skills = []string{}
	}
	if solver.Meta == nil {
		solver.Meta = map[string]string{}
	}
	return s.repo.Create(ctx, solver)
}

// Get resolves a solver profile by id or uuid.
func (s *SolverService) Get(ctx context.Context, ident types.Identifier) (types.Solver, error) {
	return s.repo.GetByIdentifier(ctx, ident)
}

// GetByUser resolves the profile owned by a user.
func (s *SolverService) GetByUser(ctx context.Context, userID int64) (types.Solver, error) {
	return s.repo.GetByUserID(ctx, userID)
}

// Update writes the profile back, keyed by its uuid.
func (s *SolverService) Update(ctx context.Context, solver types.Solver) (types.Solver, error) {
	return s.repo.Update(ctx, solver)
}

// SoftDelete hides the profile from every read path. Idempotent.
func (s *SolverService) SoftDelete(ctx context.Context, ident types.Identifier) (bool, error) {
	return s.repo.SoftDelete(ctx, ident)
}
