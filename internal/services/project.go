package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/solverhub/apiserver/types"
)

// ProjectRepository defines persistence operations for projects.
type ProjectRepository interface {
	Create(ctx context.Context, project types.Project) (types.Project, error)
	Update(ctx context.Context, project types.Project) (types.Project, error)
	GetByIdentifier(ctx context.Context, ident types.Identifier) (types.Project, error)
	List(ctx context.Context, skip, limit int, buyerID *int64, status *types.ProjectStatus) ([]types.Project, int, error)
	SoftDelete(ctx context.Context, ident types.Identifier) (bool, error)
}

// ProjectService enforces the project lifecycle: buyer ownership, solver
// assignment, and the pending/in_progress/completed/cancelled machine.
type ProjectService struct {
	repo    ProjectRepository
	buyers  BuyerRepository
	solvers SolverRepository
}

func NewProjectService(repo ProjectRepository, buyers BuyerRepository, solvers SolverRepository) *ProjectService {
	return &ProjectService{repo: repo, buyers: buyers, solvers: solvers}
}

// Create posts a new pending project owned by a live buyer.
func (s *ProjectService) Create(ctx context.Context, project types.Project) (types.Project, error) {
	if _, err := s.buyers.GetByIdentifier(ctx, types.ByID(project.BuyerID)); err != nil {
		return types.Project{}, err
	}

	uid, err := uuid.NewV7()
	if err != nil {
		return types.Project{}, err
	}
	project.UUID = uid
	project.Status = types.ProjectPending
	project.SolverID = nil
	project.SolverAssignedAt = nil
	return s.repo.Create(ctx, project)
}

// Get resolves a project by id or uuid.
func (s *ProjectService) Get(ctx context.Context, ident types.Identifier) (types.Project, error) {
	return s.repo.GetByIdentifier(ctx, ident)
}

// List returns a page of live projects newest-first with the total count
// matching the filter.
func (s *ProjectService) List(ctx context.Context, skip, limit int, buyerID *int64, status *types.ProjectStatus) ([]types.Project, int, error) {
	if skip < 0 {
		skip = defaultListSkip
	}
	if limit < 1 {
		limit = defaultListLimit
	}
	return s.repo.List(ctx, skip, limit, buyerID, status)
}

// Update applies the editable fields (name, description, budget,
// duration) to the project addressed by ident. Status and assignment are
// changed through their dedicated operations.
func (s *ProjectService) Update(ctx context.Context, ident types.Identifier, name, description *string, budget *float64, durationDays *int) (types.Project, error) {
	project, err := s.repo.GetByIdentifier(ctx, ident)
	if err != nil {
		return types.Project{}, err
	}

	if name != nil {
		project.Name = *name
	}
	if description != nil {
		project.Description = *description
	}
	if budget != nil {
		project.Budget = *budget
	}
	if durationDays != nil {
		project.DurationDays = *durationDays
	}
	return s.repo.Update(ctx, project)
}

// UpdateStatus moves the project through its status machine, rejecting
// transitions the machine does not permit.
func (s *ProjectService) UpdateStatus(ctx context.Context, ident types.Identifier, to types.ProjectStatus) (types.Project, error) {
	project, err := s.repo.GetByIdentifier(ctx, ident)
	if err != nil {
		return types.Project{}, err
	}

	if !project.Status.CanTransition(to) {
		return types.Project{}, &InvalidTransitionError{
			Entity: "project",
			From:   string(project.Status),
			To:     string(to),
		}
	}

	project.Status = to
	return s.repo.Update(ctx, project)
}

// AssignSolver puts a live solver on a pending project, stamps the
// assignment time, and moves the project to in_progress.
func (s *ProjectService) AssignSolver(ctx context.Context, ident types.Identifier, solverID int64) (types.Project, error) {
	project, err := s.repo.GetByIdentifier(ctx, ident)
	if err != nil {
		return types.Project{}, err
	}

	if !project.Status.CanTransition(types.ProjectInProgress) {
		return types.Project{}, &InvalidTransitionError{
			Entity: "project",
			From:   string(project.Status),
			To:     string(types.ProjectInProgress),
		}
	}

	if _, err := s.solvers.GetByIdentifier(ctx, types.ByID(solverID)); err != nil {
		return types.Project{}, err
	}

	now := time.Now().UTC()
	project.SolverID = &solverID
	project.SolverAssignedAt = &now
	project.Status = types.ProjectInProgress
	return s.repo.Update(ctx, project)
}

// SoftDelete hides the project from every read path. Idempotent.
func (s *ProjectService) SoftDelete(ctx context.Context, ident types.Identifier) (bool, error) {
	return s.repo.SoftDelete(ctx, ident)
}
