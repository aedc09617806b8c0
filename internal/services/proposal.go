package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/solverhub/apiserver/internal/events"
	"github.com/solverhub/apiserver/internal/store"
	"github.com/solverhub/apiserver/types"
)

// ProposalRepository defines persistence operations for proposals.
// Approve spans the proposal, the project assignment, and the sibling
// rejections in a single transaction.
type ProposalRepository interface {
	Create(ctx context.Context, proposal types.Proposal) (types.Proposal, error)
	Update(ctx context.Context, proposal types.Proposal) (types.Proposal, error)
	GetByIdentifier(ctx context.Context, ident types.Identifier) (types.Proposal, error)
	ListByProject(ctx context.Context, projectID int64) ([]types.Proposal, error)
	CountPending(ctx context.Context, projectID, solverID int64) (int, error)
	Approve(ctx context.Context, proposal types.Proposal, project types.Project) (types.Proposal, error)
	SoftDelete(ctx context.Context, ident types.Identifier) (bool, error)
}

// ProposalPolicy tunes proposal acceptance rules that are policy rather
// than hard invariants.
type ProposalPolicy struct {
	// SinglePending limits a solver to one live pending proposal per
	// project when set.
	SinglePending bool
}

// ProposalService enforces the bid lifecycle: submission against a
// pending project, and the one-shot approve/reject branch that assigns
// the winning solver.
type ProposalService struct {
	repo     ProposalRepository
	projects ProjectRepository
	solvers  SolverRepository
	policy   ProposalPolicy
	notifier *events.Notifier
}

func NewProposalService(
	repo ProposalRepository,
	projects ProjectRepository,
	solvers SolverRepository,
	policy ProposalPolicy,
	notifier *events.Notifier,
) *ProposalService {
	return &ProposalService{
		repo:     repo,
		projects: projects,
		solvers:  solvers,
		policy:   policy,
		notifier: notifier,
	}
}

// Submit records a solver's bid on a pending project. With the
// single-pending policy on, a second live pending bid from the same
// solver surfaces as store.ErrConflict.
func (s *ProposalService) Submit(ctx context.Context, proposal types.Proposal) (types.Proposal, error) {
	project, err := s.projects.GetByIdentifier(ctx, types.ByID(proposal.ProjectID))
	if err != nil {
		return types.Proposal{}, err
	}
	if project.Status != types.ProjectPending {
		return types.Proposal{}, fmt.Errorf("%w: project is not accepting proposals", store.ErrConflict)
	}

	if _, err := s.solvers.GetByIdentifier(ctx, types.ByID(proposal.SolverID)); err != nil {
		return types.Proposal{}, err
	}

	if s.policy.SinglePending {
		pending, err := s.repo.CountPending(ctx, proposal.ProjectID, proposal.SolverID)
		if err != nil {
			return types.Proposal{}, err
		}
		if pending > 0 {
			return types.Proposal{}, fmt.Errorf("%w: pending proposal already exists", store.ErrConflict)
		}
	}

	uid, err := uuid.NewV7()
	if err != nil {
		return types.Proposal{}, err
	}
	proposal.UUID = uid
	proposal.Status = types.ProposalPending
	return s.repo.Create(ctx, proposal)
}

// Get resolves a proposal by id or uuid.
func (s *ProposalService) Get(ctx context.Context, ident types.Identifier) (types.Proposal, error) {
	return s.repo.GetByIdentifier(ctx, ident)
}

// ListByProject returns a project's live proposals newest-first.
func (s *ProposalService) ListByProject(ctx context.Context, projectID int64) ([]types.Proposal, error) {
	return s.repo.ListByProject(ctx, projectID)
}

// Approve moves a pending proposal to approved, assigns its solver to
// the project, and rejects the project's other pending proposals.
func (s *ProposalService) Approve(ctx context.Context, ident types.Identifier) (types.Proposal, error) {
	proposal, err := s.repo.GetByIdentifier(ctx, ident)
	if err != nil {
		return types.Proposal{}, err
	}

	if !proposal.Status.CanTransition(types.ProposalApproved) {
		return types.Proposal{}, &InvalidTransitionError{
			Entity: "proposal",
			From:   string(proposal.Status),
			To:     string(types.ProposalApproved),
		}
	}

	project, err := s.projects.GetByIdentifier(ctx, types.ByID(proposal.ProjectID))
	if err != nil {
		return types.Proposal{}, err
	}
	if !project.Status.CanTransition(types.ProjectInProgress) {
		return types.Proposal{}, &InvalidTransitionError{
			Entity: "project",
			From:   string(project.Status),
			To:     string(types.ProjectInProgress),
		}
	}

	proposal, err = s.repo.Approve(ctx, proposal, project)
	if err != nil {
		return types.Proposal{}, err
	}

	s.notifier.Publish(ctx, events.ChannelProposals, events.ProposalApproved, proposal)
	return proposal, nil
}

// Reject moves a pending proposal to rejected.
func (s *ProposalService) Reject(ctx context.Context, ident types.Identifier) (types.Proposal, error) {
	proposal, err := s.repo.GetByIdentifier(ctx, ident)
	if err != nil {
		return types.Proposal{}, err
	}

	if !proposal.Status.CanTransition(types.ProposalRejected) {
		return types.Proposal{}, &InvalidTransitionError{
			Entity: "proposal",
			From:   string(proposal.Status),
			To:     string(types.ProposalRejected),
		}
	}

	proposal.Status = types.ProposalRejected
	proposal, err = s.repo.Update(ctx, proposal)
	if err != nil {
		return types.Proposal{}, err
	}

	s.notifier.Publish(ctx, events.ChannelProposals, events.ProposalRejected, proposal)
	return proposal, nil
}

// SoftDelete hides the proposal from every read path. Idempotent.
func (s *ProposalService) SoftDelete(ctx context.Context, ident types.Identifier) (bool, error) {
	return s.repo.SoftDelete(ctx, ident)
}
