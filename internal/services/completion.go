package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/solverhub/apiserver/internal/events"
	"github.com/solverhub/apiserver/internal/store"
	"github.com/solverhub/apiserver/types"
)

// CompletionRepository defines persistence operations for project
// completion requests. Approve spans the request and the project close-out
// in a single transaction.
type CompletionRepository interface {
	Create(ctx context.Context, request types.ProjectCompletionRequest) (types.ProjectCompletionRequest, error)
	Update(ctx context.Context, request types.ProjectCompletionRequest) (types.ProjectCompletionRequest, error)
	GetByIdentifier(ctx context.Context, ident types.Identifier) (types.ProjectCompletionRequest, error)
	ListByProject(ctx context.Context, projectID int64) ([]types.ProjectCompletionRequest, error)
	CountPending(ctx context.Context, projectID int64) (int, error)
	Approve(ctx context.Context, request types.ProjectCompletionRequest, project types.Project) (types.ProjectCompletionRequest, error)
	SoftDelete(ctx context.Context, ident types.Identifier) (bool, error)
}

// CompletionService runs the project close-out flow: a solver files a
// completion request against an in-progress project and the buyer
// approves it, asks for a revision, or cancels it. Approval is what
// moves the project to completed.
type CompletionService struct {
	repo     CompletionRepository
	projects ProjectRepository
	notifier *events.Notifier
}

func NewCompletionService(repo CompletionRepository, projects ProjectRepository, notifier *events.Notifier) *CompletionService {
	return &CompletionService{
		repo:     repo,
		projects: projects,
		notifier: notifier,
	}
}

// Request files a completion request. The project must be in progress
// and carry no other live pending request; violating either surfaces as
// store.ErrConflict.
func (s *CompletionService) Request(ctx context.Context, request types.ProjectCompletionRequest) (types.ProjectCompletionRequest, error) {
	project, err := s.projects.GetByIdentifier(ctx, types.ByID(request.ProjectID))
	if err != nil {
		return types.ProjectCompletionRequest{}, err
	}
	if project.Status != types.ProjectInProgress {
		return types.ProjectCompletionRequest{}, fmt.Errorf("%w: project is not in progress", store.ErrConflict)
	}

	pending, err := s.repo.CountPending(ctx, request.ProjectID)
	if err != nil {
		return types.ProjectCompletionRequest{}, err
	}
	if pending > 0 {
		return types.ProjectCompletionRequest{}, fmt.Errorf("%w: pending completion request already exists", store.ErrConflict)
	}

	uid, err := uuid.NewV7()
	if err != nil {
		return types.ProjectCompletionRequest{}, err
	}
	request.UUID = uid
	request.Status = types.CompletionPending

	request, err = s.repo.Create(ctx, request)
	if err != nil {
		return types.ProjectCompletionRequest{}, err
	}

	s.notifier.Publish(ctx, events.ChannelCompletions, events.CompletionRequested, request)
	return request, nil
}

// Get resolves a completion request by id or uuid.
func (s *CompletionService) Get(ctx context.Context, ident types.Identifier) (types.ProjectCompletionRequest, error) {
	return s.repo.GetByIdentifier(ctx, ident)
}

// ListByProject returns a project's live completion requests
// newest-first.
func (s *CompletionService) ListByProject(ctx context.Context, projectID int64) ([]types.ProjectCompletionRequest, error) {
	return s.repo.ListByProject(ctx, projectID)
}

// Approve accepts a pending completion request and closes out its
// project.
func (s *CompletionService) Approve(ctx context.Context, ident types.Identifier) (types.ProjectCompletionRequest, error) {
	request, err := s.repo.GetByIdentifier(ctx, ident)
	if err != nil {
		return types.ProjectCompletionRequest{}, err
	}

	if !request.Status.CanTransition(types.CompletionApproved) {
		return types.ProjectCompletionRequest{}, &InvalidTransitionError{
			Entity: "completion request",
			From:   string(request.Status),
			To:     string(types.CompletionApproved),
		}
	}

	project, err := s.projects.GetByIdentifier(ctx, types.ByID(request.ProjectID))
	if err != nil {
		return types.ProjectCompletionRequest{}, err
	}
	if !project.Status.CanTransition(types.ProjectCompleted) {
		return types.ProjectCompletionRequest{}, &InvalidTransitionError{
			Entity: "project",
			From:   string(project.Status),
			To:     string(types.ProjectCompleted),
		}
	}

	request, err = s.repo.Approve(ctx, request, project)
	if err != nil {
		return types.ProjectCompletionRequest{}, err
	}

	s.notifier.Publish(ctx, events.ChannelCompletions, events.CompletionApproved, request)
	return request, nil
}

// RequestRevision sends a pending completion request back for more work.
// The project stays in progress; the solver answers by filing a new
// request.
func (s *CompletionService) RequestRevision(ctx context.Context, ident types.Identifier) (types.ProjectCompletionRequest, error) {
	return s.resolve(ctx, ident, types.CompletionRevisionRequested)
}

// Cancel withdraws a pending completion request.
func (s *CompletionService) Cancel(ctx context.Context, ident types.Identifier) (types.ProjectCompletionRequest, error) {
	return s.resolve(ctx, ident, types.CompletionCancelled)
}

func (s *CompletionService) resolve(ctx context.Context, ident types.Identifier, to types.CompletionStatus) (types.ProjectCompletionRequest, error) {
	request, err := s.repo.GetByIdentifier(ctx, ident)
	if err != nil {
		return types.ProjectCompletionRequest{}, err
	}

	if !request.Status.CanTransition(to) {
		return types.ProjectCompletionRequest{}, &InvalidTransitionError{
			Entity: "completion request",
			From:   string(request.Status),
			To:     string(to),
		}
	}

	request.Status = to
	return s.repo.Update(ctx, request)
}

// SoftDelete hides the completion request from every read path.
// Idempotent.
func (s *CompletionService) SoftDelete(ctx context.Context, ident types.Identifier) (bool, error) {
	return s.repo.SoftDelete(ctx, ident)
}
