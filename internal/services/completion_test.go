package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/solverhub/apiserver/internal/store"
	"github.com/solverhub/apiserver/types"
)

type completionFixture struct {
	svc      *CompletionService
	repo     *fakeCompletionRepo
	projects *fakeProjectRepo
	project  types.Project
}

func newCompletionFixture(t *testing.T) *completionFixture {
	t.Helper()
	ctx := context.Background()

	projects := newFakeProjectRepo()
	repo := newFakeCompletionRepo(projects)

	solverID := int64(1)
	project, err := projects.Create(ctx, types.Project{
		UUID:     uuid.New(),
		Name:     "build a parser",
		BuyerID:  1,
		SolverID: &solverID,
		Status:   types.ProjectInProgress,
	})
	if err != nil {
		t.Fatalf("seed project: %v", err)
	}

	return &completionFixture{
		svc:      NewCompletionService(repo, projects, nil),
		repo:     repo,
		projects: projects,
		project:  project,
	}
}

func (f *completionFixture) request(t *testing.T) types.ProjectCompletionRequest {
	t.Helper()
	request, err := f.svc.Request(context.Background(), types.ProjectCompletionRequest{
		ProjectID:        f.project.ID,
		CompletionRemark: "all tasks delivered",
		SolverRating:     4.5,
	})
	if err != nil {
		t.Fatalf("request completion: %v", err)
	}
	return request
}

func TestRequestCompletion(t *testing.T) {
	f := newCompletionFixture(t)

	request := f.request(t)

	if request.Status != types.CompletionPending {
		t.Errorf("expected pending status, got %s", request.Status)
	}
	if request.UUID == (uuid.UUID{}) {
		t.Errorf("expected uuid to be assigned")
	}
	if request.CompletionRemark != "all tasks delivered" {
		t.Errorf("unexpected remark %q", request.CompletionRemark)
	}
}

func TestRequestCompletionOnNonInProgressProject(t *testing.T) {
	f := newCompletionFixture(t)
	f.project.Status = types.ProjectPending
	if _, err := f.projects.Update(context.Background(), f.project); err != nil {
		t.Fatalf("seed project status: %v", err)
	}

	_, err := f.svc.Request(context.Background(), types.ProjectCompletionRequest{
		ProjectID: f.project.ID,
	})
	if !errors.Is(err, store.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestRequestCompletionDuplicatePending(t *testing.T) {
	f := newCompletionFixture(t)
	f.request(t)

	_, err := f.svc.Request(context.Background(), types.ProjectCompletionRequest{
		ProjectID: f.project.ID,
	})
	if !errors.Is(err, store.ErrConflict) {
		t.Fatalf("expected conflict for second pending request, got %v", err)
	}
}

func TestRequestCompletionAfterRevision(t *testing.T) {
	f := newCompletionFixture(t)
	first := f.request(t)

	if _, err := f.svc.RequestRevision(context.Background(), types.ByUUID(first.UUID)); err != nil {
		t.Fatalf("request revision: %v", err)
	}

	// The revision answered the first request, so a new one is allowed.
	second := f.request(t)
	if second.ID == first.ID {
		t.Errorf("expected a fresh request, got the same id %d", second.ID)
	}
}

func TestApproveCompletionCompletesProject(t *testing.T) {
	f := newCompletionFixture(t)
	request := f.request(t)

	approved, err := f.svc.Approve(context.Background(), types.ByUUID(request.UUID))
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if approved.Status != types.CompletionApproved {
		t.Errorf("expected approved status, got %s", approved.Status)
	}

	project, err := f.projects.GetByIdentifier(context.Background(), types.ByID(f.project.ID))
	if err != nil {
		t.Fatalf("fetch project: %v", err)
	}
	if project.Status != types.ProjectCompleted {
		t.Errorf("expected project completed, got %s", project.Status)
	}
}

func TestApproveCompletionTwice(t *testing.T) {
	f := newCompletionFixture(t)
	request := f.request(t)

	if _, err := f.svc.Approve(context.Background(), types.ByUUID(request.UUID)); err != nil {
		t.Fatalf("approve: %v", err)
	}

	var transitionErr *InvalidTransitionError
	_, err := f.svc.Approve(context.Background(), types.ByUUID(request.UUID))
	if !errors.As(err, &transitionErr) {
		t.Fatalf("expected invalid transition, got %v", err)
	}
}

func TestApproveCompletionFailureLeavesNoPartialState(t *testing.T) {
	f := newCompletionFixture(t)
	request := f.request(t)

	f.repo.approveErr = errors.New("db down")
	if _, err := f.svc.Approve(context.Background(), types.ByUUID(request.UUID)); err == nil {
		t.Fatal("expected approve to fail")
	}

	got, err := f.repo.GetByIdentifier(context.Background(), types.ByUUID(request.UUID))
	if err != nil {
		t.Fatalf("fetch request: %v", err)
	}
	if got.Status != types.CompletionPending {
		t.Errorf("expected request to stay pending, got %s", got.Status)
	}
	project, err := f.projects.GetByIdentifier(context.Background(), types.ByID(f.project.ID))
	if err != nil {
		t.Fatalf("fetch project: %v", err)
	}
	if project.Status != types.ProjectInProgress {
		t.Errorf("expected project to stay in progress, got %s", project.Status)
	}

	f.repo.approveErr = nil
	if _, err := f.svc.Approve(context.Background(), types.ByUUID(request.UUID)); err != nil {
		t.Fatalf("retry approve: %v", err)
	}
}

func TestCancelCompletion(t *testing.T) {
	f := newCompletionFixture(t)
	request := f.request(t)

	cancelled, err := f.svc.Cancel(context.Background(), types.ByUUID(request.UUID))
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if cancelled.Status != types.CompletionCancelled {
		t.Errorf("expected cancelled status, got %s", cancelled.Status)
	}

	project, err := f.projects.GetByIdentifier(context.Background(), types.ByID(f.project.ID))
	if err != nil {
		t.Fatalf("fetch project: %v", err)
	}
	if project.Status != types.ProjectInProgress {
		t.Errorf("expected project to stay in progress, got %s", project.Status)
	}
}

func TestListCompletionsByProject(t *testing.T) {
	f := newCompletionFixture(t)
	first := f.request(t)
	if _, err := f.svc.Cancel(context.Background(), types.ByUUID(first.UUID)); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	second := f.request(t)

	requests, err := f.svc.ListByProject(context.Background(), f.project.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(requests) != 2 {
		t.Fatalf("expected 2 requests, got %d", len(requests))
	}
	if requests[0].ID != second.ID {
		t.Errorf("expected newest first, got id %d", requests[0].ID)
	}
}

func TestDeleteCompletionRequest(t *testing.T) {
	f := newCompletionFixture(t)
	request := f.request(t)

	deleted, err := f.svc.SoftDelete(context.Background(), types.ByUUID(request.UUID))
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if !deleted {
		t.Fatal("expected a row to be deleted")
	}

	if _, err := f.svc.Get(context.Background(), types.ByUUID(request.UUID)); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}
