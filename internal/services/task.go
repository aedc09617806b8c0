package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/solverhub/apiserver/types"
)

// TaskRepository defines persistence operations for tasks.
type TaskRepository interface {
	Create(ctx context.Context, task types.Task) (types.Task, error)
	Update(ctx context.Context, task types.Task) (types.Task, error)
	GetByIdentifier(ctx context.Context, ident types.Identifier) (types.Task, error)
	ListByProject(ctx context.Context, projectID int64) ([]types.Task, error)
	SoftDelete(ctx context.Context, ident types.Identifier) (bool, error)
}

// TaskService enforces the task lifecycle under a project.
type TaskService struct {
	repo     TaskRepository
	projects ProjectRepository
}

func NewTaskService(repo TaskRepository, projects ProjectRepository) *TaskService {
	return &TaskService{repo: repo, projects: projects}
}

// Create adds a todo task under a live project.
func (s *TaskService) Create(ctx context.Context, task types.Task) (types.Task, error) {
	if _, err := s.projects.GetByIdentifier(ctx, types.ByID(task.ProjectID)); err != nil {
		return types.Task{}, err
	}

	uid, err := uuid.NewV7()
	if err != nil {
		return types.Task{}, err
	}
	task.UUID = uid
	task.Status = types.TaskTodo
	return s.repo.Create(ctx, task)
}

// Get resolves a task by id or uuid.
func (s *TaskService) Get(ctx context.Context, ident types.Identifier) (types.Task, error) {
	return s.repo.GetByIdentifier(ctx, ident)
}

// ListByProject returns a project's live tasks newest-first.
func (s *TaskService) ListByProject(ctx context.Context, projectID int64) ([]types.Task, error) {
	return s.repo.ListByProject(ctx, projectID)
}

// Update applies a new description to the task addressed by ident.
func (s *TaskService) Update(ctx context.Context, ident types.Identifier, description string) (types.Task, error) {
	task, err := s.repo.GetByIdentifier(ctx, ident)
	if err != nil {
		return types.Task{}, err
	}
	task.Description = description
	return s.repo.Update(ctx, task)
}

// UpdateStatus moves the task through its status machine, rejecting
// transitions the machine does not permit.
func (s *TaskService) UpdateStatus(ctx context.Context, ident types.Identifier, to types.TaskStatus) (types.Task, error) {
	task, err := s.repo.GetByIdentifier(ctx, ident)
	if err != nil {
		return types.Task{}, err
	}

	if !task.Status.CanTransition(to) {
		return types.Task{}, &InvalidTransitionError{
			Entity: "task",
			From:   string(task.Status),
			To:     string(to),
		}
	}

	task.Status = to
	return s.repo.Update(ctx, task)
}

// SoftDelete hides the task from every read path. Idempotent.
func (s *TaskService) SoftDelete(ctx context.Context, ident types.Identifier) (bool, error) {
	return s.repo.SoftDelete(ctx, ident)
}
