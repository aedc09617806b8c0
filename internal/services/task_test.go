package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/solverhub/apiserver/internal/store"
	"github.com/solverhub/apiserver/types"
)

func newTaskServiceForTest(t *testing.T) (*TaskService, types.Project) {
	t.Helper()
	ctx := context.Background()

	projects := newFakeProjectRepo()
	project, err := projects.Create(ctx, types.Project{
		UUID:    uuid.New(),
		Name:    "build a parser",
		BuyerID: 1,
		Status:  types.ProjectInProgress,
	})
	if err != nil {
		t.Fatalf("seed project: %v", err)
	}

	return NewTaskService(newFakeTaskRepo(), projects), project
}

func TestCreateTaskDefaults(t *testing.T) {
	svc, project := newTaskServiceForTest(t)

	task, err := svc.Create(context.Background(), types.Task{
		ProjectID:   project.ID,
		Description: "write the lexer",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if task.Status != types.TaskTodo {
		t.Errorf("expected todo, got %s", task.Status)
	}
	if task.UUID == (uuid.UUID{}) {
		t.Errorf("expected uuid to be assigned")
	}
}

func TestCreateTaskUnknownProject(t *testing.T) {
	svc, _ := newTaskServiceForTest(t)

	_, err := svc.Create(context.Background(), types.Task{ProjectID: 99, Description: "orphan"})
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestTaskStatusMachine(t *testing.T) {
	svc, project := newTaskServiceForTest(t)
	ctx := context.Background()

	task, err := svc.Create(ctx, types.Task{ProjectID: project.ID, Description: "write the lexer"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.UpdateStatus(ctx, types.ByID(task.ID), types.TaskDone); !IsInvalidTransition(err) {
		t.Fatalf("todo -> done: got %v, want InvalidTransitionError", err)
	}

	if _, err := svc.UpdateStatus(ctx, types.ByID(task.ID), types.TaskInProgress); err != nil {
		t.Fatalf("start: %v", err)
	}
	done, err := svc.UpdateStatus(ctx, types.ByID(task.ID), types.TaskDone)
	if err != nil {
		t.Fatalf("finish: %v", err)
	}
	if done.Status != types.TaskDone {
		t.Fatalf("expected done, got %s", done.Status)
	}

	if _, err := svc.UpdateStatus(ctx, types.ByID(task.ID), types.TaskTodo); !IsInvalidTransition(err) {
		t.Fatalf("done -> todo: got %v, want InvalidTransitionError", err)
	}
}

func TestTaskUpdateDescription(t *testing.T) {
	svc, project := newTaskServiceForTest(t)
	ctx := context.Background()

	task, err := svc.Create(ctx, types.Task{ProjectID: project.ID, Description: "draft"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := svc.Update(ctx, types.ByUUID(task.UUID), "final wording")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Description != "final wording" {
		t.Fatalf("description not applied: %q", updated.Description)
	}
	if updated.Status != task.Status {
		t.Fatalf("status changed on description update")
	}
}
