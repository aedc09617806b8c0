package types

import (
	"time"

	"github.com/google/uuid"
)

// TaskStatus is the lifecycle status of a task.
type TaskStatus string

// Supported task statuses.
const (
	TaskTodo       TaskStatus = "todo"
	TaskInProgress TaskStatus = "in_progress"
	TaskDone       TaskStatus = "done"
	TaskBlocked    TaskStatus = "blocked"
)

// Valid reports whether the status is one of the supported values.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskTodo, TaskInProgress, TaskDone, TaskBlocked:
		return true
	}
	return false
}

// CanTransition reports whether moving from the current status to the
// target status is permitted. Todo, in_progress, and blocked move freely
// among each other; done is terminal and reachable from in_progress or
// blocked.
func (s TaskStatus) CanTransition(to TaskStatus) bool {
	switch s {
	case TaskTodo:
		return to == TaskInProgress || to == TaskBlocked
	case TaskInProgress:
		return to == TaskTodo || to == TaskBlocked || to == TaskDone
	case TaskBlocked:
		return to == TaskTodo || to == TaskInProgress || to == TaskDone
	default:
		return false
	}
}

// Task is a unit of work under a project.
type Task struct {
	// ID is the database-local sequential identifier.
	ID int64 `json:"id" db:"id"`

	// UUID is the externally-facing, time-sortable identifier.
	UUID uuid.UUID `json:"uuid" db:"uuid"`

	// ProjectID identifies the project the task belongs to.
	ProjectID int64 `json:"project_id" db:"project_id"`

	// Description explains the work the task covers.
	Description string `json:"task_description" db:"task_description"`

	// Status is the lifecycle status of the task.
	Status TaskStatus `json:"task_status" db:"task_status"`

	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at" db:"deleted_at"`
}
