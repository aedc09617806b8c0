package types

import (
	"time"

	"github.com/google/uuid"
)

// ProjectStatus is the lifecycle status of a project.
type ProjectStatus string

// Supported project statuses.
const (
	ProjectPending    ProjectStatus = "pending"
	ProjectInProgress ProjectStatus = "in_progress"
	ProjectCompleted  ProjectStatus = "completed"
	ProjectCancelled  ProjectStatus = "cancelled"
)

// Valid reports whether the status is one of the supported values.
func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectPending, ProjectInProgress, ProjectCompleted, ProjectCancelled:
		return true
	}
	return false
}

// CanTransition reports whether moving from the current status to the
// target status is permitted. Completed and cancelled are terminal.
func (s ProjectStatus) CanTransition(to ProjectStatus) bool {
	switch s {
	case ProjectPending:
		return to == ProjectInProgress || to == ProjectCancelled
	case ProjectInProgress:
		return to == ProjectCompleted || to == ProjectCancelled
	default:
		return false
	}
}

// Project is a unit of work posted by a buyer and optionally assigned
// to a solver.
type Project struct {
	// ID is the database-local sequential identifier.
	ID int64 `json:"id" db:"id"`

	// UUID is the externally-facing, time-sortable identifier.
	UUID uuid.UUID `json:"uuid" db:"uuid"`

	// Name is the buyer-facing title of the project.
	Name string `json:"project_name" db:"project_name"`

	// Description explains the work to be done.
	Description string `json:"project_description" db:"project_description"`

	// Budget is the amount the buyer is willing to pay.
	Budget float64 `json:"project_budget" db:"project_budget"`

	// DurationDays is the expected duration of the project in days.
	DurationDays int `json:"project_duration_days" db:"project_duration_days"`

	// BuyerID identifies the buyer who owns the project.
	BuyerID int64 `json:"buyer_id" db:"buyer_id"`

	// SolverID identifies the assigned solver, when one has been assigned.
	SolverID *int64 `json:"solver_id" db:"solver_id"`

	// Status is the lifecycle status of the project.
	Status ProjectStatus `json:"project_status" db:"project_status"`

	// SolverAssignedAt records when a solver was assigned.
	SolverAssignedAt *time.Time `json:"solver_assigned_at" db:"solver_assigned_at"`

	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at" db:"deleted_at"`
}
