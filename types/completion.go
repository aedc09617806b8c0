package types

import (
	"time"

	"github.com/google/uuid"
)

// CompletionStatus is the lifecycle status of a completion request.
type CompletionStatus string

// Supported completion statuses.
const (
	CompletionPending           CompletionStatus = "pending"
	CompletionApproved          CompletionStatus = "approved"
	CompletionRevisionRequested CompletionStatus = "revision_requested"
	CompletionCancelled         CompletionStatus = "cancelled"
)

// Valid reports whether the status is one of the supported values.
func (s CompletionStatus) Valid() bool {
	switch s {
	case CompletionPending, CompletionApproved, CompletionRevisionRequested, CompletionCancelled:
		return true
	}
	return false
}

// CanTransition reports whether moving from the current status to the
// target status is permitted. A request only ever leaves pending; a
// revision is answered by filing a new request.
func (s CompletionStatus) CanTransition(to CompletionStatus) bool {
	return s == CompletionPending &&
		(to == CompletionApproved || to == CompletionRevisionRequested || to == CompletionCancelled)
}

// ProjectCompletionRequest is a solver's request to close out a project,
// carrying the closing remark and the solver's self-reported rating. The
// buyer approves it, asks for a revision, or cancels it.
type ProjectCompletionRequest struct {
	// ID is the database-local sequential identifier.
	ID int64 `json:"id" db:"id"`

	// UUID is the externally-facing, time-sortable identifier.
	UUID uuid.UUID `json:"uuid" db:"uuid"`

	// ProjectID identifies the project being closed out.
	ProjectID int64 `json:"project_id" db:"project_id"`

	// CompletionRemark is the solver's closing summary of the work.
	CompletionRemark string `json:"completion_remark" db:"completion_remark"`

	// SolverRating is the rating attached to the completion.
	SolverRating float64 `json:"solver_rating" db:"solver_rating"`

	// Status is the lifecycle status of the request.
	Status CompletionStatus `json:"completion_status" db:"completion_status"`

	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at" db:"deleted_at"`
}
