package types

import (
	"time"

	"github.com/google/uuid"
)

// ProposalStatus is the lifecycle status of a proposal.
type ProposalStatus string

// Supported proposal statuses.
const (
	ProposalPending  ProposalStatus = "pending"
	ProposalApproved ProposalStatus = "approved"
	ProposalRejected ProposalStatus = "rejected"
)

// Valid reports whether the status is one of the supported values.
func (s ProposalStatus) Valid() bool {
	switch s {
	case ProposalPending, ProposalApproved, ProposalRejected:
		return true
	}
	return false
}

// CanTransition reports whether moving from the current status to the
// target status is permitted. Approved and rejected are terminal.
func (s ProposalStatus) CanTransition(to ProposalStatus) bool {
	return s == ProposalPending && (to == ProposalApproved || to == ProposalRejected)
}

// Proposal is a solver's bid on a project.
type Proposal struct {
	// ID is the database-local sequential identifier.
	ID int64 `json:"id" db:"id"`

	// UUID is the externally-facing, time-sortable identifier.
	UUID uuid.UUID `json:"uuid" db:"uuid"`

	// ProjectID identifies the project the proposal targets.
	ProjectID int64 `json:"project_id" db:"project_id"`

	// SolverID identifies the solver making the bid.
	SolverID int64 `json:"solver_id" db:"solver_id"`

	// ProposedPrice is the solver's asking price.
	ProposedPrice float64 `json:"proposed_price" db:"proposed_price"`

	// CoverLetter is the solver's pitch to the buyer.
	CoverLetter string `json:"cover_letter" db:"cover_letter"`

	// Status is the lifecycle status of the proposal.
	Status ProposalStatus `json:"proposal_status" db:"proposal_status"`

	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at" db:"deleted_at"`
}
