package types

import (
	"time"

	"github.com/google/uuid"
)

// BuyerFeedback is the buyer's verdict on a task submission.
type BuyerFeedback string

// Supported feedback values.
const (
	FeedbackPending           BuyerFeedback = "pending"
	FeedbackApproved          BuyerFeedback = "approved"
	FeedbackRevisionRequested BuyerFeedback = "revision_requested"
	FeedbackRejected          BuyerFeedback = "rejected"
)

// Valid reports whether the feedback is one of the supported values.
func (f BuyerFeedback) Valid() bool {
	switch f {
	case FeedbackPending, FeedbackApproved, FeedbackRevisionRequested, FeedbackRejected:
		return true
	}
	return false
}

// CanTransition reports whether moving from the current feedback to the
// target feedback is permitted. Each submission record is reviewed once;
// a revision request is answered by a new submission at the next version.
func (f BuyerFeedback) CanTransition(to BuyerFeedback) bool {
	return f == FeedbackPending &&
		(to == FeedbackApproved || to == FeedbackRevisionRequested || to == FeedbackRejected)
}

// TaskSubmission is a versioned deliverable for a task.
type TaskSubmission struct {
	// ID is the database-local sequential identifier.
	ID int64 `json:"id" db:"id"`

	// UUID is the externally-facing, time-sortable identifier.
	UUID uuid.UUID `json:"uuid" db:"uuid"`

	// TaskID identifies the task the deliverable answers.
	TaskID int64 `json:"task_id" db:"task_id"`

	// ObjectKey locates the deliverable file in object storage.
	ObjectKey string `json:"file_path" db:"file_path"`

	// Version is the submission's position in the task's history,
	// strictly increasing from 1.
	Version int `json:"version" db:"version"`

	// Feedback is the buyer's verdict on this version.
	Feedback BuyerFeedback `json:"buyer_feedback" db:"buyer_feedback"`

	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at" db:"deleted_at"`
}
