package types

import (
	"time"

	"github.com/google/uuid"
)

// UserRole is the authorization role of a user account.
type UserRole string

// Supported user roles.
const (
	RoleSuperAdmin UserRole = "super_admin"
	RoleAdmin      UserRole = "admin"
	RoleBuyer      UserRole = "buyer"
	RoleSolver     UserRole = "solver"
)

// Valid reports whether the role is one of the supported values.
func (r UserRole) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleAdmin, RoleBuyer, RoleSolver:
		return true
	}
	return false
}

// UserStatus is the lifecycle status of a user account.
type UserStatus string

// Supported user statuses.
const (
	UserActive          UserStatus = "active"
	UserInactive        UserStatus = "inactive"
	UserSuspended       UserStatus = "suspended"
	UserApprovalPending UserStatus = "approval_pending"
)

// Valid reports whether the status is one of the supported values.
func (s UserStatus) Valid() bool {
	switch s {
	case UserActive, UserInactive, UserSuspended, UserApprovalPending:
		return true
	}
	return false
}

// CanTransition reports whether moving from the current status to the
// target status is permitted. Suspended and inactive accounts have no
// in-core forward transition.
func (s UserStatus) CanTransition(to UserStatus) bool {
	switch s {
	case UserApprovalPending:
		return to == UserActive
	case UserActive:
		return to == UserInactive || to == UserSuspended
	default:
		return false
	}
}

// User represents an account in the system.
// It contains identity, role, and audit metadata.
type User struct {
	// ID is the database-local sequential identifier.
	ID int64 `json:"id" db:"id"`

	// UUID is the externally-facing, time-sortable identifier,
	// assigned once at creation and never changed.
	UUID uuid.UUID `json:"uuid" db:"uuid"`

	// Username is the unique login name chosen by the user.
	Username string `json:"user_name" db:"user_name"`

	// Email is the user's email address, unique among live accounts.
	Email string `json:"email" db:"email"`

	// Phone is the user's contact phone number.
	Phone string `json:"phone" db:"phone"`

	// PasswordHash stores the hashed representation of the user's password.
	// This field is never exposed in API responses.
	PasswordHash string `json:"-" db:"hashed_password"`

	// Role indicates the user's authorization level within the system.
	Role UserRole `json:"user_role" db:"user_role"`

	// Status is the lifecycle status of the account.
	Status UserStatus `json:"user_status" db:"user_status"`

	// CreatedAt is the timestamp when the account was created.
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// UpdatedAt is the timestamp of the most recent update.
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	// DeletedAt marks the account as soft-deleted when set. A deleted
	// account is invisible to every read path.
	DeletedAt *time.Time `json:"deleted_at" db:"deleted_at"`
}

// UserRegistration carries the data required to register a new user.
type UserRegistration struct {
	Username string   `json:"user_name"`
	Email    string   `json:"email"`
	Phone    string   `json:"phone"`
	Password string   `json:"password"`
	Role     UserRole `json:"user_role"`
}

// UserUpdate is the narrow patch surface for a user. Only non-nil fields
// are applied; email, password, and role changes are out of its contract.
type UserUpdate struct {
	Username *string `json:"user_name"`
	Phone    *string `json:"phone"`
}
