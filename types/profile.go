package types

import (
	"time"

	"github.com/google/uuid"
)

// HiringStatus indicates whether a buyer is currently taking on work.
type HiringStatus string

// Supported hiring statuses.
const (
	HiringOpen   HiringStatus = "open"
	HiringClosed HiringStatus = "closed"
	HiringPaused HiringStatus = "paused"
)

// Valid reports whether the status is one of the supported values.
func (s HiringStatus) Valid() bool {
	switch s {
	case HiringOpen, HiringClosed, HiringPaused:
		return true
	}
	return false
}

// Availability indicates whether a solver or staff member can take work.
type Availability string

// Supported availability values.
const (
	Available Availability = "available"
	Busy      Availability = "busy"
	Offline   Availability = "offline"
)

// Valid reports whether the value is one of the supported ones.
func (a Availability) Valid() bool {
	switch a {
	case Available, Busy, Offline:
		return true
	}
	return false
}

// Department is the organizational unit a staff member belongs to.
type Department string

// Supported departments.
const (
	DepartmentHR        Department = "hr"
	DepartmentIT        Department = "it"
	DepartmentSales     Department = "sales"
	DepartmentMarketing Department = "marketing"
	DepartmentFinance   Department = "finance"
	DepartmentModerator Department = "moderator"
)

// Valid reports whether the department is one of the supported values.
func (d Department) Valid() bool {
	switch d {
	case DepartmentHR, DepartmentIT, DepartmentSales,
		DepartmentMarketing, DepartmentFinance, DepartmentModerator:
		return true
	}
	return false
}

// Buyer is the buyer-side extension of a user account.
type Buyer struct {
	ID          int64     `json:"id" db:"id"`
	UUID        uuid.UUID `json:"uuid" db:"uuid"`
	UserID      int64     `json:"user_id" db:"user_id"`
	Bio         string    `json:"bio" db:"bio"`
	BusinessURL string    `json:"business_url" db:"business_url"`

	// TotalSpent accumulates the amount the buyer has paid out.
	TotalSpent        float64 `json:"total_spent" db:"total_spent"`
	ActiveYears       int     `json:"active_years" db:"active_years"`
	Rating            float64 `json:"rating" db:"rating"`
	TotalProjects     int     `json:"total_projects" db:"total_projects"`
	CompletedProjects int     `json:"completed_projects" db:"completed_projects"`

	Hiring HiringStatus      `json:"is_hiring" db:"is_hiring"`
	Meta   map[string]string `json:"meta" db:"meta"`

	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at" db:"deleted_at"`
}

// Solver is the solver-side extension of a user account.
type Solver struct {
	ID           int64     `json:"id" db:"id"`
	UUID         uuid.UUID `json:"uuid" db:"uuid"`
	UserID       int64     `json:"user_id" db:"user_id"`
	FullName     string    `json:"full_name" db:"full_name"`
	Bio          string    `json:"bio" db:"bio"`
	PortfolioURL string    `json:"portfolio_url" db:"portfolio_url"`

	HourlyRate        float64 `json:"hourly_rate" db:"hourly_rate"`
	ExperienceYears   int     `json:"experience_years" db:"experience_years"`
	Rating            float64 `json:"rating" db:"rating"`
	TotalProjects     int     `json:"total_projects" db:"total_projects"`
	CompletedProjects int     `json:"completed_projects" db:"completed_projects"`

	Availability Availability      `json:"is_available" db:"is_available"`
	Skills       []string          `json:"skills" db:"skills"`
	Meta         map[string]string `json:"meta" db:"meta"`

	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at" db:"deleted_at"`
}

// Staff is the staff-side extension of a user account.
type Staff struct {
	ID               int64     `json:"id" db:"id"`
	UUID             uuid.UUID `json:"uuid" db:"uuid"`
	UserID           int64     `json:"user_id" db:"user_id"`
	FullName         string    `json:"full_name" db:"full_name"`
	Responsibilities string    `json:"responsibilities" db:"responsibilities"`

	HourlyRate float64 `json:"hourly_rate" db:"hourly_rate"`
	Rating     float64 `json:"rating" db:"rating"`

	Department   Department        `json:"department" db:"department"`
	Availability Availability      `json:"is_available" db:"is_available"`
	Meta         map[string]string `json:"meta" db:"meta"`

	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at" db:"deleted_at"`
}
