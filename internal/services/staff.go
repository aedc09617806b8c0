package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/solverhub/apiserver/types"
)

// StaffRepository defines persistence operations for staff profiles.
type StaffRepository interface {
	Create(ctx context.Context, staff types.Staff) (types.Staff, error)
	Update(ctx context.Context, staff types.Staff) (types.Staff, error)
	GetByIdentifier(ctx context.Context, ident types.Identifier) (types.Staff, error)
	GetByUserID(ctx context.Context, userID int64) (types.Staff, error)
	SoftDelete(ctx context.Context, ident types.Identifier) (bool, error)
}

// StaffService manages the staff-side extension of user accounts.
type StaffService struct {
	repo  StaffRepository
	users UserRepository
}

func NewStaffService(repo StaffRepository, users UserRepository) *StaffService {
	return &StaffService{repo: repo, users: users}
}

// Create attaches a staff profile to a live user holding an admin role.
// A second profile for the same user surfaces as store.ErrConflict.
func (s *StaffService) Create(ctx context.Context, staff types.Staff) (types.Staff, error) {
	user, err := s.users.GetByIdentifier(ctx, types.ByID(staff.UserID))
	if err != nil {
		return types.Staff{}, err
	}
	if user.Role != types.RoleAdmin && user.Role != types.RoleSuperAdmin {
		return types.Staff{}, ErrRoleMismatch
	}

	uid, err := uuid.NewV7()
	if err != nil {
		return types.Staff{}, err
	}
	staff.UUID = uid
	if staff.Department == "" {
		staff.Department = types.DepartmentModerator
	}
	if staff.Availability == "" {
		staff.Availability = types.Available
	}
	if staff.Meta == nil {
		staff.Meta = map[string]string{}
	}
	return s.repo.Create(ctx, staff)
}

// Get resolves a staff profile by id or uuid.
func (s *StaffService) Get(ctx context.Context, ident types.Identifier) (types.Staff, error) {
	return s.repo.GetByIdentifier(ctx, ident)
}

// GetByUser resolves the profile owned by a user.
func (s *StaffService) GetByUser(ctx context.Context, userID int64) (types.Staff, error) {
	return s.repo.GetByUserID(ctx, userID)
}

// Update writes the profile back, keyed by its uuid.
func (s *StaffService) Update(ctx context.Context, staff types.Staff) (types.Staff, error) {
	return s.repo.Update(ctx, staff)
}

// SoftDelete hides the profile from every read path. Idempotent.
func (s *StaffService) SoftDelete(ctx context.Context, ident types.Identifier) (bool, error) {
	return s.repo.SoftDelete(ctx, ident)
}
