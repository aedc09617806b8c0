package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/solverhub/apiserver/internal/events"
	"github.com/solverhub/apiserver/internal/store"
	"github.com/solverhub/apiserver/types"
)

// Pagination defaults for listing users.
const (
	defaultListSkip  = 0
	defaultListLimit = 10
)

// UserRepository defines persistence operations for users. All reads see
// live rows only.
type UserRepository interface {
	Create(ctx context.Context, user types.User) (types.User, error)
	Update(ctx context.Context, user types.User) (types.User, error)
	GetByIdentifier(ctx context.Context, ident types.Identifier) (types.User, error)
	GetByEmail(ctx context.Context, email string) (types.User, error)
	GetByUsername(ctx context.Context, username string) (types.User, error)
	List(ctx context.Context, skip, limit int, role *types.UserRole, status *types.UserStatus) ([]types.User, int, error)
	SoftDelete(ctx context.Context, ident types.Identifier) (bool, error)
	Prune(ctx context.Context, ident types.Identifier) (bool, error)
}

// Hasher is the password hashing capability. The service never sees a
// digest's internals and never stores a plaintext password.
type Hasher interface {
	Hash(password string) (string, error)
	Compare(password, digest string) bool
}

// UserService enforces the user lifecycle: registration uniqueness,
// partial updates, soft-delete visibility, and status transitions.
type UserService struct {
	repo     UserRepository
	hasher   Hasher
	notifier *events.Notifier
}

func NewUserService(repo UserRepository, hasher Hasher, notifier *events.Notifier) *UserService {
	return &UserService{repo: repo, hasher: hasher, notifier: notifier}
}

// Register creates a new active user. A live user already holding the
// email or username fails the registration with store.ErrConflict; a
// concurrent duplicate surfaces from the repository as the same error.
func (s *UserService) Register(ctx context.Context, reg types.UserRegistration) (types.User, error) {
	if _, err := s.repo.GetByEmail(ctx, reg.Email); err == nil {
		return types.User{}, fmt.Errorf("%w: email already exists", store.ErrConflict)
	} else if !errors.Is(err, store.ErrNotFound) {
		return types.User{}, err
	}

	if _, err := s.repo.GetByUsername(ctx, reg.Username); err == nil {
		return types.User{}, fmt.Errorf("%w: username taken", store.ErrConflict)
	} else if !errors.Is(err, store.ErrNotFound) {
		return types.User{}, err
	}

	digest, err := s.hasher.Hash(reg.Password)
	if err != nil {
		return types.User{}, err
	}

	role := reg.Role
	if role == "" {
		role = types.RoleSolver
	}

	uid, err := uuid.NewV7()
	if err != nil {
		return types.User{}, err
	}

	user, err := s.repo.Create(ctx, types.User{
		UUID:         uid,
		Username:     reg.Username,
		Email:        reg.Email,
		Phone:        reg.Phone,
		PasswordHash: digest,
		Role:         role,
		Status:       types.UserActive,
	})
	if err != nil {
		return types.User{}, err
	}

	s.notifier.Publish(ctx, events.ChannelUsers, events.UserRegistered, user)
	return user, nil
}

// Update applies the narrow patch surface (username, phone) to the user
// addressed by ident. Absent or soft-deleted users fail with
// store.ErrNotFound.
func (s *UserService) Update(ctx context.Context, ident types.Identifier, patch types.UserUpdate) (types.User, error) {
	user, err := s.repo.GetByIdentifier(ctx, ident)
	if err != nil {
		return types.User{}, err
	}

	if patch.Username != nil {
		user.Username = *patch.Username
	}
	if patch.Phone != nil {
		user.Phone = *patch.Phone
	}

	return s.repo.Update(ctx, user)
}

// UpdateStatus moves the user through its status machine, rejecting
// transitions the machine does not permit.
func (s *UserService) UpdateStatus(ctx context.Context, ident types.Identifier, to types.UserStatus) (types.User, error) {
	user, err := s.repo.GetByIdentifier(ctx, ident)
	if err != nil {
		return types.User{}, err
	}

	if !user.Status.CanTransition(to) {
		return types.User{}, &InvalidTransitionError{
			Entity: "user",
			From:   string(user.Status),
			To:     string(to),
		}
	}

	user.Status = to
	return s.repo.Update(ctx, user)
}

// Get resolves a user by id or uuid. A miss is store.ErrNotFound.
func (s *UserService) Get(ctx context.Context, ident types.Identifier) (types.User, error) {
	return s.repo.GetByIdentifier(ctx, ident)
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (types.User, error) {
	return s.repo.GetByEmail(ctx, email)
}

func (s *UserService) GetByUsername(ctx context.Context, username string) (types.User, error) {
	return s.repo.GetByUsername(ctx, username)
}

// List returns a page of live users newest-first along with the total
// count matching the filter.
func (s *UserService) List(ctx context.Context, skip, limit int, role *types.UserRole, status *types.UserStatus) ([]types.User, int, error) {
	if skip < 0 {
		skip = defaultListSkip
	}
	if limit < 1 {
		limit = defaultListLimit
	}
	return s.repo.List(ctx, skip, limit, role, status)
}

// SoftDelete hides the user from every read path. It is idempotent: the
// second call on the same user reports false.
func (s *UserService) SoftDelete(ctx context.Context, ident types.Identifier) (bool, error) {
	deleted, err := s.repo.SoftDelete(ctx, ident)
	if err != nil {
		return false, err
	}
	if deleted {
		s.notifier.Publish(ctx, events.ChannelUsers, events.UserDeleted, map[string]string{
			"identifier": ident.String(),
		})
	}
	return deleted, nil
}

// Prune removes the user permanently, bypassing soft-delete state.
// Administrative and compliance path only.
func (s *UserService) Prune(ctx context.Context, ident types.Identifier) (bool, error) {
	return s.repo.Prune(ctx, ident)
}

// Authenticate verifies a username/password pair and returns the user on
// success. Unknown usernames and wrong passwords fail identically with
// ErrInvalidCredentials.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (types.User, error) {
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return types.User{}, ErrInvalidCredentials
		}
		return types.User{}, err
	}
	if !s.hasher.Compare(password, user.PasswordHash) {
		return types.User{}, ErrInvalidCredentials
	}
	return user, nil
}
