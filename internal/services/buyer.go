package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/solverhub/apiserver/types"
)

// BuyerRepository defines persistence operations for buyer profiles.
type BuyerRepository interface {
	Create(ctx context.Context, buyer types.Buyer) (types.Buyer, error)
	Update(ctx context.Context, buyer types.Buyer) (types.Buyer, error)
	GetByIdentifier(ctx context.Context, ident types.Identifier) (types.Buyer, error)
	GetByUserID(ctx context.Context, userID int64) (types.Buyer, error)
	SoftDelete(ctx context.Context, ident types.Identifier) (bool, error)
}

// BuyerService manages the buyer-side extension of user accounts.
type BuyerService struct {
	repo  BuyerRepository
	users UserRepository
}

func NewBuyerService(repo BuyerRepository, users UserRepository) *BuyerService {
	return &BuyerService{repo: repo, users: users}
}

// Create attaches a buyer profile to a live user holding the buyer role.
// A second profile for the same user surfaces as store.ErrConflict.
func (s *BuyerService) Create(ctx context.Context, buyer types.Buyer) (types.Buyer, error) {
	user, err := s.users.GetByIdentifier(ctx, types.ByID(buyer.UserID))
	if err != nil {
		return types.Buyer{}, err
	}
	if user.Role != types.RoleBuyer {
		return types.Buyer{}, ErrRoleMismatch
	}

	uid, err := uuid.NewV7()
	if err != nil {
		return types.Buyer{}, err
	}
	buyer.UUID = uid
	if buyer.Hiring == "" {
		buyer.Hiring = types.HiringOpen
	}
	if buyer.Meta == nil {
		buyer.Meta = map[string]string{}
	}
	return s.repo.Create(ctx, buyer)
}

// Get resolves a buyer profile by id or uuid.
func (s *BuyerService) Get(ctx context.Context, ident types.Identifier) (types.Buyer, error) {
	return s.repo.GetByIdentifier(ctx, ident)
}

// GetByUser resolves the profile owned by a user.
func (s *BuyerService) GetByUser(ctx context.Context, userID int64) (types.Buyer, error) {
	return s.repo.GetByUserID(ctx, userID)
}

// Update writes the profile back, keyed by its uuid.
func (s *BuyerService) Update(ctx context.Context, buyer types.Buyer) (types.Buyer, error) {
	return s.repo.Update(ctx, buyer)
}

// SoftDelete hides the profile from every read path. Idempotent.
func (s *BuyerService) SoftDelete(ctx context.Context, ident types.Identifier) (bool, error) {
	return s.repo.SoftDelete(ctx, ident)
}
