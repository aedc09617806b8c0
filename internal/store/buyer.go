package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/solverhub/apiserver/types"
)

const buyerColumns = `id, uuid, user_id, bio, business_url, total_spent,
	active_years, rating, total_projects, completed_projects, is_hiring,
	meta, created_at, updated_at, deleted_at`

// BuyerRepository handles persistence for buyer profiles.
type BuyerRepository struct {
	db *sql.DB
}

func NewBuyerRepository(db *sql.DB) *BuyerRepository {
	return &BuyerRepository{db: db}
}

func scanBuyer(row interface{ Scan(...any) error }) (types.Buyer, error) {
	var buyer types.Buyer
	var metaJSON []byte
	err := row.Scan(
		&buyer.ID,
		&buyer.UUID,
		&buyer.UserID,
		&buyer.Bio,
		&buyer.BusinessURL,
		&buyer.TotalSpent,
		&buyer.ActiveYears,
		&buyer.Rating,
		&buyer.TotalProjects,
		&buyer.CompletedProjects,
		&buyer.Hiring,
		&metaJSON,
		&buyer.CreatedAt,
		&buyer.UpdatedAt,
		&buyer.DeletedAt,
	)
	if err != nil {
		return types.Buyer{}, err
	}
	if len(metaJSON) > 0 {
		if err := json.Unmarshal(metaJSON, &buyer.Meta); err != nil {
			return types.Buyer{}, fmt.Errorf("decode buyer meta: %w", err)
		}
	}
	return buyer, nil
}

// Create persists a new buyer profile. A duplicate profile for the same
// user surfaces as ErrConflict.
func (r *BuyerRepository) Create(ctx context.Context, buyer types.Buyer) (types.Buyer, error) {
	now := time.Now().UTC()
	buyer.CreatedAt = now
	buyer.UpdatedAt = now

	metaJSON, err := json.Marshal(buyer.Meta)
	if err != nil {
		return types.Buyer{}, err
	}

	const query = `
		INSERT INTO buyers (uuid, user_id, bio, business_url, total_spent,
			active_years, rating, total_projects, completed_projects,
			is_hiring, meta, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		buyer.UUID,
		buyer.UserID,
		buyer.Bio,
		buyer.BusinessURL,
		buyer.TotalSpent,
		buyer.ActiveYears,
		buyer.Rating,
		buyer.TotalProjects,
		buyer.CompletedProjects,
		buyer.Hiring,
		metaJSON,
		buyer.CreatedAt,
		buyer.UpdatedAt,
	).Scan(&buyer.ID); err != nil {
		return types.Buyer{}, translateError(err)
	}
	return buyer, nil
}

// Update writes the full record keyed by uuid, refreshing updated_at.
func (r *BuyerRepository) Update(ctx context.Context, buyer types.Buyer) (types.Buyer, error) {
	buyer.UpdatedAt = time.Now().UTC()

	metaJSON, err := json.Marshal(buyer.Meta)
	if err != nil {
		return types.Buyer{}, err
	}

	const query = `
		UPDATE buyers
		SET bio = $1,
			business_url = $2,
			total_spent = $3,
			active_years = $4,
			rating = $5,
			total_projects = $6,
			completed_projects = $7,
			is_hiring = $8,
			meta = $9,
			updated_at = $10
		WHERE uuid = $11 AND ` + live
	result, err := r.db.ExecContext(
		ctx,
		query,
		buyer.Bio,
		buyer.BusinessURL,
		buyer.TotalSpent,
		buyer.ActiveYears,
		buyer.Rating,
		buyer.TotalProjects,
		buyer.CompletedProjects,
		buyer.Hiring,
		metaJSON,
		buyer.UpdatedAt,
		buyer.UUID,
	)
	if err != nil {
		return types.Buyer{}, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return types.Buyer{}, err
	}
	if affected == 0 {
		return types.Buyer{}, ErrNotFound
	}
	return buyer, nil
}

// GetByIdentifier resolves a buyer profile by either addressing scheme,
// live rows only.
func (r *BuyerRepository) GetByIdentifier(ctx context.Context, ident types.Identifier) (types.Buyer, error) {
	clause, arg := identifierClause(ident, 1)
	query := fmt.Sprintf(`SELECT %s FROM buyers WHERE %s AND %s`, buyerColumns, clause, live)
	buyer, err := scanBuyer(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Buyer{}, ErrNotFound
		}
		return types.Buyer{}, err
	}
	return buyer, nil
}

// GetByUserID resolves the buyer profile owned by a user.
func (r *BuyerRepository) GetByUserID(ctx context.Context, userID int64) (types.Buyer, error) {
	query := fmt.Sprintf(`SELECT %s FROM buyers WHERE user_id = $1 AND %s`, buyerColumns, live)
	buyer, err := scanBuyer(r.db.QueryRowContext(ctx, query, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Buyer{}, ErrNotFound
		}
		return types.Buyer{}, err
	}
	return buyer, nil
}

// SoftDelete stamps deleted_at on a live row and reports whether one was
// affected.
func (r *BuyerRepository) SoftDelete(ctx context.Context, ident types.Identifier) (bool, error) {
	clause, arg := identifierClause(ident, 2)
	query := fmt.Sprintf(`UPDATE buyers SET deleted_at = $1 WHERE %s AND %s`, clause, live)
	result, err := r.db.ExecContext(ctx, query, time.Now().UTC(), arg)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}
