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

const staffColumns = `id, uuid, user_id, full_name, responsibilities,
	hourly_rate, rating, department, is_available, meta, created_at,
	updated_at, deleted_at`

// StaffRepository handles persistence for staff profiles.
type StaffRepository struct {
	db *sql.DB
}

func NewStaffRepository(db *sql.DB) *StaffRepository {
	return &StaffRepository{db: db}
}

func scanStaff(row interface{ Scan(...any) error }) (types.Staff, error) {
	var staff types.Staff
	var metaJSON []byte
	err := row.Scan(
		&staff.ID,
		&staff.UUID,
		&staff.UserID,
		&staff.FullName,
		&staff.Responsibilities,
		&staff.HourlyRate,
		&staff.Rating,
		&staff.Department,
		&staff.Availability,
		&metaJSON,
		&staff.CreatedAt,
		&staff.UpdatedAt,
		&staff.DeletedAt,
	)
	if err != nil {
		return types.Staff{}, err
	}
	if len(metaJSON) > 0 {
		if err := json.Unmarshal(metaJSON, &staff.Meta); err != nil {
			return types.Staff{}, fmt.Errorf("decode staff meta: %w", err)
		}
	}
	return staff, nil
}

// Create persists a new staff profile. A duplicate profile for the same
// user surfaces as ErrConflict.
func (r *StaffRepository) Create(ctx context.Context, staff types.Staff) (types.Staff, error) {
	now := time.Now().UTC()
	staff.CreatedAt = now
	staff.UpdatedAt = now

	metaJSON, err := json.Marshal(staff.Meta)
	if err != nil {
		return types.Staff{}, err
	}

	const query = `
		INSERT INTO staff (uuid, user_id, full_name, responsibilities,
			hourly_rate, rating, department, is_available, meta,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		staff.UUID,
		staff.UserID,
		staff.FullName,
		staff.Responsibilities,
		staff.HourlyRate,
		staff.Rating,
		staff.Department,
		staff.Availability,
		metaJSON,
		staff.CreatedAt,
		staff.UpdatedAt,
	).Scan(&staff.ID); err != nil {
		return types.Staff{}, translateError(err)
	}
	return staff, nil
}

// Update writes the full record keyed by uuid, refreshing updated_at.
func (r *StaffRepository) Update(ctx context.Context, staff types.Staff) (types.Staff, error) {
	staff.UpdatedAt = time.Now().UTC()

	metaJSON, err := json.Marshal(staff.Meta)
	if err != nil {
		return types.Staff{}, err
	}

	const query = `
		UPDATE staff
		SET full_name = $1,
			responsibilities = $2,
			hourly_rate = $3,
			rating = $4,
			department = $5,
			is_available = $6,
			meta = $7,
			updated_at = $8
		WHERE uuid = $9 AND ` + live
	result, err := r.db.ExecContext(
		ctx,
		query,
		staff.FullName,
		staff.Responsibilities,
		staff.HourlyRate,
		staff.Rating,
		staff.Department,
		staff.Availability,
		metaJSON,
		staff.UpdatedAt,
		staff.UUID,
	)
	if err != nil {
		return types.Staff{}, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return types.Staff{}, err
	}
	if affected == 0 {
		return types.Staff{}, ErrNotFound
	}
	return staff, nil
}

// GetByIdentifier resolves a staff profile by either addressing scheme,
// live rows only.
func (r *StaffRepository) GetByIdentifier(ctx context.Context, ident types.Identifier) (types.Staff, error) {
	clause, arg := identifierClause(ident, 1)
	query := fmt.Sprintf(`SELECT %s FROM staff WHERE %s AND %s`, staffColumns, clause, live)
	staff, err := scanStaff(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Staff{}, ErrNotFound
		}
		return types.Staff{}, err
	}
	return staff, nil
}

// GetByUserID resolves the staff profile owned by a user.
func (r *StaffRepository) GetByUserID(ctx context.Context, userID int64) (types.Staff, error) {
	query := fmt.Sprintf(`SELECT %s FROM staff WHERE user_id = $1 AND %s`, staffColumns, live)
	staff, err := scanStaff(r.db.QueryRowContext(ctx, query, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Staff{}, ErrNotFound
		}
		return types.Staff{}, err
	}
	return staff, nil
}

// SoftDelete stamps deleted_at on a live row and reports whether one was
// affected.
func (r *StaffRepository) SoftDelete(ctx context.Context, ident types.Identifier) (bool, error) {
	clause, arg := identifierClause(ident, 2)
	query := fmt.Sprintf(`UPDATE staff SET deleted_at = $1 WHERE %s AND %s`, clause, live)
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
