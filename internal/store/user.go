package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/solverhub/apiserver/types"
)

const userColumns = `id, uuid, user_name, email, phone, hashed_password,
	user_role, user_status, created_at, updated_at, deleted_at`

// UserRepository handles persistence for users.
type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func scanUser(row interface{ Scan(...any) error }) (types.User, error) {
	var user types.User
	err := row.Scan(
		&user.ID,
		&user.UUID,
		&user.Username,
		&user.Email,
		&user.Phone,
		&user.PasswordHash,
		&user.Role,
		&user.Status,
		&user.CreatedAt,
		&user.UpdatedAt,
		&user.DeletedAt,
	)
	return user, err
}

// Create persists a new user and assigns its durable identifier.
// A live-row uniqueness violation surfaces as ErrConflict.
func (r *UserRepository) Create(ctx context.Context, user types.User) (types.User, error) {
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	const query = `
		INSERT INTO users (uuid, user_name, email, phone, hashed_password,
			user_role, user_status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		user.UUID,
		user.Username,
		user.Email,
		user.Phone,
		user.PasswordHash,
		user.Role,
		user.Status,
		user.CreatedAt,
		user.UpdatedAt,
	).Scan(&user.ID); err != nil {
		return types.User{}, translateError(err)
	}
	return user, nil
}

// Update writes the full record keyed by uuid, refreshing updated_at.
func (r *UserRepository) Update(ctx context.Context, user types.User) (types.User, error) {
	user.UpdatedAt = time.Now().UTC()

	const query = `
		UPDATE users
		SET user_name = $1,
			email = $2,
			phone = $3,
			user_role = $4,
			user_status = $5,
			updated_at = $6
		WHERE uuid = $7 AND ` + live
	result, err := r.db.ExecContext(
		ctx,
		query,
		user.Username,
		user.Email,
		user.Phone,
		user.Role,
		user.Status,
		user.UpdatedAt,
		user.UUID,
	)
	if err != nil {
		return types.User{}, translateError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return types.User{}, err
	}
	if affected == 0 {
		return types.User{}, ErrNotFound
	}
	return user, nil
}

// GetByIdentifier resolves a user by either addressing scheme,
// live rows only.
func (r *UserRepository) GetByIdentifier(ctx context.Context, ident types.Identifier) (types.User, error) {
	clause, arg := identifierClause(ident, 1)
	query := fmt.Sprintf(`SELECT %s FROM users WHERE %s AND %s`, userColumns, clause, live)
	user, err := scanUser(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.User{}, ErrNotFound
		}
		return types.User{}, err
	}
	return user, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (types.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE email = $1 AND %s`, userColumns, live)
	user, err := scanUser(r.db.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.User{}, ErrNotFound
		}
		return types.User{}, err
	}
	return user, nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (types.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE user_name = $1 AND %s`, userColumns, live)
	user, err := scanUser(r.db.QueryRowContext(ctx, query, username))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.User{}, ErrNotFound
		}
		return types.User{}, err
	}
	return user, nil
}

// List returns live users newest-first by id, with the total count of
// rows matching the filter before pagination.
func (r *UserRepository) List(ctx context.Context, skip, limit int, role *types.UserRole, status *types.UserStatus) ([]types.User, int, error) {
	if skip < 0 {
		skip = 0
	}
	if limit < 1 {
		limit = 10
	}

	where := live
	args := []any{}
	if role != nil {
		args = append(args, *role)
		where += fmt.Sprintf(" AND user_role = $%d", len(args))
	}
	if status != nil {
		args = append(args, *status)
		where += fmt.Sprintf(" AND user_status = $%d", len(args))
	}

	countQuery := fmt.Sprintf(`SELECT COUNT(1) FROM users WHERE %s`, where)
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	listArgs := append(args, skip, limit)
	listQuery := fmt.Sprintf(`
		SELECT %s FROM users
		WHERE %s
		ORDER BY id DESC
		OFFSET $%d LIMIT $%d`, userColumns, where, len(args)+1, len(args)+2)
	rows, err := r.db.QueryContext(ctx, listQuery, listArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	users := make([]types.User, 0, limit)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// SoftDelete stamps deleted_at on a live row and reports whether one was
// affected. A second call on the same row returns false.
func (r *UserRepository) SoftDelete(ctx context.Context, ident types.Identifier) (bool, error) {
	clause, arg := identifierClause(ident, 2)
	query := fmt.Sprintf(`UPDATE users SET deleted_at = $1 WHERE %s AND %s`, clause, live)
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

// Prune removes the row permanently, regardless of soft-delete state.
func (r *UserRepository) Prune(ctx context.Context, ident types.Identifier) (bool, error) {
	clause, arg := identifierClause(ident, 1)
	query := fmt.Sprintf(`DELETE FROM users WHERE %s`, clause)
	result, err := r.db.ExecContext(ctx, query, arg)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}
