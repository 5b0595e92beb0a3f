package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/campfirehq/campfire/internal/auth/domain"
)

type usersRepo struct {
	db dbtx
}

const userColumns = `id, username, display_name, email, password_hash, user_type,
	lockout_enabled, lockout_end, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (domain.User, error) {
	var u domain.User
	var lockoutEnd sql.NullTime
	err := row.Scan(
		&u.ID, &u.Username, &u.DisplayName, &u.Email, &u.PasswordHash,
		&u.UserType, &u.LockoutEnabled, &lockoutEnd, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	u.LockoutEnd = mapNullTimePtr(lockoutEnd)
	return u, nil
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

func (r *usersRepo) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = ?`, username)
	return scanUser(row)
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, username, display_name, email, password_hash, user_type,
			lockout_enabled, lockout_end, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Username, u.DisplayName, u.Email, u.PasswordHash, u.UserType,
		u.LockoutEnabled, mapOptionalTime(u.LockoutEnd), now, now,
	)
	return mapNotFound(err)
}

func (r *usersRepo) SetLockout(ctx context.Context, userID string, enabled bool, until *time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET lockout_enabled = ?, lockout_end = ?, updated_at = ? WHERE id = ?`,
		enabled, mapOptionalTime(until), time.Now().UTC(), userID,
	)
	if err != nil {
		return err
	}
	return requireRowUpdated(res)
}

func (r *usersRepo) ListUsers(ctx context.Context) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *usersRepo) IsEmpty(ctx context.Context) (bool, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return false, err
	}
	return count == 0, nil
}

func requireRowUpdated(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return mapNotFound(sql.ErrNoRows)
	}
	return nil
}
