package sqlite

import (
	"context"
	"database/sql"
)

type DBTX interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

type queries struct {
	db DBTX
}

type userRow struct {
	ID           string
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
	IsConfirmed  bool
	ConfirmOtp   sql.NullString
	Status       bool
	CreatedAt    string
	UpdatedAt    string
}

const userColumns = `id, first_name, last_name, email, password_hash, is_confirmed, confirm_otp, status, created_at, updated_at`

func scanUser(row *sql.Row) (userRow, error) {
	var u userRow
	err := row.Scan(
		&u.ID,
		&u.FirstName,
		&u.LastName,
		&u.Email,
		&u.PasswordHash,
		&u.IsConfirmed,
		&u.ConfirmOtp,
		&u.Status,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	return u, err
}

const getUserByID = `SELECT ` + userColumns + ` FROM users WHERE id = ?`

func (q *queries) GetUserByID(ctx context.Context, id string) (userRow, error) {
	return scanUser(q.db.QueryRowContext(ctx, getUserByID, id))
}

const getUserByEmail = `SELECT ` + userColumns + ` FROM users WHERE email = ?`

func (q *queries) GetUserByEmail(ctx context.Context, email string) (userRow, error) {
	return scanUser(q.db.QueryRowContext(ctx, getUserByEmail, email))
}

const countUsersByEmail = `SELECT COUNT(*) FROM users WHERE email = ?`

func (q *queries) CountUsersByEmail(ctx context.Context, email string) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countUsersByEmail, email).Scan(&n)
	return n, err
}

const createUser = `INSERT INTO users (` + userColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

func (q *queries) CreateUser(ctx context.Context, u userRow) error {
	_, err := q.db.ExecContext(ctx, createUser,
		u.ID,
		u.FirstName,
		u.LastName,
		u.Email,
		u.PasswordHash,
		u.IsConfirmed,
		u.ConfirmOtp,
		u.Status,
		u.CreatedAt,
		u.UpdatedAt,
	)
	return err
}

const confirmUser = `UPDATE users
SET is_confirmed = 1, confirm_otp = NULL, updated_at = ?
WHERE id = ? AND is_confirmed = 0 AND confirm_otp = ?`

func (q *queries) ConfirmUser(ctx context.Context, id, otp, updatedAt string) (int64, error) {
	res, err := q.db.ExecContext(ctx, confirmUser, updatedAt, id, otp)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const setConfirmOtp = `UPDATE users
SET is_confirmed = 0, confirm_otp = ?, updated_at = ?
WHERE id = ? AND is_confirmed = 0`

func (q *queries) SetConfirmOtp(ctx context.Context, id, otp, updatedAt string) (int64, error) {
	res, err := q.db.ExecContext(ctx, setConfirmOtp, otp, updatedAt, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const setStatus = `UPDATE users SET status = ?, updated_at = ? WHERE id = ?`

func (q *queries) SetStatus(ctx context.Context, id string, status bool, updatedAt string) (int64, error) {
	res, err := q.db.ExecContext(ctx, setStatus, status, updatedAt, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
