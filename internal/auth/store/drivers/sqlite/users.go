package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/aussiebroadwan/otpauth/internal/auth/domain"
	"github.com/aussiebroadwan/otpauth/internal/auth/store"
	"github.com/aussiebroadwan/otpauth/pkg/idx"
)

type usersRepo struct {
	q *queries
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	row, err := r.q.GetUserByID(ctx, id)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return mapUser(row)
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	row, err := r.q.GetUserByEmail(ctx, email)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return mapUser(row)
}

func (r *usersRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	n, err := r.q.CountUsersByEmail(ctx, email)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) (domain.User, error) {
	now := time.Now().UTC()
	u.ID = idx.NewAt(now).String()
	u.CreatedAt = now
	u.UpdatedAt = now

	err := r.q.CreateUser(ctx, userRow{
		ID:           u.ID,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		IsConfirmed:  u.IsConfirmed,
		ConfirmOtp:   mapOptionalString(u.ConfirmOTP),
		Status:       u.Status,
		CreatedAt:    formatTime(now),
		UpdatedAt:    formatTime(now),
	})
	if err != nil {
		return domain.User{}, mapUniqueViolation(err)
	}
	return u, nil
}

func (r *usersRepo) ConfirmUser(ctx context.Context, userID, otp string) error {
	n, err := r.q.ConfirmUser(ctx, userID, otp, formatTime(time.Now()))
	if err != nil {
		return err
	}
	return r.checkAffected(ctx, userID, n)
}

func (r *usersRepo) SetConfirmOTP(ctx context.Context, userID, otp string) error {
	n, err := r.q.SetConfirmOtp(ctx, userID, otp, formatTime(time.Now()))
	if err != nil {
		return err
	}
	return r.checkAffected(ctx, userID, n)
}

func (r *usersRepo) SetStatus(ctx context.Context, userID string, active bool) error {
	n, err := r.q.SetStatus(ctx, userID, active, formatTime(time.Now()))
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// checkAffected tells a missing user apart from a failed precondition.
func (r *usersRepo) checkAffected(ctx context.Context, userID string, n int64) error {
	if n > 0 {
		return nil
	}
	if _, err := r.GetUserByID(ctx, userID); err != nil {
		return err
	}
	return store.ErrConflict
}

func mapUser(row userRow) (domain.User, error) {
	createdAt, err := parseTime(row.CreatedAt)
	if err != nil {
		return domain.User{}, err
	}
	updatedAt, err := parseTime(row.UpdatedAt)
	if err != nil {
		return domain.User{}, fmt.Errorf("user %s: %w", row.ID, err)
	}

	return domain.User{
		ID:           row.ID,
		FirstName:    row.FirstName,
		LastName:     row.LastName,
		Email:        row.Email,
		PasswordHash: row.PasswordHash,
		IsConfirmed:  row.IsConfirmed,
		ConfirmOTP:   mapNullStringPtr(row.ConfirmOtp),
		Status:       row.Status,
		CreatedAt:    createdAt,
		UpdatedAt:    updatedAt,
	}, nil
}
