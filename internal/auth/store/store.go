package store

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/otpauth/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
	// ErrConflict means a conditional update matched the record but its
	// precondition no longer held.
	ErrConflict = errors.New("store: conflict")
)

// Store is the root data access interface. Concrete drivers (sqlite, mongo)
// implement this and expose sub-repositories.
type Store interface {
	Users() Users

	ApplyMigrations() error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail is used by login and the confirmation flow.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// EmailExists reports whether any user already holds the email.
	EmailExists(ctx context.Context, email string) (bool, error)

	// CreateUser inserts a new user. The driver assigns ID and timestamps
	// and returns the stored record. A duplicate email yields ErrAlreadyExists.
	CreateUser(ctx context.Context, u domain.User) (domain.User, error)

	// ConfirmUser sets is_confirmed and clears confirm_otp, but only while the
	// user is unconfirmed and still holds otp. Otherwise ErrConflict.
	ConfirmUser(ctx context.Context, userID, otp string) error

	// SetConfirmOTP replaces the pending code of an unconfirmed user.
	// A confirmed user yields ErrConflict.
	SetConfirmOTP(ctx context.Context, userID, otp string) error

	// SetStatus enables or disables login for the user.
	SetStatus(ctx context.Context, userID string, active bool) error
}
