package sqlite_test

import (
	"context"
	"testing"

	"github.com/aussiebroadwan/otpauth/internal/auth/domain"
	"github.com/aussiebroadwan/otpauth/internal/auth/store"
	"github.com/aussiebroadwan/otpauth/internal/auth/store/drivers/sqlite"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func strPtr(s string) *string { return &s }

func seedUser(t *testing.T, st store.Store, email, otp string) domain.User {
	t.Helper()

	u, err := st.Users().CreateUser(context.Background(), domain.User{
		FirstName:    "A",
		LastName:     "B",
		Email:        email,
		PasswordHash: "$argon2id$fake",
		ConfirmOTP:   strPtr(otp),
		Status:       true,
	})
	require.NoError(t, err)
	return u
}

func TestMigrationsAreIdempotent(t *testing.T) {
	st := newTestStore(t)
	require.NoError(t, st.ApplyMigrations())
	require.NoError(t, st.Ping(context.Background()))
}

func TestCreateAndGetUser(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	created := seedUser(t, st, "a@x.com", "1234")
	require.NotEmpty(t, created.ID)
	require.False(t, created.CreatedAt.IsZero())

	byEmail, err := st.Users().GetUserByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	require.Equal(t, created.ID, byEmail.ID)
	require.Equal(t, "A", byEmail.FirstName)
	require.False(t, byEmail.IsConfirmed)
	require.True(t, byEmail.Status)
	require.NotNil(t, byEmail.ConfirmOTP)
	require.Equal(t, "1234", *byEmail.ConfirmOTP)

	byID, err := st.Users().GetUserByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "a@x.com", byID.Email)

	exists, err := st.Users().EmailExists(ctx, "a@x.com")
	require.NoError(t, err)
	require.True(t, exists)

	exists, err = st.Users().EmailExists(ctx, "b@x.com")
	require.NoError(t, err)
	require.False(t, exists)
}

func TestGetUser_NotFound(t *testing.T) {
	st := newTestStore(t)

	_, err := st.Users().GetUserByEmail(context.Background(), "nobody@x.com")
	require.ErrorIs(t, err, store.ErrNotFound)

	_, err = st.Users().GetUserByID(context.Background(), "missing")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	st := newTestStore(t)
	seedUser(t, st, "a@x.com", "1234")

	_, err := st.Users().CreateUser(context.Background(), domain.User{
		FirstName: "C", LastName: "D", Email: "a@x.com", PasswordHash: "h", Status: true,
	})
	require.ErrorIs(t, err, store.ErrAlreadyExists)
}

func TestConfirmUser(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	u := seedUser(t, st, "a@x.com", "1234")

	require.ErrorIs(t, st.Users().ConfirmUser(ctx, u.ID, "9999"), store.ErrConflict)
	require.NoError(t, st.Users().ConfirmUser(ctx, u.ID, "1234"))

	got, err := st.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.True(t, got.IsConfirmed)
	require.Nil(t, got.ConfirmOTP)

	// Second confirmation loses the compare-and-set.
	require.ErrorIs(t, st.Users().ConfirmUser(ctx, u.ID, "1234"), store.ErrConflict)
	require.ErrorIs(t, st.Users().ConfirmUser(ctx, "missing", "1234"), store.ErrNotFound)
}

func TestSetConfirmOTP(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	u := seedUser(t, st, "a@x.com", "1234")

	require.NoError(t, st.Users().SetConfirmOTP(ctx, u.ID, "5678"))
	got, err := st.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "5678", *got.ConfirmOTP)

	// The old code no longer confirms.
	require.ErrorIs(t, st.Users().ConfirmUser(ctx, u.ID, "1234"), store.ErrConflict)
	require.NoError(t, st.Users().ConfirmUser(ctx, u.ID, "5678"))

	require.ErrorIs(t, st.Users().SetConfirmOTP(ctx, u.ID, "0000"), store.ErrConflict)
	require.ErrorIs(t, st.Users().SetConfirmOTP(ctx, "missing", "0000"), store.ErrNotFound)
}

func TestSetStatus(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	u := seedUser(t, st, "a@x.com", "1234")

	require.NoError(t, st.Users().SetStatus(ctx, u.ID, false))
	got, err := st.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.False(t, got.Status)

	require.ErrorIs(t, st.Users().SetStatus(ctx, "missing", true), store.ErrNotFound)
}
