package jwtx_test

import (
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/otpauth/pkg/jwtx"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte(strings.Repeat("s", jwtx.MinSecretLength))

func newPair(t *testing.T, issuer string) (jwtx.Signer, jwtx.Verifier) {
	t.Helper()

	signer, err := jwtx.NewSignerHS256(testSecret)
	require.NoError(t, err)
	verifier, err := jwtx.NewVerifierHS256(testSecret, issuer)
	require.NoError(t, err)
	return signer, verifier
}

func TestHS256_RoundTrip(t *testing.T) {
	signer, verifier := newPair(t, "otpauth")
	require.Equal(t, "HS256", signer.Alg())

	claims := jwtx.NewUserClaims("user-1", "A", "B", "a@x.com", "otpauth", time.Hour, time.Now())
	token, err := signer.Sign(claims)
	require.NoError(t, err)
	require.Len(t, strings.Split(token, "."), 3)

	got, err := verifier.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "user-1", got.Subject)
	require.Equal(t, "A", got.FirstName)
	require.Equal(t, "B", got.LastName)
	require.Equal(t, "a@x.com", got.Email)
}

func TestHS256_RejectsWeakSecret(t *testing.T) {
	_, err := jwtx.NewSignerHS256([]byte("short"))
	require.ErrorIs(t, err, jwtx.ErrWeakSecret)

	_, err = jwtx.NewVerifierHS256([]byte("short"), "")
	require.ErrorIs(t, err, jwtx.ErrWeakSecret)
}

func TestHS256_VerifyFailures(t *testing.T) {
	signer, verifier := newPair(t, "otpauth")

	t.Run("malformed", func(t *testing.T) {
		_, err := verifier.Verify("not-a-jwt")
		require.ErrorIs(t, err, jwtx.ErrMalformed)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other, err := jwtx.NewSignerHS256([]byte(strings.Repeat("x", jwtx.MinSecretLength)))
		require.NoError(t, err)
		token, err := other.Sign(jwtx.NewUserClaims("user-1", "A", "B", "a@x.com", "otpauth", time.Hour, time.Now()))
		require.NoError(t, err)

		_, err = verifier.Verify(token)
		require.ErrorIs(t, err, jwtx.ErrInvalidSig)
	})

	t.Run("expired", func(t *testing.T) {
		token, err := signer.Sign(jwtx.NewUserClaims("user-1", "A", "B", "a@x.com", "otpauth", time.Minute, time.Now().Add(-time.Hour)))
		require.NoError(t, err)

		_, err = verifier.Verify(token)
		require.ErrorIs(t, err, jwtx.ErrExpired)
	})

	t.Run("issuer mismatch", func(t *testing.T) {
		token, err := signer.Sign(jwtx.NewUserClaims("user-1", "A", "B", "a@x.com", "elsewhere", time.Hour, time.Now()))
		require.NoError(t, err)

		_, err = verifier.Verify(token)
		require.ErrorIs(t, err, jwtx.ErrIssuer)
	})

	t.Run("alg none", func(t *testing.T) {
		claims := jwtx.NewUserClaims("user-1", "A", "B", "a@x.com", "otpauth", time.Hour, time.Now())
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = verifier.Verify(token)
		require.ErrorIs(t, err, jwtx.ErrInvalidSig)
	})

	t.Run("missing subject", func(t *testing.T) {
		token, err := signer.Sign(jwtx.NewUserClaims("", "A", "B", "a@x.com", "otpauth", time.Hour, time.Now()))
		require.NoError(t, err)

		_, err = verifier.Verify(token)
		require.ErrorIs(t, err, jwtx.ErrInvalidClaim)
	})
}
