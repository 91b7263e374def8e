package cryptox

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base32"
	"encoding/binary"
	"fmt"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/hotp"
)

// ConfirmOTPDigits is the length of the email confirmation code.
const ConfirmOTPDigits = 4

// GenerateOTP returns a zero-padded numeric code of the given length. Each
// code is an HOTP value over a throwaway random secret and counter, so codes
// are uniformly distributed and never derivable from earlier ones.
func GenerateOTP(digits int) (string, error) {
	if digits < 1 || digits > 10 {
		return "", fmt.Errorf("cryptox: otp digits out of range: %d", digits)
	}

	// 20 bytes encode to exactly 32 base32 characters, no padding needed.
	raw := make([]byte, 20+8)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("cryptox: generate otp: %w", err)
	}
	secret := base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(raw[:20])
	counter := binary.BigEndian.Uint64(raw[20:])

	code, err := hotp.GenerateCodeCustom(secret, counter, hotp.ValidateOpts{
		Digits:    otp.Digits(digits),
		Algorithm: otp.AlgorithmSHA1,
	})
	if err != nil {
		return "", fmt.Errorf("cryptox: generate otp: %w", err)
	}
	return code, nil
}

// EqualOTP compares two codes in constant time.
func EqualOTP(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
