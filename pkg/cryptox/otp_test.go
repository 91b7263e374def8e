package cryptox

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateOTP(t *testing.T) {
	fourDigits := regexp.MustCompile(`^[0-9]{4}$`)

	seen := make(map[string]struct{})
	for range 200 {
		code, err := GenerateOTP(ConfirmOTPDigits)
		require.NoError(t, err)
		require.Regexp(t, fourDigits, code)
		seen[code] = struct{}{}
	}

	// 200 draws from 10^4 codes should not collapse to a handful of values
	require.Greater(t, len(seen), 100)
}

func TestGenerateOTP_Digits(t *testing.T) {
	code, err := GenerateOTP(8)
	require.NoError(t, err)
	require.Len(t, code, 8)

	_, err = GenerateOTP(0)
	require.Error(t, err)
	_, err = GenerateOTP(11)
	require.Error(t, err)
}

func TestEqualOTP(t *testing.T) {
	require.True(t, EqualOTP("0420", "0420"))
	require.False(t, EqualOTP("0420", "0421"))
	require.False(t, EqualOTP("0420", "420"))
	require.False(t, EqualOTP("", "0420"))
}
