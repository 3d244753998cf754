package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSecureOTP(t *testing.T) {
	otp, err := GenerateSecureOTP(6)
	require.NoError(t, err)
	assert.Len(t, otp, 6)
	for _, r := range otp {
		assert.True(t, r >= '0' && r <= '9', "expected digit, got %q", r)
	}
}

func TestGenerateSecureOTPDefaultsLength(t *testing.T) {
	otp, err := GenerateSecureOTP(0)
	require.NoError(t, err)
	assert.Len(t, otp, 6)
}

func TestHashOTP(t *testing.T) {
	first := HashOTP("123456")
	second := HashOTP("123456")
	other := HashOTP("654321")

	assert.Equal(t, first, second)
	assert.NotEqual(t, first, other)
	assert.Len(t, first, 64)
	assert.NotContains(t, first, "123456")
}

func TestValidateOTPAttemptsWithoutRedis(t *testing.T) {
	// Attempt limiting is disabled when Redis is unavailable
	assert.NoError(t, ValidateOTPAttempts("123456", nil))
	ClearOTPAttempts("123456", nil)
}
