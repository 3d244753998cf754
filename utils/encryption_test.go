package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncryptRevealRoundtrip(t *testing.T) {
	t.Setenv("PASSWORD_ENC_KEY", "unit-test-key")

	encrypted, err := EncryptPassword("s3cret-Pass")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-Pass", encrypted)

	plain, err := RevealPassword(encrypted, "123456", "test")
	require.NoError(t, err)
	assert.Equal(t, "s3cret-Pass", plain)
}

func TestEncryptProducesDifferentCiphertexts(t *testing.T) {
	t.Setenv("PASSWORD_ENC_KEY", "unit-test-key")

	first, err := EncryptPassword("same-input")
	require.NoError(t, err)
	second, err := EncryptPassword("same-input")
	require.NoError(t, err)

	// Random nonces keep identical passwords from sharing ciphertext
	assert.NotEqual(t, first, second)
}

func TestRevealRejectsTamperedCiphertext(t *testing.T) {
	t.Setenv("PASSWORD_ENC_KEY", "unit-test-key")

	encrypted, err := EncryptPassword("something")
	require.NoError(t, err)

	tampered := "A" + encrypted[1:]
	if encrypted[0] == 'A' {
		tampered = "B" + encrypted[1:]
	}
	_, err = RevealPassword(tampered, "123456", "test")
	assert.Error(t, err)
}

func TestRevealRejectsGarbage(t *testing.T) {
	t.Setenv("PASSWORD_ENC_KEY", "unit-test-key")

	_, err := RevealPassword("not base64!!!", "123456", "test")
	assert.Error(t, err)

	_, err = RevealPassword("YWJj", "123456", "test")
	assert.Error(t, err)
}

func TestEncryptRequiresKey(t *testing.T) {
	t.Setenv("PASSWORD_ENC_KEY", "")

	_, err := EncryptPassword("anything")
	assert.Error(t, err)
}

func TestSecureCompare(t *testing.T) {
	assert.True(t, SecureCompare("s3cret-Pass", "s3cret-Pass"))
	assert.False(t, SecureCompare("s3cret-Pass", "s3cret-pass"))
	assert.False(t, SecureCompare("short", "much longer value"))
	assert.True(t, SecureCompare("", ""))
}

func TestRevealFailsWithWrongKey(t *testing.T) {
	t.Setenv("PASSWORD_ENC_KEY", "first-key")
	encrypted, err := EncryptPassword("rotate-me")
	require.NoError(t, err)

	t.Setenv("PASSWORD_ENC_KEY", "second-key")
	_, err = RevealPassword(encrypted, "123456", "test")
	assert.Error(t, err)
}
