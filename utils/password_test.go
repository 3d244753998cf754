package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneratePasswordLength(t *testing.T) {
	for _, length := range []int{6, 10, 24} {
		password, err := GeneratePassword(length)
		require.NoError(t, err)
		assert.Len(t, password, length)
	}
}

func TestGeneratePasswordDefaultsLength(t *testing.T) {
	password, err := GeneratePassword(0)
	require.NoError(t, err)
	assert.Len(t, password, 10)
}

func TestGeneratePasswordCharset(t *testing.T) {
	password, err := GeneratePassword(64)
	require.NoError(t, err)
	for _, r := range password {
		assert.True(t, strings.ContainsRune(passwordCharset, r), "unexpected character %q", r)
	}
}

func TestGeneratePasswordVaries(t *testing.T) {
	first, err := GeneratePassword(16)
	require.NoError(t, err)
	second, err := GeneratePassword(16)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}
