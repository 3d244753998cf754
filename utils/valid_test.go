package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidGST(t *testing.T) {
	tests := []struct {
		name string
		gst  string
		want bool
	}{
		{"z shifted left", "29ABCDE1234FZ15", false},
		{"valid standard", "29ABCDE1234F1Z5", true},
		{"valid with letter entity", "07AAACI1234A2ZK", true},
		{"lowercase", "29abcde1234f1z5", false},
		{"too short", "29ABCDE1234F1Z", false},
		{"missing Z", "29ABCDE1234F1X5", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidGST(tt.gst))
		})
	}
}

func TestIsValidIFSC(t *testing.T) {
	tests := []struct {
		name string
		ifsc string
		want bool
	}{
		{"valid", "HDFC0001234", true},
		{"valid alnum branch", "SBIN0A1B2C3", true},
		{"missing zero", "HDFC1001234", false},
		{"too short", "HDFC000123", false},
		{"lowercase bank", "hdfc0001234", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidIFSC(tt.ifsc))
		})
	}
}

func TestIsValidMobile(t *testing.T) {
	assert.True(t, IsValidMobile("9876543210"))
	assert.False(t, IsValidMobile("987654321"))
	assert.False(t, IsValidMobile("98765432100"))
	assert.False(t, IsValidMobile("98765axy10"))
	assert.False(t, IsValidMobile("+919876543210"))
}

func TestIsValidMemberID(t *testing.T) {
	assert.True(t, IsValidMemberID("123456"))
	assert.True(t, IsValidMemberID("100000"))
	assert.False(t, IsValidMemberID("12345"))
	assert.False(t, IsValidMemberID("1234567"))
	assert.False(t, IsValidMemberID("12a456"))
	assert.False(t, IsValidMemberID(""))
}

func TestIsValidAccountNumber(t *testing.T) {
	assert.True(t, IsValidAccountNumber("123456789"))
	assert.True(t, IsValidAccountNumber("00123456789012"))
	assert.False(t, IsValidAccountNumber("12345678"))
	assert.False(t, IsValidAccountNumber("  1234  "))
}

func TestSanitizeEmail(t *testing.T) {
	assert.Equal(t, "user@example.com", SanitizeEmail("  User@Example.COM "))
	assert.Equal(t, "plain@test.in", SanitizeEmail("plain@test.in"))
}

func TestIsValidEmail(t *testing.T) {
	assert.True(t, IsValidEmail("user@example.com"))
	assert.True(t, IsValidEmail("first.last+tag@sub.domain.org"))
	assert.False(t, IsValidEmail("no-at-sign"))
	assert.False(t, IsValidEmail("user@"))
	assert.False(t, IsValidEmail("@example.com"))
}

func TestIsValidPin(t *testing.T) {
	assert.True(t, IsValidPin("560001"))
	assert.False(t, IsValidPin("5600"))
	assert.False(t, IsValidPin("56000a"))
}
