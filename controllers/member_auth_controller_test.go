package controllers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/rajavruksha/ftii_backend/models"
	"github.com/rajavruksha/ftii_backend/utils"
)

func TestResetCodeValid(t *testing.T) {
	now := time.Now()
	stored := func(code string, expiresAt time.Time) *models.ForgotPassword {
		return &models.ForgotPassword{OTP: utils.HashOTP(code), OTPExpiresAt: expiresAt}
	}

	tests := []struct {
		name string
		fp   *models.ForgotPassword
		code string
		want bool
	}{
		{"matching live code", stored("483920", now.Add(5*time.Minute)), "483920", true},
		{"expired code", stored("483920", now.Add(-time.Minute)), "483920", false},
		{"wrong code", stored("483920", now.Add(5*time.Minute)), "000000", false},
		{"no pending reset", nil, "483920", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, resetCodeValid(tt.fp, tt.code, now))
		})
	}
}
