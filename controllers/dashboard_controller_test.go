package controllers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaymentSuccessRate(t *testing.T) {
	tests := []struct {
		name    string
		success int64
		created int64
		want    int
	}{
		{"no attempts", 0, 0, 0},
		{"all settled", 10, 0, 100},
		{"none settled", 0, 10, 0},
		{"half settled", 5, 5, 50},
		{"rounds up", 2, 1, 67},
		{"rounds down", 1, 2, 33},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PaymentSuccessRate(tt.success, tt.created))
		})
	}
}
