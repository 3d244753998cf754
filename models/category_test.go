package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple", "Textiles", "textiles"},
		{"spaces", "Food and Beverages", "food-and-beverages"},
		{"punctuation", "Oil, Ghee & Spices!", "oil-ghee-spices"},
		{"leading trailing", "  --Metals--  ", "metals"},
		{"digits kept", "Grade 2 Steel", "grade-2-steel"},
		{"collapses runs", "A   &&&   B", "a-b"},
		{"only symbols", "!!!", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.input))
		})
	}
}
