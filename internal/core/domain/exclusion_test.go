package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestExclusion_Overlaps tests range intersection checks
func TestExclusion_Overlaps(t *testing.T) {
	excl := Exclusion{From: 10, To: 20}

	tests := []struct {
		name     string
		from, to int
		overlaps bool
		covers   bool
	}{
		{"inside", 12, 18, true, true},
		{"exact", 10, 20, true, true},
		{"straddles start", 5, 12, true, false},
		{"straddles end", 18, 25, true, false},
		{"before", 0, 10, false, false},
		{"after", 20, 30, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.overlaps, excl.Overlaps(tt.from, tt.to))
			assert.Equal(t, tt.covers, excl.Covers(tt.from, tt.to))
		})
	}
}

// TestExclusion_ZeroWidthProbe tests that a zero-width range never overlaps
func TestExclusion_ZeroWidthProbe(t *testing.T) {
	excl := Exclusion{From: 10, To: 20}

	assert.False(t, excl.Overlaps(15, 15))
	assert.True(t, excl.Covers(15, 15))
}
