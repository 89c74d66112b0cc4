package shared

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReasonOf_FindsWrappedRejection(t *testing.T) {
	err := fmt.Errorf("dispatch failed: %w", NewRejectionError(ReasonNoIdleUnit, "all %d units busy", 3))

	reason, ok := ReasonOf(err)

	assert.True(t, ok)
	assert.Equal(t, ReasonNoIdleUnit, reason)
	assert.True(t, IsRejection(err, ReasonNoIdleUnit))
	assert.False(t, IsRejection(err, ReasonReservoirEmpty))
	assert.Contains(t, err.Error(), "NO_IDLE_UNIT: all 3 units busy")
}

func TestReasonOf_IgnoresOtherErrors(t *testing.T) {
	_, ok := ReasonOf(NewValidationError("count", "must be positive"))
	assert.False(t, ok)

	_, ok = ReasonOf(nil)
	assert.False(t, ok)
}

func TestSanitizeQuantity(t *testing.T) {
	tests := []struct {
		name     string
		in       float64
		want     float64
		repaired bool
	}{
		{"valid", 12.5, 12.5, false},
		{"zero", 0, 0, false},
		{"nan", math.NaN(), 0, true},
		{"inf", math.Inf(1), 0, true},
		{"negative", -3, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, repaired := SanitizeQuantity(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.repaired, repaired)
		})
	}
}

func TestClampAndMin(t *testing.T) {
	assert.Equal(t, 0.0, Clamp(-1, 0, 10))
	assert.Equal(t, 10.0, Clamp(11, 0, 10))
	assert.Equal(t, 4.0, Clamp(4, 0, 10))

	assert.Equal(t, 0.0, MinQuantity())
	assert.Equal(t, 2.0, MinQuantity(5, 2, 9))
}
