package tax

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPercentageCalculator(t *testing.T) {
	tests := []struct {
		name         string
		rate         float64
		taxableCents int64
		want         int64
	}{
		{
			name:         "standard rate on round amount",
			rate:         0.0675,
			taxableCents: 5999,
			want:         405,
		},
		{
			name:         "rounds half up",
			rate:         0.0675,
			taxableCents: 3999,
			want:         270, // 269.9325 rounds to 270
		},
		{
			name:         "small amount rounds down",
			rate:         0.0675,
			taxableCents: 3,
			want:         0,
		},
		{
			name:         "zero amount",
			rate:         0.0675,
			taxableCents: 0,
			want:         0,
		},
		{
			name:         "negative amount is clamped",
			rate:         0.0675,
			taxableCents: -100,
			want:         0,
		},
		{
			name:         "zero rate",
			rate:         0,
			taxableCents: 10000,
			want:         0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calc := NewPercentageCalculator(tt.rate)
			assert.Equal(t, tt.want, calc.Calculate(tt.taxableCents))
		})
	}
}
