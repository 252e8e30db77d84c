package rank

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func f(v float64) *float64 { return &v }

func TestBetween(t *testing.T) {
	tests := []struct {
		name string
		prev *float64
		next *float64
		want float64
	}{
		{"empty column", nil, nil, 1000},
		{"before first card", nil, f(1000), 500},
		{"after last card", f(1000), nil, 2000},
		{"midpoint", f(1000), f(2000), 1500},
		{"tight midpoint", f(1000), f(1001), 1000.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Between(tt.prev, tt.next))
		})
	}
}

func TestBetweenKeepsOrder(t *testing.T) {
	// Repeated insertion between the same neighbors keeps strict ordering
	// until float resolution runs out.
	lo, hi := 1000.0, 2000.0
	for i := 0; i < 40; i++ {
		mid := Between(&lo, &hi)
		assert.Greater(t, mid, lo)
		assert.Less(t, mid, hi)
		hi = mid
	}
}
