package control

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClampedIncrement(t *testing.T) {
	tests := []struct {
		name    string
		current float64
		delta   float64
		want    float64
	}{
		{"inside", 0.2, 0.1, 0.3},
		{"reaches upper", 0.9, 0.1, 1.0},
		{"past upper", 1.0, 0.1, 1.0},
		{"reaches lower", -0.9, -0.1, -1.0},
		{"past lower", -1.0, -0.1, -1.0},
		{"from outside", 1.4, -0.1, 1.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClampedIncrement(tt.current, tt.delta, MinAxis, MaxAxis))
		})
	}
}

func TestUnboundedIncrement(t *testing.T) {
	assert.Equal(t, 12.3, UnboundedIncrement(12.2, 0.1))
	assert.Equal(t, -7.1, UnboundedIncrement(-7.0, -0.1))
}

func TestDirectAxisSet(t *testing.T) {
	assert.Equal(t, -0.42, DirectAxisSet(-0.42))
	assert.Equal(t, 1.0, DirectAxisSet(1.0001))
	assert.Equal(t, -1.0, DirectAxisSet(-1.5))
	assert.Equal(t, 0.0, DirectAxisSet(math.NaN()))
}

func TestMidDeadZone(t *testing.T) {
	assert.Equal(t, 0.0, MidDeadZone(0.04, 0, 0.05))
	assert.Equal(t, 0.0, MidDeadZone(-0.04, 0, 0.05))
	assert.Equal(t, 0.3, MidDeadZone(0.3, 0, 0.05))
	assert.Equal(t, -0.3, MidDeadZone(-0.3, 0, 0.05))
	assert.Equal(t, 0.01, MidDeadZone(0.01, 0, 0))
}
