package nn

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLeakyReLU(t *testing.T) {
	act := LeakyReLU{NegSlope: DefaultNegSlope}
	cases := []struct {
		z, a, d float64
	}{
		{z: 0, a: 0, d: 1},
		{z: 2.5, a: 2.5, d: 1},
		{z: -1, a: -0.1, d: 0.1},
		{z: -30, a: -3, d: 0.1},
	}
	for _, c := range cases {
		assert.InDelta(t, c.a, act.Activate(c.z), 1e-15, "Activate(%v)", c.z)
		assert.Equal(t, c.d, act.Derivative(c.z), "Derivative(%v)", c.z)
	}
	assert.Equal(t, "leaky-relu", act.String())
}

func TestLeakyReLUSign(t *testing.T) {
	act := LeakyReLU{NegSlope: DefaultNegSlope}
	for z := -5.0; z <= 5.0; z += 0.25 {
		a := act.Activate(z)
		assert.Equal(t, z >= 0, a >= 0, "sign of Activate(%v) = %v", z, a)
		if z >= 0 {
			assert.Equal(t, z, a)
		} else {
			assert.Equal(t, z*0.1, a)
		}
	}
}
