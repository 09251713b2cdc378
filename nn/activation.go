package nn

// DefaultNegSlope is the slope of the activation for negative inputs.
const DefaultNegSlope = 0.1

// LeakyReLU is the activation applied to every hidden and output neuron. It passes
// non-negative inputs through and scales negative ones by NegSlope.
type LeakyReLU struct {
	NegSlope float64
}

// Activate returns the activation of a neuron given its weighted sum z.
func (r LeakyReLU) Activate(z float64) float64 {
	if z < 0 {
		return z * r.NegSlope
	}
	return z
}

// Derivative returns d Activate / dz.
func (r LeakyReLU) Derivative(z float64) float64 {
	if z < 0 {
		return r.NegSlope
	}
	return 1
}

func (r LeakyReLU) String() string {
	return "leaky-relu"
}
