package nn

import (
	"github.com/pkg/errors"
)

// Config describes the architecture and the initial state of a Network.
type Config struct {
	// LayerSizes is the number of neurons per layer; index 0 is the input layer and the
	// last one is the output layer.
	LayerSizes []int

	// Seed drives weight initialization. Two networks with the same Config start with
	// identical parameters.
	Seed uint64

	// InitialWeightScale multiplies every initial weight and bias. Keep it small to
	// avoid exploding gradients.
	InitialWeightScale float64

	// Rate is the initial learning rate. The Network owns a copy that the training
	// scheduler decays over time.
	Rate float64

	// NormalizeInitial multiplies the initial values of each neuron by 1 + its fan-in.
	NormalizeInitial bool

	// NegSlope is the slope of the activation for z < 0.
	NegSlope float64
}

// DefaultConfig returns a Config for the given layer sizes with the usual defaults.
func DefaultConfig(sizes ...int) Config {
	return Config{
		LayerSizes:         append([]int(nil), sizes...),
		InitialWeightScale: 0.1,
		Rate:               0.3,
		NegSlope:           DefaultNegSlope,
	}
}

// Validate reports whether the Config can be used to build a Network.
func (c Config) Validate() error {
	if len(c.LayerSizes) < 2 {
		return errors.Wrapf(ErrInvalidConfig, "need at least 2 layers (input and output), got %d", len(c.LayerSizes))
	}
	for i, n := range c.LayerSizes {
		if n <= 0 {
			return errors.Wrapf(ErrInvalidConfig, "layer %d has %d neurons", i, n)
		}
	}
	return nil
}
