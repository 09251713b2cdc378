package dataset

import (
	"math"

	"ffnet/nn"
)

// SampleFunction samples f on the grid from, from+step, ... up to and including to.
// Each point is computed as from + i*step so rounding errors do not accumulate. It
// returns nil unless step is positive and to >= from.
func SampleFunction(from, to, step float64, f func(float64) float64) []nn.Sample {
	if step <= 0 || to < from {
		return nil
	}
	n := int(math.Floor((to-from)/step + 1e-9))
	samples := make([]nn.Sample, 0, n+1)
	for i := 0; i <= n; i++ {
		x := from + float64(i)*step
		samples = append(samples, nn.Sample{Input: []float64{x}, Expected: []float64{f(x)}})
	}
	return samples
}

// Square is x*x.
func Square(x float64) float64 {
	return x * x
}
