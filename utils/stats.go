package utils

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"ffnet/nn"
)

// Stats summarizes a set of parameters or gradients.
type Stats struct {
	Min, Max float64
	Avg      float64
	// mean of the absolute values
	MeanAbs float64
	N       int
}

// ComputeStats returns the Stats of vs. An empty slice gives zero Stats.
func ComputeStats(vs []float64) Stats {
	if len(vs) == 0 {
		return Stats{}
	}
	var abs float64
	for _, v := range vs {
		abs += math.Abs(v)
	}
	return Stats{
		Min:     floats.Min(vs),
		Max:     floats.Max(vs),
		Avg:     stat.Mean(vs, nil),
		MeanAbs: abs / float64(len(vs)),
		N:       len(vs),
	}
}

func (s Stats) String() string {
	return fmt.Sprintf("min=%.4g max=%.4g avg=%.4g aavg=%.4g n=%d", s.Min, s.Max, s.Avg, s.MeanAbs, s.N)
}

// LayerStats returns the Stats of the weights and of the biases of every layer
// transition in snap.
func LayerStats(snap *nn.Snapshot) (weights, biases []Stats) {
	weights = make([]Stats, len(snap.Weights))
	biases = make([]Stats, len(snap.Biases))
	for l := range snap.Weights {
		weights[l] = ComputeStats(snap.Weights[l].RawMatrix().Data)
		biases[l] = ComputeStats(snap.Biases[l])
	}
	return weights, biases
}
