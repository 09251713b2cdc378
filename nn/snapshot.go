package nn

import (
	"gonum.org/v1/gonum/mat"
)

// Snapshot is a deep copy of the state of a Network. It is how viewers, persistence
// and debugging code read the engine's arrays without sharing them.
type Snapshot struct {
	LayerSizes  []int
	Rate        float64
	SampleCount int

	// one vector per layer, input layer included
	Activations    [][]float64
	PreActivations [][]float64

	// one entry per layer transition; Weights[l] is sizes[l+1] x sizes[l]
	Weights []*mat.Dense
	Biases  [][]float64

	// GradActivations[0] is nil
	GradActivations [][]float64
	GradWeights     []*mat.Dense
	GradBiases      [][]float64
}

// Snapshot copies the current state of the Network.
func (n *Network) Snapshot() *Snapshot {
	s := &Snapshot{
		LayerSizes:      n.LayerSizes(),
		Rate:            n.config.Rate,
		SampleCount:     n.sampleCount,
		Activations:     copyVecs(n.activations),
		PreActivations:  copyVecs(n.preActivations),
		Biases:          copyVecs(n.biases),
		GradActivations: copyVecs(n.gradActivations),
		GradBiases:      copyVecs(n.gradBiases),
		Weights:         make([]*mat.Dense, len(n.weights)),
		GradWeights:     make([]*mat.Dense, len(n.gradWeights)),
	}
	for l := range n.weights {
		s.Weights[l] = mat.DenseCopyOf(n.weights[l])
		s.GradWeights[l] = mat.DenseCopyOf(n.gradWeights[l])
	}
	return s
}

func copyVecs(vs []*mat.VecDense) [][]float64 {
	out := make([][]float64, len(vs))
	for i, v := range vs {
		if v == nil {
			continue
		}
		out[i] = append([]float64(nil), v.RawVector().Data...)
	}
	return out
}
