package nn

import (
	"github.com/pkg/errors"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Network is a fully-connected feed-forward network together with the gradient state
// needed to train it. All arrays are allocated once by New and reused in place.
//
// weights[l] and biases[l] compute layer l+1 from layer l, so weights[l] has
// sizes[l+1] rows and sizes[l] columns.
//
// A Network is not safe for concurrent use.
type Network struct {
	config Config
	act    LeakyReLU

	activations    []*mat.VecDense
	preActivations []*mat.VecDense
	weights        []*mat.Dense
	biases         []*mat.VecDense

	// number of backward passes accumulated since the last ResetGradients
	sampleCount int

	// derivative of the cost vs. neuron activations, for the last sample only.
	// gradActivations[0] is nil: the cost is not differentiated w.r.t. the inputs.
	gradActivations []*mat.VecDense
	gradWeights     []*mat.Dense
	gradBiases      []*mat.VecDense

	// scratch: dCost/dz for each layer transition
	deltas []*mat.VecDense
}

// New allocates a Network for the given Config and initializes its weights and biases.
func New(c Config) (*Network, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	c.LayerSizes = append([]int(nil), c.LayerSizes...)
	if c.NegSlope == 0 {
		c.NegSlope = DefaultNegSlope
	}

	layers := len(c.LayerSizes)
	net := &Network{
		config:          c,
		act:             LeakyReLU{NegSlope: c.NegSlope},
		activations:     make([]*mat.VecDense, layers),
		preActivations:  make([]*mat.VecDense, layers),
		weights:         make([]*mat.Dense, layers-1),
		biases:          make([]*mat.VecDense, layers-1),
		gradActivations: make([]*mat.VecDense, layers),
		gradWeights:     make([]*mat.Dense, layers-1),
		gradBiases:      make([]*mat.VecDense, layers-1),
		deltas:          make([]*mat.VecDense, layers-1),
	}

	for l, size := range c.LayerSizes {
		net.activations[l] = mat.NewVecDense(size, nil)
		net.preActivations[l] = mat.NewVecDense(size, nil)
		if l > 0 {
			net.gradActivations[l] = mat.NewVecDense(size, nil)
		}
	}
	for l := 0; l < layers-1; l++ {
		in, out := c.LayerSizes[l], c.LayerSizes[l+1]
		net.weights[l] = mat.NewDense(out, in, nil)
		net.biases[l] = mat.NewVecDense(out, nil)
		net.gradWeights[l] = mat.NewDense(out, in, nil)
		net.gradBiases[l] = mat.NewVecDense(out, nil)
		net.deltas[l] = mat.NewVecDense(out, nil)
	}

	net.initParams()
	return net, nil
}

// initParams draws every weight and bias from a single stream seeded with the
// configured seed. The order is fixed: layer, then output neuron, then its incoming
// weights followed by its bias.
func (n *Network) initParams() {
	dist := distuv.Uniform{Min: -0.5, Max: 0.5, Src: rand.NewSource(n.config.Seed)}
	for l, w := range n.weights {
		rows, cols := w.Dims()
		norm := 1.0
		if n.config.NormalizeInitial {
			norm = float64(1 + cols)
		}
		for j := 0; j < rows; j++ {
			row := w.RawRowView(j)
			for k := range row {
				row[k] = dist.Rand() * n.config.InitialWeightScale * norm
			}
			n.biases[l].SetVec(j, dist.Rand()*n.config.InitialWeightScale*norm)
		}
	}
}

// Reset brings the Network back to the state New left it in: activations and all
// gradient state are zeroed and the parameters are drawn again from the same seed.
func (n *Network) Reset() {
	for l := range n.activations {
		n.activations[l].Zero()
		n.preActivations[l].Zero()
		if n.gradActivations[l] != nil {
			n.gradActivations[l].Zero()
		}
	}
	for l := range n.deltas {
		n.deltas[l].Zero()
	}
	n.ResetGradients()
	n.initParams()
}

// ResetGradients zeroes the accumulated weight and bias gradients and the sample
// count. Weights, biases and activations are left untouched.
func (n *Network) ResetGradients() {
	for l := range n.gradWeights {
		n.gradWeights[l].Zero()
		n.gradBiases[l].Zero()
	}
	n.sampleCount = 0
}

// LayerSizes returns a copy of the width of each layer.
func (n *Network) LayerSizes() []int {
	return append([]int(nil), n.config.LayerSizes...)
}

// NumLayers returns the number of layers, input and output included.
func (n *Network) NumLayers() int {
	return len(n.config.LayerSizes)
}

// InputSize returns the width of the input layer.
func (n *Network) InputSize() int {
	return n.config.LayerSizes[0]
}

// OutputSize returns the width of the output layer.
func (n *Network) OutputSize() int {
	return n.config.LayerSizes[len(n.config.LayerSizes)-1]
}

// Rate returns the current learning rate.
func (n *Network) Rate() float64 {
	return n.config.Rate
}

// SetRate changes the learning rate used by Apply.
func (n *Network) SetRate(rate float64) {
	n.config.Rate = rate
}

// SampleCount returns the number of backward passes accumulated since the last
// ResetGradients.
func (n *Network) SampleCount() int {
	return n.sampleCount
}

// Config returns the Network's configuration, with the current learning rate.
func (n *Network) Config() Config {
	c := n.config
	c.LayerSizes = n.LayerSizes()
	return c
}

// Activation returns the activation function used by every layer.
func (n *Network) Activation() LeakyReLU {
	return n.act
}

// SetLayerParams overwrites the weights (row-major, one row per output neuron) and
// biases of the transition from layer l to layer l+1. It is meant for loading
// persisted parameters into a freshly built Network.
func (n *Network) SetLayerParams(l int, weights, biases []float64) error {
	if err := n.checkLayerParams(l, weights, biases); err != nil {
		return err
	}
	copy(n.weights[l].RawMatrix().Data, weights)
	copy(n.biases[l].RawVector().Data, biases)
	return nil
}

// SetParams overwrites the weights and biases of every layer transition, as
// SetLayerParams does for one. All shapes are checked first: on error the Network is
// left unchanged.
func (n *Network) SetParams(weights, biases [][]float64) error {
	if len(weights) != len(n.weights) || len(biases) != len(n.biases) {
		return errors.Wrapf(ErrShapeMismatch, "got %d weight and %d bias layers, expected %d",
			len(weights), len(biases), len(n.weights))
	}
	for l := range n.weights {
		if err := n.checkLayerParams(l, weights[l], biases[l]); err != nil {
			return err
		}
	}
	for l := range n.weights {
		copy(n.weights[l].RawMatrix().Data, weights[l])
		copy(n.biases[l].RawVector().Data, biases[l])
	}
	return nil
}

func (n *Network) checkLayerParams(l int, weights, biases []float64) error {
	if l < 0 || l >= len(n.weights) {
		return errors.Wrapf(ErrShapeMismatch, "layer transition %d out of range [0, %d)", l, len(n.weights))
	}
	rows, cols := n.weights[l].Dims()
	if err := checkLen("weights", len(weights), rows*cols); err != nil {
		return errors.Wrapf(err, "layer transition %d", l)
	}
	if err := checkLen("biases", len(biases), rows); err != nil {
		return errors.Wrapf(err, "layer transition %d", l)
	}
	return nil
}
