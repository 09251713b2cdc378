package nn

import (
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/diff/fd"
)

func sampleCost(t *testing.T, net *Network, input, expected []float64) float64 {
	t.Helper()
	out, err := net.Forward(input)
	require.NoError(t, err)
	var c float64
	for j, o := range out {
		c += Cost(o, expected[j])
	}
	return c
}

func relErr(a, b float64) float64 {
	scale := math.Max(math.Max(math.Abs(a), math.Abs(b)), 1e-8)
	return math.Abs(a-b) / scale
}

func TestGradientMatchesCentralDifference(t *testing.T) {
	net := newTestNetwork(t, 2, 3, 1)
	input := []float64{0.6, -0.4}
	expected := []float64{0.7}

	require.NoError(t, net.Backward(input, expected))
	grads := net.Snapshot()

	settings := &fd.Settings{Formula: fd.Central, Step: 1e-6}
	rnd := rand.New(rand.NewSource(11))
	for i := 0; i < 10; i++ {
		l := rnd.Intn(len(net.weights))
		rows, cols := net.weights[l].Dims()
		j, k := rnd.Intn(rows), rnd.Intn(cols)

		w0 := net.weights[l].At(j, k)
		numeric := fd.Derivative(func(w float64) float64 {
			net.weights[l].Set(j, k, w)
			return sampleCost(t, net, input, expected)
		}, w0, settings)
		net.weights[l].Set(j, k, w0)

		analytic := grads.GradWeights[l].At(j, k)
		assert.LessOrEqual(t, relErr(analytic, numeric), 1e-4,
			"dC/dw[%d][%d][%d]: analytic %v, numeric %v", l, j, k, analytic, numeric)
	}

	for l := range net.biases {
		for j := 0; j < net.biases[l].Len(); j++ {
			b0 := net.biases[l].AtVec(j)
			numeric := fd.Derivative(func(b float64) float64 {
				net.biases[l].SetVec(j, b)
				return sampleCost(t, net, input, expected)
			}, b0, settings)
			net.biases[l].SetVec(j, b0)

			analytic := grads.GradBiases[l][j]
			assert.LessOrEqual(t, relErr(analytic, numeric), 1e-4,
				"dC/db[%d][%d]: analytic %v, numeric %v", l, j, analytic, numeric)
		}
	}
}

func TestBackwardSingleWeight(t *testing.T) {
	net := newTestNetwork(t, 1, 1)
	require.NoError(t, net.SetLayerParams(0, []float64{0.5}, []float64{0}))

	// output 0.5, dC/do = 2*(0.5-1) = -1, positive pre-activation
	require.NoError(t, net.Backward([]float64{1}, []float64{1}))
	assert.Equal(t, 1, net.SampleCount())
	assert.InDelta(t, -1.0, net.gradWeights[0].At(0, 0), 1e-15)
	assert.InDelta(t, -1.0, net.gradBiases[0].AtVec(0), 1e-15)
	assert.InDelta(t, -1.0, net.gradActivations[1].AtVec(0), 1e-15)

	// output -0.1, dC/do = -0.2, dC/dz = -0.02, dC/dw = -0.02 * -2
	require.NoError(t, net.Backward([]float64{-2}, []float64{0}))
	assert.Equal(t, 2, net.SampleCount())
	assert.InDelta(t, -1.0+0.04, net.gradWeights[0].At(0, 0), 1e-12)
	assert.InDelta(t, -1.0-0.02, net.gradBiases[0].AtVec(0), 1e-12)
	assert.InDelta(t, -0.2, net.gradActivations[1].AtVec(0), 1e-12)
}

func TestBackwardAccumulates(t *testing.T) {
	net := newTestNetwork(t, 3, 4, 2)
	input := []float64{0.2, 0.4, -0.6}
	expected := []float64{1, 0}

	require.NoError(t, net.Backward(input, expected))
	once := net.Snapshot()
	require.NoError(t, net.Backward(input, expected))
	twice := net.Snapshot()

	assert.Equal(t, 2, twice.SampleCount)
	for l := range once.GradWeights {
		assert.InDeltaSlice(t, scaled(once.GradWeights[l].RawMatrix().Data, 2),
			twice.GradWeights[l].RawMatrix().Data, 1e-12)
		assert.InDeltaSlice(t, scaled(once.GradBiases[l], 2), twice.GradBiases[l], 1e-12)
	}
	// activation gradients describe the last sample only
	assert.Equal(t, once.GradActivations, twice.GradActivations)
	// parameters are untouched until Apply
	assert.Equal(t, once.Weights, twice.Weights)
}

func scaled(vs []float64, f float64) []float64 {
	out := make([]float64, len(vs))
	for i, v := range vs {
		out[i] = v * f
	}
	return out
}

func TestBackwardShapeMismatch(t *testing.T) {
	net := newTestNetwork(t, 2, 3, 2)

	err := net.Backward([]float64{1, 2}, []float64{1})
	assert.Equal(t, ErrShapeMismatch, errors.Cause(err))
	err = net.Backward([]float64{1}, []float64{1, 0})
	assert.Equal(t, ErrShapeMismatch, errors.Cause(err))
	assert.Equal(t, 0, net.SampleCount())
}

func TestBackwardNonFinite(t *testing.T) {
	net := newTestNetwork(t, 1, 1)
	require.NoError(t, net.SetLayerParams(0, []float64{math.Inf(1)}, []float64{0}))

	err := net.Backward([]float64{1}, []float64{0})
	require.Error(t, err)
	assert.Equal(t, ErrNonFinite, errors.Cause(err))
}
