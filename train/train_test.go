package train

import (
	"bytes"
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ffnet/dataset"
	"ffnet/nn"
	"ffnet/utils"
)

func newNetwork(t *testing.T, rate float64, sizes ...int) *nn.Network {
	t.Helper()
	cfg := nn.DefaultConfig(sizes...)
	cfg.Seed = 1
	cfg.InitialWeightScale = 1
	cfg.Rate = rate
	net, err := nn.New(cfg)
	require.NoError(t, err)
	return net
}

func TestTrainSquareFunctionLowersError(t *testing.T) {
	data := dataset.SampleFunction(-1, 1, 0.1, dataset.Square)
	require.Len(t, data, 21)
	net := newNetwork(t, 0.05, 1, 5, 5, 1)

	before, err := Evaluate(net, data)
	require.NoError(t, err)

	cfg := DefaultConfig()
	cfg.Epochs = 10
	cfg.Batches = 200
	cfg.RateDecay = 0.95
	report, err := Train(net, data, data, cfg)
	require.NoError(t, err)

	after, err := Evaluate(net, data)
	require.NoError(t, err)
	assert.Less(t, after.Error, before.Error)

	require.Len(t, report.Epochs, 10)
	last, ok := report.Last()
	require.True(t, ok)
	assert.Equal(t, after, last.Test)
	assert.InDelta(t, 0.05*math.Pow(0.95, 10), last.Rate, 1e-12)
	assert.InDelta(t, last.Rate, net.Rate(), 1e-15)
}

func TestTrainOneStepIsFullSubsetGradient(t *testing.T) {
	data := dataset.SampleFunction(0, 1, 0.25, dataset.Square)
	trained := newNetwork(t, 0.1, 1, 3, 1)
	manual := newNetwork(t, 0.1, 1, 3, 1)

	cfg := DefaultConfig()
	cfg.Epochs = 1
	cfg.Batches = 1
	cfg.RateDecay = 0.5
	_, err := Train(trained, data, nil, cfg)
	require.NoError(t, err)

	for _, s := range data {
		require.NoError(t, manual.Backward(s.Input, s.Expected))
	}
	require.NoError(t, manual.Apply())
	manual.ResetGradients()

	got, want := trained.Snapshot(), manual.Snapshot()
	assert.Equal(t, want.Weights, got.Weights)
	assert.Equal(t, want.Biases, got.Biases)
	assert.Equal(t, 0, got.SampleCount)
	assert.Equal(t, 0.05, trained.Rate())
}

func TestTrainDeterministic(t *testing.T) {
	data := dataset.SampleFunction(-1, 1, 0.1, dataset.Square)
	cfg := DefaultConfig()
	cfg.Epochs = 3
	cfg.Batches = 5
	cfg.Seed = 7
	cfg.ReduceTrainingRatio = 0.5

	a := newNetwork(t, 0.05, 1, 4, 1)
	b := newNetwork(t, 0.05, 1, 4, 1)
	ra, err := Train(a, data, data, cfg)
	require.NoError(t, err)
	rb, err := Train(b, data, data, cfg)
	require.NoError(t, err)

	assert.Equal(t, a.Snapshot().Weights, b.Snapshot().Weights)
	for i := range ra.Epochs {
		assert.Equal(t, ra.Epochs[i].Test, rb.Epochs[i].Test)
	}
}

func TestTrainLeavesInputOrder(t *testing.T) {
	data := dataset.SampleFunction(-1, 1, 0.1, dataset.Square)
	order := make([]float64, len(data))
	for i, s := range data {
		order[i] = s.Input[0]
	}

	cfg := DefaultConfig()
	cfg.Epochs = 2
	cfg.ReduceTrainingRatio = 0.3
	_, err := Train(newNetwork(t, 0.05, 1, 2, 1), data, nil, cfg)
	require.NoError(t, err)

	for i, s := range data {
		assert.Equal(t, order[i], s.Input[0])
	}
}

func TestTrainZeroEpochs(t *testing.T) {
	net := newNetwork(t, 0.1, 1, 2, 1)
	before := net.Snapshot()

	cfg := DefaultConfig()
	cfg.Epochs = 0
	report, err := Train(net, dataset.SampleFunction(0, 1, 0.5, dataset.Square), nil, cfg)
	require.NoError(t, err)
	assert.Empty(t, report.Epochs)
	assert.Equal(t, before, net.Snapshot())
}

func TestTrainRejectsBadInput(t *testing.T) {
	net := newNetwork(t, 0.1, 2, 1)
	good := []nn.Sample{{Input: []float64{1, 2}, Expected: []float64{1}}}
	bad := []nn.Sample{{Input: []float64{1}, Expected: []float64{1}}}

	_, err := Train(net, bad, good, DefaultConfig())
	assert.Equal(t, nn.ErrShapeMismatch, errors.Cause(err))
	_, err = Train(net, good, bad, DefaultConfig())
	assert.Equal(t, nn.ErrShapeMismatch, errors.Cause(err))

	cfg := DefaultConfig()
	cfg.ReduceTrainingRatio = 0
	_, err = Train(net, good, good, cfg)
	assert.Equal(t, nn.ErrInvalidConfig, errors.Cause(err))
}

func TestTrainStopsOnNonFinite(t *testing.T) {
	net := newNetwork(t, math.MaxFloat64, 1, 1)
	require.NoError(t, net.SetLayerParams(0, []float64{1}, []float64{0}))
	data := []nn.Sample{{Input: []float64{1e10}, Expected: []float64{0}}}

	cfg := DefaultConfig()
	cfg.Epochs = 3
	report, err := Train(net, data, data, cfg)
	require.Error(t, err)
	assert.Equal(t, nn.ErrNonFinite, errors.Cause(err))
	assert.Empty(t, report.Epochs)
}

func TestTrainSplit(t *testing.T) {
	data := dataset.SampleFunction(0, 0.9, 0.1, dataset.Square)
	require.Len(t, data, 10)

	cfg := DefaultConfig()
	cfg.Epochs = 1
	cfg.Seed = 3
	test, report, err := TrainSplit(newNetwork(t, 0.1, 1, 2, 1), data, 0.7, cfg)
	require.NoError(t, err)
	require.Len(t, test, 3)
	assert.Equal(t, 3, report.Epochs[0].Test.Count)

	// the test samples come from data and are distinct
	seen := map[float64]bool{}
	for _, s := range test {
		seen[s.Input[0]] = true
	}
	assert.Len(t, seen, 3)
	for x := range seen {
		found := false
		for _, s := range data {
			found = found || s.Input[0] == x
		}
		assert.True(t, found, "%v not in data", x)
	}

	_, _, err = TrainSplit(newNetwork(t, 0.1, 1, 1), data, 0, cfg)
	assert.Equal(t, nn.ErrInvalidConfig, errors.Cause(err))
}

func TestTrainLogsAndTimes(t *testing.T) {
	var buf bytes.Buffer
	stats := &utils.TimingStats{}
	cfg := DefaultConfig()
	cfg.Epochs = 2
	cfg.Batches = 3
	cfg.Log = utils.NewLogger(&buf, utils.Debug)
	cfg.Stats = stats

	data := dataset.SampleFunction(-1, 1, 0.5, dataset.Square)
	_, err := Train(newNetwork(t, 0.05, 1, 2, 1), data, data, cfg)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "batches:3")
	assert.Contains(t, out, ".\n")
	assert.Contains(t, out, "ws[0] stats: min=")
	assert.Contains(t, out, "learning rate changed to")
	assert.Contains(t, out, "epoch 1 done in")
	assert.NotContains(t, out, "sample:in:")

	assert.True(t, stats.Total >= stats.Backward+stats.Update)
}
