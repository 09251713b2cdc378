package train

import (
	"fmt"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"

	"ffnet/nn"
	"ffnet/utils"
)

// Result is the performance of a network over a set of samples.
type Result struct {
	// mean over samples of the mean squared error of the outputs
	Error float64
	// fraction of samples whose output arg-max matches the expected arg-max
	Accuracy float64
	Count    int
}

func (r Result) String() string {
	return fmt.Sprintf("error:%v accuracy:%v", r.Error, r.Accuracy)
}

// ArgMax returns the index of the largest value of vs. Ties go to the first index.
// It returns -1 for an empty slice.
func ArgMax(vs []float64) int {
	if len(vs) == 0 {
		return -1
	}
	return floats.MaxIdx(vs)
}

// SampleError returns the mean of the per-output costs and whether output and expected
// have the same arg-max.
func SampleError(output, expected []float64) (float64, bool) {
	var sum float64
	for i, o := range output {
		sum += nn.Cost(o, expected[i])
	}
	return sum / float64(len(output)), ArgMax(output) == ArgMax(expected)
}

// Evaluate runs net forward on every sample and averages the error and accuracy.
// Gradient state is not touched. An empty set gives a zero Result.
func Evaluate(net *nn.Network, samples []nn.Sample) (Result, error) {
	return evaluate(net, samples, nil)
}

func evaluate(net *nn.Network, samples []nn.Sample, log *utils.Logger) (Result, error) {
	if len(samples) == 0 {
		return Result{}, nil
	}
	var errSum float64
	correct := 0
	for i, s := range samples {
		if !s.Fits(net) {
			return Result{}, errors.Wrapf(nn.ErrShapeMismatch, "test sample %d", i)
		}
		out, err := net.Forward(s.Input)
		if err != nil {
			return Result{}, err
		}
		e, ok := SampleError(out, s.Expected)
		if log.Enabled(utils.Debug) {
			log.Debugf("input %s", nn.FormatVector(s.Input))
			log.Debugf("network output %s", nn.FormatVector(out))
			log.Debugf("      expected %s", nn.FormatVector(s.Expected))
			log.Debugf("error:%v", e)
		}
		errSum += e
		if ok {
			correct++
		}
	}
	n := float64(len(samples))
	return Result{Error: errSum / n, Accuracy: float64(correct) / n, Count: len(samples)}, nil
}
