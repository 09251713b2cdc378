package nn

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
)

// Apply moves every weight and bias against its accumulated gradient, averaged over
// the number of samples seen since the last ResetGradients and scaled by the learning
// rate. It is a no-op if no sample has been accumulated.
//
// If any updated parameter would be NaN or infinite, Apply returns ErrNonFinite and
// leaves every parameter as it was. Apply does not reset the accumulated gradients.
func (n *Network) Apply() error {
	if n.sampleCount == 0 {
		return nil
	}
	alpha := -n.config.Rate / float64(n.sampleCount)
	for l := range n.weights {
		if err := checkStep("weights", l, n.weights[l].RawMatrix().Data, n.gradWeights[l].RawMatrix().Data, alpha); err != nil {
			return err
		}
		if err := checkStep("biases", l, n.biases[l].RawVector().Data, n.gradBiases[l].RawVector().Data, alpha); err != nil {
			return err
		}
	}
	for l := range n.weights {
		floats.AddScaled(n.weights[l].RawMatrix().Data, alpha, n.gradWeights[l].RawMatrix().Data)
		floats.AddScaled(n.biases[l].RawVector().Data, alpha, n.gradBiases[l].RawVector().Data)
	}
	return nil
}

// checkStep returns ErrNonFinite if params + alpha*grads has a NaN or an infinity.
func checkStep(what string, layer int, params, grads []float64, alpha float64) error {
	for i, p := range params {
		v := p + alpha*grads[i]
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.Wrapf(ErrNonFinite, "%s[%d][%d] = %v", what, layer, i, v)
		}
	}
	return nil
}
