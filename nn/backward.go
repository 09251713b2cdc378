package nn

// Cost is the error of a single output neuron.
func Cost(output, expected float64) float64 {
	diff := output - expected
	return diff * diff
}

// CostDerivative is d Cost / d output.
func CostDerivative(output, expected float64) float64 {
	return 2 * (output - expected)
}

// Backward runs a forward pass for input, then adds the gradient of the cost of this
// sample w.r.t. every weight and bias to the accumulated gradients.
//
// The cost of a sample is the sum of Cost over the output neurons. The accumulated
// gradients are only applied by Apply.
func (n *Network) Backward(input, expected []float64) error {
	if err := checkLen("expected", len(expected), n.OutputSize()); err != nil {
		return err
	}
	out, err := n.Forward(input)
	if err != nil {
		return err
	}

	last := len(n.activations) - 1
	for l := 1; l <= last; l++ {
		n.gradActivations[l].Zero()
	}
	n.sampleCount++

	dOut := n.gradActivations[last].RawVector().Data
	for j, o := range out {
		dOut[j] += CostDerivative(o, expected[j])
	}

	for l := last; l > 0; l-- {
		// dCost/dz = dCost/da * da/dz
		delta := n.deltas[l-1]
		d := delta.RawVector().Data
		dA := n.gradActivations[l].RawVector().Data
		z := n.preActivations[l].RawVector().Data
		for j := range d {
			d[j] = dA[j] * n.act.Derivative(z[j])
		}
		if err := checkFinite("delta", l, d); err != nil {
			return err
		}

		// dz/dw is the activation of the previous layer, dz/db is 1
		n.gradWeights[l-1].RankOne(n.gradWeights[l-1], 1, delta, n.activations[l-1])
		n.gradBiases[l-1].AddVec(n.gradBiases[l-1], delta)

		if l > 1 {
			// gradActivations[l-1] was zeroed above and only receives from layer l
			n.gradActivations[l-1].MulVec(n.weights[l-1].T(), delta)
		}
	}
	return nil
}
