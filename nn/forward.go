package nn

// Forward computes the activations of every layer for the given input and returns
// those of the output layer.
//
// The returned slice belongs to the Network: it must not be modified and is
// overwritten by the next call to Forward or Backward.
func (n *Network) Forward(input []float64) ([]float64, error) {
	if err := checkLen("input", len(input), n.InputSize()); err != nil {
		return nil, err
	}

	// the input layer is a plain copy, no activation
	copy(n.activations[0].RawVector().Data, input)

	for l := 1; l < len(n.activations); l++ {
		z := n.preActivations[l]
		z.MulVec(n.weights[l-1], n.activations[l-1])
		z.AddVec(z, n.biases[l-1])

		a := n.activations[l].RawVector().Data
		for j, v := range z.RawVector().Data {
			a[j] = n.act.Activate(v)
		}
	}
	return n.activations[len(n.activations)-1].RawVector().Data, nil
}
