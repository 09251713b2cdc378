package utils

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"ffnet/nn"
)

// WeightsVersion is written into every ModelWeights produced by FromNetwork.
const WeightsVersion = "1.0"

// WeightData represents serializable weight data for a layer
type WeightData struct {
	Name  string    `json:"name"`
	Shape []int     `json:"shape"`
	Data  []float64 `json:"data"`
}

// ModelWeights represents all weights in a model
type ModelWeights struct {
	Version    string                 `json:"version"`
	LayerSizes []int                  `json:"layer_sizes"`
	Layers     map[string]LayerWeight `json:"layers"`
}

// LayerWeight contains weights and bias for a layer
type LayerWeight struct {
	Weight *WeightData `json:"weight,omitempty"`
	Bias   *WeightData `json:"bias,omitempty"`
}

// LayerName is the key of layer transition l in ModelWeights.Layers.
func LayerName(l int) string {
	return fmt.Sprintf("layer%d", l+1)
}

// SaveWeights saves model weights to a JSON file
func SaveWeights(filepath string, weights *ModelWeights) error {
	data, err := json.MarshalIndent(weights, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal weights")
	}
	return os.WriteFile(filepath, data, 0644)
}

// LoadWeights loads model weights from a JSON file
func LoadWeights(filepath string) (*ModelWeights, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read weights file")
	}
	var weights ModelWeights
	if err := json.Unmarshal(data, &weights); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal weights")
	}
	return &weights, nil
}

// MatrixToWeightData converts a matrix to serializable weight data
func MatrixToWeightData(name string, m mat.Matrix) *WeightData {
	r, c := m.Dims()
	return &WeightData{
		Name:  name,
		Shape: []int{r, c},
		Data:  append([]float64{}, mat.DenseCopyOf(m).RawMatrix().Data...),
	}
}

// VectorToWeightData converts a vector to serializable weight data
func VectorToWeightData(name string, v []float64) *WeightData {
	return &WeightData{
		Name:  name,
		Shape: []int{len(v)},
		Data:  append([]float64{}, v...), // copy
	}
}

// FromNetwork copies the weights and biases of net.
func FromNetwork(net *nn.Network) *ModelWeights {
	snap := net.Snapshot()
	mw := &ModelWeights{
		Version:    WeightsVersion,
		LayerSizes: snap.LayerSizes,
		Layers:     make(map[string]LayerWeight, len(snap.Weights)),
	}
	for l := range snap.Weights {
		name := LayerName(l)
		mw.Layers[name] = LayerWeight{
			Weight: MatrixToWeightData(name+"_weight", snap.Weights[l]),
			Bias:   VectorToWeightData(name+"_bias", snap.Biases[l]),
		}
	}
	return mw
}

// ApplyTo writes the weights and biases into net, which must have the same layer sizes
// as the network they were taken from. On error net is left unchanged.
func (mw *ModelWeights) ApplyTo(net *nn.Network) error {
	sizes := net.LayerSizes()
	if len(mw.LayerSizes) != 0 && !equalInts(mw.LayerSizes, sizes) {
		return errors.Wrapf(nn.ErrShapeMismatch, "weights are for layers %v, network has %v", mw.LayerSizes, sizes)
	}
	weights := make([][]float64, len(sizes)-1)
	biases := make([][]float64, len(sizes)-1)
	for l := range weights {
		name := LayerName(l)
		lw, ok := mw.Layers[name]
		if !ok || lw.Weight == nil || lw.Bias == nil {
			return errors.Errorf("missing weights for %s", name)
		}
		if len(lw.Weight.Shape) != 2 || lw.Weight.Shape[0] != sizes[l+1] || lw.Weight.Shape[1] != sizes[l] {
			return errors.Wrapf(nn.ErrShapeMismatch, "%s weight shape %v, expected [%d %d]",
				name, lw.Weight.Shape, sizes[l+1], sizes[l])
		}
		weights[l], biases[l] = lw.Weight.Data, lw.Bias.Data
	}
	return net.SetParams(weights, biases)
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// LoadInto reads the weights file at path into net. Files ending in .json hold
// ModelWeights, anything else is read as text.
func LoadInto(path string, net *nn.Network) error {
	if filepath.Ext(path) != ".json" {
		return LoadText(path, net)
	}
	mw, err := LoadWeights(path)
	if err != nil {
		return err
	}
	return mw.ApplyTo(net)
}

// SaveFrom writes the weights of net to path, as JSON if path ends in .json and as
// text otherwise.
func SaveFrom(path string, net *nn.Network) error {
	if filepath.Ext(path) != ".json" {
		return SaveText(path, net)
	}
	return SaveWeights(path, FromNetwork(net))
}
