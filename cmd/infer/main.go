// ffnet-infer: evaluates saved weights on a dataset
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"ffnet/dataset"
	"ffnet/nn"
	"ffnet/train"
	"ffnet/utils"
)

var (
	arch        = flag.String("arch", "", "Layer widths, input first")
	weightsFile = flag.String("weights", "", "Weights file (.json or text)")
	source      = flag.String("data", utils.SourceSquare, "Data source: square, csv, idx")
	path        = flag.String("path", "", "Data file (csv) or images file (idx)")
	labelsPath  = flag.String("labels", "", "Labels file (idx)")
	labelColumn = flag.Int("label-column", -1, "Class column of a csv file, negative counts from the end")
	limit       = flag.Int("limit", 0, "Use at most this many samples (0: all)")
	show        = flag.Int("show", 5, "Print the output of the first samples")
)

func main() {
	flag.Parse()

	if *weightsFile == "" {
		fmt.Fprintln(os.Stderr, "No weights file given")
		os.Exit(1)
	}

	var layers []int
	var mw *utils.ModelWeights
	var err error
	if *arch != "" {
		layers, err = utils.ParseArchitecture(*arch)
		if err != nil {
			fail("Invalid architecture", err)
		}
	} else {
		// only JSON weights record the architecture
		mw, err = utils.LoadWeights(*weightsFile)
		if err != nil {
			fail("Error loading weights", err)
		}
		layers = mw.LayerSizes
	}

	net, err := nn.New(nn.DefaultConfig(layers...))
	if err != nil {
		fail("Error building network", err)
	}
	if mw != nil {
		err = mw.ApplyTo(net)
	} else {
		err = utils.LoadInto(*weightsFile, net)
	}
	if err != nil {
		fail("Error loading weights", err)
	}
	fmt.Printf("Loaded %d layers: %v\n", net.NumLayers(), net.LayerSizes())

	cfg := &utils.Config{
		Source:      *source,
		Path:        *path,
		LabelsPath:  *labelsPath,
		LabelColumn: *labelColumn,
		Limit:       *limit,
	}
	samples, testSet, err := dataset.Load(cfg)
	if err != nil {
		fail("Error loading data", err)
	}
	samples = append(samples, testSet...)

	start := time.Now()
	res, err := train.Evaluate(net, samples)
	if err != nil {
		fail("Error", err)
	}
	fmt.Printf("Evaluated %d samples in %.4fs\n", res.Count, time.Since(start).Seconds())
	fmt.Printf("Error: %.6f | Accuracy: %.4f\n", res.Error, res.Accuracy)

	for i := 0; i < *show && i < len(samples); i++ {
		out, err := net.Forward(samples[i].Input)
		if err != nil {
			fail("Error", err)
		}
		fmt.Printf("  #%d predicted %d expected %d output %s\n",
			i, train.ArgMax(out), train.ArgMax(samples[i].Expected), nn.FormatVector(out))
	}
}

func fail(msg string, err error) {
	fmt.Fprintf(os.Stderr, "%s: %v\n", msg, err)
	os.Exit(1)
}
