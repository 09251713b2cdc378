// ffnet-train: trains a feed-forward network on a dataset and saves its weights
//
// Usage:
//
//	ffnet-train -arch="1 5 5 1" -data=square -epochs=10 -batches=1000 -lr=0.2
//	ffnet-train -arch="4 12 3" -data=csv -path=iris.data -lr=0.1 -output=iris.json
//	ffnet-train -arch="784 512 10" -data=idx -path=train-images-idx3-ubyte \
//		-labels=train-labels-idx1-ubyte -test=t10k-images-idx3-ubyte \
//		-test-labels=t10k-labels-idx1-ubyte -lr=0.1
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
	arch             = flag.String("arch", "1 5 5 1", "Layer widths, input first")
	source           = flag.String("data", utils.SourceSquare, "Data source: square, csv, idx")
	path             = flag.String("path", "", "Data file (csv) or images file (idx)")
	labelsPath       = flag.String("labels", "", "Labels file (idx)")
	testPath         = flag.String("test", "", "Test images file (idx)")
	testLabelsPath   = flag.String("test-labels", "", "Test labels file (idx)")
	labelColumn      = flag.Int("label-column", -1, "Class column of a csv file, negative counts from the end")
	limit            = flag.Int("limit", 0, "Use at most this many samples (0: all)")
	epochs           = flag.Int("epochs", 10, "Number of training epochs")
	batches          = flag.Int("batches", 1000, "Gradient steps per epoch")
	learningRate     = flag.Float64("lr", 0.2, "Learning rate")
	rateDecay        = flag.Float64("decay", 0.95, "Learning rate multiplier applied after each epoch")
	ratio            = flag.Float64("ratio", 0.9, "Fraction of the data used for training when there is no test set")
	reduce           = flag.Float64("reduce", 1, "Fraction of the training data used in each epoch")
	initialScale     = flag.Float64("init-scale", 2, "Scale of the initial weights")
	normalizeInitial = flag.Bool("normalize-initial", false, "Scale the initial weights of each neuron by 1 + fan-in")
	seed             = flag.Uint64("seed", 1, "Weight initialization seed")
	shuffleSeed      = flag.Uint64("shuffle-seed", 0, "Data shuffling seed")
	initialWeights   = flag.String("weights", "", "Start from this weights file (.json or text)")
	outputFile       = flag.String("output", "", "Output weights file (.json or text)")
	logLevel         = flag.String("log", "info", "Log level: quiet, info, debug, trace")
	showStats        = flag.Bool("stats", false, "Print timing statistics")
)

func main() {
	flag.Parse()

	layers, err := utils.ParseArchitecture(*arch)
	if err != nil {
		fail("Invalid architecture", err)
	}
	level, err := utils.ParseLevel(*logLevel)
	if err != nil {
		fail("Invalid log level", err)
	}

	cfg := &utils.Config{
		Architecture:     layers,
		Source:           *source,
		Path:             *path,
		LabelsPath:       *labelsPath,
		TestPath:         *testPath,
		TestLabelsPath:   *testLabelsPath,
		LabelColumn:      *labelColumn,
		Limit:            *limit,
		InitialScale:     *initialScale,
		NormalizeInitial: *normalizeInitial,
		Rate:             *learningRate,
		Seed:             *seed,
		Epochs:           *epochs,
		Batches:          *batches,
		RateDecay:        *rateDecay,
		Ratio:            *ratio,
		Reduce:           *reduce,
		ShuffleSeed:      *shuffleSeed,
	}
	if err := utils.ValidateConfig(cfg); err != nil {
		fail("Invalid configuration", err)
	}

	fmt.Printf("Configuration:\n")
	fmt.Printf("  Architecture:  %v\n", cfg.Architecture)
	fmt.Printf("  Data:          %s %s\n", cfg.Source, cfg.Path)
	fmt.Printf("  Epochs:        %d x %d batches\n", cfg.Epochs, cfg.Batches)
	fmt.Printf("  Learning Rate: %.4f (decay %.4f)\n", cfg.Rate, cfg.RateDecay)
	fmt.Println()

	start := time.Now()
	trainSet, testSet, err := dataset.Load(cfg)
	if err != nil {
		fail("Error loading data", err)
	}
	fmt.Printf("Loaded %d samples in %.2fs\n", len(trainSet)+len(testSet), time.Since(start).Seconds())

	net, err := nn.New(nn.Config{
		LayerSizes:         cfg.Architecture,
		Seed:               cfg.Seed,
		InitialWeightScale: cfg.InitialScale,
		Rate:               cfg.Rate,
		NormalizeInitial:   cfg.NormalizeInitial,
		NegSlope:           nn.DefaultNegSlope,
	})
	if err != nil {
		fail("Error building network", err)
	}
	if *initialWeights != "" {
		if err := utils.LoadInto(*initialWeights, net); err != nil {
			fail("Error loading weights", err)
		}
	}

	stats := &utils.TimingStats{}
	tcfg := train.Config{
		Epochs:              cfg.Epochs,
		Batches:             cfg.Batches,
		Seed:                cfg.ShuffleSeed,
		RateDecay:           cfg.RateDecay,
		ReduceTrainingRatio: cfg.Reduce,
		Log:                 utils.NewLogger(os.Stderr, level),
		Stats:               stats,
	}

	var report *train.Report
	if testSet != nil {
		report, err = train.Train(net, trainSet, testSet, tcfg)
	} else {
		testSet, report, err = train.TrainSplit(net, trainSet, cfg.Ratio, tcfg)
	}
	if err != nil {
		fail("Training failed", err)
	}

	for _, e := range report.Epochs {
		fmt.Printf("Epoch %d/%d | Error: %.6f | Accuracy: %.4f | Rate: %.5f | Time: %.2fs\n",
			e.Epoch+1, cfg.Epochs, e.Test.Error, e.Test.Accuracy, e.Rate, e.Duration.Seconds())
	}
	if last, ok := report.Last(); ok {
		fmt.Printf("\nTraining complete! %d test samples, error %.6f, accuracy %.4f\n",
			last.Test.Count, last.Test.Error, last.Test.Accuracy)
	}

	if *showStats {
		utils.PrintTimingStats(os.Stdout, stats, cfg.Epochs*cfg.Batches)
	}

	if *outputFile != "" {
		fmt.Printf("\nSaving weights to %s...\n", *outputFile)
		if err := utils.SaveFrom(*outputFile, net); err != nil {
			fail("Error saving", err)
		}
		fmt.Println("Done!")
	}
}

func fail(msg string, err error) {
	fmt.Fprintf(os.Stderr, "%s: %v\n", msg, err)
	os.Exit(1)
}
