package utils

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Dataset sources understood by the command line tools.
const (
	SourceCSV    = "csv"
	SourceIDX    = "idx"
	SourceSquare = "square"
)

// Config holds training configuration
type Config struct {
	Architecture []int

	// dataset
	Source         string
	Path           string
	LabelsPath     string
	TestPath       string
	TestLabelsPath string
	Limit          int

	// column of a csv file holding the class; negative values count from the end
	LabelColumn int

	// network
	InitialScale     float64
	NormalizeInitial bool
	Rate             float64
	Seed             uint64

	// scheduler
	Epochs      int
	Batches     int
	RateDecay   float64
	Ratio       float64
	Reduce      float64
	ShuffleSeed uint64
}

// ParseArchitecture parses architecture string into slice of integers.
// Widths may be separated by spaces or commas.
func ParseArchitecture(archStr string) ([]int, error) {
	archParts := strings.FieldsFunc(archStr, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	arch := make([]int, len(archParts))
	for i, s := range archParts {
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, errors.Wrapf(err, "layer %d", i)
		}
		arch[i] = n
	}
	return arch, nil
}

// ValidateConfig validates training configuration
func ValidateConfig(config *Config) error {
	if len(config.Architecture) < 2 {
		return errors.New("architecture must have at least 2 layers (input and output)")
	}
	for i, w := range config.Architecture {
		if w <= 0 {
			return errors.Errorf("layer %d must have a positive width, got %d", i, w)
		}
	}

	switch config.Source {
	case SourceSquare:
	case SourceCSV:
		if config.Path == "" {
			return errors.New("csv source needs a data path")
		}
	case SourceIDX:
		if config.Path == "" || config.LabelsPath == "" {
			return errors.New("idx source needs image and label paths")
		}
		if (config.TestPath == "") != (config.TestLabelsPath == "") {
			return errors.New("idx test set needs both image and label paths")
		}
	default:
		return errors.Errorf("unknown data source %q", config.Source)
	}

	if config.Epochs < 0 || config.Batches < 0 {
		return errors.New("epochs and batches must not be negative")
	}
	if config.Rate <= 0 {
		return errors.New("learning rate must be positive")
	}
	if config.RateDecay <= 0 {
		return errors.New("rate decay must be positive")
	}
	if config.Ratio <= 0 || config.Ratio > 1 {
		return errors.New("training ratio must be in (0, 1]")
	}
	if config.Reduce <= 0 || config.Reduce > 1 {
		return errors.New("reduce ratio must be in (0, 1]")
	}
	if config.Limit < 0 {
		return errors.New("limit must not be negative")
	}
	return nil
}
