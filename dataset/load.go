package dataset

import (
	"github.com/pkg/errors"

	"ffnet/nn"
	"ffnet/utils"
)

// Load reads the samples named by cfg. testSet is nil unless the source provides a
// separate test set, in which case the caller is expected to split trainSet itself.
func Load(cfg *utils.Config) (trainSet, testSet []nn.Sample, err error) {
	switch cfg.Source {
	case utils.SourceSquare:
		trainSet = SampleFunction(-1, 1, 0.1, Square)

	case utils.SourceCSV:
		rows, err := ReadCSVFile(cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		trainSet, _, err = TableSamples(rows, cfg.LabelColumn)
		if err != nil {
			return nil, nil, errors.Wrap(err, cfg.Path)
		}
		NormalizeInputs(trainSet)

	case utils.SourceIDX:
		trainSet, err = LoadIDX(cfg.Path, cfg.LabelsPath, cfg.Limit)
		if err != nil {
			return nil, nil, err
		}
		if cfg.TestPath != "" {
			testSet, err = LoadIDX(cfg.TestPath, cfg.TestLabelsPath, cfg.Limit)
			if err != nil {
				return nil, nil, err
			}
		}

	default:
		return nil, nil, errors.Errorf("unknown data source %q", cfg.Source)
	}

	if cfg.Limit > 0 && len(trainSet) > cfg.Limit {
		trainSet = trainSet[:cfg.Limit]
	}
	return trainSet, testSet, nil
}
