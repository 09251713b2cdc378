// Package train runs gradient descent on an nn.Network over a set of samples and
// reports how the network performs on a test set after every epoch.
package train

import (
	"math"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/exp/rand"

	"ffnet/nn"
	"ffnet/utils"
)

// Config controls a training run.
type Config struct {
	Epochs int

	// Batches is the number of gradient steps per epoch. Every step is computed from
	// the whole training subset of the epoch.
	Batches int

	// Seed drives the shuffling of the training data. It is independent of the seed
	// used to initialize the network.
	Seed uint64

	// RateDecay multiplies the learning rate at the end of every epoch.
	RateDecay float64

	// ReduceTrainingRatio selects the fraction of the training data used in each
	// epoch. Below 1 the data is reshuffled before every epoch.
	ReduceTrainingRatio float64

	// optional
	Log   *utils.Logger
	Stats *utils.TimingStats
}

// DefaultConfig returns a Config running one step per epoch over all the data.
func DefaultConfig() Config {
	return Config{
		Epochs:              10,
		Batches:             1,
		RateDecay:           1,
		ReduceTrainingRatio: 1,
	}
}

// Validate reports whether the Config can drive a training run.
func (c Config) Validate() error {
	switch {
	case c.Epochs < 0:
		return errors.Wrapf(nn.ErrInvalidConfig, "epochs = %d", c.Epochs)
	case c.Batches < 0:
		return errors.Wrapf(nn.ErrInvalidConfig, "batches = %d", c.Batches)
	case c.RateDecay <= 0:
		return errors.Wrapf(nn.ErrInvalidConfig, "rate decay = %v", c.RateDecay)
	case c.ReduceTrainingRatio <= 0 || c.ReduceTrainingRatio > 1:
		return errors.Wrapf(nn.ErrInvalidConfig, "reduce training ratio = %v, expected (0, 1]", c.ReduceTrainingRatio)
	}
	return nil
}

// EpochResult describes one finished epoch.
type EpochResult struct {
	Epoch int
	// learning rate after the decay at the end of the epoch
	Rate     float64
	Test     Result
	Duration time.Duration
}

// Report collects the results of every finished epoch of a run.
type Report struct {
	Epochs []EpochResult
}

// Last returns the result of the last finished epoch.
func (r *Report) Last() (EpochResult, bool) {
	if r == nil || len(r.Epochs) == 0 {
		return EpochResult{}, false
	}
	return r.Epochs[len(r.Epochs)-1], true
}

// Train trains net on trainSet for cfg.Epochs epochs and evaluates it on testSet after
// each one.
//
// Every epoch takes the first round(len(trainSet)*ReduceTrainingRatio) samples of the
// training data, reshuffled beforehand unless that is all of it, and performs
// cfg.Batches gradient steps on them. The learning rate then decays.
//
// trainSet itself is never reordered. On error the Report holds the epochs finished
// before the failure.
func Train(net *nn.Network, trainSet, testSet []nn.Sample, cfg Config) (*Report, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := checkSamples(net, "training", trainSet); err != nil {
		return nil, err
	}
	if err := checkSamples(net, "test", testSet); err != nil {
		return nil, err
	}

	log := cfg.Log
	samples := append([]nn.Sample(nil), trainSet...)
	shuffler := rand.New(rand.NewSource(cfg.Seed))
	maxIdx := int(math.Round(float64(len(samples)) * cfg.ReduceTrainingRatio))

	report := &Report{}
	start := time.Now()
	defer func() {
		if cfg.Stats != nil {
			cfg.Stats.Total += time.Since(start)
		}
	}()

	for epoch := 0; epoch < cfg.Epochs; epoch++ {
		epochStart := time.Now()
		if maxIdx != len(samples) {
			shuffler.Shuffle(len(samples), func(i, j int) {
				samples[i], samples[j] = samples[j], samples[i]
			})
		}
		subset := samples[:maxIdx]

		log.Infof("batches:%d", cfg.Batches)
		for batch := 0; batch < cfg.Batches; batch++ {
			log.Progress()
			if err := step(net, subset, cfg); err != nil {
				return report, errors.Wrapf(err, "epoch %d, batch %d", epoch, batch)
			}
			if log.Enabled(utils.Debug) {
				ws, bs := utils.LayerStats(net.Snapshot())
				for l := range ws {
					log.Debugf("ws[%d] stats: %v", l, ws[l])
					log.Debugf("bs[%d] stats: %v", l, bs[l])
				}
			}
		}

		net.SetRate(net.Rate() * cfg.RateDecay)
		log.Infof("learning rate changed to %v", net.Rate())

		evalStart := time.Now()
		res, err := evaluate(net, testSet, log)
		if err != nil {
			return report, errors.Wrapf(err, "epoch %d", epoch)
		}
		if cfg.Stats != nil {
			cfg.Stats.Evaluate += time.Since(evalStart)
		}
		log.Infof("%v", res)

		d := time.Since(epochStart)
		log.Infof("epoch %d done in %v", epoch, d)
		report.Epochs = append(report.Epochs, EpochResult{
			Epoch:    epoch,
			Rate:     net.Rate(),
			Test:     res,
			Duration: d,
		})
	}
	return report, nil
}

// step accumulates the gradients of every sample in subset and applies their average.
func step(net *nn.Network, subset []nn.Sample, cfg Config) error {
	t0 := time.Now()
	for _, s := range subset {
		if cfg.Log.Enabled(utils.Trace) {
			cfg.Log.Tracef("sample:%v", s)
		}
		if err := net.Backward(s.Input, s.Expected); err != nil {
			return err
		}
	}
	t1 := time.Now()
	if err := net.Apply(); err != nil {
		return err
	}
	if cfg.Stats != nil {
		cfg.Stats.Backward += t1.Sub(t0)
		cfg.Stats.Update += time.Since(t1)
	}
	net.ResetGradients()
	return nil
}

// TrainSplit shuffles a copy of data with cfg.Seed, trains on the first
// int(trainingRatio*len(data)) samples and tests on the rest, which it returns.
func TrainSplit(net *nn.Network, data []nn.Sample, trainingRatio float64, cfg Config) ([]nn.Sample, *Report, error) {
	if trainingRatio <= 0 || trainingRatio > 1 {
		return nil, nil, errors.Wrapf(nn.ErrInvalidConfig, "training ratio = %v, expected (0, 1]", trainingRatio)
	}
	shuffled := append([]nn.Sample(nil), data...)
	rand.New(rand.NewSource(cfg.Seed)).Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	split := int(trainingRatio * float64(len(shuffled)))
	testSet := shuffled[split:]
	report, err := Train(net, shuffled[:split], testSet, cfg)
	return testSet, report, err
}

func checkSamples(net *nn.Network, set string, samples []nn.Sample) error {
	for i, s := range samples {
		if !s.Fits(net) {
			return errors.Wrapf(nn.ErrShapeMismatch, "%s sample %d has %d inputs and %d outputs, network has %d and %d",
				set, i, len(s.Input), len(s.Expected), net.InputSize(), net.OutputSize())
		}
	}
	return nil
}
