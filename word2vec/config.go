package word2vec

import (
	"math"
	"runtime"
)

// Defaults from the word2vec tool for CBOW training.
const (
	DefaultDim             = 100
	DefaultWindow          = 5
	DefaultNegative        = 5
	DefaultRate            = 0.05
	DefaultMinRateFraction = 1e-4
	DefaultSample          = 1e-3
	DefaultEpochs          = 5
)

// Config holds the settings of a training session.
//
// Settings are validated once, when a Kernel or Trainer is
// created, never per sample.
type Config struct {
	// Dim is the embedding dimension.
	Dim int

	// Hierarchical enables the hierarchical softmax
	// strategy, which requires a Tree and a Syn1 table.
	Hierarchical bool

	// Negative is the number of negative samples per
	// target. Zero disables negative sampling.
	Negative int

	// Collisions decides how negative draws equal to the
	// target are treated.
	Collisions CollisionPolicy

	// Window is the maximum number of context words taken
	// on each side of the target.
	Window int

	// Sample is the subsampling threshold. Zero disables
	// subsampling.
	Sample float64

	// Rate is the starting learning rate.
	Rate float64

	// MinRateFraction is the fraction of Rate below which
	// the decayed rate never goes.
	MinRateFraction float64

	// Epochs is the number of passes over the corpus.
	Epochs int

	// Workers is the number of training goroutines.
	Workers int

	// Atomic selects per-float atomic additions instead of
	// lock-free Hogwild updates.
	Atomic bool

	// Seed seeds the per-worker random sources.
	Seed int64

	// TableSize and Power configure the negative sampling
	// table. Zero values select the package defaults.
	TableSize int
	Power     float64
}

// DefaultConfig returns the word2vec defaults for CBOW
// with negative sampling.
func DefaultConfig() Config {
	return Config{
		Dim:             DefaultDim,
		Negative:        DefaultNegative,
		Window:          DefaultWindow,
		Sample:          DefaultSample,
		Rate:            DefaultRate,
		MinRateFraction: DefaultMinRateFraction,
		Epochs:          DefaultEpochs,
		Workers:         runtime.GOMAXPROCS(0),
		Seed:            1,
	}
}

// Validate checks the settings used by a Kernel.
func (c *Config) Validate() error {
	if c.Dim <= 0 {
		return newError(InvalidConfiguration, "dimension must be positive, got %d", c.Dim)
	}
	if c.Negative < 0 {
		return newError(InvalidConfiguration, "negative sample count is %d", c.Negative)
	}
	if !c.Hierarchical && c.Negative == 0 {
		return newError(InvalidConfiguration,
			"neither hierarchical softmax nor negative sampling is enabled")
	}
	switch c.Collisions {
	case SkipCollisions, RedrawCollisions, AcceptCollisions:
	default:
		return newError(InvalidConfiguration, "unknown collision policy %d", c.Collisions)
	}
	if c.Rate < 0 || math.IsNaN(c.Rate) || math.IsInf(c.Rate, 0) {
		return newError(InvalidConfiguration, "bad learning rate %v", c.Rate)
	}
	if c.MinRateFraction < 0 || c.MinRateFraction > 1 {
		return newError(InvalidConfiguration, "bad minimum rate fraction %v", c.MinRateFraction)
	}
	if c.Sample < 0 || math.IsNaN(c.Sample) {
		return newError(InvalidConfiguration, "bad subsampling threshold %v", c.Sample)
	}
	if c.TableSize < 0 {
		return newError(InvalidConfiguration, "negative table size %d", c.TableSize)
	}
	return nil
}

// validateTraining checks the settings used by a Trainer
// on top of those checked by Validate.
func (c *Config) validateTraining() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Window <= 0 {
		return newError(InvalidConfiguration, "window must be positive, got %d", c.Window)
	}
	if c.Epochs <= 0 {
		return newError(InvalidConfiguration, "epochs must be positive, got %d", c.Epochs)
	}
	if c.Workers <= 0 {
		return newError(InvalidConfiguration, "workers must be positive, got %d", c.Workers)
	}
	return nil
}
