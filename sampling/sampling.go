// Package sampling draws samples from probabilistic models: posterior samples
// through an adaptive random-walk Metropolis sampler, and prior/posterior
// predictive samples.
//
// Sampling evaluates the model against the current contents of its data
// containers, so the usual out-of-sample workflow is: sample the posterior,
// replace the containers with SetData, then draw posterior predictive samples
// for the new inputs.
package sampling

import (
	"time"

	"github.com/google/uuid"
	"github.com/spiyer99/pymc3/types/tensors"
	"golang.org/x/exp/rand"
)

// InferenceData holds the result of the sampling functions. Variable names are
// full names, prefixed with the model name.
type InferenceData struct {
	// RunID identifies the sampling run.
	RunID string

	// Posterior maps free variable names to tensors shaped
	// (chains, draws, sample dimensions...). Filled by Sample.
	Posterior map[string]*tensors.Tensor

	// PriorPredictive maps variable names to tensors shaped
	// (samples, sample dimensions...). Filled by SamplePriorPredictive.
	PriorPredictive map[string]*tensors.Tensor

	// PosteriorPredictive maps observed variable names to tensors shaped
	// (samples, sample dimensions...). Filled by SamplePosteriorPredictive.
	PosteriorPredictive map[string]*tensors.Tensor

	// Chains and Draws record the posterior sampling configuration.
	Chains, Draws int

	// AcceptRate is the mean acceptance rate of the Metropolis sampler per
	// chain, measured after tuning.
	AcceptRate []float64

	// SamplingTime is the wall-clock duration of the run.
	SamplingTime time.Duration
}

func newInferenceData() *InferenceData {
	return &InferenceData{RunID: uuid.NewString()}
}

// samplerConfig collects the options of the sampling functions.
type samplerConfig struct {
	tune        int
	chains      int
	seed        uint64
	progressBar bool
	varNames    []string
}

// Option configures the sampling functions.
type Option func(c *samplerConfig)

// WithTune sets the number of tuning (warm-up) iterations per chain, discarded
// from the posterior. Defaults to 1000.
func WithTune(iterations int) Option {
	return func(c *samplerConfig) { c.tune = iterations }
}

// WithChains sets the number of independent chains. Defaults to 2.
func WithChains(chains int) Option {
	return func(c *samplerConfig) { c.chains = chains }
}

// WithSeed fixes the random number generator seed, for reproducible runs.
func WithSeed(seed uint64) Option {
	return func(c *samplerConfig) { c.seed = seed }
}

// WithProgressBar enables a terminal progress bar during sampling.
func WithProgressBar() Option {
	return func(c *samplerConfig) { c.progressBar = true }
}

// WithVarNames restricts the predictive sampling functions to the given full
// variable names. Defaults to all variables.
func WithVarNames(names ...string) Option {
	return func(c *samplerConfig) { c.varNames = names }
}

// wantVar returns whether the variable is selected by WithVarNames.
func (c *samplerConfig) wantVar(name string) bool {
	if len(c.varNames) == 0 {
		return true
	}
	for _, want := range c.varNames {
		if want == name {
			return true
		}
	}
	return false
}

func newConfig(opts []Option) *samplerConfig {
	c := &samplerConfig{
		tune:   1000,
		chains: 2,
		seed:   uint64(time.Now().UnixNano()),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// rng returns a generator for the given chain, deterministically derived from
// the seed.
func (c *samplerConfig) rng(chain int) *rand.Rand {
	return rand.New(rand.NewSource(c.seed + uint64(chain)*0x9e3779b97f4a7c15))
}
