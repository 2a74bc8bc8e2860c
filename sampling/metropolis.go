package sampling

import (
	"math"
	"time"

	"github.com/pkg/errors"
	"github.com/schollz/progressbar/v3"
	"github.com/spiyer99/pymc3/model"
	"github.com/spiyer99/pymc3/types/shapes"
	"github.com/spiyer99/pymc3/types/tensors"
	"k8s.io/klog/v2"
)

// targetAcceptRate is the acceptance rate the per-coordinate proposal scales
// are adapted toward during tuning, the usual optimum for component-wise
// random-walk Metropolis.
const targetAcceptRate = 0.44

// adaptInterval is the number of tuning iterations between scale adjustments.
const adaptInterval = 25

// Sample draws posterior samples from the model's free variables with a
// component-wise random-walk Metropolis sampler. Each coordinate gets its own
// proposal scale, adapted during the tuning phase (see WithTune) and then
// frozen.
//
// The returned InferenceData holds one posterior tensor per free variable,
// shaped (chains, draws, sample dimensions...).
func Sample(m *model.Model, draws int, opts ...Option) (*InferenceData, error) {
	cfg := newConfig(opts)
	freeRVs := m.FreeRVs()
	if len(freeRVs) == 0 {
		return nil, errors.New("the model has no free variables to sample")
	}
	if draws <= 0 {
		return nil, errors.Errorf("draws must be positive, got %d", draws)
	}

	start := time.Now()
	idata := newInferenceData()
	idata.Chains, idata.Draws = cfg.chains, draws
	idata.Posterior = make(map[string]*tensors.Tensor, len(freeRVs))
	idata.AcceptRate = make([]float64, cfg.chains)

	// The sample dimensions of the free variables are fixed for the whole run:
	// mutating data containers mid-run is not supported.
	initial := m.InitialPoint()
	rvDims := make([][]int, len(freeRVs))
	rvSizes := make([]int, len(freeRVs))
	for ii, rv := range freeRVs {
		rvDims[ii] = rv.SampleDimensions(initial)
		rvSizes[ii] = sizeOf(rvDims[ii])
	}

	// chainDraws[chain][rv] is the flat concatenation of the chain's draws.
	chainDraws := make([][][]float64, cfg.chains)

	var bar *progressbar.ProgressBar
	if cfg.progressBar {
		bar = progressbar.NewOptions(cfg.chains*(cfg.tune+draws),
			progressbar.OptionSetDescription("sampling"),
			progressbar.OptionClearOnFinish())
	}

	klog.V(1).Infof("sampling %d chains of %d draws (%d tuning) from %d free variables",
		cfg.chains, draws, cfg.tune, len(freeRVs))

	for chain := 0; chain < cfg.chains; chain++ {
		rng := cfg.rng(chain)
		point := m.InitialPoint()

		// flat[rv] aliases the mutable storage of point[rv.Name()].
		flat := make([][]float64, len(freeRVs))
		scales := make([][]float64, len(freeRVs))
		windowAccepts := make([][]int, len(freeRVs))
		for ii, rv := range freeRVs {
			tensors.MutableFlatData[float64](point[rv.Name()], func(data []float64) {
				flat[ii] = data
			})
			scales[ii] = make([]float64, rvSizes[ii])
			for jj := range scales[ii] {
				scales[ii][jj] = 1.0
			}
			windowAccepts[ii] = make([]int, rvSizes[ii])
		}

		chainDraws[chain] = make([][]float64, len(freeRVs))
		for ii := range freeRVs {
			chainDraws[chain][ii] = make([]float64, 0, draws*rvSizes[ii])
		}

		logP := m.LogP(point)
		var accepted, proposed int
		for iter := 0; iter < cfg.tune+draws; iter++ {
			tuning := iter < cfg.tune
			for ii := range freeRVs {
				for jj := range flat[ii] {
					old := flat[ii][jj]
					flat[ii][jj] = old + scales[ii][jj]*rng.NormFloat64()
					newLogP := m.LogP(point)
					if math.Log(rng.Float64()) < newLogP-logP {
						logP = newLogP
						if tuning {
							windowAccepts[ii][jj]++
						} else {
							accepted++
						}
					} else {
						flat[ii][jj] = old
					}
					if !tuning {
						proposed++
					}
				}
			}

			if tuning && (iter+1)%adaptInterval == 0 {
				for ii := range freeRVs {
					for jj := range scales[ii] {
						rate := float64(windowAccepts[ii][jj]) / adaptInterval
						scales[ii][jj] *= math.Exp(rate - targetAcceptRate)
						windowAccepts[ii][jj] = 0
					}
				}
			}
			if !tuning {
				for ii := range freeRVs {
					chainDraws[chain][ii] = append(chainDraws[chain][ii], flat[ii]...)
				}
			}
			if bar != nil {
				_ = bar.Add(1)
			}
		}
		idata.AcceptRate[chain] = float64(accepted) / float64(proposed)
		klog.V(2).Infof("chain %d: acceptance rate %.3f", chain, idata.AcceptRate[chain])
	}

	for ii, rv := range freeRVs {
		data := make([]float64, 0, cfg.chains*draws*rvSizes[ii])
		for chain := 0; chain < cfg.chains; chain++ {
			data = append(data, chainDraws[chain][ii]...)
		}
		dims := append([]int{cfg.chains, draws}, rvDims[ii]...)
		idata.Posterior[rv.Name()] = tensors.FromFloat64AndDimensions(data, shapes.Float64, dims...)
	}

	idata.SamplingTime = time.Since(start)
	klog.V(1).Infof("sampling finished in %s", idata.SamplingTime)
	return idata, nil
}

func sizeOf(dims []int) int {
	size := 1
	for _, dim := range dims {
		size *= dim
	}
	return size
}
