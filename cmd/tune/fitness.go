package main

import (
	"log/slog"
	"math"
	"sync"

	"github.com/pthm-cable/fauna/config"
	"github.com/pthm-cable/fauna/sim"
	"github.com/pthm-cable/fauna/telemetry"
)

// targetSpread is the sweet spot for mean neighborhood spread: tight enough
// to read as a flock, loose enough that separation is doing its job.
const targetSpread = 4.0

// FitnessEvaluator runs headless simulations and scores a parameter vector.
type FitnessEvaluator struct {
	params   *ParamVector
	ticks    int
	seeds    []int64
	baseCfg  *config.Config
	baseFlck config.FlockingConfig

	mu          sync.Mutex
	evals       int
	bestFitness float64
	bestRaw     []float64
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, ticks int, seeds []int64, baseCfg *config.Config, baseFlck config.FlockingConfig) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		ticks:       ticks,
		seeds:       seeds,
		baseCfg:     baseCfg,
		baseFlck:    baseFlck,
		bestFitness: math.Inf(1),
	}
}

// Best returns the best raw parameter vector seen so far and its fitness.
func (fe *FitnessEvaluator) Best() ([]float64, float64) {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.bestRaw, fe.bestFitness
}

// Evals returns the number of evaluations performed.
func (fe *FitnessEvaluator) Evals() int {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.evals
}

// Evaluate computes fitness for a raw parameter vector (lower = better).
// Each seed runs an independent simulation; fitness averages the squared
// deviation of window spread from the target, plus a penalty for flocks
// that never form (zero neighbor counts).
func (fe *FitnessEvaluator) Evaluate(raw []float64) float64 {
	flck := fe.params.Apply(raw, fe.baseFlck)
	if err := flck.Validate(); err != nil {
		// Out-of-range vector after clamping means a bad base config,
		// not a bad sample; make it look maximally unattractive.
		return math.Inf(1)
	}

	total := 0.0
	for _, seed := range fe.seeds {
		cfg := *fe.baseCfg
		cfg.Population.Seed = seed

		s, err := sim.New(&cfg, flck)
		if err != nil {
			return math.Inf(1)
		}

		var windows []telemetry.WindowStats
		err = s.Run(fe.ticks, func(stats telemetry.WindowStats) error {
			windows = append(windows, stats)
			return nil
		})
		if err != nil {
			return math.Inf(1)
		}

		total += scoreRun(windows, s.MeanSpread())
	}
	fitness := total / float64(len(fe.seeds))

	fe.mu.Lock()
	fe.evals++
	if fitness < fe.bestFitness {
		fe.bestFitness = fitness
		fe.bestRaw = append([]float64(nil), raw...)
		slog.Info("new best", "eval", fe.evals, "fitness", fitness)
	}
	fe.mu.Unlock()

	return fitness
}

func scoreRun(windows []telemetry.WindowStats, finalSpread float64) float64 {
	if len(windows) == 0 {
		return (finalSpread - targetSpread) * (finalSpread - targetSpread)
	}

	score := 0.0
	for _, w := range windows {
		d := w.SpreadMean - targetSpread
		score += d * d
		if w.NeighborsMean < 1 {
			// Flock never formed this window.
			score += 25
		}
	}
	return score / float64(len(windows))
}
