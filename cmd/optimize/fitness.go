package main

import (
	"math"
	"slices"
	"sync"

	"github.com/pthm-cable/meadow/config"
	"github.com/pthm-cable/meadow/game"
	"github.com/pthm-cable/meadow/telemetry"
)

// FitnessEvaluator runs simulations and computes fitness.
type FitnessEvaluator struct {
	params      *ParamVector
	maxTicks    int
	seeds       []int64
	baseConfig  *config.Config
	statsWindow int

	mu          sync.Mutex
	lastQuality float64 // quality from most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		maxTicks:    maxTicks,
		seeds:       seeds,
		baseConfig:  baseCfg,
		statsWindow: baseCfg.Telemetry.StatsWindow,
	}
}

// LastQuality returns the quality score from the most recent evaluation.
func (fe *FitnessEvaluator) LastQuality() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastQuality
}

// A species below minViablePop for extinctionGraceTicks consecutive ticks
// counts as functionally extinct.
const (
	minViablePop         = 3
	extinctionGraceTicks = 240
	warmupTicks          = 48
)

// runResult holds the results from a single simulation run.
type runResult struct {
	survivalTicks int                     // ticks before functional extinction (or maxTicks if survived)
	windowStats   []telemetry.WindowStats // collected via StatsCallback each window
}

// Evaluate computes fitness for a parameter vector (lower = better).
// Fitness is negative survival ticks: longer survival = lower (better) fitness.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	cfg, err := fe.configFor(x)
	if err != nil {
		return 0
	}

	// Run all seeds in parallel; each simulator owns its state
	fitness := make([]float64, len(fe.seeds))
	quality := make([]float64, len(fe.seeds))
	var wg sync.WaitGroup
	for i, seed := range fe.seeds {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result := fe.runSimulation(cfg, seed)
			quality[i] = computeQuality(result.windowStats, cfg.Derived.Catalog.Len())
			fitness[i] = computeFitness(result.survivalTicks, quality[i])
		}()
	}
	wg.Wait()

	n := float64(len(fe.seeds))
	var totalFitness, totalQuality float64
	for i := range fe.seeds {
		totalFitness += fitness[i]
		totalQuality += quality[i]
	}

	fe.mu.Lock()
	fe.lastQuality = totalQuality / n
	fe.mu.Unlock()

	return totalFitness / n
}

// configFor copies the base config with x applied.
func (fe *FitnessEvaluator) configFor(x []float64) (*config.Config, error) {
	cfg := *fe.baseConfig
	cfg.Population = slices.Clone(fe.baseConfig.Population)
	if err := fe.params.ApplyToConfig(&cfg, x); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// runSimulation executes a single run until functional extinction or
// maxTicks, whichever comes first.
func (fe *FitnessEvaluator) runSimulation(cfg *config.Config, seed int64) *runResult {
	result := &runResult{survivalTicks: fe.maxTicks}

	opts := game.OptionsFromConfig(cfg)
	opts.Seed = seed
	opts.Config = nil
	opts.StatsWindow = fe.statsWindow
	opts.StatsCallback = func(stats telemetry.WindowStats, _ []telemetry.SpeciesStats) {
		result.windowStats = append(result.windowStats, stats)
	}

	sim, err := game.New(opts)
	if err != nil {
		result.survivalTicks = 0
		return result
	}
	defer sim.Close()

	below := make([]int, cfg.Derived.Catalog.Len())
	for sim.Tick() < fe.maxTicks {
		snap := sim.Step()
		if snap.Tick < warmupTicks {
			continue
		}
		for id, n := range snap.Census.Counts {
			// Hard extinction: a species is completely gone
			if n == 0 {
				result.survivalTicks = snap.Tick
				return result
			}
			if n < minViablePop {
				below[id]++
			} else {
				below[id] = 0
			}
			if below[id] >= extinctionGraceTicks {
				result.survivalTicks = snap.Tick
				return result
			}
		}
	}
	return result
}

// computeFitness calculates the scalar fitness (lower = better).
// Formula: -(survivalTicks × (1.0 + 0.2 × quality))
func computeFitness(survivalTicks int, quality float64) float64 {
	return -(float64(survivalTicks) * (1.0 + 0.2*quality))
}

// Quality component weights.
const (
	qualityWeightStability = 0.5
	qualityWeightDiversity = 0.5

	qualityWarmupWindows = 3 // skip first N windows (warmup)
)

// computeQuality scores ecosystem quality in [0, 1] from window stats:
// stable animal counts and many species alive.
func computeQuality(windows []telemetry.WindowStats, numSpecies int) float64 {
	if len(windows) <= qualityWarmupWindows || numSpecies == 0 {
		return 0
	}
	valid := windows[qualityWarmupWindows:]

	counts := make([]float64, 0, len(valid))
	var diversity float64
	for _, w := range valid {
		counts = append(counts, float64(w.Animals))
		diversity += float64(w.SpeciesAlive) / float64(numSpecies)
	}
	diversity /= float64(len(valid))

	cv := telemetry.CoefficientOfVariation(counts)
	stability := math.Exp(-cv * cv)

	return clamp01(qualityWeightStability*stability + qualityWeightDiversity*diversity)
}

// clamp01 clamps x to [0, 1].
func clamp01(x float64) float64 {
	return min(max(x, 0), 1)
}
