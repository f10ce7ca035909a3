package main

import (
	"context"
	"math"
	"sync"

	"github.com/pthm-cable/antcolony/config"
	"github.com/pthm-cable/antcolony/game"
	"github.com/pthm-cable/antcolony/telemetry"
)

// tailGenerations is how many final generations are averaged into a
// seed's score.
const tailGenerations = 3

// FitnessEvaluator runs headless colonies and scores parameter vectors.
type FitnessEvaluator struct {
	params      *ParamVector
	generations int
	seeds       []int64
	baseConfig  *config.Config

	// Best run tracking
	mu             sync.Mutex
	bestFitness    float64
	bestHallOfFame *telemetry.HallOfFame
	lastNest       float64 // mean final nest blocks from the most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, generations int, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		generations: max(1, generations),
		seeds:       seeds,
		baseConfig:  baseCfg,
		bestFitness: math.Inf(1),
	}
}

// BestHallOfFame returns the hall of fame from the best evaluation.
func (fe *FitnessEvaluator) BestHallOfFame() *telemetry.HallOfFame {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.bestHallOfFame
}

// LastNest returns the mean nest block count from the most recent evaluation.
func (fe *FitnessEvaluator) LastNest() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastNest
}

// seedResult holds the result from one seed evaluation.
type seedResult struct {
	score      float64 // Mean best worker fitness over the tail generations
	nest       float64
	hallOfFame *telemetry.HallOfFame
}

// Evaluate computes fitness for a parameter vector (lower = better):
// the negated mean over seeds of each run's late best worker fitness.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	results := make([]seedResult, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			results[idx] = fe.runSimulation(x, s)
		}(i, seed)
	}
	wg.Wait()

	var totalScore, totalNest float64
	bestSeed := math.Inf(-1)
	var bestSeedHallOfFame *telemetry.HallOfFame
	for _, r := range results {
		totalScore += r.score
		totalNest += r.nest
		if r.score > bestSeed {
			bestSeed = r.score
			bestSeedHallOfFame = r.hallOfFame
		}
	}

	n := float64(len(fe.seeds))
	fitness := -totalScore / n

	fe.mu.Lock()
	if fitness < fe.bestFitness {
		fe.bestFitness = fitness
		fe.bestHallOfFame = bestSeedHallOfFame
	}
	fe.lastNest = totalNest / n
	fe.mu.Unlock()

	return fitness
}

// runSimulation evolves one colony for the configured number of generations.
func (fe *FitnessEvaluator) runSimulation(x []float64, seed int64) seedResult {
	cfg := fe.baseConfig.Clone()
	cfg.Seed = seed
	fe.params.ApplyToConfig(cfg, x)

	g := game.NewGame(cfg, game.NewWorld(cfg), nil, game.Options{})
	defer g.Close()

	// Bounded by the generation count; nothing cancels it.
	_ = g.RunHeadless(context.Background(), fe.generations)

	best := g.Histories().GenBestFitness.Values()
	nest := g.Histories().GenNestBlocks.Values()
	return seedResult{
		score:      tailMean(best, tailGenerations),
		nest:       tailMean(nest, tailGenerations),
		hallOfFame: g.HallOfFame(),
	}
}

// tailMean averages the last n values.
func tailMean(values []float64, n int) float64 {
	if len(values) > n {
		values = values[len(values)-n:]
	}
	return telemetry.Mean(values)
}
