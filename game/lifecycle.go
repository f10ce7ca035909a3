package game

import (
	"context"
	"log/slog"
	"sort"

	"github.com/pthm-cable/antcolony/components"
	"github.com/pthm-cable/antcolony/genome"
	"github.com/pthm-cable/antcolony/telemetry"
)

// Update advances the clock by dt seconds: whole ticks run while the
// accumulator allows, and the generation ends once its timer runs out.
func (g *Game) Update(dt float64) {
	g.timer -= dt
	g.acc += dt

	interval := g.cfg.Timing.TickInterval
	for g.acc >= interval {
		g.Step()
		g.acc -= interval
	}

	if g.timer <= 0 {
		g.EndGeneration()
	}
}

// RunHeadless drives Update one tick interval at a time until
// maxGenerations more generation ends have been processed, or until ctx
// is done. maxGenerations <= 0 runs until cancellation. The context is
// only checked between ticks.
func (g *Game) RunHeadless(ctx context.Context, maxGenerations int) error {
	target := g.boundaries + maxGenerations
	for maxGenerations <= 0 || g.boundaries < target {
		if err := ctx.Err(); err != nil {
			return err
		}
		g.Update(g.cfg.Timing.TickInterval)
	}
	return nil
}

// rankedWorker is a surviving worker at generation end.
type rankedWorker struct {
	id      uint32
	fitness float64
	mulch   int
	genome  *genome.Genome
}

// rankWorkers returns the live workers sorted by fitness, best first.
// Ties keep spawn order.
func (g *Game) rankWorkers() []rankedWorker {
	workers := make([]rankedWorker, 0, len(g.live))
	for _, e := range g.live {
		ant := g.ants.Ant.Get(e)
		if ant.IsQueen() {
			continue
		}
		workers = append(workers, rankedWorker{
			id:      ant.ID,
			fitness: ant.Fitness,
			mulch:   ant.MulchConsumed,
			genome:  g.ants.Genome.Get(e).G,
		})
	}
	sort.SliceStable(workers, func(i, j int) bool {
		return workers[i].fitness > workers[j].fitness
	})
	return workers
}

// EndGeneration ranks the surviving workers, breeds the next population and
// respawns the colony. With no surviving workers the population is
// re-randomized and the generation number stays the same.
func (g *Game) EndGeneration() {
	g.boundaries++

	workers := g.rankWorkers()
	if len(workers) == 0 {
		slog.Info("no surviving workers, population re-randomized",
			"generation", g.generation,
			"workers", g.cfg.Colony.WorkerCount,
		)
		g.population = randomPopulation(g.rng, g.cfg.Colony.WorkerCount)
		g.SpawnGeneration()
		return
	}

	fitness := make([]float64, len(workers))
	ranked := make([]*genome.Genome, len(workers))
	for i, w := range workers {
		fitness[i] = w.fitness
		ranked[i] = w.genome
	}
	summary := telemetry.SummarizeFitness(fitness)

	rec := telemetry.GenerationRecord{
		Generation:    g.generation,
		BestFitness:   workers[0].fitness,
		AvgFitness:    summary.Mean,
		NestBlocks:    g.world.NestCount(),
		MedianFitness: summary.Median,
		StdFitness:    summary.Std,
		Survivors:     len(workers),
	}
	g.recordGeneration(rec)

	for _, w := range workers {
		if !g.hallOfFame.Consider(telemetry.HallEntry{
			Generation:    g.generation,
			AntID:         w.id,
			Fitness:       w.fitness,
			MulchConsumed: w.mulch,
			Genome:        w.genome,
		}) {
			// Workers are ranked, so nobody further down qualifies either.
			break
		}
	}

	g.population = Evolve(g.rng, ranked, EvolveParams{
		Size:      g.cfg.Colony.WorkerCount,
		Elite:     g.cfg.Derived.EliteCount,
		Rate:      g.cfg.Evolution.MutationRate,
		Magnitude: g.cfg.Evolution.MutationMagnitude,
	})
	g.generation++
	g.saveSnapshot()

	g.SpawnGeneration()
}

// SpawnGeneration clears the colony, regenerates the world, resets the
// pheromone field and the generation clock, then spawns the queen followed
// by one worker per population genome.
func (g *Game) SpawnGeneration() {
	g.clearAnts()
	g.world.Regenerate()
	g.field.Reset()
	g.timer = g.cfg.Timing.EvaluationDuration
	g.acc = 0

	var queenGenome *genome.Genome
	if len(g.population) > 0 {
		queenGenome = g.population[0]
	} else {
		queenGenome = genome.Random(g.rng)
	}
	g.queen = g.spawnAnt(queenGenome, components.Queen)
	g.hasQueen = true

	for _, gn := range g.population {
		g.spawnAnt(gn, components.Worker)
	}
}
