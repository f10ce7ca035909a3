package game

import (
	"log/slog"

	"github.com/pthm-cable/antcolony/telemetry"
)

// recordTick numbers rec, stores it and hands it to the sink.
func (g *Game) recordTick(rec telemetry.TickRecord) {
	g.step++
	rec.Step = g.step
	g.last = rec
	g.histories.RecordTick(rec)

	if err := g.sink.RecordTick(rec); err != nil {
		slog.Warn("failed to record tick", "step", rec.Step, "error", err)
	}
}

// recordGeneration logs rec, updates histories and best-ever values and
// hands it to the sink.
func (g *Game) recordGeneration(rec telemetry.GenerationRecord) {
	g.lastGen = rec
	g.histories.RecordGeneration(rec)

	g.best.BestFitness = max(g.best.BestFitness, rec.BestFitness)
	g.best.AvgFitness = max(g.best.AvgFitness, rec.AvgFitness)
	g.best.NestBlocks = max(g.best.NestBlocks, rec.NestBlocks)

	slog.Info("generation complete",
		"generation", rec.Generation,
		"best_fitness", rec.BestFitness,
		"avg_fitness", rec.AvgFitness,
		"median_fitness", rec.MedianFitness,
		"nest_blocks", rec.NestBlocks,
		"survivors", rec.Survivors,
	)

	if err := g.sink.RecordGeneration(rec); err != nil {
		slog.Warn("failed to record generation", "generation", rec.Generation, "error", err)
	}
}

// saveSnapshot writes the current population when snapshots are enabled.
func (g *Game) saveSnapshot() {
	if g.snapshotDir == "" {
		return
	}

	snap := &telemetry.Snapshot{
		Version:    telemetry.SnapshotVersion,
		RunID:      g.runID,
		Seed:       g.cfg.Seed,
		Generation: g.generation,
		Population: g.population,
	}
	path, err := telemetry.SaveSnapshot(snap, g.snapshotDir)
	if err != nil {
		slog.Error("failed to save snapshot", "error", err)
		return
	}
	slog.Debug("snapshot saved", "path", path, "generation", g.generation)
}

// flushPerf logs and writes the perf window summary.
func (g *Game) flushPerf() {
	stats := g.perf.Stats()
	if g.logStats {
		stats.LogStats()
	}
	if g.output != nil {
		if err := g.output.WritePerf(stats, g.step); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}
}
