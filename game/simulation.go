package game

import (
	"log/slog"

	"github.com/pthm-cable/antcolony/systems"
	"github.com/pthm-cable/antcolony/telemetry"
)

// Step runs exactly one tick and returns its aggregate record.
func (g *Game) Step() telemetry.TickRecord {
	g.startTick()

	// Snapshot used for the consume exclusivity check.
	g.phase(telemetry.PhaseOccupancy)
	systems.BuildOccupancy(g.occupancy, g.live, g.ants.Pos)

	g.phase(telemetry.PhaseAgents)
	g.updateAgents()

	g.phase(telemetry.PhaseSharing)
	systems.BuildOccupancy(g.occupancy, g.live, g.ants.Pos)
	systems.ShareHealth(g.occupancy, g.ants.Health, g.cfg.Colony.HealthShareAmount)

	g.phase(telemetry.PhaseStats)
	rec := g.aggregate()

	g.phase(telemetry.PhaseTelemetry)
	g.recordTick(rec)

	g.endTick()
	return g.last
}

// updateAgents ticks every live ant, last spawned first. Dead ants are
// removed in place, which never disturbs the unvisited prefix.
func (g *Game) updateAgents() {
	for i := len(g.live) - 1; i >= 0; i-- {
		e := g.live[i]
		a := g.ants.Agent(e)

		systems.Tick(&g.env, a)
		systems.AgeField(&g.env, a.Pos.Pos)

		if a.Health.Alive() {
			continue
		}

		if g.hasQueen && g.queen == e {
			g.hasQueen = false
			slog.Info("queen died",
				"generation", g.generation,
				"step", g.step+1,
				"nest_built", a.Ant.NestBuilt,
			)
		}
		g.ants.Remove(e)
		g.live = append(g.live[:i], g.live[i+1:]...)
	}
}

// aggregate computes colony-wide stats over the live ants.
func (g *Game) aggregate() telemetry.TickRecord {
	rec := telemetry.TickRecord{
		Generation:    g.generation,
		TimeRemaining: g.TimeRemaining(),
		AliveCount:    len(g.live),
		NestBlocks:    g.world.NestCount(),
	}

	workerHealth := make([]float64, 0, len(g.live))
	for _, e := range g.live {
		ant := g.ants.Ant.Get(e)
		health := g.ants.Health.Get(e)

		rec.MulchConsumed += ant.MulchConsumed
		if ant.IsQueen() {
			rec.QueenHealth = health.Value
			continue
		}
		workerHealth = append(workerHealth, health.Value)
	}
	rec.AvgWorkerHealth = telemetry.Mean(workerHealth)

	return rec
}

func (g *Game) startTick() {
	if g.perf != nil {
		g.perf.StartTick()
	}
}

func (g *Game) phase(name string) {
	if g.perf != nil {
		g.perf.StartPhase(name)
	}
}

// endTick closes the perf sample.
func (g *Game) endTick() {
	if g.perf == nil {
		return
	}
	g.perf.EndTick()
	if g.step%g.perf.WindowSize() == 0 {
		g.flushPerf()
	}
}
