// Package game runs the colony: the per-tick scheduler and the
// generation controller that evolves worker genomes.
package game

import (
	"log/slog"
	"math/rand"

	"github.com/google/uuid"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/antcolony/config"
	"github.com/pthm-cable/antcolony/genome"
	"github.com/pthm-cable/antcolony/pheromone"
	"github.com/pthm-cable/antcolony/systems"
	"github.com/pthm-cable/antcolony/telemetry"
	"github.com/pthm-cable/antcolony/voxel"
)

// Options configures a Game beyond the static config.
type Options struct {
	RunID       string                   // Defaults to a fresh UUID
	Population  []*genome.Genome         // Resume population; random when empty
	Generation  int                      // Starting generation number (default 1)
	SnapshotDir string                   // Save the population every generation when set
	Output      *telemetry.OutputManager // Perf CSV target, may be nil
	LogStats    bool                     // Log perf summaries via slog
}

// Game holds the complete simulation state.
type Game struct {
	cfg   *config.Config
	world voxel.World
	field *pheromone.Field
	rng   *rand.Rand

	ecsWorld  *ecs.World
	ants      *systems.AntMaps
	live      []ecs.Entity // Spawn order; the scheduler walks it backwards
	queen     ecs.Entity
	hasQueen  bool
	occupancy *systems.Occupancy
	env       systems.Env

	population []*genome.Genome
	generation int
	boundaries int // Generation ends handled, including re-randomizations
	step       int
	timer      float64
	acc        float64
	nextID     uint32

	sink        telemetry.Sink
	histories   *telemetry.Histories
	hallOfFame  *telemetry.HallOfFame
	perf        *telemetry.PerfCollector
	output      *telemetry.OutputManager
	snapshotDir string
	runID       string
	logStats    bool

	last    telemetry.TickRecord
	lastGen telemetry.GenerationRecord
	best    BestEver
}

// BestEver tracks the highest per-generation values seen in a run.
type BestEver struct {
	BestFitness float64
	AvgFitness  float64
	NestBlocks  int
}

// NewGame creates a game over world and spawns the first generation.
// A nil sink is replaced by telemetry.Nop.
func NewGame(cfg *config.Config, world voxel.World, sink telemetry.Sink, opts Options) *Game {
	if sink == nil {
		sink = telemetry.Nop{}
	}
	runID := opts.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	generation := opts.Generation
	if generation < 1 {
		generation = 1
	}

	sx, sy, sz := world.Size()
	ecsWorld := ecs.NewWorld()

	g := &Game{
		cfg:   cfg,
		world: world,
		field: pheromone.NewField(sx, sy, sz, pheromone.Params{
			Max:       cfg.Pheromone.Max,
			Decay:     cfg.Pheromone.Decay,
			Diffusion: cfg.Pheromone.Diffusion,
		}),
		rng:         rand.New(rand.NewSource(cfg.Seed)),
		ecsWorld:    ecsWorld,
		ants:        systems.NewAntMaps(ecsWorld),
		occupancy:   systems.NewOccupancy(),
		generation:  generation,
		sink:        sink,
		histories:   telemetry.NewHistories(cfg.Telemetry.HistoryLength),
		hallOfFame:  telemetry.NewHallOfFame(cfg.Telemetry.HallOfFameSize),
		output:      opts.Output,
		snapshotDir: opts.SnapshotDir,
		runID:       runID,
		logStats:    opts.LogStats,
	}
	if cfg.Telemetry.PerfWindow > 0 {
		g.perf = telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow)
	}

	g.env = systems.Env{
		World:     world,
		Field:     g.field,
		Occupancy: g.occupancy,
		RNG:       g.rng,
		Cfg:       cfg,
	}

	if len(opts.Population) > 0 {
		g.population = resumePopulation(g.rng, opts.Population, cfg.Colony.WorkerCount)
	} else {
		g.population = randomPopulation(g.rng, cfg.Colony.WorkerCount)
	}

	slog.Info("colony initialized",
		"run_id", runID,
		"seed", cfg.Seed,
		"workers", len(g.population),
		"generation", g.generation,
	)

	g.SpawnGeneration()
	return g
}

// Config returns the configuration the game runs with.
func (g *Game) Config() *config.Config { return g.cfg }

// World returns the block world.
func (g *Game) World() voxel.World { return g.world }

// Field returns the pheromone field.
func (g *Game) Field() *pheromone.Field { return g.field }

// RunID returns the run identifier.
func (g *Game) RunID() string { return g.runID }

// Generation returns the current generation number (1-based).
func (g *Game) Generation() int { return g.generation }

// Boundaries returns how many generation ends have been processed.
func (g *Game) Boundaries() int { return g.boundaries }

// Steps returns the number of ticks run so far.
func (g *Game) Steps() int { return g.step }

// TimeRemaining returns the seconds left in the current generation.
func (g *Game) TimeRemaining() float64 { return max(0, g.timer) }

// AliveCount returns the number of live ants, queen included.
func (g *Game) AliveCount() int { return len(g.live) }

// HasQueen reports whether the queen is alive.
func (g *Game) HasQueen() bool { return g.hasQueen }

// Population returns the genomes the current generation was spawned from.
// The slice is shared; do not modify.
func (g *Game) Population() []*genome.Genome { return g.population }

// LastTick returns the most recent tick record.
func (g *Game) LastTick() telemetry.TickRecord { return g.last }

// LastGeneration returns the most recent generation summary.
func (g *Game) LastGeneration() telemetry.GenerationRecord { return g.lastGen }

// BestEver returns the best per-generation values seen so far.
func (g *Game) BestEver() BestEver { return g.best }

// Histories returns the bounded metric series.
func (g *Game) Histories() *telemetry.Histories { return g.histories }

// HallOfFame returns the best worker genomes seen in the run.
func (g *Game) HallOfFame() *telemetry.HallOfFame { return g.hallOfFame }

// Agents returns component views of the live ants in spawn order.
// Views are invalidated by the next Step or generation change.
func (g *Game) Agents() []systems.Agent {
	out := make([]systems.Agent, len(g.live))
	for i, e := range g.live {
		out[i] = g.ants.Agent(e)
	}
	return out
}

// Queen returns the queen's view, if she is alive.
func (g *Game) Queen() (systems.Agent, bool) {
	if !g.hasQueen {
		return systems.Agent{}, false
	}
	return g.ants.Agent(g.queen), true
}

// Close flushes and closes the sink.
func (g *Game) Close() error {
	return g.sink.Close()
}
