package game

import (
	"log/slog"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/antcolony/components"
	"github.com/pthm-cable/antcolony/config"
	"github.com/pthm-cable/antcolony/genome"
	"github.com/pthm-cable/antcolony/voxel"
)

// spawnAttempts bounds the random surface search before falling back to
// the world centre.
const spawnAttempts = 200

// NewWorld builds the noise terrain grid described by cfg.World. The grid
// is empty until the first Regenerate, which NewGame triggers.
func NewWorld(cfg *config.Config) *voxel.Grid {
	gen := voxel.NewTerrainGenerator(voxel.TerrainConfig{
		Seed:             cfg.Seed,
		Scale:            cfg.World.NoiseScale,
		Octaves:          cfg.World.NoiseOctaves,
		MulchDepth:       cfg.World.MulchDepth,
		AcidicRegions:    cfg.World.AcidicRegions,
		AcidicRadius:     cfg.World.AcidicRadius,
		ContainerSpheres: cfg.World.ContainerSpheres,
		ContainerRadius:  cfg.World.ContainerRadius,
	})
	return voxel.NewGrid(cfg.Derived.SizeX, cfg.Derived.SizeY, cfg.Derived.SizeZ, gen)
}

// randomPopulation draws n fresh genomes.
func randomPopulation(rng *rand.Rand, n int) []*genome.Genome {
	pop := make([]*genome.Genome, n)
	for i := range pop {
		pop[i] = genome.Random(rng)
	}
	return pop
}

// spawnAnt creates an ant at a fresh surface position. The genome is cloned.
func (g *Game) spawnAnt(gn *genome.Genome, role components.Role) ecs.Entity {
	pos := g.findSpawnPosition()

	maxHealth := g.cfg.Colony.WorkerMaxHealth
	if role == components.Queen {
		maxHealth = g.cfg.Colony.QueenMaxHealth
	}

	g.nextID++
	e := g.ants.Spawn(pos,
		components.Health{Value: maxHealth, Max: maxHealth},
		components.Ant{ID: g.nextID, Role: role},
		gn.Clone(),
	)
	g.live = append(g.live, e)
	return e
}

// findSpawnPosition picks a random interior column and returns the air cell
// above its surface.
func (g *Game) findSpawnPosition() voxel.Pos {
	sx, sy, sz := g.world.Size()
	if sx > 2 && sz > 2 {
		for range spawnAttempts {
			x := 1 + g.rng.Intn(sx-2)
			z := 1 + g.rng.Intn(sz-2)
			if y := voxel.SurfaceY(g.world, x, z); y > 0 {
				return voxel.Pos{X: x, Y: y, Z: z}
			}
		}
	}
	return voxel.Pos{X: sx / 2, Y: sy - 2, Z: sz / 2}
}

// clearAnts removes every ant entity.
func (g *Game) clearAnts() {
	for _, e := range g.live {
		g.ants.Remove(e)
	}
	g.live = g.live[:0]
	g.hasQueen = false
}

// resumePopulation clones pop into a population of exactly n genomes,
// dropping the tail or filling it with random genomes.
func resumePopulation(rng *rand.Rand, pop []*genome.Genome, n int) []*genome.Genome {
	if len(pop) != n {
		slog.Warn("resumed population resized", "have", len(pop), "workers", n)
	}
	out := make([]*genome.Genome, n)
	for i := range out {
		if i < len(pop) {
			out[i] = pop[i].Clone()
		} else {
			out[i] = genome.Random(rng)
		}
	}
	return out
}
