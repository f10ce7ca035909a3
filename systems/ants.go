package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/antcolony/components"
	"github.com/pthm-cable/antcolony/genome"
	"github.com/pthm-cable/antcolony/voxel"
)

// AntMaps gives typed access to the ant component columns of an ECS world.
type AntMaps struct {
	World  *ecs.World
	Mapper *ecs.Map4[
		components.Position,
		components.Health,
		components.Ant,
		components.Genome,
	]

	Pos    *ecs.Map1[components.Position]
	Health *ecs.Map1[components.Health]
	Ant    *ecs.Map1[components.Ant]
	Genome *ecs.Map1[components.Genome]
}

// NewAntMaps registers the ant components with world.
func NewAntMaps(world *ecs.World) *AntMaps {
	return &AntMaps{
		World: world,
		Mapper: ecs.NewMap4[
			components.Position,
			components.Health,
			components.Ant,
			components.Genome,
		](world),
		Pos:    ecs.NewMap1[components.Position](world),
		Health: ecs.NewMap1[components.Health](world),
		Ant:    ecs.NewMap1[components.Ant](world),
		Genome: ecs.NewMap1[components.Genome](world),
	}
}

// Spawn creates an ant entity. g is stored as-is; pass a clone if the
// caller keeps its own reference.
func (m *AntMaps) Spawn(pos voxel.Pos, health components.Health, ant components.Ant, g *genome.Genome) ecs.Entity {
	p := components.Position{Pos: pos}
	gc := components.Genome{G: g}
	return m.Mapper.NewEntity(&p, &health, &ant, &gc)
}

// Agent returns component pointers for e.
func (m *AntMaps) Agent(e ecs.Entity) Agent {
	return Agent{
		E:      e,
		Pos:    m.Pos.Get(e),
		Health: m.Health.Get(e),
		Ant:    m.Ant.Get(e),
		Genome: m.Genome.Get(e),
	}
}

// Remove deletes e from the world if it is still alive.
func (m *AntMaps) Remove(e ecs.Entity) {
	if m.World.Alive(e) {
		m.World.RemoveEntity(e)
	}
}
