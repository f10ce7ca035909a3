package systems

import (
	"log/slog"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/antcolony/components"
	"github.com/pthm-cable/antcolony/config"
	"github.com/pthm-cable/antcolony/genome"
	"github.com/pthm-cable/antcolony/pheromone"
	"github.com/pthm-cable/antcolony/voxel"
)

// Move weight modifiers.
const (
	minMoveWeight   = 0.01
	offWorldPenalty = 0.25
)

// Action is the outcome of one ant tick.
type Action uint8

const (
	ActionNone    Action = iota // already dead
	ActionStarved               // drain killed the ant
	ActionConsume
	ActionBuild
	ActionDig
	ActionMove
	ActionIdle // move target not walkable
)

var actionNames = [...]string{"none", "starved", "consume", "build", "dig", "move", "idle"}

func (a Action) String() string {
	if int(a) < len(actionNames) {
		return actionNames[a]
	}
	return "unknown"
}

// Env is everything an ant reads or mutates during its tick.
// RNG is the single shared stream; call order inside Tick is fixed.
type Env struct {
	World     voxel.World
	Field     *pheromone.Field
	Occupancy *Occupancy
	RNG       *rand.Rand
	Cfg       *config.Config
}

// Agent bundles the component pointers of one ant. Pointers are only valid
// until the next structural change to the ECS world.
type Agent struct {
	E      ecs.Entity
	Pos    *components.Position
	Health *components.Health
	Ant    *components.Ant
	Genome *components.Genome
}

// Tick runs one decision step for a. Branches are tried in priority order
// and the first that succeeds ends the tick; otherwise the ant tries to
// move and always lays pheromone.
func Tick(env *Env, a Agent) Action {
	if !a.Health.Alive() {
		return ActionNone
	}

	pos := a.Pos.Pos
	below := pos.Below()

	drain := env.Cfg.Colony.HealthDrain
	if env.World.Block(below) == voxel.Acidic {
		drain *= 2
	}
	a.Health.Drain(drain)
	if !a.Health.Alive() {
		return ActionStarved
	}

	if env.Occupancy.Alone(pos) && tryConsume(env, a) {
		env.updateFitness(a)
		return ActionConsume
	}

	if a.Ant.IsQueen() && tryBuild(env, a) {
		env.updateFitness(a)
		return ActionBuild
	}

	if tryDig(env, a) {
		env.updateFitness(a)
		return ActionDig
	}

	moved := tryMove(env, a)

	ch := pheromone.Food
	if a.Ant.IsQueen() {
		ch = pheromone.Nest
	}
	if err := env.Field.Deposit(a.Pos.Pos, ch, env.Cfg.Pheromone.Deposit); err != nil {
		slog.Warn("pheromone deposit rejected", "ant", a.Ant.ID, "error", err)
	}
	env.updateFitness(a)

	if moved {
		return ActionMove
	}
	return ActionIdle
}

// tryConsume eats the mulch block underneath.
func tryConsume(env *Env, a Agent) bool {
	below := a.Pos.Below()
	if env.World.Block(below) != voxel.Mulch {
		return false
	}
	if !shouldDo(env.RNG, a.Genome.G.Weight(genome.Consume)) {
		return false
	}

	env.setBlock(below, voxel.Air)
	a.Ant.MulchConsumed++
	a.Health.Receive(env.Cfg.Colony.MulchHealthGain)
	return true
}

// tryBuild places a nest block in a random adjacent air cell, paying a
// third of max health.
func tryBuild(env *Env, a Agent) bool {
	if !shouldDo(env.RNG, a.Genome.G.Weight(genome.Build)) {
		return false
	}

	cost := a.Health.Max / 3
	if a.Health.Value < cost {
		return false
	}

	target, ok := findAdjacentAir(env, a.Pos.Pos)
	if !ok {
		return false
	}

	env.setBlock(target, voxel.Nest)
	a.Health.Drain(cost)
	env.World.RegisterNest()
	a.Ant.NestBuilt++
	return true
}

// findAdjacentAir draws len(AxisNeighbors) offsets with replacement and
// returns the first that lands on an interior air cell.
func findAdjacentAir(env *Env, p voxel.Pos) (voxel.Pos, bool) {
	for range voxel.AxisNeighbors {
		c := p.Add(voxel.AxisNeighbors[env.RNG.Intn(len(voxel.AxisNeighbors))])
		if !voxel.Interior(env.World, c) {
			continue
		}
		if env.World.Block(c).IsAir() {
			return c, true
		}
	}
	return p, false
}

// tryDig clears the block underneath and drops into it.
func tryDig(env *Env, a Agent) bool {
	if !shouldDo(env.RNG, a.Genome.G.Weight(genome.Dig)) {
		return false
	}

	below := a.Pos.Below()
	if !env.World.Block(below).Diggable() {
		return false
	}

	env.setBlock(below, voxel.Air)
	a.Pos.Pos = below
	return true
}

// cardinal directions in roll order; the last is the fallback.
var cardinals = [4]struct {
	gene   genome.Gene
	offset voxel.Pos
}{
	{genome.North, voxel.Pos{Z: 1}},
	{genome.South, voxel.Pos{Z: -1}},
	{genome.East, voxel.Pos{X: 1}},
	{genome.West, voxel.Pos{X: -1}},
}

// tryMove picks a weighted cardinal direction and steps onto the nearest
// walkable height there.
func tryMove(env *Env, a Agent) bool {
	dir := chooseDirection(env, a)

	target := a.Pos.Add(dir)
	y, ok := voxel.FindWalkableY(env.World, target.X, target.Z, a.Pos.Y)
	if !ok {
		return false
	}

	a.Pos.Pos = voxel.Pos{X: target.X, Y: y, Z: target.Z}
	return true
}

func chooseDirection(env *Env, a Agent) voxel.Pos {
	var weights [len(cardinals)]float64
	total := 0.0
	for i, c := range cardinals {
		weights[i] = moveWeight(env, a, c.offset, a.Genome.G.Weight(c.gene))
		total += weights[i]
	}

	roll := env.RNG.Float64() * total
	for i := 0; i < len(cardinals)-1; i++ {
		if roll < weights[i] {
			return cardinals[i].offset
		}
		roll -= weights[i]
	}
	return cardinals[len(cardinals)-1].offset
}

// moveWeight scales a genome weight by the pheromone at the target, or by
// a flat penalty when the target is off-world.
func moveWeight(env *Env, a Agent, offset voxel.Pos, base float64) float64 {
	w := max(minMoveWeight, base)
	check := a.Pos.Add(offset)
	if !voxel.Interior(env.World, check) {
		return w * offWorldPenalty
	}

	ch := pheromone.Food
	if a.Ant.IsQueen() {
		ch = pheromone.Nest
	}
	level, err := env.Field.Read(check, ch)
	if err != nil {
		slog.Warn("pheromone read rejected", "ant", a.Ant.ID, "error", err)
		return w
	}
	return w * (1 + level*env.Cfg.Pheromone.Bias)
}

// AgeField decays the pheromone at p and diffuses it toward neighbouring
// air cells.
func AgeField(env *Env, p voxel.Pos) {
	if err := env.Field.Decay(p); err != nil {
		slog.Warn("pheromone decay rejected", "pos", p, "error", err)
		return
	}
	err := env.Field.DiffuseAt(p, func(n voxel.Pos) bool {
		return voxel.InBounds(env.World, n) && env.World.Block(n).IsAir()
	})
	if err != nil {
		slog.Warn("pheromone diffuse rejected", "pos", p, "error", err)
	}
}

// setBlock changes a cell and clears the pheromone it held.
func (env *Env) setBlock(p voxel.Pos, k voxel.Kind) {
	if err := env.World.SetBlock(p, k); err != nil {
		slog.Warn("block write rejected", "pos", p, "kind", k, "error", err)
		return
	}
	if err := env.Field.Clear(p); err != nil {
		slog.Warn("pheromone clear rejected", "pos", p, "error", err)
	}
}

func (env *Env) updateFitness(a Agent) {
	a.Ant.UpdateFitness(a.Health.Value, env.Cfg.Fitness.MulchBonus, env.Cfg.Fitness.NestBonus)
}

// shouldDo passes with probability clamp(weight/2, 0, 1).
func shouldDo(rng *rand.Rand, weight float64) bool {
	return rng.Float64() < clamp01(weight/2)
}
