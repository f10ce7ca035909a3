package voxel

import "fmt"

// Generator fills a grid with terrain. round counts regenerations so
// successive generations can see different terrain from the same seed.
type Generator interface {
	Generate(g *Grid, round int)
}

// Grid is a dense in-memory World.
type Grid struct {
	sx, sy, sz int
	blocks     []Kind
	nests      int
	round      int
	gen        Generator
}

// NewGrid creates an all-air grid. gen may be nil, in which case Regenerate
// only clears the grid.
func NewGrid(sx, sy, sz int, gen Generator) *Grid {
	return &Grid{
		sx:     sx,
		sy:     sy,
		sz:     sz,
		blocks: make([]Kind, sx*sy*sz),
		gen:    gen,
	}
}

func (g *Grid) index(p Pos) int {
	return (p.Y*g.sz+p.Z)*g.sx + p.X
}

func (g *Grid) contains(p Pos) bool {
	return p.X >= 0 && p.Y >= 0 && p.Z >= 0 && p.X < g.sx && p.Y < g.sy && p.Z < g.sz
}

// Size returns the grid dimensions.
func (g *Grid) Size() (x, y, z int) {
	return g.sx, g.sy, g.sz
}

// Block returns the block at p, or Air outside the grid.
func (g *Grid) Block(p Pos) Kind {
	if !g.contains(p) {
		return Air
	}
	return g.blocks[g.index(p)]
}

// SetBlock replaces the block at p.
func (g *Grid) SetBlock(p Pos, k Kind) error {
	if !g.contains(p) {
		return fmt.Errorf("set block %v at %+v: %w", k, p, ErrOutOfBounds)
	}
	g.blocks[g.index(p)] = k
	return nil
}

// Fill sets every cell in the inclusive box [from, to] that lies inside the grid.
func (g *Grid) Fill(from, to Pos, k Kind) {
	for y := max(from.Y, 0); y <= min(to.Y, g.sy-1); y++ {
		for z := max(from.Z, 0); z <= min(to.Z, g.sz-1); z++ {
			for x := max(from.X, 0); x <= min(to.X, g.sx-1); x++ {
				g.blocks[g.index(Pos{x, y, z})] = k
			}
		}
	}
}

// Clear resets every cell to Air.
func (g *Grid) Clear() {
	for i := range g.blocks {
		g.blocks[i] = Air
	}
}

// Regenerate clears the grid, resets the nest counter and reruns the generator.
func (g *Grid) Regenerate() {
	g.Clear()
	g.nests = 0
	if g.gen != nil {
		g.gen.Generate(g, g.round)
	}
	g.round++
}

// NestCount returns the number of nest blocks registered since the last regeneration.
func (g *Grid) NestCount() int {
	return g.nests
}

// RegisterNest increments the nest counter.
func (g *Grid) RegisterNest() {
	g.nests++
}

// Count returns how many cells hold kind k.
func (g *Grid) Count(k Kind) int {
	n := 0
	for _, b := range g.blocks {
		if b == k {
			n++
		}
	}
	return n
}

// FlatGenerator builds a level floor: Container at y=0, Base up to
// Height-2 and a Surface layer at Height-1. Ants spawn at y=Height.
type FlatGenerator struct {
	Height  int
	Base    Kind
	Surface Kind
}

// Generate implements Generator.
func (f FlatGenerator) Generate(g *Grid, _ int) {
	sx, _, sz := g.Size()
	g.Fill(Pos{0, 0, 0}, Pos{sx - 1, 0, sz - 1}, Container)
	if f.Height > 2 {
		g.Fill(Pos{0, 1, 0}, Pos{sx - 1, f.Height - 2, sz - 1}, f.Base)
	}
	if f.Height > 1 {
		g.Fill(Pos{0, f.Height - 1, 0}, Pos{sx - 1, f.Height - 1, sz - 1}, f.Surface)
	}
}
