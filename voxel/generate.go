package voxel

import (
	"math"
	"math/rand"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// TerrainConfig holds terrain generation parameters.
type TerrainConfig struct {
	Seed             int64
	Scale            float64 // Heightmap base frequency
	Octaves          int
	MulchDepth       int // Mulch layers under the surface
	AcidicRegions    int
	AcidicRadius     int
	ContainerSpheres int
	ContainerRadius  int
}

// TerrainGenerator builds noise heightmap terrain: a container shell, stone
// bedrock, a mulch crust, acidic pockets and container spheres.
type TerrainGenerator struct {
	cfg TerrainConfig
}

// NewTerrainGenerator creates a generator.
func NewTerrainGenerator(cfg TerrainConfig) *TerrainGenerator {
	if cfg.Octaves < 1 {
		cfg.Octaves = 1
	}
	return &TerrainGenerator{cfg: cfg}
}

// Generate implements Generator.
func (t *TerrainGenerator) Generate(g *Grid, round int) {
	seed := t.cfg.Seed + int64(round)*7919
	noise := opensimplex.NewNormalized(seed)
	rng := rand.New(rand.NewSource(seed))
	sx, sy, sz := g.Size()

	// 1. Heightmap columns: stone with a mulch crust
	minH := sy / 4
	maxH := sy * 3 / 4
	for z := 0; z < sz; z++ {
		for x := 0; x < sx; x++ {
			n := octaveNoise(noise, float64(x), float64(z), t.cfg.Octaves, t.cfg.Scale, 0.5)
			h := minH + int(n*float64(maxH-minH))
			for y := 1; y <= h; y++ {
				kind := Stone
				if y > h-t.cfg.MulchDepth {
					kind = Mulch
				}
				g.blocks[g.index(Pos{x, y, z})] = kind
			}
		}
	}

	// 2. Acidic pockets near the surface
	for i := 0; i < t.cfg.AcidicRegions; i++ {
		x := rng.Intn(sx)
		z := rng.Intn(sz)
		y := SurfaceY(g, x, z) - 1
		if y < 1 {
			continue
		}
		t.sphere(g, Pos{x, y, z}, t.cfg.AcidicRadius, Acidic)
	}

	// 3. Container spheres
	for i := 0; i < t.cfg.ContainerSpheres; i++ {
		center := Pos{rng.Intn(sx), rng.Intn(sy), rng.Intn(sz)}
		t.sphere(g, center, t.cfg.ContainerRadius, Container)
	}

	// 4. Container shell on the floor and side walls
	g.Fill(Pos{0, 0, 0}, Pos{sx - 1, 0, sz - 1}, Container)
	g.Fill(Pos{0, 0, 0}, Pos{0, sy - 1, sz - 1}, Container)
	g.Fill(Pos{sx - 1, 0, 0}, Pos{sx - 1, sy - 1, sz - 1}, Container)
	g.Fill(Pos{0, 0, 0}, Pos{sx - 1, sy - 1, 0}, Container)
	g.Fill(Pos{0, 0, sz - 1}, Pos{sx - 1, sy - 1, sz - 1}, Container)
}

// sphere converts solid blocks within radius of center to kind. Air is left alone.
func (t *TerrainGenerator) sphere(g *Grid, center Pos, radius int, kind Kind) {
	r2 := radius * radius
	for dy := -radius; dy <= radius; dy++ {
		for dz := -radius; dz <= radius; dz++ {
			for dx := -radius; dx <= radius; dx++ {
				if dx*dx+dy*dy+dz*dz > r2 {
					continue
				}
				p := Pos{center.X + dx, center.Y + dy, center.Z + dz}
				if !g.contains(p) {
					continue
				}
				idx := g.index(p)
				if g.blocks[idx] != Air {
					g.blocks[idx] = kind
				}
			}
		}
	}
}

// octaveNoise sums octaves of normalized noise into [0,1].
func octaveNoise(noise opensimplex.Noise, x, z float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0

	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, z*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}

	return math.Max(0, math.Min(1, total/maxVal))
}
