package voxel

import (
	"errors"
	"testing"
)

func TestGridBlockOutsideIsAir(t *testing.T) {
	g := NewGrid(4, 4, 4, nil)
	g.Fill(Pos{0, 0, 0}, Pos{3, 3, 3}, Stone)

	if got := g.Block(Pos{-1, 0, 0}); got != Air {
		t.Errorf("Block outside = %v, want air", got)
	}
	if got := g.Block(Pos{1, 1, 1}); got != Stone {
		t.Errorf("Block inside = %v, want stone", got)
	}
}

func TestGridSetBlockOutOfBounds(t *testing.T) {
	g := NewGrid(4, 4, 4, nil)
	err := g.SetBlock(Pos{4, 0, 0}, Nest)
	if !errors.Is(err, ErrOutOfBounds) {
		t.Fatalf("SetBlock outside = %v, want ErrOutOfBounds", err)
	}
}

func TestRegenerateResetsNests(t *testing.T) {
	g := NewGrid(6, 6, 6, FlatGenerator{Height: 3, Base: Stone, Surface: Mulch})
	g.Regenerate()
	g.RegisterNest()
	g.RegisterNest()
	if g.NestCount() != 2 {
		t.Fatalf("NestCount = %d, want 2", g.NestCount())
	}

	g.Regenerate()
	if g.NestCount() != 0 {
		t.Errorf("NestCount after regenerate = %d, want 0", g.NestCount())
	}
	if got := g.Block(Pos{2, 2, 2}); got != Mulch {
		t.Errorf("surface = %v, want mulch", got)
	}
	if got := g.Block(Pos{2, 0, 2}); got != Container {
		t.Errorf("floor = %v, want container", got)
	}
}

func TestInterior(t *testing.T) {
	g := NewGrid(8, 8, 8, nil)
	tests := []struct {
		p    Pos
		want bool
	}{
		{Pos{1, 1, 1}, true},
		{Pos{6, 6, 6}, true},
		{Pos{0, 3, 3}, false},
		{Pos{7, 3, 3}, false},
		{Pos{3, 0, 3}, false},
		{Pos{3, 7, 3}, false},
	}
	for _, tt := range tests {
		if got := Interior(g, tt.p); got != tt.want {
			t.Errorf("Interior(%+v) = %v, want %v", tt.p, got, tt.want)
		}
	}
}

func TestFindWalkableYPrefersSmallestStep(t *testing.T) {
	g := NewGrid(8, 10, 8, nil)
	// Column (3,3): solid up to y=3, so y=4 is walkable (dy=-1 from 5)
	g.Fill(Pos{3, 0, 3}, Pos{3, 3, 3}, Stone)
	// Ledge at y=6 makes y=7 walkable too (dy=+2)
	g.Fill(Pos{3, 6, 3}, Pos{3, 6, 3}, Stone)

	y, ok := FindWalkableY(g, 3, 3, 5)
	if !ok || y != 4 {
		t.Errorf("FindWalkableY = (%d, %v), want (4, true)", y, ok)
	}
}

func TestFindWalkableYTieGoesToLower(t *testing.T) {
	g := NewGrid(8, 12, 8, nil)
	// Walkable at y=4 (dy=-1) and y=6 (dy=+1) from 5; 5 itself is solid
	g.Fill(Pos{2, 0, 2}, Pos{2, 3, 2}, Stone)
	g.Fill(Pos{2, 5, 2}, Pos{2, 5, 2}, Stone)

	y, ok := FindWalkableY(g, 2, 2, 5)
	if !ok || y != 4 {
		t.Errorf("FindWalkableY = (%d, %v), want (4, true)", y, ok)
	}
}

func TestFindWalkableYNone(t *testing.T) {
	g := NewGrid(8, 12, 8, nil)
	g.Fill(Pos{2, 0, 2}, Pos{2, 1, 2}, Stone)

	if _, ok := FindWalkableY(g, 2, 2, 8); ok {
		t.Error("expected no walkable cell within two steps")
	}
}

func TestSurfaceY(t *testing.T) {
	g := NewGrid(6, 10, 6, FlatGenerator{Height: 4, Base: Stone, Surface: Grass})
	g.Regenerate()
	if got := SurfaceY(g, 2, 2); got != 4 {
		t.Errorf("SurfaceY = %d, want 4", got)
	}
}

func TestTerrainGeneratorDeterministic(t *testing.T) {
	cfg := TerrainConfig{
		Seed:          7,
		Scale:         0.05,
		Octaves:       3,
		MulchDepth:    2,
		AcidicRegions: 2,
		AcidicRadius:  2,
	}
	a := NewGrid(24, 16, 24, NewTerrainGenerator(cfg))
	b := NewGrid(24, 16, 24, NewTerrainGenerator(cfg))
	a.Regenerate()
	b.Regenerate()

	for i := range a.blocks {
		if a.blocks[i] != b.blocks[i] {
			t.Fatalf("block %d differs: %v vs %v", i, a.blocks[i], b.blocks[i])
		}
	}
	if a.Count(Mulch) == 0 {
		t.Error("expected a mulch crust")
	}
	if got := a.Block(Pos{0, 5, 5}); got != Container {
		t.Errorf("side wall = %v, want container", got)
	}
}
