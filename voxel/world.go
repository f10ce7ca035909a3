package voxel

import "errors"

// ErrOutOfBounds is returned when a write targets a cell outside the grid.
var ErrOutOfBounds = errors.New("position out of bounds")

// World is the block storage the simulation reads and mutates.
// Reads outside the grid return Air.
type World interface {
	Size() (x, y, z int)
	Block(p Pos) Kind
	SetBlock(p Pos, k Kind) error
	// Regenerate rebuilds terrain and resets the nest counter.
	Regenerate()
	NestCount() int
	RegisterNest()
}

// InBounds reports whether p addresses a cell of w.
func InBounds(w World, p Pos) bool {
	sx, sy, sz := w.Size()
	return p.X >= 0 && p.Y >= 0 && p.Z >= 0 && p.X < sx && p.Y < sy && p.Z < sz
}

// Interior reports whether p lies inside w excluding the one-cell shell.
// Ants treat the shell as off-world.
func Interior(w World, p Pos) bool {
	sx, sy, sz := w.Size()
	return p.X >= 1 && p.Z >= 1 &&
		p.X < sx-1 && p.Z < sz-1 &&
		p.Y >= 1 && p.Y < sy-1
}

// FindWalkableY searches dy in [-2,2] around fromY for an air cell at (x,z)
// standing on a non-air block. The smallest |dy| wins; ties go to the first
// found scanning upward from -2.
func FindWalkableY(w World, x, z, fromY int) (int, bool) {
	_, sy, _ := w.Size()
	best := -1
	bestDelta := 1 << 30

	for dy := -2; dy <= 2; dy++ {
		y := fromY + dy
		if y <= 0 || y >= sy-1 {
			continue
		}
		if !w.Block(Pos{x, y, z}).IsAir() {
			continue
		}
		if w.Block(Pos{x, y - 1, z}).IsAir() {
			continue
		}
		delta := dy
		if delta < 0 {
			delta = -delta
		}
		if delta < bestDelta {
			bestDelta = delta
			best = y
		}
	}

	return best, best >= 0
}

// SurfaceY returns the lowest air cell above the highest solid block in
// column (x,z), or -1 if the column has no standable surface.
func SurfaceY(w World, x, z int) int {
	_, sy, _ := w.Size()
	for y := sy - 2; y >= 1; y-- {
		if w.Block(Pos{x, y, z}).IsAir() {
			continue
		}
		above := Pos{x, y + 1, z}
		if above.Y < sy && w.Block(above).IsAir() {
			return above.Y
		}
	}
	return -1
}
