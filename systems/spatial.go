// Package systems provides the per-tick ant behaviour and the shared
// spatial passes the scheduler runs around it.
package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/antcolony/voxel"
)

// Occupancy groups ants by the cell they stand in. It is a snapshot: build
// it, read it, then Clear and rebuild for the next pass.
type Occupancy struct {
	cells map[voxel.Pos][]ecs.Entity
	order []voxel.Pos // first-insertion order of occupied cells
}

// NewOccupancy creates an empty index.
func NewOccupancy() *Occupancy {
	return &Occupancy{
		cells: make(map[voxel.Pos][]ecs.Entity),
	}
}

// Clear removes all entries but keeps allocated slices for reuse.
func (o *Occupancy) Clear() {
	for _, p := range o.order {
		o.cells[p] = o.cells[p][:0]
	}
	o.order = o.order[:0]
}

// Insert records e at p.
func (o *Occupancy) Insert(e ecs.Entity, p voxel.Pos) {
	list := o.cells[p]
	if len(list) == 0 {
		o.order = append(o.order, p)
	}
	o.cells[p] = append(list, e)
}

// Count returns the number of ants recorded at p.
func (o *Occupancy) Count(p voxel.Pos) int {
	return len(o.cells[p])
}

// At returns the ants recorded at p in insertion order. The slice is owned
// by the index and is invalidated by Clear.
func (o *Occupancy) At(p voxel.Pos) []ecs.Entity {
	return o.cells[p]
}

// Alone reports whether p holds at most one ant. An unrecorded cell counts
// as alone.
func (o *Occupancy) Alone(p voxel.Pos) bool {
	return o.Count(p) <= 1
}

// Cells returns occupied cells in first-insertion order.
func (o *Occupancy) Cells() []voxel.Pos {
	return o.order
}

// Len returns the number of occupied cells.
func (o *Occupancy) Len() int {
	return len(o.order)
}
