// Package pheromone provides the two-channel scalar field ants lay trails in.
package pheromone

import (
	"errors"
	"fmt"

	"github.com/pthm-cable/antcolony/voxel"
)

// ErrOutOfBounds is returned for positions outside the field.
var ErrOutOfBounds = errors.New("pheromone: position out of bounds")

// Channel selects one of the two pheromone values stored per cell.
type Channel uint8

const (
	Food Channel = iota // Laid by workers
	Nest                // Laid by the queen
)

// String returns the channel name.
func (c Channel) String() string {
	if c == Nest {
		return "nest"
	}
	return "food"
}

// Params holds field constants.
type Params struct {
	Max       float64 // Upper bound for every value
	Decay     float64 // Subtracted from both channels by Decay
	Diffusion float64 // Lerp factor toward the neighbourhood mean
}

// Field stores food and nest pheromone for every cell of a grid.
// All values stay within [0, Max].
type Field struct {
	sx, sy, sz int
	food       []float64
	nest       []float64
	params     Params
}

// NewField creates a zeroed field covering an sx*sy*sz grid.
func NewField(sx, sy, sz int, params Params) *Field {
	n := sx * sy * sz
	return &Field{
		sx:     sx,
		sy:     sy,
		sz:     sz,
		food:   make([]float64, n),
		nest:   make([]float64, n),
		params: params,
	}
}

// Params returns the field constants.
func (f *Field) Params() Params {
	return f.params
}

// Contains reports whether p addresses a field cell.
func (f *Field) Contains(p voxel.Pos) bool {
	return p.X >= 0 && p.Y >= 0 && p.Z >= 0 && p.X < f.sx && p.Y < f.sy && p.Z < f.sz
}

func (f *Field) index(p voxel.Pos) (int, error) {
	if !f.Contains(p) {
		return 0, fmt.Errorf("%+v: %w", p, ErrOutOfBounds)
	}
	return (p.Y*f.sz+p.Z)*f.sx + p.X, nil
}

func (f *Field) channel(c Channel) []float64 {
	if c == Nest {
		return f.nest
	}
	return f.food
}

// Read returns the value of channel c at p. Untouched cells read zero.
func (f *Field) Read(p voxel.Pos, c Channel) (float64, error) {
	i, err := f.index(p)
	if err != nil {
		return 0, err
	}
	return f.channel(c)[i], nil
}

// Deposit adds amount to channel c at p, clamped to Max.
func (f *Field) Deposit(p voxel.Pos, c Channel, amount float64) error {
	i, err := f.index(p)
	if err != nil {
		return err
	}
	vals := f.channel(c)
	vals[i] = clamp(vals[i]+amount, f.params.Max)
	return nil
}

// Decay subtracts the decay rate from both channels at p, floored at zero.
func (f *Field) Decay(p voxel.Pos) error {
	i, err := f.index(p)
	if err != nil {
		return err
	}
	f.food[i] = max(0, f.food[i]-f.params.Decay)
	f.nest[i] = max(0, f.nest[i]-f.params.Decay)
	return nil
}

// Diffuse blends both channels at p toward the mean of p and neighbors.
// Callers pass only neighbors that are themselves field cells; excluded
// cells do not count toward the mean.
func (f *Field) Diffuse(p voxel.Pos, neighbors []voxel.Pos) error {
	i, err := f.index(p)
	if err != nil {
		return err
	}

	totalFood := f.food[i]
	totalNest := f.nest[i]
	count := 1
	for _, n := range neighbors {
		j, err := f.index(n)
		if err != nil {
			return err
		}
		totalFood += f.food[j]
		totalNest += f.nest[j]
		count++
	}

	avgFood := totalFood / float64(count)
	avgNest := totalNest / float64(count)
	t := f.params.Diffusion
	f.food[i] = clamp(lerp(f.food[i], avgFood, t), f.params.Max)
	f.nest[i] = clamp(lerp(f.nest[i], avgNest, t), f.params.Max)
	return nil
}

// DiffuseAt diffuses p using its axis-aligned neighbors that lie in the
// field and satisfy isField.
func (f *Field) DiffuseAt(p voxel.Pos, isField func(voxel.Pos) bool) error {
	var buf [len(voxel.AxisNeighbors)]voxel.Pos
	neighbors := buf[:0]
	for _, off := range voxel.AxisNeighbors {
		n := p.Add(off)
		if f.Contains(n) && isField(n) {
			neighbors = append(neighbors, n)
		}
	}
	return f.Diffuse(p, neighbors)
}

// Clear zeroes both channels at p.
func (f *Field) Clear(p voxel.Pos) error {
	i, err := f.index(p)
	if err != nil {
		return err
	}
	f.food[i] = 0
	f.nest[i] = 0
	return nil
}

// Reset zeroes the whole field.
func (f *Field) Reset() {
	clear(f.food)
	clear(f.nest)
}

// Total returns the summed value of channel c.
func (f *Field) Total(c Channel) float64 {
	var sum float64
	for _, v := range f.channel(c) {
		sum += v
	}
	return sum
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func clamp(v, hi float64) float64 {
	if v < 0 {
		return 0
	}
	if v > hi {
		return hi
	}
	return v
}
