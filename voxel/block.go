// Package voxel provides the block grid the colony lives in.
package voxel

// Kind identifies the block occupying a grid cell.
type Kind uint8

const (
	Air       Kind = iota // Empty; walkable when standing on a solid block
	Mulch                 // Consumable, restores health
	Acidic                // Doubles health drain for ants standing on it
	Nest                  // Built by the queen
	Container             // Indestructible
	Stone                 // Generic solid
	Grass                 // Generic solid
)

var kindNames = [...]string{
	Air:       "air",
	Mulch:     "mulch",
	Acidic:    "acidic",
	Nest:      "nest",
	Container: "container",
	Stone:     "stone",
	Grass:     "grass",
}

// String returns the lowercase block name.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// IsAir reports whether the block is empty.
func (k Kind) IsAir() bool {
	return k == Air
}

// Diggable reports whether an ant may clear the block.
func (k Kind) Diggable() bool {
	switch k {
	case Air, Container:
		return false
	default:
		return true
	}
}

// Pos is an integer grid coordinate. Y is up.
type Pos struct {
	X, Y, Z int
}

// Add returns p offset by o.
func (p Pos) Add(o Pos) Pos {
	return Pos{p.X + o.X, p.Y + o.Y, p.Z + o.Z}
}

// Below returns the cell directly underneath p.
func (p Pos) Below() Pos {
	return Pos{p.X, p.Y - 1, p.Z}
}

// AxisNeighbors are the six axis-aligned unit offsets.
var AxisNeighbors = [6]Pos{
	{1, 0, 0},
	{-1, 0, 0},
	{0, 0, 1},
	{0, 0, -1},
	{0, -1, 0},
	{0, 1, 0},
}
