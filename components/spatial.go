package components

import "github.com/pthm-cable/antcolony/voxel"

// Position is an ant's integer grid cell.
type Position struct {
	voxel.Pos
}
