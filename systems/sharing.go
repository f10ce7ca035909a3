package systems

import (
	"sort"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/antcolony/components"
)

// BuildOccupancy clears o and records each ant at its current position.
// Callers pass live ants only.
func BuildOccupancy(o *Occupancy, ants []ecs.Entity, posMap *ecs.Map1[components.Position]) {
	o.Clear()
	for _, e := range ants {
		o.Insert(e, posMap.Get(e).Pos)
	}
}

// ShareHealth moves health from the healthiest to the weakest ant in every
// cell holding two or more ants. One donor/receiver pair per cell; the
// transfer never exceeds amount or the health gap. Returns the number of
// transfers made.
func ShareHealth(o *Occupancy, healthMap *ecs.Map1[components.Health], amount float64) int {
	if amount <= 0 {
		return 0
	}

	transfers := 0
	var group []*components.Health
	for _, p := range o.Cells() {
		ants := o.At(p)
		if len(ants) < 2 {
			continue
		}

		group = group[:0]
		for _, e := range ants {
			group = append(group, healthMap.Get(e))
		}
		if shareWithin(group, amount) {
			transfers++
		}
	}
	return transfers
}

// shareWithin sorts group by health descending (stable, so ties keep
// occupancy order) and moves health from the first to the last.
func shareWithin(group []*components.Health, amount float64) bool {
	sort.SliceStable(group, func(i, j int) bool {
		return group[i].Value > group[j].Value
	})

	donor := group[0]
	receiver := group[len(group)-1]
	if donor == receiver {
		return false
	}

	transfer := min(amount, donor.Value-receiver.Value)
	if transfer <= 0 {
		return false
	}

	receiver.Receive(donor.Give(transfer))
	return true
}
