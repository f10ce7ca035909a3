// Package components defines the ECS columns that make up an ant.
package components

import "github.com/pthm-cable/antcolony/genome"

// Role distinguishes the queen from workers.
type Role uint8

const (
	Worker Role = iota
	Queen
)

func (r Role) String() string {
	if r == Queen {
		return "queen"
	}
	return "worker"
}

// Health tracks an ant's remaining life. Value stays in [0, Max].
type Health struct {
	Value float64
	Max   float64
}

// Alive reports whether the ant still has health left.
func (h *Health) Alive() bool {
	return h.Value > 0
}

// Drain subtracts amount, flooring at zero.
func (h *Health) Drain(amount float64) {
	h.Value = max(0, h.Value-amount)
}

// Give removes up to amount and returns how much was actually removed.
// Dead ants give nothing.
func (h *Health) Give(amount float64) float64 {
	if amount <= 0 || h.Value <= 0 {
		return 0
	}
	given := min(amount, h.Value)
	h.Value -= given
	return given
}

// Receive adds amount, capped at Max.
func (h *Health) Receive(amount float64) {
	if amount <= 0 {
		return
	}
	h.Value = min(h.Max, h.Value+amount)
}

// Ant holds identity and per-generation counters.
type Ant struct {
	ID            uint32
	Role          Role
	MulchConsumed int
	NestBuilt     int
	Fitness       float64
}

// IsQueen reports whether the ant is the colony queen.
func (a *Ant) IsQueen() bool {
	return a.Role == Queen
}

// UpdateFitness recomputes fitness from current health and counters.
// Nest bonus only counts for the queen.
func (a *Ant) UpdateFitness(health, mulchBonus, nestBonus float64) {
	f := health + float64(a.MulchConsumed)*mulchBonus
	if a.IsQueen() {
		f += float64(a.NestBuilt) * nestBonus
	}
	a.Fitness = f
}

// Genome is the ant's private copy of its behavioural weights.
type Genome struct {
	G *genome.Genome
}
