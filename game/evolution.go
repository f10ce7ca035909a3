package game

import (
	"math/rand"

	"github.com/pthm-cable/antcolony/genome"
)

// EvolveParams holds the GA settings for one generation step.
type EvolveParams struct {
	Size      int // Target population size
	Elite     int // Genomes copied unchanged; clamped to [1, len(ranked)]
	Rate      float64
	Magnitude float64
}

// Evolve builds the next population from ranked (best first). The top Elite
// genomes are cloned unchanged. Each remaining child crosses a parent drawn
// from the genomes already committed to the next population with one drawn
// from the whole ranked set, then mutates.
//
// ranked must not be empty. Its genomes are never modified.
func Evolve(rng *rand.Rand, ranked []*genome.Genome, p EvolveParams) []*genome.Genome {
	elite := min(max(p.Elite, 1), len(ranked))
	if p.Size > 0 {
		elite = min(elite, p.Size)
	}

	next := make([]*genome.Genome, 0, max(p.Size, elite))
	for _, gn := range ranked[:elite] {
		next = append(next, gn.Clone())
	}

	for len(next) < p.Size {
		a := next[rng.Intn(len(next))]
		b := ranked[rng.Intn(len(ranked))]
		child := a.Crossover(b, rng)
		child.Mutate(rng, p.Rate, p.Magnitude)
		next = append(next, child)
	}

	return next
}
