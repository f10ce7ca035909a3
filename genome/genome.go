// Package genome holds the behavioural weights that drive ant decisions
// and the genetic operators applied between generations.
package genome

import (
	"encoding/json"
	"fmt"
	"math/rand"
)

// Gene identifies one weight in a Genome.
type Gene int

const (
	North Gene = iota
	South
	East
	West
	Dig
	Consume
	Share
	Build

	NumGenes
)

// Weight bounds.
const (
	MinWeight     = 0.05 // Floor applied by Mutate and on decode
	RandomMin     = 0.1
	RandomSpan    = 1.5
	crossoverBias = 0.5
)

var geneNames = [NumGenes]string{"north", "south", "east", "west", "dig", "consume", "share", "build"}

func (g Gene) String() string {
	if g < 0 || g >= NumGenes {
		return fmt.Sprintf("gene(%d)", int(g))
	}
	return geneNames[g]
}

// Genome is a fixed vector of behavioural weights. The zero value is not
// a valid genome; use Random or New.
type Genome struct {
	W [NumGenes]float64
}

// New returns a genome with the given weights in gene order.
func New(w [NumGenes]float64) *Genome {
	return &Genome{W: w}
}

// Uniform returns a genome with every weight set to v.
func Uniform(v float64) *Genome {
	g := &Genome{}
	for i := range g.W {
		g.W[i] = v
	}
	return g
}

// Random draws each weight uniformly from [RandomMin, RandomMin+RandomSpan).
func Random(rng *rand.Rand) *Genome {
	g := &Genome{}
	for i := range g.W {
		g.W[i] = rng.Float64()*RandomSpan + RandomMin
	}
	return g
}

// Weight returns the weight for a gene.
func (g *Genome) Weight(gene Gene) float64 {
	return g.W[gene]
}

// Set overwrites a single weight.
func (g *Genome) Set(gene Gene, v float64) {
	g.W[gene] = v
}

// Clone returns an independent copy.
func (g *Genome) Clone() *Genome {
	cp := *g
	return &cp
}

// Crossover returns a child whose weights are each taken from g or other
// with equal probability. Neither parent is modified.
func (g *Genome) Crossover(other *Genome, rng *rand.Rand) *Genome {
	child := &Genome{}
	for i := range child.W {
		if rng.Float64() < crossoverBias {
			child.W[i] = g.W[i]
		} else {
			child.W[i] = other.W[i]
		}
	}
	return child
}

// Mutate perturbs each weight in place with probability rate by a uniform
// delta in [-magnitude, magnitude], flooring the result at MinWeight.
func (g *Genome) Mutate(rng *rand.Rand, rate, magnitude float64) {
	for i := range g.W {
		if rng.Float64() >= rate {
			continue
		}
		delta := (rng.Float64()*2 - 1) * magnitude
		g.W[i] = max(MinWeight, g.W[i]+delta)
	}
}

// Equal reports whether both genomes carry identical weights.
func (g *Genome) Equal(other *Genome) bool {
	return g.W == other.W
}

// MarshalJSON encodes the genome as an object keyed by gene name.
func (g *Genome) MarshalJSON() ([]byte, error) {
	m := make(map[string]float64, NumGenes)
	for i, w := range g.W {
		m[geneNames[i]] = w
	}
	return json.Marshal(m)
}

// UnmarshalJSON decodes a genome written by MarshalJSON. Every gene must
// be present; weights below MinWeight are raised to it.
func (g *Genome) UnmarshalJSON(data []byte) error {
	var m map[string]float64
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	for i, name := range geneNames {
		w, ok := m[name]
		if !ok {
			return fmt.Errorf("genome: missing gene %q", name)
		}
		g.W[i] = max(MinWeight, w)
	}
	return nil
}
