package genome

import (
	"encoding/json"
	"math/rand"
	"testing"
)

func TestRandomRange(t *testing.T) {
	rng := rand.New(rand.NewSource(1337))
	for n := 0; n < 200; n++ {
		g := Random(rng)
		for i, w := range g.W {
			if w < RandomMin || w >= RandomMin+RandomSpan {
				t.Fatalf("gene %v = %v, outside [%v, %v)", Gene(i), w, RandomMin, RandomMin+RandomSpan)
			}
		}
	}
}

func TestCloneIndependent(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	g := Random(rng)
	orig := g.W

	c := g.Clone()
	if !c.Equal(g) {
		t.Fatal("clone differs from source")
	}

	c.Mutate(rng, 1, 0.5)
	c.Set(Dig, 99)
	if g.W != orig {
		t.Errorf("mutating clone changed source: %v != %v", g.W, orig)
	}
}

func TestCrossoverPicksParentValues(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for n := 0; n < 100; n++ {
		a := Random(rng)
		b := Random(rng)
		aw, bw := a.W, b.W

		child := a.Crossover(b, rng)
		for i, w := range child.W {
			if w != a.W[i] && w != b.W[i] {
				t.Fatalf("gene %v = %v, neither parent (%v, %v)", Gene(i), w, a.W[i], b.W[i])
			}
		}
		if a.W != aw || b.W != bw {
			t.Fatal("crossover modified a parent")
		}
	}
}

func TestCrossoverMixes(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	a := Uniform(1)
	b := Uniform(2)

	fromA, fromB := 0, 0
	for n := 0; n < 200; n++ {
		for _, w := range a.Crossover(b, rng).W {
			if w == 1 {
				fromA++
			} else {
				fromB++
			}
		}
	}
	if fromA == 0 || fromB == 0 {
		t.Errorf("per-gene crossover should draw from both parents: a=%d b=%d", fromA, fromB)
	}
}

func TestMutate(t *testing.T) {
	tests := []struct {
		name      string
		start     float64
		rate      float64
		magnitude float64
		check     func(before, after float64) bool
	}{
		{"rate zero leaves weights", 0.7, 0, 1, func(b, a float64) bool { return a == b }},
		{"magnitude bounds delta", 0.7, 1, 0.3, func(b, a float64) bool { return a >= b-0.3 && a <= b+0.3 }},
		{"floor holds", 0.06, 1, 5, func(_, a float64) bool { return a >= MinWeight }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rng := rand.New(rand.NewSource(42))
			for n := 0; n < 100; n++ {
				g := Uniform(tt.start)
				g.Mutate(rng, tt.rate, tt.magnitude)
				for i, w := range g.W {
					if !tt.check(tt.start, w) {
						t.Fatalf("gene %v: %v -> %v", Gene(i), tt.start, w)
					}
				}
			}
		})
	}
}

func TestJSONRoundTrip(t *testing.T) {
	g := New([NumGenes]float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8})
	data, err := json.Marshal(g)
	if err != nil {
		t.Fatal(err)
	}

	var back Genome
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if !back.Equal(g) {
		t.Errorf("round trip: got %v, want %v", back.W, g.W)
	}

	if err := json.Unmarshal([]byte(`{"north":1}`), &back); err == nil {
		t.Error("expected error for missing genes")
	}
}

func TestUnmarshalFloorsWeights(t *testing.T) {
	data := []byte(`{"north":0,"south":-2,"east":0.5,"west":0.01,"dig":1,"consume":1,"share":1,"build":1}`)

	var g Genome
	if err := json.Unmarshal(data, &g); err != nil {
		t.Fatal(err)
	}
	want := [NumGenes]float64{MinWeight, MinWeight, 0.5, MinWeight, 1, 1, 1, 1}
	if g.W != want {
		t.Errorf("weights = %v, want %v", g.W, want)
	}
}
