package pheromone

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/pthm-cable/antcolony/voxel"
)

func testParams() Params {
	return Params{Max: 2.5, Decay: 0.05, Diffusion: 0.2}
}

func TestReadUntouchedIsZero(t *testing.T) {
	f := NewField(4, 4, 4, testParams())
	v, err := f.Read(voxel.Pos{X: 1, Y: 2, Z: 3}, Food)
	if err != nil {
		t.Fatal(err)
	}
	if v != 0 {
		t.Errorf("untouched cell = %v, want 0", v)
	}
}

func TestDepositClampsToMax(t *testing.T) {
	f := NewField(4, 4, 4, testParams())
	p := voxel.Pos{X: 1, Y: 1, Z: 1}

	for i := 0; i < 20; i++ {
		if err := f.Deposit(p, Nest, 0.2); err != nil {
			t.Fatal(err)
		}
	}

	nest, _ := f.Read(p, Nest)
	food, _ := f.Read(p, Food)
	if nest != 2.5 {
		t.Errorf("nest = %v, want clamp at 2.5", nest)
	}
	if food != 0 {
		t.Errorf("food = %v, channels must be independent", food)
	}
}

func TestDecayFloorsAtZero(t *testing.T) {
	f := NewField(4, 4, 4, testParams())
	p := voxel.Pos{X: 2, Y: 2, Z: 2}

	f.Deposit(p, Food, 0.03)
	f.Deposit(p, Nest, 0.5)
	if err := f.Decay(p); err != nil {
		t.Fatal(err)
	}

	food, _ := f.Read(p, Food)
	nest, _ := f.Read(p, Nest)
	if food != 0 {
		t.Errorf("food = %v, want 0", food)
	}
	if math.Abs(nest-0.45) > 1e-12 {
		t.Errorf("nest = %v, want 0.45", nest)
	}

	// Idempotent once at zero
	f.Decay(p)
	food, _ = f.Read(p, Food)
	if food != 0 {
		t.Errorf("food after second decay = %v, want 0", food)
	}
}

func TestDiffuseBlendsTowardMean(t *testing.T) {
	f := NewField(4, 4, 4, testParams())
	p := voxel.Pos{X: 1, Y: 1, Z: 1}
	n1 := voxel.Pos{X: 2, Y: 1, Z: 1}
	n2 := voxel.Pos{X: 0, Y: 1, Z: 1}

	f.Deposit(p, Food, 2.0)
	f.Deposit(n1, Food, 1.0)
	// n2 stays at zero

	if err := f.Diffuse(p, []voxel.Pos{n1, n2}); err != nil {
		t.Fatal(err)
	}

	// mean = (2+1+0)/3 = 1; lerp(2, 1, 0.2) = 1.8
	got, _ := f.Read(p, Food)
	if math.Abs(got-1.8) > 1e-12 {
		t.Errorf("diffused = %v, want 1.8", got)
	}
	// Neighbours are not modified
	if v, _ := f.Read(n1, Food); v != 1.0 {
		t.Errorf("neighbour changed to %v", v)
	}
}

func TestDiffuseAtExcludesNonFieldNeighbours(t *testing.T) {
	f := NewField(3, 3, 3, testParams())
	p := voxel.Pos{X: 1, Y: 1, Z: 1}
	f.Deposit(p, Nest, 1.0)

	// Only the +X neighbour counts and it holds 1.0 too, so nothing changes
	onlyPlusX := func(n voxel.Pos) bool { return n == voxel.Pos{X: 2, Y: 1, Z: 1} }
	f.Deposit(voxel.Pos{X: 2, Y: 1, Z: 1}, Nest, 1.0)

	if err := f.DiffuseAt(p, onlyPlusX); err != nil {
		t.Fatal(err)
	}
	got, _ := f.Read(p, Nest)
	if got != 1.0 {
		t.Errorf("nest = %v, want 1.0 (zero-valued excluded cells must not drag the mean)", got)
	}
}

func TestDiffuseAtCorner(t *testing.T) {
	f := NewField(3, 3, 3, testParams())
	corner := voxel.Pos{}
	f.Deposit(corner, Food, 1.5)

	all := func(voxel.Pos) bool { return true }
	if err := f.DiffuseAt(corner, all); err != nil {
		t.Fatalf("DiffuseAt on corner: %v", err)
	}
	// Three in-field neighbours at zero: mean = 1.5/4
	want := 1.5 + (1.5/4-1.5)*0.2
	got, _ := f.Read(corner, Food)
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("corner = %v, want %v", got, want)
	}
}

func TestOutOfBounds(t *testing.T) {
	f := NewField(2, 2, 2, testParams())
	outside := voxel.Pos{X: 2, Y: 0, Z: 0}

	if _, err := f.Read(outside, Food); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("Read: got %v, want ErrOutOfBounds", err)
	}
	if err := f.Deposit(outside, Food, 1); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("Deposit: got %v, want ErrOutOfBounds", err)
	}
	if err := f.Decay(outside); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("Decay: got %v, want ErrOutOfBounds", err)
	}
	if err := f.Diffuse(voxel.Pos{}, []voxel.Pos{outside}); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("Diffuse: got %v, want ErrOutOfBounds", err)
	}
}

func TestValuesStayInRange(t *testing.T) {
	params := testParams()
	f := NewField(5, 5, 5, params)
	rng := rand.New(rand.NewSource(1))
	all := func(voxel.Pos) bool { return true }

	for i := 0; i < 5000; i++ {
		p := voxel.Pos{X: rng.Intn(5), Y: rng.Intn(5), Z: rng.Intn(5)}
		ch := Channel(rng.Intn(2))
		switch rng.Intn(3) {
		case 0:
			f.Deposit(p, ch, rng.Float64())
		case 1:
			f.Decay(p)
		case 2:
			f.DiffuseAt(p, all)
		}
	}

	for _, vals := range [][]float64{f.food, f.nest} {
		for i, v := range vals {
			if v < 0 || v > params.Max {
				t.Fatalf("cell %d = %v, outside [0, %v]", i, v, params.Max)
			}
		}
	}
}

func TestReset(t *testing.T) {
	f := NewField(3, 3, 3, testParams())
	f.Deposit(voxel.Pos{X: 1, Y: 1, Z: 1}, Food, 1)
	f.Reset()
	if f.Total(Food) != 0 {
		t.Errorf("Total after Reset = %v, want 0", f.Total(Food))
	}
}
