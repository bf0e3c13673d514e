package pulse

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/floats"
)

func testAxis(n int) []float64 {
	z := make([]float64, n)
	floats.Span(z, -10, 10)
	return z
}

func TestFieldAtDeterminism(t *testing.T) {
	sim := NewSimulation(testAxis(200))
	sim.NFrequencies = 500
	sim.SpecWidth = 50

	a := sim.FieldAt(1.25)
	b := sim.FieldAt(1.25)
	for j := range a {
		if a[j] != b[j] {
			t.Fatalf("FieldAt not deterministic at %d: %v vs %v", j, a[j], b[j])
		}
	}
}

func TestFieldAtShapeAndBound(t *testing.T) {
	sim := NewSimulation(testAxis(500))
	sim.SpecWidth = 200

	bound := sim.Spectrum().WeightSum()
	for _, tm := range []float64{0, 2.5} {
		field := sim.FieldAt(tm)
		if len(field) != 500 {
			t.Fatalf("field has %d samples, want 500", len(field))
		}
		for j, v := range field {
			if math.Abs(v) > bound*(1+1e-12) {
				t.Fatalf("t=%v: |field[%d]| = %v exceeds weight sum %v", tm, j, v, bound)
			}
		}
	}
}

// With k1 = k2 = 0 every component sees the same wave vector, so at
// t=0 the sum collapses to -W·sin(k0·z).
func TestFieldAtConstantWaveVector(t *testing.T) {
	z := testAxis(501)
	sim := NewSimulation(z)
	sim.NFrequencies = 1000
	sim.SpecWidth = 100
	sim.K = Coeffs{1, 0, 0}

	w := sim.Spectrum().WeightSum()
	field := sim.FieldAt(0)
	for j := range z {
		want := -w * math.Sin(z[j])
		if math.Abs(field[j]-want) > 1e-9*w {
			t.Fatalf("field[%d] = %v, want %v", j, field[j], want)
		}
	}
}

func TestFieldAtSingleFrequency(t *testing.T) {
	z := testAxis(100)
	sim := NewSimulation(z)
	sim.NFrequencies = 1

	spec := sim.Spectrum()
	nu := spec.Frequencies[0]
	k := WaveVector(nu, sim.NuCenter, sim.K)

	field := sim.FieldAt(0.7)
	for j := range z {
		want := math.Sin(2*math.Pi*nu*0.7 - k*z[j])
		if field[j] != want {
			t.Fatalf("field[%d] = %v, want %v", j, field[j], want)
		}
	}
}

func TestComponentsSumToField(t *testing.T) {
	sim := NewSimulation(testAxis(120))
	sim.NFrequencies = 300
	sim.SpecWidth = 40

	field := sim.FieldAt(1.5)
	components := sim.ComponentsAt(1.5)
	if len(components) != 300 {
		t.Fatalf("got %d component rows, want 300", len(components))
	}

	for j := range sim.Z {
		var sum float64
		for i := range components {
			sum += components[i][j]
		}
		if sum != field[j] {
			t.Fatalf("component sum differs from field at %d: %v vs %v", j, sum, field[j])
		}
	}
}

func TestFieldAtDegenerate(t *testing.T) {
	sim := NewSimulation(nil)
	if field := sim.FieldAt(0); len(field) != 0 {
		t.Errorf("empty axis gave %d samples", len(field))
	}

	sim = NewSimulation(testAxis(10))
	sim.NFrequencies = 0
	field := sim.FieldAt(0)
	if len(field) != 10 {
		t.Fatalf("got %d samples, want 10", len(field))
	}
	for j, v := range field {
		if v != 0 {
			t.Errorf("field[%d] = %v with no spectral components", j, v)
		}
	}
}
