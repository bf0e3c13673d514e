package pulse

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/floats"
)

func TestTimes(t *testing.T) {
	ts := Times(0, 10, 5)
	if len(ts) != 5 {
		t.Fatalf("got %d times, want 5", len(ts))
	}
	if ts[0] != 0 || math.Abs(ts[4]-10) > 1e-12 {
		t.Errorf("endpoints = %v, %v, want 0, 10", ts[0], ts[4])
	}

	single := Times(2.5, 10, 1)
	if len(single) != 1 || single[0] != 2.5 {
		t.Errorf("single step = %v, want [2.5]", single)
	}

	if empty := Times(0, 10, 0); len(empty) != 0 {
		t.Errorf("zero steps gave %d times", len(empty))
	}
}

func TestPropagateShape(t *testing.T) {
	sim := NewSimulation(testAxis(50))
	sim.NFrequencies = 100
	sim.SpecWidth = 20

	pulses := sim.Propagate(0, 3, 7)
	if len(pulses) != 7 {
		t.Fatalf("got %d rows, want 7", len(pulses))
	}
	for i, row := range pulses {
		if len(row) != 50 {
			t.Fatalf("row %d has %d samples, want 50", i, len(row))
		}
	}

	// Each row is the snapshot at the matching time sample.
	times := Times(0, 3, 7)
	for i, tm := range times {
		want := sim.FieldAt(tm)
		for j := range want {
			if pulses[i][j] != want[j] {
				t.Fatalf("row %d differs from FieldAt(%v) at %d", i, tm, j)
			}
		}
	}
}

func TestPropagateSingleStep(t *testing.T) {
	sim := NewSimulation(testAxis(40))
	sim.NFrequencies = 100
	sim.SpecWidth = 20

	pulses := sim.Propagate(1.5, 9, 1)
	if len(pulses) != 1 {
		t.Fatalf("got %d rows, want 1", len(pulses))
	}
	want := sim.FieldAt(1.5)
	for j := range want {
		if pulses[0][j] != want[j] {
			t.Fatalf("single-step row differs from FieldAt at %d", j)
		}
	}
}

func TestPropagateConcurrentMatchesSequential(t *testing.T) {
	sim := NewSimulation(testAxis(60))
	sim.NFrequencies = 200
	sim.SpecWidth = 30

	seq := sim.Propagate(0, 2, 8)
	con := sim.PropagateConcurrent(0, 2, 8, 4)
	if len(con) != len(seq) {
		t.Fatalf("got %d rows, want %d", len(con), len(seq))
	}
	for i := range seq {
		for j := range seq[i] {
			if con[i][j] != seq[i][j] {
				t.Fatalf("concurrent row %d differs at %d: %v vs %v",
					i, j, con[i][j], seq[i][j])
			}
		}
	}
}

// With k0=0, k2=0 the packet translates rigidly at 1/k1 and the
// carrier slips by 2π·nu_center·Δt per unit time. Choosing nu_center=1
// and Δt=1 makes the slip a whole number of cycles, so the snapshot at
// t=1 is an exact grid translation of the snapshot at t=0.
func TestPropagateGroupVelocityTranslation(t *testing.T) {
	const points = 2001 // dz = 0.01 over [-10, 10]
	z := make([]float64, points)
	floats.Span(z, -10, 10)

	sim := NewSimulation(z)
	sim.NFrequencies = 800
	sim.SpecWidth = 60
	sim.K = Coeffs{0, 5, 0}

	e0 := sim.FieldAt(0)
	e1 := sim.FieldAt(1)

	// Δz = Δt/k1 = 0.2 is exactly 20 grid samples.
	const shift = 20
	tol := 1e-6 * sim.Spectrum().WeightSum()
	for j := shift; j < points; j++ {
		if d := math.Abs(e1[j] - e0[j-shift]); d > tol {
			t.Fatalf("translated field differs at %d by %v (tol %v)", j, d, tol)
		}
	}
}
