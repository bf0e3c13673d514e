package pulse

import (
	"math"
	"testing"
)

func TestWaveVectorConstant(t *testing.T) {
	k := Coeffs{2.5, 0, 0}
	for _, nu := range []float64{0.001, 0.5, 1, 3, 10} {
		if got := WaveVector(nu, 1, k); got != 2.5 {
			t.Errorf("WaveVector(%v) = %v, want 2.5", nu, got)
		}
	}
}

func TestWaveVectorLinear(t *testing.T) {
	k := Coeffs{1, 5, 0}
	nuCenter := 1.0
	for _, nu := range []float64{0.2, 0.9, 1.0, 1.7} {
		want := 1 + 5*2*math.Pi*(nu-nuCenter)
		got := WaveVector(nu, nuCenter, k)
		if math.Abs(got-want) > 1e-12 {
			t.Errorf("WaveVector(%v) = %v, want %v", nu, got, want)
		}
	}

	// Equal frequency spacing must give equal increments.
	d1 := WaveVector(1.2, nuCenter, k) - WaveVector(1.1, nuCenter, k)
	d2 := WaveVector(1.1, nuCenter, k) - WaveVector(1.0, nuCenter, k)
	if math.Abs(d1-d2) > 1e-9 {
		t.Errorf("linear dispersion has unequal increments: %v vs %v", d1, d2)
	}
}

func TestWaveVectorQuadratic(t *testing.T) {
	k := Coeffs{0, 0, 2}
	nuCenter := 1.0
	for _, nu := range []float64{0.5, 1.0, 1.5} {
		d := 2 * math.Pi * (nu - nuCenter)
		want := 2 * d * d
		got := WaveVector(nu, nuCenter, k)
		if math.Abs(got-want) > 1e-12 {
			t.Errorf("WaveVector(%v) = %v, want %v", nu, got, want)
		}
	}
}

func TestCoeffsAccessors(t *testing.T) {
	k := Coeffs{1, 5, 0.5}
	if k.K0() != 1 || k.K1() != 5 || k.K2() != 0.5 {
		t.Errorf("accessors returned %v, %v, %v", k.K0(), k.K1(), k.K2())
	}
}
