package pulse

import "math"

// Simulation computes wave-packet snapshots on a fixed spatial axis by
// superposing sinusoidal plane waves over a weighted frequency
// spectrum. The zero value is not usable; fill the fields or start
// from NewSimulation.
type Simulation struct {
	// Z is the spatial axis the packet propagates on. It is treated
	// as immutable input.
	Z []float64
	// NuCenter is the center frequency of the spectrum.
	NuCenter float64
	// NuMin is the lowest frequency included; the spectrum spans
	// [NuMin, 2·NuCenter].
	NuMin float64
	// NFrequencies is the number of spectral components in the sum.
	NFrequencies int
	// SpecWidth is the Gaussian spectral width in sample-index units
	// (not a physical Δν).
	SpecWidth float64
	// K holds the wave-vector Taylor coefficients.
	K Coeffs
}

// NewSimulation returns a Simulation over z with the canonical
// defaults: nu_center=1, nu_min=0.001, 4000 spectral components of
// index-space width 100 and k = [1, 5, 0].
func NewSimulation(z []float64) *Simulation {
	return &Simulation{
		Z:            z,
		NuCenter:     1,
		NuMin:        0.001,
		NFrequencies: 4000,
		SpecWidth:    100,
		K:            Coeffs{1, 5, 0},
	}
}

// Spectrum materializes the frequency grid and weight sequence for the
// current parameters. A fresh copy is built per call and is read-only
// afterwards.
func (s *Simulation) Spectrum() Spectrum {
	return NewSpectrum(s.NuMin, s.NuCenter, s.NFrequencies, s.SpecWidth)
}

// FieldAt returns the field amplitude along Z at time t:
//
//	E(z) = Σ_i w_i · sin(2π·ν_i·t − k(ν_i)·z)
//
// The result has len(Z) entries and is a pure function of the
// simulation parameters and t. Degenerate inputs (no spatial samples,
// no frequencies) yield an empty or zero field without validation.
func (s *Simulation) FieldAt(t float64) []float64 {
	spec := s.Spectrum()
	field := make([]float64, len(s.Z))
	for i, nu := range spec.Frequencies {
		kNu := WaveVector(nu, s.NuCenter, s.K)
		wt := 2 * math.Pi * nu * t
		w := spec.Weights[i]
		for j, z := range s.Z {
			field[j] += w * math.Sin(wt-kNu*z)
		}
	}
	return field
}

// ComponentsAt returns the individual weighted component fields at
// time t, one row per spectral sample. Summing the rows elementwise
// reproduces FieldAt(t) exactly; the rows exist for diagnostic
// rendering of the spectral decomposition.
func (s *Simulation) ComponentsAt(t float64) [][]float64 {
	spec := s.Spectrum()
	components := make([][]float64, len(spec.Frequencies))
	for i, nu := range spec.Frequencies {
		kNu := WaveVector(nu, s.NuCenter, s.K)
		wt := 2 * math.Pi * nu * t
		w := spec.Weights[i]
		row := make([]float64, len(s.Z))
		for j, z := range s.Z {
			row[j] = w * math.Sin(wt-kNu*z)
		}
		components[i] = row
	}
	return components
}
