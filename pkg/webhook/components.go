package webhook

import (
	"math"

	pulse "github.com/jobirk/chirped-pulse-simulation"
	"github.com/jobirk/chirped-pulse-simulation/pkg/models"
)

// Decomposer prepares per-component diagnostic series for the
// plotting frontend, mirroring the spectral-component overlay of the
// local renderer.
type Decomposer struct{}

// NewDecomposer creates a new component decomposer
func NewDecomposer() *Decomposer {
	return &Decomposer{}
}

// ComponentSeries returns up to maxSeries weighted spectral
// components of sim at time t, drawn from the middle fifth of the
// spectrum where the pulse energy is concentrated. Only the selected
// components are computed, so this stays cheap on large spectra.
func (d *Decomposer) ComponentSeries(sim *pulse.Simulation, t float64, maxSeries int) []models.ComponentSeries {
	spec := sim.Spectrum()

	var series []models.ComponentSeries
	for _, i := range pulse.CenterComponentIndices(len(spec.Frequencies), maxSeries) {
		nu := spec.Frequencies[i]
		kNu := pulse.WaveVector(nu, sim.NuCenter, sim.K)
		wt := 2 * math.Pi * nu * t
		w := spec.Weights[i]

		values := make([]float64, len(sim.Z))
		for j, z := range sim.Z {
			values[j] = w * math.Sin(wt-kNu*z)
		}
		series = append(series, models.ComponentSeries{
			Frequency: nu,
			Values:    values,
		})
	}
	return series
}
