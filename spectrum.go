package pulse

import (
	"gonum.org/v1/gonum/dsp/window"
	"gonum.org/v1/gonum/floats"
)

// Spectrum is a discretized frequency grid paired with per-sample
// Gaussian weights. Frequencies and Weights are generated together,
// always have identical length and share index correspondence.
type Spectrum struct {
	Frequencies []float64
	Weights     []float64
}

// NewSpectrum builds n frequency samples linearly spaced over
// [nuMin, 2·nuCenter] and a symmetric Gaussian weight sequence of the
// same length. The width is a standard deviation in sample-index
// units, so the weighting is centered on the sample midpoint and only
// coincides with nuCenter when the grid is symmetric around it.
func NewSpectrum(nuMin, nuCenter float64, n int, width float64) Spectrum {
	s := Spectrum{
		Frequencies: make([]float64, n),
		Weights:     make([]float64, n),
	}
	if n == 0 {
		return s
	}
	if n == 1 {
		s.Frequencies[0] = nuMin
		s.Weights[0] = 1
		return s
	}
	floats.Span(s.Frequencies, nuMin, 2*nuCenter)
	for i := range s.Weights {
		s.Weights[i] = 1
	}
	if width > 0 {
		// window.Gaussian scales σ by the half-width (n-1)/2; an
		// index-space std maps to Sigma = 2·width/(n-1).
		window.Gaussian{Sigma: 2 * width / float64(n-1)}.Transform(s.Weights)
	}
	return s
}

// WeightSum returns the sum of all spectral weights, a tight analytic
// upper bound on |E| at any point and time.
func (s Spectrum) WeightSum() float64 {
	return floats.Sum(s.Weights)
}

// CenterComponentIndices picks up to count sample indices from the
// middle fifth of an n-sample spectrum, evenly spaced. The middle
// fifth carries most of the pulse energy and is the region worth
// showing when plotting individual components.
func CenterComponentIndices(n, count int) []int {
	if count <= 0 {
		return nil
	}
	lo := 2 * n / 5
	hi := 3 * n / 5
	if hi <= lo {
		lo, hi = 0, n
	}
	spacing := (hi - lo) / count
	if spacing < 1 {
		spacing = 1
	}
	var idx []int
	for i := lo; i < hi; i += spacing {
		idx = append(idx, i)
	}
	return idx
}
