package pulse

import (
	"log"

	"gonum.org/v1/gonum/floats"
)

// Times returns nSteps time samples linearly spaced over
// [tStart, tEnd]. A single step collapses to tStart.
func Times(tStart, tEnd float64, nSteps int) []float64 {
	ts := make([]float64, nSteps)
	if nSteps == 1 {
		ts[0] = tStart
		return ts
	}
	if nSteps > 1 {
		floats.Span(ts, tStart, tEnd)
	}
	return ts
}

// Propagate evaluates the field at nSteps times spaced linearly over
// [tStart, tEnd]. Row i of the result is FieldAt(times[i]); rows are
// computed independently and the output has shape (nSteps, len(Z)).
func (s *Simulation) Propagate(tStart, tEnd float64, nSteps int) [][]float64 {
	times := Times(tStart, tEnd, nSteps)
	pulses := make([][]float64, nSteps)
	for i, t := range times {
		pulses[i] = s.FieldAt(t)
		if (i+1)%10 == 0 || i == nSteps-1 {
			log.Printf("propagation step %d/%d (t=%.3f)", i+1, nSteps, t)
		}
	}
	return pulses
}
