package processing

import (
	"fmt"
	"log"
	"time"

	"gonum.org/v1/gonum/floats"

	pulse "github.com/jobirk/chirped-pulse-simulation"
	"github.com/jobirk/chirped-pulse-simulation/pkg/config"
	"github.com/jobirk/chirped-pulse-simulation/pkg/models"
)

// PulseProcessor validates simulation requests and runs the spectral
// summation plus the envelope diagnostics. The numeric core never
// validates; the fail-fast checks for malformed requests live here.
type PulseProcessor struct{}

// NewPulseProcessor creates a new pulse processor
func NewPulseProcessor() *PulseProcessor {
	return &PulseProcessor{}
}

// Process computes the field snapshot for req at time t and fits a
// Gaussian to its envelope.
func (p *PulseProcessor) Process(req models.SimulationRequest, t float64, cfg *config.Config) (models.ProcessOutput, error) {
	sim, err := p.buildSimulation(req, cfg)
	if err != nil {
		return models.ProcessOutput{}, err
	}

	startTime := time.Now()
	field := sim.FieldAt(t)
	env := pulse.Envelope(field)

	fit := pulse.NewEnvelopeFit(sim.Z, env)
	fit.Mode = cfg.FitMethod
	res := fit.Solve()
	duration := time.Since(startTime)

	if !cfg.Quiet {
		log.Printf("frame t=%.3f computed in %v - fit: %s, residual: %.6e, params: %v",
			t, duration, res.Status, res.Min, res.Params)
	}

	return models.ProcessOutput{
		Z:     sim.Z,
		Field: field,
		Env:   env,
		Fit:   res,
	}, nil
}

// buildSimulation turns a request into a Simulation, failing fast and
// loudly on degenerate inputs instead of producing empty output.
func (p *PulseProcessor) buildSimulation(req models.SimulationRequest, cfg *config.Config) (*pulse.Simulation, error) {
	if req.ZPoints < 2 {
		return nil, fmt.Errorf("spatial axis needs at least 2 samples, got %d", req.ZPoints)
	}
	if req.ZMax <= req.ZMin {
		return nil, fmt.Errorf("invalid spatial range [%v, %v]", req.ZMin, req.ZMax)
	}
	if req.NFrequencies < 1 {
		return nil, fmt.Errorf("spectrum needs at least 1 component, got %d", req.NFrequencies)
	}
	if req.NuCenter <= 0 {
		return nil, fmt.Errorf("center frequency must be positive, got %v", req.NuCenter)
	}
	if n := len(req.KCoeffs); n != 0 && n != 3 {
		return nil, fmt.Errorf("wave-vector coefficients must be [k0, k1, k2], got %d values", n)
	}

	z := make([]float64, req.ZPoints)
	floats.Span(z, req.ZMin, req.ZMax)

	sim := &pulse.Simulation{
		Z:            z,
		NuCenter:     req.NuCenter,
		NuMin:        req.NuMin,
		NFrequencies: req.NFrequencies,
		SpecWidth:    req.SpecWidth,
	}
	if len(req.KCoeffs) == 3 {
		copy(sim.K[:], req.KCoeffs)
	} else {
		sim.K = pulse.Coeffs(cfg.Coeffs())
	}
	return sim, nil
}

// ProcessorFunc adapts Process to the worker pool signature. Failed
// requests surface as an ERROR result rather than a panic.
func (p *PulseProcessor) ProcessorFunc() func(req models.SimulationRequest, t float64, cfg *config.Config) interface{} {
	return func(req models.SimulationRequest, t float64, cfg *config.Config) interface{} {
		output, err := p.Process(req, t, cfg)
		if err != nil {
			log.Printf("frame processing error: %v", err)
			return models.ProcessOutput{
				Fit: pulse.Result{
					Status: "ERROR",
					Params: []float64{},
				},
			}
		}
		return output
	}
}
