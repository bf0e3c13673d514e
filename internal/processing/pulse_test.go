package processing

import (
	"strings"
	"testing"

	pulse "github.com/jobirk/chirped-pulse-simulation"
	"github.com/jobirk/chirped-pulse-simulation/pkg/config"
	"github.com/jobirk/chirped-pulse-simulation/pkg/models"
)

func validRequest() models.SimulationRequest {
	return models.SimulationRequest{
		ZMin:         -10,
		ZMax:         10,
		ZPoints:      200,
		NuCenter:     1,
		NuMin:        0.001,
		NFrequencies: 300,
		SpecWidth:    30,
		KCoeffs:      []float64{1, 5, 0},
	}
}

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.FitMethod = "nm"
	cfg.Quiet = true
	return cfg
}

func TestProcessValidRequest(t *testing.T) {
	p := NewPulseProcessor()
	out, err := p.Process(validRequest(), 0, testConfig())
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(out.Z) != 200 || len(out.Field) != 200 || len(out.Env) != 200 {
		t.Fatalf("output lengths %d/%d/%d, want 200 each",
			len(out.Z), len(out.Field), len(out.Env))
	}
	if out.Fit.Status != pulse.OK {
		t.Errorf("fit status %s, want %s", out.Fit.Status, pulse.OK)
	}
	if len(out.Fit.Params) != 3 {
		t.Errorf("fit returned %d params, want 3", len(out.Fit.Params))
	}
	for i, v := range out.Env {
		if v < 0 {
			t.Fatalf("envelope[%d] = %v is negative", i, v)
		}
	}
}

func TestProcessUsesConfigCoefficients(t *testing.T) {
	req := validRequest()
	req.KCoeffs = nil

	cfg := testConfig()
	cfg.KCoeffs = config.ArrayFlags{2, 3, 0}

	p := NewPulseProcessor()
	sim, err := p.buildSimulation(req, cfg)
	if err != nil {
		t.Fatalf("buildSimulation: %v", err)
	}
	if sim.K != (pulse.Coeffs{2, 3, 0}) {
		t.Errorf("coefficients = %v, want [2 3 0]", sim.K)
	}
}

func TestProcessValidation(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*models.SimulationRequest)
		want   string
	}{
		{"too few z samples", func(r *models.SimulationRequest) { r.ZPoints = 1 }, "at least 2 samples"},
		{"inverted range", func(r *models.SimulationRequest) { r.ZMin, r.ZMax = 5, -5 }, "invalid spatial range"},
		{"no frequencies", func(r *models.SimulationRequest) { r.NFrequencies = 0 }, "at least 1 component"},
		{"bad center frequency", func(r *models.SimulationRequest) { r.NuCenter = 0 }, "must be positive"},
		{"short coefficients", func(r *models.SimulationRequest) { r.KCoeffs = []float64{1, 5} }, "k0, k1, k2"},
	}

	p := NewPulseProcessor()
	cfg := testConfig()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validRequest()
			tc.mutate(&req)
			_, err := p.Process(req, 0, cfg)
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestProcessorFuncErrorResult(t *testing.T) {
	p := NewPulseProcessor()
	fn := p.ProcessorFunc()

	req := validRequest()
	req.ZPoints = 0
	raw := fn(req, 0, testConfig())

	out, ok := raw.(models.ProcessOutput)
	if !ok {
		t.Fatalf("got %T, want models.ProcessOutput", raw)
	}
	if out.Fit.Status != "ERROR" {
		t.Errorf("status %s, want ERROR", out.Fit.Status)
	}
}
