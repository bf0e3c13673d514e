package models

import (
	"time"

	pulse "github.com/jobirk/chirped-pulse-simulation"
)

// SimulationRequest describes a single wave-packet snapshot to
// compute: the spatial axis, the spectral parameters and the
// wave-vector coefficients.
type SimulationRequest struct {
	Timestamp    string    `json:"timestamp"`
	ZMin         float64   `json:"z_min"`
	ZMax         float64   `json:"z_max"`
	ZPoints      int       `json:"z_points"`
	Time         float64   `json:"time"`
	NuCenter     float64   `json:"nu_center"`
	NuMin        float64   `json:"nu_min"`
	NFrequencies int       `json:"n_frequencies"`
	SpecWidth    float64   `json:"spec_width"`
	KCoeffs      []float64 `json:"k_coeffs"`
}

// FrameBatch requests a full time series: one snapshot per step over
// [TStart, TEnd].
type FrameBatch struct {
	BatchID   string            `json:"batch_id"`
	Timestamp time.Time         `json:"timestamp"`
	Request   SimulationRequest `json:"request"`
	TStart    float64           `json:"t_start"`
	TEnd      float64           `json:"t_end"`
	NSteps    int               `json:"n_steps"`
}

// WorkItem represents a single frame computation task.
type WorkItem struct {
	ID        int
	RequestID string
	BatchID   string
	Step      int
	Time      float64
	Request   SimulationRequest
	Config    interface{} // *config.Config; kept loose to avoid an import cycle
	StartTime time.Time
}

// ProcessOutput couples a computed frame with its envelope and fit.
type ProcessOutput struct {
	Z     []float64
	Field []float64
	Env   []float64
	Fit   pulse.Result
}

// WorkResult contains the result of a frame computation.
type WorkResult struct {
	ID             int
	RequestID      string
	BatchID        string
	Step           int
	Time           float64
	Output         ProcessOutput
	ProcessingTime time.Duration
	Success        bool
}

// WebhookItem represents a frame push to the plotting frontend.
type WebhookItem struct {
	RequestID  string
	SimTime    float64
	Z          []float64
	Field      []float64
	Envelope   []float64
	FitParams  []float64
	FitErr     float64
	Components []ComponentSeries
}

// ComponentSeries is a single spectral component prepared for
// frontend plotting.
type ComponentSeries struct {
	Frequency float64   `json:"frequency"`
	Values    []float64 `json:"values"`
}

// WebhookResponse is the webhook payload structure.
type WebhookResponse struct {
	ID            string            `json:"id"`
	Time          string            `json:"time"`
	SimTime       float64           `json:"sim_time"`
	Z             []float64         `json:"z"`
	Field         []float64         `json:"field"`
	Envelope      []float64         `json:"envelope"`
	FitParameters []float64         `json:"fit_parameters"`
	FitResidual   float64           `json:"fit_residual"`
	Components    []ComponentSeries `json:"components,omitempty"`
}

// FrameTiming tracks performance metrics for a single frame.
type FrameTiming struct {
	Step           int           `json:"step"`
	ProcessingTime time.Duration `json:"processing_time_ms"`
	FitResidual    float64       `json:"fit_residual"`
	Success        bool          `json:"success"`
}

// BufferSet contains reusable buffers to reduce allocations across
// frame computations.
type BufferSet struct {
	Field []float64
	Env   []float64
}
