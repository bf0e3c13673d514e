package config

import (
	"strconv"
)

// ArrayFlags collects a repeatable float flag, e.g. -k 1 -k 5 -k 0
// for the wave-vector coefficients.
type ArrayFlags []float64

func (a *ArrayFlags) String() string {
	return "ArrayFlags"
}

func (a *ArrayFlags) Set(value string) error {
	if val, err := strconv.ParseFloat(value, 64); err == nil {
		*a = append(*a, val)
		return nil
	} else {
		return err
	}
}

// Config holds all simulation and rendering settings.
type Config struct {
	NuCenter        float64
	NuMin           float64
	NFrequencies    int
	SpecWidth       float64
	KCoeffs         ArrayFlags
	ZMin            float64
	ZMax            float64
	ZPoints         int
	TStart          float64
	TEnd            float64
	NSteps          int
	FitMethod       string
	PlotDir         string
	SavePlots       bool
	Animate         bool
	GIFDelay        int
	Concurrency     bool
	Threads         uint
	Quiet           bool
	HTTPServer      bool
	EnableProfiling bool
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port            string
	WorkerCount     int
	WebhookURL      string
	EnableMetrics   bool
	EnableProfiling bool
	ProfilingPort   string
}

// Coeffs returns the trailing three -k values, so explicitly passed
// flags override the defaults the flag package appends to.
func (c *Config) Coeffs() [3]float64 {
	v := c.KCoeffs
	if len(v) > 3 {
		v = v[len(v)-3:]
	}
	var k [3]float64
	copy(k[:], v)
	return k
}

// DefaultConfig returns a configuration with the canonical simulation
// parameters of the original notebook.
func DefaultConfig() *Config {
	return &Config{
		NuCenter:     1,
		NuMin:        0.001,
		NFrequencies: 4000,
		SpecWidth:    100,
		KCoeffs:      ArrayFlags{1, 5, 0},
		ZMin:         -10,
		ZMax:         10,
		ZPoints:      500,
		TStart:       0,
		TEnd:         10,
		NSteps:       100,
		FitMethod:    "lm",
		PlotDir:      "plots",
		GIFDelay:     3,
		Threads:      5,
	}
}

// DefaultServerConfig returns server configuration with sensible defaults
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:            "8080",
		WorkerCount:     5,
		WebhookURL:      "http://webplot:3001/webhook",
		EnableMetrics:   true,
		EnableProfiling: false,
		ProfilingPort:   "6060",
	}
}
