package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"gonum.org/v1/gonum/floats"

	pulse "github.com/jobirk/chirped-pulse-simulation"
	"github.com/jobirk/chirped-pulse-simulation/internal/processing"
	"github.com/jobirk/chirped-pulse-simulation/internal/render"
	"github.com/jobirk/chirped-pulse-simulation/pkg/config"
	"github.com/jobirk/chirped-pulse-simulation/pkg/server"
)

func main() {
	cfg := parseFlags()

	if cfg.HTTPServer {
		runServer(cfg)
		return
	}

	z := make([]float64, cfg.ZPoints)
	floats.Span(z, cfg.ZMin, cfg.ZMax)

	sim := &pulse.Simulation{
		Z:            z,
		NuCenter:     cfg.NuCenter,
		NuMin:        cfg.NuMin,
		NFrequencies: cfg.NFrequencies,
		SpecWidth:    cfg.SpecWidth,
		K:            pulse.Coeffs(cfg.Coeffs()),
	}

	if cfg.SavePlots {
		savePlots(sim, cfg)
	}

	var pulses [][]float64
	if cfg.Concurrency {
		pulses = sim.PropagateConcurrent(cfg.TStart, cfg.TEnd, cfg.NSteps, int(cfg.Threads))
	} else {
		pulses = sim.Propagate(cfg.TStart, cfg.TEnd, cfg.NSteps)
	}

	if cfg.Animate {
		if err := os.MkdirAll(cfg.PlotDir, 0755); err != nil {
			log.Fatal(err)
		}
		gifPath := filepath.Join(cfg.PlotDir, "animation.gif")
		if err := render.AnimateGIF(gifPath, z, pulses, cfg.GIFDelay); err != nil {
			log.Fatal(err)
		}
		log.Printf("animation written to %s", gifPath)
	}

	if len(pulses) == 0 {
		log.Fatal("no time steps requested")
	}

	// Envelope fit of the final frame as the broadening summary.
	env := pulse.Envelope(pulses[len(pulses)-1])
	fit := pulse.NewEnvelopeFit(z, env)
	fit.Mode = cfg.FitMethod
	res := fit.Solve()

	if !cfg.Quiet {
		log.Printf("Final result: Min=%.12e, Params=%v, Status=%s", res.Min, res.Params, res.Status)
	}
}

func savePlots(sim *pulse.Simulation, cfg *config.Config) {
	if err := os.MkdirAll(cfg.PlotDir, 0755); err != nil {
		log.Fatal(err)
	}

	field := sim.FieldAt(cfg.TStart)
	components := sim.ComponentsAt(cfg.TStart)
	spec := sim.Spectrum()

	if err := render.SaveComponents(cfg.PlotDir, sim.Z, components, spec.Frequencies); err != nil {
		log.Fatal(err)
	}
	if err := render.SavePulse(cfg.PlotDir, sim.Z, field); err != nil {
		log.Fatal(err)
	}
	if err := render.SaveSpectrum(cfg.PlotDir, spec); err != nil {
		log.Fatal(err)
	}

	log.Printf("plots written to %s", cfg.PlotDir)
}

func parseFlags() *config.Config {
	cfg := config.DefaultConfig()

	flag.Float64Var(&cfg.NuCenter, "nu", cfg.NuCenter, "Center frequency of the spectrum")
	flag.Float64Var(&cfg.NuMin, "numin", cfg.NuMin, "Minimal frequency included in the spectrum")
	flag.IntVar(&cfg.NFrequencies, "n", cfg.NFrequencies, "Number of spectral components")
	flag.Float64Var(&cfg.SpecWidth, "width", cfg.SpecWidth, "Spectral width in sample-index units")
	flag.Var(&cfg.KCoeffs, "k", "Wave-vector Taylor coefficients k0, k1, k2 (repeatable)")
	flag.Float64Var(&cfg.ZMin, "zmin", cfg.ZMin, "Lower end of the spatial axis")
	flag.Float64Var(&cfg.ZMax, "zmax", cfg.ZMax, "Upper end of the spatial axis")
	flag.IntVar(&cfg.ZPoints, "zpoints", cfg.ZPoints, "Number of spatial samples")
	flag.Float64Var(&cfg.TStart, "tstart", cfg.TStart, "Start time of the propagation")
	flag.Float64Var(&cfg.TEnd, "tend", cfg.TEnd, "End time of the propagation")
	flag.IntVar(&cfg.NSteps, "steps", cfg.NSteps, "Number of time steps")
	flag.StringVar(&cfg.FitMethod, "m", cfg.FitMethod, "Envelope fit method (lm, nm, lbfgs, newton)")
	flag.BoolVar(&cfg.SavePlots, "plots", false, "Save snapshot plots (components, pulse, spectrum)")
	flag.BoolVar(&cfg.Animate, "animate", false, "Render the propagation as an animated GIF")
	flag.StringVar(&cfg.PlotDir, "plotdir", cfg.PlotDir, "Output directory for plots")
	flag.IntVar(&cfg.GIFDelay, "delay", cfg.GIFDelay, "GIF inter-frame delay (10ms units)")
	flag.BoolVar(&cfg.Concurrency, "concurrency", false, "Use concurrency for the time series")
	flag.UintVar(&cfg.Threads, "threads", cfg.Threads, "Number of threads to use for calculations")
	flag.BoolVar(&cfg.HTTPServer, "http", false, "Start HTTP server on port 8080")
	flag.BoolVar(&cfg.EnableProfiling, "profile", false, "Enable pprof profiling")
	flag.BoolVar(&cfg.Quiet, "q", false, "Quiet mode")
	flag.Parse()

	return cfg
}

func runServer(cfg *config.Config) {
	processor := processing.NewPulseProcessor()

	serverConfig := config.DefaultServerConfig()
	serverConfig.WorkerCount = int(cfg.Threads)
	serverConfig.EnableProfiling = cfg.EnableProfiling

	srv := server.New(server.Options{
		Config:       cfg,
		ServerConfig: serverConfig,
		Processor:    processor.ProcessorFunc(),
	})

	setupGracefulShutdown(srv)

	if err := srv.Start(); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

func setupGracefulShutdown(srv *server.Server) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Println("Received shutdown signal...")
		if err := srv.Shutdown(); err != nil {
			log.Printf("Error during shutdown: %v", err)
		}
		os.Exit(0)
	}()
}
