package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/jobirk/chirped-pulse-simulation/internal/processing"
	"github.com/jobirk/chirped-pulse-simulation/pkg/config"
	"github.com/jobirk/chirped-pulse-simulation/pkg/server"
)

func main() {
	cfg := parseFlags()

	processor := processing.NewPulseProcessor()

	serverConfig := &config.ServerConfig{
		Port:            "8080",
		WorkerCount:     int(cfg.Threads),
		WebhookURL:      "http://webplot:3001/webhook",
		EnableMetrics:   true,
		EnableProfiling: cfg.EnableProfiling,
		ProfilingPort:   "6060",
	}

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

// parseFlags parses command line flags and returns configuration
func parseFlags() *config.Config {
	cfg := config.DefaultConfig()

	flag.Float64Var(&cfg.NuCenter, "nu", cfg.NuCenter, "Default center frequency")
	flag.StringVar(&cfg.FitMethod, "method", cfg.FitMethod, "Envelope fit method")
	flag.UintVar(&cfg.Threads, "threads", cfg.Threads, "Number of worker threads")
	flag.BoolVar(&cfg.Animate, "animate", cfg.Animate, "Render batch requests as GIF animations")
	flag.StringVar(&cfg.PlotDir, "plotdir", cfg.PlotDir, "Output directory for rendered animations")
	flag.BoolVar(&cfg.Quiet, "quiet", cfg.Quiet, "Suppress verbose output")
	flag.BoolVar(&cfg.EnableProfiling, "profile", cfg.EnableProfiling, "Enable pprof profiling")
	flag.Parse()

	return cfg
}

// setupGracefulShutdown sets up graceful shutdown handling
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
