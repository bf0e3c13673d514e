package server

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/jobirk/chirped-pulse-simulation/pkg/config"
	"github.com/jobirk/chirped-pulse-simulation/pkg/handlers"
	"github.com/jobirk/chirped-pulse-simulation/pkg/profiling"
	"github.com/jobirk/chirped-pulse-simulation/pkg/webhook"
	"github.com/jobirk/chirped-pulse-simulation/pkg/worker"
)

// Server is the HTTP front of the simulation pipeline: it owns the
// worker pool, the webhook client and the profiler.
type Server struct {
	config        *config.Config
	serverConfig  *config.ServerConfig
	workerPool    *worker.Pool
	webhookClient *webhook.Client
	httpServer    *http.Server
	profiler      *profiling.Profiler
	middleware    *profiling.Middleware
}

// Options holds configuration for creating a new server
type Options struct {
	Config       *config.Config
	ServerConfig *config.ServerConfig
	Processor    worker.ProcessorFunc
}

// New creates a new server instance
func New(opts Options) *Server {
	if opts.Config == nil {
		opts.Config = config.DefaultConfig()
	}
	if opts.ServerConfig == nil {
		opts.ServerConfig = config.DefaultServerConfig()
	}

	webhookClient := webhook.NewClient(opts.ServerConfig.WebhookURL, opts.Config)

	workerPool := worker.New(worker.Options{
		Workers:   opts.ServerConfig.WorkerCount,
		Processor: opts.Processor,
		Webhook:   webhookClient,
	})

	profiler := profiling.New(opts.ServerConfig)
	middleware := profiling.NewMiddleware(opts.ServerConfig.EnableProfiling)

	server := &Server{
		config:        opts.Config,
		serverConfig:  opts.ServerConfig,
		workerPool:    workerPool,
		webhookClient: webhookClient,
		profiler:      profiler,
		middleware:    middleware,
	}

	server.setupRoutes(opts.Processor)
	return server
}

// setupRoutes configures HTTP routes and handlers
func (s *Server) setupRoutes(processor worker.ProcessorFunc) {
	mux := http.NewServeMux()

	simulateHandler := handlers.NewSimulateHandler(s.config, s.workerPool, handlers.ProcessorFunc(processor))
	animateHandler := handlers.NewAnimateHandler(s.config, s.workerPool, handlers.ProcessorFunc(processor))

	mux.Handle("/simulate", s.middleware.ProfiledHandler("simulate-single", simulateHandler))
	mux.Handle("/simulate/animate", s.middleware.ProfiledHandler("simulate-animate", animateHandler))
	mux.HandleFunc("/health", s.healthHandler)
	mux.HandleFunc("/debug/gc", s.gcHandler)
	mux.HandleFunc("/debug/memory", s.memoryHandler)

	s.httpServer = &http.Server{
		Addr:         ":" + s.serverConfig.Port,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// healthHandler provides a simple health check endpoint
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{"status":"healthy","timestamp":"%s"}`, time.Now().Format(time.RFC3339))
}

// gcHandler triggers garbage collection and returns stats
func (s *Server) gcHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	profiling.ForceGC()
	stats := profiling.GetGCStats()

	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{
		"gc_runs": %d,
		"pause_total_ms": %.3f,
		"pause_recent_us": %.3f,
		"cpu_percent": %.2f,
		"last_gc": "%s",
		"timestamp": "%s"
	}`,
		stats.NumGC,
		float64(stats.PauseTotal.Nanoseconds())/1000000.0,
		float64(stats.PauseRecent.Nanoseconds())/1000.0,
		stats.GCCPUPercent,
		stats.LastGC.Format(time.RFC3339),
		time.Now().Format(time.RFC3339))
}

// memoryHandler provides current memory statistics
func (s *Server) memoryHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	profiling.LogGCStats()

	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{"message":"Memory stats logged to console","timestamp":"%s"}`,
		time.Now().Format(time.RFC3339))
}

// Start starts the HTTP server
func (s *Server) Start() error {
	if err := s.profiler.Start(); err != nil {
		log.Printf("Failed to start profiler: %v", err)
	}

	log.Println("Starting HTTP server on port", s.serverConfig.Port)
	log.Println("Endpoints available:")
	log.Printf("  - Snapshot:  http://localhost:%s/simulate", s.serverConfig.Port)
	log.Printf("  - Animation: http://localhost:%s/simulate/animate", s.serverConfig.Port)
	log.Printf("  - Health:    http://localhost:%s/health", s.serverConfig.Port)
	log.Printf("  - GC:        http://localhost:%s/debug/gc", s.serverConfig.Port)
	log.Printf("  - Memory:    http://localhost:%s/debug/memory", s.serverConfig.Port)

	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown() error {
	log.Println("Shutting down server...")

	if err := s.profiler.Stop(); err != nil {
		log.Printf("Profiler shutdown error: %v", err)
	}

	s.workerPool.Shutdown()

	log.Println("Server shutdown complete")
	return nil
}
