package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	pulse "github.com/jobirk/chirped-pulse-simulation"
	"github.com/jobirk/chirped-pulse-simulation/internal/utils"
	"github.com/jobirk/chirped-pulse-simulation/pkg/config"
	"github.com/jobirk/chirped-pulse-simulation/pkg/models"
	"github.com/jobirk/chirped-pulse-simulation/pkg/webhook"
	"github.com/jobirk/chirped-pulse-simulation/pkg/worker"
)

// maxComponentSeries matches the renderer's spectral-component
// overlay.
const maxComponentSeries = 20

// SimulateHandler handles single-snapshot simulation requests.
type SimulateHandler struct {
	config     *config.Config
	workerPool *worker.Pool
	processor  ProcessorFunc
	decomposer *webhook.Decomposer
}

// ProcessorFunc computes one frame with envelope diagnostics.
type ProcessorFunc func(req models.SimulationRequest, t float64, cfg *config.Config) interface{}

// NewSimulateHandler creates a new snapshot handler
func NewSimulateHandler(cfg *config.Config, pool *worker.Pool, processor ProcessorFunc) *SimulateHandler {
	return &SimulateHandler{
		config:     cfg,
		workerPool: pool,
		processor:  processor,
		decomposer: webhook.NewDecomposer(),
	}
}

// ServeHTTP implements the http.Handler interface
func (h *SimulateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.setupCORS(w)

	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	if r.Method != "POST" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req models.SimulationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "Invalid JSON format", http.StatusBadRequest)
		return
	}

	if req.ZPoints == 0 {
		h.writeError(w, "No spatial samples requested", http.StatusBadRequest)
		return
	}

	requestID := utils.GenerateID()

	// Compute asynchronously; the frontend receives the frame via
	// webhook.
	go h.processAsync(requestID, req)

	response := map[string]interface{}{
		"success":    true,
		"request_id": requestID,
		"message":    "Simulation started",
	}

	if !h.config.Quiet {
		log.Printf("HTTP request received - ID: %s, axis: %d points, spectrum: %d components",
			requestID, req.ZPoints, req.NFrequencies)
	}

	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(response)
}

// processAsync computes the snapshot and queues the webhook push.
func (h *SimulateHandler) processAsync(requestID string, req models.SimulationRequest) {
	raw := h.processor(req, req.Time, h.config)

	output, ok := raw.(models.ProcessOutput)
	if !ok {
		log.Printf("unexpected processor output for %s", requestID)
		return
	}

	item := models.WebhookItem{
		RequestID: requestID,
		SimTime:   req.Time,
		Z:         output.Z,
		Field:     output.Field,
		Envelope:  output.Env,
		FitParams: output.Fit.Params,
		FitErr:    output.Fit.Min,
	}

	// Attach the central spectral components for the frontend overlay.
	// Output.Z is only populated for frames that computed successfully.
	if len(output.Z) > 0 {
		sim := &pulse.Simulation{
			Z:            output.Z,
			NuCenter:     req.NuCenter,
			NuMin:        req.NuMin,
			NFrequencies: req.NFrequencies,
			SpecWidth:    req.SpecWidth,
		}
		if len(req.KCoeffs) == 3 {
			copy(sim.K[:], req.KCoeffs)
		} else {
			sim.K = pulse.Coeffs(h.config.Coeffs())
		}
		item.Components = h.decomposer.ComponentSeries(sim, req.Time, maxComponentSeries)
	}

	h.workerPool.QueueWebhook(item)
}

// setupCORS sets up CORS headers
func (h *SimulateHandler) setupCORS(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
}

// writeError writes an error response
func (h *SimulateHandler) writeError(w http.ResponseWriter, message string, statusCode int) {
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
