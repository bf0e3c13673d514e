package handlers

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	pulse "github.com/jobirk/chirped-pulse-simulation"
	"github.com/jobirk/chirped-pulse-simulation/internal/render"
	"github.com/jobirk/chirped-pulse-simulation/internal/utils"
	"github.com/jobirk/chirped-pulse-simulation/pkg/config"
	"github.com/jobirk/chirped-pulse-simulation/pkg/models"
	"github.com/jobirk/chirped-pulse-simulation/pkg/worker"
)

// AnimateHandler handles time-series simulation requests: one frame
// per time step, computed through the worker pool.
type AnimateHandler struct {
	config     *config.Config
	workerPool *worker.Pool
	processor  ProcessorFunc
}

// NewAnimateHandler creates a new time-series handler
func NewAnimateHandler(cfg *config.Config, pool *worker.Pool, processor ProcessorFunc) *AnimateHandler {
	return &AnimateHandler{
		config:     cfg,
		workerPool: pool,
		processor:  processor,
	}
}

// ServeHTTP implements the http.Handler interface
func (h *AnimateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.setupCORS(w)

	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	if r.Method != "POST" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var batch models.FrameBatch
	if err := json.NewDecoder(r.Body).Decode(&batch); err != nil {
		h.writeError(w, "Invalid JSON format", http.StatusBadRequest)
		return
	}

	if batch.NSteps <= 0 {
		h.writeError(w, "No time steps requested", http.StatusBadRequest)
		return
	}
	if batch.BatchID == "" {
		batch.BatchID = utils.GenerateID()
	}

	log.Printf("time-series processing started - ID: %s, steps: %d", batch.BatchID, batch.NSteps)

	go h.processBatchAsync(batch)

	response := map[string]interface{}{
		"success":  true,
		"batch_id": batch.BatchID,
		"steps":    batch.NSteps,
		"message":  "Time-series processing started with worker pool",
	}

	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(response)
}

// processBatchAsync runs all frames through the pool, restores row
// order and writes the timing summary.
func (h *AnimateHandler) processBatchAsync(batch models.FrameBatch) {
	batchStartTime := time.Now()
	times := pulse.Times(batch.TStart, batch.TEnd, batch.NSteps)
	frameTimings := make([]models.FrameTiming, batch.NSteps)
	pulses := make([][]float64, batch.NSteps)
	var z []float64
	resultsReceived := 0

	for step, t := range times {
		h.workerPool.SubmitJob(models.WorkItem{
			ID:        step,
			RequestID: utils.GenerateID(),
			BatchID:   batch.BatchID,
			Step:      step,
			Time:      t,
			Request:   batch.Request,
			Config:    h.config,
			StartTime: time.Now(),
		})
	}

	for resultsReceived < batch.NSteps {
		if result, ok := h.workerPool.GetResult(); ok {
			h.processResult(result, frameTimings)
			pulses[result.Step] = result.Output.Field
			if z == nil {
				z = result.Output.Z
			}
			resultsReceived++
		} else {
			// No results available yet, small delay to avoid busy
			// waiting.
			time.Sleep(1 * time.Millisecond)
		}
	}

	totalBatchTime := time.Since(batchStartTime)
	concurrency := h.getConcurrency()

	h.saveTimingResults(batch.BatchID, totalBatchTime, frameTimings, concurrency)

	if h.config.Animate && z != nil {
		if err := os.MkdirAll(h.config.PlotDir, 0755); err != nil {
			log.Printf("Error creating plot dir: %v", err)
		} else {
			gifPath := filepath.Join(h.config.PlotDir, batch.BatchID+".gif")
			if err := render.AnimateGIF(gifPath, z, pulses, h.config.GIFDelay); err != nil {
				log.Printf("Error rendering animation: %v", err)
			} else {
				log.Printf("animation written to %s", gifPath)
			}
		}
	}

	log.Printf("time-series processing completed - ID: %s, total time: %v", batch.BatchID, totalBatchTime)
}

// processResult records a frame result and queues the webhook push.
func (h *AnimateHandler) processResult(result models.WorkResult, frameTimings []models.FrameTiming) {
	frameTimings[result.Step] = models.FrameTiming{
		Step:           result.Step,
		ProcessingTime: result.ProcessingTime,
		FitResidual:    result.Output.Fit.Min,
		Success:        result.Success,
	}

	item := models.WebhookItem{
		RequestID: fmt.Sprintf("%s_step_%03d", result.RequestID, result.Step),
		SimTime:   result.Time,
		Z:         result.Output.Z,
		Field:     result.Output.Field,
		Envelope:  result.Output.Env,
		FitParams: result.Output.Fit.Params,
		FitErr:    result.Output.Fit.Min,
	}

	h.workerPool.QueueWebhook(item)

	if !h.config.Quiet {
		log.Printf("processed frame step %d (t=%.3f)", result.Step, result.Time)
	}
}

// getConcurrency returns the current concurrency level
func (h *AnimateHandler) getConcurrency() int {
	concurrency := 5
	if h.config != nil && h.config.Threads > 0 {
		concurrency = int(h.config.Threads)
	}
	return concurrency
}

// saveTimingResults appends batch timing data to a CSV file for
// performance analysis.
func (h *AnimateHandler) saveTimingResults(batchID string, totalTime time.Duration, frameTimings []models.FrameTiming, concurrency int) {
	filename := "frame_timing_results.csv"

	var writeHeader bool
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		writeHeader = true
	}

	file, err := os.OpenFile(filename, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		log.Printf("Error opening timing file: %v", err)
		return
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if writeHeader {
		header := []string{
			"Timestamp",
			"BatchID",
			"TotalFrames",
			"Concurrency",
			"TotalBatchTime_ms",
			"AvgFrameTime_ms",
			"MinFrameTime_ms",
			"MaxFrameTime_ms",
			"SuccessRate",
			"AvgFitResidual",
			"FramesPerSecond",
			"EfficiencyScore",
		}
		if err := writer.Write(header); err != nil {
			log.Printf("Error writing timing header: %v", err)
			return
		}
	}

	var totalFrameTime time.Duration
	var minTime, maxTime time.Duration = time.Hour, 0
	var successful int
	var totalResidual float64

	for _, timing := range frameTimings {
		totalFrameTime += timing.ProcessingTime
		if timing.ProcessingTime < minTime {
			minTime = timing.ProcessingTime
		}
		if timing.ProcessingTime > maxTime {
			maxTime = timing.ProcessingTime
		}
		if timing.Success {
			successful++
			totalResidual += timing.FitResidual
		}
	}

	numFrames := len(frameTimings)
	avgFrameTime := totalFrameTime / time.Duration(numFrames)
	successRate := float64(successful) / float64(numFrames) * 100
	avgResidual := 0.0
	if successful > 0 {
		avgResidual = totalResidual / float64(successful)
	}

	framesPerSecond := float64(numFrames) / totalTime.Seconds()

	// Efficiency score: how well the concurrency was utilized.
	// Perfect linear speedup scores 1.0.
	theoreticalTime := avgFrameTime * time.Duration(numFrames)
	efficiencyScore := theoreticalTime.Seconds() / totalTime.Seconds() / float64(concurrency)

	record := []string{
		time.Now().Format(time.RFC3339),
		batchID,
		fmt.Sprintf("%d", numFrames),
		fmt.Sprintf("%d", concurrency),
		fmt.Sprintf("%.2f", float64(totalTime.Nanoseconds())/1000000.0),
		fmt.Sprintf("%.2f", float64(avgFrameTime.Nanoseconds())/1000000.0),
		fmt.Sprintf("%.2f", float64(minTime.Nanoseconds())/1000000.0),
		fmt.Sprintf("%.2f", float64(maxTime.Nanoseconds())/1000000.0),
		fmt.Sprintf("%.1f", successRate),
		fmt.Sprintf("%.6e", avgResidual),
		fmt.Sprintf("%.2f", framesPerSecond),
		fmt.Sprintf("%.3f", efficiencyScore),
	}

	if err := writer.Write(record); err != nil {
		log.Printf("Error writing timing record: %v", err)
		return
	}

	log.Printf("timing saved: %d frames, %d goroutines, %.2f ms total, %.2f%% success, %.3f efficiency",
		numFrames, concurrency, float64(totalTime.Nanoseconds())/1000000.0, successRate, efficiencyScore)
}

// setupCORS sets up CORS headers
func (h *AnimateHandler) setupCORS(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
}

// writeError writes an error response
func (h *AnimateHandler) writeError(w http.ResponseWriter, message string, statusCode int) {
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
