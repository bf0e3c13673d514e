package worker

import (
	"log"
	"sync"
	"time"

	pulse "github.com/jobirk/chirped-pulse-simulation"
	"github.com/jobirk/chirped-pulse-simulation/pkg/config"
	"github.com/jobirk/chirped-pulse-simulation/pkg/models"
)

// Pool manages concurrent frame-computation workers.
type Pool struct {
	jobs         chan models.WorkItem
	results      chan models.WorkResult
	webhookQueue chan models.WebhookItem
	workers      int
	bufferPool   sync.Pool
	shutdown     chan struct{}
	wg           sync.WaitGroup
	processor    ProcessorFunc
	webhook      WebhookSender
}

// ProcessorFunc computes one frame: the field along the axis at the
// requested time, with its envelope diagnostics. It returns a
// models.ProcessOutput, kept as interface{} to match the handler-side
// signature.
type ProcessorFunc func(req models.SimulationRequest, t float64, cfg *config.Config) interface{}

// WebhookSender pushes a finished frame to the plotting frontend.
type WebhookSender interface {
	Send(item models.WebhookItem) error
}

// Options holds configuration for creating a new worker pool
type Options struct {
	Workers   int
	Processor ProcessorFunc
	Webhook   WebhookSender
}

// New creates a new worker pool with specified configuration
func New(opts Options) *Pool {
	if opts.Workers <= 0 {
		opts.Workers = 5
	}

	// jobs/results buffers are 2x the worker count so queueing new
	// frames does not block while workers are busy
	pool := &Pool{
		jobs:         make(chan models.WorkItem, opts.Workers*2),
		results:      make(chan models.WorkResult, opts.Workers*2),
		webhookQueue: make(chan models.WebhookItem, opts.Workers*4),
		workers:      opts.Workers,
		shutdown:     make(chan struct{}),
		processor:    opts.Processor,
		webhook:      opts.Webhook,
		bufferPool: sync.Pool{
			New: func() interface{} {
				// Typical axes run a few hundred to a few thousand
				// samples.
				return &models.BufferSet{
					Field: make([]float64, 0, 1024),
					Env:   make([]float64, 0, 1024),
				}
			},
		},
	}

	pool.start()
	return pool
}

// start initializes and starts all workers
func (p *Pool) start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}

	p.wg.Add(1)
	go p.webhookProcessor()

	log.Printf("worker pool started with %d workers", p.workers)
}

// worker processes frame jobs from the jobs channel
func (p *Pool) worker(id int) {
	defer p.wg.Done()

	for {
		select {
		case job := <-p.jobs:
			result := p.processJob(job)
			p.results <- result

		case <-p.shutdown:
			return
		}
	}
}

// processJob computes a single frame, reusing pooled buffers for the
// copies that outlive the call.
func (p *Pool) processJob(job models.WorkItem) models.WorkResult {
	buffers := p.bufferPool.Get().(*models.BufferSet)
	defer p.bufferPool.Put(buffers)

	buffers.Field = buffers.Field[:0]
	buffers.Env = buffers.Env[:0]

	startTime := time.Now()
	raw := p.processor(job.Request, job.Time, job.Config.(*config.Config))
	processingTime := time.Since(startTime)

	output, ok := raw.(models.ProcessOutput)
	if !ok {
		output = models.ProcessOutput{}
	}

	buffers.Field = append(buffers.Field, output.Field...)
	buffers.Env = append(buffers.Env, output.Env...)

	// Copies for the result; the pooled buffers get reused.
	fieldCopy := make([]float64, len(buffers.Field))
	envCopy := make([]float64, len(buffers.Env))
	copy(fieldCopy, buffers.Field)
	copy(envCopy, buffers.Env)
	output.Field = fieldCopy
	output.Env = envCopy

	return models.WorkResult{
		ID:             job.ID,
		RequestID:      job.RequestID,
		BatchID:        job.BatchID,
		Step:           job.Step,
		Time:           job.Time,
		Output:         output,
		ProcessingTime: processingTime,
		Success:        ok && output.Fit.Status == pulse.OK,
	}
}

// webhookProcessor handles webhook requests asynchronously
func (p *Pool) webhookProcessor() {
	defer p.wg.Done()

	for {
		select {
		case item := <-p.webhookQueue:
			// Send asynchronously without blocking the frame workers.
			go p.sendWebhook(item)

		case <-p.shutdown:
			return
		}
	}
}

func (p *Pool) sendWebhook(item models.WebhookItem) {
	if p.webhook == nil {
		log.Printf("no webhook sender configured, dropping frame %s", item.RequestID)
		return
	}
	if err := p.webhook.Send(item); err != nil {
		log.Printf("webhook send failed for %s: %v", item.RequestID, err)
	}
}

// SubmitJob submits a job to the worker pool
func (p *Pool) SubmitJob(job models.WorkItem) {
	select {
	case p.jobs <- job:
	default:
		log.Printf("worker pool jobs channel full, job may be delayed")
		p.jobs <- job // block until space is available
	}
}

// GetResult retrieves a result from the worker pool (non-blocking)
func (p *Pool) GetResult() (models.WorkResult, bool) {
	select {
	case result := <-p.results:
		return result, true
	default:
		return models.WorkResult{}, false
	}
}

// QueueWebhook queues a webhook for async processing
func (p *Pool) QueueWebhook(item models.WebhookItem) {
	select {
	case p.webhookQueue <- item:
	default:
		log.Printf("webhook queue full, dropping frame for %s", item.RequestID)
	}
}

// Shutdown gracefully shuts down the worker pool
func (p *Pool) Shutdown() {
	log.Printf("shutting down worker pool...")
	close(p.shutdown)
	p.wg.Wait()
	log.Printf("worker pool shutdown complete")
}
