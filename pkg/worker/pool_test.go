package worker

import (
	"sync"
	"testing"
	"time"

	pulse "github.com/jobirk/chirped-pulse-simulation"
	"github.com/jobirk/chirped-pulse-simulation/pkg/config"
	"github.com/jobirk/chirped-pulse-simulation/pkg/models"
)

// echoProcessor returns a one-sample field carrying the requested time,
// so tests can match results back to jobs.
func echoProcessor(req models.SimulationRequest, t float64, cfg *config.Config) interface{} {
	return models.ProcessOutput{
		Field: []float64{t},
		Env:   []float64{t},
		Fit:   pulse.Result{Status: pulse.OK, Params: []float64{1, 0, 1}},
	}
}

func collectResults(t *testing.T, pool *Pool, n int) []models.WorkResult {
	t.Helper()
	results := make([]models.WorkResult, 0, n)
	deadline := time.Now().Add(5 * time.Second)
	for len(results) < n {
		if time.Now().After(deadline) {
			t.Fatalf("collected %d of %d results before timeout", len(results), n)
		}
		if r, ok := pool.GetResult(); ok {
			results = append(results, r)
		} else {
			time.Sleep(time.Millisecond)
		}
	}
	return results
}

func TestPoolProcessesJobs(t *testing.T) {
	pool := New(Options{Workers: 3, Processor: echoProcessor})
	defer pool.Shutdown()

	cfg := config.DefaultConfig()
	const n = 10
	for i := 0; i < n; i++ {
		pool.SubmitJob(models.WorkItem{
			ID:     i,
			Step:   i,
			Time:   float64(i) * 0.5,
			Config: cfg,
		})
	}

	results := collectResults(t, pool, n)
	seen := make(map[int]bool)
	for _, r := range results {
		if seen[r.Step] {
			t.Fatalf("step %d delivered twice", r.Step)
		}
		seen[r.Step] = true

		if !r.Success {
			t.Errorf("step %d not successful", r.Step)
		}
		want := float64(r.Step) * 0.5
		if len(r.Output.Field) != 1 || r.Output.Field[0] != want {
			t.Errorf("step %d carries field %v, want [%v]", r.Step, r.Output.Field, want)
		}
	}
	if len(seen) != n {
		t.Errorf("got %d distinct steps, want %d", len(seen), n)
	}
}

func TestPoolFailedFit(t *testing.T) {
	failing := func(req models.SimulationRequest, t float64, cfg *config.Config) interface{} {
		return models.ProcessOutput{Fit: pulse.Result{Status: "ERROR"}}
	}

	pool := New(Options{Workers: 1, Processor: failing})
	defer pool.Shutdown()

	pool.SubmitJob(models.WorkItem{ID: 1, Config: config.DefaultConfig()})
	results := collectResults(t, pool, 1)
	if results[0].Success {
		t.Error("failed fit reported as success")
	}
}

type recordingSender struct {
	mu    sync.Mutex
	items []models.WebhookItem
}

func (s *recordingSender) Send(item models.WebhookItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, item)
	return nil
}

func (s *recordingSender) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func TestPoolWebhookDelivery(t *testing.T) {
	sender := &recordingSender{}
	pool := New(Options{Workers: 1, Processor: echoProcessor, Webhook: sender})
	defer pool.Shutdown()

	pool.QueueWebhook(models.WebhookItem{RequestID: "abc", SimTime: 1.5})

	deadline := time.Now().Add(5 * time.Second)
	for sender.count() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("webhook never delivered")
		}
		time.Sleep(time.Millisecond)
	}

	sender.mu.Lock()
	defer sender.mu.Unlock()
	if sender.items[0].RequestID != "abc" {
		t.Errorf("delivered request ID %q, want abc", sender.items[0].RequestID)
	}
}
