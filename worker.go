package pulse

import "sync"

// PropagateConcurrent is Propagate with rows computed by a fixed pool
// of goroutines. Each row is an independent FieldAt call, so the
// result is identical to the sequential version, row for row.
func (s *Simulation) PropagateConcurrent(tStart, tEnd float64, nSteps, workers int) [][]float64 {
	if workers <= 1 {
		return s.Propagate(tStart, tEnd, nSteps)
	}

	times := Times(tStart, tEnd, nSteps)
	pulses := make([][]float64, nSteps)
	jobs := make(chan int, nSteps)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				pulses[i] = s.FieldAt(times[i])
			}
		}()
	}

	for i := range times {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return pulses
}
