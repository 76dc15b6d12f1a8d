package scanner

import (
	"context"
	"sync"
)

// WorkerConfig holds options for the worker pool.
type WorkerConfig struct {
	Threads int
}

// RunWorkerPool starts cfg.Threads workers that consume items until the
// channel is closed and returns a channel of outcomes. The outcome channel
// is closed once every worker has finished. After ctx is canceled workers
// stop picking up new items; probes already running are allowed to return.
func RunWorkerPool(
	ctx context.Context,
	prober Prober,
	items <-chan WorkItem,
	cfg WorkerConfig,
) <-chan Outcome {
	threads := cfg.Threads
	if threads < 1 {
		threads = 1
	}
	resultsCh := make(chan Outcome, threads*2)

	var wg sync.WaitGroup

	for i := 0; i < threads; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for item := range items {
				if ctx.Err() != nil {
					continue
				}
				resultsCh <- prober.Probe(ctx, item)
			}
		}()
	}

	// Closer: when all workers finish, close the results channel.
	go func() {
		wg.Wait()
		close(resultsCh)
	}()

	return resultsCh
}
