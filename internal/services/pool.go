package services

import (
	"context"
	"sync"
)

// taskPool fans a batch of independent per-item tasks out over a bounded
// number of workers. Concurrency 1 reproduces strictly sequential
// processing; callers must not depend on completion order and re-derive
// any output ordering themselves.
type taskPool struct {
	concurrency int
}

func newTaskPool(concurrency int) *taskPool {
	if concurrency < 1 {
		concurrency = 1
	}
	return &taskPool{concurrency: concurrency}
}

// Run executes fn for every index in [0, count). It blocks until all
// tasks finish. Each task owns its own index slot, so tasks writing to
// per-index slices need no locking.
func (p *taskPool) Run(ctx context.Context, count int, fn func(ctx context.Context, i int)) {
	if count == 0 {
		return
	}

	jobs := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < p.concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				fn(ctx, i)
			}
		}()
	}

	for i := 0; i < count; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
}
