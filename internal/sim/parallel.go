package sim

import (
	"context"
	"sync"

	"github.com/san-kum/springsim/internal/dynamo"
	"github.com/san-kum/springsim/internal/spring"
)

// Batch runs one independent spring per Options concurrently. Each run
// gets its own Simulator; metrics are rebuilt per run by newMetrics.
type Batch struct {
	newMetrics func() []dynamo.Metric
}

func NewBatch(newMetrics func() []dynamo.Metric) *Batch {
	return &Batch{newMetrics: newMetrics}
}

// Run returns results in the order of opts. The first construction or
// run error wins.
func (b *Batch) Run(ctx context.Context, opts []spring.Options, cfg Config) ([]*Result, error) {
	results := make([]*Result, len(opts))
	errs := make([]error, len(opts))

	var wg sync.WaitGroup
	for i := range opts {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			sp, err := spring.New(opts[idx])
			if err != nil {
				errs[idx] = err
				return
			}

			sim := New()
			if b.newMetrics != nil {
				for _, m := range b.newMetrics() {
					sim.AddMetric(m)
				}
			}

			results[idx], errs[idx] = sim.Run(ctx, sp, cfg)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}
