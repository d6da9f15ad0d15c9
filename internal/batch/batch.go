package batch

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"aargeom/domain/geometry"
	"aargeom/internal/engine"
)

// Validator runs engine validation over many independent records
// concurrently. The engine is pure, so concurrent results are
// bit-identical to sequential ones; capacity only bounds memory and
// CPU, never ordering.
type Validator struct {
	engine   *engine.Engine
	capacity int64
	sem      *semaphore.Weighted
}

// NewValidator creates a batch validator with the given concurrency
// capacity; zero or negative means GOMAXPROCS.
func NewValidator(eng *engine.Engine, capacity int) *Validator {
	if capacity <= 0 {
		capacity = runtime.GOMAXPROCS(0)
	}
	return &Validator{
		engine:   eng,
		capacity: int64(capacity),
		sem:      semaphore.NewWeighted(int64(capacity)),
	}
}

// ValidateAll validates every record concurrently and returns results
// in input order. A nil record yields a zero-value aggregate.
func (v *Validator) ValidateAll(ctx context.Context, records []*engine.Node) ([]geometry.AggregateResult, error) {
	results := make([]geometry.AggregateResult, len(records))

	g, ctx := errgroup.WithContext(ctx)
	for i, record := range records {
		if err := v.sem.Acquire(ctx, 1); err != nil {
			return nil, err
		}
		i, record := i, record
		g.Go(func() error {
			defer v.sem.Release(1)
			if record == nil {
				return nil
			}
			results[i] = v.engine.ValidateData(record)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// ValidateAllJSON parses and validates raw JSON records concurrently.
// Parse failures fail the whole batch.
func (v *Validator) ValidateAllJSON(ctx context.Context, raws [][]byte) ([]geometry.AggregateResult, error) {
	records := make([]*engine.Node, len(raws))
	for i, raw := range raws {
		record, err := engine.ParseJSON(raw)
		if err != nil {
			return nil, err
		}
		records[i] = record
	}
	return v.ValidateAll(ctx, records)
}
