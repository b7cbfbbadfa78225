package tracking

import (
	"context"
	"errors"

	"github.com/mohamed3ma/helios/pkg/core"
	"github.com/mohamed3ma/helios/pkg/geometry"
)

// RunConfig contains configuration for a tracking run
type RunConfig struct {
	Histories    int   // Total number of histories
	BatchSize    int   // Histories per worker task
	NumWorkers   int   // Number of parallel workers (0 = use CPU count)
	Seed         int64 // Base seed; batch i uses Seed+i
	MaxCrossings int   // Crossing limit per history (0 = DefaultMaxCrossings)
}

// DefaultRunConfig returns sensible default values
func DefaultRunConfig() RunConfig {
	return RunConfig{
		Histories:  10000,
		BatchSize:  1000,
		NumWorkers: 0,
		Seed:       42,
	}
}

// Run tracks config.Histories particles from source through the geometry
// described by defs. Batches are seeded by index and merged in index order,
// so the result does not depend on the number of workers. When ctx is
// cancelled Run returns the statistics gathered so far with ctx.Err().
func Run(ctx context.Context, defs geometry.Definitions, source Source, config RunConfig, logger core.Logger) (Stats, error) {
	if logger == nil {
		logger = core.NopLogger{}
	}
	if config.Histories <= 0 {
		return NewStats(), errors.New("tracking: the number of histories must be positive")
	}
	if config.BatchSize <= 0 {
		config.BatchSize = DefaultRunConfig().BatchSize
	}
	if !source.Box.IsValid() {
		return NewStats(), errors.New("tracking: invalid source region")
	}

	var tasks []BatchTask
	for remaining := config.Histories; remaining > 0; remaining -= config.BatchSize {
		tasks = append(tasks, BatchTask{
			TaskID:    len(tasks),
			Histories: min(remaining, config.BatchSize),
			Seed:      config.Seed + int64(len(tasks)),
		})
	}

	pool, err := NewWorkerPool(defs, source, config.MaxCrossings, config.NumWorkers, len(tasks))
	if err != nil {
		return NewStats(), err
	}
	logger.Printf("Tracking %d histories in %d batches on %d workers\n",
		config.Histories, len(tasks), pool.GetNumWorkers())

	pool.Start()
	for _, task := range tasks {
		pool.SubmitTask(task)
	}
	go pool.Stop()

	results := make([]*Stats, len(tasks))
	done := ctx.Done()
	completed := 0
	for completed < len(tasks) {
		select {
		case <-done:
			pool.Cancel()
			done = nil
		case result, ok := <-pool.resultQueue:
			if !ok {
				completed = len(tasks)
				continue
			}
			results[result.TaskID] = &result.Stats
			completed++
			if result.Error == nil {
				logger.Printf("Batch %d/%d done: %d histories\n", completed, len(tasks), result.Stats.Histories)
			}
		}
	}

	total := NewStats()
	for _, stats := range results {
		if stats != nil {
			total.Merge(*stats)
		}
	}
	if err := ctx.Err(); err != nil {
		return total, err
	}
	return total, nil
}
