package tracking

import (
	"errors"
	"math/rand"
	"runtime"
	"sync"

	"github.com/mohamed3ma/helios/pkg/core"
	"github.com/mohamed3ma/helios/pkg/geometry"
)

// errCancelled marks a batch abandoned after Cancel
var errCancelled = errors.New("tracking: batch cancelled")

// BatchTask asks a worker to run a batch of histories
type BatchTask struct {
	TaskID    int   // For deterministic ordering
	Histories int   // Number of histories in the batch
	Seed      int64 // Seed of the batch random generator
}

// BatchResult contains the statistics of one batch
type BatchResult struct {
	TaskID int
	Stats  Stats
	Error  error
}

// WorkerPool manages parallel batch tracking. Every worker owns its own
// geometry replica, so workers share nothing but the task and result queues.
type WorkerPool struct {
	taskQueue   chan BatchTask
	resultQueue chan BatchResult
	workers     []*Worker
	numWorkers  int
	wg          sync.WaitGroup
	stopChan    chan struct{}
	stopOnce    sync.Once
}

// Worker handles individual batch tasks
type Worker struct {
	ID          int
	walker      *Walker
	source      Source
	taskQueue   chan BatchTask
	resultQueue chan BatchResult
	stopChan    chan struct{}
}

// NewWorkerPool creates a worker pool with the specified number of workers.
// Each worker builds its geometry from defs; capacity sizes the queues.
func NewWorkerPool(defs geometry.Definitions, source Source, maxCrossings, numWorkers, capacity int) (*WorkerPool, error) {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}

	wp := &WorkerPool{
		taskQueue:   make(chan BatchTask, capacity),
		resultQueue: make(chan BatchResult, capacity),
		numWorkers:  numWorkers,
		stopChan:    make(chan struct{}),
	}

	for i := 0; i < numWorkers; i++ {
		g, err := geometry.New(defs, nil)
		if err != nil {
			return nil, err
		}
		worker := &Worker{
			ID:          i,
			walker:      NewWalker(g, maxCrossings),
			source:      source,
			taskQueue:   wp.taskQueue,
			resultQueue: wp.resultQueue,
			stopChan:    wp.stopChan,
		}
		wp.workers = append(wp.workers, worker)
	}

	return wp, nil
}

// Start begins all workers
func (wp *WorkerPool) Start() {
	for _, worker := range wp.workers {
		wp.wg.Add(1)
		go worker.run(&wp.wg)
	}
}

// Stop closes the task queue, waits for the workers and closes the result queue
func (wp *WorkerPool) Stop() {
	close(wp.taskQueue)
	wp.wg.Wait()
	close(wp.resultQueue)
}

// Cancel makes workers abandon pending and running batches. Abandoned
// batches still produce a result carrying their partial statistics.
func (wp *WorkerPool) Cancel() {
	wp.stopOnce.Do(func() { close(wp.stopChan) })
}

// SubmitTask submits a batch task to the worker pool
func (wp *WorkerPool) SubmitTask(task BatchTask) {
	wp.taskQueue <- task
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return wp.numWorkers
}

// run is the main worker loop
func (w *Worker) run(wg *sync.WaitGroup) {
	defer wg.Done()

	for task := range w.taskQueue {
		stats, err := w.runBatch(task)
		w.resultQueue <- BatchResult{
			TaskID: task.TaskID,
			Stats:  stats,
			Error:  err,
		}
	}
}

func (w *Worker) runBatch(task BatchTask) (Stats, error) {
	w.walker.Reset()
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(task.Seed)))

	for i := 0; i < task.Histories; i++ {
		select {
		case <-w.stopChan:
			return w.walker.Stats(), errCancelled
		default:
		}
		pos, dir := w.source.Sample(sampler)
		w.walker.Walk(pos, dir)
	}
	return w.walker.Stats(), nil
}
