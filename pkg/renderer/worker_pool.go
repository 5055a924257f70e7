package renderer

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/df07/go-weekend-raytracer/pkg/core"
)

// RowTask represents a row rendering task for the worker pool
type RowTask struct {
	Row           int
	PassNumber    int
	TargetSamples int
	Seed          int64        // Seed for the row's private random stream
	TaskID        int          // For deterministic ordering
	PixelStats    []PixelStats // The row's slice of the shared pixel stats; no other task touches it
}

// RowResult contains the result from rendering a row
type RowResult struct {
	TaskID int
	Row    int
	Stats  RenderStats
	Error  error
}

// WorkerPool manages parallel row rendering
type WorkerPool struct {
	taskQueue     chan RowTask
	resultQueue   chan RowResult
	workers       []*Worker
	numWorkers    int
	wg            sync.WaitGroup
	completedRows atomic.Int64
}

// Worker handles individual row rendering tasks
type Worker struct {
	ID          int
	raytracer   *Raytracer
	taskQueue   chan RowTask
	resultQueue chan RowResult
	pool        *WorkerPool // Reference to parent pool for progress accounting
}

// NewWorkerPool creates a worker pool with the specified number of workers.
// maxTasks bounds the number of tasks that may be outstanding at once.
func NewWorkerPool(raytracer *Raytracer, maxTasks, numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}

	wp := &WorkerPool{
		taskQueue:   make(chan RowTask, maxTasks),   // Buffer for every row
		resultQueue: make(chan RowResult, maxTasks), // Buffer for every result
		numWorkers:  numWorkers,
	}

	for i := 0; i < numWorkers; i++ {
		worker := &Worker{
			ID:          i,
			raytracer:   raytracer,
			taskQueue:   wp.taskQueue,
			resultQueue: wp.resultQueue,
			pool:        wp,
		}
		wp.workers = append(wp.workers, worker)
	}

	return wp
}

// Start begins all workers
func (wp *WorkerPool) Start() {
	for _, worker := range wp.workers {
		wp.wg.Add(1)
		go worker.run(&wp.wg)
	}
}

// Stop gracefully shuts down all workers
func (wp *WorkerPool) Stop() {
	close(wp.taskQueue) // No more tasks
	wp.wg.Wait()        // Wait for workers to finish
	close(wp.resultQueue)
}

// SubmitTask submits a row task to the worker pool
func (wp *WorkerPool) SubmitTask(task RowTask) {
	wp.taskQueue <- task
}

// GetResult retrieves a completed row result
func (wp *WorkerPool) GetResult() (RowResult, bool) {
	result, ok := <-wp.resultQueue
	return result, ok
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return wp.numWorkers
}

// CompletedRows returns the number of rows finished since the pool was created
func (wp *WorkerPool) CompletedRows() int64 {
	return wp.completedRows.Load()
}

// run is the main worker loop
func (w *Worker) run(wg *sync.WaitGroup) {
	defer wg.Done()

	for task := range w.taskQueue {
		result := w.renderRow(task)
		w.pool.completedRows.Add(1)
		w.resultQueue <- result
	}
}

// renderRow renders one task, turning a panic into a row error
func (w *Worker) renderRow(task RowTask) (result RowResult) {
	result = RowResult{TaskID: task.TaskID, Row: task.Row}

	defer func() {
		if r := recover(); r != nil {
			result.Error = fmt.Errorf("worker %d: row %d: panic: %v", w.ID, task.Row, r)
		}
	}()

	sampler := core.NewSeededSampler(task.Seed)
	result.Stats = w.raytracer.RenderRow(task.Row, task.PixelStats, task.TargetSamples, sampler)
	return result
}
