package renderer

import (
	"runtime"
	"sync"

	"github.com/df07/go-solar-raytracer/pkg/scene"
)

// RowTask asks a worker to shade one row of a frame
type RowTask struct {
	Scene  *scene.Scene
	Camera Camera
	Buffer []uint32 // Whole frame; the worker only writes its row
	Width  int      // Pixels per row, fixed when the frame was submitted
	Row    int
	Time   float32
}

// RowResult reports what a worker saw while shading a row
type RowResult struct {
	Row          int
	Hits         int     // Pixels that hit a body or the ring
	LuminanceSum float64 // Sum of tone-mapped luminance across the row
}

// WorkerPool manages parallel row rendering
type WorkerPool struct {
	taskQueue   chan RowTask
	resultQueue chan RowResult
	workers     []*Worker
	numWorkers  int
	wg          sync.WaitGroup
}

// Worker shades rows pulled from the task queue
type Worker struct {
	ID          int
	taskQueue   chan RowTask
	resultQueue chan RowResult
}

// NewWorkerPool creates a worker pool with the specified number of workers
func NewWorkerPool(numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}

	wp := &WorkerPool{
		taskQueue:   make(chan RowTask, numWorkers*4),
		resultQueue: make(chan RowResult, numWorkers*4),
		numWorkers:  numWorkers,
	}

	for i := 0; i < numWorkers; i++ {
		wp.workers = append(wp.workers, &Worker{
			ID:          i,
			taskQueue:   wp.taskQueue,
			resultQueue: wp.resultQueue,
		})
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

// run is the main worker loop
func (w *Worker) run(wg *sync.WaitGroup) {
	defer wg.Done()

	for task := range w.taskQueue {
		w.resultQueue <- renderRow(task)
	}
}

// renderRow shades every pixel of one row. Rows never overlap, so writes to
// the shared buffer need no locking.
func renderRow(task RowTask) RowResult {
	s := task.Scene
	result := RowResult{Row: task.Row}
	offset := task.Row * task.Width

	for i := 0; i < task.Width; i++ {
		ray := task.Camera.GetRay(i, task.Row)

		hit, ok := s.Intersect(ray, task.Time)
		color := scene.SkyColor(ray.Direction)
		if ok {
			result.Hits++
			color = s.Shade(hit, task.Time)
		}

		task.Buffer[offset+i] = PackRGB(color)
		result.LuminanceSum += float64(color.Luminance())
	}
	return result
}
