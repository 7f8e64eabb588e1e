package downloader

import (
	"context"
	"fmt"
	"sync"
	"time"

	"emotescraper/pkg/logger"
)

// Job is one unit of batch work. Index is the item's position in discovery
// order; Key names the item in logs.
type Job struct {
	Index int
	Key   string
	Run   func(ctx context.Context) error
}

// Result represents the result of a job
type Result struct {
	Job      Job
	Error    error
	Duration time.Duration
}

// WorkerPool runs jobs on a fixed number of workers
type WorkerPool struct {
	numWorkers  int
	jobQueue    chan Job
	resultQueue chan Result
	wg          sync.WaitGroup
	ctx         context.Context
	cancel      context.CancelFunc
	logger      logger.Logger
}

// NewWorkerPool creates a pool bound to ctx. Fewer than one worker is treated as one.
func NewWorkerPool(ctx context.Context, numWorkers int, log logger.Logger) *WorkerPool {
	if numWorkers < 1 {
		numWorkers = 1
	}
	if log == nil {
		log = logger.GetLogger()
	}
	ctx, cancel := context.WithCancel(ctx)

	return &WorkerPool{
		numWorkers:  numWorkers,
		jobQueue:    make(chan Job, numWorkers*2),
		resultQueue: make(chan Result, numWorkers),
		ctx:         ctx,
		cancel:      cancel,
		logger:      log,
	}
}

// Start launches the workers
func (wp *WorkerPool) Start() {
	wp.logger.DebugWithFields("Starting worker pool", map[string]interface{}{
		"num_workers": wp.numWorkers,
	})

	for i := 0; i < wp.numWorkers; i++ {
		wp.wg.Add(1)
		go wp.worker(i)
	}
}

// Stop closes the queue, waits for queued jobs to finish and closes Results
func (wp *WorkerPool) Stop() {
	close(wp.jobQueue)
	wp.wg.Wait()
	close(wp.resultQueue)
	wp.cancel()
}

// Submit queues a job. It fails once the pool's context is done.
func (wp *WorkerPool) Submit(job Job) error {
	if wp.ctx.Err() != nil {
		return fmt.Errorf("worker pool is shutting down: %w", wp.ctx.Err())
	}
	select {
	case wp.jobQueue <- job:
		return nil
	case <-wp.ctx.Done():
		return fmt.Errorf("worker pool is shutting down: %w", wp.ctx.Err())
	}
}

// Results returns the result channel. It must be drained while jobs are submitted.
func (wp *WorkerPool) Results() <-chan Result {
	return wp.resultQueue
}

// worker produces exactly one result per job it receives
func (wp *WorkerPool) worker(id int) {
	defer wp.wg.Done()

	for job := range wp.jobQueue {
		wp.resultQueue <- wp.processJob(job, id)
	}
}

func (wp *WorkerPool) processJob(job Job, workerID int) Result {
	if err := wp.ctx.Err(); err != nil {
		return Result{Job: job, Error: err}
	}

	start := time.Now()
	err := job.Run(wp.ctx)
	result := Result{Job: job, Error: err, Duration: time.Since(start)}

	wp.logger.DebugWithFields("Worker finished job", map[string]interface{}{
		"worker_id": workerID,
		"item":      job.Key,
		"duration":  result.Duration,
		"ok":        err == nil,
	})

	return result
}

// RunOrdered runs every job on numWorkers workers and returns one result per
// job, positioned by Job.Index. Indexes must be 0..len(jobs)-1.
func RunOrdered(ctx context.Context, numWorkers int, jobs []Job, log logger.Logger) []Result {
	results := make([]Result, len(jobs))
	pool := NewWorkerPool(ctx, numWorkers, log)
	pool.Start()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for r := range pool.Results() {
			results[r.Job.Index] = r
		}
	}()

	for i, job := range jobs {
		if err := pool.Submit(job); err != nil {
			for _, skipped := range jobs[i:] {
				results[skipped.Index] = Result{Job: skipped, Error: err}
			}
			break
		}
	}

	pool.Stop()
	<-done
	return results
}
