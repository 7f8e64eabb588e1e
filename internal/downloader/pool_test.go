package downloader

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"emotescraper/pkg/logger"
)

func makeJobs(n int, run func(i int) error) []Job {
	jobs := make([]Job, n)
	for i := range jobs {
		jobs[i] = Job{
			Index: i,
			Key:   fmt.Sprintf("item%d", i),
			Run:   func(ctx context.Context) error { return run(i) },
		}
	}
	return jobs
}

func TestWorkerPoolBasicFunctionality(t *testing.T) {
	var calls int32
	pool := NewWorkerPool(context.Background(), 3, logger.NewNopLogger())
	pool.Start()

	var results []Result
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for result := range pool.Results() {
			results = append(results, result)
		}
	}()

	numJobs := 10
	for _, job := range makeJobs(numJobs, func(int) error {
		atomic.AddInt32(&calls, 1)
		time.Sleep(5 * time.Millisecond)
		return nil
	}) {
		if err := pool.Submit(job); err != nil {
			t.Errorf("Failed to submit job %d: %v", job.Index, err)
		}
	}

	pool.Stop()
	wg.Wait()

	if len(results) != numJobs {
		t.Errorf("Expected %d results, got %d", numJobs, len(results))
	}
	for _, result := range results {
		if result.Error != nil {
			t.Errorf("Unexpected error for %s: %v", result.Job.Key, result.Error)
		}
	}
	if int(atomic.LoadInt32(&calls)) != numJobs {
		t.Errorf("Expected %d calls, got %d", numJobs, calls)
	}
}

func TestRunOrderedPreservesIndexOrder(t *testing.T) {
	// Later jobs finish first so completion order differs from index order.
	numJobs := 8
	jobs := makeJobs(numJobs, func(i int) error {
		time.Sleep(time.Duration(numJobs-i) * 3 * time.Millisecond)
		if i%3 == 0 {
			return fmt.Errorf("job %d failed", i)
		}
		return nil
	})

	results := RunOrdered(context.Background(), 4, jobs, logger.NewNopLogger())

	if len(results) != numJobs {
		t.Fatalf("Expected %d results, got %d", numJobs, len(results))
	}
	for i, result := range results {
		if result.Job.Index != i {
			t.Errorf("Result %d has index %d", i, result.Job.Index)
		}
		if wantErr := i%3 == 0; (result.Error != nil) != wantErr {
			t.Errorf("Result %d: error = %v, want error %v", i, result.Error, wantErr)
		}
	}
}

func TestRunOrderedConcurrency(t *testing.T) {
	var active, peak int32
	jobs := makeJobs(6, func(int) error {
		n := atomic.AddInt32(&active, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		time.Sleep(30 * time.Millisecond)
		atomic.AddInt32(&active, -1)
		return nil
	})

	RunOrdered(context.Background(), 3, jobs, logger.NewNopLogger())

	if got := atomic.LoadInt32(&peak); got > 3 {
		t.Errorf("Expected at most 3 concurrent jobs, saw %d", got)
	}
	if got := atomic.LoadInt32(&peak); got < 2 {
		t.Errorf("Expected jobs to overlap, peak was %d", got)
	}
}

func TestRunOrderedSingleWorkerIsSequential(t *testing.T) {
	var mu sync.Mutex
	var order []int
	jobs := makeJobs(5, func(i int) error {
		mu.Lock()
		order = append(order, i)
		mu.Unlock()
		return nil
	})

	RunOrdered(context.Background(), 1, jobs, nil)

	for i, got := range order {
		if got != i {
			t.Fatalf("Expected execution order 0..4, got %v", order)
		}
	}
}

func TestRunOrderedCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var calls int32
	jobs := makeJobs(4, func(int) error {
		atomic.AddInt32(&calls, 1)
		return nil
	})

	results := RunOrdered(ctx, 2, jobs, logger.NewNopLogger())

	if len(results) != 4 {
		t.Fatalf("Expected 4 results, got %d", len(results))
	}
	for i, result := range results {
		if result.Error == nil {
			t.Errorf("Expected result %d to carry the cancellation error", i)
		}
		if result.Job.Key != fmt.Sprintf("item%d", i) {
			t.Errorf("Result %d has key %q", i, result.Job.Key)
		}
	}
	if atomic.LoadInt32(&calls) != 0 {
		t.Errorf("Expected no jobs to run, %d ran", calls)
	}
}

func TestSubmitAfterCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	pool := NewWorkerPool(ctx, 1, logger.NewNopLogger())
	pool.Start()
	cancel()

	err := pool.Submit(Job{Run: func(context.Context) error { return nil }})
	if err == nil {
		t.Error("Expected submit to fail after cancellation")
	}

	go func() {
		for range pool.Results() {
		}
	}()
	pool.Stop()
}

func TestNewWorkerPoolClampsWorkers(t *testing.T) {
	pool := NewWorkerPool(context.Background(), 0, logger.NewNopLogger())
	if pool.numWorkers != 1 {
		t.Errorf("Expected 1 worker, got %d", pool.numWorkers)
	}
	pool.Start()
	pool.Stop()
}
