package batch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	errs "igflash/pkg/errors"
	"igflash/pkg/instagram"
	"igflash/pkg/logger"
)

// Kind selects the scraper operation a job runs
type Kind string

const (
	KindMedia   Kind = "media"
	KindProfile Kind = "profile"
	KindFeed    Kind = "feed"
)

// Job is a single lookup
type Job struct {
	// Index is the position of the job in the caller's input
	Index  int
	Kind   Kind
	Target string
	// IncludeFeed applies to profile lookups
	IncludeFeed bool
	// Posts is the number of feed items requested
	Posts int
}

// Result is the outcome of a Job. Value holds *instagram.Media,
// *instagram.Profile or []instagram.FeedItem depending on the job kind.
type Result struct {
	Job      Job
	Value    interface{}
	Err      error
	Duration time.Duration
}

// Lookup is the subset of the scraper the pool drives
type Lookup interface {
	Media(ctx context.Context, code string) (*instagram.Media, error)
	Profile(ctx context.Context, login string, includeFeed bool) (*instagram.Profile, error)
	Feed(ctx context.Context, login string, postsRequired int) ([]instagram.FeedItem, error)
}

// WorkerPool runs lookups concurrently against one shared scraper.
// Results must be drained until the channel is closed by Stop.
type WorkerPool struct {
	numWorkers  int
	jobQueue    chan Job
	resultQueue chan Result
	wg          sync.WaitGroup
	ctx         context.Context
	cancel      context.CancelFunc
	lookup      Lookup
	logger      logger.Logger

	// inflight collapses identical jobs running at the same time
	inflight singleflight.Group
}

// NewWorkerPool creates a pool bound to ctx. Cancelling ctx fails the jobs
// that have not started yet.
func NewWorkerPool(ctx context.Context, numWorkers int, lookup Lookup, log logger.Logger) *WorkerPool {
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
		lookup:      lookup,
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

// Stop waits for queued jobs to finish and closes the result channel
func (wp *WorkerPool) Stop() {
	close(wp.jobQueue)
	wp.wg.Wait()
	close(wp.resultQueue)
	wp.cancel()

	wp.logger.Debug("Worker pool stopped")
}

// Submit queues a job
func (wp *WorkerPool) Submit(job Job) error {
	select {
	case wp.jobQueue <- job:
		return nil
	case <-wp.ctx.Done():
		return fmt.Errorf("worker pool is shutting down: %w", wp.ctx.Err())
	}
}

// Results returns the result channel
func (wp *WorkerPool) Results() <-chan Result {
	return wp.resultQueue
}

func (wp *WorkerPool) worker(id int) {
	defer wp.wg.Done()

	for job := range wp.jobQueue {
		var result Result
		if err := wp.ctx.Err(); err != nil {
			result = Result{Job: job, Err: err}
		} else {
			result = wp.processJob(job, id)
		}
		wp.resultQueue <- result
	}
}

func (wp *WorkerPool) processJob(job Job, workerID int) Result {
	start := time.Now()
	result := Result{Job: job}

	var shared bool
	result.Value, result.Err, shared = wp.inflight.Do(job.key(), func() (interface{}, error) {
		return wp.dispatch(job)
	})
	result.Duration = time.Since(start)

	fields := map[string]interface{}{
		"worker_id": workerID,
		"kind":      string(job.Kind),
		"target":    job.Target,
		"duration":  result.Duration,
		"shared":    shared,
	}
	if result.Err != nil {
		fields["error"] = result.Err.Error()
		wp.logger.WarnWithFields("Lookup failed", fields)
	} else {
		wp.logger.DebugWithFields("Lookup completed", fields)
	}
	return result
}

func (wp *WorkerPool) dispatch(job Job) (interface{}, error) {
	switch job.Kind {
	case KindMedia:
		return wp.lookup.Media(wp.ctx, job.Target)
	case KindProfile:
		return wp.lookup.Profile(wp.ctx, job.Target, job.IncludeFeed)
	case KindFeed:
		return wp.lookup.Feed(wp.ctx, job.Target, job.Posts)
	default:
		return nil, errs.Newf(errs.ErrorTypeValidation, "unknown lookup kind %q", job.Kind)
	}
}

// key identifies the lookup a job performs, ignoring its position
func (j Job) key() string {
	return fmt.Sprintf("%s:%s:%t:%d", j.Kind, j.Target, j.IncludeFeed, j.Posts)
}

// Run executes jobs on a fresh pool and returns the results in input order
func Run(ctx context.Context, numWorkers int, lookup Lookup, jobs []Job, log logger.Logger) []Result {
	pool := NewWorkerPool(ctx, numWorkers, lookup, log)
	pool.Start()

	results := make([]Result, len(jobs))
	received := make([]bool, len(jobs))
	var collected sync.WaitGroup
	collected.Add(1)
	go func() {
		defer collected.Done()
		for result := range pool.Results() {
			results[result.Job.Index] = result
			received[result.Job.Index] = true
		}
	}()

	for i, job := range jobs {
		job.Index = i
		if err := pool.Submit(job); err != nil {
			break
		}
	}
	pool.Stop()
	collected.Wait()

	for i, ok := range received {
		if !ok {
			job := jobs[i]
			job.Index = i
			results[i] = Result{Job: job, Err: ctx.Err()}
		}
	}
	return results
}
