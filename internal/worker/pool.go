package worker

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Job represents a unit of work to be executed
type Job interface {
	Execute(ctx context.Context) Result
}

// Result represents the result of a job execution
type Result interface {
	GetError() error
}

// PanicResult is returned in place of a job's result when the job panicked
type PanicResult struct {
	Err error
}

// GetError returns the recovered panic as an error
func (r *PanicResult) GetError() error {
	return r.Err
}

type indexedJob struct {
	index int
	job   Job
}

type indexedResult struct {
	index  int
	result Result
}

// Pool runs jobs on a fixed number of workers. Wait returns results in
// submission order regardless of completion order.
type Pool struct {
	workers    int
	jobQueue   chan indexedJob
	results    chan indexedResult
	group      errgroup.Group
	ctx        context.Context
	cancelFunc context.CancelFunc
	closeOnce  sync.Once

	submitted int
	collected []indexedResult
	collector sync.WaitGroup
}

// NewPool creates a new worker pool with the specified number of workers
func NewPool(ctx context.Context, workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}

	ctx, cancel := context.WithCancel(ctx)

	return &Pool{
		workers:    workers,
		jobQueue:   make(chan indexedJob, workers*2),
		results:    make(chan indexedResult, workers*2),
		ctx:        ctx,
		cancelFunc: cancel,
	}
}

// Start starts the workers and the result collector
func (p *Pool) Start() {
	p.collector.Add(1)
	go func() {
		defer p.collector.Done()
		for r := range p.results {
			p.collected = append(p.collected, r)
		}
	}()

	for i := 0; i < p.workers; i++ {
		p.group.Go(func() error {
			p.worker()
			return nil
		})
	}
}

func (p *Pool) worker() {
	for ij := range p.jobQueue {
		p.results <- indexedResult{index: ij.index, result: p.run(ij.job)}
	}
}

// run executes job, converting a panic into a PanicResult
func (p *Pool) run(job Job) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			result = &PanicResult{Err: fmt.Errorf("job panicked: %v", r)}
		}
	}()
	return job.Execute(p.ctx)
}

// Submit queues a job. Every submitted job runs, even once the pool context
// is done; jobs see the done context and are expected to return promptly.
func (p *Pool) Submit(job Job) {
	p.jobQueue <- indexedJob{index: p.submitted, job: job}
	p.submitted++
}

// Wait waits for all submitted jobs and returns one result per Submit call,
// in submission order. Wait must be called exactly once.
func (p *Pool) Wait() []Result {
	close(p.jobQueue)
	_ = p.group.Wait()
	p.closeResults()
	p.collector.Wait()
	p.cancelFunc()

	out := make([]Result, p.submitted)
	for _, r := range p.collected {
		out[r.index] = r.result
	}
	return out
}

func (p *Pool) closeResults() {
	p.closeOnce.Do(func() {
		close(p.results)
	})
}
