package batch

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"tslower/pkg/driver"
	"tslower/pkg/errors"
)

// Job is one file to lower.
type Job struct {
	Index int // position of the file in the caller's list
	Path  string
	// OutputPath is where the JavaScript goes; empty means no file is written.
	OutputPath string
}

// Result is the outcome of one Job.
type Result struct {
	Job
	JavaScript  string
	Diagnostics []errors.Diagnostic // advisory findings, or the ones that stopped lowering
	Err         error
	WorkerID    int
	Duration    time.Duration
}

// Failed reports whether the file could not be lowered.
func (r *Result) Failed() bool { return r.Err != nil }

// Stats summarise the work a pool has done.
type Stats struct {
	WorkerCount   int
	TotalJobs     int
	ActiveJobs    int
	CompletedJobs int
	FailedJobs    int
	BytesWritten  int64
	TotalTime     time.Duration
	AverageTime   time.Duration
}

// Pool lowers files on a fixed set of worker goroutines.
type Pool struct {
	numWorkers int
	cfg        *driver.Config

	jobQueue   chan *Job
	resultChan chan *Result

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	started    int32 // atomic
	stopped    int32 // atomic
	activeJobs int32 // atomic

	stats      Stats
	statsMutex sync.RWMutex
}

// NewPool creates a pool of numWorkers workers, one per CPU when
// numWorkers is not positive.
func NewPool(numWorkers int, cfg *driver.Config) *Pool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	if cfg == nil {
		cfg = driver.DefaultConfig()
	}
	return &Pool{numWorkers: numWorkers, cfg: cfg}
}

// Start launches the workers. queueSize bounds the number of submitted jobs
// waiting for a worker.
func (p *Pool) Start(ctx context.Context, queueSize int) error {
	if !atomic.CompareAndSwapInt32(&p.started, 0, 1) {
		return fmt.Errorf("worker pool already started")
	}
	p.ctx, p.cancel = context.WithCancel(ctx)
	p.jobQueue = make(chan *Job, queueSize)
	p.resultChan = make(chan *Result, queueSize)
	p.stats = Stats{WorkerCount: p.numWorkers}

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.work(i)
	}
	return nil
}

// Submit queues a job, blocking while the queue is full.
func (p *Pool) Submit(job *Job) error {
	if atomic.LoadInt32(&p.started) == 0 {
		return fmt.Errorf("worker pool not started")
	}
	if atomic.LoadInt32(&p.stopped) == 1 {
		return fmt.Errorf("worker pool stopped")
	}

	select {
	case p.jobQueue <- job:
		atomic.AddInt32(&p.activeJobs, 1)
		p.statsMutex.Lock()
		p.stats.TotalJobs++
		p.statsMutex.Unlock()
		return nil
	case <-p.ctx.Done():
		return p.ctx.Err()
	}
}

// Results delivers one Result per submitted job. The channel is closed by
// Shutdown.
func (p *Pool) Results() <-chan *Result {
	return p.resultChan
}

// Shutdown stops accepting jobs and waits for the workers to finish the
// queued ones, or for ctx to expire.
func (p *Pool) Shutdown(ctx context.Context) error {
	if !atomic.CompareAndSwapInt32(&p.stopped, 0, 1) {
		return fmt.Errorf("worker pool already stopped")
	}
	close(p.jobQueue)

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.cancel()
		close(p.resultChan)
		return nil
	case <-ctx.Done():
		p.cancel()
		return ctx.Err()
	}
}

// Stats returns a snapshot of the pool's counters.
func (p *Pool) Stats() Stats {
	p.statsMutex.RLock()
	defer p.statsMutex.RUnlock()
	stats := p.stats
	stats.ActiveJobs = int(atomic.LoadInt32(&p.activeJobs))
	return stats
}

func (p *Pool) work(id int) {
	defer p.wg.Done()
	for {
		select {
		case job, ok := <-p.jobQueue:
			if !ok {
				return
			}
			result := p.process(id, job)

			p.statsMutex.Lock()
			if result.Failed() {
				p.stats.FailedJobs++
			} else {
				p.stats.CompletedJobs++
			}
			if job.OutputPath != "" && !result.Failed() {
				p.stats.BytesWritten += int64(len(result.JavaScript))
			}
			p.stats.TotalTime += result.Duration
			p.stats.AverageTime = p.stats.TotalTime / time.Duration(p.stats.CompletedJobs+p.stats.FailedJobs)
			p.statsMutex.Unlock()
			atomic.AddInt32(&p.activeJobs, -1)

			select {
			case p.resultChan <- result:
			case <-p.ctx.Done():
				return
			}
		case <-p.ctx.Done():
			return
		}
	}
}

func (p *Pool) process(id int, job *Job) *Result {
	start := time.Now()
	result := &Result{Job: *job, WorkerID: id}
	defer func() { result.Duration = time.Since(start) }()

	src, err := driver.ReadSource(job.Path)
	if err != nil {
		result.Err = err
		return result
	}
	compiled, errs := driver.Compile(src, p.cfg)
	if len(errs) > 0 {
		result.Diagnostics = errs
		result.Err = &driver.DiagnosticsError{Diagnostics: errs}
		return result
	}
	result.JavaScript = compiled.JavaScript
	result.Diagnostics = compiled.Diagnostics

	if job.OutputPath != "" {
		if err := os.WriteFile(job.OutputPath, []byte(compiled.JavaScript), 0644); err != nil {
			result.Err = fmt.Errorf("write %s: %w", job.OutputPath, err)
		}
	}
	return result
}
