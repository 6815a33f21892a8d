package scheduler

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/rs/zerolog/log"

	"github.com/tanq16/tunequeue/internal/output"
	"github.com/tanq16/tunequeue/internal/utils"
)

// Reporter is told about each job as the batch progresses. Calls arrive from
// worker goroutines.
type Reporter interface {
	Started(job utils.Job)
	Finished(job utils.Job, elapsed time.Duration)
	Failed(job utils.Job, err error)
}

type nopReporter struct{}

func (nopReporter) Started(utils.Job)                 {}
func (nopReporter) Finished(utils.Job, time.Duration) {}
func (nopReporter) Failed(utils.Job, error)           {}

type BatchResult struct {
	Total       int
	Succeeded   []utils.Job
	FailedCount int
	Errors      []output.ErrorReport
}

type options struct {
	workers  int
	reporter Reporter
	now      func() time.Time
}

type Option func(*options)

// WithWorkers caps concurrent downloads. Values below 1 mean one per CPU.
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

// WithReporter receives per-job events. A nil reporter is ignored.
func WithReporter(r Reporter) Option {
	return func(o *options) {
		if r != nil {
			o.reporter = r
		}
	}
}

// WithClock sets the time source used for completion stamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

type outcome struct {
	job utils.Job
	err error
	ok  bool
}

// RunBatch downloads every job into targetDir and blocks until all of them
// have finished. A failing job never stops its siblings. Succeeded keeps the
// input order and each entry carries its completion timestamp.
func RunBatch(ctx context.Context, jobs []utils.Job, targetDir string, dl utils.Downloader, opts ...Option) BatchResult {
	o := options{reporter: nopReporter{}, now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	if o.workers < 1 {
		o.workers = runtime.NumCPU()
	}
	result := BatchResult{Total: len(jobs)}
	if len(jobs) == 0 {
		return result
	}
	log.Debug().Str("op", "scheduler/RunBatch").Msgf("starting %d jobs with %d workers", len(jobs), o.workers)

	outcomes := make([]outcome, len(jobs))
	pool, err := ants.NewPool(o.workers)
	if err != nil {
		for i, job := range jobs {
			outcomes[i] = outcome{job: job, err: fmt.Errorf("error creating worker pool: %w", err)}
		}
		return collect(result, outcomes, o.now)
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for i, job := range jobs {
		i, job := i, job
		wg.Add(1)
		task := func() {
			defer wg.Done()
			outcomes[i] = runJob(ctx, job, targetDir, dl, o)
		}
		if err := pool.Submit(task); err != nil {
			wg.Done()
			outcomes[i] = outcome{job: job, err: fmt.Errorf("error submitting job: %w", err)}
			o.reporter.Failed(job, outcomes[i].err)
		}
	}
	wg.Wait()
	return collect(result, outcomes, o.now)
}

func runJob(ctx context.Context, job utils.Job, targetDir string, dl utils.Downloader, o options) (out outcome) {
	out.job = job
	defer func() {
		if r := recover(); r != nil {
			out = outcome{job: job, err: fmt.Errorf("download panicked: %v", r)}
			o.reporter.Failed(job, out.err)
		}
	}()
	o.reporter.Started(job)
	start := time.Now()
	if err := dl.Download(ctx, job, targetDir); err != nil {
		log.Debug().Str("op", "scheduler/runJob").Msgf("job %s failed: %v", job.URL, err)
		o.reporter.Failed(job, err)
		return outcome{job: job, err: err}
	}
	stamped := job.Stamped(o.now())
	o.reporter.Finished(stamped, time.Since(start))
	return outcome{job: stamped, ok: true}
}

func collect(result BatchResult, outcomes []outcome, now func() time.Time) BatchResult {
	for _, out := range outcomes {
		if out.ok {
			result.Succeeded = append(result.Succeeded, out.job)
			continue
		}
		result.FailedCount++
		result.Errors = append(result.Errors, output.ErrorReport{
			URL:   out.job.URL,
			Title: out.job.DisplayTitle(),
			Error: out.err,
			Time:  now(),
		})
	}
	return result
}
