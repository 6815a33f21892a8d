package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tanq16/tunequeue/internal/utils"
)

type fakeDownloader struct {
	fail    map[string]bool
	panicOn string
	delay   time.Duration
	active  atomic.Int32
	peak    atomic.Int32
	calls   atomic.Int32
}

func (f *fakeDownloader) Download(_ context.Context, job utils.Job, _ string) error {
	f.calls.Add(1)
	n := f.active.Add(1)
	defer f.active.Add(-1)
	for {
		peak := f.peak.Load()
		if n <= peak || f.peak.CompareAndSwap(peak, n) {
			break
		}
	}
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if job.URL == f.panicOn {
		panic("boom")
	}
	if f.fail[job.URL] {
		return errors.New("yt-dlp failed: exit status 1")
	}
	return nil
}

type recordingReporter struct {
	mu       sync.Mutex
	started  []string
	finished []string
	failed   []string
}

func (r *recordingReporter) Started(job utils.Job) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.started = append(r.started, job.URL)
}

func (r *recordingReporter) Finished(job utils.Job, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finished = append(r.finished, job.URL)
}

func (r *recordingReporter) Failed(job utils.Job, _ error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failed = append(r.failed, job.URL)
}

func makeJobs(n int) []utils.Job {
	jobs := make([]utils.Job, n)
	for i := range jobs {
		jobs[i] = utils.NewJob(fmt.Sprintf("https://youtu.be/%d", i+1), utils.StringPtr(fmt.Sprintf("Song %d", i+1)))
	}
	return jobs
}

func TestRunBatchOneFailure(t *testing.T) {
	jobs := makeJobs(5)
	dl := &fakeDownloader{fail: map[string]bool{"https://youtu.be/3": true}}
	fixed := time.Date(2024, 3, 1, 12, 0, 0, 0, time.Local)
	rep := &recordingReporter{}

	res := RunBatch(context.Background(), jobs, t.TempDir(), dl, WithReporter(rep), WithClock(func() time.Time { return fixed }))

	assert.Equal(t, 5, res.Total)
	assert.Equal(t, 1, res.FailedCount)
	require.Len(t, res.Succeeded, 4)
	for _, job := range res.Succeeded {
		require.NotNil(t, job.DownloadedAt)
		assert.Equal(t, utils.FormatTimestamp(fixed), *job.DownloadedAt)
		assert.NotEqual(t, "https://youtu.be/3", job.URL)
	}
	assert.Equal(t, "https://youtu.be/1", res.Succeeded[0].URL)
	assert.Equal(t, "https://youtu.be/5", res.Succeeded[3].URL)

	require.Len(t, res.Errors, 1)
	assert.Equal(t, "https://youtu.be/3", res.Errors[0].URL)
	assert.Equal(t, "Song 3", res.Errors[0].Title)

	assert.Len(t, rep.started, 5)
	assert.Len(t, rep.finished, 4)
	assert.Equal(t, []string{"https://youtu.be/3"}, rep.failed)
	assert.Equal(t, int32(5), dl.calls.Load())
}

func TestRunBatchInputsUntouched(t *testing.T) {
	jobs := makeJobs(2)
	RunBatch(context.Background(), jobs, t.TempDir(), &fakeDownloader{})
	for _, job := range jobs {
		assert.Nil(t, job.DownloadedAt)
	}
}

func TestRunBatchEmpty(t *testing.T) {
	res := RunBatch(context.Background(), nil, t.TempDir(), &fakeDownloader{})
	assert.Equal(t, 0, res.Total)
	assert.Empty(t, res.Succeeded)
	assert.Zero(t, res.FailedCount)
}

func TestRunBatchRespectsWorkerLimit(t *testing.T) {
	dl := &fakeDownloader{delay: 20 * time.Millisecond}
	res := RunBatch(context.Background(), makeJobs(8), t.TempDir(), dl, WithWorkers(2))

	assert.Len(t, res.Succeeded, 8)
	assert.LessOrEqual(t, dl.peak.Load(), int32(2))
}

func TestRunBatchAllFail(t *testing.T) {
	jobs := makeJobs(3)
	fail := map[string]bool{}
	for _, j := range jobs {
		fail[j.URL] = true
	}
	res := RunBatch(context.Background(), jobs, t.TempDir(), &fakeDownloader{fail: fail})
	assert.Empty(t, res.Succeeded)
	assert.Equal(t, 3, res.FailedCount)
	assert.Len(t, res.Errors, 3)
}

func TestRunBatchPanicCountsAsFailure(t *testing.T) {
	jobs := makeJobs(3)
	res := RunBatch(context.Background(), jobs, t.TempDir(), &fakeDownloader{panicOn: "https://youtu.be/2"})
	assert.Len(t, res.Succeeded, 2)
	assert.Equal(t, 1, res.FailedCount)
	assert.ErrorContains(t, res.Errors[0].Error, "panicked")
}
