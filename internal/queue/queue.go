package queue

import (
	"errors"
	"sync"

	"github.com/tanq16/tunequeue/internal/utils"
)

var ErrDuplicate = errors.New("already in queue")

// Queue is the live download buffer. Jobs are unique by URL.
type Queue struct {
	mu   sync.Mutex
	jobs []utils.Job
}

func New() *Queue {
	return &Queue{}
}

// Enqueue appends job unless a job with the same URL is already queued, in
// which case it returns ErrDuplicate.
func (q *Queue) Enqueue(job utils.Job) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, existing := range q.jobs {
		if existing.URL == job.URL {
			return ErrDuplicate
		}
	}
	q.jobs = append(q.jobs, job)
	return nil
}

// List returns a copy of the queued jobs in insertion order.
func (q *Queue) List() []utils.Job {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]utils.Job, len(q.jobs))
	copy(out, q.jobs)
	return out
}

func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.jobs)
}

// Drain empties the queue and returns what it held, in order.
func (q *Queue) Drain() []utils.Job {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.jobs
	q.jobs = nil
	return out
}

// Clear drops every queued job and returns how many there were.
func (q *Queue) Clear() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	n := len(q.jobs)
	q.jobs = nil
	return n
}
