package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/tanq16/tunequeue/internal/utils"
)

// History is the append-only log of completed downloads. Every mutation
// rewrites the whole file.
type History struct {
	mu        sync.Mutex
	path      string
	downloads []utils.Job
	now       func() time.Time
}

type fileFormat struct {
	Downloads []utils.Job `json:"downloads"`
}

// Load never fails: a missing or unreadable file yields an empty history. A
// parse failure is passed to onParseError, if given, before starting empty.
func Load(path string, onParseError func(error)) *History {
	h := &History{path: path, now: time.Now}
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.Debug().Str("op", "history/Load").Err(err).Msg("unreadable history file")
		}
		return h
	}
	var parsed fileFormat
	if err := json.Unmarshal(data, &parsed); err != nil {
		log.Debug().Str("op", "history/Load").Err(err).Msg("error parsing history file")
		if onParseError != nil {
			onParseError(fmt.Errorf("error parsing history file: %w", err))
		}
		return h
	}
	h.downloads = parsed.Downloads
	return h
}

// Add stamps the job with the current time, appends it and persists.
func (h *History) Add(job utils.Job) (utils.Job, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	job = job.Stamped(h.now())
	h.downloads = append(h.downloads, job)
	return job, h.saveLocked()
}

// AddAll stamps and appends every job, then saves once.
func (h *History) AddAll(jobs []utils.Job) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, job := range jobs {
		h.downloads = append(h.downloads, job.Stamped(h.now()))
	}
	return h.saveLocked()
}

func (h *History) Save() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.saveLocked()
}

func (h *History) saveLocked() error {
	downloads := h.downloads
	if downloads == nil {
		downloads = []utils.Job{}
	}
	data, err := json.MarshalIndent(fileFormat{Downloads: downloads}, "", "  ")
	if err != nil {
		return fmt.Errorf("error encoding history: %w", err)
	}
	if err := os.WriteFile(h.path, data, 0644); err != nil {
		return fmt.Errorf("error writing history: %w", err)
	}
	return nil
}

func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.downloads)
}

// All returns a copy of every entry, oldest first.
func (h *History) All() []utils.Job {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]utils.Job, len(h.downloads))
	copy(out, h.downloads)
	return out
}

// Entry pairs a history record with its 1-based position in the log.
type Entry struct {
	Position int
	Job      utils.Job
}

// Recent returns up to n entries, newest first.
func (h *History) Recent(n int) []Entry {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []Entry
	for i := len(h.downloads) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, Entry{Position: i + 1, Job: h.downloads[i]})
	}
	return out
}
