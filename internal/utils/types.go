package utils

import (
	"context"
	"time"
)

type Downloader interface {
	Download(ctx context.Context, job Job, targetDir string) error
}

// Job is one queued or completed download, identified by URL.
type Job struct {
	ID           string  `json:"-"`
	URL          string  `json:"url"`
	Title        *string `json:"title"`
	DownloadedAt *string `json:"downloaded_at"`
}

// DisplayTitle falls back to UnknownTitle when the job has no title.
func (j Job) DisplayTitle() string {
	if j.Title == nil || *j.Title == "" {
		return UnknownTitle
	}
	return *j.Title
}

// Stamped returns a copy of j with DownloadedAt set to at.
func (j Job) Stamped(at time.Time) Job {
	stamp := FormatTimestamp(at)
	j.DownloadedAt = &stamp
	return j
}

type BatchEntry struct {
	Link  string `yaml:"link"`
	Title string `yaml:"title,omitempty"`
}

type BatchFile struct {
	URLs    []string     `yaml:"urls"`
	Entries []BatchEntry `yaml:"entries"`
}
