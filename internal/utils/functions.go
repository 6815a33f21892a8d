package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// NewJob builds a job with a fresh ID and no download timestamp.
func NewJob(url string, title *string) Job {
	return Job{
		ID:    uuid.New().String(),
		URL:   url,
		Title: title,
	}
}

func StringPtr(s string) *string {
	return &s
}

// FormatTimestamp renders t in local time with its UTC offset.
func FormatTimestamp(t time.Time) string {
	return t.Local().Format(TimestampFmt)
}

func ParseTimestamp(s string) (time.Time, error) {
	return time.Parse(TimestampFmt, s)
}

// HumanTimestamp renders a stored timestamp as "2006-01-02 15:04 (3 days
// ago)". Values that do not parse are returned unchanged.
func HumanTimestamp(stamp string) string {
	return humanTimestamp(stamp, time.Now())
}

func humanTimestamp(stamp string, now time.Time) string {
	at, err := ParseTimestamp(stamp)
	if err != nil {
		return stamp
	}
	return fmt.Sprintf("%s (%s)", at.Format("2006-01-02 15:04"), humanize.RelTime(at, now, "ago", "from now"))
}

// ExpandPath expands a leading ~ and makes path absolute.
func ExpandPath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", fmt.Errorf("empty path")
	}
	if path == "~" || strings.HasPrefix(path, "~/") || strings.HasPrefix(path, `~\`) {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("error resolving home directory: %v", err)
		}
		path = filepath.Join(home, path[1:])
	}
	return filepath.Abs(path)
}

// EnsureDir creates path if missing and fails if it exists as a file.
func EnsureDir(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return os.MkdirAll(path, 0755)
	}
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", path)
	}
	return nil
}

func DefaultMusicDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, "Music")
}

// ReadBatchFile accepts either {urls: [...], entries: [...]} or a bare list of
// {link, title} entries.
func ReadBatchFile(path string) ([]Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading batch file: %v", err)
	}
	var file BatchFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		var entries []BatchEntry
		if listErr := yaml.Unmarshal(data, &entries); listErr != nil {
			return nil, fmt.Errorf("error parsing batch file: %v", err)
		}
		file.Entries = entries
	}
	var jobs []Job
	for _, url := range file.URLs {
		if url = strings.TrimSpace(url); url != "" {
			jobs = append(jobs, NewJob(url, nil))
		}
	}
	for _, entry := range file.Entries {
		link := strings.TrimSpace(entry.Link)
		if link == "" {
			continue
		}
		var title *string
		if entry.Title != "" {
			title = StringPtr(entry.Title)
		}
		jobs = append(jobs, NewJob(link, title))
	}
	return jobs, nil
}

var partialPatterns = []string{"*.part", "*.ytdl", "*.part-Frag*"}

// CleanPartials removes leftover yt-dlp fragments from dir and reports how
// many bytes were freed.
func CleanPartials(dir string) ([]string, uint64, error) {
	var removed []string
	var freed uint64
	for _, pattern := range partialPatterns {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return removed, freed, err
		}
		for _, match := range matches {
			info, err := os.Stat(match)
			if err != nil || info.IsDir() {
				continue
			}
			if err := os.Remove(match); err != nil {
				return removed, freed, fmt.Errorf("error removing %s: %v", match, err)
			}
			removed = append(removed, match)
			freed += uint64(info.Size())
		}
	}
	return removed, freed, nil
}
