package output

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/tanq16/tunequeue/internal/utils"
)

type jobStatus struct {
	Index     int
	URL       string
	Title     string
	Status    string
	Message   string
	StartTime time.Time
	EndTime   time.Time
	Complete  bool
}

type ErrorReport struct {
	URL   string
	Title string
	Error error
	Time  time.Time
}

// Messages supplies every line the manager prints. GetWithArgs returns
// display-ready text and Text returns a value meant to be nested inside
// another message.
type Messages interface {
	GetWithArgs(key string, args ...string) string
	Text(key string) string
}

type rawMessages struct{}

func (rawMessages) GetWithArgs(key string, args ...string) string {
	return strings.TrimSpace(key + " " + strings.Join(args, " "))
}

func (rawMessages) Text(key string) string {
	if key == "unknown_title" {
		return utils.UnknownTitle
	}
	return key
}

// Manager renders the progress of a non-interactive batch. In live mode it
// redraws a status block on a ticker; otherwise each event is printed once as
// it happens. All text comes from msg.
type Manager struct {
	mutex       sync.RWMutex
	w           io.Writer
	live        bool
	msg         Messages
	jobs        map[string]*jobStatus
	jobCount    int
	errors      []ErrorReport
	numLines    int
	doneCh      chan struct{}
	displayTick time.Duration
	displayWg   sync.WaitGroup
}

// NewManager builds a manager writing to w. A nil msg prints raw keys.
func NewManager(w io.Writer, live bool, msg Messages) *Manager {
	if msg == nil {
		msg = rawMessages{}
	}
	return &Manager{
		w:           w,
		live:        live,
		msg:         msg,
		jobs:        make(map[string]*jobStatus),
		doneCh:      make(chan struct{}),
		displayTick: 300 * time.Millisecond,
	}
}

func jobKey(job utils.Job) string {
	if job.ID != "" {
		return job.ID
	}
	return job.URL
}

func (m *Manager) title(job utils.Job) string {
	if job.Title == nil || *job.Title == "" {
		return m.msg.Text("unknown_title")
	}
	return *job.Title
}

// Started registers job as in progress.
func (m *Manager) Started(job utils.Job) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.jobCount++
	title := m.title(job)
	status := &jobStatus{
		Index:     m.jobCount,
		URL:       job.URL,
		Title:     title,
		Status:    "pending",
		Message:   m.msg.GetWithArgs("video_downloading", title),
		StartTime: time.Now(),
	}
	m.jobs[jobKey(job)] = status
	if !m.live {
		m.printLine(status)
	}
}

// Finished marks job as downloaded.
func (m *Manager) Finished(job utils.Job, elapsed time.Duration) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	status := m.lookup(job)
	status.Status = "success"
	status.Complete = true
	status.EndTime = status.StartTime.Add(elapsed)
	status.Message = m.msg.GetWithArgs("video_downloaded", status.Title, strconv.Itoa(int(elapsed.Seconds())))
	if !m.live {
		m.printLine(status)
	}
}

// Failed marks job as failed and records err for the error list.
func (m *Manager) Failed(job utils.Job, err error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	status := m.lookup(job)
	status.Status = "error"
	status.Complete = true
	status.EndTime = time.Now()
	status.Message = m.msg.GetWithArgs("video_download_failed", status.Title, err.Error())
	m.errors = append(m.errors, ErrorReport{
		URL:   job.URL,
		Title: status.Title,
		Error: err,
		Time:  time.Now(),
	})
	if !m.live {
		m.printLine(status)
	}
}

// lookup returns the status for job, registering it when a failure arrives
// before the job ever started.
func (m *Manager) lookup(job utils.Job) *jobStatus {
	if status, ok := m.jobs[jobKey(job)]; ok {
		return status
	}
	m.jobCount++
	status := &jobStatus{Index: m.jobCount, URL: job.URL, Title: m.title(job), StartTime: time.Now()}
	m.jobs[jobKey(job)] = status
	return status
}

// Errors returns a copy of the failures seen so far.
func (m *Manager) Errors() []ErrorReport {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return append([]ErrorReport(nil), m.errors...)
}

func (m *Manager) statusIndicator(status string) string {
	switch status {
	case "success":
		return successStyle.Render(StyleSymbols["pass"])
	case "error":
		return errorStyle.Render(StyleSymbols["fail"])
	case "pending":
		return pendingStyle.Render(StyleSymbols["pending"])
	default:
		return infoStyle.Render(StyleSymbols["bullet"])
	}
}

func (m *Manager) printLine(info *jobStatus) int {
	elapsed := time.Since(info.StartTime)
	if info.Complete {
		elapsed = info.EndTime.Sub(info.StartTime)
	}
	fmt.Fprintf(m.w, "%s%s %s %s\n", strings.Repeat(" ", 2), m.statusIndicator(info.Status),
		debugStyle.Render(elapsed.Round(time.Second).String()), info.Message)
	return 1
}

func (m *Manager) sorted() (active, completed []*jobStatus) {
	var all []*jobStatus
	for _, info := range m.jobs {
		all = append(all, info)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].Index < all[j].Index
	})
	for _, info := range all {
		if info.Complete {
			completed = append(completed, info)
		} else {
			active = append(active, info)
		}
	}
	return active, completed
}

func (m *Manager) updateDisplay() {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	availableLines := terminalHeight() - 3
	if m.numLines > 0 {
		fmt.Fprintf(m.w, "\033[%dA\033[J", m.numLines)
	}
	active, completed := m.sorted()
	if len(active)+len(completed) > availableLines {
		keep := max(availableLines-len(active), 0)
		if len(completed) > keep {
			completed = completed[len(completed)-keep:]
		}
	}
	lineCount := 0
	for _, info := range append(active, completed...) {
		if lineCount >= availableLines {
			break
		}
		lineCount += m.printLine(info)
	}
	m.numLines = lineCount
}

// StartDisplay starts the redraw loop in live mode and does nothing otherwise.
func (m *Manager) StartDisplay() {
	if !m.live {
		return
	}
	m.displayWg.Add(1)
	go func() {
		defer m.displayWg.Done()
		ticker := time.NewTicker(m.displayTick)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				m.updateDisplay()
			case <-m.doneCh:
				m.updateDisplay()
				return
			}
		}
	}()
}

// StopDisplay draws the final state and the summary.
func (m *Manager) StopDisplay() {
	close(m.doneCh)
	m.displayWg.Wait()
	m.ShowSummary()
}

func (m *Manager) displayErrors() {
	if len(m.errors) == 0 {
		return
	}
	fmt.Fprintln(m.w)
	fmt.Fprintln(m.w, strings.Repeat(" ", 2)+m.msg.GetWithArgs("download_errors"))
	for i, report := range m.errors {
		fmt.Fprintf(m.w, "%s%s %s %s\n",
			strings.Repeat(" ", 2+2),
			errorStyle.Render(fmt.Sprintf("%d.", i+1)),
			debugStyle.Render(fmt.Sprintf("[%s]", report.Time.Format("15:04:05"))),
			errorStyle.Render(report.URL))
		fmt.Fprintf(m.w, "%s%s\n", strings.Repeat(" ", 2+4), m.msg.GetWithArgs("download_error_detail", fmt.Sprint(report.Error)))
	}
}

// ShowSummary prints the success and failure counts followed by the error
// list.
func (m *Manager) ShowSummary() {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	var success, failures int
	for _, info := range m.jobs {
		switch info.Status {
		case "success":
			success++
		case "error":
			failures++
		}
	}
	indent := strings.Repeat(" ", 2)
	fmt.Fprintln(m.w)
	fmt.Fprintln(m.w, indent+m.msg.GetWithArgs("download_summary"))
	fmt.Fprintln(m.w, indent+m.msg.GetWithArgs("download_success", strconv.Itoa(success), strconv.Itoa(len(m.jobs))))
	fmt.Fprintln(m.w, indent+m.msg.GetWithArgs("download_fail", strconv.Itoa(failures)))
	m.displayErrors()
	fmt.Fprintln(m.w)
}
