package menu

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/tanq16/tunequeue/internal/config"
	"github.com/tanq16/tunequeue/internal/history"
	"github.com/tanq16/tunequeue/internal/i18n"
	"github.com/tanq16/tunequeue/internal/installer"
	"github.com/tanq16/tunequeue/internal/queue"
	"github.com/tanq16/tunequeue/internal/scheduler"
	"github.com/tanq16/tunequeue/internal/utils"
	"github.com/tanq16/tunequeue/internal/ytdlp"
)

// MediaClient is the part of the yt-dlp driver the menus need.
type MediaClient interface {
	utils.Downloader
	FetchPlaylist(ctx context.Context, url string) (ytdlp.Playlist, error)
	UseTools(ytdlpPath, ffmpegPath string)
}

type App struct {
	Translator *i18n.Translator
	Config     *config.Config
	Queue      *queue.Queue
	History    *history.History
	Client     MediaClient
	Provider   installer.Provider
	Prompt     Prompter
	Out        io.Writer
	Workers    int
	Version    string

	outMu      sync.Mutex
	toolsReady bool
	ffmpegPath string
}

func (a *App) say(key string, args ...string) {
	a.outMu.Lock()
	defer a.outMu.Unlock()
	fmt.Fprintln(a.Out, a.Translator.GetWithArgs(key, args...))
}

func (a *App) sayRaw(text string) {
	a.outMu.Lock()
	defer a.outMu.Unlock()
	fmt.Fprintln(a.Out, text)
}

func (a *App) ask(key string, args ...string) (string, error) {
	return a.Prompt.Prompt(a.Translator.GetWithArgs(key, args...))
}

// Run drives the main menu until the user exits or closes input.
func (a *App) Run(ctx context.Context) error {
	a.say("app_banner", a.Version)
	a.say("current_language", a.Translator.Text(a.Translator.Language().DisplayKey()))
	a.say("download_directory", a.Config.DownloadDir())
	a.ensureFFmpeg(ctx)

	for {
		option, err := a.chooseMain()
		if errors.Is(err, ErrQuit) {
			a.say("app_stopped")
			return nil
		}
		if err != nil {
			return err
		}
		if err := a.dispatch(ctx, option); err != nil {
			if errors.Is(err, ErrQuit) {
				a.say("app_stopped")
				return nil
			}
			return err
		}
		if option == Exit {
			return nil
		}
	}
}

func (a *App) chooseMain() (MainOption, error) {
	last := strconv.Itoa(len(mainOptions))
	for {
		a.sayRaw("")
		a.say("menu_title")
		for _, option := range mainOptions {
			a.say(option.Key())
		}
		input, err := a.ask("menu_enter_choice", "1", last)
		if err != nil {
			return 0, err
		}
		if n, ok := parseChoice(input, len(mainOptions)); ok {
			return mainOptions[n-1], nil
		}
		a.say("invalid_choice", "1", last)
	}
}

func (a *App) dispatch(ctx context.Context, option MainOption) error {
	switch option {
	case AddURL:
		return a.addURL(ctx)
	case ListQueue:
		a.listQueue()
	case Download:
		a.download(ctx)
	case ViewHistory:
		a.viewHistory()
	case ClearQueue:
		a.say("queue_cleared", strconv.Itoa(a.Queue.Clear()))
	case Settings:
		return a.settings()
	case Exit:
		a.say("exiting")
	default:
		panic(fmt.Sprintf("unhandled main menu option %d", int(option)))
	}
	return nil
}

// ensureTool finds tool, installing it when it is missing.
func (a *App) ensureTool(ctx context.Context, tool installer.Tool) (string, bool) {
	if path, ok := a.Provider.Locate(tool); ok {
		return path, true
	}
	a.say("tool_missing", tool.String())
	path, err := a.Provider.Ensure(ctx, tool)
	if err != nil {
		a.say("tool_install_failed", tool.String(), err.Error())
		return "", false
	}
	a.say("tool_installed", tool.String(), path)
	return path, true
}

// ensureYtDlp resolves yt-dlp once per session.
func (a *App) ensureYtDlp(ctx context.Context) bool {
	if a.toolsReady {
		return true
	}
	path, ok := a.ensureTool(ctx, installer.YtDlp)
	if !ok {
		return false
	}
	log.Debug().Str("op", "menu/ensureYtDlp").Msgf("using yt-dlp at %s", path)
	a.Client.UseTools(path, a.ffmpegPath)
	a.toolsReady = true
	return true
}

func (a *App) ensureFFmpeg(ctx context.Context) {
	if path, ok := a.ensureTool(ctx, installer.FFmpeg); ok {
		a.ffmpegPath = path
	}
}

// addURL expands a URL and queues every job it yields.
func (a *App) addURL(ctx context.Context) error {
	if !a.ensureYtDlp(ctx) {
		return nil
	}
	url, err := a.ask("enter_url")
	if err != nil {
		return err
	}
	if url == "" {
		return nil
	}
	a.say("fetching_info")
	playlist, err := a.Client.FetchPlaylist(ctx, url)
	if err != nil {
		a.say("error_fetching", err.Error())
		return nil
	}
	if playlist.IsPlaylist {
		title := a.Translator.Text("unknown_title")
		if playlist.Title != nil && *playlist.Title != "" {
			title = *playlist.Title
		}
		a.say("playlist_found", title)
		a.say("playlist_count", strconv.Itoa(len(playlist.Jobs)))
	}
	for _, job := range playlist.Jobs {
		if err := a.Queue.Enqueue(job); errors.Is(err, queue.ErrDuplicate) {
			a.say("already_added", a.title(job))
			continue
		}
		a.say("added_to_queue", a.title(job))
	}
	return nil
}

func (a *App) title(job utils.Job) string {
	if job.Title == nil || *job.Title == "" {
		return a.Translator.Text("unknown_title")
	}
	return *job.Title
}

func (a *App) listQueue() {
	jobs := a.Queue.List()
	if len(jobs) == 0 {
		a.say("download_queue_empty")
		return
	}
	a.sayRaw("")
	a.say("download_queue_title")
	for i, job := range jobs {
		a.sayRaw(fmt.Sprintf("%d. %s", i+1, a.title(job)))
	}
}

type batchReporter struct {
	app *App
}

func (r batchReporter) Started(job utils.Job) {
	r.app.say("video_downloading", r.app.title(job))
}

func (r batchReporter) Finished(job utils.Job, elapsed time.Duration) {
	r.app.say("video_downloaded", r.app.title(job), strconv.Itoa(int(elapsed.Seconds())))
}

func (r batchReporter) Failed(job utils.Job, err error) {
	r.app.say("video_download_failed", r.app.title(job), err.Error())
}

// download drains the queue into one batch and records the successes.
func (a *App) download(ctx context.Context) {
	jobs := a.Queue.Drain()
	if len(jobs) == 0 {
		a.say("no_urls_to_download")
		return
	}
	dir := a.Config.DownloadDir()
	if err := utils.EnsureDir(dir); err != nil {
		a.say("dir_invalid", dir, err.Error())
		a.requeue(jobs)
		return
	}
	if !a.ensureYtDlp(ctx) {
		a.requeue(jobs)
		return
	}
	a.say("starting_download", strconv.Itoa(len(jobs)))
	result := scheduler.RunBatch(ctx, jobs, dir, a.Client,
		scheduler.WithWorkers(a.Workers),
		scheduler.WithReporter(batchReporter{app: a}),
	)
	a.sayRaw("")
	a.say("download_summary")
	a.say("download_success", strconv.Itoa(len(result.Succeeded)), strconv.Itoa(result.Total))
	a.say("download_fail", strconv.Itoa(result.FailedCount))
	if len(result.Succeeded) > 0 {
		if err := a.History.AddAll(result.Succeeded); err != nil {
			a.say("history_save_failed", err.Error())
		}
	}
}

func (a *App) requeue(jobs []utils.Job) {
	for _, job := range jobs {
		_ = a.Queue.Enqueue(job)
	}
}

// viewHistory shows the most recent entries with relative dates.
func (a *App) viewHistory() {
	total := a.History.Len()
	if total == 0 {
		a.say("no_history")
		return
	}
	a.sayRaw("")
	a.say("history_title")
	for _, entry := range a.History.Recent(utils.HistoryShown) {
		a.say("history_entry", strconv.Itoa(entry.Position), a.title(entry.Job), a.downloadedAt(entry.Job))
	}
	if total > utils.HistoryShown {
		a.say("history_more", strconv.Itoa(total-utils.HistoryShown))
	}
}

func (a *App) downloadedAt(job utils.Job) string {
	if job.DownloadedAt == nil {
		return a.Translator.Text("unknown_title")
	}
	return utils.HumanTimestamp(*job.DownloadedAt)
}
