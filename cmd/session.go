package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/tanq16/tunequeue/internal/config"
	"github.com/tanq16/tunequeue/internal/history"
	"github.com/tanq16/tunequeue/internal/i18n"
	"github.com/tanq16/tunequeue/internal/installer"
	"github.com/tanq16/tunequeue/internal/output"
	"github.com/tanq16/tunequeue/internal/queue"
	"github.com/tanq16/tunequeue/internal/scheduler"
	"github.com/tanq16/tunequeue/internal/utils"
	"github.com/tanq16/tunequeue/internal/ytdlp"
)

type session struct {
	config     *config.Config
	translator *i18n.Translator
	history    *history.History
	client     *ytdlp.Client
	provider   installer.Provider
}

func warn(err error) {
	output.PrintWarning(err.Error())
}

// loadTranslator exits the process when a language file is missing or broken.
func loadTranslator(cfg *config.Config) *i18n.Translator {
	catalog, err := i18n.LoadCatalog(languagesDir)
	if err != nil {
		output.PrintError(err.Error())
		var loadErr *i18n.LoadError
		if errors.As(err, &loadErr) {
			output.PrintError(fmt.Sprintf("Make sure the %s file exists in the languages directory.", loadErr.File))
		}
		os.Exit(1)
	}
	for _, lang := range i18n.All() {
		if missing := catalog.Missing(lang); len(missing) > 0 {
			log.Debug().Str("op", "cmd/loadTranslator").Msgf("%s is missing %d keys", lang, len(missing))
		}
	}
	return i18n.NewTranslator(catalog, cfg.Language(), cfg.Coloring())
}

// newSession wires the stores, translator, yt-dlp client and tool provider from the global flags
func newSession() *session {
	cfg := config.Load(configPath, warn)
	httpClient := utils.NewHTTPClient(utils.HTTPClientConfig{ProxyURL: proxyURL})
	return &session{
		config:     cfg,
		translator: loadTranslator(cfg),
		history:    history.Load(historyPath, warn),
		client:     ytdlp.New("yt-dlp", ytdlp.WithProxy(proxyURL)),
		provider:   installer.Default(installer.WithHTTPClient(httpClient)),
	}
}

// say prints the translated text for key
func (s *session) say(key string, args ...string) {
	fmt.Println(s.translator.GetWithArgs(key, args...))
}

// ensureTools resolves yt-dlp, which is required, and ffmpeg, which is not
func (s *session) ensureTools(ctx context.Context) error {
	ytdlpPath, err := s.provider.Ensure(ctx, installer.YtDlp)
	if err != nil {
		s.say("tool_install_failed", installer.YtDlp.String(), err.Error())
		return err
	}
	ffmpegPath, err := s.provider.Ensure(ctx, installer.FFmpeg)
	if err != nil {
		s.say("tool_install_failed", installer.FFmpeg.String(), err.Error())
		ffmpegPath = ""
	}
	s.client.UseTools(ytdlpPath, ffmpegPath)
	return nil
}

// dedupe drops repeated URLs, reporting each one.
func (s *session) dedupe(jobs []utils.Job) []utils.Job {
	q := queue.New()
	for _, job := range jobs {
		if err := q.Enqueue(job); errors.Is(err, queue.ErrDuplicate) {
			s.say("already_added", job.DisplayTitle())
		}
	}
	return q.Drain()
}

// download runs one batch with the live status display and records successes
// in the history file.
func (s *session) download(ctx context.Context, jobs []utils.Job) error {
	jobs = s.dedupe(jobs)
	if len(jobs) == 0 {
		s.say("no_urls_to_download")
		return nil
	}
	dir := s.config.DownloadDir()
	if err := utils.EnsureDir(dir); err != nil {
		s.say("dir_invalid", dir, err.Error())
		return err
	}
	s.say("starting_download", fmt.Sprint(len(jobs)))

	mgr := output.NewManager(os.Stdout, output.IsTerminal(os.Stdout) && !debug, s.translator)
	mgr.StartDisplay()
	result := scheduler.RunBatch(ctx, jobs, dir, s.client,
		scheduler.WithWorkers(workers),
		scheduler.WithReporter(mgr),
	)
	mgr.StopDisplay()

	if len(result.Succeeded) > 0 {
		if err := s.history.AddAll(result.Succeeded); err != nil {
			s.say("history_save_failed", err.Error())
		}
	}
	if result.FailedCount > 0 {
		return fmt.Errorf("%d of %d downloads failed", result.FailedCount, result.Total)
	}
	return nil
}
