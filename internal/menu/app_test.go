package menu

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tanq16/tunequeue/internal/config"
	"github.com/tanq16/tunequeue/internal/history"
	"github.com/tanq16/tunequeue/internal/i18n"
	"github.com/tanq16/tunequeue/internal/installer"
	"github.com/tanq16/tunequeue/internal/queue"
	"github.com/tanq16/tunequeue/internal/utils"
	"github.com/tanq16/tunequeue/internal/ytdlp"
)

type scriptedPrompter struct {
	inputs  []string
	prompts []string
}

func (s *scriptedPrompter) Prompt(prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if len(s.inputs) == 0 {
		return "", ErrQuit
	}
	next := s.inputs[0]
	s.inputs = s.inputs[1:]
	return strings.TrimSpace(next), nil
}

func (s *scriptedPrompter) Close() error { return nil }

type fakeClient struct {
	mu        sync.Mutex
	playlists map[string]ytdlp.Playlist
	fail      map[string]bool
	path      string
	ffmpeg    string
}

func (f *fakeClient) FetchPlaylist(_ context.Context, url string) (ytdlp.Playlist, error) {
	pl, ok := f.playlists[url]
	if !ok {
		return ytdlp.Playlist{}, errors.New("unsupported URL")
	}
	return pl, nil
}

func (f *fakeClient) Download(_ context.Context, job utils.Job, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail[job.URL] {
		return errors.New("exit status 1")
	}
	return nil
}

func (f *fakeClient) UseTools(ytdlpPath, ffmpegPath string) {
	f.path = ytdlpPath
	f.ffmpeg = ffmpegPath
}

type fakeProvider struct {
	installed  map[installer.Tool]string
	installErr error
	ensured    []installer.Tool
}

func (f *fakeProvider) Locate(tool installer.Tool) (string, bool) {
	path, ok := f.installed[tool]
	return path, ok
}

func (f *fakeProvider) Ensure(_ context.Context, tool installer.Tool) (string, error) {
	f.ensured = append(f.ensured, tool)
	if f.installErr != nil {
		return "", f.installErr
	}
	path := "/usr/bin/" + tool.String()
	f.installed[tool] = path
	return path, nil
}

type harness struct {
	app      *App
	out      *bytes.Buffer
	client   *fakeClient
	provider *fakeProvider
	prompt   *scriptedPrompter
	dir      string
}

func newHarness(t *testing.T, inputs ...string) *harness {
	t.Helper()
	cat, err := i18n.LoadCatalog(filepath.Join("..", "..", "languages"))
	require.NoError(t, err)

	dir := t.TempDir()
	cfg := config.Load(filepath.Join(dir, "config.toml"), nil)
	require.NoError(t, cfg.SetDownloadDir(filepath.Join(dir, "music")))

	h := &harness{
		out:    &bytes.Buffer{},
		client: &fakeClient{playlists: map[string]ytdlp.Playlist{}, fail: map[string]bool{}},
		provider: &fakeProvider{installed: map[installer.Tool]string{
			installer.YtDlp:  "/usr/bin/yt-dlp",
			installer.FFmpeg: "/usr/bin/ffmpeg",
		}},
		prompt: &scriptedPrompter{inputs: inputs},
		dir:    dir,
	}
	h.app = &App{
		Translator: i18n.NewTranslator(cat, i18n.English, false),
		Config:     cfg,
		Queue:      queue.New(),
		History:    history.Load(filepath.Join(dir, "download_history.json"), nil),
		Client:     h.client,
		Provider:   h.provider,
		Prompt:     h.prompt,
		Out:        h.out,
		Workers:    2,
		Version:    "test",
	}
	return h
}

func (h *harness) run(t *testing.T) string {
	t.Helper()
	require.NoError(t, h.app.Run(context.Background()))
	return h.out.String()
}

func TestExitOption(t *testing.T) {
	h := newHarness(t, "7")
	out := h.run(t)
	assert.Contains(t, out, "Music Downloader")
	assert.Contains(t, out, "Current language: English")
	assert.Contains(t, out, "Exiting...")
	assert.Equal(t, "Enter your choice (1-7): ", h.prompt.prompts[0])
}

func TestInputClosedStopsCleanly(t *testing.T) {
	h := newHarness(t)
	out := h.run(t)
	assert.Contains(t, out, "Application stopped.")
}

func TestInvalidChoice(t *testing.T) {
	h := newHarness(t, "9", "abc", "0", "7")
	out := h.run(t)
	assert.Equal(t, 3, strings.Count(out, "Invalid choice. Please enter a number between 1 and 7."))
	assert.Contains(t, out, "Exiting...")
}

func TestAddListDownloadHistory(t *testing.T) {
	h := newHarness(t, "1", "https://youtube.com/playlist?list=mix", "1", "https://youtu.be/a", "2", "3", "4", "7")
	h.client.playlists["https://youtube.com/playlist?list=mix"] = ytdlp.Playlist{
		IsPlaylist: true,
		Title:      utils.StringPtr("Mix"),
		Jobs: []utils.Job{
			utils.NewJob("https://youtu.be/a", utils.StringPtr("Song A")),
			utils.NewJob("https://youtu.be/b", utils.StringPtr("Song B")),
			utils.NewJob("https://youtu.be/c", nil),
		},
	}
	h.client.playlists["https://youtu.be/a"] = ytdlp.Playlist{
		Jobs: []utils.Job{utils.NewJob("https://youtu.be/a", utils.StringPtr("Song A"))},
	}
	h.client.fail["https://youtu.be/b"] = true

	out := h.run(t)
	assert.Contains(t, out, "Found playlist: Mix")
	assert.Contains(t, out, "Number of videos in playlist: 3")
	assert.Contains(t, out, "Added to queue: Song A")
	assert.Contains(t, out, "Added to queue: Unknown")
	assert.Contains(t, out, "Already added to the queue: Song A")
	assert.Contains(t, out, "1. Song A\n2. Song B\n3. Unknown")
	assert.Contains(t, out, "Starting download of 3 item(s)...")
	assert.Contains(t, out, "Failed to download Song B: exit status 1")
	assert.Contains(t, out, "Successful: 2 of 3")
	assert.Contains(t, out, "Failed: 1")
	assert.Contains(t, out, "2. Unknown - Downloaded")
	assert.Contains(t, out, "1. Song A - Downloaded")

	assert.Equal(t, 0, h.app.Queue.Len())
	assert.Equal(t, "/usr/bin/yt-dlp", h.client.path)
	assert.Equal(t, "/usr/bin/ffmpeg", h.client.ffmpeg)

	reloaded := history.Load(filepath.Join(h.dir, "download_history.json"), nil)
	require.Equal(t, 2, reloaded.Len())
	for _, job := range reloaded.All() {
		require.NotNil(t, job.DownloadedAt)
	}
}

func TestFetchError(t *testing.T) {
	h := newHarness(t, "1", "https://example.com/nothing", "2", "7")
	out := h.run(t)
	assert.Contains(t, out, "Error fetching video info: unsupported URL")
	assert.Contains(t, out, "The download queue is empty.")
}

func TestDownloadEmptyQueue(t *testing.T) {
	h := newHarness(t, "3", "4", "7")
	out := h.run(t)
	assert.Contains(t, out, "No URLs to download.")
	assert.Contains(t, out, "No download history yet.")
}

func TestClearQueue(t *testing.T) {
	h := newHarness(t, "5", "7")
	require.NoError(t, h.app.Queue.Enqueue(utils.NewJob("a", nil)))
	require.NoError(t, h.app.Queue.Enqueue(utils.NewJob("b", nil)))
	out := h.run(t)
	assert.Contains(t, out, "Cleared 2 item(s) from the queue.")
	assert.Equal(t, 0, h.app.Queue.Len())
}

func TestHistoryShowsOnlyRecent(t *testing.T) {
	h := newHarness(t, "4", "7")
	var jobs []utils.Job
	for i := 0; i < 12; i++ {
		jobs = append(jobs, utils.NewJob("u"+strings.Repeat("x", i), utils.StringPtr("Song")))
	}
	require.NoError(t, h.app.History.AddAll(jobs))

	out := h.run(t)
	assert.Contains(t, out, "12. Song - Downloaded")
	assert.Contains(t, out, "3. Song - Downloaded")
	assert.NotContains(t, out, "\n2. Song - Downloaded")
	assert.Contains(t, out, "... and 2 more")
}

func TestToolInstallFailure(t *testing.T) {
	h := newHarness(t, "1", "7")
	delete(h.provider.installed, installer.YtDlp)
	h.provider.installErr = errors.New("no package manager")

	out := h.run(t)
	assert.Contains(t, out, "yt-dlp not found. Attempting to install...")
	assert.Contains(t, out, "Failed to install yt-dlp: no package manager")
	assert.Equal(t, []installer.Tool{installer.YtDlp}, h.provider.ensured)
}

func TestToolInstalledOnDemand(t *testing.T) {
	h := newHarness(t, "1", "", "7")
	delete(h.provider.installed, installer.YtDlp)

	out := h.run(t)
	assert.Contains(t, out, "yt-dlp is available at /usr/bin/yt-dlp")
	assert.Equal(t, "/usr/bin/yt-dlp", h.client.path)
}

func TestSettingsLanguage(t *testing.T) {
	h := newHarness(t, "6", "1", "5", "2", "7")
	h.run(t)

	assert.Equal(t, i18n.Hungarian, h.app.Translator.Language())
	assert.Equal(t, i18n.Hungarian, h.app.Config.Language())
	reloaded := config.Load(filepath.Join(h.dir, "config.toml"), nil)
	assert.Equal(t, i18n.Hungarian, reloaded.Language())
	assert.Contains(t, h.out.String(), "Invalid choice. Please enter a number between 1 and 3.")
}

func TestSettingsLanguageBack(t *testing.T) {
	h := newHarness(t, "6", "1", "3", "7")
	out := h.run(t)
	assert.Equal(t, i18n.English, h.app.Translator.Language())
	assert.Contains(t, out, "Returning to the main menu.")
}

func TestSettingsColoring(t *testing.T) {
	h := newHarness(t, "6", "3", "7")
	out := h.run(t)
	assert.Contains(t, out, "Coloring is now")
	assert.Contains(t, out, "\x1b[1mon\x1b[0m")
	assert.NotContains(t, out, "\x1b[1m\x1b[0mon")
	assert.True(t, h.app.Config.Coloring())
	assert.True(t, h.app.Translator.Coloring())
}

func TestSettingsDirectory(t *testing.T) {
	h := newHarness(t)
	target := filepath.Join(h.dir, "new", "music")
	h.prompt.inputs = []string{"6", "2", target, "7"}

	out := h.run(t)
	assert.Contains(t, out, "Download directory set to: "+target)
	assert.Equal(t, target, h.app.Config.DownloadDir())
	assert.DirExists(t, target)
}

func TestSettingsDirectoryEmpty(t *testing.T) {
	h := newHarness(t, "6", "2", "", "7")
	out := h.run(t)
	assert.Contains(t, out, "No directory selected.")
}

func TestSettingsInvalidThenBack(t *testing.T) {
	h := newHarness(t, "6", "8", "4", "7")
	out := h.run(t)
	assert.Contains(t, out, "Invalid choice. Please enter a number between 1 and 4.")
	assert.Contains(t, out, "Returning to the main menu.")
}
