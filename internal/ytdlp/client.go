package ytdlp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/tanq16/tunequeue/internal/utils"
)

var ErrNoEntries = errors.New("no videos found in playlist")

type Client struct {
	Path       string
	FFmpegPath string
	Proxy      string
	runner     utils.Runner
}

type Option func(*Client)

// WithRunner replaces the process runner, mainly for tests.
func WithRunner(r utils.Runner) Option {
	return func(c *Client) { c.runner = r }
}

// WithFFmpeg passes --ffmpeg-location to every download.
func WithFFmpeg(path string) Option {
	return func(c *Client) { c.FFmpegPath = path }
}

// WithProxy routes every yt-dlp call through proxy.
func WithProxy(proxy string) Option {
	return func(c *Client) { c.Proxy = proxy }
}

// New returns a client that invokes the yt-dlp binary at path.
func New(path string, opts ...Option) *Client {
	c := &Client{Path: path, runner: utils.ExecRunner{}}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// UseTools points the client at resolved binaries. An empty ffmpeg path
// leaves yt-dlp to find ffmpeg on its own.
func (c *Client) UseTools(ytdlpPath, ffmpegPath string) {
	if ytdlpPath != "" {
		c.Path = ytdlpPath
	}
	c.FFmpegPath = ffmpegPath
}

// Playlist is what a URL expands to. A plain video URL expands to a single
// job with IsPlaylist false.
type Playlist struct {
	IsPlaylist bool
	Title      *string
	Jobs       []utils.Job
}

type infoJSON struct {
	Type    string      `json:"_type"`
	Title   *string     `json:"title"`
	URL     *string     `json:"url"`
	Entries []infoEntry `json:"entries"`
}

type infoEntry struct {
	URL   *string `json:"url"`
	Title *string `json:"title"`
}

func (c *Client) baseArgs() []string {
	args := []string{"--socket-timeout", utils.SocketTimeout, "--no-warnings"}
	if c.Proxy != "" {
		args = append(args, "--proxy", c.Proxy)
	}
	return args
}

// FetchInfo looks up the title of a single video.
func (c *Client) FetchInfo(ctx context.Context, url string) (utils.Job, error) {
	args := append([]string{"-J", "--no-playlist"}, c.baseArgs()...)
	args = append(args, url)
	info, err := c.query(ctx, args)
	if err != nil {
		return utils.Job{}, err
	}
	return utils.NewJob(url, info.Title), nil
}

// FetchPlaylist enumerates a playlist without resolving each video.
func (c *Client) FetchPlaylist(ctx context.Context, url string) (Playlist, error) {
	args := append([]string{"-J", "--flat-playlist"}, c.baseArgs()...)
	args = append(args, url)
	info, err := c.query(ctx, args)
	if err != nil {
		return Playlist{}, err
	}
	if info.Type != "playlist" {
		return Playlist{Jobs: []utils.Job{utils.NewJob(url, info.Title)}}, nil
	}
	if len(info.Entries) == 0 {
		return Playlist{}, ErrNoEntries
	}
	pl := Playlist{IsPlaylist: true, Title: info.Title}
	for _, entry := range info.Entries {
		entryURL := utils.UnknownTitle
		if entry.URL != nil && *entry.URL != "" {
			entryURL = *entry.URL
		}
		pl.Jobs = append(pl.Jobs, utils.NewJob(entryURL, entry.Title))
	}
	log.Debug().Str("op", "ytdlp/FetchPlaylist").Msgf("playlist %s has %d entries", url, len(pl.Jobs))
	return pl, nil
}

func (c *Client) query(ctx context.Context, args []string) (infoJSON, error) {
	log.Debug().Str("op", "ytdlp/query").Strs("args", args).Msg("running yt-dlp")
	out, err := c.runner.Output(ctx, c.Path, args...)
	if err != nil {
		return infoJSON{}, fmt.Errorf("yt-dlp failed: %w", err)
	}
	var info infoJSON
	if err := json.Unmarshal(out, &info); err != nil {
		return infoJSON{}, fmt.Errorf("error parsing yt-dlp output: %w", err)
	}
	return info, nil
}

// DownloadArgs builds the yt-dlp arguments that extract job as tagged mp3 into targetDir.
func (c *Client) DownloadArgs(job utils.Job, targetDir string) []string {
	args := []string{
		"--newline",
		"--no-playlist",
		"-x",
		"--audio-format", utils.AudioFormat,
		"--embed-metadata",
		"--embed-thumbnail",
		"-o", utils.OutputTemplate,
		"-P", targetDir,
	}
	if c.FFmpegPath != "" {
		args = append(args, "--ffmpeg-location", c.FFmpegPath)
	}
	if c.Proxy != "" {
		args = append(args, "--proxy", c.Proxy)
	}
	return append(args, job.URL)
}

// Download blocks until yt-dlp exits. There is no timeout and partial output
// is left in place on failure.
func (c *Client) Download(ctx context.Context, job utils.Job, targetDir string) error {
	start := time.Now()
	logger := log.With().Str("op", "ytdlp/Download").Str("url", job.URL).Logger()
	err := c.runner.Stream(ctx, c.Path, c.DownloadArgs(job, targetDir), func(line string) {
		logger.Debug().Msg(line)
	})
	if err != nil {
		return err
	}
	logger.Debug().Dur("elapsed", time.Since(start)).Msg("download complete")
	return nil
}
