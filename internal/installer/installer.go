package installer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/rs/zerolog/log"

	"github.com/tanq16/tunequeue/internal/utils"
)

var ErrUnsupported = errors.New("automatic installation is not supported on this platform")

const releaseBaseURL = "https://github.com/yt-dlp/yt-dlp/releases/latest/download"

type Tool int

const (
	YtDlp Tool = iota
	FFmpeg
)

func (t Tool) String() string {
	switch t {
	case YtDlp:
		return "yt-dlp"
	case FFmpeg:
		return "ffmpeg"
	default:
		panic(fmt.Sprintf("unknown tool %d", int(t)))
	}
}

// Binary is the executable file name of t on goos.
func (t Tool) Binary(goos string) string {
	if goos == "windows" {
		return t.String() + ".exe"
	}
	return t.String()
}

// Provider finds tools and installs them when they are missing. Both methods
// return an invocable path.
type Provider interface {
	Locate(tool Tool) (string, bool)
	Ensure(ctx context.Context, tool Tool) (string, error)
}

type Option func(*prober)

// WithRunner replaces the process runner used for installs.
func WithRunner(r utils.Runner) Option {
	return func(p *prober) { p.runner = r }
}

// WithHTTPClient sets the client used for release downloads.
func WithHTTPClient(c *utils.HTTPClient) Option {
	return func(p *prober) { p.http = c }
}

// ForPlatform picks the provider for goos. Unknown systems get a provider
// that only probes and otherwise fails with ErrUnsupported.
func ForPlatform(goos string, opts ...Option) Provider {
	p := newProber(goos, opts...)
	switch goos {
	case "linux":
		return &linuxProvider{prober: p}
	case "windows":
		return &windowsProvider{prober: p}
	case "darwin":
		return &darwinProvider{prober: p}
	default:
		return &unsupportedProvider{prober: p}
	}
}

// Default returns the provider for the running system.
func Default(opts ...Option) Provider {
	return ForPlatform(runtime.GOOS, opts...)
}

type prober struct {
	goos       string
	goarch     string
	runner     utils.Runner
	http       *utils.HTTPClient
	binDir     string
	releaseURL string
	searchDirs []string
	lookPath   func(string) (string, error)
	exists     func(string) bool
	readFile   func(string) ([]byte, error)
}

func newProber(goos string, opts ...Option) *prober {
	p := &prober{
		goos:       goos,
		goarch:     runtime.GOARCH,
		runner:     utils.ExecRunner{},
		binDir:     utils.LocalBinDir,
		releaseURL: releaseBaseURL,
		lookPath:   exec.LookPath,
		exists:     fileExists,
		readFile:   os.ReadFile,
	}
	switch goos {
	case "linux":
		p.searchDirs = []string{"/usr/local/bin", "/usr/bin", "/bin"}
	case "darwin":
		p.searchDirs = []string{"/usr/local/bin", "/opt/homebrew/bin"}
	case "windows":
		if home, err := os.UserHomeDir(); err == nil {
			p.searchDirs = []string{filepath.Join(home, "AppData", "Local", "yt-dlp")}
		}
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.http == nil {
		p.http = utils.NewHTTPClient(utils.HTTPClientConfig{})
	}
	return p
}

// probe looks on PATH, then in the platform's well-known directories, then
// next to the local bin dir and the running executable.
func (p *prober) probe(tool Tool) (string, bool) {
	name := tool.Binary(p.goos)
	if path, err := p.lookPath(name); err == nil {
		return path, true
	}
	dirs := append([]string{}, p.searchDirs...)
	if p.binDir != "" {
		dirs = append(dirs, p.binDir)
	}
	if exe, err := os.Executable(); err == nil {
		dirs = append(dirs, filepath.Dir(exe))
	}
	for _, dir := range dirs {
		candidate := filepath.Join(dir, name)
		if p.exists(candidate) {
			return candidate, true
		}
	}
	return "", false
}

// Locate probes for tool without installing anything.
func (p *prober) Locate(tool Tool) (string, bool) {
	return p.probe(tool)
}

func (p *prober) run(ctx context.Context, name string, args ...string) error {
	logger := log.With().Str("op", "installer/run").Str("cmd", name).Logger()
	logger.Debug().Strs("args", args).Msg("running installer command")
	return p.runner.Stream(ctx, name, args, func(line string) {
		logger.Debug().Msg(line)
	})
}

func (p *prober) verify(tool Tool) (string, error) {
	if path, ok := p.probe(tool); ok {
		return path, nil
	}
	return "", fmt.Errorf("%s still not found after installation", tool)
}

// releaseFallback tries the standalone yt-dlp binary after installErr and
// reports both failures when that does not work either.
func (p *prober) releaseFallback(tool Tool, installErr error) (string, error) {
	path, err := p.downloadRelease()
	if err != nil {
		return "", fmt.Errorf("could not install %s (%v), release download also failed: %w", tool, installErr, err)
	}
	return path, nil
}

// firstSuccess runs each command in order and stops at the first one that
// exits cleanly.
func (p *prober) firstSuccess(ctx context.Context, cmds [][]string) error {
	var lastErr error
	for _, cmd := range cmds {
		if err := p.run(ctx, cmd[0], cmd[1:]...); err != nil {
			log.Debug().Str("op", "installer/firstSuccess").Msgf("%s failed: %v", cmd[0], err)
			lastErr = err
			continue
		}
		return nil
	}
	if lastErr == nil {
		lastErr = errors.New("no install command available")
	}
	return lastErr
}

// releaseAsset names the standalone yt-dlp build for goos/goarch.
func releaseAsset(goos, goarch string) (string, error) {
	switch {
	case goos == "windows" && goarch == "amd64":
		return "yt-dlp.exe", nil
	case goos == "windows" && goarch == "arm64":
		return "yt-dlp_arm64.exe", nil
	case goos == "linux" && goarch == "amd64":
		return "yt-dlp_linux", nil
	case goos == "linux" && goarch == "arm64":
		return "yt-dlp_linux_aarch64", nil
	case goos == "darwin":
		return "yt-dlp_macos", nil
	default:
		return "", fmt.Errorf("unsupported OS/arch: %s/%s", goos, goarch)
	}
}

// downloadRelease fetches the standalone yt-dlp build into the local bin dir.
// The binary only appears there once the transfer has completed.
func (p *prober) downloadRelease() (string, error) {
	asset, err := releaseAsset(p.goos, p.goarch)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(p.binDir, 0755); err != nil {
		return "", fmt.Errorf("error creating bin directory: %v", err)
	}
	downloadURL := fmt.Sprintf("%s/%s", p.releaseURL, asset)
	filePath := filepath.Join(p.binDir, YtDlp.Binary(p.goos))
	log.Debug().Str("op", "installer/downloadRelease").Msgf("fetching %s", downloadURL)
	if err := p.http.DownloadFile(downloadURL, filePath); err != nil {
		return "", fmt.Errorf("error downloading yt-dlp: %w", err)
	}
	if p.goos != "windows" {
		if err := os.Chmod(filePath, 0755); err != nil {
			os.Remove(filePath)
			return "", fmt.Errorf("error setting permissions: %v", err)
		}
	}
	return filePath, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

type unsupportedProvider struct {
	*prober
}

func (u *unsupportedProvider) Ensure(_ context.Context, tool Tool) (string, error) {
	if path, ok := u.probe(tool); ok {
		return path, nil
	}
	return "", fmt.Errorf("%s on %s: %w", tool, u.goos, ErrUnsupported)
}
