package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog/log"

	"github.com/tanq16/tunequeue/internal/i18n"
	"github.com/tanq16/tunequeue/internal/utils"
)

type Settings struct {
	Language    i18n.Language `toml:"language"`
	DownloadDir string        `toml:"download_dir"`
	Coloring    bool          `toml:"coloring"`
}

// Defaults is English, ~/Music and coloring off.
func Defaults() Settings {
	return Settings{
		Language:    i18n.English,
		DownloadDir: utils.DefaultMusicDir(),
		Coloring:    false,
	}
}

// Config is the persisted user preference file. Every setter writes the file
// before returning.
type Config struct {
	mu       sync.Mutex
	path     string
	settings Settings
}

// Load falls back to defaults when the file is absent or cannot be parsed;
// parse failures are handed to onParseError.
func Load(path string, onParseError func(error)) *Config {
	c := &Config{path: path, settings: Defaults()}
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.Debug().Str("op", "config/Load").Err(err).Msg("unreadable config file")
		}
		return c
	}
	parsed := Defaults()
	if _, err := toml.Decode(string(data), &parsed); err != nil {
		log.Debug().Str("op", "config/Load").Err(err).Msg("error parsing config file")
		if onParseError != nil {
			onParseError(fmt.Errorf("error parsing config file: %w", err))
		}
		return c
	}
	c.settings = parsed
	return c
}

func (c *Config) Path() string {
	return c.path
}

// Settings returns a snapshot of the current values.
func (c *Config) Settings() Settings {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.settings
}

func (c *Config) Language() i18n.Language {
	return c.Settings().Language
}

func (c *Config) DownloadDir() string {
	return c.Settings().DownloadDir
}

func (c *Config) Coloring() bool {
	return c.Settings().Coloring
}

func (c *Config) SetLanguage(lang i18n.Language) error {
	return c.update(func(s *Settings) { s.Language = lang })
}

func (c *Config) SetDownloadDir(dir string) error {
	return c.update(func(s *Settings) { s.DownloadDir = dir })
}

func (c *Config) SetColoring(enabled bool) error {
	return c.update(func(s *Settings) { s.Coloring = enabled })
}

// Save writes the current settings to disk.
func (c *Config) Save() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.saveLocked()
}

func (c *Config) update(apply func(*Settings)) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	apply(&c.settings)
	return c.saveLocked()
}

func (c *Config) saveLocked() error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c.settings); err != nil {
		return fmt.Errorf("error encoding config: %w", err)
	}
	if err := os.WriteFile(c.path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("error writing config: %w", err)
	}
	log.Debug().Str("op", "config/save").Msgf("wrote %s", c.path)
	return nil
}
