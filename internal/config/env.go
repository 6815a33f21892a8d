package config

import (
	"github.com/caarlos0/env/v11"
)

// Environment holds the defaults for command-line flags. Flags given on the
// command line still win.
type Environment struct {
	ConfigPath   string `envDefault:"config.toml"           env:"TUNEQUEUE_CONFIG"`
	HistoryPath  string `envDefault:"download_history.json" env:"TUNEQUEUE_HISTORY"`
	LanguagesDir string `envDefault:"languages"             env:"TUNEQUEUE_LANGUAGES"`
	Workers      int    `envDefault:"0"                     env:"TUNEQUEUE_WORKERS"`
	Proxy        string `env:"TUNEQUEUE_PROXY"`
	Debug        bool   `envDefault:"false"                 env:"TUNEQUEUE_DEBUG"`
	LogFile      string `env:"TUNEQUEUE_LOG_FILE"`
}

// FromEnv reads the TUNEQUEUE_* environment variables.
func FromEnv() (Environment, error) {
	return env.ParseAs[Environment]()
}
