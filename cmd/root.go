package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/tanq16/tunequeue/internal/config"
	"github.com/tanq16/tunequeue/internal/menu"
	"github.com/tanq16/tunequeue/internal/output"
	"github.com/tanq16/tunequeue/internal/queue"
	"github.com/tanq16/tunequeue/internal/utils"
)

var (
	configPath   string
	historyPath  string
	languagesDir string
	workers      int
	proxyURL     string
	debug        bool
	logFile      string
	logCloser    io.Closer
)

var TunequeueVersion = "dev"

var rootCmd = &cobra.Command{
	Use:     "tunequeue",
	Short:   "tunequeue is an interactive music download queue",
	Version: TunequeueVersion,
	Args:    cobra.NoArgs,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		closer, err := output.InitLogger(debug, logFile)
		if err != nil {
			output.PrintWarning(err.Error())
		}
		logCloser = closer
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logCloser != nil {
			logCloser.Close()
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		s := newSession()
		prompt, err := menu.NewReadlinePrompter(os.Stdout)
		if err != nil {
			output.PrintError(fmt.Sprintf("Error initializing readline: %v", err))
			os.Exit(1)
		}
		defer prompt.Close()

		app := &menu.App{
			Translator: s.translator,
			Config:     s.config,
			Queue:      queue.New(),
			History:    s.history,
			Client:     s.client,
			Provider:   s.provider,
			Prompt:     prompt,
			Out:        os.Stdout,
			Workers:    workers,
			Version:    TunequeueVersion,
		}
		if err := app.Run(context.Background()); err != nil {
			output.PrintError(err.Error())
			os.Exit(1)
		}
	},
}

// Execute runs the root command and exits non-zero on error
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// flagDefaults reads TUNEQUEUE_* variables, falling back to the built-in defaults
func flagDefaults() config.Environment {
	defaults, err := config.FromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Ignoring environment overrides: %v\n", err)
		return config.Environment{
			ConfigPath:   utils.ConfigFile,
			HistoryPath:  utils.HistoryFile,
			LanguagesDir: utils.LanguagesDir,
		}
	}
	return defaults
}

func init() {
	defaults := flagDefaults()
	rootCmd.PersistentFlags().StringVar(&configPath, "config", defaults.ConfigPath, "Path to the settings file")
	rootCmd.PersistentFlags().StringVar(&historyPath, "history", defaults.HistoryPath, "Path to the download history file")
	rootCmd.PersistentFlags().StringVar(&languagesDir, "languages", defaults.LanguagesDir, "Directory containing the language files")
	rootCmd.PersistentFlags().IntVarP(&workers, "workers", "w", defaults.Workers, "Number of parallel downloads (0 uses one per CPU)")
	rootCmd.PersistentFlags().StringVarP(&proxyURL, "proxy", "p", defaults.Proxy, "Proxy URL passed to yt-dlp and tool downloads")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", defaults.Debug, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", defaults.LogFile, "Write logs to this file instead of stderr")

	rootCmd.AddCommand(newGetCmd())
	rootCmd.AddCommand(newBatchCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newSettingsCmd())
	rootCmd.AddCommand(newLanguagesCmd())
	rootCmd.AddCommand(newCleanCmd())
	rootCmd.AddCommand(newVersionCmd())
}
