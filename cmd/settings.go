package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tanq16/tunequeue/internal/config"
	"github.com/tanq16/tunequeue/internal/i18n"
	"github.com/tanq16/tunequeue/internal/output"
	"github.com/tanq16/tunequeue/internal/utils"
)

// newSettingsCmd groups the commands that read and change config.toml
func newSettingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change persisted settings",
	}
	cmd.AddCommand(newSettingsShowCmd())
	cmd.AddCommand(newSettingsLanguageCmd())
	cmd.AddCommand(newSettingsDirectoryCmd())
	cmd.AddCommand(newSettingsColoringCmd())
	return cmd
}

// settingsSession loads only what the settings commands need
func settingsSession() *session {
	cfg := config.Load(configPath, warn)
	return &session{config: cfg, translator: loadTranslator(cfg)}
}

func exitOnSaveError(s *session, err error) {
	if err != nil {
		s.say("settings_save_failed", err.Error())
		os.Exit(1)
	}
}

// newSettingsShowCmd prints the current settings and the file they come from
func newSettingsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the current settings",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			s := settingsSession()
			s.say("current_language", s.translator.Text(s.config.Language().DisplayKey()))
			s.say("download_directory", s.config.DownloadDir())
			state := "coloring_off"
			if s.config.Coloring() {
				state = "coloring_on"
			}
			s.say("coloring_toggled", s.translator.Text(state))
			fmt.Println(output.FDebug(s.config.Path()))
		},
	}
}

// newSettingsLanguageCmd persists a new interface language
func newSettingsLanguageCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "language [english|hungarian]",
		Short: "Set the interface language",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			lang, err := i18n.ParseLanguage(args[0])
			if err != nil {
				output.PrintError(err.Error())
				os.Exit(1)
			}
			s := settingsSession()
			exitOnSaveError(s, s.config.SetLanguage(lang))
			s.translator.SwitchLanguage(lang)
			s.say(lang.ConfirmKey())
		},
	}
}

// newSettingsDirectoryCmd persists a new download directory, creating it if needed
func newSettingsDirectoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "directory [PATH]",
		Short: "Set the download directory",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			s := settingsSession()
			dir, err := utils.ExpandPath(args[0])
			if err == nil {
				err = utils.EnsureDir(dir)
			}
			if err != nil {
				s.say("dir_invalid", args[0], err.Error())
				os.Exit(1)
			}
			exitOnSaveError(s, s.config.SetDownloadDir(dir))
			s.say("dir_set", dir)
		},
	}
}

// newSettingsColoringCmd turns colored output on or off
func newSettingsColoringCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "coloring [on|off]",
		Short:     "Turn colored output on or off",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"on", "off"},
		Run: func(cmd *cobra.Command, args []string) {
			s := settingsSession()
			enabled := args[0] == "on"
			exitOnSaveError(s, s.config.SetColoring(enabled))
			s.translator.SetColoring(enabled)
			s.say("coloring_toggled", s.translator.Text("coloring_"+args[0]))
		},
	}
}
