package cmd

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tanq16/tunequeue/internal/config"
	"github.com/tanq16/tunequeue/internal/history"
	"github.com/tanq16/tunequeue/internal/utils"
)

// newHistoryCmd lists the most recent downloads, newest first
func newHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history [--limit N]",
		Short: "Show the most recent downloads",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			cfg := config.Load(configPath, warn)
			s := &session{config: cfg, translator: loadTranslator(cfg)}
			hist := history.Load(historyPath, warn)
			if limit < 1 {
				limit = utils.HistoryShown
			}
			total := hist.Len()
			if total == 0 {
				s.say("no_history")
				return
			}
			s.say("history_title")
			for _, entry := range hist.Recent(limit) {
				at := s.translator.Text("unknown_title")
				if entry.Job.DownloadedAt != nil {
					at = utils.HumanTimestamp(*entry.Job.DownloadedAt)
				}
				title := s.translator.Text("unknown_title")
				if entry.Job.Title != nil && *entry.Job.Title != "" {
					title = *entry.Job.Title
				}
				s.say("history_entry", strconv.Itoa(entry.Position), title, at)
			}
			if total > limit {
				s.say("history_more", strconv.Itoa(total-limit))
			}
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", utils.HistoryShown, "Number of entries to show")
	return cmd
}
