package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/tanq16/tunequeue/internal/output"
	"github.com/tanq16/tunequeue/internal/utils"
)

// newBatchCmd downloads every entry of a YAML batch file in one batch
func newBatchCmd() *cobra.Command {
	var resolveTitles bool

	cmd := &cobra.Command{
		Use:   "batch [YAML_FILE] [--resolve-titles]",
		Short: "Download every URL listed in a YAML file",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			jobs, err := utils.ReadBatchFile(args[0])
			if err != nil {
				output.PrintError(err.Error())
				os.Exit(1)
			}
			s := newSession()
			if len(jobs) == 0 {
				s.say("batch_no_entries")
				os.Exit(1)
			}
			ctx := context.Background()
			if err := s.ensureTools(ctx); err != nil {
				os.Exit(1)
			}
			if resolveTitles {
				for i, job := range jobs {
					if job.Title != nil {
						continue
					}
					if info, err := s.client.FetchInfo(ctx, job.URL); err == nil {
						jobs[i].Title = info.Title
					}
				}
			}
			if err := s.download(ctx, jobs); err != nil {
				s.say("download_failures")
				os.Exit(1)
			}
		},
	}

	cmd.Flags().BoolVar(&resolveTitles, "resolve-titles", false, "Look up titles for entries that do not name one")
	return cmd
}
