package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/tanq16/tunequeue/internal/utils"
	"github.com/tanq16/tunequeue/internal/ytdlp"
)

// newGetCmd downloads the given URLs right away, expanding playlists unless --no-playlist is set
func newGetCmd() *cobra.Command {
	var noPlaylist bool

	cmd := &cobra.Command{
		Use:   "get [URL...] [--no-playlist]",
		Short: "Fetch and download one or more video or playlist URLs",
		Args:  cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()
			s := newSession()
			if err := s.ensureTools(ctx); err != nil {
				os.Exit(1)
			}
			var jobs []utils.Job
			for _, url := range args {
				s.say("fetching_video_info", url)
				fetched, err := fetchJobs(ctx, s.client, url, noPlaylist)
				if err != nil {
					s.say("error_fetching", err.Error())
					continue
				}
				jobs = append(jobs, fetched...)
			}
			if err := s.download(ctx, jobs); err != nil {
				s.say("download_failures")
				os.Exit(1)
			}
		},
	}

	cmd.Flags().BoolVar(&noPlaylist, "no-playlist", false, "Treat every URL as a single video")
	return cmd
}

// fetchJobs turns one URL into the jobs it expands to
func fetchJobs(ctx context.Context, client *ytdlp.Client, url string, noPlaylist bool) ([]utils.Job, error) {
	if noPlaylist {
		job, err := client.FetchInfo(ctx, url)
		if err != nil {
			return nil, err
		}
		return []utils.Job{job}, nil
	}
	playlist, err := client.FetchPlaylist(ctx, url)
	if err != nil {
		return nil, err
	}
	return playlist.Jobs, nil
}
