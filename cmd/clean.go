package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/tanq16/tunequeue/internal/output"
	"github.com/tanq16/tunequeue/internal/utils"
)

// newCleanCmd removes partial files yt-dlp left in the download directory
func newCleanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clean [DIRECTORY]",
		Short: "Remove partial downloads left behind by failed jobs",
		Args:  cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			s := settingsSession()
			dir := s.config.DownloadDir()
			if len(args) == 1 {
				expanded, err := utils.ExpandPath(args[0])
				if err != nil {
					output.PrintError(err.Error())
					os.Exit(1)
				}
				dir = expanded
			}
			removed, freed, err := utils.CleanPartials(dir)
			for _, path := range removed {
				fmt.Println("  " + output.FDebug(path))
			}
			if err != nil {
				s.say("clean_failed", err.Error())
				os.Exit(1)
			}
			s.say("clean_removed", strconv.Itoa(len(removed)), humanize.Bytes(freed))
		},
	}
}
