package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tanq16/tunequeue/internal/i18n"
)

// newLanguagesCmd groups commands that inspect the language files
func newLanguagesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "languages",
		Short: "Inspect the language files",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "check",
		Short: "Report keys missing from each language file",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			s := settingsSession()
			incomplete := false
			for _, lang := range i18n.All() {
				missing := s.translator.Catalog().Missing(lang)
				if len(missing) == 0 {
					s.say("languages_complete", lang.Filename())
					continue
				}
				incomplete = true
				s.say("languages_missing_keys", lang.Filename(), strconv.Itoa(len(missing)))
				for _, key := range missing {
					fmt.Println("  " + key)
				}
			}
			if incomplete {
				os.Exit(1)
			}
		},
	})
	return cmd
}
