package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"newsharvest/internal/resources"
)

var languagesCmd = &cobra.Command{
	Use:   "languages",
	Short: "List the languages with bundled stopword files",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadSettings()
		if err != nil {
			return err
		}

		codes, err := resources.AvailableLanguages(resources.Resolve(cfg.Harvester.ResourcesDir, cfg.Harvester.StopwordsDir))
		if err != nil {
			return fmt.Errorf("error listing languages: %w", err)
		}

		fmt.Fprint(cmd.OutOrStdout(), resources.FormatLanguages(codes))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(languagesCmd)
}
