package cmd

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"newsharvest/internal/fetch"
	"newsharvest/internal/fingerprint"
	"newsharvest/internal/resources"
)

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Fetch a single URL under the configured deadline",
	Long: `Probe fetches one page with a rotated user agent, follows a
meta-refresh redirect if the page carries one, and prints the URL the
content was read from together with its content fingerprint.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rawURL, _ := cmd.Flags().GetString("url")
		if rawURL == "" {
			return fmt.Errorf("please provide a URL with the -u flag")
		}

		cfg, err := loadSettings()
		if err != nil {
			return err
		}

		var agents []string
		if cfg.Harvester.UserAgentsFile != "" {
			agents, err = resources.UserAgents(cfg.Harvester.ResourcesDir, cfg.Harvester.UserAgentsFile)
			if err != nil {
				log.Warn().Err(err).Msg("User-agent list unavailable, using default agent")
			}
		}

		fetcher := fetch.New(time.Duration(cfg.Harvester.Timeout)*time.Second, agents)
		body, finalURL, err := fetcher.Page(cmd.Context(), rawURL)
		if err != nil {
			return fmt.Errorf("probe of %s failed: %w", rawURL, err)
		}

		cand := fingerprint.NewContentCandidate(finalURL, body)
		fmt.Fprintln(cmd.OutOrStdout(), "url:", finalURL)
		fmt.Fprintln(cmd.OutOrStdout(), "bytes:", len(body))
		fmt.Fprintln(cmd.OutOrStdout(), "fingerprint:", cand.Fingerprint)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(probeCmd)
	probeCmd.Flags().StringP("url", "u", "", "URL to fetch")
}
