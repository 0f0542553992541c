package cmd

import (
	"fmt"
	"regexp"

	"github.com/spf13/cobra"

	"newsharvest/internal/memocache"
)

var purgeCacheCmd = &cobra.Command{
	Use:   "purge-cache",
	Short: "Invalidate memoized harvest results",
	Long: `Purge-cache removes memo files from the cache directory, either the
single file for a domain or every file matching a pattern. A memo file that
is already gone is not an error.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		domain, _ := cmd.Flags().GetString("domain")
		pattern, _ := cmd.Flags().GetString("pattern")
		if (domain == "") == (pattern == "") {
			return fmt.Errorf("provide exactly one of --domain or --pattern")
		}

		cfg, err := loadSettings()
		if err != nil {
			return err
		}

		if domain != "" {
			return memocache.Invalidate(cfg.Harvester.CacheDir, domain)
		}

		re, err := regexp.Compile(pattern)
		if err != nil {
			return fmt.Errorf("invalid pattern: %w", err)
		}
		return memocache.Purge(cfg.Harvester.CacheDir, re)
	},
}

func init() {
	rootCmd.AddCommand(purgeCacheCmd)
	purgeCacheCmd.Flags().StringP("domain", "d", "", "Domain whose memo file should be removed")
	purgeCacheCmd.Flags().StringP("pattern", "p", "", "Regexp of memo filenames to remove")
}
