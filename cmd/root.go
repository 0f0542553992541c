// Package cmd contains the command-line interface logic for newsharvest.
// It uses the Cobra library to create a powerful and flexible CLI.
package cmd

import (
	"github.com/spf13/cobra"
)

const Version = "0.1.0"

var (
	configDir string

	rootCmd = &cobra.Command{
		Use:   "newsharvest",
		Short: "newsharvest deduplicates and fetches discovered article URLs.",
		Long: `A harvesting core for article pipelines: it fingerprints discovered
URLs, filters out articles already accepted into the store, and fetches
pages under a hard wall-clock deadline.`,
		Version: Version,
	}
)

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configDir, "config", "c", ".", "Directory containing newsharvest.yaml")
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}
