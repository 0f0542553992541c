package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"newsharvest/internal/dedup"
	"newsharvest/internal/fingerprint"
)

var dedupeCmd = &cobra.Command{
	Use:   "dedupe [file]",
	Short: "Filter a URL list down to articles not seen before",
	Long: `Dedupe reads discovered URLs, one per line, from a file or stdin,
checks each against the store of previously accepted articles, and prints
the URLs that are genuinely new.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadSettings()
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		var in io.Reader = os.Stdin
		if len(args) == 1 {
			f, openErr := os.Open(args[0])
			if openErr != nil {
				return fmt.Errorf("error opening URL list: %w", openErr)
			}
			defer f.Close()
			in = f
		}

		candidates, err := readCandidates(in)
		if err != nil {
			return err
		}

		seen, err := openSeenStore(ctx, &cfg)
		if err != nil {
			return err
		}
		if seen == nil {
			// Dedup disabled by configuration; pass everything through.
			urls := make([]string, 0, len(candidates))
			for _, cand := range candidates {
				urls = append(urls, cand.URL)
			}
			writeURLs(cmd.OutOrStdout(), urls)
			return nil
		}
		defer seen.Close()

		novel, err := dedup.New(seen).Filter(ctx, candidates)
		if err != nil {
			return err
		}

		urls := make([]string, 0, len(novel))
		for u := range novel {
			urls = append(urls, u)
		}
		writeURLs(cmd.OutOrStdout(), urls)

		log.Info().
			Int("input", len(candidates)).
			Int("novel", len(urls)).
			Msg("Dedupe finished")
		return nil
	},
}

// writeURLs prints URLs one per line in sorted order, so the command's
// output is stable whether or not the store filtered it.
func writeURLs(w io.Writer, urls []string) {
	sort.Strings(urls)
	for _, u := range urls {
		fmt.Fprintln(w, u)
	}
}

// readCandidates turns a line-per-URL stream into fingerprinted candidates.
// Blank lines and #-comments are skipped.
func readCandidates(in io.Reader) ([]fingerprint.Candidate, error) {
	var candidates []fingerprint.Candidate
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		candidates = append(candidates, fingerprint.NewURLCandidate(line))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading URL list: %w", err)
	}
	return candidates, nil
}

func init() {
	rootCmd.AddCommand(dedupeCmd)
}
