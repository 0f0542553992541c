// Package memocache manages the on-disk memoization cache of harvested
// domains: one file per domain, named by a filesystem-safe mapping.
package memocache

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"
)

// fileSuffix is appended to every memo cache filename.
const fileSuffix = ".txt"

// DomainToFilename maps a domain to its cache filename: every "/" becomes
// "-", a single trailing "-" is stripped, and the ".txt" suffix is appended.
//
// The mapping is not lossless: a literal "-" in the domain and a "/" map to
// the same character, so "a-b.com" and "a/b.com" share a filename. Accepted
// limitation; FilenameToDomain documents the other side of it.
func DomainToFilename(domain string) string {
	filename := strings.ReplaceAll(domain, "/", "-")
	filename = strings.TrimSuffix(filename, "-")
	return filename + fileSuffix
}

// FilenameToDomain inverts DomainToFilename. Every "-" is mapped back to "/",
// including any that were literal dashes in the original domain.
func FilenameToDomain(filename string) string {
	return strings.ReplaceAll(strings.TrimSuffix(filename, fileSuffix), "-", "/")
}

// Invalidate removes the memo file for a domain from the cache directory.
// A missing file means the cache is already clear and is not an error.
func Invalidate(dir, domain string) error {
	path := filepath.Join(dir, DomainToFilename(domain))
	err := os.Remove(path)
	if os.IsNotExist(err) {
		log.Info().Str("domain", domain).Msg("Memo file already deleted")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to remove memo file for %s: %w", domain, err)
	}
	return nil
}

// Purge deletes every file in dir whose name matches pattern.
func Purge(dir string, pattern *regexp.Regexp) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read cache dir: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !pattern.MatchString(entry.Name()) {
			continue
		}
		if err := os.Remove(filepath.Join(dir, entry.Name())); err != nil {
			return fmt.Errorf("failed to purge %s: %w", entry.Name(), err)
		}
	}
	return nil
}

// ToValidFilename strips every character that is not safe in a cache
// filename, keeping letters, digits, and "-_.() ".
func ToValidFilename(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case strings.ContainsRune("-_.() ", r):
			b.WriteRune(r)
		}
	}
	return b.String()
}
