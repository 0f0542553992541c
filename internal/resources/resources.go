// Package resources loads the bundled data files the harvester depends on:
// user-agent lists and per-language stopword files.
package resources

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Resolve locates a resource: absolute names are used as-is, relative names
// are joined onto the resources directory.
func Resolve(dir, name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(dir, name)
}

// Load reads a resource file as UTF-8 text, resolving name against dir.
func Load(dir, name string) (string, error) {
	path := Resolve(dir, name)
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("couldn't open file %s: %w", path, err)
	}
	return string(content), nil
}

// UserAgents reads a user-agent list from the named resource, one agent per
// line. Blank lines are skipped.
func UserAgents(dir, name string) ([]string, error) {
	content, err := Load(dir, name)
	if err != nil {
		return nil, fmt.Errorf("failed to read user agents file: %w", err)
	}

	var agents []string
	for _, line := range strings.Split(content, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			agents = append(agents, line)
		}
	}
	if len(agents) == 0 {
		return nil, fmt.Errorf("no user agents in %s", Resolve(dir, name))
	}
	return agents, nil
}

// RandomUserAgent picks one agent at random from the named resource.
func RandomUserAgent(dir, name string) (string, error) {
	agents, err := UserAgents(dir, name)
	if err != nil {
		return "", err
	}
	return agents[rand.Intn(len(agents))], nil
}

// AvailableLanguages lists the two-letter codes of every language with a
// stopword file in dir. Files are named "stopwords-xx.txt"; anything else is
// ignored. The result is sorted.
func AvailableLanguages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read stopwords dir: %w", err)
	}

	var codes []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, "stopwords-") {
			continue
		}
		code := strings.TrimSuffix(strings.TrimPrefix(name, "stopwords-"), ".txt")
		if len(code) != 2 {
			continue
		}
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes, nil
}

// languageNames maps two-letter input codes to full language names.
var languageNames = map[string]string{
	"ar": "Arabic",
	"be": "Belarusian",
	"bg": "Bulgarian",
	"da": "Danish",
	"de": "German",
	"el": "Greek",
	"en": "English",
	"es": "Spanish",
	"et": "Estonian",
	"fa": "Persian",
	"fi": "Finnish",
	"fr": "French",
	"he": "Hebrew",
	"hi": "Hindi",
	"hr": "Croatian",
	"hu": "Hungarian",
	"id": "Indonesian",
	"it": "Italian",
	"ja": "Japanese",
	"ko": "Korean",
	"lt": "Lithuanian",
	"mk": "Macedonian",
	"nb": "Norwegian (Bokmål)",
	"nl": "Dutch",
	"no": "Norwegian",
	"pl": "Polish",
	"pt": "Portuguese",
	"ro": "Romanian",
	"ru": "Russian",
	"sl": "Slovenian",
	"sr": "Serbian",
	"sv": "Swedish",
	"sw": "Swahili",
	"th": "Thai",
	"tr": "Turkish",
	"uk": "Ukrainian",
	"vi": "Vietnamese",
	"zh": "Chinese",
}

// LanguageName returns the full name for a two-letter code, or "" when the
// code is unknown.
func LanguageName(code string) string {
	return languageNames[code]
}

// FormatLanguages renders the language table for the CLI.
func FormatLanguages(codes []string) string {
	var b strings.Builder
	b.WriteString("Your available languages are:\n")
	b.WriteString("input code\t\tfull name\n")
	for _, code := range codes {
		name := LanguageName(code)
		if name == "" {
			name = "(unknown)"
		}
		fmt.Fprintf(&b, "  %s\t\t\t%s\n", code, name)
	}
	return b.String()
}
