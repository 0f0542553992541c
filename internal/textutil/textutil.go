// Package textutil holds the small string-processing helpers used while
// cleaning harvested text.
package textutil

import (
	"regexp"
	"strings"
)

// Splitter splits text on a compiled pattern.
type Splitter struct {
	pattern *regexp.Regexp
}

// NewSplitter compiles the split pattern once up front.
func NewSplitter(pattern string) (*Splitter, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	return &Splitter{pattern: re}, nil
}

// Split returns the pieces of text around the pattern. Empty input yields nil.
func (s *Splitter) Split(text string) []string {
	if text == "" {
		return nil
	}
	return s.pattern.Split(text, -1)
}

type replacement struct {
	pattern string
	with    string
}

// ReplaceSequence applies an ordered chain of literal replacements.
type ReplaceSequence struct {
	replacements []replacement
}

// NewReplaceSequence starts an empty chain.
func NewReplaceSequence() *ReplaceSequence {
	return &ReplaceSequence{}
}

// Append adds one replacement to the chain and returns the sequence for
// chaining. An empty with deletes the pattern.
func (rs *ReplaceSequence) Append(pattern, with string) *ReplaceSequence {
	rs.replacements = append(rs.replacements, replacement{pattern: pattern, with: with})
	return rs
}

// ReplaceAll runs the chain over text in insertion order. Empty input
// yields "".
func (rs *ReplaceSequence) ReplaceAll(text string) string {
	if text == "" {
		return ""
	}
	mutated := text
	for _, rp := range rs.replacements {
		if rp.pattern == "" {
			continue
		}
		mutated = strings.ReplaceAll(mutated, rp.pattern, rp.with)
	}
	return mutated
}

// Chunks yields n successive chunks of items. The first n-1 chunks hold
// len(items)/n elements each; the final chunk carries the remainder.
func Chunks[T any](items []T, n int) [][]T {
	if n <= 0 {
		return nil
	}
	size := len(items) / n
	out := make([][]T, 0, n)
	for i := 0; i < n-1; i++ {
		out = append(out, items[i*size:i*size+size])
	}
	out = append(out, items[(n-1)*size:])
	return out
}

// IsASCII reports whether every byte of s is plain ASCII.
func IsASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] > 127 {
			return false
		}
	}
	return true
}
