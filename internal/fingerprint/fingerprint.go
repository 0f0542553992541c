// Package fingerprint tags processing attempts for discovered URLs and raw content.
package fingerprint

import (
	"crypto/md5"
	"encoding/hex"
	"strconv"
	"strings"
	"time"
)

// escapedFragmentPrefix is the AJAX-crawling query form that replaces the
// legacy "#!" fragment marker in single-page-application URLs.
const escapedFragmentPrefix = "?_escaped_fragment_="

// Fingerprint tags a single processing attempt. The digest identifies the
// bytes that were captured; CapturedAt identifies when. Two fingerprints over
// identical input taken at different instants are unequal on purpose: a
// fingerprint names an attempt, not the content itself.
type Fingerprint struct {
	Digest     string
	CapturedAt time.Time
}

// String renders the fingerprint as "<hex digest>.<unix seconds>", with
// microsecond precision on the timestamp.
func (f Fingerprint) String() string {
	secs := float64(f.CapturedAt.UnixNano()) / float64(time.Second)
	return f.Digest + "." + strconv.FormatFloat(secs, 'f', 6, 64)
}

// FromContent fingerprints raw page bytes at the current wall-clock time.
// MD5 is used for tagging only; no integrity guarantee is intended.
func FromContent(raw []byte) Fingerprint {
	return fromBytes(raw, time.Now())
}

// FromURL fingerprints a URL string at the current wall-clock time.
func FromURL(rawURL string) Fingerprint {
	return fromBytes([]byte(rawURL), time.Now())
}

func fromBytes(data []byte, at time.Time) Fingerprint {
	sum := md5.Sum(data)
	return Fingerprint{
		Digest:     hex.EncodeToString(sum[:]),
		CapturedAt: at,
	}
}

// NormalizeShebang rewrites legacy "#!" single-page-application URLs into the
// escaped-fragment query form crawlers recognize. URLs without the marker are
// returned unchanged. Normalization must happen before fingerprinting and
// before any dedup lookup so both spellings of a resource dedupe identically.
func NormalizeShebang(rawURL string) string {
	if !strings.Contains(rawURL, "#!") {
		return rawURL
	}
	return strings.ReplaceAll(rawURL, "#!", escapedFragmentPrefix)
}

// Candidate is a discovered item awaiting the dedup decision. It lives for
// one batch and is never persisted.
type Candidate struct {
	URL         string
	Fingerprint Fingerprint
}

// NewURLCandidate builds a candidate for a discovered link. The URL is
// shebang-normalized before fingerprinting.
func NewURLCandidate(rawURL string) Candidate {
	final := NormalizeShebang(rawURL)
	return Candidate{
		URL:         final,
		Fingerprint: FromURL(final),
	}
}

// NewContentCandidate builds a candidate for a page whose body has already
// been fetched. The fingerprint covers the raw bytes, not the URL.
func NewContentCandidate(rawURL string, raw []byte) Candidate {
	return Candidate{
		URL:         rawURL,
		Fingerprint: FromContent(raw),
	}
}
