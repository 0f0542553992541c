// Package fetch retrieves article pages over HTTP with rotating user agents,
// a hard per-fetch deadline, and meta-refresh redirect handling.
package fetch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"

	"newsharvest/internal/fingerprint"
	"newsharvest/internal/guard"
)

// maxRefreshHops bounds how many meta-refresh redirects Page follows.
const maxRefreshHops = 1

// Fetcher is a thread-safe HTTP page fetcher.
type Fetcher struct {
	client     *http.Client
	userAgents []string
	timeout    time.Duration
}

// New creates a Fetcher. Each fetch gets at most timeout of wall-clock time;
// userAgents may be empty, in which case Go's default agent is sent.
func New(timeout time.Duration, userAgents []string) *Fetcher {
	return &Fetcher{
		client:     &http.Client{},
		userAgents: userAgents,
		timeout:    timeout,
	}
}

// Get sends a GET request with a randomly chosen user agent.
func (f *Fetcher) Get(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	if len(f.userAgents) > 0 {
		req.Header.Set("User-Agent", f.userAgents[rand.Intn(len(f.userAgents))])
	}
	return f.client.Do(req)
}

// Page fetches a URL under the deadline and returns the body bytes and the
// URL the content was finally read from. The URL is shebang-normalized before
// the request. When the page carries a meta-refresh redirect, one hop is
// followed, also under its own deadline. A fetch that outlives the deadline
// returns guard.ErrTimedOut.
func (f *Fetcher) Page(ctx context.Context, rawURL string) ([]byte, string, error) {
	finalURL := fingerprint.NormalizeShebang(rawURL)

	body, err := f.boundedFetch(ctx, finalURL)
	if err != nil {
		return nil, finalURL, err
	}

	for hop := 0; hop < maxRefreshHops; hop++ {
		refresh := MetaRefreshURL(body)
		if refresh == "" {
			break
		}
		next, resolveErr := resolveRef(finalURL, refresh)
		if resolveErr != nil {
			log.Debug().Str("url", finalURL).Str("refresh", refresh).Err(resolveErr).
				Msg("Unusable meta-refresh target, keeping original page")
			break
		}
		log.Debug().Str("from", finalURL).Str("to", next).Msg("Following meta refresh")
		body, err = f.boundedFetch(ctx, next)
		if err != nil {
			return nil, next, err
		}
		finalURL = next
	}

	return body, finalURL, nil
}

func (f *Fetcher) boundedFetch(ctx context.Context, rawURL string) ([]byte, error) {
	return guard.RunContext(ctx, f.timeout, func(ctx context.Context) ([]byte, error) {
		resp, err := f.Get(ctx, rawURL)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("unexpected status %d for %s", resp.StatusCode, rawURL)
		}
		return io.ReadAll(resp.Body)
	})
}

// MetaRefreshURL extracts the redirect target from a tag like
//
//	<meta http-equiv="refresh" content="0;URL='http://example.com/page'" />
//
// and returns "" when the page has no usable refresh directive, including the
// bare-delay form content="600".
func MetaRefreshURL(body []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return ""
	}

	var target string
	doc.Find("meta").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		equiv, _ := s.Attr("http-equiv")
		if !strings.EqualFold(equiv, "refresh") {
			return true
		}
		content, ok := s.Attr("content")
		if !ok {
			return true
		}
		parts := strings.SplitN(content, ";", 2)
		if len(parts) != 2 {
			// Delay-only refresh carries no URL.
			return false
		}
		urlPart := strings.TrimSpace(parts[1])
		if len(urlPart) >= 4 && strings.EqualFold(urlPart[:4], "url=") {
			target = strings.NewReplacer(`"`, "", `'`, "").Replace(urlPart[4:])
		}
		return false
	})
	return target
}

func resolveRef(base, href string) (string, error) {
	baseURL, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	rel, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return "", err
	}
	return baseURL.ResolveReference(rel).String(), nil
}
