// Package dedup filters batches of discovered candidates down to the items
// not previously accepted as articles.
package dedup

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"newsharvest/internal/fingerprint"
)

// Store answers whether a URL was already accepted. *store.SeenURLs
// satisfies it.
type Store interface {
	Exists(ctx context.Context, rawURL string) (bool, error)
}

// Deduplicator checks candidate batches against the seen-URL store.
type Deduplicator struct {
	store Store
}

// New creates a Deduplicator backed by the given store.
func New(store Store) *Deduplicator {
	return &Deduplicator{store: store}
}

// Filter returns the candidates whose URLs are not already in the store,
// keyed by URL.
//
// Duplicate URLs inside the batch collapse to the last occurrence; that
// last-write-wins collapse is a deliberate policy, applied before any store
// query. Each surviving URL is shebang-normalized and checked against the
// store once. An empty batch returns an empty map without touching the store.
// A store failure aborts the whole batch.
func (d *Deduplicator) Filter(ctx context.Context, candidates []fingerprint.Candidate) (map[string]fingerprint.Candidate, error) {
	novel := make(map[string]fingerprint.Candidate, len(candidates))
	if len(candidates) == 0 {
		return novel, nil
	}

	for _, cand := range candidates {
		novel[cand.URL] = cand
	}

	for rawURL := range novel {
		seen, err := d.store.Exists(ctx, fingerprint.NormalizeShebang(rawURL))
		if err != nil {
			return nil, fmt.Errorf("dedup check for %q: %w", rawURL, err)
		}
		if seen {
			delete(novel, rawURL)
		}
	}

	log.Debug().
		Int("batch", len(candidates)).
		Int("novel", len(novel)).
		Msg("Candidate batch deduplicated")
	return novel, nil
}
