package cmd

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"newsharvest/internal/config"
	"newsharvest/internal/logger"
	"newsharvest/internal/store"
)

// loadSettings reads the config file and wires up the global logger.
func loadSettings() (config.Settings, error) {
	cfg, err := config.LoadConfig(configDir)
	if err != nil {
		return config.Settings{}, fmt.Errorf("error loading config: %w", err)
	}
	if err := logger.Setup(cfg.Logger); err != nil {
		return config.Settings{}, fmt.Errorf("error setting up logger: %w", err)
	}
	return cfg, nil
}

// openSeenStore establishes the seen-URL store once, at command start.
//
// A connection failure is contained here rather than crashing the process:
// when dedup is not required the command proceeds with a nil store (and no
// dedup); when it is required, the error is returned and the command refuses
// to run.
func openSeenStore(ctx context.Context, cfg *config.Settings) (*store.SeenURLs, error) {
	db, err := store.Open(cfg.Postgres)
	if err != nil {
		if cfg.Harvester.DedupRequired {
			return nil, fmt.Errorf("seen-URL store unavailable: %w", err)
		}
		log.Warn().Err(err).Msg("Seen-URL store unavailable, continuing without dedup")
		return nil, nil
	}

	seen := store.NewSeenURLs(db)
	if cfg.Redis.Enabled {
		cache, cacheErr := store.OpenCache(ctx, cfg.Redis.URL)
		if cacheErr != nil {
			log.Warn().Err(cacheErr).Msg("Seen-URL cache unavailable, querying Postgres directly")
		} else {
			seen.WithCache(cache, cfg.Redis.Key)
		}
	}
	return seen, nil
}
