// Package store provides the persistent record of previously accepted
// article URLs and the existence query the deduplicator runs against it.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/rs/zerolog/log"
)

const (
	// defaultMaxOpenConns caps the Postgres connection pool.
	defaultMaxOpenConns = 10
	// defaultMaxIdleConns is the idle pool size.
	defaultMaxIdleConns = 2
	// defaultConnMaxLifetime bounds how long a pooled connection is reused.
	defaultConnMaxLifetime = 5 * time.Minute
	// defaultPingTimeout bounds the startup connectivity check.
	defaultPingTimeout = 5 * time.Second

	// defaultCacheKey is the Redis set holding hrefs already confirmed seen.
	defaultCacheKey = "newsharvest:seen_hrefs"
)

// ErrUnavailable reports that no usable store handle exists. Dedup queries
// against a store that never connected surface this instead of pretending
// nothing was seen.
var ErrUnavailable = errors.New("store: unavailable")

// Config holds the Postgres connection parameters. It is consumed exactly
// once, at startup, to establish the store handle.
type Config struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

// Open establishes the Postgres handle and verifies connectivity. The caller
// owns the handle's lifecycle: open at startup, Close at shutdown.
func Open(cfg Config) (*sqlx.DB, error) {
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, sslMode,
	)

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(defaultMaxOpenConns)
	db.SetMaxIdleConns(defaultMaxIdleConns)
	db.SetConnMaxLifetime(defaultConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), defaultPingTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// OpenCache connects the optional Redis seen-URL cache and verifies the
// connection is alive.
func OpenCache(ctx context.Context, addr string) (*redis.Client, error) {
	opt, err := redis.ParseURL(addr)
	if err != nil {
		return nil, err
	}

	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return rdb, nil
}

// Href reduces a URL to the host+path form stored in the urls table: scheme
// stripped, query string and fragment dropped.
func Href(rawURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", fmt.Errorf("invalid url %q: %w", rawURL, err)
	}
	return u.Host + u.Path, nil
}

// SeenURLs answers whether a URL was already accepted as an article. It only
// reads the urls table; rows are inserted elsewhere in the pipeline.
//
// When a Redis cache is attached, positive answers are remembered there.
// Cache failures degrade to a logged warning and a direct Postgres query;
// only negative cache answers ever reach the database, so a lost cache entry
// costs one extra query and never changes an answer.
type SeenURLs struct {
	db       *sqlx.DB
	cache    *redis.Client
	cacheKey string
}

// NewSeenURLs wraps an open store handle.
func NewSeenURLs(db *sqlx.DB) *SeenURLs {
	return &SeenURLs{db: db, cacheKey: defaultCacheKey}
}

// WithCache attaches a Redis client as a read-through cache of positive
// existence answers. An empty key keeps the default.
func (s *SeenURLs) WithCache(client *redis.Client, key string) *SeenURLs {
	s.cache = client
	if key != "" {
		s.cacheKey = key
	}
	return s
}

// Exists reports whether any accepted article matches the URL's host+path.
// The store is never mutated beyond best-effort cache fills.
func (s *SeenURLs) Exists(ctx context.Context, rawURL string) (bool, error) {
	if s == nil || s.db == nil {
		return false, ErrUnavailable
	}

	href, err := Href(rawURL)
	if err != nil {
		return false, err
	}

	if s.cache != nil {
		seen, cacheErr := s.cache.SIsMember(ctx, s.cacheKey, href).Result()
		if cacheErr != nil {
			log.Warn().Err(cacheErr).Str("href", href).Msg("Seen-URL cache lookup failed, querying store directly")
		} else if seen {
			return true, nil
		}
	}

	var id int64
	err = s.db.QueryRowContext(ctx, "SELECT id FROM urls WHERE href = $1 LIMIT 1", href).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to query urls for %q: %w", href, err)
	}

	if s.cache != nil {
		if cacheErr := s.cache.SAdd(ctx, s.cacheKey, href).Err(); cacheErr != nil {
			log.Warn().Err(cacheErr).Str("href", href).Msg("Failed to cache seen URL")
		}
	}
	return true, nil
}

// Close releases the underlying handles.
func (s *SeenURLs) Close() error {
	if s == nil {
		return nil
	}
	var errs []error
	if s.cache != nil {
		if err := s.cache.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
