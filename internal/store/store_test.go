package store_test

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/jmoiron/sqlx"

	"newsharvest/internal/store"
)

func newSeenURLs(t *testing.T) (*store.SeenURLs, sqlmock.Sqlmock, func()) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}

	db := sqlx.NewDb(mockDB, "postgres")
	return store.NewSeenURLs(db), mock, func() { mockDB.Close() }
}

func expectationsMet(t *testing.T, mock sqlmock.Sqlmock) {
	t.Helper()

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestSeenURLs_Exists_Found(t *testing.T) {
	seen, mock, cleanup := newSeenURLs(t)
	defer cleanup()

	mock.ExpectQuery("SELECT id FROM urls WHERE href = \\$1 LIMIT 1").
		WithArgs("example.com/a").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(17))

	got, err := seen.Exists(context.Background(), "http://example.com/a")
	if err != nil {
		t.Fatalf("Exists() error = %v", err)
	}
	if !got {
		t.Fatal("Exists() = false, want true")
	}

	expectationsMet(t, mock)
}

func TestSeenURLs_Exists_StripsSchemeQueryAndFragment(t *testing.T) {
	seen, mock, cleanup := newSeenURLs(t)
	defer cleanup()

	// Same href regardless of scheme, query string, or fragment.
	mock.ExpectQuery("SELECT id FROM urls WHERE href = \\$1 LIMIT 1").
		WithArgs("example.com/a").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(17))

	got, err := seen.Exists(context.Background(), "https://example.com/a?utm_source=feed#top")
	if err != nil {
		t.Fatalf("Exists() error = %v", err)
	}
	if !got {
		t.Fatal("Exists() = false, want true")
	}

	expectationsMet(t, mock)
}

func TestSeenURLs_Exists_NotFound(t *testing.T) {
	seen, mock, cleanup := newSeenURLs(t)
	defer cleanup()

	mock.ExpectQuery("SELECT id FROM urls WHERE href = \\$1 LIMIT 1").
		WithArgs("example.com/b").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	got, err := seen.Exists(context.Background(), "http://example.com/b")
	if err != nil {
		t.Fatalf("Exists() error = %v", err)
	}
	if got {
		t.Fatal("Exists() = true, want false")
	}

	expectationsMet(t, mock)
}

func TestSeenURLs_Exists_QueryErrorPropagates(t *testing.T) {
	seen, mock, cleanup := newSeenURLs(t)
	defer cleanup()

	mock.ExpectQuery("SELECT id FROM urls WHERE href = \\$1 LIMIT 1").
		WithArgs("example.com/a").
		WillReturnError(errors.New("connection reset"))

	_, err := seen.Exists(context.Background(), "http://example.com/a")
	if err == nil {
		t.Fatal("Exists() error = nil, want query failure")
	}

	expectationsMet(t, mock)
}

func TestSeenURLs_Exists_NilHandleIsUnavailable(t *testing.T) {
	var seen *store.SeenURLs

	_, err := seen.Exists(context.Background(), "http://example.com/a")
	if !errors.Is(err, store.ErrUnavailable) {
		t.Fatalf("Exists() error = %v, want ErrUnavailable", err)
	}
}

// newCachedSeenURLs wires a sqlmock-backed store to a Redis client under the
// key "test:seen".
func newCachedSeenURLs(t *testing.T, client *redis.Client) (*store.SeenURLs, sqlmock.Sqlmock, func()) {
	t.Helper()

	seen, mock, cleanup := newSeenURLs(t)
	seen.WithCache(client, "test:seen")
	return seen, mock, func() {
		client.Close()
		cleanup()
	}
}

func TestSeenURLs_Exists_CacheHitSkipsStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	// No ExpectQuery: a cache hit must answer without touching Postgres,
	// and sqlmock fails any query it was not told to expect.
	seen, mock, cleanup := newCachedSeenURLs(t, client)
	defer cleanup()

	ctx := context.Background()
	if err := client.SAdd(ctx, "test:seen", "example.com/a").Err(); err != nil {
		t.Fatalf("failed to seed cache: %v", err)
	}

	got, err := seen.Exists(ctx, "http://example.com/a")
	if err != nil {
		t.Fatalf("Exists() error = %v", err)
	}
	if !got {
		t.Fatal("Exists() = false, want true from cache")
	}

	expectationsMet(t, mock)
}

func TestSeenURLs_Exists_CacheMissFillsCacheAfterStoreHit(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	seen, mock, cleanup := newCachedSeenURLs(t, client)
	defer cleanup()

	mock.ExpectQuery("SELECT id FROM urls WHERE href = \\$1 LIMIT 1").
		WithArgs("example.com/a").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(17))

	ctx := context.Background()
	got, err := seen.Exists(ctx, "http://example.com/a")
	if err != nil {
		t.Fatalf("Exists() error = %v", err)
	}
	if !got {
		t.Fatal("Exists() = false, want true")
	}

	// The positive answer is remembered for the next lookup.
	cached, err := client.SIsMember(ctx, "test:seen", "example.com/a").Result()
	if err != nil {
		t.Fatalf("cache check failed: %v", err)
	}
	if !cached {
		t.Fatal("positive answer was not written back to the cache")
	}

	expectationsMet(t, mock)
}

func TestSeenURLs_Exists_CacheFailureFallsBackToStore(t *testing.T) {
	// Grab a known-free address, then close the server so every cache
	// operation fails.
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()
	client := redis.NewClient(&redis.Options{Addr: addr})

	seen, mock, cleanup := newCachedSeenURLs(t, client)
	defer cleanup()

	mock.ExpectQuery("SELECT id FROM urls WHERE href = \\$1 LIMIT 1").
		WithArgs("example.com/a").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(17))

	got, err := seen.Exists(context.Background(), "http://example.com/a")
	if err != nil {
		t.Fatalf("Exists() error = %v, want the Postgres answer despite the dead cache", err)
	}
	if !got {
		t.Fatal("Exists() = false, want true")
	}

	expectationsMet(t, mock)
}

func TestHref(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"http://example.com/a", "example.com/a"},
		{"https://example.com/a/b/", "example.com/a/b/"},
		{"http://example.com/a?page=2", "example.com/a"},
		{"http://example.com/a#frag", "example.com/a"},
		{"http://example.com", "example.com"},
	}

	for _, tc := range cases {
		got, err := store.Href(tc.in)
		if err != nil {
			t.Fatalf("Href(%q) error = %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("Href(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
