package gitsource

import (
	"context"
	"strings"
)

// DefaultCacheLocation is the SQLite cache file used when none is given.
const DefaultCacheLocation = ".gsfcache"

// Cache records which commits have been hashed and where each file hash
// was first seen.
type Cache struct {
	// Algorithm is the file hashing algorithm, not the commit hash type.
	Algorithm    string
	CommitHashes map[string]struct{}
	HashMap      map[string]string
}

// NewCache returns an empty cache for alg.
func NewCache(alg string) *Cache {
	return &Cache{
		Algorithm:    alg,
		CommitHashes: make(map[string]struct{}),
		HashMap:      make(map[string]string),
	}
}

// Valid reports whether c can serve lookups for alg.
func (c *Cache) Valid(alg string) bool {
	return c != nil && c.CommitHashes != nil && c.HashMap != nil && c.Algorithm == alg
}

// Clean drops commits that are no longer in the repository, along with the
// file hashes pointing at them. It reports whether anything was removed.
func (c *Cache) Clean(repoCommits map[string]struct{}) bool {
	stale := map[string]bool{}
	for h := range c.CommitHashes {
		if _, ok := repoCommits[h]; !ok {
			stale[h] = true
		}
	}
	removed := len(stale) > 0
	for h := range stale {
		delete(c.CommitHashes, h)
	}
	for fileHash, commit := range c.HashMap {
		if stale[commit] {
			delete(c.HashMap, fileHash)
			removed = true
		}
	}
	return removed
}

// Store persists a Cache.
type Store interface {
	// Load returns nil without error when nothing has been stored yet.
	Load(ctx context.Context) (*Cache, error)
	Save(ctx context.Context, c *Cache) error
	Close() error
}

// OpenStore picks a store from location: postgres:// and postgresql:// DSNs
// open Postgres, redis:// and rediss:// URLs open Redis, and anything else is
// a SQLite file path.
func OpenStore(ctx context.Context, location string) (Store, error) {
	switch {
	case strings.HasPrefix(location, "postgres://"), strings.HasPrefix(location, "postgresql://"):
		return OpenPostgresStore(ctx, location)
	case strings.HasPrefix(location, "redis://"), strings.HasPrefix(location, "rediss://"):
		return OpenRedisStore(ctx, location)
	default:
		if location == "" {
			location = DefaultCacheLocation
		}
		return OpenSQLiteStore(ctx, location)
	}
}
