package gitsource

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const (
	redisAlgKey     = "gsf:algorithm"
	redisCommitsKey = "gsf:commits"
	redisHashesKey  = "gsf:hashes"
)

// RedisStore keeps the cache in a string, a set and a hash.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore wraps an existing client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// OpenRedisStore connects to a redis:// URL.
func OpenRedisStore(ctx context.Context, url string) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("gitsource: parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("gitsource: connect cache: %w", err)
	}
	return NewRedisStore(client), nil
}

// Load reads the cache.
func (s *RedisStore) Load(ctx context.Context) (*Cache, error) {
	alg, err := s.client.Get(ctx, redisAlgKey).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	commits, err := s.client.SMembers(ctx, redisCommitsKey).Result()
	if err != nil {
		return nil, err
	}
	hashes, err := s.client.HGetAll(ctx, redisHashesKey).Result()
	if err != nil {
		return nil, err
	}
	c := NewCache(alg)
	for _, h := range commits {
		c.CommitHashes[h] = struct{}{}
	}
	for k, v := range hashes {
		c.HashMap[k] = v
	}
	return c, nil
}

// Save replaces the stored cache atomically.
func (s *RedisStore) Save(ctx context.Context, c *Cache) error {
	_, err := s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Del(ctx, redisAlgKey, redisCommitsKey, redisHashesKey)
		p.Set(ctx, redisAlgKey, c.Algorithm, 0)
		if len(c.CommitHashes) > 0 {
			members := make([]any, 0, len(c.CommitHashes))
			for h := range c.CommitHashes {
				members = append(members, h)
			}
			p.SAdd(ctx, redisCommitsKey, members...)
		}
		if len(c.HashMap) > 0 {
			fields := make(map[string]any, len(c.HashMap))
			for k, v := range c.HashMap {
				fields[k] = v
			}
			p.HSet(ctx, redisHashesKey, fields)
		}
		return nil
	})
	return err
}

// Close closes the client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
