package cache

import (
	"context"
	"fmt"
	"log"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisKey is the hash that holds cached distances
const DefaultRedisKey = "route-verifier:distance_cache"

// RedisStore keeps the cache in a single Redis hash
type RedisStore struct {
	memo
	client *redis.Client
	hash   string
}

// NewRedisStore connects using a redis:// URL
func NewRedisStore(url string) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	return NewRedisStoreWithClient(redis.NewClient(opts), DefaultRedisKey), nil
}

// NewRedisStoreWithClient wraps an existing client
func NewRedisStoreWithClient(client *redis.Client, hash string) *RedisStore {
	return &RedisStore{memo: newMemo(), client: client, hash: hash}
}

// Load reads the hash. Connection or decode failures yield an empty cache.
func (s *RedisStore) Load(ctx context.Context) error {
	raw, err := s.client.HGetAll(ctx, s.hash).Result()
	if err != nil {
		log.Printf("[WARN] Failed to read redis distance cache, starting empty: %v", err)
		s.replace(make(map[string]float64))
		return nil
	}

	entries := make(map[string]float64, len(raw))
	for k, v := range raw {
		d, err := strconv.ParseFloat(v, 64)
		if err != nil {
			log.Printf("[WARN] Skipping malformed cache entry %s=%q", k, v)
			continue
		}
		entries[k] = d
	}
	s.replace(entries)
	log.Printf("[CACHE] Loaded distance cache: %d entries", len(entries))
	return nil
}

// Save writes the entries added since Load with one HSET
func (s *RedisStore) Save(ctx context.Context) error {
	keys, values := s.pending()
	if len(keys) == 0 {
		return nil
	}

	fields := make(map[string]interface{}, len(keys))
	for i, k := range keys {
		fields[k] = strconv.FormatFloat(values[i], 'g', -1, 64)
	}
	if err := s.client.HSet(ctx, s.hash, fields).Err(); err != nil {
		return fmt.Errorf("failed to write redis distance cache: %w", err)
	}

	s.markClean(keys)
	return nil
}

// Close closes the client
func (s *RedisStore) Close() error {
	return s.client.Close()
}
