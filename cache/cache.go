// Package cache is a tag-indexed read cache. Entries are stored under a key and
// labelled with tags; invalidating a tag drops every entry carrying it.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"
)

// Invalidator is the only part of the cache that write paths depend on.
type Invalidator interface {
	Invalidate(ctx context.Context, tags ...string) error
}

// Stamp records the generation of each tag at the moment a load started. A
// Set carrying a stamp is discarded if any of its tags was invalidated since,
// so a slow reader can never put pre-write data back into the cache.
type Stamp map[string]uint64

// Tags returns the tags covered by the stamp.
func (s Stamp) Tags() []string {
	tags := make([]string, 0, len(s))
	for tag := range s {
		tags = append(tags, tag)
	}
	return tags
}

type Store interface {
	Invalidator
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Stamp(ctx context.Context, tags ...string) (Stamp, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration, stamp Stamp) error
}

// Fetch reads key from store, falling back to load on a miss and caching the
// JSON-encoded result under tags. Cache failures are logged and never fail the
// read. A nil store always loads.
func Fetch[T any](ctx context.Context, store Store, key string, ttl time.Duration, tags []string, load func(context.Context) (T, error)) (T, error) {
	if store == nil {
		return load(ctx)
	}
	logger := log.With().Str("cacheKey", key).Logger()

	data, ok, err := store.Get(ctx, key)
	if err != nil {
		logger.Warn().Err(err).Msg("cache read failed")
	} else if ok {
		var cached T
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
		logger.Warn().Err(err).Msg("discarding undecodable cache entry")
	}

	stamp, stampErr := store.Stamp(ctx, tags...)
	if stampErr != nil {
		logger.Warn().Err(stampErr).Msg("cache stamp failed, result will not be cached")
	}

	value, err := load(ctx)
	if err != nil {
		return value, err
	}
	if stampErr != nil {
		return value, nil
	}

	encoded, err := json.Marshal(value)
	if err != nil {
		logger.Warn().Err(err).Msg("cache encode failed")
		return value, nil
	}
	if err := store.Set(ctx, key, encoded, ttl, stamp); err != nil {
		logger.Warn().Err(err).Msg("cache write failed")
	}
	return value, nil
}
