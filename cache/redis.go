package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	redis "github.com/redis/go-redis/v9"
)

var _ Store = (*RedisStore)(nil)

// RedisStore shares the cache between instances. Every value is stored with
// the tag generations it was loaded under; Get treats an entry whose tags have
// moved on as a miss, so invalidation only has to bump generations.
type RedisStore struct {
	client *redis.Client
	prefix string
}

type redisEnvelope struct {
	Gens  Stamp  `json:"g"`
	Value []byte `json:"v"`
}

func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "cache"
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) valueKey(key string) string { return s.prefix + ":" + key }
func (s *RedisStore) tagKey(tag string) string   { return s.prefix + ":tag:" + tag }
func (s *RedisStore) genKey(tag string) string   { return s.prefix + ":gen:" + tag }

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	raw, err := s.client.Get(ctx, s.valueKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var env redisEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, false, nil
	}
	current, err := s.Stamp(ctx, env.Gens.Tags()...)
	if err != nil {
		return nil, false, err
	}
	for tag, gen := range env.Gens {
		if current[tag] != gen {
			return nil, false, nil
		}
	}
	return env.Value, true, nil
}

func (s *RedisStore) Stamp(ctx context.Context, tags ...string) (Stamp, error) {
	return s.readStamp(ctx, s.client, tags)
}

func (s *RedisStore) readStamp(ctx context.Context, c redis.Cmdable, tags []string) (Stamp, error) {
	stamp := make(Stamp, len(tags))
	if len(tags) == 0 {
		return stamp, nil
	}
	vals, err := c.MGet(ctx, s.genKeys(tags)...).Result()
	if err != nil {
		return nil, err
	}
	for i, v := range vals {
		var gen uint64
		if str, ok := v.(string); ok {
			gen, _ = strconv.ParseUint(str, 10, 64)
		}
		stamp[tags[i]] = gen
	}
	return stamp, nil
}

func (s *RedisStore) genKeys(tags []string) []string {
	keys := make([]string, len(tags))
	for i, tag := range tags {
		keys[i] = s.genKey(tag)
	}
	return keys
}

// Set writes value under WATCH on the generation keys of its tags. A value
// whose stamp is already stale is dropped, and so is one whose tags are
// invalidated while it is being written.
func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration, stamp Stamp) error {
	data, err := json.Marshal(redisEnvelope{Gens: stamp, Value: value})
	if err != nil {
		return err
	}
	tags := stamp.Tags()
	err = s.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := s.readStamp(ctx, tx, tags)
		if err != nil {
			return err
		}
		for tag, gen := range stamp {
			if current[tag] != gen {
				return nil
			}
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, s.valueKey(key), data, ttl)
			for _, tag := range tags {
				pipe.SAdd(ctx, s.tagKey(tag), key)
			}
			return nil
		})
		return err
	}, s.genKeys(tags)...)
	if errors.Is(err, redis.TxFailedErr) {
		return nil
	}
	return err
}

func (s *RedisStore) Invalidate(ctx context.Context, tags ...string) error {
	if len(tags) == 0 {
		return nil
	}
	var stale []string
	for _, tag := range tags {
		members, err := s.client.SMembers(ctx, s.tagKey(tag)).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		for _, m := range members {
			stale = append(stale, s.valueKey(m))
		}
	}

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, tag := range tags {
			pipe.Incr(ctx, s.genKey(tag))
			pipe.Del(ctx, s.tagKey(tag))
		}
		if len(stale) > 0 {
			pipe.Del(ctx, stale...)
		}
		return nil
	})
	return err
}
