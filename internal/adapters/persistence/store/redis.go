package store

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// redisStore keeps documents as string keys and each index as a sorted set
// scored by a per-index INCR counter, so ZRANGE yields insertion order.
type redisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore creates a store on an existing client. prefix namespaces every key.
func NewRedisStore(client *redis.Client, prefix string) Store {
	return &redisStore{client: client, prefix: prefix}
}

func (s *redisStore) recordKey(key string) string { return s.prefix + key }

func (s *redisStore) indexKey(index string) string { return s.prefix + "index:" + index }

func (s *redisStore) seqKey(index string) string { return s.prefix + "seq:" + index }

func (s *redisStore) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := s.client.Get(ctx, s.recordKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return value, nil
}

func (s *redisStore) Put(ctx context.Context, key string, value []byte) error {
	return s.client.Set(ctx, s.recordKey(key), value, 0).Err()
}

func (s *redisStore) Delete(ctx context.Context, key string) (bool, error) {
	n, err := s.client.Del(ctx, s.recordKey(key)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *redisStore) Exists(ctx context.Context, key string) (bool, error) {
	n, err := s.client.Exists(ctx, s.recordKey(key)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *redisStore) IndexAdd(ctx context.Context, index, id string) error {
	seq, err := s.client.Incr(ctx, s.seqKey(index)).Result()
	if err != nil {
		return err
	}
	return s.client.ZAddNX(ctx, s.indexKey(index), redis.Z{
		Score:  float64(seq),
		Member: id,
	}).Err()
}

func (s *redisStore) IndexRemove(ctx context.Context, index, id string) error {
	return s.client.ZRem(ctx, s.indexKey(index), id).Err()
}

func (s *redisStore) IndexIDs(ctx context.Context, index string) ([]string, error) {
	return s.client.ZRange(ctx, s.indexKey(index), 0, -1).Result()
}

func (s *redisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *redisStore) Close() error {
	return s.client.Close()
}
