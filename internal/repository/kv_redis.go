package repository

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "gallery:client:"

// redisKVRepo keeps each client's keys in one hash.
type redisKVRepo struct {
	rdb *redis.Client
}

func NewRedisKVRepository(rdb *redis.Client) KVRepository {
	return &redisKVRepo{
		rdb: rdb,
	}
}

func (r *redisKVRepo) Get(ctx context.Context, clientID, key string) (string, bool, error) {
	value, err := r.rdb.HGet(ctx, redisKeyPrefix+clientID, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, err
	}
	return value, true, nil
}

func (r *redisKVRepo) Set(ctx context.Context, clientID, key, value string) error {
	return r.rdb.HSet(ctx, redisKeyPrefix+clientID, key, value).Err()
}

func (r *redisKVRepo) Delete(ctx context.Context, clientID string, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return r.rdb.HDel(ctx, redisKeyPrefix+clientID, keys...).Err()
}
