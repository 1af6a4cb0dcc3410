package accounts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/lukman83/martdash/internal/models"
	"github.com/redis/go-redis/v9"
)

const redisKey = "martdash:accounts"

// RedisStore keeps accounts as fields of one Redis hash.
type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func (s *RedisStore) Get(ctx context.Context, mobile string) (models.AuthSession, error) {
	val, err := s.rdb.HGet(ctx, redisKey, mobile).Result()
	if errors.Is(err, redis.Nil) {
		return models.AuthSession{}, ErrNotFound
	}
	if err != nil {
		return models.AuthSession{}, fmt.Errorf("redis hget account: %w", err)
	}
	var tp tokenPair
	if err := json.Unmarshal([]byte(val), &tp); err != nil {
		return models.AuthSession{}, fmt.Errorf("decode account: %w", err)
	}
	return toSession(mobile, tp), nil
}

func (s *RedisStore) Save(ctx context.Context, session models.AuthSession) error {
	data, err := json.Marshal(tokenPair{AccessToken: session.AccessToken, RefreshToken: session.RefreshToken})
	if err != nil {
		return fmt.Errorf("encode account: %w", err)
	}
	if err := s.rdb.HSet(ctx, redisKey, session.MobileNumber, data).Err(); err != nil {
		return fmt.Errorf("redis hset account: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, mobile string) error {
	if err := s.rdb.HDel(ctx, redisKey, mobile).Err(); err != nil {
		return fmt.Errorf("redis hdel account: %w", err)
	}
	return nil
}

func (s *RedisStore) List(ctx context.Context) ([]models.AuthSession, error) {
	all, err := s.rdb.HGetAll(ctx, redisKey).Result()
	if err != nil {
		return nil, fmt.Errorf("redis hgetall accounts: %w", err)
	}
	out := make([]models.AuthSession, 0, len(all))
	for mobile, val := range all {
		var tp tokenPair
		if err := json.Unmarshal([]byte(val), &tp); err != nil {
			return nil, fmt.Errorf("decode account %s: %w", mobile, err)
		}
		out = append(out, toSession(mobile, tp))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MobileNumber < out[j].MobileNumber })
	return out, nil
}

func (s *RedisStore) Close() error {
	return s.rdb.Close()
}
