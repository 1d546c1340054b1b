package cart

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"app/internal/domain/model"

	"github.com/redis/go-redis/v9"
)

// カートの保持期間。触られるたびに延長する。
const cartTTL = 14 * 24 * time.Hour

// Redisにカートを保存する。キーは cart:{session_token}、値はJSON。
type RedisCartStore struct {
	rdb *redis.Client
}

func NewRedisClient(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{Addr: addr})
}

func NewRedisCartStore(rdb *redis.Client) *RedisCartStore {
	return &RedisCartStore{rdb: rdb}
}

func cartKey(token string) string {
	return "cart:" + token
}

// 無いトークンは空カートとして返す
func (s *RedisCartStore) Get(ctx context.Context, token string) (model.Cart, error) {
	raw, err := s.rdb.Get(ctx, cartKey(token)).Result()
	if errors.Is(err, redis.Nil) {
		return model.Cart{}, nil
	}
	if err != nil {
		return nil, err
	}

	var c model.Cart
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		// 壊れたカートは空扱い
		return model.Cart{}, nil
	}
	return c, nil
}

func (s *RedisCartStore) Save(ctx context.Context, token string, c model.Cart) error {
	if len(c) == 0 {
		return s.Clear(ctx, token)
	}
	raw, err := json.Marshal(c)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, cartKey(token), raw, cartTTL).Err()
}

func (s *RedisCartStore) Clear(ctx context.Context, token string) error {
	return s.rdb.Del(ctx, cartKey(token)).Err()
}
