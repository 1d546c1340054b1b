package currency

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

// レートをRedisに置く。キーは exchange_rate:{base}:{target}。
type RedisRateCache struct {
	rdb *redis.Client
}

func NewRedisRateCache(rdb *redis.Client) *RedisRateCache {
	return &RedisRateCache{rdb: rdb}
}

func rateKey(base, target string) string {
	return fmt.Sprintf("exchange_rate:%s:%s", base, target)
}

func (c *RedisRateCache) GetRate(ctx context.Context, base, target string) (decimal.Decimal, bool) {
	raw, err := c.rdb.Get(ctx, rateKey(base, target)).Result()
	if err != nil {
		return decimal.Decimal{}, false
	}
	rate, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return rate, true
}

func (c *RedisRateCache) SetRate(ctx context.Context, base, target string, rate decimal.Decimal, ttl time.Duration) {
	// キャッシュ書き込みの失敗は無視（次回また取りに行く）
	_ = c.rdb.Set(ctx, rateKey(base, target), rate.String(), ttl).Err()
}
