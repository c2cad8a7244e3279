package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"quoteengine/internal/service/quote/domain"
	"quoteengine/internal/service/quote/port"
)

const rateKeyPrefix = "quote:rate:"

// RedisRateCache 缓存基础费率，key 形如 quote:rate:junk_removal:half
type RedisRateCache struct {
	client redis.UniversalClient
	ttl    time.Duration
}

func NewRedisRateCache(client redis.UniversalClient, ttl time.Duration) *RedisRateCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &RedisRateCache{client: client, ttl: ttl}
}

func rateKey(serviceType domain.ServiceType, tier domain.Tier) string {
	return fmt.Sprintf("%s%s:%s", rateKeyPrefix, serviceType, tier)
}

func (c *RedisRateCache) GetRate(ctx context.Context, serviceType domain.ServiceType, tier domain.Tier) (*domain.Rate, error) {
	raw, err := c.client.Get(ctx, rateKey(serviceType, tier)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, port.ErrCacheMiss
		}
		return nil, errors.Wrap(err, "redis get rate")
	}

	var rate domain.Rate
	if err := json.Unmarshal(raw, &rate); err != nil {
		return nil, errors.Wrap(err, "decode cached rate")
	}
	return &rate, nil
}

func (c *RedisRateCache) SetRate(ctx context.Context, rate *domain.Rate) error {
	raw, err := json.Marshal(rate)
	if err != nil {
		return errors.Wrap(err, "encode rate")
	}
	if err := c.client.Set(ctx, rateKey(rate.ServiceType, rate.Tier), raw, c.ttl).Err(); err != nil {
		return errors.Wrap(err, "redis set rate")
	}
	return nil
}

// NewRedisClient 单地址时是普通客户端，多地址时是集群客户端。
func NewRedisClient(addrs []string, password string, db int) redis.UniversalClient {
	return redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs:        addrs,
		Password:     password,
		DB:           db,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  300 * time.Millisecond,
		WriteTimeout: 300 * time.Millisecond,
	})
}
