package infrastructure

import (
	"context"
	"errors"

	"quoteengine/internal/pkg/logger"
	"quoteengine/internal/service/quote/domain"
	"quoteengine/internal/service/quote/port"
)

// CachedPricingStore 在 FindRate 前面加一层读穿缓存，其余调用直接透传。
// 缓存故障不算存储故障：记日志后回源。
type CachedPricingStore struct {
	port.PricingStore
	cache port.RateCache
}

func NewCachedPricingStore(store port.PricingStore, cache port.RateCache) *CachedPricingStore {
	return &CachedPricingStore{PricingStore: store, cache: cache}
}

func (s *CachedPricingStore) FindRate(ctx context.Context, serviceType domain.ServiceType, tier domain.Tier) (*domain.Rate, error) {
	rate, err := s.cache.GetRate(ctx, serviceType, tier)
	if err == nil {
		return rate, nil
	}
	if !errors.Is(err, port.ErrCacheMiss) {
		logger.Ctx(ctx).Warn().Err(err).Str("service_type", string(serviceType)).Msg("rate cache read failed")
	}

	rate, err = s.PricingStore.FindRate(ctx, serviceType, tier)
	if err != nil {
		return nil, err
	}
	if err := s.cache.SetRate(ctx, rate); err != nil {
		logger.Ctx(ctx).Warn().Err(err).Str("service_type", string(serviceType)).Msg("rate cache write failed")
	}
	return rate, nil
}
