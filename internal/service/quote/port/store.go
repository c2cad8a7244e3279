package port

import (
	"context"
	"errors"

	"quoteengine/internal/service/quote/domain"
)

// ErrCacheMiss 表示缓存中没有对应的键。
var ErrCacheMiss = errors.New("cache miss")

// PricingStore 是 enriched 报价路径依赖的持久化存储。
// 超时与取消由实现方负责，调用方只看返回的 error。
type PricingStore interface {
	// FindRate returns domain.ErrRateNotFound when no active rate exists.
	FindRate(ctx context.Context, serviceType domain.ServiceType, tier domain.Tier) (*domain.Rate, error)
	// CurrentSurgeMultiplier returns 1.0 when no modifier is active.
	CurrentSurgeMultiplier(ctx context.Context) (float64, error)
	// FindPromoCode returns domain.ErrPromoNotFound for unknown codes.
	FindPromoCode(ctx context.Context, code string) (*domain.PromoCode, error)
	HasRedeemedPromo(ctx context.Context, promoID int64, userID string) (bool, error)
	IsFirstTimeCustomer(ctx context.Context, userID string) (bool, error)
}

// RateCache caches persisted rates in front of a PricingStore.
type RateCache interface {
	// GetRate returns ErrCacheMiss when the key is absent.
	GetRate(ctx context.Context, serviceType domain.ServiceType, tier domain.Tier) (*domain.Rate, error)
	SetRate(ctx context.Context, rate *domain.Rate) error
}
