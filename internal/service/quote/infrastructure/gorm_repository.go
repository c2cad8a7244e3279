package infrastructure

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"quoteengine/internal/service/quote/domain"
)

// DefaultStoreTimeout 是单次存储调用的上限，超过后 enriched 路径放弃并降级。
const DefaultStoreTimeout = 800 * time.Millisecond

// GormPricingStore 是 port.PricingStore 的 GORM 实现
type GormPricingStore struct {
	db      *gorm.DB
	timeout time.Duration
	tracer  trace.Tracer
	now     func() time.Time
}

// NewGormPricingStore 创建一个新的 GORM 仓储实例
func NewGormPricingStore(db *gorm.DB, timeout time.Duration) *GormPricingStore {
	if timeout <= 0 {
		timeout = DefaultStoreTimeout
	}
	return &GormPricingStore{
		db:      db,
		timeout: timeout,
		tracer:  otel.Tracer("quote-store"),
		now:     time.Now,
	}
}

// begin 给每次调用加上超时和 span，调用方负责 end。
func (r *GormPricingStore) begin(ctx context.Context, op string) (context.Context, func(error)) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	ctx, span := r.tracer.Start(ctx, "PricingStore."+op, trace.WithSpanKind(trace.SpanKindClient))
	span.SetAttributes(attribute.String("db.system", "mysql"))

	return ctx, func(err error) {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
		cancel()
	}
}

// FindRate 查找生效的基础费率
func (r *GormPricingStore) FindRate(ctx context.Context, serviceType domain.ServiceType, tier domain.Tier) (rate *domain.Rate, err error) {
	ctx, end := r.begin(ctx, "FindRate")
	defer func() { end(err) }()

	var model PricingRateModel
	err = r.db.WithContext(ctx).
		Where("service_type = ? AND tier = ? AND active = ?", string(serviceType), string(tier), true).
		Order("updated_at DESC").
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRateNotFound
		}
		return nil, errors.Wrapf(err, "find rate %s/%s", serviceType, tier)
	}
	return ToDomainRate(&model), nil
}

// CurrentSurgeMultiplier 返回当前生效的最大倍率，没有时为 1.0
func (r *GormPricingStore) CurrentSurgeMultiplier(ctx context.Context) (m float64, err error) {
	ctx, end := r.begin(ctx, "CurrentSurgeMultiplier")
	defer func() { end(err) }()

	now := r.now()
	var result struct{ Multiplier *float64 }
	err = r.db.WithContext(ctx).
		Model(&SurgeModifierModel{}).
		Select("MAX(multiplier) AS multiplier").
		Where("active = ?", true).
		Where("(starts_at IS NULL OR starts_at <= ?) AND (ends_at IS NULL OR ends_at > ?)", now, now).
		Scan(&result).Error
	if err != nil {
		return 0, errors.Wrap(err, "query surge modifiers")
	}
	if result.Multiplier == nil || *result.Multiplier < 1 {
		return 1, nil
	}
	return *result.Multiplier, nil
}

// FindPromoCode 按规范化后的 code 查找优惠码
func (r *GormPricingStore) FindPromoCode(ctx context.Context, code string) (promo *domain.PromoCode, err error) {
	ctx, end := r.begin(ctx, "FindPromoCode")
	defer func() { end(err) }()

	var model PromoCodeModel
	err = r.db.WithContext(ctx).
		Where("UPPER(code) = ?", strings.ToUpper(strings.TrimSpace(code))).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPromoNotFound
		}
		return nil, errors.Wrapf(err, "find promo code %q", code)
	}
	return ToDomainPromoCode(&model), nil
}

// HasRedeemedPromo 判断用户是否用过该优惠码
func (r *GormPricingStore) HasRedeemedPromo(ctx context.Context, promoID int64, userID string) (used bool, err error) {
	ctx, end := r.begin(ctx, "HasRedeemedPromo")
	defer func() { end(err) }()

	var count int64
	err = r.db.WithContext(ctx).
		Model(&PromoCodeUsageModel{}).
		Where("promo_code_id = ? AND user_id = ?", promoID, userID).
		Count(&count).Error
	if err != nil {
		return false, errors.Wrap(err, "count promo usage")
	}
	return count > 0, nil
}

// IsFirstTimeCustomer 用户没有任何历史服务单时为 true
func (r *GormPricingStore) IsFirstTimeCustomer(ctx context.Context, userID string) (first bool, err error) {
	ctx, end := r.begin(ctx, "IsFirstTimeCustomer")
	defer func() { end(err) }()

	var count int64
	err = r.db.WithContext(ctx).
		Model(&ServiceRequestModel{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	if err != nil {
		return false, errors.Wrap(err, "count service requests")
	}
	return count == 0, nil
}
