package infrastructure

import (
	"database/sql"
	"time"

	"quoteengine/internal/service/quote/domain"
)

// ToDomainRate 将数据库模型转换为领域模型
func ToDomainRate(model *PricingRateModel) *domain.Rate {
	if model == nil {
		return nil
	}
	return &domain.Rate{
		ServiceType: domain.ServiceType(model.ServiceType),
		Tier:        domain.Tier(model.Tier),
		BaseRate:    model.BaseRate,
	}
}

// ToDomainPromoCode 将数据库模型转换为领域模型
func ToDomainPromoCode(model *PromoCodeModel) *domain.PromoCode {
	if model == nil {
		return nil
	}
	return &domain.PromoCode{
		ID:             int64(model.ID),
		Code:           domain.NormalizePromoCode(model.Code),
		Description:    model.Description,
		DiscountType:   domain.DiscountType(model.DiscountType),
		DiscountAmount: model.DiscountAmount,
		MinOrderAmount: model.MinOrderAmount,
		AppOnly:        model.AppOnly,
		FirstTimeOnly:  model.FirstTimeOnly,
		Active:         model.Active,
		ValidFrom:      nullTime(model.ValidFrom),
		ValidUntil:     nullTime(model.ValidUntil),
		MaxUses:        model.MaxUses,
		CurrentUses:    model.CurrentUses,
		Rule:           model.Rule,
	}
}

func nullTime(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
