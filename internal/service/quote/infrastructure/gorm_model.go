package infrastructure

import (
	"database/sql"
	"time"

	"gorm.io/gorm"
)

// PricingRateModel 对应数据库中的 pricing_rates 表
type PricingRateModel struct {
	gorm.Model
	ServiceType string  `gorm:"size:32;index:idx_rate_lookup"`
	Tier        string  `gorm:"size:32;index:idx_rate_lookup"`
	BaseRate    float64 `gorm:"type:decimal(10,2)"`
	Active      bool    `gorm:"default:true"`
}

// TableName 指定 GORM 应该使用的表名
func (PricingRateModel) TableName() string {
	return "pricing_rates"
}

// SurgeModifierModel 对应 surge_modifiers 表，生效窗口内的最大倍率为当前倍率。
type SurgeModifierModel struct {
	gorm.Model
	Reason     string
	Multiplier float64 `gorm:"type:decimal(4,2);default:1.00"`
	Active     bool    `gorm:"default:true"`
	StartsAt   sql.NullTime
	EndsAt     sql.NullTime
}

func (SurgeModifierModel) TableName() string {
	return "surge_modifiers"
}

// PromoCodeModel 对应 promo_codes 表
type PromoCodeModel struct {
	gorm.Model
	Code           string `gorm:"size:64;uniqueIndex"`
	Description    string
	DiscountType   string  `gorm:"size:16"`
	DiscountAmount float64 `gorm:"type:decimal(10,2)"`
	MinOrderAmount float64 `gorm:"type:decimal(10,2)"`
	AppOnly        bool
	FirstTimeOnly  bool
	Active         bool `gorm:"default:true"`
	ValidFrom      sql.NullTime
	ValidUntil     sql.NullTime
	MaxUses        int
	CurrentUses    int
	Rule           string `gorm:"type:text"`
}

func (PromoCodeModel) TableName() string {
	return "promo_codes"
}

// PromoCodeUsageModel 对应 promo_code_usage 表，只读，写入由下单流程负责。
type PromoCodeUsageModel struct {
	ID          uint   `gorm:"primarykey"`
	PromoCodeID uint   `gorm:"index:idx_usage_user"`
	UserID      string `gorm:"size:64;index:idx_usage_user"`
	UsedAt      time.Time
}

func (PromoCodeUsageModel) TableName() string {
	return "promo_code_usage"
}

// ServiceRequestModel 对应 service_requests 表，用来判断是否首单客户。
type ServiceRequestModel struct {
	gorm.Model
	UserID      string `gorm:"size:64;index"`
	ServiceType string `gorm:"size:32"`
	Status      string `gorm:"size:32"`
}

func (ServiceRequestModel) TableName() string {
	return "service_requests"
}

// AllModels 供 AutoMigrate 使用
func AllModels() []any {
	return []any{
		&PricingRateModel{},
		&SurgeModifierModel{},
		&PromoCodeModel{},
		&PromoCodeUsageModel{},
		&ServiceRequestModel{},
	}
}
