package domain

// PricingConfig 汇总了所有业务常量，避免在计算器中出现魔法数字。
// 值来自配置文件的 pricing 段，缺省时使用 DefaultPricingConfig。
type PricingConfig struct {
	// 两地搬运
	MileageRate           float64 `yaml:"mileage_rate"`
	FlatStairsFee         float64 `yaml:"flat_stairs_fee"`
	LaborOnlyDiscountRate float64 `yaml:"labor_only_discount_rate"`
	MovePriceFloor        float64 `yaml:"move_price_floor"`
	DefaultMoveBasePrice  float64 `yaml:"default_move_base_price"`

	// 最近处理站
	FacilityFeePerMile  float64 `yaml:"facility_fee_per_mile"`
	FacilityFeeFloor    float64 `yaml:"facility_fee_floor"`
	DriveMinutesPerMile float64 `yaml:"drive_minutes_per_mile"`

	// 目录报价
	CatalogPriceFloor float64 `yaml:"catalog_price_floor"`
	PriceBandVariance float64 `yaml:"price_band_variance"`
	DefaultTierPrice  float64 `yaml:"default_tier_price"`
}

// DefaultPricingConfig returns the production constants.
func DefaultPricingConfig() PricingConfig {
	return PricingConfig{
		MileageRate:           1.00,
		FlatStairsFee:         25,
		LaborOnlyDiscountRate: 0.40,
		MovePriceFloor:        99,
		DefaultMoveBasePrice:  99,

		// round trip at $1/mile
		FacilityFeePerMile:  2,
		FacilityFeeFloor:    5,
		DriveMinutesPerMile: 2,

		CatalogPriceFloor: 99,
		PriceBandVariance: 0.15,
		DefaultTierPrice:  99,
	}
}

// WithDefaults fills zero-valued fields from DefaultPricingConfig.
func (c PricingConfig) WithDefaults() PricingConfig {
	d := DefaultPricingConfig()
	fill := func(v *float64, def float64) {
		if *v == 0 {
			*v = def
		}
	}
	fill(&c.MileageRate, d.MileageRate)
	fill(&c.FlatStairsFee, d.FlatStairsFee)
	fill(&c.LaborOnlyDiscountRate, d.LaborOnlyDiscountRate)
	fill(&c.MovePriceFloor, d.MovePriceFloor)
	fill(&c.DefaultMoveBasePrice, d.DefaultMoveBasePrice)
	fill(&c.FacilityFeePerMile, d.FacilityFeePerMile)
	fill(&c.FacilityFeeFloor, d.FacilityFeeFloor)
	fill(&c.DriveMinutesPerMile, d.DriveMinutesPerMile)
	fill(&c.CatalogPriceFloor, d.CatalogPriceFloor)
	fill(&c.PriceBandVariance, d.PriceBandVariance)
	fill(&c.DefaultTierPrice, d.DefaultTierPrice)
	return c
}
