package domain

import (
	"fmt"
	"math"
	"strconv"
)

// ServiceType 是可报价的单点服务类型。
type ServiceType string

const (
	ServiceJunkRemoval      ServiceType = "junk_removal"
	ServiceFurnitureMoving  ServiceType = "furniture_moving"
	ServiceGarageCleanout   ServiceType = "garage_cleanout"
	ServiceEstateCleanout   ServiceType = "estate_cleanout"
	ServiceTruckUnloading   ServiceType = "truck_unloading"
	ServiceHVAC             ServiceType = "hvac"
	ServiceCleaning         ServiceType = "cleaning"
	ServiceHomeCleaning     ServiceType = "home_cleaning"
	ServiceMovingLabor      ServiceType = "moving_labor"
	ServicePressureWashing  ServiceType = "pressure_washing"
	ServiceGutterCleaning   ServiceType = "gutter_cleaning"
	ServiceLightDemolition  ServiceType = "light_demolition"
	ServiceHomeConsultation ServiceType = "home_consultation"
)

var serviceTypes = map[ServiceType]bool{
	ServiceJunkRemoval: true, ServiceFurnitureMoving: true, ServiceGarageCleanout: true,
	ServiceEstateCleanout: true, ServiceTruckUnloading: true, ServiceHVAC: true,
	ServiceCleaning: true, ServiceHomeCleaning: true, ServiceMovingLabor: true,
	ServicePressureWashing: true, ServiceGutterCleaning: true, ServiceLightDemolition: true,
	ServiceHomeConsultation: true,
}

// ServiceTypes lists every supported service type.
func ServiceTypes() []ServiceType {
	out := make([]ServiceType, 0, len(serviceTypes))
	for st := range serviceTypes {
		out = append(out, st)
	}
	return out
}

func (s ServiceType) Valid() bool {
	return serviceTypes[s]
}

// Disposal reports whether the job ends with a trip to a disposal facility.
func (s ServiceType) Disposal() bool {
	switch s {
	case ServiceJunkRemoval, ServiceGarageCleanout, ServiceEstateCleanout, ServiceLightDemolition:
		return true
	}
	return false
}

// addOnPrices 附加项价目表，只在 enriched 路径上逐项列出。
var addOnPrices = map[string]float64{
	"heavy_item":     50,
	"appliance":      35,
	"mattress":       25,
	"disassembly":    35,
	"same_day":       49,
	"hazmat_sorting": 40,
}

// AddOnPrice returns the price of a named add-on.
func AddOnPrice(name string) (float64, bool) {
	p, ok := addOnPrices[name]
	return p, ok
}

// PricedAddOn is an add-on that has been resolved to a price.
type PricedAddOn struct {
	Name  string
	Price float64
}

// CatalogInput carries everything the enriched catalog calculation needs.
// Collecting it may involve I/O; pricing it never does.
type CatalogInput struct {
	BasePrice       float64
	SurgeMultiplier float64
	AddOns          []PricedAddOn
	Disposal        *DumpDistanceResult
}

// CatalogCalculator prices single-location tiered services.
type CatalogCalculator struct {
	cfg PricingConfig
}

func NewCatalogCalculator(cfg PricingConfig) *CatalogCalculator {
	return &CatalogCalculator{cfg: cfg.WithDefaults()}
}

// Fallback prices a tier from the static table only. The second return value
// is false when the tier is unknown and the default price was used.
func (c *CatalogCalculator) Fallback(t Tier) (QuoteResult, bool) {
	price, ok := StaticTierPrice(t)
	if !ok {
		price = c.cfg.DefaultTierPrice
	}
	total := RoundCents(math.Max(price, c.cfg.CatalogPriceFloor))
	lo, hi := c.band(total)

	return QuoteResult{
		TotalPrice:      total,
		PriceMin:        lo,
		PriceMax:        hi,
		Breakdown:       []BreakdownLine{{Label: LabelBaseService, Amount: total}},
		SurgeMultiplier: 1,
		Degraded:        true,
	}, ok
}

// Price computes the enriched catalog quote before any promotion.
func (c *CatalogCalculator) Price(in CatalogInput) QuoteResult {
	surge := in.SurgeMultiplier
	if surge < 1 {
		surge = 1
	}

	lines := []BreakdownLine{{Label: LabelBaseService, Amount: RoundCents(in.BasePrice)}}
	subtotal := in.BasePrice
	for _, a := range in.AddOns {
		lines = append(lines, BreakdownLine{Label: LabelAddOnPrefix + a.Name, Amount: a.Price})
		subtotal += a.Price
	}
	if in.Disposal != nil && in.Disposal.DistanceFee > 0 {
		label := fmt.Sprintf("%s (%s, %s mi)", LabelDisposalTrip, in.Disposal.FacilityName,
			strconv.FormatFloat(in.Disposal.DistanceMiles, 'f', 1, 64))
		lines = append(lines, BreakdownLine{Label: label, Amount: in.Disposal.DistanceFee})
		subtotal += in.Disposal.DistanceFee
	}

	total := RoundCents(subtotal * surge)
	if surge > 1 {
		label := fmt.Sprintf("%s (%sx)", LabelSurge, strconv.FormatFloat(surge, 'f', -1, 64))
		lines = append(lines, BreakdownLine{Label: label, Amount: RoundCents(total - RoundCents(subtotal))})
	}

	total, lines = applyFloor(total, c.cfg.CatalogPriceFloor, lines)
	lo, hi := c.band(total)

	return QuoteResult{
		TotalPrice:      total,
		PriceMin:        lo,
		PriceMax:        hi,
		Breakdown:       lines,
		SurgeMultiplier: surge,
	}
}

// ApplyPromo subtracts discount from the total without touching the breakdown.
// The recorded PromoDiscount is what the customer actually saves after the
// price floor is enforced.
func (c *CatalogCalculator) ApplyPromo(r QuoteResult, code string, discount float64) QuoteResult {
	if discount <= 0 {
		return r
	}
	after := math.Max(c.cfg.CatalogPriceFloor, RoundCents(r.TotalPrice-discount))
	saved := RoundCents(r.TotalPrice - after)
	if saved <= 0 {
		return r
	}

	out := r
	out.TotalPrice = RoundCents(after)
	out.PriceMin, out.PriceMax = c.band(out.TotalPrice)
	out.PromoDiscount = saved
	out.PromoCodeApplied = &code
	return out
}

func (c *CatalogCalculator) band(total float64) (float64, float64) {
	v := c.cfg.PriceBandVariance
	return RoundCents(total * (1 - v)), RoundCents(total * (1 + v))
}
