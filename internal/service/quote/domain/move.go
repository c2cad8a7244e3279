package domain

// ServiceMode 决定两地搬运是否包含卡车。
type ServiceMode string

const (
	ModeTruckAndMover ServiceMode = "truck_and_mover"
	ModeLaborOnly     ServiceMode = "labor_only"
)

func (m ServiceMode) Valid() bool {
	return m == ModeTruckAndMover || m == ModeLaborOnly
}

// 明细行标签
const (
	LabelMoveBase     = "Base price"
	LabelMileage      = "Mileage"
	LabelStairs       = "Stairs surcharge"
	LabelLaborOnly    = "Labor-only discount"
	LabelFloorAdjust  = "Minimum job price adjustment"
	LabelBaseService  = "Base service price"
	LabelSurge        = "Surge pricing"
	LabelDisposalTrip = "Disposal trip"
	LabelAddOnPrefix  = "Add-on: "
)

// MoveQuote is the priced result of a two-location job.
type MoveQuote struct {
	BasePrice           float64 `json:"basePrice"`
	MileageCharge       float64 `json:"mileageCharge"`
	StairsCharge        float64 `json:"stairsCharge"`
	ServiceModeDiscount float64 `json:"serviceModeDiscount"`
	QuoteResult
}

// MoveCalculator prices two-location jobs.
type MoveCalculator struct {
	cfg PricingConfig
}

func NewMoveCalculator(cfg PricingConfig) *MoveCalculator {
	return &MoveCalculator{cfg: cfg.WithDefaults()}
}

// Price computes a move quote. Inputs are assumed to be validated by the caller.
func (c *MoveCalculator) Price(distanceMiles float64, pickupStairs, destinationStairs int, mode ServiceMode, basePrice float64) MoveQuote {
	mileage := RoundCents(distanceMiles * c.cfg.MileageRate)

	// 楼梯费是一次性固定费用，不按层数、也不按两端分别计算
	var stairs float64
	if pickupStairs+destinationStairs > 0 {
		stairs = c.cfg.FlatStairsFee
	}

	// 折扣只作用于基础价
	var discount float64
	if mode == ModeLaborOnly {
		discount = RoundCents(basePrice * c.cfg.LaborOnlyDiscountRate)
	}

	raw := RoundCents(basePrice + mileage + stairs - discount)

	lines := []BreakdownLine{{Label: LabelMoveBase, Amount: basePrice}}
	if mileage != 0 {
		lines = append(lines, BreakdownLine{Label: LabelMileage, Amount: mileage})
	}
	if stairs != 0 {
		lines = append(lines, BreakdownLine{Label: LabelStairs, Amount: stairs})
	}
	if discount != 0 {
		lines = append(lines, BreakdownLine{Label: LabelLaborOnly, Amount: -discount})
	}

	total, lines := applyFloor(raw, c.cfg.MovePriceFloor, lines)

	return MoveQuote{
		BasePrice:           basePrice,
		MileageCharge:       mileage,
		StairsCharge:        stairs,
		ServiceModeDiscount: discount,
		QuoteResult: QuoteResult{
			TotalPrice:      total,
			PriceMin:        total,
			PriceMax:        total,
			Breakdown:       lines,
			SurgeMultiplier: 1,
		},
	}
}

// applyFloor clamps total to floor and itemizes the gap so the breakdown
// always sums to the returned total.
func applyFloor(total, floor float64, lines []BreakdownLine) (float64, []BreakdownLine) {
	if total >= floor {
		return RoundCents(total), lines
	}
	gap := RoundCents(floor - total)
	return RoundCents(floor), append(lines, BreakdownLine{Label: LabelFloorAdjust, Amount: gap})
}
