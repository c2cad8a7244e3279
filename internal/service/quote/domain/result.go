package domain

// BreakdownLine is one itemized row of a quote. Negative amounts are discounts.
type BreakdownLine struct {
	Label  string  `json:"label"`
	Amount float64 `json:"amount"`
}

// QuoteResult 是返回给调用方的报价，构造完成后不再修改。
type QuoteResult struct {
	QuoteID          string          `json:"quoteId,omitempty"`
	TotalPrice       float64         `json:"totalPrice"`
	PriceMin         float64         `json:"priceMin"`
	PriceMax         float64         `json:"priceMax"`
	Breakdown        []BreakdownLine `json:"breakdown"`
	SurgeMultiplier  float64         `json:"surgeMultiplier"`
	PromoDiscount    float64         `json:"promoDiscount"`
	PromoCodeApplied *string         `json:"promoCodeApplied"`
	Degraded         bool            `json:"degraded"`
}

// BreakdownTotal sums the itemized lines.
func (r QuoteResult) BreakdownTotal() float64 {
	var sum float64
	for _, l := range r.Breakdown {
		sum += l.Amount
	}
	return RoundCents(sum)
}
