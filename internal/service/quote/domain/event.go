package domain

import "time"

// QuoteIssued 是每次报价完成后发出的审计事件。
type QuoteIssued struct {
	QuoteID          string          `json:"quote_id"`
	Kind             string          `json:"kind"`
	ServiceType      string          `json:"service_type,omitempty"`
	Tier             string          `json:"tier,omitempty"`
	ZipCode          string          `json:"zip_code,omitempty"`
	PickupZip        string          `json:"pickup_zip,omitempty"`
	DestinationZip   string          `json:"destination_zip,omitempty"`
	UserID           string          `json:"user_id,omitempty"`
	TotalPrice       float64         `json:"total_price"`
	Breakdown        []BreakdownLine `json:"breakdown"`
	SurgeMultiplier  float64         `json:"surge_multiplier"`
	PromoDiscount    float64         `json:"promo_discount"`
	PromoCodeApplied string          `json:"promo_code_applied,omitempty"`
	Degraded         bool            `json:"degraded"`
	DegradeReason    string          `json:"degrade_reason,omitempty"`
	IssuedAt         time.Time       `json:"issued_at"`
}

const (
	QuoteKindCatalog = "catalog"
	QuoteKindMove    = "move"
)
