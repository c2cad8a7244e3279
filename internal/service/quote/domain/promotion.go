package domain

import (
	"errors"
	"math"
	"strings"
	"time"
)

var (
	ErrPromoNotFound      = errors.New("invalid promo code")
	ErrPromoInactive      = errors.New("promo code is no longer active")
	ErrPromoAppOnly       = errors.New("promo code is only valid in the app")
	ErrPromoNotYetValid   = errors.New("promo code is not yet valid")
	ErrPromoExpired       = errors.New("promo code has expired")
	ErrPromoExhausted     = errors.New("promo code has reached its usage limit")
	ErrPromoMinimumOrder  = errors.New("order is below the promo code minimum")
	ErrPromoAlreadyUsed   = errors.New("promo code already used by this customer")
	ErrPromoFirstTimeOnly = errors.New("promo code is only for first-time customers")
	ErrPromoRuleRejected  = errors.New("promo code conditions not met")
)

// DiscountType 定义了优惠的计算方式。
type DiscountType string

const (
	DiscountFixed   DiscountType = "fixed"
	DiscountPercent DiscountType = "percent"
)

// PromoCode 是持久化的优惠码定义。
type PromoCode struct {
	ID             int64
	Code           string
	Description    string
	DiscountType   DiscountType
	DiscountAmount float64
	MinOrderAmount float64
	AppOnly        bool
	FirstTimeOnly  bool
	Active         bool
	ValidFrom      *time.Time
	ValidUntil     *time.Time
	MaxUses        int
	CurrentUses    int

	// Rule 是可选的 CEL 表达式，求值结果为 true 时才允许使用。
	Rule string
}

// NormalizePromoCode canonicalizes user-entered promo codes.
func NormalizePromoCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// PromoFact is the context a promo code is evaluated against.
type PromoFact struct {
	UserID        string    `json:"user_id"`
	ServiceType   string    `json:"service_type"`
	Tier          string    `json:"tier"`
	ZipCode       string    `json:"zip_code"`
	BookingSource string    `json:"booking_source"`
	OrderAmount   float64   `json:"order_amount"`
	FirstTime     bool      `json:"first_time"`
	AlreadyUsed   bool      `json:"already_used"`
	Now           time.Time `json:"-"`
}

// CanApply checks the static eligibility rules in the order the customer
// would want to hear about them. The CEL rule is checked separately.
func (p *PromoCode) CanApply(f PromoFact) error {
	switch {
	case !p.Active:
		return ErrPromoInactive
	case p.AppOnly && f.BookingSource != "app":
		return ErrPromoAppOnly
	case p.ValidFrom != nil && p.ValidFrom.After(f.Now):
		return ErrPromoNotYetValid
	case p.ValidUntil != nil && p.ValidUntil.Before(f.Now):
		return ErrPromoExpired
	case p.MaxUses > 0 && p.CurrentUses >= p.MaxUses:
		return ErrPromoExhausted
	case p.MinOrderAmount > 0 && f.OrderAmount < p.MinOrderAmount:
		return ErrPromoMinimumOrder
	case f.AlreadyUsed:
		return ErrPromoAlreadyUsed
	case p.FirstTimeOnly && !f.FirstTime:
		return ErrPromoFirstTimeOnly
	}
	return nil
}

// Discount returns the discount for orderAmount, never more than the order itself.
func (p *PromoCode) Discount(orderAmount float64) float64 {
	var d float64
	switch p.DiscountType {
	case DiscountFixed:
		d = p.DiscountAmount
	case DiscountPercent:
		d = orderAmount * p.DiscountAmount / 100
	}
	return RoundCents(math.Max(0, math.Min(d, orderAmount)))
}
