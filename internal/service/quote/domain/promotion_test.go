package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPromoCode_CanApply(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-24 * time.Hour)
	future := now.Add(24 * time.Hour)

	valid := func() *PromoCode {
		return &PromoCode{ID: 1, Code: "SPRING", DiscountType: DiscountFixed, DiscountAmount: 25, Active: true}
	}
	fact := PromoFact{UserID: "u1", BookingSource: "app", OrderAmount: 300, Now: now}

	tests := []struct {
		name   string
		mutate func(p *PromoCode, f *PromoFact)
		want   error
	}{
		{"valid", func(*PromoCode, *PromoFact) {}, nil},
		{"inactive", func(p *PromoCode, _ *PromoFact) { p.Active = false }, ErrPromoInactive},
		{"app only from web", func(p *PromoCode, f *PromoFact) { p.AppOnly = true; f.BookingSource = "web" }, ErrPromoAppOnly},
		{"not yet valid", func(p *PromoCode, _ *PromoFact) { p.ValidFrom = &future }, ErrPromoNotYetValid},
		{"expired", func(p *PromoCode, _ *PromoFact) { p.ValidUntil = &past }, ErrPromoExpired},
		{"inside window", func(p *PromoCode, _ *PromoFact) { p.ValidFrom, p.ValidUntil = &past, &future }, nil},
		{"exhausted", func(p *PromoCode, _ *PromoFact) { p.MaxUses, p.CurrentUses = 10, 10 }, ErrPromoExhausted},
		{"unlimited uses", func(p *PromoCode, _ *PromoFact) { p.CurrentUses = 1000 }, nil},
		{"below minimum", func(p *PromoCode, _ *PromoFact) { p.MinOrderAmount = 400 }, ErrPromoMinimumOrder},
		{"already used", func(_ *PromoCode, f *PromoFact) { f.AlreadyUsed = true }, ErrPromoAlreadyUsed},
		{"first time only, returning", func(p *PromoCode, _ *PromoFact) { p.FirstTimeOnly = true }, ErrPromoFirstTimeOnly},
		{"first time only, new", func(p *PromoCode, f *PromoFact) { p.FirstTimeOnly = true; f.FirstTime = true }, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, f := valid(), fact
			tt.mutate(p, &f)
			err := p.CanApply(f)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestPromoCode_Discount(t *testing.T) {
	fixed := &PromoCode{DiscountType: DiscountFixed, DiscountAmount: 25}
	assert.Equal(t, 25.0, fixed.Discount(300))
	assert.Equal(t, 10.0, fixed.Discount(10))

	pct := &PromoCode{DiscountType: DiscountPercent, DiscountAmount: 15}
	assert.Equal(t, 56.85, pct.Discount(379))

	unknown := &PromoCode{DiscountType: "bogus", DiscountAmount: 15}
	assert.Equal(t, 0.0, unknown.Discount(379))
}

func TestNormalizePromoCode(t *testing.T) {
	assert.Equal(t, "SPRING25", NormalizePromoCode("  spring25 "))
}
