package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeLoadSize(t *testing.T) {
	tests := map[string]Tier{
		"1/8":           TierMinimum,
		"eighth":        TierMinimum,
		"minimum":       TierMinimum,
		"items":         TierMinimum,
		"1/4":           TierQuarter,
		"Small":         TierQuarter,
		"quarter":       TierQuarter,
		"1/2":           TierHalf,
		"medium":        TierHalf,
		"half truck":    TierHalf,
		"3/4":           TierThreeQuarter,
		"three-quarter": TierThreeQuarter,
		"LARGE":         TierThreeQuarter,
		"three_quarter": TierThreeQuarter,
		" full ":        TierFull,
		"whole":         TierFull,
		"extra_large":   TierFull,
		"":              TierUnknown,
		"two trucks":    TierUnknown,
		"gigantic":      TierUnknown,
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizeLoadSize(in), "NormalizeLoadSize(%q)", in)
	}
}

func TestStaticTierPrice(t *testing.T) {
	want := map[Tier]float64{
		TierMinimum:      99,
		TierQuarter:      279,
		TierHalf:         379,
		TierThreeQuarter: 449,
		TierFull:         549,
	}
	for tier, price := range want {
		got, ok := StaticTierPrice(tier)
		assert.True(t, ok)
		assert.Equal(t, price, got, "tier %s", tier)
		assert.True(t, tier.Known())
	}

	_, ok := StaticTierPrice(TierUnknown)
	assert.False(t, ok)
	assert.False(t, TierUnknown.Known())
}
