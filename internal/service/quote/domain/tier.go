package domain

import "strings"

// Tier 是归一化之后的装载量档位，是一个封闭集合。
type Tier string

const (
	TierMinimum      Tier = "minimum"
	TierQuarter      Tier = "quarter"
	TierHalf         Tier = "half"
	TierThreeQuarter Tier = "three_quarter"
	TierFull         Tier = "full"
	// TierUnknown 表示客户端传来了无法识别的档位，按默认价处理
	TierUnknown Tier = "unknown"
)

// loadSizeAliases 是所有客户端拼写的唯一映射表。
// enriched 与 degrade 两条路径都只看归一化后的 Tier。
var loadSizeAliases = map[string]Tier{
	"minimum": TierMinimum,
	"min":     TierMinimum,
	"1/8":     TierMinimum,
	"eighth":  TierMinimum,
	"items":   TierMinimum,

	"1/4":     TierQuarter,
	"quarter": TierQuarter,
	"small":   TierQuarter,

	"1/2":    TierHalf,
	"half":   TierHalf,
	"medium": TierHalf,

	"3/4":           TierThreeQuarter,
	"three_quarter": TierThreeQuarter,
	"three-quarter": TierThreeQuarter,
	"threequarter":  TierThreeQuarter,
	"large":         TierThreeQuarter,

	"full":        TierFull,
	"whole":       TierFull,
	"extra_large": TierFull,
	"extra-large": TierFull,
}

// NormalizeLoadSize collapses a free-form load size into its canonical tier.
func NormalizeLoadSize(raw string) Tier {
	key := strings.ToLower(strings.TrimSpace(raw))
	key = strings.TrimSuffix(key, " truck")
	if t, ok := loadSizeAliases[key]; ok {
		return t
	}
	return TierUnknown
}

// Known reports whether t is a priced tier.
func (t Tier) Known() bool {
	_, ok := tierPrices[t]
	return ok
}

// tierPrices 静态价目表，也是 degrade 路径唯一的数据来源。
var tierPrices = map[Tier]float64{
	TierMinimum:      99,
	TierQuarter:      279,
	TierHalf:         379,
	TierThreeQuarter: 449,
	TierFull:         549,
}

// StaticTierPrice returns the in-process base price for t.
func StaticTierPrice(t Tier) (float64, bool) {
	p, ok := tierPrices[t]
	return p, ok
}
