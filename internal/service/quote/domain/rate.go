package domain

// Rate 是持久化价目表中的一条费率。
type Rate struct {
	ServiceType ServiceType `json:"service_type"`
	Tier        Tier        `json:"tier"`
	BaseRate    float64     `json:"base_rate"`
}
