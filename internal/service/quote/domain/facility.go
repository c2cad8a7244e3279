package domain

import "math"

// Facility 是一个垃圾处理场或转运站。
type Facility struct {
	Name       string
	Coordinate Coordinate
}

// FacilityRegistry exposes facilities in a fixed, deterministic order.
type FacilityRegistry interface {
	Facilities() []Facility
}

// StaticFacilities is an ordered, immutable FacilityRegistry.
type StaticFacilities []Facility

func (f StaticFacilities) Facilities() []Facility {
	return f
}

// OrlandoFacilities is the disposal registry for the Orlando metro area.
// 顺序即优先级：距离相同时排在前面的站点胜出。
func OrlandoFacilities() StaticFacilities {
	return StaticFacilities{
		{Name: "Orange County Landfill", Coordinate: Coordinate{28.4720, -81.1560}},
		{Name: "McLeod Road Transfer Station", Coordinate: Coordinate{28.5030, -81.4190}},
		{Name: "Porter Transfer Station", Coordinate: Coordinate{28.6130, -81.4270}},
		{Name: "Seminole County Central Transfer Station", Coordinate: Coordinate{28.7390, -81.3060}},
		{Name: "Osceola County Southport Landfill", Coordinate: Coordinate{28.1500, -81.3500}},
	}
}

// DumpDistanceResult describes the haul from a job site to its nearest facility.
type DumpDistanceResult struct {
	FacilityName          string  `json:"facilityName"`
	DistanceMiles         float64 `json:"distanceMiles"`
	EstimatedDriveMinutes int     `json:"estimatedDriveMinutes"`
	DistanceFee           float64 `json:"distanceFee"`
}

// FacilityResolver finds the closest facility to a point.
type FacilityResolver struct {
	registry FacilityRegistry
	cfg      PricingConfig
}

func NewFacilityResolver(registry FacilityRegistry, cfg PricingConfig) *FacilityResolver {
	return &FacilityResolver{registry: registry, cfg: cfg.WithDefaults()}
}

// Nearest scans the registry in order and keeps the first facility with the
// smallest distance. An empty registry yields a zero result.
func (r *FacilityResolver) Nearest(point Coordinate) DumpDistanceResult {
	var (
		best     Facility
		bestDist = math.Inf(1)
		found    bool
	)
	for _, f := range r.registry.Facilities() {
		d := Distance(point, f.Coordinate)
		// 严格小于：保证并列时按注册顺序取第一个
		if d < bestDist {
			best, bestDist, found = f, d, true
		}
	}
	if !found {
		return DumpDistanceResult{}
	}

	miles := RoundHalfMile(bestDist)
	fee := math.Max(r.cfg.FacilityFeeFloor, math.Round(miles*r.cfg.FacilityFeePerMile))

	return DumpDistanceResult{
		FacilityName:          best.Name,
		DistanceMiles:         miles,
		EstimatedDriveMinutes: int(math.Round(miles * r.cfg.DriveMinutesPerMile)),
		DistanceFee:           fee,
	}
}
