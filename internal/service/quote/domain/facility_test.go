package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFacilityResolver_Nearest(t *testing.T) {
	r := NewFacilityResolver(OrlandoFacilities(), DefaultPricingConfig())
	downtown, _ := OrlandoServiceArea().Resolve("32801")

	got := r.Nearest(downtown)

	assert.Equal(t, DumpDistanceResult{
		FacilityName:          "McLeod Road Transfer Station",
		DistanceMiles:         3.5,
		EstimatedDriveMinutes: 7,
		DistanceFee:           7,
	}, got)
}

func TestFacilityResolver_FeeFloor(t *testing.T) {
	site := Coordinate{28.5030, -81.4190}
	r := NewFacilityResolver(StaticFacilities{{Name: "Next door", Coordinate: site}}, DefaultPricingConfig())

	got := r.Nearest(site)
	assert.Equal(t, 0.0, got.DistanceMiles)
	assert.Equal(t, 0, got.EstimatedDriveMinutes)
	assert.Equal(t, 5.0, got.DistanceFee)
}

func TestFacilityResolver_TieGoesToRegistryOrder(t *testing.T) {
	origin := Coordinate{28.5, -81.4}
	north := Coordinate{28.6, -81.4}
	south := Coordinate{28.4, -81.4}

	first := NewFacilityResolver(StaticFacilities{
		{Name: "North", Coordinate: north},
		{Name: "South", Coordinate: south},
	}, DefaultPricingConfig())
	second := NewFacilityResolver(StaticFacilities{
		{Name: "South", Coordinate: south},
		{Name: "North", Coordinate: north},
	}, DefaultPricingConfig())

	for i := 0; i < 20; i++ {
		assert.Equal(t, "North", first.Nearest(origin).FacilityName)
		assert.Equal(t, "South", second.Nearest(origin).FacilityName)
	}
}

func TestFacilityResolver_EmptyRegistry(t *testing.T) {
	r := NewFacilityResolver(StaticFacilities{}, DefaultPricingConfig())
	assert.Equal(t, DumpDistanceResult{}, r.Nearest(Coordinate{28.5, -81.4}))
}
