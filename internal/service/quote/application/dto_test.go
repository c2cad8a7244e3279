package application

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quoteengine/internal/service/quote/domain"
)

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func TestParseQuoteRequest(t *testing.T) {
	got, err := ParseQuoteRequest(QuoteRequest{
		ServiceType:   " junk_removal ",
		LoadSize:      "1/8",
		ZipCode:       "32801",
		AddOns:        []string{" Mattress "},
		UserID:        "u-1",
		BookingSource: "APP",
		PromoCode:     " save50 ",
	})

	require.NoError(t, err)
	assert.Equal(t, CanonicalQuoteRequest{
		ServiceType:   domain.ServiceJunkRemoval,
		Tier:          domain.TierMinimum,
		RawLoadSize:   "1/8",
		ZipCode:       "32801",
		AddOns:        []string{"mattress"},
		UserID:        "u-1",
		BookingSource: "app",
		PromoCode:     "SAVE50",
	}, got)
}

func TestParseQuoteRequest_UnknownLoadSizeIsNotAnError(t *testing.T) {
	got, err := ParseQuoteRequest(QuoteRequest{ServiceType: "hvac", LoadSize: "huge", ZipCode: "32801"})
	require.NoError(t, err)
	assert.Equal(t, domain.TierUnknown, got.Tier)
}

func TestParseQuoteRequest_FieldErrors(t *testing.T) {
	_, err := ParseQuoteRequest(QuoteRequest{ServiceType: "dog_walking", ZipCode: "328"})

	var verr *domain.ClientInputError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, map[string]string{
		"serviceType": "unsupported service type",
		"loadSize":    "required",
		"zipCode":     "must be 5 characters",
	}, verr.Fields)

	_, err = ParseQuoteRequest(QuoteRequest{})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "required", verr.Fields["serviceType"])
	assert.Equal(t, "required", verr.Fields["zipCode"])
}

func TestParseQuoteRequest_ZipOutsideAreaIsAllowed(t *testing.T) {
	_, err := ParseQuoteRequest(QuoteRequest{ServiceType: "hvac", LoadSize: "full", ZipCode: "99999"})
	assert.NoError(t, err)
}

func TestParseMoveQuoteRequest_Defaults(t *testing.T) {
	got, err := ParseMoveQuoteRequest(MoveQuoteRequest{PickupZip: "32801", DestinationZip: "32803"}, 99)

	require.NoError(t, err)
	assert.Equal(t, CanonicalMoveQuoteRequest{
		PickupZip:      "32801",
		DestinationZip: "32803",
		ServiceMode:    domain.ModeTruckAndMover,
		BasePrice:      99,
	}, got)

	zero, err := ParseMoveQuoteRequest(MoveQuoteRequest{PickupZip: "32801", DestinationZip: "32803", BasePrice: floatPtr(0)}, 99)
	require.NoError(t, err)
	assert.Equal(t, 99.0, zero.BasePrice)
}

func TestParseMoveQuoteRequest_Explicit(t *testing.T) {
	got, err := ParseMoveQuoteRequest(MoveQuoteRequest{
		PickupZip:         "32801",
		DestinationZip:    "32803",
		PickupStairs:      intPtr(20),
		DestinationStairs: intPtr(2),
		ServiceMode:       "Labor_Only",
		BasePrice:         floatPtr(180),
	}, 99)

	require.NoError(t, err)
	assert.Equal(t, 20, got.PickupStairs)
	assert.Equal(t, domain.ModeLaborOnly, got.ServiceMode)
	assert.Equal(t, 180.0, got.BasePrice)
}

func TestParseMoveQuoteRequest_FieldErrors(t *testing.T) {
	_, err := ParseMoveQuoteRequest(MoveQuoteRequest{
		PickupZip:         "1234",
		PickupStairs:      intPtr(21),
		DestinationStairs: intPtr(-1),
		ServiceMode:       "helicopter",
		BasePrice:         floatPtr(-5),
	}, 99)

	var verr *domain.ClientInputError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, map[string]string{
		"pickupZip":         "must be 5 characters",
		"destinationZip":    "required",
		"pickupStairs":      "must be between 0 and 20",
		"destinationStairs": "must be between 0 and 20",
		"serviceMode":       "must be truck_and_mover or labor_only",
		"basePrice":         "must not be negative",
	}, verr.Fields)
}

func TestParseMoveQuoteRequest_BasePriceBounds(t *testing.T) {
	tests := []struct {
		name  string
		price float64
		msg   string
	}{
		{"overflowing", 1e307, "must not exceed 100000"},
		{"just above cap", 100000.01, "must not exceed 100000"},
		{"infinite", math.Inf(1), "must be a finite number"},
		{"nan", math.NaN(), "must be a finite number"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseMoveQuoteRequest(MoveQuoteRequest{
				PickupZip:      "32801",
				DestinationZip: "32803",
				BasePrice:      floatPtr(tt.price),
			}, 99)

			var verr *domain.ClientInputError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, map[string]string{"basePrice": tt.msg}, verr.Fields)
		})
	}

	got, err := ParseMoveQuoteRequest(MoveQuoteRequest{PickupZip: "32801", DestinationZip: "32803", BasePrice: floatPtr(100000)}, 99)
	require.NoError(t, err)
	assert.Equal(t, 100000.0, got.BasePrice)
}

func TestParseMoveQuoteRequest_LegacyModeField(t *testing.T) {
	got, err := ParseMoveQuoteRequest(MoveQuoteRequest{
		PickupZip:       "32801",
		DestinationZip:  "32803",
		MoveServiceMode: "labor_only",
	}, 99)
	require.NoError(t, err)
	assert.Equal(t, domain.ModeLaborOnly, got.ServiceMode)

	// 两个字段都传时以 serviceMode 为准
	got, err = ParseMoveQuoteRequest(MoveQuoteRequest{
		PickupZip:       "32801",
		DestinationZip:  "32803",
		ServiceMode:     "truck_and_mover",
		MoveServiceMode: "labor_only",
	}, 99)
	require.NoError(t, err)
	assert.Equal(t, domain.ModeTruckAndMover, got.ServiceMode)

	_, err = ParseMoveQuoteRequest(MoveQuoteRequest{
		PickupZip:       "32801",
		DestinationZip:  "32803",
		MoveServiceMode: "rocket",
	}, 99)
	var verr *domain.ClientInputError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "serviceMode")
}
