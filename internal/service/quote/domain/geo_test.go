package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistance(t *testing.T) {
	downtown := Coordinate{28.5421, -81.3790}
	thornton := Coordinate{28.5559, -81.3535}

	assert.Equal(t, 1.8, Distance(downtown, thornton))
	assert.Equal(t, 0.0, Distance(downtown, downtown))
}

func TestDistance_Symmetric(t *testing.T) {
	area := OrlandoServiceArea()
	zips := area.Zips()
	for i, a := range zips {
		for _, b := range zips[i+1:] {
			ca, _ := area.Resolve(a)
			cb, _ := area.Resolve(b)
			assert.Equal(t, Distance(ca, cb), Distance(cb, ca), "%s <-> %s", a, b)
		}
	}
}

func TestRounding(t *testing.T) {
	tests := []struct {
		in       float64
		halfMile float64
	}{
		{3.6, 3.5},
		{3.8, 4.0},
		{3.75, 4.0},
		{0.2, 0.0},
		{14.3, 14.5},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.halfMile, RoundHalfMile(tt.in), "RoundHalfMile(%v)", tt.in)
	}

	assert.Equal(t, 39.6, RoundCents(99*0.40))
	assert.Equal(t, 466.65, RoundCents(549*0.85))
}
