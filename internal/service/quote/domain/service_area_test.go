package domain

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrlandoServiceArea(t *testing.T) {
	area := OrlandoServiceArea()

	c, ok := area.Resolve("32801")
	require.True(t, ok)
	assert.Equal(t, Coordinate{28.5421, -81.3790}, c)

	assert.True(t, area.IsSupported("32803"))
	assert.False(t, area.IsSupported("99999"))
	assert.False(t, area.IsSupported("3280"))
	assert.False(t, area.IsSupported("328011"))
	assert.False(t, area.IsSupported(""))

	zips := area.Zips()
	assert.True(t, sort.StringsAreSorted(zips))
	assert.Contains(t, zips, "32801")
	assert.Equal(t, "Orlando Metro Area", area.Label())

	// 返回的是副本
	zips[0] = "00000"
	assert.NotEqual(t, "00000", area.Zips()[0])
}

func TestNewStaticServiceArea_LaterDuplicateWins(t *testing.T) {
	area := NewStaticServiceArea("test", []ServiceAreaEntry{
		{"10001", Coordinate{1, 1}},
		{"10001", Coordinate{2, 2}},
	})
	c, ok := area.Resolve("10001")
	require.True(t, ok)
	assert.Equal(t, Coordinate{2, 2}, c)
	assert.Len(t, area.Zips(), 1)
}
