package domain

import "math"

// EarthRadiusMiles 是 Haversine 计算使用的地球半径。
const EarthRadiusMiles = 3958.8

// Coordinate is a latitude/longitude pair in decimal degrees.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Distance returns the great-circle distance between a and b in miles,
// rounded to one decimal place. Every distance-dependent calculator in the
// engine goes through this function.
func Distance(a, b Coordinate) float64 {
	dLat := radians(b.Lat - a.Lat)
	dLng := radians(b.Lng - a.Lng)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(radians(a.Lat))*math.Cos(radians(b.Lat))*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return roundTo(EarthRadiusMiles*c, 1)
}

// RoundHalfMile rounds miles to the nearest 0.5.
func RoundHalfMile(miles float64) float64 {
	return math.Round(miles*2) / 2
}

// RoundCents rounds a dollar amount to two decimals.
func RoundCents(amount float64) float64 {
	return roundTo(amount, 2)
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
