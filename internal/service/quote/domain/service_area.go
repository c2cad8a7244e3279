package domain

import "sort"

// ServiceArea 是服务区域注册表的只读视图。
// 计算器只依赖这个接口，测试时可以替换成假的注册表。
type ServiceArea interface {
	// Resolve returns the coordinate for zip, or false when the zip is outside the area.
	Resolve(zip string) (Coordinate, bool)
	// IsSupported reports whether zip is inside the area.
	IsSupported(zip string) bool
	// Zips returns every supported zip code in ascending order.
	Zips() []string
	// Label is a human-readable name for the region.
	Label() string
}

// ServiceAreaEntry binds a zip code to its centroid.
type ServiceAreaEntry struct {
	Zip        string
	Coordinate Coordinate
}

// StaticServiceArea is an immutable in-process ServiceArea.
type StaticServiceArea struct {
	label  string
	coords map[string]Coordinate
	zips   []string
}

// NewStaticServiceArea builds a registry from entries. Later duplicates win.
func NewStaticServiceArea(label string, entries []ServiceAreaEntry) *StaticServiceArea {
	coords := make(map[string]Coordinate, len(entries))
	for _, e := range entries {
		coords[e.Zip] = e.Coordinate
	}
	zips := make([]string, 0, len(coords))
	for zip := range coords {
		zips = append(zips, zip)
	}
	sort.Strings(zips)

	return &StaticServiceArea{label: label, coords: coords, zips: zips}
}

func (s *StaticServiceArea) Resolve(zip string) (Coordinate, bool) {
	if len(zip) != 5 {
		return Coordinate{}, false
	}
	c, ok := s.coords[zip]
	return c, ok
}

func (s *StaticServiceArea) IsSupported(zip string) bool {
	_, ok := s.Resolve(zip)
	return ok
}

func (s *StaticServiceArea) Zips() []string {
	out := make([]string, len(s.zips))
	copy(out, s.zips)
	return out
}

func (s *StaticServiceArea) Label() string {
	return s.label
}

// OrlandoServiceArea returns the registry for the Orlando metro operating region
// (Orange, Seminole and Osceola counties plus the western Lake County edge).
func OrlandoServiceArea() *StaticServiceArea {
	return NewStaticServiceArea("Orlando Metro Area", orlandoZips)
}

var orlandoZips = []ServiceAreaEntry{
	// Orlando
	{"32801", Coordinate{28.5421, -81.3790}},
	{"32803", Coordinate{28.5559, -81.3535}},
	{"32804", Coordinate{28.5770, -81.3960}},
	{"32805", Coordinate{28.5300, -81.4040}},
	{"32806", Coordinate{28.5110, -81.3590}},
	{"32807", Coordinate{28.5510, -81.3000}},
	{"32808", Coordinate{28.5800, -81.4420}},
	{"32809", Coordinate{28.4640, -81.3880}},
	{"32810", Coordinate{28.6210, -81.4290}},
	{"32811", Coordinate{28.4960, -81.4570}},
	{"32812", Coordinate{28.4990, -81.3280}},
	{"32814", Coordinate{28.5700, -81.3270}},
	{"32817", Coordinate{28.5890, -81.2450}},
	{"32818", Coordinate{28.5850, -81.4860}},
	{"32819", Coordinate{28.4520, -81.4720}},
	{"32820", Coordinate{28.5720, -81.1220}},
	{"32821", Coordinate{28.3960, -81.4800}},
	{"32822", Coordinate{28.4890, -81.2900}},
	{"32824", Coordinate{28.3930, -81.3490}},
	{"32825", Coordinate{28.5470, -81.2440}},
	{"32826", Coordinate{28.5830, -81.1900}},
	{"32827", Coordinate{28.4320, -81.3430}},
	{"32828", Coordinate{28.5230, -81.1730}},
	{"32829", Coordinate{28.4840, -81.2450}},
	{"32832", Coordinate{28.3970, -81.1890}},
	{"32835", Coordinate{28.5210, -81.4840}},
	{"32836", Coordinate{28.4150, -81.5200}},
	{"32837", Coordinate{28.3800, -81.4150}},
	{"32839", Coordinate{28.4870, -81.4080}},
	// Winter Park, Maitland, Apopka
	{"32789", Coordinate{28.5990, -81.3450}},
	{"32792", Coordinate{28.5970, -81.3020}},
	{"32751", Coordinate{28.6280, -81.3630}},
	{"32703", Coordinate{28.6530, -81.4950}},
	// Seminole County
	{"32701", Coordinate{28.6660, -81.3650}},
	{"32765", Coordinate{28.6660, -81.2000}},
	{"32771", Coordinate{28.8010, -81.3050}},
	{"32746", Coordinate{28.7580, -81.3500}},
	// Osceola County
	{"34741", Coordinate{28.3050, -81.4240}},
	{"34744", Coordinate{28.3070, -81.3680}},
	{"34746", Coordinate{28.2700, -81.5400}},
	// West Orange / Lake
	{"34761", Coordinate{28.5810, -81.5390}},
	{"34787", Coordinate{28.5400, -81.6000}},
	{"34711", Coordinate{28.5500, -81.7500}},
}
