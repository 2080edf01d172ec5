package personalize

// RegionName identifies one of the three narrative thirds of the source.
type RegionName int

const (
	Early RegionName = iota
	Middle
	Late

	regionCount = 3
)

func (n RegionName) String() string {
	switch n {
	case Early:
		return "early"
	case Middle:
		return "middle"
	case Late:
		return "late"
	}
	return "unknown"
}

// Region groups the ranked scenes that fall into one narrative third,
// together with that third's duration quota.
type Region struct {
	Name    RegionName
	Quota   float64
	Members []RankedScene
}

// Regions is the total, disjoint partition of a ranked catalog. The key set
// is closed, so a fixed-size array replaces a keyed map.
type Regions [regionCount]Region

// regionOf maps a normalized start position to its narrative third.
func regionOf(normalizedStart float64) RegionName {
	switch {
	case normalizedStart < 1.0/3.0:
		return Early
	case normalizedStart < 2.0/3.0:
		return Middle
	default:
		return Late
	}
}

// partition splits ranked scenes into regions. Members keep the ranking
// order (score descending) of the input slice.
func partition(ranked []RankedScene) Regions {
	var regions Regions
	for i := range regions {
		regions[i].Name = RegionName(i)
	}
	for _, rs := range ranked {
		name := regionOf(rs.NormalizedStart)
		regions[name].Members = append(regions[name].Members, rs)
	}
	return regions
}
