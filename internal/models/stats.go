package models

// Stat bounds.
const (
	MinStat = 0
	MaxStat = 100
)

// Stats are the three bounded survival values.
type Stats struct {
	Health     int `yaml:"health"`
	Sanity     int `yaml:"sanity"`
	Corruption int `yaml:"corruption"`
}

// NewStats returns the starting stats: full health and sanity, no corruption.
func NewStats() Stats {
	return Stats{Health: MaxStat, Sanity: MaxStat, Corruption: MinStat}
}

// Delta is a change to all three stats.
type Delta struct {
	Health     int `yaml:"health"`
	Sanity     int `yaml:"sanity"`
	Corruption int `yaml:"corruption"`
}

// Modify applies all three deltas and clamps each stat to [MinStat, MaxStat].
func (s Stats) Modify(d Delta) Stats {
	return Stats{
		Health:     clamp(s.Health + d.Health),
		Sanity:     clamp(s.Sanity + d.Sanity),
		Corruption: clamp(s.Corruption + d.Corruption),
	}
}

// Halve scales every component by 0.5, truncating toward zero.
func (d Delta) Halve() Delta {
	return Delta{Health: d.Health / 2, Sanity: d.Sanity / 2, Corruption: d.Corruption / 2}
}

// Amplify scales every component by 1.5, truncating toward zero.
func (d Delta) Amplify() Delta {
	return Delta{Health: d.Health * 3 / 2, Sanity: d.Sanity * 3 / 2, Corruption: d.Corruption * 3 / 2}
}

func clamp(v int) int {
	return max(MinStat, min(MaxStat, v))
}
