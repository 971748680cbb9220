package stats

// StatID enumerates the primary attributes carried by every soldier. The
// bundle is immutable for the lifetime of a match.
type StatID uint8

const (
	StatAccuracy StatID = iota
	StatReaction
	StatSpeed
	StatStealth
	StatAwareness
	StatRecoilControl
	StatComposure
	StatClutch
	StatTeamwork
	StatConditioning

	StatCount
)

// Bundle stores a fixed vector of attribute values, each roughly 1-100.
type Bundle [StatCount]float64

// Get returns the value for a stat, clamped to the supported range.
func (b Bundle) Get(id StatID) float64 {
	if id >= StatCount {
		return 0
	}
	return clamp(b[id], 1, 100)
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
