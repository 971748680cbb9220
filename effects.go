package server

import "fmt"

// UtilityKind enumerates throwable utility.
type UtilityKind string

const (
	UtilitySmoke   UtilityKind = "smoke"
	UtilityFlash   UtilityKind = "flash"
	UtilityFrag    UtilityKind = "frag"
	UtilityMolotov UtilityKind = "molotov"
	UtilityDecoy   UtilityKind = "decoy"
)

// UtilitySpec fixes the area and lifetime for one utility kind.
type UtilitySpec struct {
	Kind      UtilityKind `json:"kind"`
	Radius    float64     `json:"radius"`
	Duration  float64     `json:"duration"`
	MaxDamage float64     `json:"maxDamage,omitempty"` // frag only
	DPS       float64     `json:"dps,omitempty"`       // molotov only
	Price     int         `json:"price"`
}

var utilityCatalog = map[UtilityKind]UtilitySpec{
	UtilitySmoke:   {Kind: UtilitySmoke, Radius: 140, Duration: 15, Price: 300},
	UtilityFlash:   {Kind: UtilityFlash, Radius: 180, Duration: 3, Price: 200},
	UtilityFrag:    {Kind: UtilityFrag, Radius: 160, Duration: 0.5, MaxDamage: 80, Price: 300},
	UtilityMolotov: {Kind: UtilityMolotov, Radius: 130, Duration: 7, DPS: 15, Price: 400},
	UtilityDecoy:   {Kind: UtilityDecoy, Radius: 100, Duration: 10, Price: 50},
}

func utilitySpec(kind UtilityKind) (UtilitySpec, bool) {
	spec, ok := utilityCatalog[kind]
	return spec, ok
}

// UtilityEffect is one live area effect.
type UtilityEffect struct {
	ID        string      `json:"id"`
	Kind      UtilityKind `json:"kind"`
	Center    vec2        `json:"center"`
	Radius    float64     `json:"radius"`
	Remaining float64     `json:"remaining"`
	Total     float64     `json:"total"`
	OwnerID   string      `json:"owner"`
	OwnerTeam Team        `json:"ownerTeam"`

	instantApplied bool
}

// effectManager tracks live utility effects for one match instance. The id
// counter is a field, never package state, so concurrent matches stay
// independent.
type effectManager struct {
	active       []*UtilityEffect
	nextEffectID uint64
}

func newEffectManager() *effectManager {
	return &effectManager{active: make([]*UtilityEffect, 0)}
}

// Throw spawns an effect at the landing position. Unknown kinds are ignored
// and reported by the boolean.
func (m *effectManager) Throw(kind UtilityKind, at vec2, owner string, ownerTeam Team) (*UtilityEffect, bool) {
	spec, ok := utilitySpec(kind)
	if !ok {
		return nil, false
	}
	m.nextEffectID++
	effect := &UtilityEffect{
		ID:        fmt.Sprintf("effect-%d", m.nextEffectID),
		Kind:      kind,
		Center:    at,
		Radius:    spec.Radius,
		Remaining: spec.Duration,
		Total:     spec.Duration,
		OwnerID:   owner,
		OwnerTeam: ownerTeam,
	}
	m.active = append(m.active, effect)
	return effect, true
}

// utilityCasualty records a death dealt by an area effect this tick.
type utilityCasualty struct {
	victim *soldierState
	effect *UtilityEffect
}

// Advance applies one tick of every live effect to the units and expires
// finished effects. Instant components (frag damage, flash blind) run exactly
// once, on the effect's first tick.
func (m *effectManager) Advance(dt float64, units []*soldierState) []utilityCasualty {
	var casualties []utilityCasualty

	for _, effect := range m.active {
		if !effect.instantApplied {
			effect.instantApplied = true
			switch effect.Kind {
			case UtilityFrag:
				casualties = append(casualties, m.applyFrag(effect, units)...)
			case UtilityFlash:
				m.applyFlash(effect, units)
			}
		}
		if effect.Kind == UtilityMolotov {
			casualties = append(casualties, m.applyMolotov(effect, dt, units)...)
		}
		effect.Remaining -= dt
	}

	remaining := m.active[:0]
	for _, effect := range m.active {
		if effect.Remaining > 0 {
			remaining = append(remaining, effect)
		}
	}
	m.active = remaining

	return casualties
}

// applyFrag deals distance-scaled damage to every unit inside the radius.
// The thrower takes half of what an equidistant victim would.
func (m *effectManager) applyFrag(effect *UtilityEffect, units []*soldierState) []utilityCasualty {
	spec, _ := utilitySpec(UtilityFrag)
	var casualties []utilityCasualty
	for _, unit := range units {
		if !unit.Alive {
			continue
		}
		dist := distance(unit.Position, effect.Center)
		if dist > effect.Radius {
			continue
		}
		damage := spec.MaxDamage * (1 - dist/effect.Radius)
		if unit.ID == effect.OwnerID {
			damage *= 0.5
		}
		if damage <= 0 {
			continue
		}
		unit.interruptObjective()
		if unit.applyDamage(damage) {
			casualties = append(casualties, utilityCasualty{victim: unit, effect: effect})
		}
	}
	return casualties
}

// applyFlash blinds every non-thrower unit in the radius; closer units stay
// blind longer. Blinded units lose their current contacts.
func (m *effectManager) applyFlash(effect *UtilityEffect, units []*soldierState) {
	for _, unit := range units {
		if !unit.Alive || unit.ID == effect.OwnerID {
			continue
		}
		dist := distance(unit.Position, effect.Center)
		if dist > effect.Radius {
			continue
		}
		duration := effect.Total * (0.5 + 0.5*(1-dist/effect.Radius))
		if duration > unit.blindRemaining {
			unit.blindRemaining = duration
		}
		unit.Blinded = true
		for id := range unit.detected {
			delete(unit.detected, id)
		}
	}
}

func (m *effectManager) applyMolotov(effect *UtilityEffect, dt float64, units []*soldierState) []utilityCasualty {
	spec, _ := utilitySpec(UtilityMolotov)
	var casualties []utilityCasualty
	for _, unit := range units {
		if !unit.Alive {
			continue
		}
		if distance(unit.Position, effect.Center) > effect.Radius {
			continue
		}
		unit.interruptObjective()
		if unit.applyDamage(spec.DPS * dt) {
			casualties = append(casualties, utilityCasualty{victim: unit, effect: effect})
		}
	}
	return casualties
}

// smokeBlocksSegment reports whether any live smoke cloud sits close enough
// to the sight line to break it. Proximity to the cloud center stands in for
// strict occlusion.
func (m *effectManager) smokeBlocksSegment(a, b vec2) bool {
	for _, effect := range m.active {
		if effect.Kind != UtilitySmoke {
			continue
		}
		if pointSegmentDistance(effect.Center, a, b) <= effect.Radius {
			return true
		}
	}
	return false
}

// Snapshot copies live effects for broadcast.
func (m *effectManager) Snapshot() []UtilityEffect {
	out := make([]UtilityEffect, 0, len(m.active))
	for _, effect := range m.active {
		out = append(out, *effect)
	}
	return out
}

// Reset clears live effects at a round boundary. The id counter keeps
// counting so effect ids stay unique across a match.
func (m *effectManager) Reset() {
	m.active = m.active[:0]
}
