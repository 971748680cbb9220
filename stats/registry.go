package stats

// Archetype identifies a default attribute seed for freshly created rosters.
type Archetype uint8

const (
	ArchetypeRifler Archetype = iota
	ArchetypeEntry
	ArchetypeLurker
	ArchetypeSupport
	ArchetypeAnchor
)

var archetypeBase = map[Archetype]Bundle{
	ArchetypeRifler: {
		StatAccuracy: 68, StatReaction: 62, StatSpeed: 55, StatStealth: 40,
		StatAwareness: 60, StatRecoilControl: 64, StatComposure: 58,
		StatClutch: 50, StatTeamwork: 55, StatConditioning: 52,
	},
	ArchetypeEntry: {
		StatAccuracy: 58, StatReaction: 72, StatSpeed: 70, StatStealth: 30,
		StatAwareness: 52, StatRecoilControl: 55, StatComposure: 50,
		StatClutch: 45, StatTeamwork: 60, StatConditioning: 66,
	},
	ArchetypeLurker: {
		StatAccuracy: 60, StatReaction: 58, StatSpeed: 50, StatStealth: 75,
		StatAwareness: 68, StatRecoilControl: 52, StatComposure: 62,
		StatClutch: 66, StatTeamwork: 38, StatConditioning: 48,
	},
	ArchetypeSupport: {
		StatAccuracy: 54, StatReaction: 52, StatSpeed: 52, StatStealth: 45,
		StatAwareness: 64, StatRecoilControl: 50, StatComposure: 60,
		StatClutch: 42, StatTeamwork: 74, StatConditioning: 50,
	},
	ArchetypeAnchor: {
		StatAccuracy: 62, StatReaction: 55, StatSpeed: 45, StatStealth: 50,
		StatAwareness: 70, StatRecoilControl: 58, StatComposure: 68,
		StatClutch: 60, StatTeamwork: 48, StatConditioning: 44,
	},
}

// DefaultBundle returns a copy of the base values for the given archetype.
func DefaultBundle(archetype Archetype) Bundle {
	return archetypeBase[archetype]
}

// DefaultRoster returns one bundle per squad slot in a fixed order.
func DefaultRoster() [5]Bundle {
	return [5]Bundle{
		DefaultBundle(ArchetypeEntry),
		DefaultBundle(ArchetypeRifler),
		DefaultBundle(ArchetypeSupport),
		DefaultBundle(ArchetypeLurker),
		DefaultBundle(ArchetypeAnchor),
	}
}
