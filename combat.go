package server

import (
	"math/rand"

	"tacstrike/server/stats"
)

// KillRecord is one entry in the per-round kill log.
type KillRecord struct {
	Tick       uint64   `json:"tick"`
	KillerID   string   `json:"killer"`
	KillerTeam Team     `json:"killerTeam"`
	VictimID   string   `json:"victim"`
	VictimTeam Team     `json:"victimTeam"`
	Weapon     WeaponID `json:"weapon"`
	Headshot   bool     `json:"headshot"`
}

// combatPair is one deduplicated engagement for a tick.
type combatPair struct {
	first  *soldierState // always a detector
	second *soldierState
	mutual bool
}

// pairEngagements dedupes observer->target detections by unordered pair so
// each pair resolves at most once per tick. One-sided detection keeps only
// the detector shooting (ambush).
func pairEngagements(detections []detectionResult) []combatPair {
	type pairKey struct{ a, b string }
	keyFor := func(x, y string) pairKey {
		if x < y {
			return pairKey{a: x, b: y}
		}
		return pairKey{a: y, b: x}
	}

	index := make(map[pairKey]int)
	pairs := make([]combatPair, 0, len(detections))
	for _, det := range detections {
		key := keyFor(det.observer.ID, det.target.ID)
		if at, ok := index[key]; ok {
			// Second direction of the same pair: the exchange is mutual.
			pairs[at].mutual = true
			continue
		}
		index[key] = len(pairs)
		pairs = append(pairs, combatPair{first: det.observer, second: det.target})
	}
	return pairs
}

// resolveCombat runs one shot exchange per engaged pair and returns the
// tick's kill records. A mutual pair exchanges in detector-first order and
// death is atomic: a party killed by the first shot does not return fire. A
// one-sided pair is an ambush and only the detector fires.
func resolveCombat(tick uint64, detections []detectionResult, units []*soldierState, rng *rand.Rand, events *[]Event) []KillRecord {
	pairs := pairEngagements(detections)

	var kills []KillRecord
	for _, pair := range pairs {
		kills = append(kills, fireShot(tick, pair.first, pair.second, units, rng, events)...)
		if pair.mutual {
			kills = append(kills, fireShot(tick, pair.second, pair.first, units, rng, events)...)
		}
	}

	// Units with no remaining contacts drop out of combat and recover their
	// spray pattern.
	for _, unit := range units {
		if len(unit.detected) == 0 {
			unit.InCombat = false
			unit.targetID = ""
			unit.shotsFired = 0
		}
	}

	return kills
}

// fireShot resolves a single shot from shooter at target: one hit roll, and
// on a hit one location roll, drawn from the match stream in that order.
func fireShot(tick uint64, shooter, target *soldierState, units []*soldierState, rng *rand.Rand, events *[]Event) []KillRecord {
	if !shooter.Alive || !target.Alive {
		// Resolving a pair with a dead party is a data-model bug upstream.
		return nil
	}

	shooter.InCombat = true
	shooter.targetID = target.ID
	shooter.shotsFired++

	chance := shotHitChance(shooter, target, units)

	*events = append(*events, newShotEvent(tick, shooter.ID, target.ID, shooter.Weapon))

	if rng.Float64() >= chance {
		return nil
	}

	location := rollHitLocation(rng, shooter.shotsFired > 1)
	damage := computeDamage(weaponSpec(shooter.Weapon), location, target.Armor, target.Helmet)

	target.interruptObjective()
	died := target.applyDamage(damage)

	*events = append(*events, newHitEvent(tick, shooter.ID, target.ID, location, damage, target.Health))

	if !died {
		return nil
	}

	kill := KillRecord{
		Tick:       tick,
		KillerID:   shooter.ID,
		KillerTeam: shooter.Team,
		VictimID:   target.ID,
		VictimTeam: target.Team,
		Weapon:     shooter.Weapon,
		Headshot:   location == HitHead,
	}
	*events = append(*events, newKillEvent(tick, kill))
	return []KillRecord{kill}
}

// shotHitChance runs the full accuracy pipeline for one shot and clamps the
// product to the engagement bounds.
func shotHitChance(shooter, target *soldierState, units []*soldierState) float64 {
	weapon := weaponSpec(shooter.Weapon)
	dist := distance(shooter.Position, target.Position)
	spraying := shooter.shotsFired > 1

	chance := stats.FinalHitChance(shooter.attributes, dist, weapon.Range, shooter.isMoving(), weapon.Accuracy)
	if spraying {
		chance *= stats.SprayPenalty(shooter.attributes, shooter.shotsFired)
	} else {
		chance *= stats.FirstShotBonus(shooter.attributes)
	}

	allies := countLivingAllies(shooter, units)
	chance *= stats.ComposureModifier(shooter.attributes, shooter.Health/100, len(shooter.detected), allies)
	chance *= stats.ClutchModifier(shooter.attributes, allies)
	chance *= stats.TeamworkModifier(shooter.attributes, allyWithinRadius(shooter, units, teamworkAllyRadius))

	return clamp(chance, hitChanceFloor, hitChanceCeiling)
}

// rollHitLocation picks head, body, or legs with one draw. Spraying halves
// the head window.
func rollHitLocation(rng *rand.Rand, spraying bool) HitLocation {
	headChance := headshotBaseChance
	if spraying {
		headChance *= sprayHeadshotFactor
	}
	roll := rng.Float64()
	switch {
	case roll < headChance:
		return HitHead
	case roll < headChance+legShotChance:
		return HitLegs
	default:
		return HitBody
	}
}

func countLivingAllies(unit *soldierState, units []*soldierState) int {
	count := 0
	for _, other := range units {
		if other.Team == unit.Team && other.ID != unit.ID && other.Alive {
			count++
		}
	}
	return count
}

func allyWithinRadius(unit *soldierState, units []*soldierState, radius float64) bool {
	for _, other := range units {
		if other.Team != unit.Team || other.ID == unit.ID || !other.Alive {
			continue
		}
		if distance(unit.Position, other.Position) <= radius {
			return true
		}
	}
	return false
}
