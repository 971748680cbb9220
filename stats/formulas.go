package stats

import "math"

// Formula tuning values. Deliberately flat curves: every attribute point has
// a visible, explainable effect on the derived number.
const (
	baseMoveSpeed         = 120.0
	speedMoveScalar       = 1.2
	conditioningScalar    = 0.3
	baseDetectionRadius   = 300.0
	awarenessRadiusScalar = 3.0
	stealthRadiusScalar   = 0.004
	baseHitChance         = 0.35
	accuracyHitScalar     = 0.0045
	distanceHitFalloff    = 0.35
	movingHitPenalty      = 0.75
	reactionFirstShotMax  = 0.1
	sprayPenaltyPerShot   = 0.06
	recoilRecoveryScalar  = 0.0004
	composureFloor        = 0.7
	clutchBonusScalar     = 0.003
	teamworkBonusScalar   = 0.0015
)

// MoveSpeed returns world units per second for a soldier at full stride.
func MoveSpeed(b Bundle) float64 {
	return baseMoveSpeed + b.Get(StatSpeed)*speedMoveScalar + b.Get(StatConditioning)*conditioningScalar
}

// DetectionRadius is how far the observer can notice enemies at all.
func DetectionRadius(b Bundle) float64 {
	return baseDetectionRadius + b.Get(StatAwareness)*awarenessRadiusScalar
}

// StealthModifier scales an observer's effective radius down based on the
// target's stealth. Always in (0, 1].
func StealthModifier(b Bundle) float64 {
	return clamp(1-b.Get(StatStealth)*stealthRadiusScalar, 0.5, 1)
}

// FinalHitChance combines shooter accuracy, range falloff, movement penalty,
// and the weapon's own accuracy modifier. Callers layer spray, composure,
// clutch, and teamwork on top and clamp the product.
func FinalHitChance(b Bundle, dist, weaponRange float64, isMoving bool, weaponAccuracy float64) float64 {
	chance := baseHitChance + b.Get(StatAccuracy)*accuracyHitScalar
	if weaponRange > 0 {
		falloff := clamp(dist/weaponRange, 0, 1)
		chance *= 1 - distanceHitFalloff*falloff
	}
	if isMoving {
		chance *= movingHitPenalty
	}
	return chance * weaponAccuracy
}

// FirstShotBonus rewards reaction on the opening shot of an engagement.
func FirstShotBonus(b Bundle) float64 {
	return 1 + reactionFirstShotMax*b.Get(StatReaction)/100
}

// SprayPenalty degrades accuracy for consecutive shots; recoil control
// claws back part of the per-shot penalty.
func SprayPenalty(b Bundle, shotsFired int) float64 {
	if shotsFired <= 1 {
		return 1
	}
	perShot := sprayPenaltyPerShot - b.Get(StatRecoilControl)*recoilRecoveryScalar
	penalty := 1 - perShot*float64(shotsFired-1)
	return clamp(penalty, 0.4, 1)
}

// ComposureModifier models pressure: low health and being outnumbered erode
// aim, high composure resists the erosion.
func ComposureModifier(b Bundle, healthFrac float64, enemiesDetected, alliesAlive int) float64 {
	pressure := (1 - clamp(healthFrac, 0, 1)) * 0.2
	if enemiesDetected > 1 {
		pressure += 0.05 * float64(enemiesDetected-1)
	}
	if alliesAlive == 0 {
		pressure += 0.1
	}
	resist := b.Get(StatComposure) / 100
	return clamp(1-pressure*(1-resist), composureFloor, 1)
}

// ClutchModifier applies only when the shooter is the last one standing.
func ClutchModifier(b Bundle, alliesAlive int) float64 {
	if alliesAlive > 0 {
		return 1
	}
	return 1 + b.Get(StatClutch)*clutchBonusScalar
}

// TeamworkModifier rewards fighting next to a living ally.
func TeamworkModifier(b Bundle, allyNearby bool) float64 {
	if !allyNearby {
		return 1
	}
	return 1 + b.Get(StatTeamwork)*teamworkBonusScalar
}

// EffectiveDetectionRadius is the observer radius scaled by target stealth.
func EffectiveDetectionRadius(observer, target Bundle) float64 {
	return DetectionRadius(observer) * StealthModifier(target)
}

// DetectionChance is the per-tick probability gate once range, cone, and
// line of sight have all passed. peripheral halves the chance.
func DetectionChance(dist, effectiveRadius float64, peripheral bool) float64 {
	if effectiveRadius <= 0 {
		return 0
	}
	chance := 0.6 * (1 - 0.4*clamp(dist/effectiveRadius, 0, 1))
	if peripheral {
		chance *= 0.5
	}
	return chance
}

// Rating condenses a bundle into a single display number.
func Rating(b Bundle) float64 {
	total := 0.0
	for id := StatID(0); id < StatCount; id++ {
		total += b.Get(id)
	}
	return math.Round(total/float64(StatCount)*10) / 10
}
