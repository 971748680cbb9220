package server

import (
	"math"
	"math/rand"

	"tacstrike/server/stats"
)

const (
	mainConeHalfAngle       = mainConeHalfAngleDeg * degToRad
	peripheralConeHalfAngle = peripheralConeHalfAngleDeg * degToRad
)

// detectionResult captures one observer->target decision for the combat
// resolver.
type detectionResult struct {
	observer *soldierState
	target   *soldierState
}

// runDetection decides, for every observer/target pair in fixed order, whether
// the observer currently perceives the target. Iteration order is fixed
// (attackers 0-4 then defenders 0-4, targets likewise) because each
// probability roll consumes one value from the match stream.
func runDetection(units []*soldierState, walls []Wall, effects *effectManager, rng *rand.Rand) []detectionResult {
	var results []detectionResult

	for _, observer := range units {
		for _, target := range units {
			if observer.Team == target.Team {
				continue
			}
			if detectTarget(observer, target, walls, effects, rng) {
				observer.detected[target.ID] = struct{}{}
				results = append(results, detectionResult{observer: observer, target: target})
			} else {
				delete(observer.detected, target.ID)
			}
		}
	}

	for _, unit := range units {
		faceNearestContact(unit, units)
	}

	return results
}

// detectTarget runs the staged pipeline: liveness, range, cone, line of
// sight, then a probability roll. A previously detected target stays
// detected without a roll while line of sight holds inside 1.2x the
// effective radius, which damps per-tick flicker.
func detectTarget(observer, target *soldierState, walls []Wall, effects *effectManager, rng *rand.Rand) bool {
	if !observer.Alive || !target.Alive || observer.Blinded {
		return false
	}

	dist := distance(observer.Position, target.Position)
	effectiveRadius := stats.EffectiveDetectionRadius(observer.attributes, target.attributes)

	_, wasDetected := observer.detected[target.ID]
	losClear := segmentClearOfWalls(observer.Position, target.Position, walls) &&
		!effects.smokeBlocksSegment(observer.Position, target.Position)

	if wasDetected && losClear && dist <= effectiveRadius*stickyRadiusFactor {
		return true
	}

	if dist > effectiveRadius {
		return false
	}

	angleOff := math.Abs(wrapAngle(bearing(observer.Position, target.Position) - observer.Facing))
	if angleOff > peripheralConeHalfAngle {
		return false
	}
	peripheralOnly := angleOff > mainConeHalfAngle

	if !losClear {
		return false
	}

	chance := stats.DetectionChance(dist, effectiveRadius, peripheralOnly)
	return rng.Float64() < chance
}

// faceNearestContact turns an idle unit toward its closest detected enemy.
func faceNearestContact(unit *soldierState, units []*soldierState) {
	if !unit.Alive || unit.isMoving() || len(unit.detected) == 0 {
		return
	}
	var nearest *soldierState
	nearestDist := math.MaxFloat64
	for _, other := range units {
		if _, ok := unit.detected[other.ID]; !ok {
			continue
		}
		if !other.Alive {
			continue
		}
		if d := distance(unit.Position, other.Position); d < nearestDist {
			nearest = other
			nearestDist = d
		}
	}
	if nearest != nil {
		unit.Facing = bearing(unit.Position, nearest.Position)
	}
}
