package server

// bombController owns the plant/defuse objective for one match instance.
type bombController struct {
	mapDef *MapDef

	Planted     bool    `json:"planted"`
	Defused     bool    `json:"defused"`
	Exploded    bool    `json:"exploded"`
	Position    vec2    `json:"position"`
	Site        string  `json:"site"`
	TimerRemain float64 `json:"timerRemain"`
}

func newBombController(mapDef *MapDef) *bombController {
	return &bombController{mapDef: mapDef}
}

// isInPlantZone is a pure zone membership test; false for points outside
// every plant sub-zone.
func (b *bombController) isInPlantZone(pos vec2) bool {
	_, ok := b.mapDef.plantZoneAt(pos)
	return ok
}

// isInDefuseRange is a pure radius test around the planted bomb.
func (b *bombController) isInDefuseRange(pos vec2) bool {
	if !b.Planted {
		return false
	}
	return distance(pos, b.Position) <= defuseRange
}

// advancePlant accumulates plant progress for the carrier. The unit must hold
// the plant action continuously inside a plant zone; breaking either resets
// progress to zero. Returns true on the tick the bomb becomes planted.
func (b *bombController) advancePlant(unit *soldierState, dt float64) bool {
	if b.Planted || !unit.Alive || !unit.HasBomb {
		return false
	}
	if !unit.planting || !b.isInPlantZone(unit.Position) {
		unit.planting = false
		unit.PlantProgress = 0
		return false
	}

	unit.PlantProgress += dt
	if unit.PlantProgress < plantDuration {
		return false
	}

	b.Planted = true
	b.Position = unit.Position
	b.Site, _ = b.mapDef.siteAt(unit.Position)
	b.TimerRemain = bombTimerSeconds
	unit.HasBomb = false
	unit.planting = false
	unit.PlantProgress = 0
	return true
}

// advanceDefuse mirrors advancePlant with range gating instead of zone
// gating. A defuse kit shortens the required hold. Returns true on the tick
// the bomb becomes defused.
func (b *bombController) advanceDefuse(unit *soldierState, dt float64) bool {
	if !b.Planted || b.Defused || b.Exploded || !unit.Alive {
		return false
	}
	if !unit.defusing || !b.isInDefuseRange(unit.Position) {
		unit.defusing = false
		unit.defuseProgress = 0
		return false
	}

	required := defuseDuration
	if unit.DefuseKit {
		required = defuseKitDuration
	}

	unit.defuseProgress += dt
	if unit.defuseProgress < required {
		return false
	}

	b.Defused = true
	unit.defusing = false
	unit.defuseProgress = 0
	return true
}

// advanceTimer burns the fuse once planted. Returns true on the tick the
// bomb detonates. The timer is clamped, never negative.
func (b *bombController) advanceTimer(dt float64) bool {
	if !b.Planted || b.Defused || b.Exploded {
		return false
	}
	b.TimerRemain -= dt
	if b.TimerRemain > 0 {
		return false
	}
	b.TimerRemain = 0
	b.Exploded = true
	return true
}

// explosionDamage applies distance-scaled detonation damage to every living
// unit inside the blast radius.
func (b *bombController) explosionDamage(units []*soldierState) []string {
	var killed []string
	for _, unit := range units {
		if !unit.Alive {
			continue
		}
		dist := distance(unit.Position, b.Position)
		if dist > bombExplosionRadius {
			continue
		}
		damage := bombMaxDamage * (1 - dist/bombExplosionRadius)
		if unit.applyDamage(damage) {
			killed = append(killed, unit.ID)
		}
	}
	return killed
}

// resetForRound rearms the objective and hands the bomb to the given carrier.
func (b *bombController) resetForRound(carrier *soldierState) {
	b.Planted = false
	b.Defused = false
	b.Exploded = false
	b.Position = vec2{}
	b.Site = ""
	b.TimerRemain = 0
	if carrier != nil {
		carrier.HasBomb = true
	}
}
