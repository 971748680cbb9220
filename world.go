package server

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"tacstrike/server/logging"
	"tacstrike/server/stats"
)

// Phase enumerates the match state machine.
type Phase string

const (
	PhaseBuy       Phase = "buy"
	PhaseStrategy  Phase = "strategy"
	PhaseLive      Phase = "live"
	PhasePostPlant Phase = "postPlant"
	PhaseRoundEnd  Phase = "roundEnd"
	PhaseMatchEnd  Phase = "matchEnd"
)

// MatchConfig carries everything needed to construct one match instance.
type MatchConfig struct {
	Seed      string
	Map       *MapDef
	Publisher logging.Publisher
}

// StepOutput is what one tick hands to transport and history collaborators.
type StepOutput struct {
	Tick           uint64
	Phase          Phase
	Events         []Event
	Kills          []KillRecord
	RoundEnded     *RoundResult
	EconomyUpdates []*EconomyUpdate
	MatchEnded     bool
}

// World owns the authoritative state of one match. All mutation happens
// inside Advance; the only shared read-only pieces are the map and nav grid.
type World struct {
	mapDef    *MapDef
	grid      *navGrid
	seed      string
	publisher logging.Publisher

	// rng is the match stream. It is drawn from only inside Advance, in
	// sub-step order (detection, then hit, then location rolls), so a seed
	// plus a command stream replays to an identical match.
	rng *rand.Rand

	commands *commandQueue
	effects  *effectManager
	bomb     *bombController

	units     []*soldierState // attackers 0-4, then defenders 0-4
	unitsByID map[string]*soldierState

	rosterBundles [2][teamSize]stats.Bundle

	phase       Phase
	phaseRemain float64
	currentTick uint64
	elapsed     float64
	roundTime   float64

	round    int
	swapped  bool
	overtime bool

	killLog   []KillRecord
	score     [2]int         // indexed by roster, not side
	economies [2]TeamEconomy // indexed by roster
	results   []RoundResult

	matchWinner *int // roster index
}

// NewWorld validates the map, derives the nav grid, and starts round one.
func NewWorld(cfg MatchConfig) (*World, error) {
	mapDef := cfg.Map
	if mapDef == nil {
		mapDef = DefaultMap()
	}
	if err := mapDef.Validate(); err != nil {
		return nil, fmt.Errorf("invalid map: %w", err)
	}
	seed := cfg.Seed
	if seed == "" {
		seed = defaultMatchSeed
	}
	publisher := cfg.Publisher
	if publisher == nil {
		publisher = logging.NopPublisher()
	}

	w := &World{
		mapDef:    mapDef,
		grid:      newNavGrid(mapDef),
		seed:      seed,
		publisher: publisher,
		rng:       newDeterministicRNG(seed, "match"),
		commands:  newCommandQueue(seed),
		effects:   newEffectManager(),
		bomb:      newBombController(mapDef),
		unitsByID: make(map[string]*soldierState),
		economies: [2]TeamEconomy{newTeamEconomy(), newTeamEconomy()},
	}
	w.rosterBundles[0] = stats.DefaultRoster()
	w.rosterBundles[1] = stats.DefaultRoster()
	w.startRound()
	return w, nil
}

// rosterOfSide maps a current side to the persistent roster index; the
// mapping flips at the half-time swap.
func (w *World) rosterOfSide(side Team) int {
	if !w.swapped {
		return int(side)
	}
	return 1 - int(side)
}

func (w *World) sideOfRoster(roster int) Team {
	if !w.swapped {
		return Team(roster)
	}
	return Team(1 - roster)
}

func (w *World) unitAt(side Team, index int) *soldierState {
	if index < 0 || index >= teamSize {
		return nil
	}
	return w.unitsByID[soldierID(side, index)]
}

// startRound rebuilds unit state at the spawns and rearms the objective.
// Equipment persists for units that survived the previous round; a swap or a
// death resets to the default loadout.
func (w *World) startRound() {
	w.round++
	freshRoster := w.round == 1 || w.justSwapped()

	attackerSpawns := w.mapDef.AttackerSpawn.spawnPositions()
	defenderSpawns := w.mapDef.DefenderSpawn.spawnPositions()

	for _, side := range []Team{TeamAttackers, TeamDefenders} {
		roster := w.rosterOfSide(side)
		for index := 0; index < teamSize; index++ {
			pos := attackerSpawns[index]
			facing := bearing(pos, w.mapDef.DefenderSpawn.center())
			if side == TeamDefenders {
				pos = defenderSpawns[index]
				facing = bearing(pos, w.mapDef.AttackerSpawn.center())
			}

			unit := w.unitAt(side, index)
			if unit == nil || freshRoster {
				unit = newSoldierState(side, index, w.rosterBundles[roster][index], pos, facing)
				w.unitsByID[unit.ID] = unit
			} else {
				keepEquipment := unit.Alive
				unit.resetForRound(pos, facing, keepEquipment)
			}
		}
	}

	w.units = w.units[:0]
	for _, side := range []Team{TeamAttackers, TeamDefenders} {
		for index := 0; index < teamSize; index++ {
			w.units = append(w.units, w.unitAt(side, index))
		}
	}

	w.bomb.resetForRound(w.unitAt(TeamAttackers, 0))
	w.effects.Reset()
	w.commands.Reset()
	w.killLog = nil
	w.roundTime = 0
	w.phase = PhaseBuy
	w.phaseRemain = buyPhaseSeconds

	logging.RoundStarted(context.Background(), w.publisher, w.currentTick, w.round, w.seed)
}

// justSwapped reports whether the upcoming round is the first after the
// half-time side switch.
func (w *World) justSwapped() bool {
	return w.swapped && w.round == roundsBeforeSwap+1
}

// IssueCommand buffers a player order behind the radio delay. It returns
// false when the unit is cooling down, dead, unknown, or the match is over.
func (w *World) IssueCommand(cmd Command) bool {
	if w.phase == PhaseMatchEnd || w.phase == PhaseRoundEnd {
		return false
	}
	unit := w.unitAt(cmd.Team, cmd.UnitIndex)
	if unit == nil || !unit.Alive {
		return false
	}
	return w.commands.Issue(cmd, w.elapsed, unit.InCombat)
}

// Buy applies a buy-phase purchase for one unit from the side's shared bank.
func (w *World) Buy(side Team, index int, item string) bool {
	if w.phase != PhaseBuy {
		return false
	}
	unit := w.unitAt(side, index)
	if unit == nil {
		return false
	}
	economy := &w.economies[w.rosterOfSide(side)]

	if spec, ok := weaponCatalog[WeaponID(item)]; ok {
		if !economy.Spend(spec.Price) {
			return false
		}
		unit.Weapon = spec.ID
		return true
	}
	if spec, ok := utilitySpec(UtilityKind(item)); ok {
		if !economy.Spend(spec.Price) {
			return false
		}
		unit.Utility = append(unit.Utility, spec.Kind)
		return true
	}
	switch item {
	case "armorLight":
		if !economy.Spend(armorLightPrice) {
			return false
		}
		unit.Armor = ArmorLight
		return true
	case "armorHeavy":
		if !economy.Spend(armorHeavyPrice) {
			return false
		}
		unit.Armor = ArmorHeavy
		return true
	case "helmet":
		if !economy.Spend(helmetPrice) {
			return false
		}
		unit.Helmet = true
		return true
	case "defuseKit":
		if side != TeamDefenders || !economy.Spend(defuseKitPrice) {
			return false
		}
		unit.DefuseKit = true
		return true
	}
	return false
}

// Advance moves the match forward one fixed step. All sub-steps run
// sequentially; round transitions only ever happen here, at a tick boundary.
func (w *World) Advance(dt float64) StepOutput {
	if dt <= 0 {
		dt = tickInterval.Seconds()
	}

	w.currentTick++
	w.elapsed += dt

	output := StepOutput{Tick: w.currentTick, Phase: w.phase}

	switch w.phase {
	case PhaseMatchEnd:
		return output
	case PhaseBuy:
		w.phaseRemain -= dt
		if w.phaseRemain <= 0 {
			w.phase = PhaseStrategy
			w.phaseRemain = strategySeconds
		}
	case PhaseStrategy:
		w.phaseRemain -= dt
		if w.phaseRemain <= 0 {
			w.phase = PhaseLive
		}
	case PhaseRoundEnd:
		w.phaseRemain -= dt
		if w.phaseRemain <= 0 {
			w.startRound()
		}
	case PhaseLive, PhasePostPlant:
		w.step(dt, &output)
	}

	output.Phase = w.phase
	return output
}

// step runs the per-tick simulation pipeline in its fixed order.
func (w *World) step(dt float64, output *StepOutput) {
	w.roundTime += dt
	tick := w.currentTick

	// 1. Execute commands whose radio delay has elapsed.
	for _, cmd := range w.commands.DrainReady(w.elapsed) {
		w.executeCommand(cmd, tick, output)
	}

	// 2. Movement along waypoints.
	for _, unit := range w.units {
		w.advanceMovement(unit, dt)
	}

	// 3. Detection both directions, fixed pair order.
	detections := runDetection(w.units, w.mapDef.Walls, w.effects, w.rng)

	// 4. Combat resolution.
	kills := resolveCombat(tick, detections, w.units, w.rng, &output.Events)
	w.killLog = append(w.killLog, kills...)
	output.Kills = append(output.Kills, kills...)
	for _, kill := range kills {
		logging.KillConfirmed(context.Background(), w.publisher, tick, kill.KillerID, kill.VictimID, string(kill.Weapon), kill.Headshot)
	}

	// 5. Blind timers run down independently of their source effect.
	for _, unit := range w.units {
		if unit.blindRemaining > 0 {
			unit.blindRemaining -= dt
			if unit.blindRemaining <= 0 {
				unit.blindRemaining = 0
				unit.Blinded = false
			}
		}
	}

	// 6. Utility effects: instant components on first tick, molotov burn,
	// expiry.
	for _, casualty := range w.effects.Advance(dt, w.units) {
		kill := KillRecord{
			Tick:       tick,
			KillerID:   casualty.effect.OwnerID,
			KillerTeam: casualty.effect.OwnerTeam,
			VictimID:   casualty.victim.ID,
			VictimTeam: casualty.victim.Team,
			Weapon:     WeaponID(casualty.effect.Kind),
		}
		w.killLog = append(w.killLog, kill)
		output.Kills = append(output.Kills, kill)
		output.Events = append(output.Events, newKillEvent(tick, kill))
	}

	// 7. Bomb objective.
	w.advanceObjective(dt, tick, output)

	// 8. Round end evaluation.
	if w.phase == PhaseLive || w.phase == PhasePostPlant {
		w.evaluateRoundEnd(tick, output)
	}
}

func (w *World) executeCommand(cmd Command, tick uint64, output *StepOutput) {
	unit := w.unitAt(cmd.Team, cmd.UnitIndex)
	if unit == nil || !unit.Alive {
		return
	}

	switch cmd.Type {
	case CommandMove, CommandRush:
		if cmd.Target == nil {
			return
		}
		w.orderMove(unit, *cmd.Target, cmd.Type == CommandRush)
	case CommandHold:
		unit.waypoints = nil
		unit.rushing = false
		unit.interruptObjective()
	case CommandRetreat:
		spawn := w.mapDef.AttackerSpawn
		if unit.Team == TeamDefenders {
			spawn = w.mapDef.DefenderSpawn
		}
		w.orderMove(unit, spawn.center(), true)
	case CommandRegroup:
		if target, ok := w.regroupPoint(unit); ok {
			w.orderMove(unit, target, false)
		}
	case CommandPlant:
		if unit.Team != TeamAttackers || !unit.HasBomb || w.bomb.Planted {
			return
		}
		unit.waypoints = nil
		unit.planting = true
		unit.PlantProgress = 0
	case CommandDefuse:
		if unit.Team != TeamDefenders || !w.bomb.Planted {
			return
		}
		unit.waypoints = nil
		unit.defusing = true
		unit.defuseProgress = 0
	case CommandUseUtility:
		w.throwUtility(unit, cmd, tick, output)
	}
}

// orderMove paths the unit to the target, smoothing the waypoints. When no
// path exists the unit falls back to walking the direct line.
func (w *World) orderMove(unit *soldierState, target vec2, rush bool) {
	unit.interruptObjective()
	unit.rushing = rush

	path := w.grid.findPath(unit.Position, target)
	if len(path) == 0 {
		unit.waypoints = []vec2{target}
		return
	}
	unit.waypoints = w.grid.smoothPath(path)
}

// regroupPoint is the centroid of the unit's living teammates.
func (w *World) regroupPoint(unit *soldierState) (vec2, bool) {
	var sum vec2
	count := 0
	for _, other := range w.units {
		if other.Team != unit.Team || other.ID == unit.ID || !other.Alive {
			continue
		}
		sum.X += other.Position.X
		sum.Y += other.Position.Y
		count++
	}
	if count == 0 {
		return vec2{}, false
	}
	return vec2{X: sum.X / float64(count), Y: sum.Y / float64(count)}, true
}

func (w *World) throwUtility(unit *soldierState, cmd Command, tick uint64, output *StepOutput) {
	if cmd.Utility == "" || !unit.hasUtility(cmd.Utility) {
		return
	}
	target := unit.Position
	if cmd.Target != nil {
		target = *cmd.Target
		if dist := distance(unit.Position, target); dist > maxThrowRange {
			// Land short along the throw line instead of rejecting.
			angle := bearing(unit.Position, target)
			target = vec2{
				X: unit.Position.X + maxThrowRange*math.Cos(angle),
				Y: unit.Position.Y + maxThrowRange*math.Sin(angle),
			}
		}
	}

	if !unit.consumeUtility(cmd.Utility) {
		return
	}
	effect, ok := w.effects.Throw(cmd.Utility, target, unit.ID, unit.Team)
	if !ok {
		return
	}
	output.Events = append(output.Events, newUtilityEvent(tick, effect))
}

// advanceMovement walks a unit along its waypoint queue at its stat-derived
// speed, halved while in combat.
func (w *World) advanceMovement(unit *soldierState, dt float64) {
	unit.lastMoveDist = 0
	if !unit.Alive || len(unit.waypoints) == 0 {
		return
	}

	speed := stats.MoveSpeed(unit.attributes)
	if unit.rushing {
		speed *= rushSpeedMultiplier
	}
	if unit.InCombat {
		speed *= combatSpeedMultiplier
	}

	budget := speed * dt
	moved := 0.0
	for budget > 0 && len(unit.waypoints) > 0 {
		next := unit.waypoints[0]
		stepDist := distance(unit.Position, next)
		if stepDist <= budget {
			unit.Position = next
			unit.waypoints = unit.waypoints[1:]
			budget -= stepDist
			moved += stepDist
			continue
		}
		t := budget / stepDist
		unit.Facing = bearing(unit.Position, next)
		unit.Position = vec2{
			X: unit.Position.X + (next.X-unit.Position.X)*t,
			Y: unit.Position.Y + (next.Y-unit.Position.Y)*t,
		}
		moved += budget
		budget = 0
	}
	if len(unit.waypoints) > 0 {
		unit.Facing = bearing(unit.Position, unit.waypoints[0])
	}
	if len(unit.waypoints) == 0 {
		unit.rushing = false
	}
	unit.lastMoveDist = moved
}

// advanceObjective runs bomb plant, defuse, and fuse progress for the tick.
func (w *World) advanceObjective(dt float64, tick uint64, output *StepOutput) {
	for _, unit := range w.units {
		if unit.Team != TeamAttackers {
			continue
		}
		if w.bomb.advancePlant(unit, dt) {
			w.phase = PhasePostPlant
			output.Events = append(output.Events, Event{
				Tick:     tick,
				Type:     EventBombPlanted,
				EntityID: unit.ID,
				Payload:  map[string]any{"site": w.bomb.Site, "x": w.bomb.Position.X, "y": w.bomb.Position.Y},
			})
			logging.ObjectiveProgress(context.Background(), w.publisher, tick, unit.ID, "planted", w.bomb.Site)
		}
	}

	for _, unit := range w.units {
		if unit.Team != TeamDefenders {
			continue
		}
		if w.bomb.advanceDefuse(unit, dt) {
			output.Events = append(output.Events, Event{
				Tick:     tick,
				Type:     EventBombDefused,
				EntityID: unit.ID,
				Payload:  map[string]any{"site": w.bomb.Site},
			})
			logging.ObjectiveProgress(context.Background(), w.publisher, tick, unit.ID, "defused", w.bomb.Site)
		}
	}

	if w.bomb.advanceTimer(dt) {
		killed := w.bomb.explosionDamage(w.units)
		output.Events = append(output.Events, Event{
			Tick:    tick,
			Type:    EventBombExploded,
			Payload: map[string]any{"site": w.bomb.Site, "casualties": killed},
		})
	}
}

// evaluateRoundEnd checks the four terminal conditions. Once the bomb is
// planted, eliminating the attackers no longer ends the round: the bomb has
// to be defused or allowed to detonate.
func (w *World) evaluateRoundEnd(tick uint64, output *StepOutput) {
	attackersAlive := 0
	defendersAlive := 0
	for _, unit := range w.units {
		if !unit.Alive {
			continue
		}
		if unit.Team == TeamAttackers {
			attackersAlive++
		} else {
			defendersAlive++
		}
	}

	switch {
	case w.bomb.Defused:
		w.endRound(TeamDefenders, RoundEndBombDefused, tick, output)
	case w.bomb.Exploded:
		w.endRound(TeamAttackers, RoundEndBombExploded, tick, output)
	case defendersAlive == 0:
		w.endRound(TeamAttackers, RoundEndDefendersEliminated, tick, output)
	case attackersAlive == 0 && !w.bomb.Planted:
		w.endRound(TeamDefenders, RoundEndAttackersEliminated, tick, output)
	case w.roundTime >= maxRoundSeconds && !w.bomb.Planted:
		w.endRound(TeamDefenders, RoundEndTimeExpired, tick, output)
	}
}

// endRound settles the economy exactly once per side, records the result,
// and advances the match state machine.
func (w *World) endRound(winner Team, reason RoundEndType, tick uint64, output *StepOutput) {
	result := RoundResult{
		Round:        w.round,
		Winner:       winner,
		Reason:       reason,
		BombPlanted:  w.bomb.Planted,
		BombDefused:  w.bomb.Defused,
		BombExploded: w.bomb.Exploded,
		Kills:        append([]KillRecord(nil), w.killLog...),
		DurationSec:  w.roundTime,
	}

	for roster := 0; roster < 2; roster++ {
		side := w.sideOfRoster(roster)
		update := computeEconomyUpdate(side, winner, w.economies[roster], result.Kills, result.BombPlanted, result.BombDefused)
		if err := w.economies[roster].Apply(&update); err != nil {
			logging.InvariantViolated(context.Background(), w.publisher, tick, err.Error())
		}
		w.economies[roster].TotalKills += countTeamKills(result.Kills, side)
		output.EconomyUpdates = append(output.EconomyUpdates, &update)
	}

	winnerRoster := w.rosterOfSide(winner)
	w.score[winnerRoster]++
	w.results = append(w.results, result)

	output.Events = append(output.Events, Event{
		Tick:    tick,
		Type:    EventRoundEnded,
		Payload: map[string]any{"round": result.Round, "winner": winner.String(), "reason": string(reason)},
	})
	output.RoundEnded = &result
	logging.RoundEnded(context.Background(), w.publisher, tick, result.Round, winner.String(), string(reason))

	if w.checkMatchEnd() {
		w.phase = PhaseMatchEnd
		output.MatchEnded = true
		return
	}

	// Half-time swap and overtime are full-reset boundaries.
	if w.round == roundsBeforeSwap && !w.swapped {
		w.swapped = true
		w.economies[0].resetForSwap()
		w.economies[1].resetForSwap()
	}
	if !w.overtime && w.score[0] == roundsToWin-1 && w.score[1] == roundsToWin-1 {
		w.overtime = true
		w.economies[0].resetForOvertime()
		w.economies[1].resetForOvertime()
	}

	w.phase = PhaseRoundEnd
	w.phaseRemain = roundEndSeconds
}

// checkMatchEnd applies the win condition: first to 13, and once tied at
// 12-12 the match continues until one roster leads by two.
func (w *World) checkMatchEnd() bool {
	for roster := 0; roster < 2; roster++ {
		other := 1 - roster
		if w.overtime {
			if w.score[roster] >= roundsToWin && w.score[roster] >= w.score[other]+2 {
				winner := roster
				w.matchWinner = &winner
				return true
			}
			continue
		}
		if w.score[roster] >= roundsToWin && w.score[other] < roundsToWin-1 {
			winner := roster
			w.matchWinner = &winner
			return true
		}
	}
	return false
}

func countTeamKills(kills []KillRecord, team Team) int {
	count := 0
	for _, kill := range kills {
		if kill.KillerTeam == team && kill.VictimTeam != team {
			count++
		}
	}
	return count
}

// Results returns the per-round records settled so far.
func (w *World) Results() []RoundResult {
	return append([]RoundResult(nil), w.results...)
}

// Score returns the match score for the given side as of the current swap
// state.
func (w *World) Score(side Team) int {
	return w.score[w.rosterOfSide(side)]
}

// Economy returns the current bank for a side.
func (w *World) Economy(side Team) TeamEconomy {
	return w.economies[w.rosterOfSide(side)]
}

// Phase exposes the current phase for transports and tests.
func (w *World) Phase() Phase {
	return w.phase
}

// CurrentRound is 1-based.
func (w *World) CurrentRound() int {
	return w.round
}
