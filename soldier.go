package server

import (
	"fmt"

	"tacstrike/server/stats"
)

// Team indexes the two sides of a match.
type Team uint8

const (
	TeamAttackers Team = 0
	TeamDefenders Team = 1
)

func (t Team) String() string {
	if t == TeamAttackers {
		return "attackers"
	}
	return "defenders"
}

func (t Team) opponent() Team {
	if t == TeamAttackers {
		return TeamDefenders
	}
	return TeamAttackers
}

// Soldier is the broadcast-friendly view of one unit. Own-side snapshots
// carry all of it; enemy snapshots are reduced (see snapshot.go).
type Soldier struct {
	ID            string        `json:"id"`
	Team          Team          `json:"team"`
	Index         int           `json:"index"`
	Position      vec2          `json:"position"`
	Facing        float64       `json:"facing"`
	Health        float64       `json:"health"`
	Alive         bool          `json:"alive"`
	Weapon        WeaponID      `json:"weapon"`
	Armor         ArmorTier     `json:"armor"`
	Helmet        bool          `json:"helmet"`
	Utility       []UtilityKind `json:"utility"`
	DefuseKit     bool          `json:"defuseKit"`
	HasBomb       bool          `json:"hasBomb"`
	Blinded       bool          `json:"blinded"`
	InCombat      bool          `json:"inCombat"`
	PlantProgress float64       `json:"plantProgress"`
}

// soldierState owns the tick-mutable simulation fields for one unit.
type soldierState struct {
	Soldier

	attributes stats.Bundle

	waypoints      []vec2
	rushing        bool
	detected       map[string]struct{}
	targetID       string
	shotsFired     int
	blindRemaining float64
	defuseProgress float64
	planting       bool
	defusing       bool
	lastMoveDist   float64
}

func soldierID(team Team, index int) string {
	return fmt.Sprintf("%s-%d", team, index)
}

func newSoldierState(team Team, index int, bundle stats.Bundle, pos vec2, facing float64) *soldierState {
	return &soldierState{
		Soldier: Soldier{
			ID:       soldierID(team, index),
			Team:     team,
			Index:    index,
			Position: pos,
			Facing:   facing,
			Health:   100,
			Alive:    true,
			Weapon:   WeaponPistol,
		},
		attributes: bundle,
		detected:   make(map[string]struct{}),
	}
}

// isMoving reports whether the unit advanced along its path this tick.
func (s *soldierState) isMoving() bool {
	return len(s.waypoints) > 0 && s.lastMoveDist > 0
}

// applyDamage subtracts health and, on a lethal hit, performs the single
// atomic death transition: the alive flag, waypoints, target, objective
// progress, and detected set all clear together. Returns true when the unit
// died from this application.
func (s *soldierState) applyDamage(amount float64) bool {
	if !s.Alive || amount <= 0 {
		return false
	}
	s.Health -= amount
	if s.Health > 0 {
		return false
	}
	s.Health = 0
	s.Alive = false
	s.waypoints = nil
	s.targetID = ""
	s.InCombat = false
	s.shotsFired = 0
	s.planting = false
	s.defusing = false
	s.PlantProgress = 0
	s.defuseProgress = 0
	s.Blinded = false
	s.blindRemaining = 0
	for id := range s.detected {
		delete(s.detected, id)
	}
	return true
}

// interruptObjective cancels any in-progress plant or defuse. No partial
// credit carries over.
func (s *soldierState) interruptObjective() {
	s.planting = false
	s.defusing = false
	s.PlantProgress = 0
	s.defuseProgress = 0
}

// resetForRound returns a surviving or dead unit to round-start state at the
// given spawn. Equipment handling follows the persistence rule in economy.go.
func (s *soldierState) resetForRound(pos vec2, facing float64, keepEquipment bool) {
	s.Position = pos
	s.Facing = facing
	s.Health = 100
	s.Alive = true
	s.waypoints = nil
	s.rushing = false
	s.targetID = ""
	s.InCombat = false
	s.shotsFired = 0
	s.Blinded = false
	s.blindRemaining = 0
	s.HasBomb = false
	s.interruptObjective()
	s.lastMoveDist = 0
	for id := range s.detected {
		delete(s.detected, id)
	}
	if !keepEquipment {
		s.Weapon = WeaponPistol
		s.Armor = ArmorNone
		s.Helmet = false
		s.Utility = nil
		s.DefuseKit = false
	}
}

// hasUtility reports whether the unit carries at least one of the kind.
func (s *soldierState) hasUtility(kind UtilityKind) bool {
	for _, u := range s.Utility {
		if u == kind {
			return true
		}
	}
	return false
}

// consumeUtility removes one carried item of the kind.
func (s *soldierState) consumeUtility(kind UtilityKind) bool {
	for i, u := range s.Utility {
		if u == kind {
			s.Utility = append(s.Utility[:i], s.Utility[i+1:]...)
			return true
		}
	}
	return false
}
