package server

// EnemyView is the reduced field set a side receives for an opposing unit it
// currently detects. No attributes, no utility inventory, no objective
// progress.
type EnemyView struct {
	ID       string   `json:"id"`
	Team     Team     `json:"team"`
	Index    int      `json:"index"`
	Position vec2     `json:"position"`
	Facing   float64  `json:"facing"`
	Alive    bool     `json:"alive"`
	Weapon   WeaponID `json:"weapon"`
	HasBomb  bool     `json:"hasBomb"`
}

// BombView is the objective state both sides are entitled to: the plant is
// announced to everyone, the exact fuse is not hidden either.
type BombView struct {
	Planted     bool    `json:"planted"`
	Defused     bool    `json:"defused"`
	Exploded    bool    `json:"exploded"`
	Site        string  `json:"site,omitempty"`
	Position    *vec2   `json:"position,omitempty"`
	TimerRemain float64 `json:"timerRemain,omitempty"`
}

// SideSnapshot is the fog-of-war-filtered state for one side: own units in
// full, and only those enemies present in the union of the side's
// detected-enemy sets.
type SideSnapshot struct {
	Tick       uint64          `json:"tick"`
	Phase      Phase           `json:"phase"`
	Round      int             `json:"round"`
	RoundTime  float64         `json:"roundTime"`
	Side       Team            `json:"side"`
	OwnScore   int             `json:"ownScore"`
	EnemyScore int             `json:"enemyScore"`
	Economy    TeamEconomy     `json:"economy"`
	Units      []Soldier       `json:"units"`
	Enemies    []EnemyView     `json:"enemies"`
	Effects    []UtilityEffect `json:"effects"`
	Bomb       BombView        `json:"bomb"`
}

// SnapshotFor projects the world into what one side has earned visibility
// of. This is the only filtering step between the authoritative state and
// the transport layer.
func (w *World) SnapshotFor(side Team) SideSnapshot {
	snapshot := SideSnapshot{
		Tick:       w.currentTick,
		Phase:      w.phase,
		Round:      w.round,
		RoundTime:  w.roundTime,
		Side:       side,
		OwnScore:   w.Score(side),
		EnemyScore: w.Score(side.opponent()),
		Economy:    w.Economy(side),
		Effects:    w.effects.Snapshot(),
	}

	visible := make(map[string]struct{})
	for _, unit := range w.units {
		if unit.Team != side {
			continue
		}
		snapshot.Units = append(snapshot.Units, unit.Soldier)
		for id := range unit.detected {
			visible[id] = struct{}{}
		}
	}

	for _, unit := range w.units {
		if unit.Team == side {
			continue
		}
		if _, ok := visible[unit.ID]; !ok {
			continue
		}
		snapshot.Enemies = append(snapshot.Enemies, EnemyView{
			ID:       unit.ID,
			Team:     unit.Team,
			Index:    unit.Index,
			Position: unit.Position,
			Facing:   unit.Facing,
			Alive:    unit.Alive,
			Weapon:   unit.Weapon,
			HasBomb:  unit.HasBomb,
		})
	}

	snapshot.Bomb = BombView{
		Planted:  w.bomb.Planted,
		Defused:  w.bomb.Defused,
		Exploded: w.bomb.Exploded,
	}
	if w.bomb.Planted {
		pos := w.bomb.Position
		snapshot.Bomb.Site = w.bomb.Site
		snapshot.Bomb.Position = &pos
		snapshot.Bomb.TimerRemain = w.bomb.TimerRemain
	}

	return snapshot
}
