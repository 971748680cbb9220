package server

// EventType labels one entry in the per-tick event list consumed by
// rendering and transport collaborators.
type EventType string

const (
	EventShotFired    EventType = "shotFired"
	EventHit          EventType = "hit"
	EventKill         EventType = "kill"
	EventUtilityUsed  EventType = "utilityUsed"
	EventBombPlanted  EventType = "bombPlanted"
	EventBombDefused  EventType = "bombDefused"
	EventBombExploded EventType = "bombExploded"
	EventRoundEnded   EventType = "roundEnded"
)

// Event carries the minimal data a collaborator needs to render or log one
// occurrence. Payload keys are event-specific.
type Event struct {
	Tick     uint64         `json:"tick"`
	Type     EventType      `json:"type"`
	EntityID string         `json:"entityId,omitempty"`
	Payload  map[string]any `json:"payload,omitempty"`
}

func newShotEvent(tick uint64, shooterID, targetID string, weapon WeaponID) Event {
	return Event{
		Tick:     tick,
		Type:     EventShotFired,
		EntityID: shooterID,
		Payload:  map[string]any{"target": targetID, "weapon": string(weapon)},
	}
}

func newHitEvent(tick uint64, shooterID, targetID string, location HitLocation, damage, remaining float64) Event {
	return Event{
		Tick:     tick,
		Type:     EventHit,
		EntityID: targetID,
		Payload: map[string]any{
			"shooter":  shooterID,
			"location": string(location),
			"damage":   damage,
			"health":   remaining,
		},
	}
}

func newKillEvent(tick uint64, kill KillRecord) Event {
	return Event{
		Tick:     tick,
		Type:     EventKill,
		EntityID: kill.VictimID,
		Payload: map[string]any{
			"killer":   kill.KillerID,
			"weapon":   string(kill.Weapon),
			"headshot": kill.Headshot,
		},
	}
}

func newUtilityEvent(tick uint64, effect *UtilityEffect) Event {
	return Event{
		Tick:     tick,
		Type:     EventUtilityUsed,
		EntityID: effect.OwnerID,
		Payload: map[string]any{
			"kind":   string(effect.Kind),
			"effect": effect.ID,
			"x":      effect.Center.X,
			"y":      effect.Center.Y,
		},
	}
}

// RoundResult is the per-round record handed to history and summary
// consumers once a round settles.
type RoundResult struct {
	Round        int          `json:"round"`
	Winner       Team         `json:"winner"`
	Reason       RoundEndType `json:"reason"`
	BombPlanted  bool         `json:"bombPlanted"`
	BombDefused  bool         `json:"bombDefused"`
	BombExploded bool         `json:"bombExploded"`
	Kills        []KillRecord `json:"kills"`
	DurationSec  float64      `json:"durationSec"`
}

// RoundEndType enumerates why a round finished.
type RoundEndType string

const (
	RoundEndAttackersEliminated RoundEndType = "attackersEliminated"
	RoundEndDefendersEliminated RoundEndType = "defendersEliminated"
	RoundEndBombDefused         RoundEndType = "bombDefused"
	RoundEndBombExploded        RoundEndType = "bombExploded"
	RoundEndTimeExpired         RoundEndType = "timeExpired"
)
