package logging

import (
	"context"
	"time"
)

const (
	EventRoundStarted      EventType = "lifecycle.round_started"
	EventRoundEnded        EventType = "lifecycle.round_ended"
	EventKillConfirmed     EventType = "combat.kill_confirmed"
	EventObjectiveProgress EventType = "objective.progress"
	EventInvariantViolated EventType = "system.invariant_violated"
)

// RoundStarted is published once per round at the buy phase boundary.
func RoundStarted(ctx context.Context, pub Publisher, tick uint64, round int, seed string) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, Event{
		Type:     EventRoundStarted,
		Tick:     tick,
		Time:     time.Now(),
		Severity: SeverityInfo,
		Category: CategoryGameplay,
		Payload:  map[string]any{"round": round, "seed": seed},
	})
}

// RoundEnded records the settled winner and reason for a round.
func RoundEnded(ctx context.Context, pub Publisher, tick uint64, round int, winner, reason string) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, Event{
		Type:     EventRoundEnded,
		Tick:     tick,
		Time:     time.Now(),
		Severity: SeverityInfo,
		Category: CategoryGameplay,
		Payload:  map[string]any{"round": round, "winner": winner, "reason": reason},
	})
}

// KillConfirmed mirrors a kill record into the log stream.
func KillConfirmed(ctx context.Context, pub Publisher, tick uint64, killer, victim, weapon string, headshot bool) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, Event{
		Type:     EventKillConfirmed,
		Tick:     tick,
		Time:     time.Now(),
		Actor:    EntityRef{ID: killer, Kind: "soldier"},
		Severity: SeverityInfo,
		Category: CategoryCombat,
		Payload:  map[string]any{"victim": victim, "weapon": weapon, "headshot": headshot},
	})
}

// ObjectiveProgress reports plant and defuse completions.
func ObjectiveProgress(ctx context.Context, pub Publisher, tick uint64, actor, action, site string) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, Event{
		Type:     EventObjectiveProgress,
		Tick:     tick,
		Time:     time.Now(),
		Actor:    EntityRef{ID: actor, Kind: "soldier"},
		Severity: SeverityInfo,
		Category: CategoryObjective,
		Payload:  map[string]any{"action": action, "site": site},
	})
}

// InvariantViolated surfaces a data-model bug loudly without crashing the
// tick loop.
func InvariantViolated(ctx context.Context, pub Publisher, tick uint64, detail string) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, Event{
		Type:     EventInvariantViolated,
		Tick:     tick,
		Time:     time.Now(),
		Severity: SeverityError,
		Category: CategorySystem,
		Payload:  map[string]any{"detail": detail},
	})
}
